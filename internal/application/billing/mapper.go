package billing

import (
	"github.com/jhoicas/Invoicing-api/internal/application/dto"
	"github.com/jhoicas/Invoicing-api/internal/domain/entity"
)

// toInvoiceResponse copia campo a campo la factura persistida. No recalcula totales:
// devuelve los valores guardados al crear.
func toInvoiceResponse(inv *entity.Invoice) dto.InvoiceResponse {
	items := make([]dto.InvoiceItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, dto.InvoiceItemResponse{
			ID:                 it.ID,
			ProductName:        it.ProductName,
			ProductDescription: it.ProductDescription,
			Quantity:           it.Quantity,
			UnitPrice:          it.UnitPrice,
			TotalPrice:         it.TotalPrice,
		})
	}
	return dto.InvoiceResponse{
		ID:              inv.ID,
		TransactionDate: inv.TransactionDate,
		CustomerName:    inv.CustomerName,
		CustomerEmail:   inv.CustomerEmail,
		CustomerPhone:   inv.CustomerPhone,
		Discount:        inv.Discount,
		TotalAmount:     inv.TotalAmount,
		BalanceAmount:   inv.BalanceAmount,
		CreatedAt:       inv.CreatedAt,
		Items:           items,
	}
}

package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Invoicing-api/internal/application/dto"
	"github.com/jhoicas/Invoicing-api/internal/domain/entity"
	"github.com/jhoicas/Invoicing-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// InvoiceService casos de uso de facturas: crear, consultar, listar y eliminar.
// No valida (el request llega validado) ni registra logs; los errores de persistencia se propagan envueltos.
type InvoiceService struct {
	repo     repository.InvoiceRepository
	txRunner InvoiceTxRunner
	now      func() time.Time
}

// NewInvoiceService construye el servicio.
func NewInvoiceService(repo repository.InvoiceRepository, txRunner InvoiceTxRunner) *InvoiceService {
	return &InvoiceService{repo: repo, txRunner: txRunner, now: time.Now}
}

// WithClock reemplaza el reloj usado para CreatedAt (tests).
func (s *InvoiceService) WithClock(now func() time.Time) *InvoiceService {
	s.now = now
	return s
}

// CreateInvoice calcula el total de cada línea y de la factura y guarda cabecera y líneas en una sola transacción.
// TotalAmount = Σ(UnitPrice * Quantity) - Discount; BalanceAmount = TotalAmount.
// Un total negativo (descuento mayor al subtotal) se guarda tal cual.
func (s *InvoiceService) CreateInvoice(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	// Precisión de microsegundos en UTC: lo mismo que devuelve el almacenamiento al leer.
	now := s.now().UTC().Truncate(time.Microsecond)

	inv := &entity.Invoice{
		TransactionDate: in.TransactionDate.UTC().Truncate(time.Microsecond),
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		CustomerPhone:   in.CustomerPhone,
		Discount:        in.Discount,
		CreatedAt:       now,
		Items:           make([]entity.InvoiceItem, 0, len(in.Items)),
	}

	subtotal := decimal.Zero
	for _, item := range in.Items {
		totalPrice := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(totalPrice)
		inv.Items = append(inv.Items, entity.InvoiceItem{
			ProductName:        item.ProductName,
			ProductDescription: item.ProductDescription,
			Quantity:           item.Quantity,
			UnitPrice:          item.UnitPrice,
			TotalPrice:         totalPrice,
		})
	}
	inv.TotalAmount = subtotal.Sub(in.Discount)
	inv.BalanceAmount = inv.TotalAmount

	err := s.txRunner.RunInvoices(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		return invoiceRepo.Insert(ctx, inv)
	})
	if err != nil {
		return nil, fmt.Errorf("crear factura: %w", err)
	}

	out := toInvoiceResponse(inv)
	return &out, nil
}

// GetInvoiceByID obtiene una factura con sus líneas. Devuelve (nil, nil) si no existe.
func (s *InvoiceService) GetInvoiceByID(ctx context.Context, id int64) (*dto.InvoiceResponse, error) {
	inv, err := s.repo.GetByIDWithItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener factura %d: %w", id, err)
	}
	if inv == nil {
		return nil, nil
	}
	out := toInvoiceResponse(inv)
	return &out, nil
}

// GetAllInvoices lista todas las facturas con sus líneas, más recientes primero.
// Sin facturas devuelve un slice vacío (no nil).
func (s *InvoiceService) GetAllInvoices(ctx context.Context) ([]dto.InvoiceResponse, error) {
	list, err := s.repo.ListWithItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar facturas: %w", err)
	}
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, toInvoiceResponse(inv))
	}
	return out, nil
}

// DeleteInvoice elimina la factura (y en cascada sus líneas).
// Devuelve false sin escribir nada si la factura no existe.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id int64) (bool, error) {
	deleted := false
	err := s.txRunner.RunInvoices(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		inv, err := invoiceRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return nil
		}
		if err := invoiceRepo.Delete(ctx, inv); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("eliminar factura %d: %w", id, err)
	}
	return deleted, nil
}

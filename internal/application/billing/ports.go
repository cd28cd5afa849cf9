package billing

import (
	"context"

	"github.com/jhoicas/Invoicing-api/internal/domain/entity"
	"github.com/jhoicas/Invoicing-api/internal/domain/repository"
)

// InvoiceTxRunner ejecuta fn dentro de una transacción con un repositorio atado a ella.
// Commit si fn retorna nil; rollback en cualquier otro caso.
type InvoiceTxRunner interface {
	RunInvoices(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error
}

// InvoicePDFGenerator genera la representación gráfica (PDF) de una factura con sus líneas.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice) ([]byte, error)
}

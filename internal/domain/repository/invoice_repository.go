package repository

import (
	"context"

	"github.com/jhoicas/Invoicing-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
// Las búsquedas devuelven (nil, nil) cuando el registro no existe.
type InvoiceRepository interface {
	// Insert persiste cabecera y líneas de forma atómica y asigna ID a la factura y a cada línea.
	Insert(ctx context.Context, invoice *entity.Invoice) error
	// GetByIDWithItems obtiene la factura con sus líneas cargadas en orden de inserción.
	GetByIDWithItems(ctx context.Context, id int64) (*entity.Invoice, error)
	// ListWithItems lista todas las facturas con sus líneas, más recientes primero (created_at DESC, id DESC).
	ListWithItems(ctx context.Context) ([]*entity.Invoice, error)
	// GetByID obtiene solo la cabecera (chequeo de existencia).
	GetByID(ctx context.Context, id int64) (*entity.Invoice, error)
	// Delete elimina la factura; las líneas se borran en cascada en el almacenamiento.
	Delete(ctx context.Context, invoice *entity.Invoice) error
}

// Package storage selecciona el adaptador de persistencia (PostgreSQL o SQLite) según la configuración.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/Invoicing-api/internal/application/billing"
	"github.com/jhoicas/Invoicing-api/internal/domain/repository"
	"github.com/jhoicas/Invoicing-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Invoicing-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/Invoicing-api/pkg/config"
)

// Backend agrupa lo que necesitan los casos de uso de facturación.
type Backend struct {
	Driver   string
	Invoices repository.InvoiceRepository
	TxRunner billing.InvoiceTxRunner

	migrate func(ctx context.Context) error
	close   func()
}

// Migrate aplica el esquema del driver configurado.
func (b *Backend) Migrate(ctx context.Context) error {
	return b.migrate(ctx)
}

// Close libera conexiones.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open abre el backend indicado por cfg.Driver.
func Open(ctx context.Context, cfg config.DBConfig) (*Backend, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return &Backend{
			Driver:   cfg.Driver,
			Invoices: postgres.NewInvoiceRepository(pool),
			TxRunner: postgres.NewTxRunner(pool),
			migrate: func(ctx context.Context) error {
				return postgres.Migrate(ctx, pool)
			},
			close: pool.Close,
		}, nil
	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Driver:   cfg.Driver,
			Invoices: sqlite.NewInvoiceRepository(store.DB()),
			TxRunner: sqlite.NewTxRunner(store),
			migrate:  store.Migrate,
			close:    func() { _ = store.Close() },
		}, nil
	default:
		return nil, fmt.Errorf("driver de base de datos desconocido: %q", cfg.Driver)
	}
}

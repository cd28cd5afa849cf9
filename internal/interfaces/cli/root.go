// Package cli implementa invoicectl, la herramienta de administración de facturas.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Invoicing-api/internal/application/billing"
	infrapdf "github.com/jhoicas/Invoicing-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Invoicing-api/internal/infrastructure/storage"
	"github.com/jhoicas/Invoicing-api/pkg/config"
	"github.com/jhoicas/Invoicing-api/pkg/logger"
)

var version = "1.0.0"

// options flags globales.
type options struct {
	sqlitePath string
	logLevel   string
}

// runtime lo que necesita cada subcomando ya construido.
type runtime struct {
	cfg      *config.Config
	log      *logger.Logger
	backend  *storage.Backend
	invoices *billing.InvoiceService
	pdf      *billing.PDFUseCase
}

func (r *runtime) close() {
	if r.backend != nil {
		r.backend.Close()
	}
}

// Execute corre el comando raíz y termina el proceso con código 1 si falla.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// NewRootCmd construye invoicectl con todos sus subcomandos.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "invoicectl",
		Short: "Administración de facturas (esquema, datos de prueba, consulta, PDF)",
		Long: `invoicectl opera sobre la misma base que la API.

La conexión se toma de las variables de entorno (DB_DRIVER, DATABASE_URL, SQLITE_PATH, ...)
o de un archivo .env en el directorio actual. --sqlite fuerza una base SQLite local.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.sqlitePath, "sqlite", "", "usar SQLite en esta ruta (ignora DB_DRIVER)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "nivel de log (trace, debug, info, warn, error)")

	cmd.AddCommand(
		migrateCmd(opts),
		seedCmd(opts),
		listCmd(opts),
		deleteCmd(opts),
		pdfCmd(opts),
	)
	return cmd
}

// open carga la configuración, abre la base y aplica el esquema si DB_AUTO_MIGRATE está activo.
func open(ctx context.Context, opts *options, migrate bool) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.sqlitePath != "" {
		cfg.DB.Driver = config.DriverSQLite
		cfg.DB.SQLitePath = opts.sqlitePath
	}
	if opts.logLevel != "" {
		cfg.App.LogLevel = opts.logLevel
	}

	log := logger.New(logger.Config{
		Env:    cfg.App.Env,
		Level:  cfg.App.LogLevel,
		Output: os.Stderr,
	}).WithComponent("invoicectl")

	backend, err := storage.Open(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if migrate || cfg.DB.AutoMigrate {
		if err := backend.Migrate(ctx); err != nil {
			backend.Close()
			return nil, fmt.Errorf("aplicar esquema: %w", err)
		}
	}

	return &runtime{
		cfg:      cfg,
		log:      log,
		backend:  backend,
		invoices: billing.NewInvoiceService(backend.Invoices, backend.TxRunner),
		pdf:      billing.NewPDFUseCase(backend.Invoices, infrapdf.NewMarotoPDFGenerator()),
	}, nil
}

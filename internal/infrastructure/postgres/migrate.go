package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate aplica los scripts de migrations/ en orden. Los scripts son idempotentes (IF NOT EXISTS).
func Migrate(ctx context.Context, q Querier) error {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("listar migraciones: %w", err)
	}
	sort.Strings(files)
	for _, f := range files {
		content, err := migrationsFS.ReadFile(f)
		if err != nil {
			return fmt.Errorf("leer migración %s: %w", f, err)
		}
		// Sin argumentos pgx usa el protocolo simple: admite varias sentencias por script.
		if _, err := q.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("aplicar migración %s: %w", f, err)
		}
	}
	return nil
}

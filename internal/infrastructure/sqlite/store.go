// Package sqlite implementa la persistencia de facturas sobre SQLite (modernc.org/sqlite, sin cgo).
// Montos como TEXT decimal exacto y fechas como microsegundos Unix (INTEGER).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registra el driver "sqlite"
)

// Store conexión SQLite compartida por repositorio y runner de transacciones.
type Store struct {
	db *sql.DB
}

// Open abre (o crea) la base en path con llaves foráneas activas en cada conexión.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite: ruta requerida")
	}
	dsn := filepath.Clean(path) +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: abrir: %w", err)
	}
	// Un solo escritor: evita SQLITE_BUSY entre transacciones concurrentes del pool.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return &Store{db: db}, nil
}

// DB expone el handle para construir repositorios.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close cierra la base.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Migrate aplica el esquema embebido.
func (s *Store) Migrate(ctx context.Context) error {
	return applyMigrations(ctx, s.db)
}

func toMicros(t time.Time) int64 {
	return t.UTC().UnixMicro()
}

func fromMicros(v int64) time.Time {
	return time.UnixMicro(v).UTC()
}

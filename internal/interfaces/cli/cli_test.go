package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Invoicing-api/internal/domain"
	"github.com/jhoicas/Invoicing-api/internal/interfaces/cli"
)

const seedYAML = `invoices:
  - transaction_date: 2024-03-01
    customer_name: Ana Pérez
    discount: "100.00"
    items:
      - product_name: Silla
        quantity: 2
        unit_price: "300.00"
      - product_name: Mesa
        quantity: 1
        unit_price: "400.00"
  - transaction_date: 2024-03-02
    customer_name: Los Andes
    items:
      - product_name: Resma
        quantity: 10
        unit_price: "4.75"
`

// run ejecuta invoicectl contra una base SQLite en dir y devuelve la salida estándar.
func run(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--sqlite", db, "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func setup(t *testing.T) (dir, db string) {
	t.Helper()
	dir = t.TempDir()
	t.Chdir(dir)
	return dir, filepath.Join(dir, "cli.db")
}

func TestMigrate(t *testing.T) {
	_, db := setup(t)

	out, err := run(t, db, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "esquema aplicado (sqlite)")
}

func TestSeedListDeletePDF(t *testing.T) {
	dir, db := setup(t)
	file := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(file, []byte(seedYAML), 0o600))

	out, err := run(t, db, "seed", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "factura 1 creada (Ana Pérez, total 900.00)")
	assert.Contains(t, out, "factura 2 creada (Los Andes, total 47.50)")

	out, err = run(t, db, "list")
	require.NoError(t, err)
	// La más reciente primero.
	assert.Regexp(t, regexp.MustCompile(`(?s)Los Andes.*Ana Pérez`), out)

	pdfPath := filepath.Join(dir, "f1.pdf")
	out, err = run(t, db, "pdf", "1", "-o", pdfPath)
	require.NoError(t, err)
	assert.Contains(t, out, pdfPath)
	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	out, err = run(t, db, "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "factura 1 eliminada")

	_, err = run(t, db, "delete", "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = run(t, db, "pdf", "1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSeed_ValidaAntesDeEscribir(t *testing.T) {
	dir, db := setup(t)
	file := filepath.Join(dir, "bad.yaml")
	bad := seedYAML + `  - transaction_date: 2024-03-03
    customer_name: ""
    items: []
`
	require.NoError(t, os.WriteFile(file, []byte(bad), 0o600))

	_, err := run(t, db, "seed", "-f", file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invoices[2]")

	out, err := run(t, db, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "(sin facturas)")
}

func TestDelete_IDInvalido(t *testing.T) {
	_, db := setup(t)

	_, err := run(t, db, "delete", "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

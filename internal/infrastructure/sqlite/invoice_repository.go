package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhoicas/Invoicing-api/internal/domain/entity"
	"github.com/jhoicas/Invoicing-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const (
	invoiceColumns = `id, transaction_date, customer_name, customer_email, customer_phone,
		discount, total_amount, balance_amount, created_at`
	itemColumns = `id, invoice_id, product_name, product_description, quantity, unit_price, total_price`
)

// querier lo común entre *sql.DB y *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowScanner lo común entre *sql.Row y *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// InvoiceRepo implementación de InvoiceRepository sobre SQLite (usable con db o tx).
type InvoiceRepo struct {
	q querier
}

// NewInvoiceRepository construye el adaptador. Pasar *sql.DB o *sql.Tx.
func NewInvoiceRepository(q querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Insert persiste cabecera y líneas. Si el repo está sobre *sql.DB abre su propia transacción.
func (r *InvoiceRepo) Insert(ctx context.Context, invoice *entity.Invoice) error {
	db, ok := r.q.(*sql.DB)
	if !ok {
		return insertInvoice(ctx, r.q, invoice)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert invoice: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := insertInvoice(ctx, tx, invoice); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert invoice: %w", err)
	}
	return nil
}

func insertInvoice(ctx context.Context, q querier, invoice *entity.Invoice) error {
	res, err := q.ExecContext(ctx, `
		INSERT INTO invoices (transaction_date, customer_name, customer_email, customer_phone,
		                      discount, total_amount, balance_amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		toMicros(invoice.TransactionDate), invoice.CustomerName, invoice.CustomerEmail, invoice.CustomerPhone,
		invoice.Discount.String(), invoice.TotalAmount.String(), invoice.BalanceAmount.String(),
		toMicros(invoice.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	invoice.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert invoice id: %w", err)
	}

	for i := range invoice.Items {
		it := &invoice.Items[i]
		res, err := q.ExecContext(ctx, `
			INSERT INTO invoice_items (invoice_id, product_name, product_description, quantity, unit_price, total_price)
			VALUES (?, ?, ?, ?, ?, ?)`,
			invoice.ID, it.ProductName, it.ProductDescription, it.Quantity,
			it.UnitPrice.String(), it.TotalPrice.String(),
		)
		if err != nil {
			return fmt.Errorf("insert invoice item %d: %w", i, err)
		}
		if it.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("insert invoice item %d id: %w", i, err)
		}
		it.InvoiceID = invoice.ID
	}
	return nil
}

// GetByID obtiene solo la cabecera de la factura.
func (r *InvoiceRepo) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = ?`, id)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetByIDWithItems obtiene la factura con sus líneas.
func (r *InvoiceRepo) GetByIDWithItems(ctx context.Context, id int64) (*entity.Invoice, error) {
	inv, err := r.GetByID(ctx, id)
	if err != nil || inv == nil {
		return inv, err
	}
	rows, err := r.q.QueryContext(ctx, `SELECT `+itemColumns+` FROM invoice_items WHERE invoice_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		inv.Items = append(inv.Items, it)
	}
	return inv, rows.Err()
}

// ListWithItems lista todas las facturas (más recientes primero) con sus líneas.
func (r *InvoiceRepo) ListWithItems(ctx context.Context) ([]*entity.Invoice, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	var list []*entity.Invoice
	byID := make(map[int64]*entity.Invoice)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
		byID[inv.ID] = inv
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	// Con una sola conexión abierta hay que liberar el cursor antes de la segunda consulta.
	_ = rows.Close()
	if len(list) == 0 {
		return list, nil
	}

	itemRows, err := r.q.QueryContext(ctx, `SELECT `+itemColumns+` FROM invoice_items ORDER BY invoice_id, id`)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		it, err := scanItem(itemRows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		if inv, ok := byID[it.InvoiceID]; ok {
			inv.Items = append(inv.Items, it)
		}
	}
	return list, itemRows.Err()
}

// Delete elimina la factura; invoice_items tiene ON DELETE CASCADE (foreign_keys activo en el DSN).
func (r *InvoiceRepo) Delete(ctx context.Context, invoice *entity.Invoice) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM invoices WHERE id = ?`, invoice.ID); err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

func scanInvoice(row rowScanner) (*entity.Invoice, error) {
	var inv entity.Invoice
	var txDate, createdAt int64
	err := row.Scan(
		&inv.ID, &txDate, &inv.CustomerName, &inv.CustomerEmail, &inv.CustomerPhone,
		&inv.Discount, &inv.TotalAmount, &inv.BalanceAmount, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	inv.TransactionDate = fromMicros(txDate)
	inv.CreatedAt = fromMicros(createdAt)
	return &inv, nil
}

func scanItem(row rowScanner) (entity.InvoiceItem, error) {
	var it entity.InvoiceItem
	err := row.Scan(&it.ID, &it.InvoiceID, &it.ProductName, &it.ProductDescription, &it.Quantity, &it.UnitPrice, &it.TotalPrice)
	return it, err
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Invoicing-api/internal/domain/entity"
	"github.com/jhoicas/Invoicing-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

const (
	invoiceColumns = `id, transaction_date, customer_name, customer_email, customer_phone,
		       discount, total_amount, balance_amount, created_at`
	itemColumns = `id, invoice_id, product_name, product_description, quantity, unit_price, total_price`
)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Insert persiste cabecera y líneas. Con pool abre su propia transacción; con tx usa un savepoint,
// así la escritura es atómica en ambos casos.
func (r *InvoiceRepo) Insert(ctx context.Context, invoice *entity.Invoice) error {
	tx, err := r.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin insert invoice: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO invoices (transaction_date, customer_name, customer_email, customer_phone,
		                      discount, total_amount, balance_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err = tx.QueryRow(ctx, query,
		invoice.TransactionDate, invoice.CustomerName, invoice.CustomerEmail, invoice.CustomerPhone,
		invoice.Discount, invoice.TotalAmount, invoice.BalanceAmount, invoice.CreatedAt,
	).Scan(&invoice.ID)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}

	if len(invoice.Items) > 0 {
		batch := &pgx.Batch{}
		for i := range invoice.Items {
			it := &invoice.Items[i]
			batch.Queue(`
				INSERT INTO invoice_items (invoice_id, product_name, product_description, quantity, unit_price, total_price)
				VALUES ($1, $2, $3, $4, $5, $6)
				RETURNING id`,
				invoice.ID, it.ProductName, it.ProductDescription, it.Quantity, it.UnitPrice, it.TotalPrice,
			)
		}
		br := tx.SendBatch(ctx, batch)
		for i := range invoice.Items {
			if err := br.QueryRow().Scan(&invoice.Items[i].ID); err != nil {
				_ = br.Close()
				return fmt.Errorf("insert invoice item %d: %w", i, err)
			}
			invoice.Items[i].InvoiceID = invoice.ID
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("insert invoice items: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene solo la cabecera de la factura.
func (r *InvoiceRepo) GetByID(ctx context.Context, id int64) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
	query := `SELECT ` + itemColumns + ` FROM invoice_items WHERE invoice_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, id)
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

// ListWithItems lista todas las facturas (más recientes primero) y carga sus líneas con una segunda consulta.
func (r *InvoiceRepo) ListWithItems(ctx context.Context) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY created_at DESC, id DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	var list []*entity.Invoice
	byID := make(map[int64]*entity.Invoice)
	ids := make([]int64, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
		byID[inv.ID] = inv
		ids = append(ids, inv.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	if len(ids) == 0 {
		return list, nil
	}

	itemsQuery := `SELECT ` + itemColumns + ` FROM invoice_items WHERE invoice_id = ANY($1) ORDER BY invoice_id, id`
	itemRows, err := r.q.Query(ctx, itemsQuery, ids)
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

// Delete elimina la factura; invoice_items tiene ON DELETE CASCADE.
func (r *InvoiceRepo) Delete(ctx context.Context, invoice *entity.Invoice) error {
	_, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, invoice.ID)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.TransactionDate, &inv.CustomerName, &inv.CustomerEmail, &inv.CustomerPhone,
		&inv.Discount, &inv.TotalAmount, &inv.BalanceAmount, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.TransactionDate = utc(inv.TransactionDate)
	inv.CreatedAt = utc(inv.CreatedAt)
	return &inv, nil
}

func scanItem(row pgx.Row) (entity.InvoiceItem, error) {
	var it entity.InvoiceItem
	err := row.Scan(&it.ID, &it.InvoiceID, &it.ProductName, &it.ProductDescription, &it.Quantity, &it.UnitPrice, &it.TotalPrice)
	return it, err
}

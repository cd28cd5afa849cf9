package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice representa la cabecera de una factura y es dueña exclusiva de sus líneas.
// TotalAmount y BalanceAmount se calculan una sola vez al crear; no se recalculan al leer.
type Invoice struct {
	ID              int64
	TransactionDate time.Time
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	Discount        decimal.Decimal
	TotalAmount     decimal.Decimal // suma de TotalPrice de las líneas menos Discount (puede ser negativo)
	BalanceAmount   decimal.Decimal // igual a TotalAmount al crear; no hay registro de pagos
	CreatedAt       time.Time
	Items           []InvoiceItem
}

package entity

import "github.com/shopspring/decimal"

// InvoiceItem representa una línea de una factura.
// InvoiceID es solo la llave foránea hacia la cabecera; no hay puntero de vuelta.
type InvoiceItem struct {
	ID                 int64
	InvoiceID          int64
	ProductName        string
	ProductDescription string
	Quantity           int
	UnitPrice          decimal.Decimal
	TotalPrice         decimal.Decimal // Quantity * UnitPrice al momento de crear
}

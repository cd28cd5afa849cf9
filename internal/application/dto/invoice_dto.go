package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	TransactionDate time.Time            `json:"transaction_date"`
	CustomerName    string               `json:"customer_name"`
	CustomerEmail   string               `json:"customer_email,omitempty"`
	CustomerPhone   string               `json:"customer_phone,omitempty"`
	Discount        decimal.Decimal      `json:"discount"`
	Items           []InvoiceItemRequest `json:"items"`
}

// InvoiceItemRequest línea de factura (producto, cantidad, precio unitario).
type InvoiceItemRequest struct {
	ProductName        string          `json:"product_name"`
	ProductDescription string          `json:"product_description,omitempty"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
}

// InvoiceResponse factura con líneas para GET /api/invoices y GET /api/invoices/:id.
type InvoiceResponse struct {
	ID              int64                 `json:"id"`
	TransactionDate time.Time             `json:"transaction_date"`
	CustomerName    string                `json:"customer_name"`
	CustomerEmail   string                `json:"customer_email"`
	CustomerPhone   string                `json:"customer_phone"`
	Discount        decimal.Decimal       `json:"discount"`
	TotalAmount     decimal.Decimal       `json:"total_amount"`
	BalanceAmount   decimal.Decimal       `json:"balance_amount"`
	CreatedAt       time.Time             `json:"created_at"`
	Items           []InvoiceItemResponse `json:"items"`
}

// InvoiceItemResponse línea de factura en la respuesta.
type InvoiceItemResponse struct {
	ID                 int64           `json:"id"`
	ProductName        string          `json:"product_name"`
	ProductDescription string          `json:"product_description"`
	Quantity           int             `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	TotalPrice         decimal.Decimal `json:"total_price"`
}

// CreateInvoiceResponse envoltorio de la respuesta 201 de POST /api/invoices.
type CreateInvoiceResponse struct {
	Success bool             `json:"success"`
	Data    *InvoiceResponse `json:"data"`
	Message string           `json:"message"`
}

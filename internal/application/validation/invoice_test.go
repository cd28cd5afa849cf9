package validation_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Invoicing-api/internal/application/dto"
	"github.com/jhoicas/Invoicing-api/internal/application/validation"
)

func validRequest() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		TransactionDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		CustomerName:    "Ana Pérez",
		CustomerEmail:   "ana@example.com",
		CustomerPhone:   "3001234567",
		Discount:        decimal.RequireFromString("5.00"),
		Items: []dto.InvoiceItemRequest{
			{ProductName: "Teclado", Quantity: 2, UnitPrice: decimal.RequireFromString("10.50")},
		},
	}
}

// fields devuelve los nombres de campo con error.
func fields(errs validation.Errors) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestValidateCreateInvoice_RequestValido(t *testing.T) {
	assert.Nil(t, validation.ValidateCreateInvoice(validRequest()))
}

func TestValidateCreateInvoice_OpcionalesVacios(t *testing.T) {
	in := validRequest()
	in.CustomerEmail = ""
	in.CustomerPhone = ""
	in.Discount = decimal.Zero
	in.Items[0].ProductDescription = ""
	assert.Nil(t, validation.ValidateCreateInvoice(in))
}

// ── Cabecera ──────────────────────────────────────────────────────────────────

func TestValidateCreateInvoice_Cabecera(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.CreateInvoiceRequest)
		field  string
	}{
		{"fecha requerida", func(r *dto.CreateInvoiceRequest) { r.TransactionDate = time.Time{} }, "transaction_date"},
		{"nombre vacío", func(r *dto.CreateInvoiceRequest) { r.CustomerName = "" }, "customer_name"},
		{"nombre solo espacios", func(r *dto.CreateInvoiceRequest) { r.CustomerName = "   " }, "customer_name"},
		{"nombre largo", func(r *dto.CreateInvoiceRequest) { r.CustomerName = strings.Repeat("a", 101) }, "customer_name"},
		{"email inválido", func(r *dto.CreateInvoiceRequest) { r.CustomerEmail = "no-es-email" }, "customer_email"},
		{"email largo", func(r *dto.CreateInvoiceRequest) {
			r.CustomerEmail = strings.Repeat("a", 195) + "@x.com"
		}, "customer_email"},
		{"teléfono largo", func(r *dto.CreateInvoiceRequest) { r.CustomerPhone = "1234567890123456" }, "customer_phone"},
		{"descuento negativo", func(r *dto.CreateInvoiceRequest) { r.Discount = decimal.NewFromInt(-1) }, "discount"},
		{"descuento con 3 decimales", func(r *dto.CreateInvoiceRequest) {
			r.Discount = decimal.RequireFromString("1.005")
		}, "discount"},
		{"descuento fuera de rango", func(r *dto.CreateInvoiceRequest) {
			r.Discount = decimal.RequireFromString("10000000000000000")
		}, "discount"},
		{"sin líneas", func(r *dto.CreateInvoiceRequest) { r.Items = nil }, "items"},
		{"suma de líneas fuera de rango", func(r *dto.CreateInvoiceRequest) {
			big := dto.InvoiceItemRequest{ProductName: "Lote", Quantity: 1, UnitPrice: decimal.RequireFromString("6000000000000000.00")}
			r.Items = []dto.InvoiceItemRequest{big, big}
		}, "items"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRequest()
			tt.mutate(&in)
			errs := validation.ValidateCreateInvoice(in)
			require.NotNil(t, errs)
			assert.Equal(t, []string{tt.field}, fields(errs))
		})
	}
}

func TestValidateCreateInvoice_LimitesExactosSonValidos(t *testing.T) {
	in := validRequest()
	// 100 runas, no bytes: las tildes no cuentan doble.
	in.CustomerName = strings.Repeat("ñ", validation.MaxCustomerNameLen)
	in.CustomerPhone = strings.Repeat("9", validation.MaxCustomerPhoneLen)
	in.Items[0].ProductName = strings.Repeat("é", validation.MaxProductNameLen)
	in.Items[0].ProductDescription = strings.Repeat("d", validation.MaxProductDescriptionLen)
	assert.Nil(t, validation.ValidateCreateInvoice(in))
}

func TestValidateCreateInvoice_MontosEnLaCotaSonValidos(t *testing.T) {
	maxMoney := decimal.RequireFromString("9999999999999999.99")

	in := validRequest()
	in.Discount = maxMoney
	in.Items = []dto.InvoiceItemRequest{
		{ProductName: "Unidades", Quantity: validation.MaxQuantity, UnitPrice: decimal.RequireFromString("0.01")},
	}
	assert.Nil(t, validation.ValidateCreateInvoice(in))

	in.Items = []dto.InvoiceItemRequest{{ProductName: "Lote", Quantity: 1, UnitPrice: maxMoney}}
	assert.Nil(t, validation.ValidateCreateInvoice(in))
}

// ── Líneas ────────────────────────────────────────────────────────────────────

func TestValidateCreateInvoice_Lineas(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.InvoiceItemRequest)
		field  string
	}{
		{"producto vacío", func(it *dto.InvoiceItemRequest) { it.ProductName = "" }, "items[1].product_name"},
		{"producto largo", func(it *dto.InvoiceItemRequest) { it.ProductName = strings.Repeat("p", 101) }, "items[1].product_name"},
		{"descripción larga", func(it *dto.InvoiceItemRequest) {
			it.ProductDescription = strings.Repeat("d", 501)
		}, "items[1].product_description"},
		{"cantidad cero", func(it *dto.InvoiceItemRequest) { it.Quantity = 0 }, "items[1].quantity"},
		{"cantidad negativa", func(it *dto.InvoiceItemRequest) { it.Quantity = -3 }, "items[1].quantity"},
		{"precio cero", func(it *dto.InvoiceItemRequest) { it.UnitPrice = decimal.Zero }, "items[1].unit_price"},
		{"precio negativo", func(it *dto.InvoiceItemRequest) { it.UnitPrice = decimal.NewFromInt(-2) }, "items[1].unit_price"},
		{"precio con 3 decimales", func(it *dto.InvoiceItemRequest) {
			it.UnitPrice = decimal.RequireFromString("0.001")
		}, "items[1].unit_price"},
		{"cantidad fuera de INTEGER", func(it *dto.InvoiceItemRequest) { it.Quantity = 3_000_000_000 }, "items[1].quantity"},
		{"precio fuera de NUMERIC(18,2)", func(it *dto.InvoiceItemRequest) {
			it.UnitPrice = decimal.RequireFromString("100000000000000000.00")
		}, "items[1].unit_price"},
		{"precio en la cota", func(it *dto.InvoiceItemRequest) { it.UnitPrice = validation.MaxMoneyAmount }, "items[1].unit_price"},
		{"total de línea fuera de rango", func(it *dto.InvoiceItemRequest) {
			it.Quantity = 2
			it.UnitPrice = decimal.RequireFromString("5000000000000000.00")
		}, "items[1].total_price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRequest()
			second := dto.InvoiceItemRequest{ProductName: "Mouse", Quantity: 1, UnitPrice: decimal.RequireFromString("0.01")}
			tt.mutate(&second)
			in.Items = append(in.Items, second)

			errs := validation.ValidateCreateInvoice(in)
			require.NotNil(t, errs)
			assert.Equal(t, []string{tt.field}, fields(errs))
		})
	}
}

func TestValidateCreateInvoice_AcumulaErrores(t *testing.T) {
	in := dto.CreateInvoiceRequest{
		Items: []dto.InvoiceItemRequest{{}},
	}
	errs := validation.ValidateCreateInvoice(in)
	assert.ElementsMatch(t, []string{
		"transaction_date",
		"customer_name",
		"items[0].product_name",
		"items[0].quantity",
		"items[0].unit_price",
	}, fields(errs))
}

func TestErrors_Error(t *testing.T) {
	errs := validation.Errors{
		{Field: "customer_name", Message: "requerido"},
		{Field: "items", Message: "vacío"},
	}
	assert.Equal(t, "validación fallida: customer_name: requerido; items: vacío", errs.Error())
}

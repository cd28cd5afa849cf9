// Package validation valida los requests antes de llegar a los casos de uso.
// Los casos de uso asumen entrada bien formada; el transporte (HTTP, CLI) llama a estas funciones primero.
package validation

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"
	"github.com/jhoicas/Invoicing-api/internal/application/dto"
	"github.com/shopspring/decimal"
)

// Límites de longitud (en caracteres) de los campos de la factura.
const (
	MaxCustomerNameLen       = 100
	MaxCustomerEmailLen      = 200
	MaxCustomerPhoneLen      = 15
	MaxProductNameLen        = 100
	MaxProductDescriptionLen = 500

	// moneyScale decimales que admite el almacenamiento (NUMERIC(18,2)).
	moneyScale = 2

	// MaxQuantity la columna quantity es INTEGER (32 bits).
	MaxQuantity = math.MaxInt32
)

// MaxMoneyAmount cota exclusiva de cualquier monto: NUMERIC(18,2) deja 16 dígitos enteros.
var MaxMoneyAmount = decimal.New(1, 16)

// Errors lista de errores por campo. Vacía = request válido.
type Errors []dto.FieldError

// Error implementa error.
func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validación fallida: " + strings.Join(parts, "; ")
}

func (e *Errors) add(field, format string, args ...any) {
	*e = append(*e, dto.FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// ValidateCreateInvoice valida el body de creación de factura.
// Devuelve nil si el request es válido.
func ValidateCreateInvoice(in dto.CreateInvoiceRequest) Errors {
	var errs Errors

	if in.TransactionDate.IsZero() {
		errs.add("transaction_date", "la fecha de transacción es requerida")
	}

	name := strings.TrimSpace(in.CustomerName)
	switch {
	case name == "":
		errs.add("customer_name", "el nombre del cliente es requerido")
	case utf8.RuneCountInString(in.CustomerName) > MaxCustomerNameLen:
		errs.add("customer_name", "el nombre del cliente no puede superar %d caracteres", MaxCustomerNameLen)
	}

	if in.CustomerEmail != "" {
		if utf8.RuneCountInString(in.CustomerEmail) > MaxCustomerEmailLen {
			errs.add("customer_email", "el email no puede superar %d caracteres", MaxCustomerEmailLen)
		} else if !govalidator.IsEmail(in.CustomerEmail) {
			errs.add("customer_email", "formato de email inválido")
		}
	}

	if utf8.RuneCountInString(in.CustomerPhone) > MaxCustomerPhoneLen {
		errs.add("customer_phone", "el teléfono no puede superar %d caracteres", MaxCustomerPhoneLen)
	}

	switch {
	case in.Discount.IsNegative():
		errs.add("discount", "el descuento no puede ser negativo")
	case !hasMoneyScale(in.Discount):
		errs.add("discount", "el descuento admite máximo %d decimales", moneyScale)
	case !inMoneyRange(in.Discount):
		errs.add("discount", "el descuento excede el máximo permitido")
	}

	if len(in.Items) == 0 {
		errs.add("items", "se requiere al menos una línea")
	}
	subtotal := decimal.Zero
	subtotalOK := true
	for i, item := range in.Items {
		prefix := fmt.Sprintf("items[%d].", i)

		switch {
		case strings.TrimSpace(item.ProductName) == "":
			errs.add(prefix+"product_name", "el nombre del producto es requerido")
		case utf8.RuneCountInString(item.ProductName) > MaxProductNameLen:
			errs.add(prefix+"product_name", "el nombre del producto no puede superar %d caracteres", MaxProductNameLen)
		}
		if utf8.RuneCountInString(item.ProductDescription) > MaxProductDescriptionLen {
			errs.add(prefix+"product_description", "la descripción no puede superar %d caracteres", MaxProductDescriptionLen)
		}
		quantityOK := false
		switch {
		case item.Quantity < 1:
			errs.add(prefix+"quantity", "la cantidad debe ser al menos 1")
		case item.Quantity > MaxQuantity:
			errs.add(prefix+"quantity", "la cantidad no puede superar %d", MaxQuantity)
		default:
			quantityOK = true
		}
		priceOK := false
		switch {
		case !item.UnitPrice.IsPositive():
			errs.add(prefix+"unit_price", "el precio unitario debe ser mayor que 0")
		case !hasMoneyScale(item.UnitPrice):
			errs.add(prefix+"unit_price", "el precio unitario admite máximo %d decimales", moneyScale)
		case !inMoneyRange(item.UnitPrice):
			errs.add(prefix+"unit_price", "el precio unitario excede el máximo permitido")
		default:
			priceOK = true
		}

		if !quantityOK || !priceOK {
			subtotalOK = false
			continue
		}
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		if !inMoneyRange(lineTotal) {
			errs.add(prefix+"total_price", "el total de la línea excede el máximo permitido")
			subtotalOK = false
			continue
		}
		subtotal = subtotal.Add(lineTotal)
	}

	// total = subtotal - descuento; con ambos en rango y no negativos el total también cabe.
	if subtotalOK && len(in.Items) > 0 && !inMoneyRange(subtotal) {
		errs.add("items", "la suma de las líneas excede el máximo permitido")
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func hasMoneyScale(d decimal.Decimal) bool {
	return d.Equal(d.Round(moneyScale))
}

func inMoneyRange(d decimal.Decimal) bool {
	return d.Abs().LessThan(MaxMoneyAmount)
}

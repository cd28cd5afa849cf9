// Package fixtures lee archivos YAML con facturas de ejemplo para poblar la base.
//
// Formato:
//
//	invoices:
//	  - transaction_date: 2024-03-01        # YYYY-MM-DD o RFC3339
//	    customer_name: Ana Pérez
//	    customer_email: ana@example.com
//	    discount: "5.00"
//	    items:
//	      - product_name: Teclado
//	        quantity: 2
//	        unit_price: "10.50"
//
// Los montos se escriben como texto para no pasar por float.
package fixtures

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jhoicas/Invoicing-api/internal/application/dto"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

type file struct {
	Invoices []invoiceYAML `yaml:"invoices"`
}

type invoiceYAML struct {
	TransactionDate string     `yaml:"transaction_date"`
	CustomerName    string     `yaml:"customer_name"`
	CustomerEmail   string     `yaml:"customer_email"`
	CustomerPhone   string     `yaml:"customer_phone"`
	Discount        string     `yaml:"discount"`
	Items           []itemYAML `yaml:"items"`
}

type itemYAML struct {
	ProductName        string `yaml:"product_name"`
	ProductDescription string `yaml:"product_description"`
	Quantity           int    `yaml:"quantity"`
	UnitPrice          string `yaml:"unit_price"`
}

// Load lee y convierte el archivo en requests de creación.
func Load(path string) ([]dto.CreateInvoiceRequest, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("fixtures: leer %s: %w", path, err)
	}
	return Parse(data)
}

// Parse convierte el contenido YAML en requests de creación. No valida reglas de negocio.
func Parse(data []byte) ([]dto.CreateInvoiceRequest, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("fixtures: archivo vacío")
		}
		return nil, fmt.Errorf("fixtures: yaml inválido: %w", err)
	}

	out := make([]dto.CreateInvoiceRequest, 0, len(f.Invoices))
	for i, raw := range f.Invoices {
		req, err := raw.toRequest()
		if err != nil {
			return nil, fmt.Errorf("fixtures: invoices[%d]: %w", i, err)
		}
		out = append(out, req)
	}
	return out, nil
}

func (r invoiceYAML) toRequest() (dto.CreateInvoiceRequest, error) {
	txDate, err := parseDate(r.TransactionDate)
	if err != nil {
		return dto.CreateInvoiceRequest{}, err
	}
	discount, err := parseMoney(r.Discount)
	if err != nil {
		return dto.CreateInvoiceRequest{}, fmt.Errorf("discount: %w", err)
	}

	req := dto.CreateInvoiceRequest{
		TransactionDate: txDate,
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,
		Discount:        discount,
		Items:           make([]dto.InvoiceItemRequest, 0, len(r.Items)),
	}
	for j, it := range r.Items {
		price, err := parseMoney(it.UnitPrice)
		if err != nil {
			return dto.CreateInvoiceRequest{}, fmt.Errorf("items[%d].unit_price: %w", j, err)
		}
		req.Items = append(req.Items, dto.InvoiceItemRequest{
			ProductName:        it.ProductName,
			ProductDescription: it.ProductDescription,
			Quantity:           it.Quantity,
			UnitPrice:          price,
		})
	}
	return req, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("transaction_date requerido")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("transaction_date %q: use YYYY-MM-DD o RFC3339", s)
	}
	return t, nil
}

// parseMoney vacío = 0.
func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("monto inválido %q", s)
	}
	return d, nil
}

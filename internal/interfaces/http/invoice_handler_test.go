package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Invoicing-api/internal/application/billing"
	"github.com/jhoicas/Invoicing-api/internal/application/dto"
	"github.com/jhoicas/Invoicing-api/internal/domain/repository"
	infrapdf "github.com/jhoicas/Invoicing-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Invoicing-api/internal/infrastructure/sqlite"
	apphttp "github.com/jhoicas/Invoicing-api/internal/interfaces/http"
	"github.com/jhoicas/Invoicing-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp monta el router completo sobre una base SQLite temporal.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "http.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	repo := sqlite.NewInvoiceRepository(store.DB())
	return buildAppWith(
		billing.NewInvoiceService(repo, sqlite.NewTxRunner(store)),
		billing.NewPDFUseCase(repo, infrapdf.NewMarotoPDFGenerator()),
	)
}

func buildAppWith(svc *billing.InvoiceService, pdf *billing.PDFUseCase) *fiber.App {
	app := fiber.New()
	app.Use(apphttp.RequestLogger(logger.Nop()))
	app.Use(recover.New())
	apphttp.Router(app, apphttp.RouterDeps{
		Invoices:   svc,
		InvoicePDF: pdf,
		Logger:     logger.Nop(),
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target string, body []byte) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

const validBody = `{
	"transaction_date": "2024-03-01T10:00:00Z",
	"customer_name": "Ana Pérez",
	"customer_email": "ana@example.com",
	"discount": 100.00,
	"items": [
		{"product_name": "Silla", "quantity": 2, "unit_price": 300.00},
		{"product_name": "Mesa", "product_description": "Roble", "quantity": 1, "unit_price": "400.00"}
	]
}`

func createInvoice(t *testing.T, app *fiber.App) dto.InvoiceResponse {
	t.Helper()
	resp := doRequest(t, app, http.MethodPost, "/api/invoices", []byte(validBody))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var out dto.CreateInvoiceResponse
	decode(t, resp, &out)
	require.NotNil(t, out.Data)
	return *out.Data
}

// ──────────────────────────────────────────────────────────────────────────────
// POST /api/invoices
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_Responde201ConEnvoltorio(t *testing.T) {
	app := buildTestApp(t)

	resp := doRequest(t, app, http.MethodPost, "/api/invoices", []byte(validBody))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderRequestID))

	var out dto.CreateInvoiceResponse
	decode(t, resp, &out)
	assert.True(t, out.Success)
	assert.NotEmpty(t, out.Message)
	require.NotNil(t, out.Data)
	assert.Equal(t, "/api/invoices/"+strconv.FormatInt(out.Data.ID, 10), resp.Header.Get(fiber.HeaderLocation))
	assert.True(t, decimal.RequireFromString("900").Equal(out.Data.TotalAmount), "total = %s", out.Data.TotalAmount)
	assert.True(t, out.Data.BalanceAmount.Equal(out.Data.TotalAmount))
	require.Len(t, out.Data.Items, 2)
	assert.Equal(t, "Silla", out.Data.Items[0].ProductName)
	assert.True(t, decimal.RequireFromString("600").Equal(out.Data.Items[0].TotalPrice))
}

func TestCreate_CuerpoInvalido(t *testing.T) {
	app := buildTestApp(t)

	resp := doRequest(t, app, http.MethodPost, "/api/invoices", []byte(`{"customer_name":`))
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, "INVALID_BODY", out.Code)
}

func TestCreate_ErroresDeValidacionPorCampo(t *testing.T) {
	app := buildTestApp(t)
	body := `{
		"transaction_date": "2024-03-01T10:00:00Z",
		"customer_name": "",
		"customer_email": "no-es-email",
		"items": [{"product_name": "Silla", "quantity": 0, "unit_price": 10}]
	}`

	resp := doRequest(t, app, http.MethodPost, "/api/invoices", []byte(body))
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var out dto.ValidationErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, "VALIDATION", out.Code)
	got := make([]string, 0, len(out.Errors))
	for _, fe := range out.Errors {
		got = append(got, fe.Field)
	}
	assert.ElementsMatch(t, []string{"customer_name", "customer_email", "items[0].quantity"}, got)

	// Nada se persiste si la validación falla.
	list := doRequest(t, app, http.MethodGet, "/api/invoices", nil)
	var invoices []dto.InvoiceResponse
	decode(t, list, &invoices)
	assert.Empty(t, invoices)
}

func TestCreate_MontosFueraDeRangoSon400(t *testing.T) {
	app := buildTestApp(t)
	body := `{
		"transaction_date": "2024-03-01T10:00:00Z",
		"customer_name": "Ana Pérez",
		"items": [
			{"product_name": "Silla", "quantity": 3000000000, "unit_price": 1},
			{"product_name": "Mesa", "quantity": 1, "unit_price": "100000000000000000.00"}
		]
	}`

	resp := doRequest(t, app, http.MethodPost, "/api/invoices", []byte(body))
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var out dto.ValidationErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, "VALIDATION", out.Code)
	got := make([]string, 0, len(out.Errors))
	for _, fe := range out.Errors {
		got = append(got, fe.Field)
	}
	assert.ElementsMatch(t, []string{"items[0].quantity", "items[1].unit_price"}, got)
}

func TestCreate_ErrorInternoNoExponeDetalle(t *testing.T) {
	app := buildAppWith(billing.NewInvoiceService(nil, brokenRunner{}), nil)

	resp := doRequest(t, app, http.MethodPost, "/api/invoices", []byte(validBody))
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var out dto.ErrorResponse
	decode(t, resp, &out)
	assert.Equal(t, "INTERNAL", out.Code)
	assert.NotContains(t, out.Message, assert.AnError.Error())
}

// ──────────────────────────────────────────────────────────────────────────────
// GET /api/invoices, GET /api/invoices/:id
// ──────────────────────────────────────────────────────────────────────────────

func TestList_VacioDevuelveArreglo(t *testing.T) {
	app := buildTestApp(t)

	resp := doRequest(t, app, http.MethodGet, "/api/invoices", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(body))
}

func TestList_MasRecientePrimero(t *testing.T) {
	app := buildTestApp(t)
	first := createInvoice(t, app)
	second := createInvoice(t, app)

	resp := doRequest(t, app, http.MethodGet, "/api/invoices", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list []dto.InvoiceResponse
	decode(t, resp, &list)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Len(t, list[0].Items, 2)
}

func TestGetByID(t *testing.T) {
	app := buildTestApp(t)
	created := createInvoice(t, app)

	resp := doRequest(t, app, http.MethodGet, "/api/invoices/"+strconv.FormatInt(created.ID, 10), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var got dto.InvoiceResponse
	decode(t, resp, &got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.CustomerName, got.CustomerName)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
	assert.True(t, created.TotalAmount.Equal(got.TotalAmount))
	assert.Len(t, got.Items, 2)
}

func TestGetByID_Errores(t *testing.T) {
	app := buildTestApp(t)

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{"no existe", "/api/invoices/999", fiber.StatusNotFound, "NOT_FOUND"},
		{"id no numérico", "/api/invoices/abc", fiber.StatusBadRequest, "VALIDATION"},
		{"id cero", "/api/invoices/0", fiber.StatusBadRequest, "VALIDATION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, app, http.MethodGet, tt.path, nil)
			require.Equal(t, tt.status, resp.StatusCode)
			var out dto.ErrorResponse
			decode(t, resp, &out)
			assert.Equal(t, tt.code, out.Code)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// DELETE /api/invoices/:id
// ──────────────────────────────────────────────────────────────────────────────

func TestDelete_204YLuego404(t *testing.T) {
	app := buildTestApp(t)
	created := createInvoice(t, app)
	path := "/api/invoices/" + strconv.FormatInt(created.ID, 10)

	resp := doRequest(t, app, http.MethodDelete, path, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, path, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, app, http.MethodDelete, path, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// GET /api/invoices/:id/pdf
// ──────────────────────────────────────────────────────────────────────────────

func TestDownloadPDF(t *testing.T) {
	app := buildTestApp(t)
	created := createInvoice(t, app)
	id := strconv.FormatInt(created.ID, 10)

	resp := doRequest(t, app, http.MethodGet, "/api/invoices/"+id+"/pdf", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "factura-"+id+".pdf")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
}

func TestDownloadPDF_NoExiste(t *testing.T) {
	app := buildTestApp(t)

	resp := doRequest(t, app, http.MethodGet, "/api/invoices/77/pdf", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Middleware
// ──────────────────────────────────────────────────────────────────────────────

func TestRequestLogger_RespetaRequestIDEntrante(t *testing.T) {
	app := buildTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/invoices", nil)
	req.Header.Set(apphttp.HeaderRequestID, "req-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "req-123", resp.Header.Get(apphttp.HeaderRequestID))
}

func TestRequestLogger_PanicTerminaEn500(t *testing.T) {
	app := fiber.New()
	app.Use(apphttp.RequestLogger(logger.Nop()))
	app.Use(recover.New())
	app.Get("/panic", func(*fiber.Ctx) error { panic("boom") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderRequestID))
}

// brokenRunner simula una base caída.
type brokenRunner struct{}

func (brokenRunner) RunInvoices(context.Context, func(repository.InvoiceRepository) error) error {
	return assert.AnError
}

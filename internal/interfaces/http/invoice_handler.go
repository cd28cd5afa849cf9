package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Invoicing-api/internal/application/billing"
	"github.com/jhoicas/Invoicing-api/internal/application/dto"
	"github.com/jhoicas/Invoicing-api/internal/application/validation"
	"github.com/jhoicas/Invoicing-api/internal/domain"
	"github.com/jhoicas/Invoicing-api/pkg/logger"
)

// InvoiceHandler maneja las peticiones HTTP de facturas.
type InvoiceHandler struct {
	svc *billing.InvoiceService
	pdf *billing.PDFUseCase
	log *logger.Logger
}

// NewInvoiceHandler construye el handler. pdf puede ser nil (ruta /pdf responde 404).
func NewInvoiceHandler(svc *billing.InvoiceService, pdf *billing.PDFUseCase, log *logger.Logger) *InvoiceHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &InvoiceHandler{svc: svc, pdf: pdf, log: log.WithComponent("invoice_handler")}
}

// Create crea una factura con sus líneas.
// @Summary      Crear factura
// @Description  Calcula el total de cada línea y de la factura (total = Σ líneas - descuento) y la persiste.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateInvoiceRequest  true  "cabecera y líneas"
// @Success      201   {object}  dto.CreateInvoiceResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validation.ValidateCreateInvoice(in); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ValidationErrorResponse{
			Code:    "VALIDATION",
			Message: "datos inválidos",
			Errors:  errs,
		})
	}
	invoice, err := h.svc.CreateInvoice(c.UserContext(), in)
	if err != nil {
		return h.internal(c, err, "crear factura")
	}
	c.Location("/api/invoices/" + strconv.FormatInt(invoice.ID, 10))
	return c.Status(fiber.StatusCreated).JSON(dto.CreateInvoiceResponse{
		Success: true,
		Data:    invoice,
		Message: "factura creada correctamente",
	})
}

// List lista todas las facturas, más recientes primero.
// @Summary      Listar facturas
// @Tags         invoices
// @Produce      json
// @Success      200  {array}   dto.InvoiceResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	list, err := h.svc.GetAllInvoices(c.UserContext())
	if err != nil {
		return h.internal(c, err, "listar facturas")
	}
	return c.JSON(list)
}

// GetByID obtiene una factura con sus líneas.
// @Summary      Obtener factura
// @Tags         invoices
// @Produce      json
// @Param        id   path      int  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	invoice, err := h.svc.GetInvoiceByID(c.UserContext(), id)
	if err != nil {
		return h.internal(c, err, "obtener factura")
	}
	if invoice == nil {
		return notFound(c)
	}
	return c.JSON(invoice)
}

// Delete elimina una factura y sus líneas.
// @Summary      Eliminar factura
// @Tags         invoices
// @Param        id   path  int  true  "ID de la factura"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	deleted, err := h.svc.DeleteInvoice(c.UserContext(), id)
	if err != nil {
		return h.internal(c, err, "eliminar factura")
	}
	if !deleted {
		return notFound(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadPDF descarga la representación gráfica de la factura.
// @Summary      Descargar PDF de la factura
// @Tags         invoices
// @Produce      application/pdf
// @Param        id   path  int  true  "ID de la factura"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return invalidID(c)
	}
	if h.pdf == nil {
		return notFound(c)
	}
	pdfBytes, filename, err := h.pdf.DownloadInvoicePDF(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return notFound(c)
		}
		return h.internal(c, err, "generar PDF")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// internal registra el error y responde 500 sin exponer detalles del driver.
func (h *InvoiceHandler) internal(c *fiber.Ctx, err error, op string) error {
	h.log.Error().
		Err(err).
		Str("request_id", GetRequestID(c)).
		Str("op", op).
		Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
}

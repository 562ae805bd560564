package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/company-currency-api/internal/application/dto"
	"github.com/jhoicas/company-currency-api/internal/domain"
)

// CompanyCurrencyService operaciones que expone el handler (implementado por
// companycurrency.LifecycleUseCase).
type CompanyCurrencyService interface {
	GetAmounts(ctx context.Context, companyID, invoiceID string) (*dto.CompanyAmountsResponse, error)
	GetLineAmount(ctx context.Context, companyID, lineID string) (*dto.LineCompanyAmountResponse, error)
	Validate(ctx context.Context, companyID, invoiceID string) (*dto.InvoiceStateResponse, error)
	Post(ctx context.Context, companyID, invoiceID string) (*dto.InvoiceStateResponse, error)
	Draft(ctx context.Context, companyID, invoiceID string) (*dto.InvoiceStateResponse, error)
	Copy(ctx context.Context, companyID, invoiceID string) (*dto.CopyInvoiceResponse, error)
}

// SummaryPDFService genera el resumen PDF (implementado por companycurrency.PDFUseCase).
type SummaryPDFService interface {
	DownloadSummaryPDF(ctx context.Context, companyID, invoiceID string) ([]byte, string, error)
}

// CompanyCurrencyHandler maneja montos en moneda de la empresa y el ciclo de vida de la factura (protegido).
type CompanyCurrencyHandler struct {
	svc CompanyCurrencyService
	pdf SummaryPDFService
}

// NewCompanyCurrencyHandler construye el handler.
func NewCompanyCurrencyHandler(svc CompanyCurrencyService, pdf SummaryPDFService) *CompanyCurrencyHandler {
	return &CompanyCurrencyHandler{svc: svc, pdf: pdf}
}

// GetAmounts montos de la factura en su moneda y en la de la empresa.
// GET /api/invoices/:id/company-amounts
func (h *CompanyCurrencyHandler) GetAmounts(c *fiber.Ctx) error {
	return withCompanyAndID(c, func(companyID, id string) error {
		out, err := h.svc.GetAmounts(c.UserContext(), companyID, id)
		if err != nil {
			return writeError(c, err, "factura no encontrada")
		}
		return c.JSON(out)
	})
}

// DownloadPDF resumen PDF en doble moneda.
// GET /api/invoices/:id/company-amounts/pdf
func (h *CompanyCurrencyHandler) DownloadPDF(c *fiber.Ctx) error {
	return withCompanyAndID(c, func(companyID, id string) error {
		body, filename, err := h.pdf.DownloadSummaryPDF(c.UserContext(), companyID, id)
		if err != nil {
			return writeError(c, err, "factura no encontrada")
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		return c.Send(body)
	})
}

// GetLineAmount monto de una línea en moneda de la empresa.
// GET /api/invoice-lines/:id/company-amount
func (h *CompanyCurrencyHandler) GetLineAmount(c *fiber.Ctx) error {
	return withCompanyAndID(c, func(companyID, id string) error {
		out, err := h.svc.GetLineAmount(c.UserContext(), companyID, id)
		if err != nil {
			return writeError(c, err, "línea no encontrada")
		}
		return c.JSON(out)
	})
}

// Validate POST /api/invoices/:id/validate
func (h *CompanyCurrencyHandler) Validate(c *fiber.Ctx) error {
	return h.transition(c, h.svc.Validate)
}

// Post contabiliza la factura y guarda el snapshot.
// POST /api/invoices/:id/post
func (h *CompanyCurrencyHandler) Post(c *fiber.Ctx) error {
	return h.transition(c, h.svc.Post)
}

// Draft devuelve la factura a borrador y limpia los snapshots.
// POST /api/invoices/:id/draft
func (h *CompanyCurrencyHandler) Draft(c *fiber.Ctx) error {
	return h.transition(c, h.svc.Draft)
}

// Copy duplica la factura sin snapshots.
// POST /api/invoices/:id/copy
func (h *CompanyCurrencyHandler) Copy(c *fiber.Ctx) error {
	return withCompanyAndID(c, func(companyID, id string) error {
		out, err := h.svc.Copy(c.UserContext(), companyID, id)
		if err != nil {
			return writeError(c, err, "factura no encontrada")
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	})
}

func (h *CompanyCurrencyHandler) transition(c *fiber.Ctx, fn func(ctx context.Context, companyID, invoiceID string) (*dto.InvoiceStateResponse, error)) error {
	return withCompanyAndID(c, func(companyID, id string) error {
		out, err := fn(c.UserContext(), companyID, id)
		if err != nil {
			return writeError(c, err, "factura no encontrada")
		}
		return c.JSON(out)
	})
}

// withCompanyAndID lee company_id del token y :id de la ruta y llama a fn;
// si falta alguno responde 401 o 400.
func withCompanyAndID(c *fiber.Ctx, fn func(companyID, id string) error) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	return fn(companyID, id)
}

// writeError traduce los errores de dominio a códigos HTTP.
func writeError(c *fiber.Ctx, err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: notFoundMsg})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autorizado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: err.Error()})
	case errors.Is(err, domain.ErrRateNotFound):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "RATE_NOT_FOUND", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

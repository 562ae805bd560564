package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/company-currency-api/internal/application/dto"
)

// CompanyService operaciones de empresa y moneda (implementado por usecase.CompanyUseCase).
type CompanyService interface {
	GetByID(ctx context.Context, callerCompanyID, id string) (*dto.CompanyResponse, error)
	Convert(ctx context.Context, callerCompanyID string, in dto.ConvertRequest) (*dto.ConvertResponse, error)
}

// CompanyHandler maneja las peticiones HTTP para la empresa y su moneda contable.
type CompanyHandler struct {
	uc CompanyService
}

// NewCompanyHandler construye el handler inyectando el caso de uso.
func NewCompanyHandler(uc CompanyService) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Me empresa del token con su moneda contable.
// GET /api/companies/me
func (h *CompanyHandler) Me(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	out, err := h.uc.GetByID(c.UserContext(), companyID, companyID)
	if err != nil {
		return writeError(c, err, "empresa no encontrada")
	}
	return c.JSON(out)
}

// GetByID GET /api/companies/:id
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	return withCompanyAndID(c, func(companyID, id string) error {
		out, err := h.uc.GetByID(c.UserContext(), companyID, id)
		if err != nil {
			return writeError(c, err, "empresa no encontrada")
		}
		return c.JSON(out)
	})
}

// Convert convierte un monto a la fecha indicada.
// GET /api/currencies/convert?from=&to=&amount=&date=&round=
func (h *CompanyHandler) Convert(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ConvertRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	out, err := h.uc.Convert(c.UserContext(), companyID, in)
	if err != nil {
		return writeError(c, err, "moneda o empresa no encontrada")
	}
	return c.JSON(out)
}

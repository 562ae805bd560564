package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/company-currency-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyCurrency CompanyCurrencyService
	SummaryPDF      SummaryPDFService
	Company         CompanyService
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	canRead := RequireRole(jwt.RoleAdmin, jwt.RoleAccountant, jwt.RoleViewer)
	canWrite := RequireRole(jwt.RoleAdmin, jwt.RoleAccountant)

	// Empresa y moneda contable
	companyHandler := NewCompanyHandler(deps.Company)
	companies := protected.Group("/companies")
	companies.Get("/me", canRead, companyHandler.Me)
	companies.Get("/:id", canRead, companyHandler.GetByID)
	protected.Get("/currencies/convert", canRead, companyHandler.Convert)

	h := NewCompanyCurrencyHandler(deps.CompanyCurrency, deps.SummaryPDF)

	// Invoices: lectura en moneda de la empresa y ciclo de vida
	invoices := protected.Group("/invoices")
	invoices.Get("/:id/company-amounts", canRead, h.GetAmounts)
	invoices.Get("/:id/company-amounts/pdf", canRead, h.DownloadPDF)
	invoices.Post("/:id/validate", canWrite, h.Validate)
	invoices.Post("/:id/post", canWrite, h.Post)
	invoices.Post("/:id/draft", canWrite, h.Draft)
	invoices.Post("/:id/copy", canWrite, h.Copy)

	// Invoice lines
	lines := protected.Group("/invoice-lines")
	lines.Get("/:id/company-amount", canRead, h.GetLineAmount)
}

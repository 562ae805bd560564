package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/company-currency-api/internal/application/companycurrency"
	"github.com/jhoicas/company-currency-api/internal/application/currency"
	"github.com/jhoicas/company-currency-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/company-currency-api/internal/infrastructure/pdf"
	"github.com/jhoicas/company-currency-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/company-currency-api/internal/interfaces/http"
	"github.com/jhoicas/company-currency-api/pkg/config"
	"github.com/jhoicas/company-currency-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("aplicar esquema")
		}
		log.Info().Msg("esquema aplicado")
	}

	companyRepo := postgres.NewCompanyRepository(pool)
	currencyRepo := postgres.NewCurrencyRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	converter := currency.NewConversionService(currencyRepo)
	moveBuilder := companycurrency.NewInvoiceMoveBuilder(converter, time.Now)
	lifecycleUC := companycurrency.NewLifecycleUseCase(
		txRunner, invoiceRepo, ledgerRepo, converter, moveBuilder,
		companycurrency.Config{SnapshotOnValidate: cfg.Currency.SnapshotOnValidate},
		log.Component("company_currency"),
	)

	companyUC := usecase.NewCompanyUseCase(companyRepo, currencyRepo, converter)

	// PDF: resumen de la factura en moneda propia y de la empresa
	pdfUC := companycurrency.NewPDFUseCase(lifecycleUC, infrapdf.NewMarotoPDFGenerator())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Company Currency API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db_unavailable", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyCurrency: lifecycleUC,
		SummaryPDF:      pdfUC,
		Company:         companyUC,
		JWTSecret:       cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// seed aplica el esquema y carga datos de demostración: monedas USD/EUR/COP con sus
// tasas, una empresa en USD y una factura de cliente en EUR (líneas 200 y 20, IVA 20).
// Imprime un token de administrador para la empresa demo.
//
// Uso: go run ./cmd/seed
// Lee la misma configuración que la API (DATABASE_URL, JWT_SECRET, etc.).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/company-currency-api/internal/infrastructure/postgres"
	"github.com/jhoicas/company-currency-api/pkg/config"
	"github.com/jhoicas/company-currency-api/pkg/jwt"
	"github.com/jhoicas/company-currency-api/pkg/logger"
)

const (
	demoCompanyID = "00000000-0000-0000-0000-0000000000c1"
	demoInvoiceID = "00000000-0000-0000-0000-0000000000f1"
	demoUserID    = "00000000-0000-0000-0000-0000000000a1"
)

var seedSQL = []string{
	`INSERT INTO currencies (id, code, name, digits, rounding) VALUES
		('usd', 'USD', 'Dólar estadounidense', 2, 0.01),
		('eur', 'EUR', 'Euro', 2, 0.01),
		('cop', 'COP', 'Peso colombiano', 0, 1)
	 ON CONFLICT (id) DO NOTHING`,
	`INSERT INTO currency_rates (id, currency_id, date, rate) VALUES
		('rate-usd-2024', 'usd', '2024-01-01', 1),
		('rate-eur-2024', 'eur', '2024-01-01', 2),
		('rate-cop-2024', 'cop', '2024-01-01', 4000)
	 ON CONFLICT (id) DO NOTHING`,
	`INSERT INTO companies (id, name, currency_id) VALUES ('` + demoCompanyID + `', 'Empresa Demo', 'usd')
	 ON CONFLICT (id) DO NOTHING`,
	`INSERT INTO invoices (id, number, company_id, type, state, currency_id, invoice_date, account_id)
	 VALUES ('` + demoInvoiceID + `', 'FV-0001', '` + demoCompanyID + `', 'out', 'draft', 'eur', '2024-03-01', '130505')
	 ON CONFLICT (id) DO NOTHING`,
	`INSERT INTO invoice_lines (id, invoice_id, account_id, description, quantity, unit_price) VALUES
		('` + demoInvoiceID + `-l1', '` + demoInvoiceID + `', '413595', 'Consultoría', 2, 100),
		('` + demoInvoiceID + `-l2', '` + demoInvoiceID + `', '413595', 'Gastos de envío', 1, 20)
	 ON CONFLICT (id) DO NOTHING`,
	`INSERT INTO invoice_taxes (id, invoice_id, account_id, description, base, amount) VALUES
		('` + demoInvoiceID + `-t1', '` + demoInvoiceID + `', '240805', 'IVA 10%', 200, 20)
	 ON CONFLICT (id) DO NOTHING`,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}
	for i, stmt := range seedSQL {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			log.Fatal().Err(err).Int("stmt", i).Msg("cargar datos demo")
		}
	}
	log.Info().Str("company_id", demoCompanyID).Str("invoice_id", demoInvoiceID).Msg("datos demo cargados")

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: no se genera token")
		return
	}
	token, err := jwt.Generate(cfg.JWT.Secret, demoUserID, demoCompanyID, jwt.RoleAdmin, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		log.Fatal().Err(err).Msg("generar token")
	}
	fmt.Printf("Authorization: Bearer %s\n", token)
}

package repository

import (
	"context"

	"github.com/jhoicas/company-currency-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	// GetByID devuelve la empresa con su moneda cargada; (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Company, error)
}

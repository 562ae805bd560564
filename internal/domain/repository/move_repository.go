package repository

import (
	"context"

	"github.com/jhoicas/company-currency-api/internal/domain/entity"
)

// MoveRepository puerto de escritura de asientos contables.
type MoveRepository interface {
	Create(ctx context.Context, move *entity.Move) error
	Delete(ctx context.Context, id string) error
}

package entity

import "time"

// Company representa la empresa dueña de las facturas y su moneda contable.
type Company struct {
	ID         string
	Name       string
	CurrencyID string
	Currency   *Currency // se carga junto con la empresa
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

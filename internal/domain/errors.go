package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	// ErrRateNotFound lo devuelve el servicio de conversión cuando no hay tasa vigente
	// para la moneda en la fecha pedida.
	ErrRateNotFound = errors.New("no hay tasa de cambio para la fecha")
)

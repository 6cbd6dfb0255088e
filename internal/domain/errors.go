package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInvalidState        = errors.New("estado inválido para la operación")
	ErrSourceUnavailable   = errors.New("fuente de movimientos no disponible")
	ErrReconciliationDrift = errors.New("descuadre de conciliación")
)

// InsufficientStockError indica que no hay cantidad suficiente para reservar, trasladar o ajustar.
// ItemIndex es -1 cuando la operación no pertenece a un traslado.
type InsufficientStockError struct {
	StockProductID string
	ProductID      string
	ItemIndex      int
	Requested      int64
	Available      int64
}

func (e *InsufficientStockError) Error() string {
	if e.ItemIndex >= 0 {
		return fmt.Sprintf("stock insuficiente en ítem %d (stock_product %s): solicitado %d, disponible %d",
			e.ItemIndex, e.StockProductID, e.Requested, e.Available)
	}
	return fmt.Sprintf("stock insuficiente (stock_product %s): solicitado %d, disponible %d",
		e.StockProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InvalidStateError se produce al actuar sobre una entidad en estado terminal o incorrecto.
// Nunca se reintenta automáticamente: indica un error de lógica del cliente.
type InvalidStateError struct {
	Entity string
	ID     string
	From   string
	Action string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s %s: no se puede %s desde el estado %s", e.Entity, e.ID, e.Action, e.From)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// ValidationError describe una entrada mal formada (destino ausente, auto-traslado, cantidad negativa...).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError construye un ValidationError.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// DriftError es un hallazgo de conciliación. No se devuelve desde mutaciones: se reporta.
type DriftError struct {
	Kind        string // imbalance | reversal_shortfall
	ProductID   string
	BatchID     string
	WarehouseID string
	Expected    int64
	Actual      int64
	Delta       int64
	Reference   string
}

func (e *DriftError) Error() string {
	return fmt.Sprintf("%s: producto %s lote %q bodega %q esperado %d real %d (delta %d)",
		e.Kind, e.ProductID, e.BatchID, e.WarehouseID, e.Expected, e.Actual, e.Delta)
}

func (e *DriftError) Unwrap() error { return ErrReconciliationDrift }

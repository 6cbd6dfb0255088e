package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// HoldingFilter filtros de listado de lotes en punto de venta.
type HoldingFilter struct {
	BusinessID      string
	StorefrontID    string
	ProductID       string
	StockProductIDs []string
}

// StorefrontHoldingRepository define el puerto de persistencia para StorefrontHolding.
type StorefrontHoldingRepository interface {
	// Ensure devuelve el lote (punto de venta, registro origen), creándolo con cantidad 0 si no existe.
	Ensure(ctx context.Context, h *entity.StorefrontHolding) (*entity.StorefrontHolding, error)
	GetForUpdate(ctx context.Context, businessID, id string) (*entity.StorefrontHolding, error)
	// LockMany bloquea los lotes en orden ascendente de id.
	LockMany(ctx context.Context, businessID string, ids []string) (map[string]*entity.StorefrontHolding, error)
	List(ctx context.Context, filter HoldingFilter) ([]*entity.StorefrontHolding, error)
	UpdateQuantity(ctx context.Context, businessID, id string, quantity int64, at time.Time) error
}

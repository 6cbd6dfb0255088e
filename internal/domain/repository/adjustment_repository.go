package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// AdjustmentFilter filtros de listado de ajustes.
type AdjustmentFilter struct {
	BusinessID     string
	Statuses       []inventory.AdjustmentStatus
	StockProductID string
	ProductID      string
	WarehouseID    string
	BatchID        string
	From, To       *time.Time
	Limit          int
	Offset         int
}

// AdjustmentRepository define el puerto de persistencia para Adjustment.
type AdjustmentRepository interface {
	Create(ctx context.Context, a *entity.Adjustment) error
	GetByID(ctx context.Context, businessID, id string) (*entity.Adjustment, error)
	GetForUpdate(ctx context.Context, businessID, id string) (*entity.Adjustment, error)
	Update(ctx context.Context, a *entity.Adjustment) error
	List(ctx context.Context, filter AdjustmentFilter) ([]*entity.Adjustment, error)
}

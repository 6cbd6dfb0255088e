package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ConsumptionFilter filtros de consumos por venta.
type ConsumptionFilter struct {
	BusinessID      string
	StockProductIDs []string
	WarehouseOnly   bool // solo consumos directos de bodega (sin lote de punto de venta)
}

// SaleConsumptionRepository persiste la auditoría de consumos por venta del motor.
type SaleConsumptionRepository interface {
	Create(ctx context.Context, c *entity.SaleConsumption) error
	List(ctx context.Context, filter ConsumptionFilter) ([]*entity.SaleConsumption, error)
}

// SaleRepository lectura de ventas del módulo de ventas (externo).
type SaleRepository interface {
	ListLines(ctx context.Context, filter entity.MovementFilter) ([]entity.SaleLine, error)
}

// LegacyAdjustmentRepository lectura del esquema anterior de ajustes/traslados.
type LegacyAdjustmentRepository interface {
	List(ctx context.Context, filter entity.MovementFilter) ([]*entity.LegacyAdjustment, error)
}

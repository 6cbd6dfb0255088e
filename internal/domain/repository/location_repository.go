package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// LocationRepository puerto hacia el registro de ubicaciones (bodegas y puntos de venta).
// Devuelve nil, nil si la ubicación no existe para el negocio.
type LocationRepository interface {
	GetWarehouse(ctx context.Context, businessID, id string) (*entity.Warehouse, error)
	GetStorefront(ctx context.Context, businessID, id string) (*entity.Storefront, error)
}

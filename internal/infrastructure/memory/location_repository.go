package memory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// LocationRepository implementa repository.LocationRepository sobre bodegas y puntos de venta sembrados.
type LocationRepository struct {
	base
}

var _ repository.LocationRepository = (*LocationRepository)(nil)

// GetWarehouse devuelve nil, nil si la bodega no existe para el negocio.
func (r *LocationRepository) GetWarehouse(_ context.Context, businessID, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.view(func(st *state) error {
		if w, ok := st.warehouses[id]; ok && w.BusinessID == businessID {
			out = &w
		}
		return nil
	})
	return out, err
}

// GetStorefront devuelve nil, nil si el punto de venta no existe para el negocio.
func (r *LocationRepository) GetStorefront(_ context.Context, businessID, id string) (*entity.Storefront, error) {
	var out *entity.Storefront
	err := r.view(func(st *state) error {
		if sf, ok := st.storefronts[id]; ok && sf.BusinessID == businessID {
			out = &sf
		}
		return nil
	})
	return out, err
}

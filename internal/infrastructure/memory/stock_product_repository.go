package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// StockProductRepository implementa repository.StockProductRepository en memoria.
type StockProductRepository struct {
	base
}

var _ repository.StockProductRepository = (*StockProductRepository)(nil)

// Create inserta un StockProduct. Un registro destino es único por (bodega, origen).
func (r *StockProductRepository) Create(_ context.Context, sp *entity.StockProduct) error {
	return r.view(func(st *state) error {
		if _, ok := st.stockProducts[sp.ID]; ok {
			return domain.ErrConflict
		}
		if sp.OriginStockProductID != "" {
			for _, o := range st.stockProducts {
				if o.BusinessID == sp.BusinessID && o.WarehouseID == sp.WarehouseID && o.OriginStockProductID == sp.OriginStockProductID {
					return domain.ErrConflict
				}
			}
		}
		st.stockProducts[sp.ID] = *sp
		return nil
	})
}

// GetByID devuelve nil, nil si no existe o es de otro negocio.
func (r *StockProductRepository) GetByID(_ context.Context, businessID, id string) (*entity.StockProduct, error) {
	var out *entity.StockProduct
	err := r.view(func(st *state) error {
		if sp, ok := st.stockProducts[id]; ok && sp.BusinessID == businessID {
			out = &sp
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria equivale a GetByID: Run ya serializa las transacciones.
func (r *StockProductRepository) GetForUpdate(ctx context.Context, businessID, id string) (*entity.StockProduct, error) {
	return r.GetByID(ctx, businessID, id)
}

// LockMany devuelve los registros existentes indexados por id.
func (r *StockProductRepository) LockMany(_ context.Context, businessID string, ids []string) (map[string]*entity.StockProduct, error) {
	out := make(map[string]*entity.StockProduct, len(ids))
	err := r.view(func(st *state) error {
		for _, id := range ids {
			if sp, ok := st.stockProducts[id]; ok && sp.BusinessID == businessID {
				out[id] = &sp
			}
		}
		return nil
	})
	return out, err
}

// FindDestination busca el registro de la bodega creado a partir de originID.
func (r *StockProductRepository) FindDestination(_ context.Context, businessID, warehouseID, originID string) (*entity.StockProduct, error) {
	var out *entity.StockProduct
	err := r.view(func(st *state) error {
		for _, sp := range st.stockProducts {
			if sp.BusinessID == businessID && sp.WarehouseID == warehouseID && sp.OriginStockProductID == originID {
				found := sp
				out = &found
				return nil
			}
		}
		return nil
	})
	return out, err
}

// List lista registros ordenados por fecha de creación.
func (r *StockProductRepository) List(_ context.Context, f repository.StockProductFilter) ([]*entity.StockProduct, error) {
	var out []*entity.StockProduct
	err := r.view(func(st *state) error {
		for _, sp := range st.stockProducts {
			if sp.BusinessID != f.BusinessID {
				continue
			}
			if f.ProductID != "" && sp.ProductID != f.ProductID {
				continue
			}
			if f.WarehouseID != "" && sp.WarehouseID != f.WarehouseID {
				continue
			}
			if f.BatchID != "" && sp.BatchID != f.BatchID {
				continue
			}
			if len(f.IDs) > 0 && !containsString(f.IDs, sp.ID) {
				continue
			}
			c := sp
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

// UpdateWorkingQuantity fija la cantidad de trabajo.
func (r *StockProductRepository) UpdateWorkingQuantity(_ context.Context, businessID, id string, quantity int64, at time.Time) error {
	return r.view(func(st *state) error {
		sp, ok := st.stockProducts[id]
		if !ok || sp.BusinessID != businessID {
			return domain.ErrNotFound
		}
		sp.WorkingQuantity = quantity
		sp.UpdatedAt = at
		st.stockProducts[id] = sp
		return nil
	})
}

package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// AdjustmentRepository implementa repository.AdjustmentRepository en memoria.
type AdjustmentRepository struct {
	base
}

var _ repository.AdjustmentRepository = (*AdjustmentRepository)(nil)

// Create inserta un ajuste.
func (r *AdjustmentRepository) Create(_ context.Context, a *entity.Adjustment) error {
	return r.view(func(st *state) error {
		if _, ok := st.adjustments[a.ID]; ok {
			return domain.ErrConflict
		}
		st.adjustments[a.ID] = *a
		return nil
	})
}

// GetByID devuelve nil, nil si no existe.
func (r *AdjustmentRepository) GetByID(_ context.Context, businessID, id string) (*entity.Adjustment, error) {
	var out *entity.Adjustment
	err := r.view(func(st *state) error {
		if a, ok := st.adjustments[id]; ok && a.BusinessID == businessID {
			out = &a
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID en memoria.
func (r *AdjustmentRepository) GetForUpdate(ctx context.Context, businessID, id string) (*entity.Adjustment, error) {
	return r.GetByID(ctx, businessID, id)
}

// Update reemplaza el ajuste.
func (r *AdjustmentRepository) Update(_ context.Context, a *entity.Adjustment) error {
	return r.view(func(st *state) error {
		cur, ok := st.adjustments[a.ID]
		if !ok || cur.BusinessID != a.BusinessID {
			return domain.ErrNotFound
		}
		st.adjustments[a.ID] = *a
		return nil
	})
}

// List lista ajustes del más reciente al más antiguo.
func (r *AdjustmentRepository) List(_ context.Context, f repository.AdjustmentFilter) ([]*entity.Adjustment, error) {
	var out []*entity.Adjustment
	err := r.view(func(st *state) error {
		for _, a := range st.adjustments {
			if a.BusinessID != f.BusinessID {
				continue
			}
			if len(f.Statuses) > 0 && !hasAdjustmentStatus(f.Statuses, a.Status) {
				continue
			}
			if f.StockProductID != "" && a.StockProductID != f.StockProductID {
				continue
			}
			if f.ProductID != "" && a.ProductID != f.ProductID {
				continue
			}
			if f.WarehouseID != "" && a.WarehouseID != f.WarehouseID {
				continue
			}
			if f.BatchID != "" && a.BatchID != f.BatchID {
				continue
			}
			if f.From != nil && a.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && a.CreatedAt.After(*f.To) {
				continue
			}
			c := a
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return paginate(out, f.Limit, f.Offset), err
}

func hasAdjustmentStatus(list []inventory.AdjustmentStatus, s inventory.AdjustmentStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

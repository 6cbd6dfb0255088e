package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// StorefrontHoldingRepository implementa repository.StorefrontHoldingRepository en memoria.
type StorefrontHoldingRepository struct {
	base
}

var _ repository.StorefrontHoldingRepository = (*StorefrontHoldingRepository)(nil)

// Ensure devuelve el lote (punto de venta, registro origen) existente o inserta h.
func (r *StorefrontHoldingRepository) Ensure(_ context.Context, h *entity.StorefrontHolding) (*entity.StorefrontHolding, error) {
	var out *entity.StorefrontHolding
	err := r.view(func(st *state) error {
		for _, o := range st.holdings {
			if o.BusinessID == h.BusinessID && o.StorefrontID == h.StorefrontID && o.StockProductID == h.StockProductID {
				found := o
				out = &found
				return nil
			}
		}
		st.holdings[h.ID] = *h
		c := *h
		out = &c
		return nil
	})
	return out, err
}

// GetForUpdate devuelve nil, nil si no existe.
func (r *StorefrontHoldingRepository) GetForUpdate(_ context.Context, businessID, id string) (*entity.StorefrontHolding, error) {
	var out *entity.StorefrontHolding
	err := r.view(func(st *state) error {
		if h, ok := st.holdings[id]; ok && h.BusinessID == businessID {
			out = &h
		}
		return nil
	})
	return out, err
}

// LockMany devuelve los lotes existentes indexados por id.
func (r *StorefrontHoldingRepository) LockMany(_ context.Context, businessID string, ids []string) (map[string]*entity.StorefrontHolding, error) {
	out := make(map[string]*entity.StorefrontHolding, len(ids))
	err := r.view(func(st *state) error {
		for _, id := range ids {
			if h, ok := st.holdings[id]; ok && h.BusinessID == businessID {
				out[id] = &h
			}
		}
		return nil
	})
	return out, err
}

// List lista lotes del más antiguo al más reciente.
func (r *StorefrontHoldingRepository) List(_ context.Context, f repository.HoldingFilter) ([]*entity.StorefrontHolding, error) {
	var out []*entity.StorefrontHolding
	err := r.view(func(st *state) error {
		for _, h := range st.holdings {
			if h.BusinessID != f.BusinessID {
				continue
			}
			if f.StorefrontID != "" && h.StorefrontID != f.StorefrontID {
				continue
			}
			if f.ProductID != "" && h.ProductID != f.ProductID {
				continue
			}
			if len(f.StockProductIDs) > 0 && !containsString(f.StockProductIDs, h.StockProductID) {
				continue
			}
			c := h
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

// UpdateQuantity fija la cantidad del lote.
func (r *StorefrontHoldingRepository) UpdateQuantity(_ context.Context, businessID, id string, quantity int64, at time.Time) error {
	return r.view(func(st *state) error {
		h, ok := st.holdings[id]
		if !ok || h.BusinessID != businessID {
			return domain.ErrNotFound
		}
		h.Quantity = quantity
		h.UpdatedAt = at
		st.holdings[id] = h
		return nil
	})
}

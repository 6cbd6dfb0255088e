package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// TransferRepository implementa repository.TransferRepository en memoria.
type TransferRepository struct {
	base
}

var _ repository.TransferRepository = (*TransferRepository)(nil)

// Create inserta el traslado con sus ítems.
func (r *TransferRepository) Create(_ context.Context, t *entity.Transfer) error {
	return r.view(func(st *state) error {
		if _, ok := st.transfers[t.ID]; ok {
			return domain.ErrConflict
		}
		st.transfers[t.ID] = copyTransfer(*t)
		return nil
	})
}

// GetByID devuelve nil, nil si no existe.
func (r *TransferRepository) GetByID(_ context.Context, businessID, id string) (*entity.Transfer, error) {
	var out *entity.Transfer
	err := r.view(func(st *state) error {
		if t, ok := st.transfers[id]; ok && t.BusinessID == businessID {
			c := copyTransfer(t)
			out = &c
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID en memoria.
func (r *TransferRepository) GetForUpdate(ctx context.Context, businessID, id string) (*entity.Transfer, error) {
	return r.GetByID(ctx, businessID, id)
}

// Update reemplaza cabecera e ítems.
func (r *TransferRepository) Update(_ context.Context, t *entity.Transfer) error {
	return r.view(func(st *state) error {
		cur, ok := st.transfers[t.ID]
		if !ok || cur.BusinessID != t.BusinessID {
			return domain.ErrNotFound
		}
		st.transfers[t.ID] = copyTransfer(*t)
		return nil
	})
}

// List lista traslados del más reciente al más antiguo.
func (r *TransferRepository) List(_ context.Context, f repository.TransferFilter) ([]*entity.Transfer, error) {
	var out []*entity.Transfer
	err := r.view(func(st *state) error {
		for _, t := range st.transfers {
			if t.BusinessID != f.BusinessID {
				continue
			}
			if len(f.Statuses) > 0 && !hasTransferStatus(f.Statuses, t.Status) {
				continue
			}
			if f.From != nil && t.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && t.CreatedAt.After(*f.To) {
				continue
			}
			c := copyTransfer(t)
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

func hasTransferStatus(list []inventory.TransferStatus, s inventory.TransferStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

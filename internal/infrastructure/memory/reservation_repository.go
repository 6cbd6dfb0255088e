package memory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ReservationRepository implementa repository.ReservationRepository en memoria.
type ReservationRepository struct {
	base
}

var _ repository.ReservationRepository = (*ReservationRepository)(nil)

// Create inserta una reserva.
func (r *ReservationRepository) Create(_ context.Context, res *entity.Reservation) error {
	return r.view(func(st *state) error {
		if _, ok := st.reservations[res.ID]; ok {
			return domain.ErrConflict
		}
		st.reservations[res.ID] = *res
		return nil
	})
}

// GetByID devuelve nil, nil si no existe.
func (r *ReservationRepository) GetByID(_ context.Context, businessID, id string) (*entity.Reservation, error) {
	var out *entity.Reservation
	err := r.view(func(st *state) error {
		if res, ok := st.reservations[id]; ok && res.BusinessID == businessID {
			out = &res
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID en memoria.
func (r *ReservationRepository) GetForUpdate(ctx context.Context, businessID, id string) (*entity.Reservation, error) {
	return r.GetByID(ctx, businessID, id)
}

// Update reemplaza la reserva.
func (r *ReservationRepository) Update(_ context.Context, res *entity.Reservation) error {
	return r.view(func(st *state) error {
		cur, ok := st.reservations[res.ID]
		if !ok || cur.BusinessID != res.BusinessID {
			return domain.ErrNotFound
		}
		st.reservations[res.ID] = *res
		return nil
	})
}

// SumActive suma reservas activas con expires_at > now.
func (r *ReservationRepository) SumActive(_ context.Context, businessID string, stockProductIDs []string, now time.Time) (map[string]int64, error) {
	out := make(map[string]int64, len(stockProductIDs))
	err := r.view(func(st *state) error {
		for _, res := range st.reservations {
			if res.BusinessID != businessID || res.Status != inventory.ReservationActive {
				continue
			}
			if !res.ExpiresAt.After(now) || !containsString(stockProductIDs, res.StockProductID) {
				continue
			}
			out[res.StockProductID] += res.Quantity
		}
		return nil
	})
	return out, err
}

// ExpireDue vence las reservas activas con expires_at <= now.
func (r *ReservationRepository) ExpireDue(_ context.Context, businessID, stockProductID string, now time.Time) (int64, error) {
	var n int64
	err := r.view(func(st *state) error {
		for id, res := range st.reservations {
			if businessID != "" && res.BusinessID != businessID {
				continue
			}
			if stockProductID != "" && res.StockProductID != stockProductID {
				continue
			}
			if !res.IsExpiredAt(now) {
				continue
			}
			if err := res.Apply(inventory.ReservationActionExpire); err != nil {
				continue
			}
			closed := now
			res.ClosedAt = &closed
			res.UpdatedAt = now
			st.reservations[id] = res
			n++
		}
		return nil
	})
	return n, err
}

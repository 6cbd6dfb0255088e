package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ReservationRepository define el puerto de persistencia para Reservation.
type ReservationRepository interface {
	Create(ctx context.Context, r *entity.Reservation) error
	GetByID(ctx context.Context, businessID, id string) (*entity.Reservation, error)
	GetForUpdate(ctx context.Context, businessID, id string) (*entity.Reservation, error)
	Update(ctx context.Context, r *entity.Reservation) error
	// SumActive suma las reservas activas y no vencidas (expires_at > now) por registro.
	SumActive(ctx context.Context, businessID string, stockProductIDs []string, now time.Time) (map[string]int64, error)
	// ExpireDue pasa a EXPIRED las reservas activas vencidas. Es idempotente: solo toca filas
	// que siguen activas. stockProductID vacío = todas las del negocio; businessID vacío = todas.
	ExpireDue(ctx context.Context, businessID, stockProductID string, now time.Time) (int64, error)
}

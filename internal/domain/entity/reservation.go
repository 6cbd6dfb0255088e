package entity

import (
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// Reservation retención temporal de unidades disponibles de un StockProduct durante el checkout.
// No modifica WorkingQuantity.
type Reservation struct {
	ID             string
	BusinessID     string
	StockProductID string
	Quantity       int64
	SessionID      string
	Status         inventory.ReservationStatus
	SaleID         string
	ExpiresAt      time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ClosedAt       *time.Time
}

// Apply aplica una acción a la máquina de estados de la reserva.
func (r *Reservation) Apply(action inventory.ReservationAction) error {
	next, err := inventory.NextReservationStatus(r.ID, r.Status, action)
	if err != nil {
		return err
	}
	r.Status = next
	return nil
}

// IsExpiredAt indica si la reserva activa superó su TTL en el instante dado.
func (r *Reservation) IsExpiredAt(now time.Time) bool {
	return r.Status == inventory.ReservationActive && !now.Before(r.ExpiresAt)
}

package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ReservationUseCase retiene unidades disponibles durante el checkout sin tocar WorkingQuantity.
// disponible = WorkingQuantity - Σ reservas activas no vencidas, calculado bajo el bloqueo del StockProduct.
type ReservationUseCase struct {
	txRunner   TxRunner
	readers    Readers
	ledger     *Ledger
	defaultTTL time.Duration
	log        zerolog.Logger
}

// NewReservationUseCase construye el caso de uso. defaultTTL se usa cuando la solicitud no trae TTL.
func NewReservationUseCase(txRunner TxRunner, readers Readers, ledger *Ledger, defaultTTL time.Duration, log zerolog.Logger) *ReservationUseCase {
	if defaultTTL <= 0 {
		defaultTTL = 15 * time.Minute
	}
	return &ReservationUseCase{txRunner: txRunner, readers: readers, ledger: ledger, defaultTTL: defaultTTL, log: log}
}

// ReserveInput entrada para reservar unidades.
type ReserveInput struct {
	BusinessID     string
	StockProductID string
	Quantity       int64
	SessionID      string
	TTL            time.Duration
}

// Reserve crea una reserva activa si hay unidades disponibles.
// Antes de calcular la disponibilidad vence las reservas caducadas del mismo registro.
func (uc *ReservationUseCase) Reserve(ctx context.Context, in ReserveInput) (*entity.Reservation, error) {
	if in.StockProductID == "" {
		return nil, domain.NewValidationError("stock_product_id", "requerido")
	}
	if in.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	if in.SessionID == "" {
		return nil, domain.NewValidationError("session_id", "requerido")
	}
	ttl := in.TTL
	if ttl <= 0 {
		ttl = uc.defaultTTL
	}

	var res *entity.Reservation
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		sp, err := tx.StockProducts.GetForUpdate(ctx, in.BusinessID, in.StockProductID)
		if err != nil {
			return err
		}
		if sp == nil {
			return domain.ErrNotFound
		}
		now := uc.ledger.Now()
		expired, err := tx.Reservations.ExpireDue(ctx, in.BusinessID, sp.ID, now)
		if err != nil {
			return err
		}
		if expired > 0 {
			uc.log.Info().Str("stock_product_id", sp.ID).Int64("expired", expired).Msg("reservas vencidas liberadas")
		}
		active, err := tx.Reservations.SumActive(ctx, in.BusinessID, []string{sp.ID}, now)
		if err != nil {
			return err
		}
		available := sp.WorkingQuantity - active[sp.ID]
		if in.Quantity > available {
			return &domain.InsufficientStockError{
				StockProductID: sp.ID,
				ProductID:      sp.ProductID,
				ItemIndex:      -1,
				Requested:      in.Quantity,
				Available:      available,
			}
		}
		res = &entity.Reservation{
			ID:             uuid.New().String(),
			BusinessID:     in.BusinessID,
			StockProductID: sp.ID,
			Quantity:       in.Quantity,
			SessionID:      in.SessionID,
			Status:         inventory.ReservationActive,
			ExpiresAt:      now.Add(ttl),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		return tx.Reservations.Create(ctx, res)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// LinkToSale vincula una reserva activa a una venta. Una reserva vencida no puede vincularse.
func (uc *ReservationUseCase) LinkToSale(ctx context.Context, businessID, reservationID, saleID string) (*entity.Reservation, error) {
	if saleID == "" {
		return nil, domain.NewValidationError("sale_id", "requerido")
	}
	var res *entity.Reservation
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		r, err := tx.Reservations.GetForUpdate(ctx, businessID, reservationID)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		if err := linkReservation(r, saleID, uc.ledger.Now()); err != nil {
			return err
		}
		res = r
		return tx.Reservations.Update(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Release libera explícitamente una reserva activa (abandono de checkout).
func (uc *ReservationUseCase) Release(ctx context.Context, businessID, reservationID string) (*entity.Reservation, error) {
	var res *entity.Reservation
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		r, err := tx.Reservations.GetForUpdate(ctx, businessID, reservationID)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		if err := r.Apply(inventory.ReservationActionRelease); err != nil {
			return err
		}
		now := uc.ledger.Now()
		r.ClosedAt = &now
		r.UpdatedAt = now
		res = r
		return tx.Reservations.Update(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ReleaseExpired vence todas las reservas activas caducadas. businessID vacío = todos los negocios.
// Es idempotente y seguro de ejecutar en paralelo.
func (uc *ReservationUseCase) ReleaseExpired(ctx context.Context, businessID string) (int64, error) {
	var n int64
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		n, err = tx.Reservations.ExpireDue(ctx, businessID, "", uc.ledger.Now())
		return err
	})
	if err != nil {
		return 0, err
	}
	if n > 0 {
		uc.log.Info().Int64("expired", n).Msg("reservas vencidas liberadas")
	}
	return n, nil
}

// RunSweeper ejecuta ReleaseExpired cada interval hasta que ctx se cancele.
// Los errores se registran y no detienen el barrido.
func (uc *ReservationUseCase) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := uc.ReleaseExpired(ctx, ""); err != nil && ctx.Err() == nil {
				uc.log.Error().Err(err).Msg("barrido de reservas vencidas")
			}
		}
	}
}

// Get obtiene una reserva.
func (uc *ReservationUseCase) Get(ctx context.Context, businessID, id string) (*entity.Reservation, error) {
	r, err := uc.readers.Reservations.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

// linkReservation transición ACTIVE → LINKED. Una reserva con TTL cumplido se trata como vencida
// aunque el barrido aún no la haya marcado.
func linkReservation(r *entity.Reservation, saleID string, now time.Time) error {
	if r.IsExpiredAt(now) {
		return &domain.InvalidStateError{
			Entity: "reservation",
			ID:     r.ID,
			From:   string(inventory.ReservationExpired),
			Action: string(inventory.ReservationActionLink),
		}
	}
	if err := r.Apply(inventory.ReservationActionLink); err != nil {
		return err
	}
	r.SaleID = saleID
	r.ClosedAt = &now
	r.UpdatedAt = now
	return nil
}

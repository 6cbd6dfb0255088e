package inventory

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Ledger es el único camino por el que cambian WorkingQuantity de un StockProduct y la
// cantidad de un lote de punto de venta. Cada mutación bloquea la fila (SELECT FOR UPDATE),
// lee la cantidad vigente bajo ese bloqueo y rechaza cualquier resultado negativo.
// Debe invocarse dentro de TxRunner.Run; el bloqueo dura hasta Commit/Rollback.
type Ledger struct {
	log   zerolog.Logger
	clock func() time.Time
}

// NewLedger construye el primitivo. clock nil usa time.Now.
func NewLedger(log zerolog.Logger, clock func() time.Time) *Ledger {
	if clock == nil {
		clock = time.Now
	}
	return &Ledger{log: log, clock: clock}
}

// Now instante actual según el reloj del ledger (UTC).
func (l *Ledger) Now() time.Time {
	return l.clock().UTC()
}

// LockAndMutate aplica delta a WorkingQuantity del StockProduct y devuelve la cantidad resultante.
// Con resultado negativo devuelve *domain.InsufficientStockError sin escribir nada.
func (l *Ledger) LockAndMutate(ctx context.Context, tx repository.Tx, businessID, stockProductID string, delta int64, reason string) (int64, error) {
	sp, err := tx.StockProducts.GetForUpdate(ctx, businessID, stockProductID)
	if err != nil {
		return 0, err
	}
	if sp == nil {
		return 0, domain.ErrNotFound
	}
	next := sp.WorkingQuantity + delta
	if next < 0 {
		return sp.WorkingQuantity, &domain.InsufficientStockError{
			StockProductID: sp.ID,
			ProductID:      sp.ProductID,
			ItemIndex:      -1,
			Requested:      -delta,
			Available:      sp.WorkingQuantity,
		}
	}
	if delta == 0 {
		return next, nil
	}
	if err := tx.StockProducts.UpdateWorkingQuantity(ctx, businessID, sp.ID, next, l.Now()); err != nil {
		return 0, err
	}
	l.log.Debug().
		Str("stock_product_id", sp.ID).
		Int64("before", sp.WorkingQuantity).
		Int64("delta", delta).
		Int64("after", next).
		Str("reason", reason).
		Msg("ledger: working_quantity actualizado")
	return next, nil
}

// LockAndMutateHolding aplica delta a la cantidad de un lote de punto de venta.
func (l *Ledger) LockAndMutateHolding(ctx context.Context, tx repository.Tx, businessID, holdingID string, delta int64, reason string) (int64, error) {
	h, err := tx.Holdings.GetForUpdate(ctx, businessID, holdingID)
	if err != nil {
		return 0, err
	}
	if h == nil {
		return 0, domain.ErrNotFound
	}
	next := h.Quantity + delta
	if next < 0 {
		return h.Quantity, &domain.InsufficientStockError{
			StockProductID: h.StockProductID,
			ProductID:      h.ProductID,
			ItemIndex:      -1,
			Requested:      -delta,
			Available:      h.Quantity,
		}
	}
	if delta == 0 {
		return next, nil
	}
	if err := tx.Holdings.UpdateQuantity(ctx, businessID, h.ID, next, l.Now()); err != nil {
		return 0, err
	}
	l.log.Debug().
		Str("holding_id", h.ID).
		Str("storefront_id", h.StorefrontID).
		Int64("before", h.Quantity).
		Int64("delta", delta).
		Int64("after", next).
		Str("reason", reason).
		Msg("ledger: lote de punto de venta actualizado")
	return next, nil
}

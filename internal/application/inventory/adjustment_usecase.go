package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// AdjustmentUseCase flujo de aprobación de ajustes: PENDING → APPROVED → COMPLETED, o REJECTED.
// Solo la transición a COMPLETED aplica el delta al stock, y lo hace a través del Ledger.
type AdjustmentUseCase struct {
	txRunner TxRunner
	readers  Readers
	ledger   *Ledger
	deferred bool
	log      zerolog.Logger
}

// NewAdjustmentUseCase construye el caso de uso. Con deferredCompletion=true la aprobación
// no aplica el delta; queda APPROVED hasta una llamada explícita a Complete.
func NewAdjustmentUseCase(txRunner TxRunner, readers Readers, ledger *Ledger, deferredCompletion bool, log zerolog.Logger) *AdjustmentUseCase {
	return &AdjustmentUseCase{txRunner: txRunner, readers: readers, ledger: ledger, deferred: deferredCompletion, log: log}
}

// CreateAdjustmentInput entrada para solicitar un ajuste.
type CreateAdjustmentInput struct {
	BusinessID     string
	UserID         string
	StockProductID string
	Category       inventory.AdjustmentCategory
	Delta          int64
	Reference      string
	Notes          string
}

// Create registra un ajuste PENDING. No afecta el stock.
func (uc *AdjustmentUseCase) Create(ctx context.Context, in CreateAdjustmentInput) (*entity.Adjustment, error) {
	if in.StockProductID == "" {
		return nil, domain.NewValidationError("stock_product_id", "requerido")
	}
	if err := in.Category.ValidateDelta(in.Delta); err != nil {
		return nil, err
	}
	sp, err := uc.readers.StockProducts.GetByID(ctx, in.BusinessID, in.StockProductID)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, domain.ErrNotFound
	}
	now := uc.ledger.Now()
	ref := in.Reference
	if ref == "" {
		ref = newReference("ADJ", now)
	}
	adj := &entity.Adjustment{
		ID:               uuid.New().String(),
		BusinessID:       in.BusinessID,
		StockProductID:   sp.ID,
		ProductID:        sp.ProductID,
		WarehouseID:      sp.WarehouseID,
		BatchID:          sp.BatchID,
		Category:         in.Category,
		Delta:            in.Delta,
		Status:           inventory.AdjustmentPending,
		Reference:        ref,
		Notes:            in.Notes,
		UnitCostSnapshot: sp.LandedUnitCost(),
		CreatedBy:        in.UserID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		return tx.Adjustments.Create(ctx, adj)
	})
	if err != nil {
		return nil, err
	}
	return adj, nil
}

// Approve aprueba un ajuste PENDING y, salvo aplicación diferida, lo completa de inmediato.
// La aprobación se confirma primero: si la aplicación falla (p. ej. stock insuficiente) el ajuste
// queda APPROVED con CompletionError y se devuelve el error.
func (uc *AdjustmentUseCase) Approve(ctx context.Context, businessID, id, approverID string) (*entity.Adjustment, error) {
	var adj *entity.Adjustment
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		a, err := tx.Adjustments.GetForUpdate(ctx, businessID, id)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrNotFound
		}
		if err := a.Apply(inventory.AdjustmentActionApprove); err != nil {
			return err
		}
		now := uc.ledger.Now()
		a.ApprovedBy = approverID
		a.ApprovedAt = &now
		a.UpdatedAt = now
		adj = a
		return tx.Adjustments.Update(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	if uc.deferred {
		uc.log.Info().Str("adjustment_id", adj.ID).Msg("ajuste aprobado, pendiente de aplicar")
		return adj, nil
	}
	return uc.Complete(ctx, businessID, id)
}

// Complete aplica el delta de un ajuste APPROVED bajo el bloqueo del StockProduct y lo pasa a COMPLETED.
// Un delta negativo no puede tomar unidades reservadas: si dejaría WorkingQuantity por debajo de
// las reservas activas (o negativo), nada cambia salvo CompletionError.
func (uc *AdjustmentUseCase) Complete(ctx context.Context, businessID, id string) (*entity.Adjustment, error) {
	var adj *entity.Adjustment
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		a, err := tx.Adjustments.GetForUpdate(ctx, businessID, id)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrNotFound
		}
		if err := a.Apply(inventory.AdjustmentActionComplete); err != nil {
			return err
		}
		if a.Delta < 0 {
			if err := uc.checkReserved(ctx, tx, a); err != nil {
				return err
			}
		}
		after, err := uc.ledger.LockAndMutate(ctx, tx, businessID, a.StockProductID, a.Delta, "adjustment:"+a.Reference)
		if err != nil {
			return err
		}
		before := after - a.Delta
		now := uc.ledger.Now()
		a.QuantityBefore = &before
		a.QuantityAfter = &after
		a.CompletedAt = &now
		a.CompletionError = ""
		a.UpdatedAt = now
		adj = a
		return tx.Adjustments.Update(ctx, a)
	})
	if err == nil {
		uc.log.Info().
			Str("adjustment_id", adj.ID).
			Str("category", string(adj.Category)).
			Int64("delta", adj.Delta).
			Msg("ajuste aplicado")
		return adj, nil
	}
	var stockErr *domain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		return nil, err
	}
	uc.log.Warn().Err(err).Str("adjustment_id", id).Msg("ajuste aprobado sin aplicar: stock insuficiente")
	failed, recErr := uc.recordCompletionError(ctx, businessID, id, err.Error())
	if recErr != nil {
		uc.log.Error().Err(recErr).Str("adjustment_id", id).Msg("no se pudo registrar el error de aplicación")
	}
	return failed, err
}

// Reject rechaza un ajuste PENDING. No afecta el stock.
func (uc *AdjustmentUseCase) Reject(ctx context.Context, businessID, id, actorID, reason string) (*entity.Adjustment, error) {
	var adj *entity.Adjustment
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		a, err := tx.Adjustments.GetForUpdate(ctx, businessID, id)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrNotFound
		}
		if err := a.Apply(inventory.AdjustmentActionReject); err != nil {
			return err
		}
		now := uc.ledger.Now()
		a.RejectedBy = actorID
		a.RejectedReason = reason
		a.RejectedAt = &now
		a.UpdatedAt = now
		adj = a
		return tx.Adjustments.Update(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return adj, nil
}

// Get obtiene un ajuste.
func (uc *AdjustmentUseCase) Get(ctx context.Context, businessID, id string) (*entity.Adjustment, error) {
	a, err := uc.readers.Adjustments.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

// List lista ajustes filtrados.
func (uc *AdjustmentUseCase) List(ctx context.Context, filter repository.AdjustmentFilter) ([]*entity.Adjustment, error) {
	return uc.readers.Adjustments.List(ctx, filter)
}

// checkReserved bloquea el StockProduct y comprueba que la merma quepa en lo disponible.
func (uc *AdjustmentUseCase) checkReserved(ctx context.Context, tx repository.Tx, a *entity.Adjustment) error {
	sp, err := tx.StockProducts.GetForUpdate(ctx, a.BusinessID, a.StockProductID)
	if err != nil {
		return err
	}
	if sp == nil {
		return domain.ErrNotFound
	}
	reserved, err := tx.Reservations.SumActive(ctx, a.BusinessID, []string{sp.ID}, uc.ledger.Now())
	if err != nil {
		return err
	}
	available := sp.WorkingQuantity - reserved[sp.ID]
	if -a.Delta > available {
		if available < 0 {
			available = 0
		}
		return &domain.InsufficientStockError{
			StockProductID: sp.ID,
			ProductID:      sp.ProductID,
			ItemIndex:      -1,
			Requested:      -a.Delta,
			Available:      available,
		}
	}
	return nil
}

func (uc *AdjustmentUseCase) recordCompletionError(ctx context.Context, businessID, id, msg string) (*entity.Adjustment, error) {
	var adj *entity.Adjustment
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		a, err := tx.Adjustments.GetForUpdate(ctx, businessID, id)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrNotFound
		}
		adj = a
		if a.Status != inventory.AdjustmentApproved {
			return nil
		}
		a.CompletionError = msg
		a.UpdatedAt = uc.ledger.Now()
		return tx.Adjustments.Update(ctx, a)
	})
	return adj, err
}

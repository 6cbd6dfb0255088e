package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// TransferUseCase crea, completa y cancela traslados multi-ítem.
// Completar y cancelar son todo-o-nada: una sola transacción, bloqueos en orden ascendente de id
// (primero StockProducts, luego lotes de punto de venta) y mutaciones solo a través del Ledger.
type TransferUseCase struct {
	txRunner  TxRunner
	readers   Readers
	locations repository.LocationRepository
	ledger    *Ledger
	log       zerolog.Logger
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(txRunner TxRunner, readers Readers, locations repository.LocationRepository, ledger *Ledger, log zerolog.Logger) *TransferUseCase {
	return &TransferUseCase{txRunner: txRunner, readers: readers, locations: locations, ledger: ledger, log: log}
}

// TransferItemInput línea solicitada.
type TransferItemInput struct {
	StockProductID string
	Quantity       int64
}

// CreateTransferInput entrada para crear un traslado. El destino es bodega XOR punto de venta.
type CreateTransferInput struct {
	BusinessID              string
	UserID                  string
	SourceWarehouseID       string
	DestinationWarehouseID  string
	DestinationStorefrontID string
	Reference               string
	Notes                   string
	Items                   []TransferItemInput
}

// Create registra un traslado PENDING. No afecta el stock.
func (uc *TransferUseCase) Create(ctx context.Context, in CreateTransferInput) (*entity.Transfer, error) {
	now := uc.ledger.Now()
	t := &entity.Transfer{
		ID:                      uuid.New().String(),
		BusinessID:              in.BusinessID,
		Status:                  inventory.TransferPending,
		Reference:               in.Reference,
		SourceWarehouseID:       in.SourceWarehouseID,
		DestinationWarehouseID:  in.DestinationWarehouseID,
		DestinationStorefrontID: in.DestinationStorefrontID,
		Notes:                   in.Notes,
		CreatedBy:               in.UserID,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	for i, it := range in.Items {
		t.Items = append(t.Items, entity.TransferItem{
			ID:             uuid.New().String(),
			TransferID:     t.ID,
			Position:       i,
			StockProductID: it.StockProductID,
			Quantity:       it.Quantity,
		})
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := uc.checkLocations(ctx, t); err != nil {
		return nil, err
	}
	for i := range t.Items {
		it := &t.Items[i]
		sp, err := uc.readers.StockProducts.GetByID(ctx, in.BusinessID, it.StockProductID)
		if err != nil {
			return nil, err
		}
		if sp == nil {
			return nil, domain.ErrNotFound
		}
		if sp.WarehouseID != t.SourceWarehouseID {
			return nil, domain.NewValidationError("items", "el stock_product "+sp.ID+" no pertenece a la bodega origen")
		}
		it.ProductID = sp.ProductID
		it.BatchID = sp.BatchID
		it.UnitCostSnapshot = sp.LandedUnitCost()
	}
	if t.Reference == "" {
		t.Reference = newReference("TRF", now)
	}
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		return tx.Transfers.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Complete mueve todas las líneas del traslado o ninguna. Verifica disponibilidad (stock menos
// reservas activas) de cada origen bajo bloqueo antes de mutar; si un ítem no alcanza devuelve
// *domain.InsufficientStockError con el índice del ítem y el traslado sigue PENDING.
func (uc *TransferUseCase) Complete(ctx context.Context, businessID, id, actorID string) (*entity.Transfer, error) {
	var out *entity.Transfer
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		t, err := tx.Transfers.GetForUpdate(ctx, businessID, id)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if err := t.Apply(inventory.TransferActionComplete); err != nil {
			return err
		}
		// orígenes y destinos existentes se bloquean juntos en orden de id; los destinos que
		// falten se crean después, ya con el origen bloqueado
		if err := uc.resolveDestinations(ctx, tx, t); err != nil {
			return err
		}
		stock, _, err := uc.lockAll(ctx, tx, t)
		if err != nil {
			return err
		}
		if err := uc.ensureDestinations(ctx, tx, t); err != nil {
			return err
		}

		sources := map[string]struct{}{}
		for _, it := range t.Items {
			sources[it.StockProductID] = struct{}{}
		}
		reserved, err := tx.Reservations.SumActive(ctx, businessID, sortedKeys(sources), uc.ledger.Now())
		if err != nil {
			return err
		}
		committed := map[string]int64{}
		for _, it := range t.Items {
			sp := stock[it.StockProductID]
			if sp == nil {
				return domain.ErrNotFound
			}
			available := sp.WorkingQuantity - reserved[sp.ID] - committed[sp.ID]
			if it.Quantity > available {
				if available < 0 {
					available = 0
				}
				return &domain.InsufficientStockError{
					StockProductID: sp.ID,
					ProductID:      sp.ProductID,
					ItemIndex:      it.Position,
					Requested:      it.Quantity,
					Available:      available,
				}
			}
			committed[sp.ID] += it.Quantity
		}

		reason := "transfer:" + t.Reference
		for i := range t.Items {
			it := &t.Items[i]
			if _, err := uc.ledger.LockAndMutate(ctx, tx, businessID, it.StockProductID, -it.Quantity, reason); err != nil {
				return err
			}
			if it.DestinationHoldingID != "" {
				_, err = uc.ledger.LockAndMutateHolding(ctx, tx, businessID, it.DestinationHoldingID, it.Quantity, reason)
			} else {
				_, err = uc.ledger.LockAndMutate(ctx, tx, businessID, it.DestinationStockProductID, it.Quantity, reason)
			}
			if err != nil {
				return err
			}
			it.ReceivedQuantity = it.Quantity
		}

		now := uc.ledger.Now()
		t.CompletedBy = actorID
		t.CompletedAt = &now
		t.UpdatedAt = now
		out = t
		return tx.Transfers.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("transfer_id", out.ID).
		Str("reference", out.Reference).
		Int("items", len(out.Items)).
		Msg("traslado completado")
	return out, nil
}

// Cancel cancela un traslado. Desde PENDING solo cambia el estado. Desde COMPLETED revierte cada
// línea: devuelve al origen lo que aún queda libre en el destino (sin reservas activas), como
// máximo lo recibido. Si el destino ya consumió o reservó parte, la diferencia queda en
// ReversalShortfall y se reporta como hallazgo. Revertir exige allowReversal; el estado se
// evalúa con el traslado bloqueado. Cancelar un traslado ya cancelado devuelve InvalidStateError.
func (uc *TransferUseCase) Cancel(ctx context.Context, businessID, id, actorID, reason string, allowReversal bool) (*entity.Transfer, error) {
	var out *entity.Transfer
	var shortfall int64
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		shortfall = 0
		t, err := tx.Transfers.GetForUpdate(ctx, businessID, id)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		wasCompleted := t.Status == inventory.TransferCompleted
		if err := t.Apply(inventory.TransferActionCancel); err != nil {
			return err
		}
		if wasCompleted && !allowReversal {
			return fmt.Errorf("revertir el traslado %s: %w", t.Reference, domain.ErrForbidden)
		}
		if wasCompleted {
			shortfall, err = uc.reverse(ctx, tx, t)
			if err != nil {
				return err
			}
		}
		now := uc.ledger.Now()
		t.CancelledBy = actorID
		t.CancelReason = reason
		t.CancelledAt = &now
		t.UpdatedAt = now
		out = t
		return tx.Transfers.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	if shortfall > 0 {
		uc.log.Warn().
			Str("transfer_id", out.ID).
			Str("reference", out.Reference).
			Int64("shortfall", shortfall).
			Msg("reversión parcial: el destino ya había consumido o reservado unidades")
	} else {
		uc.log.Info().Str("transfer_id", out.ID).Str("reference", out.Reference).Msg("traslado cancelado")
	}
	return out, nil
}

// Get obtiene un traslado con sus ítems.
func (uc *TransferUseCase) Get(ctx context.Context, businessID, id string) (*entity.Transfer, error) {
	t, err := uc.readers.Transfers.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// List lista traslados filtrados.
func (uc *TransferUseCase) List(ctx context.Context, filter repository.TransferFilter) ([]*entity.Transfer, error) {
	return uc.readers.Transfers.List(ctx, filter)
}

func (uc *TransferUseCase) checkLocations(ctx context.Context, t *entity.Transfer) error {
	src, err := uc.locations.GetWarehouse(ctx, t.BusinessID, t.SourceWarehouseID)
	if err != nil {
		return err
	}
	if src == nil {
		return domain.ErrNotFound
	}
	if t.DestinationWarehouseID != "" {
		dst, err := uc.locations.GetWarehouse(ctx, t.BusinessID, t.DestinationWarehouseID)
		if err != nil {
			return err
		}
		if dst == nil {
			return domain.ErrNotFound
		}
		return nil
	}
	sf, err := uc.locations.GetStorefront(ctx, t.BusinessID, t.DestinationStorefrontID)
	if err != nil {
		return err
	}
	if sf == nil {
		return domain.ErrNotFound
	}
	return nil
}

// resolveDestinations asigna, sin bloquear, los registros destino y lotes que ya existen.
func (uc *TransferUseCase) resolveDestinations(ctx context.Context, tx repository.Tx, t *entity.Transfer) error {
	if t.DestinationStorefrontID != "" {
		var origins []string
		for _, it := range t.Items {
			if it.DestinationHoldingID == "" {
				origins = append(origins, it.StockProductID)
			}
		}
		if len(origins) == 0 {
			return nil
		}
		lots, err := tx.Holdings.List(ctx, repository.HoldingFilter{
			BusinessID:      t.BusinessID,
			StorefrontID:    t.DestinationStorefrontID,
			StockProductIDs: origins,
		})
		if err != nil {
			return err
		}
		byOrigin := make(map[string]string, len(lots))
		for _, h := range lots {
			byOrigin[h.StockProductID] = h.ID
		}
		for i := range t.Items {
			if id, ok := byOrigin[t.Items[i].StockProductID]; ok && t.Items[i].DestinationHoldingID == "" {
				t.Items[i].DestinationHoldingID = id
			}
		}
		return nil
	}
	for i := range t.Items {
		it := &t.Items[i]
		if it.DestinationStockProductID != "" {
			continue
		}
		dest, err := tx.StockProducts.FindDestination(ctx, t.BusinessID, t.DestinationWarehouseID, it.StockProductID)
		if err != nil {
			return err
		}
		if dest != nil {
			it.DestinationStockProductID = dest.ID
		}
	}
	return nil
}

// ensureDestinations crea (con cantidad 0) los registros destino que falten. Se invoca con los
// orígenes ya bloqueados: el destino pertenece a su origen, así que nadie más puede estar
// creándolo. Si otro traslado lo creó entre resolveDestinations y el bloqueo, se reutiliza y
// queda bloqueado fuera de orden; un interbloqueo en ese caso lo absorbe el reintento del TxRunner.
func (uc *TransferUseCase) ensureDestinations(ctx context.Context, tx repository.Tx, t *entity.Transfer) error {
	order := make([]int, len(t.Items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return t.Items[order[a]].StockProductID < t.Items[order[b]].StockProductID
	})
	now := uc.ledger.Now()
	for _, i := range order {
		it := &t.Items[i]
		if t.DestinationStorefrontID != "" {
			if it.DestinationHoldingID != "" {
				continue
			}
			h, err := tx.Holdings.Ensure(ctx, &entity.StorefrontHolding{
				ID:             uuid.New().String(),
				BusinessID:     t.BusinessID,
				StorefrontID:   t.DestinationStorefrontID,
				ProductID:      it.ProductID,
				StockProductID: it.StockProductID,
				CreatedAt:      now,
				UpdatedAt:      now,
			})
			if err != nil {
				return err
			}
			it.DestinationHoldingID = h.ID
			continue
		}
		if it.DestinationStockProductID != "" {
			continue
		}
		dest, err := tx.StockProducts.FindDestination(ctx, t.BusinessID, t.DestinationWarehouseID, it.StockProductID)
		if err != nil {
			return err
		}
		if dest == nil {
			src, err := tx.StockProducts.GetByID(ctx, t.BusinessID, it.StockProductID)
			if err != nil {
				return err
			}
			if src == nil {
				return domain.ErrNotFound
			}
			dest = &entity.StockProduct{
				ID:                   uuid.New().String(),
				BusinessID:           t.BusinessID,
				ProductID:            src.ProductID,
				WarehouseID:          t.DestinationWarehouseID,
				BatchID:              src.BatchID,
				SupplierID:           src.SupplierID,
				OriginStockProductID: src.ID,
				UnitCost:             it.UnitCostSnapshot,
				CreatedAt:            now,
				UpdatedAt:            now,
			}
			if err := tx.StockProducts.Create(ctx, dest); err != nil {
				return err
			}
		}
		it.DestinationStockProductID = dest.ID
	}
	return nil
}

// lockAll bloquea todos los StockProducts (origen y destino) y luego todos los lotes, cada grupo
// en orden ascendente de id.
func (uc *TransferUseCase) lockAll(ctx context.Context, tx repository.Tx, t *entity.Transfer) (map[string]*entity.StockProduct, map[string]*entity.StorefrontHolding, error) {
	spIDs := map[string]struct{}{}
	holdingIDs := map[string]struct{}{}
	for _, it := range t.Items {
		spIDs[it.StockProductID] = struct{}{}
		if it.DestinationStockProductID != "" {
			spIDs[it.DestinationStockProductID] = struct{}{}
		}
		if it.DestinationHoldingID != "" {
			holdingIDs[it.DestinationHoldingID] = struct{}{}
		}
	}
	stock, err := tx.StockProducts.LockMany(ctx, t.BusinessID, sortedKeys(spIDs))
	if err != nil {
		return nil, nil, err
	}
	holdings := map[string]*entity.StorefrontHolding{}
	if len(holdingIDs) > 0 {
		holdings, err = tx.Holdings.LockMany(ctx, t.BusinessID, sortedKeys(holdingIDs))
		if err != nil {
			return nil, nil, err
		}
	}
	return stock, holdings, nil
}

// reverse deshace un traslado completado y devuelve el total de unidades no recuperadas.
func (uc *TransferUseCase) reverse(ctx context.Context, tx repository.Tx, t *entity.Transfer) (int64, error) {
	stock, holdings, err := uc.lockAll(ctx, tx, t)
	if err != nil {
		return 0, err
	}
	dests := map[string]struct{}{}
	for _, it := range t.Items {
		if it.DestinationStockProductID != "" {
			dests[it.DestinationStockProductID] = struct{}{}
		}
	}
	reserved := map[string]int64{}
	if len(dests) > 0 {
		reserved, err = tx.Reservations.SumActive(ctx, t.BusinessID, sortedKeys(dests), uc.ledger.Now())
		if err != nil {
			return 0, err
		}
	}
	// lo reservado en el destino no se recupera: las reservas activas siguen cubiertas
	remaining := map[string]int64{}
	for id, sp := range stock {
		remaining[id] = sp.WorkingQuantity - reserved[id]
	}
	for id, h := range holdings {
		remaining[id] = h.Quantity
	}

	reason := "transfer_reversal:" + t.Reference
	var total int64
	for i := range t.Items {
		it := &t.Items[i]
		destID := it.DestinationStockProductID
		if it.DestinationHoldingID != "" {
			destID = it.DestinationHoldingID
		}
		recovered := it.ReceivedQuantity
		if left := remaining[destID]; left < recovered {
			recovered = left
		}
		if recovered < 0 {
			recovered = 0
		}
		remaining[destID] -= recovered

		if it.DestinationHoldingID != "" {
			_, err = uc.ledger.LockAndMutateHolding(ctx, tx, t.BusinessID, it.DestinationHoldingID, -recovered, reason)
		} else {
			_, err = uc.ledger.LockAndMutate(ctx, tx, t.BusinessID, it.DestinationStockProductID, -recovered, reason)
		}
		if err != nil {
			return 0, err
		}
		if _, err := uc.ledger.LockAndMutate(ctx, tx, t.BusinessID, it.StockProductID, recovered, reason); err != nil {
			return 0, err
		}
		it.ReversedQuantity = recovered
		it.ReversalShortfall = it.ReceivedQuantity - recovered
		total += it.ReversalShortfall
	}
	return total, nil
}

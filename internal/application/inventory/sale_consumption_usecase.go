package inventory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// SaleConsumptionUseCase frontera con el módulo de ventas: descuenta unidades vendidas de un
// StockProduct de bodega o de los lotes de un punto de venta (los más antiguos primero) y deja
// el registro de auditoría en la misma transacción.
type SaleConsumptionUseCase struct {
	txRunner TxRunner
	ledger   *Ledger
	log      zerolog.Logger
}

// NewSaleConsumptionUseCase construye el caso de uso.
func NewSaleConsumptionUseCase(txRunner TxRunner, ledger *Ledger, log zerolog.Logger) *SaleConsumptionUseCase {
	return &SaleConsumptionUseCase{txRunner: txRunner, ledger: ledger, log: log}
}

// ConsumeInput entrada de consumo. Se indica StockProductID (venta desde bodega) o
// StorefrontID + ProductID (venta en punto de venta). ReservationID solo aplica a bodega.
type ConsumeInput struct {
	BusinessID     string
	UserID         string
	SaleReference  string
	StockProductID string
	StorefrontID   string
	ProductID      string
	Quantity       int64
	ReservationID  string
}

// Consume descuenta la venta y devuelve los consumos registrados.
func (uc *SaleConsumptionUseCase) Consume(ctx context.Context, in ConsumeInput) ([]*entity.SaleConsumption, error) {
	if in.SaleReference == "" {
		return nil, domain.NewValidationError("sale_reference", "requerido")
	}
	if in.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	fromWarehouse := in.StockProductID != ""
	fromStorefront := in.StorefrontID != ""
	switch {
	case fromWarehouse == fromStorefront:
		return nil, domain.NewValidationError("stock_product_id", "indique stock_product_id o storefront_id, no ambos")
	case fromStorefront && in.ProductID == "":
		return nil, domain.NewValidationError("product_id", "requerido para ventas en punto de venta")
	case fromStorefront && in.ReservationID != "":
		return nil, domain.NewValidationError("reservation_id", "las reservas aplican a registros de bodega")
	}

	var out []*entity.SaleConsumption
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		var err error
		if fromWarehouse {
			out, err = uc.consumeWarehouse(ctx, tx, in)
		} else {
			out, err = uc.consumeStorefront(ctx, tx, in)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("sale_reference", in.SaleReference).
		Int64("quantity", in.Quantity).
		Int("lines", len(out)).
		Msg("venta descontada del inventario")
	return out, nil
}

func (uc *SaleConsumptionUseCase) consumeWarehouse(ctx context.Context, tx repository.Tx, in ConsumeInput) ([]*entity.SaleConsumption, error) {
	sp, err := tx.StockProducts.GetForUpdate(ctx, in.BusinessID, in.StockProductID)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, domain.ErrNotFound
	}
	now := uc.ledger.Now()

	var res *entity.Reservation
	var own int64
	if in.ReservationID != "" {
		res, err = tx.Reservations.GetForUpdate(ctx, in.BusinessID, in.ReservationID)
		if err != nil {
			return nil, err
		}
		if res == nil {
			return nil, domain.ErrNotFound
		}
		if res.StockProductID != sp.ID {
			return nil, domain.NewValidationError("reservation_id", "la reserva pertenece a otro stock_product")
		}
		if in.Quantity > res.Quantity {
			return nil, domain.NewValidationError("quantity", "supera la cantidad reservada")
		}
		if err := linkReservation(res, in.SaleReference, now); err != nil {
			return nil, err
		}
		own = res.Quantity
	}

	active, err := tx.Reservations.SumActive(ctx, in.BusinessID, []string{sp.ID}, now)
	if err != nil {
		return nil, err
	}
	available := sp.WorkingQuantity - active[sp.ID] + own
	if in.Quantity > available {
		return nil, &domain.InsufficientStockError{
			StockProductID: sp.ID,
			ProductID:      sp.ProductID,
			ItemIndex:      -1,
			Requested:      in.Quantity,
			Available:      available,
		}
	}
	if _, err := uc.ledger.LockAndMutate(ctx, tx, in.BusinessID, sp.ID, -in.Quantity, "sale:"+in.SaleReference); err != nil {
		return nil, err
	}
	c := &entity.SaleConsumption{
		ID:             uuid.New().String(),
		BusinessID:     in.BusinessID,
		SaleReference:  in.SaleReference,
		StockProductID: sp.ID,
		WarehouseID:    sp.WarehouseID,
		ProductID:      sp.ProductID,
		BatchID:        sp.BatchID,
		Quantity:       in.Quantity,
		ReservationID:  in.ReservationID,
		CreatedBy:      in.UserID,
		CreatedAt:      now,
	}
	if err := tx.Consumptions.Create(ctx, c); err != nil {
		return nil, err
	}
	if res != nil {
		if err := tx.Reservations.Update(ctx, res); err != nil {
			return nil, err
		}
	}
	return []*entity.SaleConsumption{c}, nil
}

func (uc *SaleConsumptionUseCase) consumeStorefront(ctx context.Context, tx repository.Tx, in ConsumeInput) ([]*entity.SaleConsumption, error) {
	lots, err := tx.Holdings.List(ctx, repository.HoldingFilter{
		BusinessID:   in.BusinessID,
		StorefrontID: in.StorefrontID,
		ProductID:    in.ProductID,
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(lots))
	for _, h := range lots {
		ids = append(ids, h.ID)
	}
	sort.Strings(ids)
	locked, err := tx.Holdings.LockMany(ctx, in.BusinessID, ids)
	if err != nil {
		return nil, err
	}
	ordered := make([]*entity.StorefrontHolding, 0, len(locked))
	var total int64
	for _, h := range locked {
		ordered = append(ordered, h)
		total += h.Quantity
	}
	if in.Quantity > total {
		return nil, &domain.InsufficientStockError{
			ProductID: in.ProductID,
			ItemIndex: -1,
			Requested: in.Quantity,
			Available: total,
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	now := uc.ledger.Now()
	pending := in.Quantity
	var out []*entity.SaleConsumption
	for _, h := range ordered {
		if pending == 0 {
			break
		}
		take := h.Quantity
		if take > pending {
			take = pending
		}
		if take == 0 {
			continue
		}
		if _, err := uc.ledger.LockAndMutateHolding(ctx, tx, in.BusinessID, h.ID, -take, "sale:"+in.SaleReference); err != nil {
			return nil, err
		}
		origin, err := tx.StockProducts.GetByID(ctx, in.BusinessID, h.StockProductID)
		if err != nil {
			return nil, err
		}
		c := &entity.SaleConsumption{
			ID:                  uuid.New().String(),
			BusinessID:          in.BusinessID,
			SaleReference:       in.SaleReference,
			StockProductID:      h.StockProductID,
			StorefrontHoldingID: h.ID,
			StorefrontID:        h.StorefrontID,
			ProductID:           h.ProductID,
			Quantity:            take,
			CreatedBy:           in.UserID,
			CreatedAt:           now,
		}
		if origin != nil {
			c.BatchID = origin.BatchID
			c.WarehouseID = origin.WarehouseID
		}
		if err := tx.Consumptions.Create(ctx, c); err != nil {
			return nil, err
		}
		out = append(out, c)
		pending -= take
	}
	return out, nil
}

package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// StockUseCase registra ingresos (creación de StockProduct) y consulta existencias.
type StockUseCase struct {
	txRunner  TxRunner
	readers   Readers
	locations repository.LocationRepository
	ledger    *Ledger
	log       zerolog.Logger
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(txRunner TxRunner, readers Readers, locations repository.LocationRepository, ledger *Ledger, log zerolog.Logger) *StockUseCase {
	return &StockUseCase{txRunner: txRunner, readers: readers, locations: locations, ledger: ledger, log: log}
}

// IntakeInput entrada para registrar un ingreso de mercancía en una bodega.
type IntakeInput struct {
	BusinessID     string
	UserID         string
	ProductID      string
	WarehouseID    string
	BatchID        string
	SupplierID     string
	Quantity       int64
	UnitCost       decimal.Decimal
	Tax            decimal.Decimal
	AdditionalCost decimal.Decimal
}

// StockAvailability cantidad de un StockProduct descontando reservas activas.
type StockAvailability struct {
	StockProduct *entity.StockProduct
	Reserved     int64
	Available    int64
}

// Receive crea un StockProduct con WorkingQuantity = IntakeQuantity.
func (uc *StockUseCase) Receive(ctx context.Context, in IntakeInput) (*entity.StockProduct, error) {
	if in.ProductID == "" {
		return nil, domain.NewValidationError("product_id", "requerido")
	}
	if in.WarehouseID == "" {
		return nil, domain.NewValidationError("warehouse_id", "requerido")
	}
	if in.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	if in.UnitCost.IsNegative() || in.Tax.IsNegative() || in.AdditionalCost.IsNegative() {
		return nil, domain.NewValidationError("unit_cost", "los costos no pueden ser negativos")
	}
	wh, err := uc.locations.GetWarehouse(ctx, in.BusinessID, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}

	now := uc.ledger.Now()
	sp := &entity.StockProduct{
		ID:              uuid.New().String(),
		BusinessID:      in.BusinessID,
		ProductID:       in.ProductID,
		WarehouseID:     in.WarehouseID,
		BatchID:         in.BatchID,
		SupplierID:      in.SupplierID,
		IntakeQuantity:  in.Quantity,
		WorkingQuantity: in.Quantity,
		UnitCost:        in.UnitCost,
		Tax:             in.Tax,
		AdditionalCost:  in.AdditionalCost,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		return tx.StockProducts.Create(ctx, sp)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("stock_product_id", sp.ID).
		Str("product_id", sp.ProductID).
		Str("warehouse_id", sp.WarehouseID).
		Int64("quantity", sp.IntakeQuantity).
		Str("user_id", in.UserID).
		Msg("ingreso registrado")
	return sp, nil
}

// Get obtiene un StockProduct con su disponibilidad.
func (uc *StockUseCase) Get(ctx context.Context, businessID, id string) (*StockAvailability, error) {
	sp, err := uc.readers.StockProducts.GetByID(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.withAvailability(ctx, businessID, []*entity.StockProduct{sp})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

// List lista StockProducts filtrados, con disponibilidad.
func (uc *StockUseCase) List(ctx context.Context, filter repository.StockProductFilter) ([]StockAvailability, error) {
	list, err := uc.readers.StockProducts.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return uc.withAvailability(ctx, filter.BusinessID, list)
}

// ListHoldings lista los lotes de un punto de venta.
func (uc *StockUseCase) ListHoldings(ctx context.Context, filter repository.HoldingFilter) ([]*entity.StorefrontHolding, error) {
	if filter.StorefrontID != "" {
		sf, err := uc.locations.GetStorefront(ctx, filter.BusinessID, filter.StorefrontID)
		if err != nil {
			return nil, err
		}
		if sf == nil {
			return nil, domain.ErrNotFound
		}
	}
	return uc.readers.Holdings.List(ctx, filter)
}

func (uc *StockUseCase) withAvailability(ctx context.Context, businessID string, list []*entity.StockProduct) ([]StockAvailability, error) {
	ids := make([]string, 0, len(list))
	for _, sp := range list {
		ids = append(ids, sp.ID)
	}
	reserved := map[string]int64{}
	if len(ids) > 0 {
		var err error
		reserved, err = uc.readers.Reservations.SumActive(ctx, businessID, ids, uc.ledger.Now())
		if err != nil {
			return nil, err
		}
	}
	out := make([]StockAvailability, 0, len(list))
	for _, sp := range list {
		r := reserved[sp.ID]
		out = append(out, StockAvailability{StockProduct: sp, Reserved: r, Available: sp.WorkingQuantity - r})
	}
	return out, nil
}

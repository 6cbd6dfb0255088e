package memory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Nombres de las fuentes externas que pueden marcarse como no desplegadas.
const (
	SourceSales  = "sales"
	SourceLegacy = "legacy_adjustments"
)

// SaleConsumptionRepository implementa repository.SaleConsumptionRepository en memoria.
type SaleConsumptionRepository struct {
	base
}

var _ repository.SaleConsumptionRepository = (*SaleConsumptionRepository)(nil)

// Create registra un consumo.
func (r *SaleConsumptionRepository) Create(_ context.Context, c *entity.SaleConsumption) error {
	return r.view(func(st *state) error {
		st.consumptions = append(st.consumptions, *c)
		return nil
	})
}

// List lista consumos en orden de registro.
func (r *SaleConsumptionRepository) List(_ context.Context, f repository.ConsumptionFilter) ([]*entity.SaleConsumption, error) {
	var out []*entity.SaleConsumption
	err := r.view(func(st *state) error {
		for _, c := range st.consumptions {
			if c.BusinessID != f.BusinessID {
				continue
			}
			if len(f.StockProductIDs) > 0 && !containsString(f.StockProductIDs, c.StockProductID) {
				continue
			}
			if f.WarehouseOnly && c.StorefrontHoldingID != "" {
				continue
			}
			cp := c
			out = append(out, &cp)
		}
		return nil
	})
	return out, err
}

// SaleRepository implementa repository.SaleRepository sobre líneas sembradas.
type SaleRepository struct {
	base
}

var _ repository.SaleRepository = (*SaleRepository)(nil)

// ListLines lista líneas de venta del negocio.
func (r *SaleRepository) ListLines(_ context.Context, f entity.MovementFilter) ([]entity.SaleLine, error) {
	if r.isUnavailable(SourceSales) {
		return nil, domain.ErrSourceUnavailable
	}
	var out []entity.SaleLine
	err := r.view(func(st *state) error {
		for _, l := range st.saleLines {
			if l.BusinessID != f.BusinessID {
				continue
			}
			if f.ProductID != "" && l.ProductID != f.ProductID {
				continue
			}
			if f.StockProductID != "" && l.StockProductID != f.StockProductID {
				continue
			}
			out = append(out, l)
		}
		return nil
	})
	return out, err
}

// LegacyAdjustmentRepository implementa repository.LegacyAdjustmentRepository sobre filas sembradas.
type LegacyAdjustmentRepository struct {
	base
}

var _ repository.LegacyAdjustmentRepository = (*LegacyAdjustmentRepository)(nil)

// List lista filas del esquema anterior.
func (r *LegacyAdjustmentRepository) List(_ context.Context, f entity.MovementFilter) ([]*entity.LegacyAdjustment, error) {
	if r.isUnavailable(SourceLegacy) {
		return nil, domain.ErrSourceUnavailable
	}
	var out []*entity.LegacyAdjustment
	err := r.view(func(st *state) error {
		for _, a := range st.legacy {
			if a.BusinessID != f.BusinessID {
				continue
			}
			if f.ProductID != "" && a.ProductID != f.ProductID {
				continue
			}
			if f.BatchID != "" && a.BatchID != f.BatchID {
				continue
			}
			if f.WarehouseID != "" && a.WarehouseID != f.WarehouseID {
				continue
			}
			cp := a
			out = append(out, &cp)
		}
		return nil
	})
	return out, err
}

package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// MovementTracker historial unificado de solo lectura: consulta todas las fuentes en paralelo,
// normaliza y ordena del más reciente al más antiguo. Una fuente no disponible aporta cero filas.
type MovementTracker struct {
	sources []MovementSource
	log     zerolog.Logger
}

// NewMovementTracker construye el tracker con las fuentes dadas.
func NewMovementTracker(log zerolog.Logger, sources ...MovementSource) *MovementTracker {
	return &MovementTracker{sources: sources, log: log}
}

// GetMovements devuelve los movimientos filtrados, del más reciente al más antiguo.
func (t *MovementTracker) GetMovements(ctx context.Context, f entity.MovementFilter) ([]entity.MovementRecord, error) {
	all, err := t.collect(ctx, f)
	if err != nil {
		return nil, err
	}
	if f.Offset > 0 {
		if f.Offset >= len(all) {
			return []entity.MovementRecord{}, nil
		}
		all = all[f.Offset:]
	}
	if f.Limit > 0 && len(all) > f.Limit {
		all = all[:f.Limit]
	}
	return all, nil
}

// GetSummary agrega los movimientos filtrados. Limit/Offset se ignoran.
func (t *MovementTracker) GetSummary(ctx context.Context, f entity.MovementFilter) (*dto.MovementSummaryDTO, error) {
	f.Limit, f.Offset = 0, 0
	all, err := t.collect(ctx, f)
	if err != nil {
		return nil, err
	}
	return Summarize(all), nil
}

// Summarize agrega registros ya filtrados. Los pendientes de aplicar solo cuentan en
// AwaitingApplicationUnits.
func Summarize(records []entity.MovementRecord) *dto.MovementSummaryDTO {
	s := &dto.MovementSummaryDTO{
		ShrinkageValue: decimal.Zero,
		ByCategory:     map[string]dto.CategorySummaryDTO{},
		ByType:         map[string]int{},
	}
	for _, m := range records {
		if m.Status == entity.MovementStatusAwaitingApplication {
			s.AwaitingApplicationUnits += abs(m.Quantity)
			continue
		}
		s.ByType[m.Type]++
		if m.Quantity > 0 {
			s.TotalIn += m.Quantity
		} else {
			s.TotalOut -= m.Quantity
		}
		switch m.Type {
		case entity.MovementTypeAdjustment, entity.MovementTypeLegacyAdjustment:
			cat := inventory.AdjustmentCategory(m.Category)
			c := s.ByCategory[m.Category]
			c.Count++
			c.Units += m.Quantity
			c.Value = c.Value.Add(m.TotalValue)
			s.ByCategory[m.Category] = c
			switch {
			case cat.IsShrinkage():
				s.ShrinkageUnits -= m.Quantity
				s.ShrinkageValue = s.ShrinkageValue.Add(m.TotalValue)
			case cat.IsCorrection():
				s.CorrectionUnits += m.Quantity
			}
		case entity.MovementTypeTransfer, entity.MovementTypeTransferReversal, entity.MovementTypeLegacyTransfer:
			if m.Quantity > 0 {
				s.TransfersIn += m.Quantity
			} else {
				s.TransfersOut -= m.Quantity
			}
		case entity.MovementTypeSale:
			s.SoldUnits -= m.Quantity
		}
	}
	s.Net = s.TotalIn - s.TotalOut
	return s
}

func (t *MovementTracker) collect(ctx context.Context, f entity.MovementFilter) ([]entity.MovementRecord, error) {
	if f.BusinessID == "" {
		return nil, domain.NewValidationError("business_id", "requerido")
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, domain.NewValidationError("to", "debe ser posterior a from")
	}
	results := make([][]entity.MovementRecord, len(t.sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range t.sources {
		g.Go(func() error {
			recs, err := src.Movements(gctx, f)
			if errors.Is(err, domain.ErrSourceUnavailable) {
				t.log.Warn().Err(err).Str("source", src.Name()).Msg("fuente de movimientos no disponible, se omite")
				return nil
			}
			if err != nil {
				return fmt.Errorf("%s: %w", src.Name(), err)
			}
			results[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []entity.MovementRecord
	for _, recs := range results {
		for _, m := range recs {
			if matches(m, f) {
				all = append(all, m)
			}
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].Date.Equal(all[j].Date) {
			return all[i].Date.After(all[j].Date)
		}
		return all[i].ID > all[j].ID
	})
	if all == nil {
		all = []entity.MovementRecord{}
	}
	return all, nil
}

// matches aplica el filtro común a todas las fuentes. Los filtros de bodega y punto de venta
// se evalúan sobre la ubicación del registro.
func matches(m entity.MovementRecord, f entity.MovementFilter) bool {
	if f.ProductID != "" && m.ProductID != f.ProductID {
		return false
	}
	if f.BatchID != "" && m.BatchID != f.BatchID {
		return false
	}
	if f.StockProductID != "" && m.StockProductID != f.StockProductID {
		return false
	}
	if f.WarehouseID != "" && (m.Location.Type != entity.LocationWarehouse || m.Location.ID != f.WarehouseID) {
		return false
	}
	if f.StorefrontID != "" && (m.Location.Type != entity.LocationStorefront || m.Location.ID != f.StorefrontID) {
		return false
	}
	if len(f.Types) > 0 {
		ok := false
		for _, typ := range f.Types {
			if typ == m.Type {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.From != nil && m.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && m.Date.After(*f.To) {
		return false
	}
	return true
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

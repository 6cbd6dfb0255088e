package inventory

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ReconciliationChecker verifica que el stock físico de un alcance cuadre con su ingreso y sus
// movimientos registrados:
//
//	real     = Σ working de bodega + Σ lotes en punto de venta
//	esperado = ingreso - merma + correcciones - vendidas + entradas_traslado - salidas_traslado
//
// Un delta distinto de cero se reporta como hallazgo; nunca se corrige automáticamente.
type ReconciliationChecker struct {
	readers Readers
	tracker *MovementTracker
	ledger  *Ledger
	log     zerolog.Logger
}

// NewReconciliationChecker construye el verificador.
func NewReconciliationChecker(readers Readers, tracker *MovementTracker, ledger *Ledger, log zerolog.Logger) *ReconciliationChecker {
	return &ReconciliationChecker{readers: readers, tracker: tracker, ledger: ledger, log: log}
}

// VerifyInput alcance de la verificación. ProductID es obligatorio.
// Con WarehouseID solo cuenta la bodega: los lotes en punto de venta quedan fuera y los envíos
// a punto de venta cuentan como salidas de traslado.
type VerifyInput struct {
	BusinessID  string
	ProductID   string
	BatchID     string
	WarehouseID string
}

// Verify calcula los términos, el delta y los hallazgos del alcance.
func (c *ReconciliationChecker) Verify(ctx context.Context, in VerifyInput) (*dto.ReconciliationResultDTO, error) {
	if in.ProductID == "" {
		return nil, domain.NewValidationError("product_id", "requerido")
	}
	now := c.ledger.Now()
	stock, err := c.readers.StockProducts.List(ctx, repository.StockProductFilter{
		BusinessID:  in.BusinessID,
		ProductID:   in.ProductID,
		BatchID:     in.BatchID,
		WarehouseID: in.WarehouseID,
	})
	if err != nil {
		return nil, err
	}

	var terms inventory.ReconciliationTerms
	ids := make([]string, 0, len(stock))
	inScope := make(map[string]struct{}, len(stock))
	for _, sp := range stock {
		terms.IntakeQuantity += sp.IntakeQuantity
		terms.WarehouseWorking += sp.WorkingQuantity
		ids = append(ids, sp.ID)
		inScope[sp.ID] = struct{}{}
	}

	if len(ids) > 0 {
		if in.WarehouseID == "" {
			lots, err := c.readers.Holdings.List(ctx, repository.HoldingFilter{BusinessID: in.BusinessID, StockProductIDs: ids})
			if err != nil {
				return nil, err
			}
			for _, h := range lots {
				terms.StorefrontHolding += h.Quantity
			}
		}
		reserved, err := c.readers.Reservations.SumActive(ctx, in.BusinessID, ids, now)
		if err != nil {
			return nil, err
		}
		for _, n := range reserved {
			terms.ReservedUnits += n
		}
		consumed, err := c.readers.Consumptions.List(ctx, repository.ConsumptionFilter{
			BusinessID:      in.BusinessID,
			StockProductIDs: ids,
			WarehouseOnly:   in.WarehouseID != "",
		})
		if err != nil {
			return nil, err
		}
		for _, sc := range consumed {
			terms.SoldUnits += sc.Quantity
		}
	}

	summary, err := c.tracker.GetSummary(ctx, entity.MovementFilter{
		BusinessID:  in.BusinessID,
		ProductID:   in.ProductID,
		BatchID:     in.BatchID,
		WarehouseID: in.WarehouseID,
	})
	if err != nil {
		return nil, err
	}
	terms.ShrinkageUnits = summary.ShrinkageUnits
	terms.CorrectionUnits = summary.CorrectionUnits
	terms.TransfersIn = summary.TransfersIn
	terms.TransfersOut = summary.TransfersOut

	res := &dto.ReconciliationResultDTO{
		ProductID:   in.ProductID,
		BatchID:     in.BatchID,
		WarehouseID: in.WarehouseID,
		Expected:    terms.Expected(),
		Actual:      terms.Actual(),
		Delta:       terms.Delta(),
		Available:   terms.Available(),
		Terms:       toTermsDTO(terms),
		Findings:    []dto.DriftFindingDTO{},
		CheckedAt:   now,
	}
	res.Balanced = res.Delta == 0
	if !res.Balanced {
		drift := &domain.DriftError{
			Kind:        "imbalance",
			ProductID:   in.ProductID,
			BatchID:     in.BatchID,
			WarehouseID: in.WarehouseID,
			Expected:    res.Expected,
			Actual:      res.Actual,
			Delta:       res.Delta,
		}
		res.Findings = append(res.Findings, toFindingDTO(drift))
		c.log.Warn().Err(drift).Msg("conciliación con descuadre")
	}

	shortfalls, err := c.shortfalls(ctx, in, inScope)
	if err != nil {
		return nil, err
	}
	for _, s := range shortfalls {
		res.Findings = append(res.Findings, toFindingDTO(s))
	}
	return res, nil
}

// shortfalls hallazgos de reversiones parciales de traslados sobre registros del alcance.
func (c *ReconciliationChecker) shortfalls(ctx context.Context, in VerifyInput, inScope map[string]struct{}) ([]*domain.DriftError, error) {
	cancelled, err := c.readers.Transfers.List(ctx, repository.TransferFilter{
		BusinessID: in.BusinessID,
		Statuses:   []inventory.TransferStatus{inventory.TransferCancelled},
	})
	if err != nil {
		return nil, err
	}
	var out []*domain.DriftError
	for _, t := range cancelled {
		for _, it := range t.Items {
			if it.ReversalShortfall <= 0 {
				continue
			}
			if _, ok := inScope[it.StockProductID]; !ok {
				continue
			}
			out = append(out, &domain.DriftError{
				Kind:        "reversal_shortfall",
				ProductID:   it.ProductID,
				BatchID:     it.BatchID,
				WarehouseID: t.SourceWarehouseID,
				Expected:    it.ReceivedQuantity,
				Actual:      it.ReversedQuantity,
				Delta:       -it.ReversalShortfall,
				Reference:   t.Reference,
			})
		}
	}
	return out, nil
}

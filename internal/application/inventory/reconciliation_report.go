package inventory

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// DriftReportRenderer genera la representación imprimible (PDF) de un reporte de conciliación.
type DriftReportRenderer interface {
	Render(report *dto.ReconciliationReportDTO) ([]byte, error)
}

// ReconciliationReportUseCase verifica todas las combinaciones producto/lote/bodega de un negocio,
// más el total por producto, y agrega los hallazgos.
type ReconciliationReportUseCase struct {
	checker  *ReconciliationChecker
	stock    repository.StockProductRepository
	renderer DriftReportRenderer
	log      zerolog.Logger
}

// NewReconciliationReportUseCase construye el caso de uso. renderer puede ser nil si no se exporta PDF.
func NewReconciliationReportUseCase(checker *ReconciliationChecker, stock repository.StockProductRepository, renderer DriftReportRenderer, log zerolog.Logger) *ReconciliationReportUseCase {
	return &ReconciliationReportUseCase{checker: checker, stock: stock, renderer: renderer, log: log}
}

type scopeKey struct {
	productID, batchID, warehouseID string
}

// Run ejecuta la conciliación completa del negocio.
func (uc *ReconciliationReportUseCase) Run(ctx context.Context, businessID string) (*dto.ReconciliationReportDTO, error) {
	all, err := uc.stock.List(ctx, repository.StockProductFilter{BusinessID: businessID})
	if err != nil {
		return nil, err
	}
	seen := map[scopeKey]struct{}{}
	var scopes []scopeKey
	add := func(k scopeKey) {
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		scopes = append(scopes, k)
	}
	for _, sp := range all {
		add(scopeKey{productID: sp.ProductID})
		add(scopeKey{productID: sp.ProductID, batchID: sp.BatchID, warehouseID: sp.WarehouseID})
	}
	sort.Slice(scopes, func(i, j int) bool {
		a, b := scopes[i], scopes[j]
		if a.productID != b.productID {
			return a.productID < b.productID
		}
		if a.warehouseID != b.warehouseID {
			return a.warehouseID < b.warehouseID
		}
		return a.batchID < b.batchID
	})

	report := &dto.ReconciliationReportDTO{
		BusinessID:  businessID,
		GeneratedAt: uc.checker.ledger.Now(),
		Results:     make([]dto.ReconciliationResultDTO, 0, len(scopes)),
		Findings:    []dto.DriftFindingDTO{},
	}
	findings := map[string]struct{}{}
	for _, k := range scopes {
		res, err := uc.checker.Verify(ctx, VerifyInput{
			BusinessID:  businessID,
			ProductID:   k.productID,
			BatchID:     k.batchID,
			WarehouseID: k.warehouseID,
		})
		if err != nil {
			return nil, err
		}
		report.Checked++
		if !res.Balanced {
			report.Imbalanced++
		}
		for _, f := range res.Findings {
			// un faltante de reversión aparece en cada alcance que contiene su registro origen
			key := f.Kind + "|" + f.ProductID + "|" + f.BatchID + "|" + f.WarehouseID + "|" + f.Reference
			if _, dup := findings[key]; dup {
				continue
			}
			findings[key] = struct{}{}
			report.Findings = append(report.Findings, f)
		}
		report.Results = append(report.Results, *res)
	}
	uc.log.Info().
		Str("business_id", businessID).
		Int("checked", report.Checked).
		Int("imbalanced", report.Imbalanced).
		Int("findings", len(report.Findings)).
		Msg("conciliación completa")
	return report, nil
}

// RunPDF ejecuta la conciliación y la exporta en PDF.
func (uc *ReconciliationReportUseCase) RunPDF(ctx context.Context, businessID string) ([]byte, error) {
	report, err := uc.Run(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return uc.RenderPDF(report)
}

// RenderPDF exporta en PDF un reporte ya calculado.
func (uc *ReconciliationReportUseCase) RenderPDF(report *dto.ReconciliationReportDTO) ([]byte, error) {
	if uc.renderer == nil {
		return nil, errors.New("exportación PDF no configurada")
	}
	return uc.renderer.Render(report)
}

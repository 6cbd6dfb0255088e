package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Orígenes de un movimiento en el historial unificado.
const (
	OriginCurrent = "current"
	OriginLegacy  = "legacy"
	OriginSales   = "sales"
)

// MovementSource fuente de movimientos del tracker. Una fuente cuyo almacenamiento aún no existe
// (despliegue escalonado) devuelve domain.ErrSourceUnavailable y el tracker la omite.
type MovementSource interface {
	Name() string
	Movements(ctx context.Context, filter entity.MovementFilter) ([]entity.MovementRecord, error)
}

// ── Ajustes actuales ──────────────────────────────────────────────────────────

// AdjustmentSource publica ajustes aprobados (pendientes de aplicar) y completados.
type AdjustmentSource struct {
	repo repository.AdjustmentRepository
}

// NewAdjustmentSource construye la fuente.
func NewAdjustmentSource(repo repository.AdjustmentRepository) *AdjustmentSource {
	return &AdjustmentSource{repo: repo}
}

// Name implementa MovementSource.
func (s *AdjustmentSource) Name() string { return "adjustments" }

// Movements implementa MovementSource.
func (s *AdjustmentSource) Movements(ctx context.Context, f entity.MovementFilter) ([]entity.MovementRecord, error) {
	if f.StorefrontID != "" {
		return nil, nil
	}
	list, err := s.repo.List(ctx, repository.AdjustmentFilter{
		BusinessID:     f.BusinessID,
		Statuses:       []inventory.AdjustmentStatus{inventory.AdjustmentApproved, inventory.AdjustmentCompleted},
		StockProductID: f.StockProductID,
		ProductID:      f.ProductID,
		WarehouseID:    f.WarehouseID,
		BatchID:        f.BatchID,
	})
	if err != nil {
		return nil, err
	}
	out := make([]entity.MovementRecord, 0, len(list))
	for _, a := range list {
		rec := entity.MovementRecord{
			ID:             a.ID,
			Type:           entity.MovementTypeAdjustment,
			Category:       string(a.Category),
			Status:         entity.MovementStatusApplied,
			Origin:         OriginCurrent,
			Date:           a.CreatedAt,
			ProductID:      a.ProductID,
			StockProductID: a.StockProductID,
			BatchID:        a.BatchID,
			Quantity:       a.Delta,
			Location:       entity.LocationRef{Type: entity.LocationWarehouse, ID: a.WarehouseID},
			UnitCost:       a.UnitCostSnapshot,
			TotalValue:     inventory.LineValue(a.Delta, a.UnitCostSnapshot),
			Actor:          a.ApprovedBy,
			Reference:      a.Reference,
		}
		switch {
		case a.CompletedAt != nil:
			rec.Date = *a.CompletedAt
		case a.ApprovedAt != nil:
			rec.Date = *a.ApprovedAt
		}
		if a.AwaitingApplication() {
			rec.Status = entity.MovementStatusAwaitingApplication
		}
		rec.Source, rec.Destination = adjustmentEnds(rec.Location, a.Delta)
		out = append(out, rec)
	}
	return out, nil
}

func adjustmentEnds(at entity.LocationRef, delta int64) (entity.LocationRef, entity.LocationRef) {
	external := entity.LocationRef{Type: entity.LocationExternal}
	if delta < 0 {
		return at, external
	}
	return external, at
}

// ── Traslados actuales ────────────────────────────────────────────────────────

// TransferSource publica cada línea de un traslado completado como dos tramos (salida en origen,
// entrada en destino) y, si fue cancelado después de completarse, los tramos de reversión.
type TransferSource struct {
	repo repository.TransferRepository
}

// NewTransferSource construye la fuente.
func NewTransferSource(repo repository.TransferRepository) *TransferSource {
	return &TransferSource{repo: repo}
}

// Name implementa MovementSource.
func (s *TransferSource) Name() string { return "transfers" }

// Movements implementa MovementSource.
func (s *TransferSource) Movements(ctx context.Context, f entity.MovementFilter) ([]entity.MovementRecord, error) {
	list, err := s.repo.List(ctx, repository.TransferFilter{
		BusinessID: f.BusinessID,
		Statuses:   []inventory.TransferStatus{inventory.TransferCompleted, inventory.TransferCancelled},
	})
	if err != nil {
		return nil, err
	}
	var out []entity.MovementRecord
	for _, t := range list {
		if t.CompletedAt == nil {
			continue
		}
		src := entity.LocationRef{Type: entity.LocationWarehouse, ID: t.SourceWarehouseID}
		dst := entity.LocationRef{Type: entity.LocationWarehouse, ID: t.DestinationWarehouseID}
		if t.DestinationStorefrontID != "" {
			dst = entity.LocationRef{Type: entity.LocationStorefront, ID: t.DestinationStorefrontID}
		}
		for _, it := range t.Items {
			destSP := it.DestinationStockProductID
			if destSP == "" {
				destSP = it.StockProductID
			}
			leg := transferLeg{transfer: t, item: it, src: src, dst: dst}
			out = append(out,
				leg.record(it.ID+":out", entity.MovementTypeTransfer, *t.CompletedAt, src, it.StockProductID, -it.ReceivedQuantity, t.CompletedBy),
				leg.record(it.ID+":in", entity.MovementTypeTransfer, *t.CompletedAt, dst, destSP, it.ReceivedQuantity, t.CompletedBy),
			)
			if t.CancelledAt == nil || t.Status != inventory.TransferCancelled {
				continue
			}
			rev := transferLeg{transfer: t, item: it, src: dst, dst: src}
			out = append(out,
				rev.record(it.ID+":reversal-out", entity.MovementTypeTransferReversal, *t.CancelledAt, dst, destSP, -it.ReversedQuantity, t.CancelledBy),
				rev.record(it.ID+":reversal-in", entity.MovementTypeTransferReversal, *t.CancelledAt, src, it.StockProductID, it.ReversedQuantity, t.CancelledBy),
			)
		}
	}
	return out, nil
}

type transferLeg struct {
	transfer *entity.Transfer
	item     entity.TransferItem
	src, dst entity.LocationRef
}

func (l transferLeg) record(id, typ string, at time.Time, loc entity.LocationRef, stockProductID string, qty int64, actor string) entity.MovementRecord {
	return entity.MovementRecord{
		ID:             id,
		Type:           typ,
		Status:         entity.MovementStatusApplied,
		Origin:         OriginCurrent,
		Date:           at,
		ProductID:      l.item.ProductID,
		StockProductID: stockProductID,
		BatchID:        l.item.BatchID,
		Quantity:       qty,
		Location:       loc,
		Source:         l.src,
		Destination:    l.dst,
		UnitCost:       l.item.UnitCostSnapshot,
		TotalValue:     inventory.LineValue(qty, l.item.UnitCostSnapshot),
		Actor:          actor,
		Reference:      l.transfer.Reference,
	}
}

// ── Esquema anterior ──────────────────────────────────────────────────────────

// LegacySource publica las filas del esquema anterior. Los pares transfer_out/transfer_in con la
// misma referencia se publican como tramos de traslado; el resto como ajustes con su categoría.
// Filas aprobadas y nunca aplicadas aparecen como pendientes de aplicar.
type LegacySource struct {
	repo repository.LegacyAdjustmentRepository
}

// NewLegacySource construye la fuente.
func NewLegacySource(repo repository.LegacyAdjustmentRepository) *LegacySource {
	return &LegacySource{repo: repo}
}

// Name implementa MovementSource.
func (s *LegacySource) Name() string { return "legacy_adjustments" }

// Movements implementa MovementSource.
func (s *LegacySource) Movements(ctx context.Context, f entity.MovementFilter) ([]entity.MovementRecord, error) {
	if f.StorefrontID != "" {
		return nil, nil
	}
	pushdown := f
	pushdown.WarehouseID = "" // el par de un traslado puede estar en otra bodega
	rows, err := s.repo.List(ctx, pushdown)
	if err != nil {
		return nil, err
	}

	type pairKey struct{ reference, productID, kind string }
	pairs := map[pairKey]*entity.LegacyAdjustment{}
	for _, r := range rows {
		if r.AdjustmentType == entity.LegacyTypeTransferOut || r.AdjustmentType == entity.LegacyTypeTransferIn {
			pairs[pairKey{r.Reference, r.ProductID, r.AdjustmentType}] = r
		}
	}

	out := make([]entity.MovementRecord, 0, len(rows))
	for _, r := range rows {
		var status string
		switch r.Status {
		case "completed":
			status = entity.MovementStatusApplied
		case "approved":
			status = entity.MovementStatusAwaitingApplication
		default:
			continue
		}
		loc := entity.LocationRef{Type: entity.LocationWarehouse, ID: r.WarehouseID}
		rec := entity.MovementRecord{
			ID:             r.ID,
			Type:           entity.MovementTypeLegacyAdjustment,
			Category:       r.AdjustmentType,
			Status:         status,
			Origin:         OriginLegacy,
			Date:           r.CreatedAt,
			ProductID:      r.ProductID,
			StockProductID: r.StockProductID,
			BatchID:        r.BatchID,
			Quantity:       r.Quantity,
			Location:       loc,
			UnitCost:       r.UnitCost,
			TotalValue:     inventory.LineValue(r.Quantity, r.UnitCost),
			Actor:          r.CreatedBy,
			Reference:      r.Reference,
		}
		switch r.AdjustmentType {
		case entity.LegacyTypeTransferOut:
			rec.Type = entity.MovementTypeLegacyTransfer
			rec.Category = ""
			rec.Source = loc
			rec.Destination = entity.LocationRef{Type: entity.LocationExternal}
			if in := pairs[pairKey{r.Reference, r.ProductID, entity.LegacyTypeTransferIn}]; in != nil {
				rec.Destination = entity.LocationRef{Type: entity.LocationWarehouse, ID: in.WarehouseID}
			}
		case entity.LegacyTypeTransferIn:
			rec.Type = entity.MovementTypeLegacyTransfer
			rec.Category = ""
			rec.Destination = loc
			rec.Source = entity.LocationRef{Type: entity.LocationExternal}
			if o := pairs[pairKey{r.Reference, r.ProductID, entity.LegacyTypeTransferOut}]; o != nil {
				rec.Source = entity.LocationRef{Type: entity.LocationWarehouse, ID: o.WarehouseID}
			}
		default:
			rec.Source, rec.Destination = adjustmentEnds(loc, r.Quantity)
		}
		out = append(out, rec)
	}
	return out, nil
}

// ── Ventas ────────────────────────────────────────────────────────────────────

// SaleSource publica las líneas del módulo de ventas como salidas hacia el cliente.
// unit_cost lleva el precio unitario de venta.
type SaleSource struct {
	repo repository.SaleRepository
}

// NewSaleSource construye la fuente.
func NewSaleSource(repo repository.SaleRepository) *SaleSource {
	return &SaleSource{repo: repo}
}

// Name implementa MovementSource.
func (s *SaleSource) Name() string { return "sales" }

// Movements implementa MovementSource.
func (s *SaleSource) Movements(ctx context.Context, f entity.MovementFilter) ([]entity.MovementRecord, error) {
	lines, err := s.repo.ListLines(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]entity.MovementRecord, 0, len(lines))
	for _, l := range lines {
		loc := entity.LocationRef{Type: entity.LocationWarehouse, ID: l.WarehouseID}
		if l.StorefrontID != "" {
			loc = entity.LocationRef{Type: entity.LocationStorefront, ID: l.StorefrontID}
		}
		out = append(out, entity.MovementRecord{
			ID:             l.SaleItemID,
			Type:           entity.MovementTypeSale,
			Status:         entity.MovementStatusApplied,
			Origin:         OriginSales,
			Date:           l.SoldAt,
			ProductID:      l.ProductID,
			StockProductID: l.StockProductID,
			Quantity:       -l.Quantity,
			Location:       loc,
			Source:         loc,
			Destination:    entity.LocationRef{Type: entity.LocationCustomer},
			UnitCost:       l.UnitPrice,
			TotalValue:     inventory.LineValue(l.Quantity, l.UnitPrice),
			Actor:          l.SoldBy,
			Reference:      l.Reference,
		})
	}
	return out, nil
}

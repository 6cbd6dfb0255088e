package inventory

import (
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// ToStockProductResponse convierte un StockProduct con disponibilidad a DTO.
func ToStockProductResponse(a StockAvailability) dto.StockProductResponse {
	sp := a.StockProduct
	return dto.StockProductResponse{
		ID:                   sp.ID,
		ProductID:            sp.ProductID,
		WarehouseID:          sp.WarehouseID,
		BatchID:              sp.BatchID,
		SupplierID:           sp.SupplierID,
		OriginStockProductID: sp.OriginStockProductID,
		IntakeQuantity:       sp.IntakeQuantity,
		WorkingQuantity:      sp.WorkingQuantity,
		ReservedQuantity:     a.Reserved,
		AvailableQuantity:    a.Available,
		UnitCost:             sp.UnitCost,
		Tax:                  sp.Tax,
		AdditionalCost:       sp.AdditionalCost,
		LandedUnitCost:       sp.LandedUnitCost(),
		CreatedAt:            sp.CreatedAt,
		UpdatedAt:            sp.UpdatedAt,
	}
}

// ToHoldingListResponse convierte lotes de punto de venta a DTO con totales por producto.
func ToHoldingListResponse(list []*entity.StorefrontHolding) dto.HoldingListResponse {
	out := dto.HoldingListResponse{Items: make([]dto.HoldingResponse, 0, len(list)), Totals: map[string]int64{}}
	for _, h := range list {
		out.Items = append(out.Items, dto.HoldingResponse{
			ID:             h.ID,
			StorefrontID:   h.StorefrontID,
			ProductID:      h.ProductID,
			StockProductID: h.StockProductID,
			Quantity:       h.Quantity,
			CreatedAt:      h.CreatedAt,
			UpdatedAt:      h.UpdatedAt,
		})
		out.Totals[h.ProductID] += h.Quantity
	}
	return out
}

// ToTransferResponse convierte un traslado a DTO.
func ToTransferResponse(t *entity.Transfer) dto.TransferResponse {
	out := dto.TransferResponse{
		ID:                      t.ID,
		Type:                    t.Type,
		Status:                  string(t.Status),
		Reference:               t.Reference,
		SourceWarehouseID:       t.SourceWarehouseID,
		DestinationWarehouseID:  t.DestinationWarehouseID,
		DestinationStorefrontID: t.DestinationStorefrontID,
		Notes:                   t.Notes,
		CreatedBy:               t.CreatedBy,
		CompletedBy:             t.CompletedBy,
		CancelledBy:             t.CancelledBy,
		CancelReason:            t.CancelReason,
		CreatedAt:               t.CreatedAt,
		UpdatedAt:               t.UpdatedAt,
		CompletedAt:             t.CompletedAt,
		CancelledAt:             t.CancelledAt,
		Items:                   make([]dto.TransferItemResponse, 0, len(t.Items)),
	}
	for _, it := range t.Items {
		out.Items = append(out.Items, dto.TransferItemResponse{
			ID:                        it.ID,
			Position:                  it.Position,
			ProductID:                 it.ProductID,
			StockProductID:            it.StockProductID,
			BatchID:                   it.BatchID,
			Quantity:                  it.Quantity,
			UnitCostSnapshot:          it.UnitCostSnapshot,
			DestinationStockProductID: it.DestinationStockProductID,
			DestinationHoldingID:      it.DestinationHoldingID,
			ReceivedQuantity:          it.ReceivedQuantity,
			ReversedQuantity:          it.ReversedQuantity,
			ReversalShortfall:         it.ReversalShortfall,
		})
	}
	return out
}

// ToAdjustmentResponse convierte un ajuste a DTO.
func ToAdjustmentResponse(a *entity.Adjustment) dto.AdjustmentResponse {
	return dto.AdjustmentResponse{
		ID:                  a.ID,
		StockProductID:      a.StockProductID,
		ProductID:           a.ProductID,
		WarehouseID:         a.WarehouseID,
		BatchID:             a.BatchID,
		Category:            string(a.Category),
		Delta:               a.Delta,
		Status:              string(a.Status),
		AwaitingApplication: a.AwaitingApplication(),
		Reference:           a.Reference,
		Notes:               a.Notes,
		UnitCostSnapshot:    a.UnitCostSnapshot,
		QuantityBefore:      a.QuantityBefore,
		QuantityAfter:       a.QuantityAfter,
		CreatedBy:           a.CreatedBy,
		ApprovedBy:          a.ApprovedBy,
		RejectedBy:          a.RejectedBy,
		RejectedReason:      a.RejectedReason,
		CompletionError:     a.CompletionError,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
		ApprovedAt:          a.ApprovedAt,
		CompletedAt:         a.CompletedAt,
		RejectedAt:          a.RejectedAt,
	}
}

// ToReservationResponse convierte una reserva a DTO.
func ToReservationResponse(r *entity.Reservation) dto.ReservationResponse {
	return dto.ReservationResponse{
		ID:             r.ID,
		StockProductID: r.StockProductID,
		Quantity:       r.Quantity,
		SessionID:      r.SessionID,
		Status:         string(r.Status),
		SaleID:         r.SaleID,
		ExpiresAt:      r.ExpiresAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		ClosedAt:       r.ClosedAt,
	}
}

// ToSaleConsumptionResponse convierte consumos de venta a DTO.
func ToSaleConsumptionResponse(list []*entity.SaleConsumption) dto.ConsumeSaleResponse {
	out := dto.ConsumeSaleResponse{Items: make([]dto.SaleConsumptionResponse, 0, len(list))}
	for _, c := range list {
		out.Items = append(out.Items, dto.SaleConsumptionResponse{
			ID:                  c.ID,
			SaleReference:       c.SaleReference,
			StockProductID:      c.StockProductID,
			StorefrontHoldingID: c.StorefrontHoldingID,
			StorefrontID:        c.StorefrontID,
			WarehouseID:         c.WarehouseID,
			ProductID:           c.ProductID,
			BatchID:             c.BatchID,
			Quantity:            c.Quantity,
			ReservationID:       c.ReservationID,
			CreatedAt:           c.CreatedAt,
		})
	}
	return out
}

// ToMovementDTO convierte un registro normalizado a DTO.
func ToMovementDTO(m entity.MovementRecord) dto.MovementDTO {
	return dto.MovementDTO{
		ID:             m.ID,
		Type:           m.Type,
		Category:       m.Category,
		Status:         m.Status,
		Origin:         m.Origin,
		Date:           m.Date,
		ProductID:      m.ProductID,
		StockProductID: m.StockProductID,
		BatchID:        m.BatchID,
		Quantity:       m.Quantity,
		Location:       dto.LocationDTO{Type: m.Location.Type, ID: m.Location.ID},
		Source:         dto.LocationDTO{Type: m.Source.Type, ID: m.Source.ID},
		Destination:    dto.LocationDTO{Type: m.Destination.Type, ID: m.Destination.ID},
		UnitCost:       m.UnitCost,
		TotalValue:     m.TotalValue,
		Actor:          m.Actor,
		Reference:      m.Reference,
	}
}

func toTermsDTO(t inventory.ReconciliationTerms) dto.ReconciliationTermsDTO {
	return dto.ReconciliationTermsDTO{
		IntakeQuantity:    t.IntakeQuantity,
		WarehouseWorking:  t.WarehouseWorking,
		StorefrontHolding: t.StorefrontHolding,
		ShrinkageUnits:    t.ShrinkageUnits,
		CorrectionUnits:   t.CorrectionUnits,
		SoldUnits:         t.SoldUnits,
		TransfersIn:       t.TransfersIn,
		TransfersOut:      t.TransfersOut,
		ReservedUnits:     t.ReservedUnits,
	}
}

func toFindingDTO(e *domain.DriftError) dto.DriftFindingDTO {
	return dto.DriftFindingDTO{
		Kind:        e.Kind,
		ProductID:   e.ProductID,
		BatchID:     e.BatchID,
		WarehouseID: e.WarehouseID,
		Expected:    e.Expected,
		Actual:      e.Actual,
		Delta:       e.Delta,
		Reference:   e.Reference,
		Message:     e.Error(),
	}
}

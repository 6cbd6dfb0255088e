package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

func (f *fixture) seedSale(sp *entity.StockProduct, qty int64) {
	f.store.AddSaleLine(entity.SaleLine{
		SaleID:         "sale-1",
		SaleItemID:     "sale-1-item-1",
		BusinessID:     bizID,
		Reference:      "FV-1",
		ProductID:      sp.ProductID,
		StockProductID: sp.ID,
		WarehouseID:    sp.WarehouseID,
		Quantity:       qty,
		UnitPrice:      decimal.NewFromInt(25),
		SoldBy:         "cajero",
		SoldAt:         f.clock.Now(),
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Historial unificado
// ──────────────────────────────────────────────────────────────────────────────

func TestTracker_OrdenYTramosDeTraslado(t *testing.T) {
	f := newFixture(t, false)
	sp := f.receive(t, whMain, 10)
	tr := f.transfer(t, sp, 4, whNorth, "")
	f.clock.Advance(time.Minute)
	f.seedSale(sp, 2)

	list, err := f.engine.Movements.GetMovements(f.ctx, entity.MovementFilter{BusinessID: bizID})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, entity.MovementTypeSale, list[0].Type, "del más reciente al más antiguo")
	assert.Equal(t, inventory.OriginSales, list[0].Origin)
	assert.Equal(t, int64(-2), list[0].Quantity)
	assert.Equal(t, entity.LocationCustomer, list[0].Destination.Type)

	var out, in *entity.MovementRecord
	for i := range list[1:] {
		m := &list[i+1]
		require.Equal(t, entity.MovementTypeTransfer, m.Type)
		assert.Equal(t, tr.Reference, m.Reference)
		if m.Quantity < 0 {
			out = m
		} else {
			in = m
		}
	}
	require.NotNil(t, out)
	require.NotNil(t, in)
	assert.Equal(t, whMain, out.Location.ID)
	assert.Equal(t, whNorth, in.Location.ID)
	assert.Equal(t, whNorth, out.Destination.ID)
	assert.Equal(t, whMain, in.Source.ID)
	assert.True(t, decimal.NewFromInt(40).Equal(in.TotalValue))

	north, err := f.engine.Movements.GetMovements(f.ctx, entity.MovementFilter{BusinessID: bizID, WarehouseID: whNorth})
	require.NoError(t, err)
	require.Len(t, north, 1)
	assert.Equal(t, int64(4), north[0].Quantity)

	page, err := f.engine.Movements.GetMovements(f.ctx, entity.MovementFilter{BusinessID: bizID, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, list[1].ID, page[0].ID)

	sales, err := f.engine.Movements.GetMovements(f.ctx, entity.MovementFilter{BusinessID: bizID, Types: []string{entity.MovementTypeSale}})
	require.NoError(t, err)
	assert.Len(t, sales, 1)

	summary, err := f.engine.Movements.GetSummary(f.ctx, entity.MovementFilter{BusinessID: bizID, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.SoldUnits)
	assert.Equal(t, int64(4), summary.TransfersIn)
	assert.Equal(t, int64(4), summary.TransfersOut)
	assert.Equal(t, int64(-2), summary.Net)
	assert.Equal(t, 2, summary.ByType[entity.MovementTypeTransfer])
}

func TestTracker_FuenteNoDisponibleSeOmite(t *testing.T) {
	f := newFixture(t, false)
	sp := f.receive(t, whMain, 10)
	f.seedSale(sp, 2)
	f.store.SetUnavailable(memory.SourceSales, true)
	f.store.SetUnavailable(memory.SourceLegacy, true)

	adj := f.requestAdjustment(t, sp, "damage", -1)
	_, err := f.engine.Adjustments.Approve(f.ctx, bizID, adj.ID, "supervisor")
	require.NoError(t, err)

	list, err := f.engine.Movements.GetMovements(f.ctx, entity.MovementFilter{BusinessID: bizID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.MovementTypeAdjustment, list[0].Type)

	f.store.SetUnavailable(memory.SourceSales, false)
	list, err = f.engine.Movements.GetMovements(f.ctx, entity.MovementFilter{BusinessID: bizID})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestTracker_Validaciones(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.engine.Movements.GetMovements(f.ctx, entity.MovementFilter{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	from := f.clock.Now()
	to := from.Add(-time.Hour)
	_, err = f.engine.Movements.GetMovements(f.ctx, entity.MovementFilter{BusinessID: bizID, From: &from, To: &to})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := f.engine.Movements.GetMovements(f.ctx, entity.MovementFilter{BusinessID: bizID})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

// ──────────────────────────────────────────────────────────────────────────────
// Esquema anterior
// ──────────────────────────────────────────────────────────────────────────────

func TestTracker_LegacyEmparejaTraslados(t *testing.T) {
	f := newFixture(t, false)
	at := f.clock.Now().Add(-24 * time.Hour)
	legacy := func(id, typ, wh string, qty int64, status string) entity.LegacyAdjustment {
		return entity.LegacyAdjustment{
			ID: id, BusinessID: bizID, ProductID: prodID, BatchID: batchID, WarehouseID: wh,
			StockProductID: "legacy-" + wh, AdjustmentType: typ, Quantity: qty,
			UnitCost: decimal.NewFromInt(10), Reference: "OLD-TRF-1", Status: status, CreatedAt: at,
		}
	}
	f.store.AddLegacyAdjustment(legacy("l-1", entity.LegacyTypeTransferOut, whMain, -3, "completed"))
	f.store.AddLegacyAdjustment(legacy("l-2", entity.LegacyTypeTransferIn, whNorth, 3, "completed"))
	dmg := legacy("l-3", "damage", whMain, -2, "approved")
	dmg.Reference = "OLD-ADJ-1"
	f.store.AddLegacyAdjustment(dmg)
	rej := legacy("l-4", "theft", whMain, -9, "rejected")
	rej.Reference = "OLD-ADJ-2"
	f.store.AddLegacyAdjustment(rej)

	north, err := f.engine.Movements.GetMovements(f.ctx, entity.MovementFilter{BusinessID: bizID, WarehouseID: whNorth})
	require.NoError(t, err)
	require.Len(t, north, 1)
	in := north[0]
	assert.Equal(t, entity.MovementTypeLegacyTransfer, in.Type)
	assert.Equal(t, inventory.OriginLegacy, in.Origin)
	assert.Equal(t, whMain, in.Source.ID, "el par se resuelve aunque esté en otra bodega")
	assert.Equal(t, whNorth, in.Destination.ID)

	all, err := f.engine.Movements.GetMovements(f.ctx, entity.MovementFilter{BusinessID: bizID})
	require.NoError(t, err)
	assert.Len(t, all, 3, "las filas rechazadas no aparecen")

	summary, err := f.engine.Movements.GetSummary(f.ctx, entity.MovementFilter{BusinessID: bizID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.AwaitingApplicationUnits)
	assert.Equal(t, int64(3), summary.TransfersIn)
	assert.Equal(t, int64(3), summary.TransfersOut)
	assert.Equal(t, int64(0), summary.ShrinkageUnits)
}

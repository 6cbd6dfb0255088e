package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/bootstrap"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: motor completo sobre el almacenamiento en memoria con reloj controlado
// ──────────────────────────────────────────────────────────────────────────────

const (
	bizID   = "biz-1"
	userID  = "user-1"
	prodID  = "prod-cafe"
	batchID = "L-2026-01"
	whMain  = "wh-main"
	whNorth = "wh-north"
	sfMall  = "sf-mall"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	ctx    context.Context
	store  *memory.Store
	engine *bootstrap.Engine
	clock  *fakeClock
}

func newFixture(t *testing.T, deferred bool) *fixture {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	store := memory.NewStore()
	store.AddWarehouse(entity.Warehouse{ID: whMain, BusinessID: bizID, Name: "Principal"})
	store.AddWarehouse(entity.Warehouse{ID: whNorth, BusinessID: bizID, Name: "Norte"})
	store.AddStorefront(entity.Storefront{ID: sfMall, BusinessID: bizID, Name: "Centro comercial"})
	engine := bootstrap.NewEngine(bootstrap.MemoryStorage(store), bootstrap.Options{
		ReservationTTL:             10 * time.Minute,
		DeferredAdjustmentComplete: deferred,
		Clock:                      clock.Now,
	}, zerolog.Nop())
	return &fixture{ctx: context.Background(), store: store, engine: engine, clock: clock}
}

// receive registra un ingreso del producto de prueba en la bodega dada.
func (f *fixture) receive(t *testing.T, warehouseID string, qty int64) *entity.StockProduct {
	t.Helper()
	sp, err := f.engine.Stock.Receive(f.ctx, inventory.IntakeInput{
		BusinessID:  bizID,
		UserID:      userID,
		ProductID:   prodID,
		WarehouseID: warehouseID,
		BatchID:     batchID,
		Quantity:    qty,
		UnitCost:    decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	return sp
}

// working devuelve la cantidad de trabajo vigente de un StockProduct.
func (f *fixture) working(t *testing.T, id string) int64 {
	t.Helper()
	av, err := f.engine.Stock.Get(f.ctx, bizID, id)
	require.NoError(t, err)
	return av.StockProduct.WorkingQuantity
}

// transfer crea y completa un traslado de una línea.
func (f *fixture) transfer(t *testing.T, sp *entity.StockProduct, qty int64, toWarehouse, toStorefront string) *entity.Transfer {
	t.Helper()
	tr, err := f.engine.Transfers.Create(f.ctx, inventory.CreateTransferInput{
		BusinessID:              bizID,
		UserID:                  userID,
		SourceWarehouseID:       sp.WarehouseID,
		DestinationWarehouseID:  toWarehouse,
		DestinationStorefrontID: toStorefront,
		Items:                   []inventory.TransferItemInput{{StockProductID: sp.ID, Quantity: qty}},
	})
	require.NoError(t, err)
	tr, err = f.engine.Transfers.Complete(f.ctx, bizID, tr.ID, userID)
	require.NoError(t, err)
	return tr
}

// check concilia el producto de prueba; warehouseID vacío = todas las ubicaciones.
func (f *fixture) check(t *testing.T, warehouseID string) *dto.ReconciliationResultDTO {
	t.Helper()
	res, err := f.engine.Reconciliation.Verify(f.ctx, inventory.VerifyInput{
		BusinessID:  bizID,
		ProductID:   prodID,
		WarehouseID: warehouseID,
	})
	require.NoError(t, err)
	return res
}

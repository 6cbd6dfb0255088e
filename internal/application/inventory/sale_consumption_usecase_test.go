package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	domaininv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

func TestConsume_BodegaConReserva(t *testing.T) {
	f := newFixture(t, false)
	sp := f.receive(t, whMain, 10)
	resID, err := f.reserve(sp.ID, 4, 0)
	require.NoError(t, err)
	_, err = f.reserve(sp.ID, 6, 0)
	require.NoError(t, err)

	// sin reserva propia no queda nada disponible
	_, err = f.engine.SaleConsumption.Consume(f.ctx, inventory.ConsumeInput{
		BusinessID: bizID, SaleReference: "V-1", StockProductID: sp.ID, Quantity: 1,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	out, err := f.engine.SaleConsumption.Consume(f.ctx, inventory.ConsumeInput{
		BusinessID: bizID, UserID: userID, SaleReference: "V-2",
		StockProductID: sp.ID, Quantity: 3, ReservationID: resID,
	})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, whMain, out[0].WarehouseID)
	assert.Equal(t, batchID, out[0].BatchID)
	assert.Equal(t, int64(7), f.working(t, sp.ID))

	res, err := f.engine.Reservations.Get(f.ctx, bizID, resID)
	require.NoError(t, err)
	assert.Equal(t, domaininv.ReservationLinked, res.Status)
	assert.Equal(t, "V-2", res.SaleID)

	check := f.check(t, "")
	assert.True(t, check.Balanced)
	assert.Equal(t, int64(3), check.Terms.SoldUnits)
	assert.Equal(t, int64(6), check.Terms.ReservedUnits)

	wh := f.check(t, whMain)
	assert.True(t, wh.Balanced)
	assert.Equal(t, int64(3), wh.Terms.SoldUnits, "la venta directa de bodega cuenta en su alcance")
}

func TestConsume_PuntoDeVenta_LotesMasAntiguosPrimero(t *testing.T) {
	f := newFixture(t, false)
	a := f.receive(t, whMain, 10)
	b := f.receive(t, whMain, 10)
	f.transfer(t, a, 3, "", sfMall)
	f.clock.Advance(time.Hour)
	f.transfer(t, b, 5, "", sfMall)

	out, err := f.engine.SaleConsumption.Consume(f.ctx, inventory.ConsumeInput{
		BusinessID: bizID, UserID: userID, SaleReference: "V-9",
		StorefrontID: sfMall, ProductID: prodID, Quantity: 4,
	})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, a.ID, out[0].StockProductID)
	assert.Equal(t, int64(3), out[0].Quantity)
	assert.Equal(t, b.ID, out[1].StockProductID)
	assert.Equal(t, int64(1), out[1].Quantity)
	assert.Equal(t, sfMall, out[0].StorefrontID)

	_, err = f.engine.SaleConsumption.Consume(f.ctx, inventory.ConsumeInput{
		BusinessID: bizID, SaleReference: "V-10", StorefrontID: sfMall, ProductID: prodID, Quantity: 5,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	res := f.check(t, "")
	assert.True(t, res.Balanced)
	assert.Equal(t, int64(4), res.Terms.StorefrontHolding)
	assert.Equal(t, int64(4), res.Terms.SoldUnits)

	// con filtro de bodega el punto de venta queda fuera: lo enviado es salida de traslado
	wh := f.check(t, whMain)
	assert.True(t, wh.Balanced)
	assert.Equal(t, int64(0), wh.Terms.SoldUnits)
	assert.Equal(t, int64(8), wh.Terms.TransfersOut)
	assert.Equal(t, int64(12), wh.Actual)
}

func TestConsume_Validaciones(t *testing.T) {
	f := newFixture(t, false)
	sp := f.receive(t, whMain, 10)

	cases := []inventory.ConsumeInput{
		{BusinessID: bizID, StockProductID: sp.ID, Quantity: 1},
		{BusinessID: bizID, SaleReference: "V", StockProductID: sp.ID, Quantity: 0},
		{BusinessID: bizID, SaleReference: "V", Quantity: 1},
		{BusinessID: bizID, SaleReference: "V", StockProductID: sp.ID, StorefrontID: sfMall, Quantity: 1},
		{BusinessID: bizID, SaleReference: "V", StorefrontID: sfMall, Quantity: 1},
		{BusinessID: bizID, SaleReference: "V", StorefrontID: sfMall, ProductID: prodID, ReservationID: "r", Quantity: 1},
	}
	for i, in := range cases {
		_, err := f.engine.SaleConsumption.Consume(f.ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "caso %d", i)
	}
	assert.Equal(t, int64(10), f.working(t, sp.ID))
}

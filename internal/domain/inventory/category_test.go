package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

func TestAdjustmentCategory_Clasificacion(t *testing.T) {
	for _, c := range []inventory.AdjustmentCategory{
		inventory.CategoryTheft, inventory.CategoryDamage, inventory.CategoryExpired,
		inventory.CategorySpoilage, inventory.CategoryLoss, inventory.CategoryWriteOff,
	} {
		assert.True(t, c.IsShrinkage(), c)
		assert.False(t, c.IsCorrection(), c)
	}
	for _, c := range []inventory.AdjustmentCategory{
		inventory.CategoryFound, inventory.CategoryCustomerReturn, inventory.CategoryRecount,
	} {
		assert.True(t, c.IsCorrection(), c)
		assert.False(t, c.IsShrinkage(), c)
	}
}

func TestAdjustmentCategory_ValidateDelta(t *testing.T) {
	cases := []struct {
		name     string
		category inventory.AdjustmentCategory
		delta    int64
		field    string // vacío = válido
	}{
		{"merma negativa", inventory.CategoryDamage, -3, ""},
		{"merma positiva", inventory.CategoryTheft, 3, "delta"},
		{"found positivo", inventory.CategoryFound, 2, ""},
		{"found negativo", inventory.CategoryFound, -2, "delta"},
		{"devolución negativa", inventory.CategoryCustomerReturn, -1, "delta"},
		{"reconteo negativo", inventory.CategoryRecount, -5, ""},
		{"reconteo positivo", inventory.CategoryRecount, 5, ""},
		{"delta cero", inventory.CategoryRecount, 0, "delta"},
		{"categoría desconocida", inventory.AdjustmentCategory("regalo"), -1, "category"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.category.ValidateDelta(tc.delta)
			if tc.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestLandedUnitCost(t *testing.T) {
	// 10 + 20/100 + 30/100 = 10.5
	got := inventory.LandedUnitCost(decimal.NewFromInt(10), decimal.NewFromInt(20), decimal.NewFromInt(30), 100)
	assert.True(t, decimal.RequireFromString("10.5").Equal(got), got.String())

	// sin ingreso se devuelve el costo unitario
	got = inventory.LandedUnitCost(decimal.RequireFromString("4.25"), decimal.NewFromInt(99), decimal.Zero, 0)
	assert.True(t, decimal.RequireFromString("4.25").Equal(got), got.String())
}

func TestLineValue_UsaValorAbsoluto(t *testing.T) {
	assert.True(t, decimal.RequireFromString("31.5").Equal(inventory.LineValue(-3, decimal.RequireFromString("10.5"))))
	assert.True(t, decimal.RequireFromString("31.5").Equal(inventory.LineValue(3, decimal.RequireFromString("10.5"))))
}

func TestReconciliationTerms(t *testing.T) {
	// 100 recibidas, 30 a punto de venta, 5 vendidas allí, 4 dañadas, 2 encontradas
	terms := inventory.ReconciliationTerms{
		IntakeQuantity:    100,
		WarehouseWorking:  68,
		StorefrontHolding: 25,
		ShrinkageUnits:    4,
		CorrectionUnits:   2,
		SoldUnits:         5,
		TransfersIn:       30,
		TransfersOut:      30,
		ReservedUnits:     10,
	}
	assert.Equal(t, int64(93), terms.Actual())
	assert.Equal(t, int64(93), terms.Expected())
	assert.Equal(t, int64(0), terms.Delta())
	assert.Equal(t, int64(83), terms.Available(), "las reservas no entran en el balance")

	terms.WarehouseWorking = 66
	assert.Equal(t, int64(-2), terms.Delta())
}

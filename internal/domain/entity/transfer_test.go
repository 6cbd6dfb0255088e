package entity_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

func validTransfer() *entity.Transfer {
	return &entity.Transfer{
		ID:                     "t-1",
		Status:                 inventory.TransferPending,
		SourceWarehouseID:      "wh-main",
		DestinationWarehouseID: "wh-north",
		Items:                  []entity.TransferItem{{StockProductID: "sp-1", Quantity: 3}},
	}
}

func TestTransfer_Validate_AsignaTipo(t *testing.T) {
	tr := validTransfer()
	require.NoError(t, tr.Validate())
	assert.Equal(t, entity.TransferWarehouseToWarehouse, tr.Type)
	assert.Equal(t, "wh-north", tr.DestinationID())

	tr = validTransfer()
	tr.DestinationWarehouseID = ""
	tr.DestinationStorefrontID = "sf-mall"
	require.NoError(t, tr.Validate())
	assert.Equal(t, entity.TransferWarehouseToStorefront, tr.Type)
	assert.Equal(t, "sf-mall", tr.DestinationID())
}

func TestTransfer_Validate_Errores(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(*entity.Transfer)
		field string
	}{
		{"sin origen", func(t *entity.Transfer) { t.SourceWarehouseID = "" }, "source_warehouse_id"},
		{"sin destino", func(t *entity.Transfer) { t.DestinationWarehouseID = "" }, "destination"},
		{"dos destinos", func(t *entity.Transfer) { t.DestinationStorefrontID = "sf-mall" }, "destination"},
		{"auto traslado", func(t *entity.Transfer) { t.DestinationWarehouseID = "wh-main" }, "destination_warehouse_id"},
		{"sin ítems", func(t *entity.Transfer) { t.Items = nil }, "items"},
		{"cantidad cero", func(t *entity.Transfer) { t.Items[0].Quantity = 0 }, "items"},
		{"cantidad negativa", func(t *entity.Transfer) { t.Items[0].Quantity = -1 }, "items"},
		{"sin stock product", func(t *entity.Transfer) { t.Items[0].StockProductID = "" }, "items"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := validTransfer()
			tc.mut(tr)
			err := tr.Validate()
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr), "se esperaba ValidationError, got %v", err)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestTransfer_Apply(t *testing.T) {
	tr := validTransfer()
	require.NoError(t, tr.Apply(inventory.TransferActionComplete))
	assert.Equal(t, inventory.TransferCompleted, tr.Status)
	require.NoError(t, tr.Apply(inventory.TransferActionCancel))
	assert.Equal(t, inventory.TransferCancelled, tr.Status)

	err := tr.Apply(inventory.TransferActionCancel)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, inventory.TransferCancelled, tr.Status)
}

func TestStockProduct_LandedUnitCost(t *testing.T) {
	sp := &entity.StockProduct{IntakeQuantity: 50}
	sp.UnitCost = sp.UnitCost.Add(mustDec("2"))
	sp.Tax = mustDec("10")
	sp.AdditionalCost = mustDec("5")
	assert.Equal(t, "2.3", sp.LandedUnitCost().String())
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// StockProduct es la unidad atómica de verdad: un ingreso de un producto, de un lote/proveedor,
// en una bodega. IntakeQuantity es inmutable tras la creación; WorkingQuantity solo cambia
// a través del primitivo de ledger, con la fila bloqueada.
type StockProduct struct {
	ID                   string
	BusinessID           string
	ProductID            string
	WarehouseID          string
	BatchID              string
	SupplierID           string
	OriginStockProductID string // vacío en ingresos; origen del traslado en registros destino
	IntakeQuantity       int64
	WorkingQuantity      int64
	UnitCost             decimal.Decimal
	Tax                  decimal.Decimal // total del ingreso
	AdditionalCost       decimal.Decimal // total del ingreso (flete, aduana...)
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// LandedUnitCost costo unitario puesto en bodega (derivado, solo lectura).
// Los registros creados por traslado usan el costo del registro de origen.
func (s *StockProduct) LandedUnitCost() decimal.Decimal {
	return inventory.LandedUnitCost(s.UnitCost, s.Tax, s.AdditionalCost, s.IntakeQuantity)
}

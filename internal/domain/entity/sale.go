package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLine línea de venta del módulo de ventas (externo, solo lectura).
// Se correlaciona por StockProductID o por producto + ubicación.
type SaleLine struct {
	SaleID         string
	SaleItemID     string
	BusinessID     string
	Reference      string
	ProductID      string
	StockProductID string
	WarehouseID    string
	StorefrontID   string
	Quantity       int64
	UnitPrice      decimal.Decimal
	SoldBy         string
	SoldAt         time.Time
}

// SaleConsumption registro de auditoría del motor: unidades que una venta consumió de un
// registro de bodega o de un lote de punto de venta. Se escribe en la misma transacción
// que la mutación del ledger.
type SaleConsumption struct {
	ID                  string
	BusinessID          string
	SaleReference       string
	StockProductID      string // registro de bodega consumido, o lote de origen si es punto de venta
	StorefrontHoldingID string
	StorefrontID        string
	WarehouseID         string
	ProductID           string
	BatchID             string
	Quantity            int64
	ReservationID       string
	CreatedBy           string
	CreatedAt           time.Time
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de ajuste del esquema anterior. Los traslados se registraban como un par
// transfer_out / transfer_in con la misma referencia.
const (
	LegacyTypeTransferOut = "transfer_out"
	LegacyTypeTransferIn  = "transfer_in"
)

// LegacyAdjustment fila del esquema anterior (legacy_stock_adjustments). Solo lectura.
type LegacyAdjustment struct {
	ID             string
	BusinessID     string
	StockProductID string
	ProductID      string
	WarehouseID    string
	BatchID        string
	AdjustmentType string
	Quantity       int64 // con signo
	UnitCost       decimal.Decimal
	Reference      string
	Status         string // pending | approved | completed | rejected
	CreatedBy      string
	CreatedAt      time.Time
}

package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento normalizados por el Movement Tracker.
const (
	MovementTypeAdjustment       = "adjustment"
	MovementTypeTransfer         = "transfer"
	MovementTypeTransferReversal = "transfer_reversal"
	MovementTypeSale             = "sale"
	MovementTypeLegacyAdjustment = "legacy_adjustment"
	MovementTypeLegacyTransfer   = "legacy_transfer"
)

// Estados de un movimiento en el feed.
const (
	MovementStatusApplied             = "applied"
	MovementStatusAwaitingApplication = "awaiting_application"
)

// Tipos de ubicación.
const (
	LocationWarehouse  = "warehouse"
	LocationStorefront = "storefront"
	LocationCustomer   = "customer"
	LocationExternal   = "external"
)

// LocationRef identifica una ubicación del registro de ubicaciones.
type LocationRef struct {
	Type string
	ID   string
}

// MovementRecord vista normalizada (no persistida) de un ajuste, un tramo de traslado o una venta.
// Quantity tiene signo respecto a Location: positivo entra, negativo sale.
type MovementRecord struct {
	ID             string
	Type           string
	Category       string
	Status         string
	Origin         string // current | legacy | sales
	Date           time.Time
	ProductID      string
	StockProductID string
	BatchID        string
	Quantity       int64
	Location       LocationRef
	Source         LocationRef
	Destination    LocationRef
	UnitCost       decimal.Decimal
	TotalValue     decimal.Decimal
	Actor          string
	Reference      string
}

// MovementFilter filtros de consulta del Movement Tracker. BusinessID es obligatorio.
type MovementFilter struct {
	BusinessID     string
	ProductID      string
	BatchID        string
	WarehouseID    string
	StorefrontID   string
	StockProductID string
	Types          []string
	From           *time.Time
	To             *time.Time
	Limit          int
	Offset         int
}

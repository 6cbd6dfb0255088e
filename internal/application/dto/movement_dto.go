package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LocationDTO ubicación de un movimiento.
type LocationDTO struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
}

// MovementDTO entrada del historial unificado de movimientos.
// quantity tiene signo respecto a location: positivo entra, negativo sale.
type MovementDTO struct {
	ID             string          `json:"id"`
	Type           string          `json:"type"`
	Category       string          `json:"category,omitempty"`
	Status         string          `json:"status"`
	Origin         string          `json:"origin"`
	Date           time.Time       `json:"date"`
	ProductID      string          `json:"product_id"`
	StockProductID string          `json:"stock_product_id,omitempty"`
	BatchID        string          `json:"batch_id,omitempty"`
	Quantity       int64           `json:"quantity"`
	Location       LocationDTO     `json:"location"`
	Source         LocationDTO     `json:"source"`
	Destination    LocationDTO     `json:"destination"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	TotalValue     decimal.Decimal `json:"total_value"`
	Actor          string          `json:"actor,omitempty"`
	Reference      string          `json:"reference,omitempty"`
}

// MovementListResponse respuesta de GET /api/movements (más reciente primero).
type MovementListResponse struct {
	Items []MovementDTO `json:"items"`
	Page  PageResponse  `json:"page"`
}

// CategorySummaryDTO agregado por categoría de ajuste.
type CategorySummaryDTO struct {
	Count int             `json:"count"`
	Units int64           `json:"units"` // con signo
	Value decimal.Decimal `json:"value"`
}

// MovementSummaryDTO respuesta de GET /api/movements/summary.
// Solo cuenta movimientos aplicados; los ajustes aprobados sin aplicar van aparte.
type MovementSummaryDTO struct {
	TotalIn                  int64                         `json:"total_in"`
	TotalOut                 int64                         `json:"total_out"`
	Net                      int64                         `json:"net"`
	ShrinkageUnits           int64                         `json:"shrinkage_units"`
	ShrinkageValue           decimal.Decimal               `json:"shrinkage_value"`
	CorrectionUnits          int64                         `json:"correction_units"`
	SoldUnits                int64                         `json:"sold_units"`
	TransfersIn              int64                         `json:"transfers_in"`
	TransfersOut             int64                         `json:"transfers_out"`
	AwaitingApplicationUnits int64                         `json:"awaiting_application_units"`
	ByCategory               map[string]CategorySummaryDTO `json:"by_category"`
	ByType                   map[string]int                `json:"by_type"`
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// IntakeRequest body para POST /api/stock-products (ingreso de mercancía).
type IntakeRequest struct {
	ProductID      string          `json:"product_id" validate:"required"`
	WarehouseID    string          `json:"warehouse_id" validate:"required"`
	BatchID        string          `json:"batch_id,omitempty"`
	SupplierID     string          `json:"supplier_id,omitempty"`
	Quantity       int64           `json:"quantity" validate:"required,min=1"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	Tax            decimal.Decimal `json:"tax"`
	AdditionalCost decimal.Decimal `json:"additional_cost"`
}

// StockProductResponse salida de un StockProduct con su disponibilidad.
type StockProductResponse struct {
	ID                   string          `json:"id"`
	ProductID            string          `json:"product_id"`
	WarehouseID          string          `json:"warehouse_id"`
	BatchID              string          `json:"batch_id,omitempty"`
	SupplierID           string          `json:"supplier_id,omitempty"`
	OriginStockProductID string          `json:"origin_stock_product_id,omitempty"`
	IntakeQuantity       int64           `json:"intake_quantity"`
	WorkingQuantity      int64           `json:"working_quantity"`
	ReservedQuantity     int64           `json:"reserved_quantity"`
	AvailableQuantity    int64           `json:"available_quantity"`
	UnitCost             decimal.Decimal `json:"unit_cost"`
	Tax                  decimal.Decimal `json:"tax"`
	AdditionalCost       decimal.Decimal `json:"additional_cost"`
	LandedUnitCost       decimal.Decimal `json:"landed_unit_cost"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// StockProductListResponse lista de StockProducts.
type StockProductListResponse struct {
	Items []StockProductResponse `json:"items"`
}

// HoldingResponse lote de un producto en un punto de venta.
type HoldingResponse struct {
	ID             string    `json:"id"`
	StorefrontID   string    `json:"storefront_id"`
	ProductID      string    `json:"product_id"`
	StockProductID string    `json:"stock_product_id"`
	Quantity       int64     `json:"quantity"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// HoldingListResponse lotes de un punto de venta con el total por producto.
type HoldingListResponse struct {
	Items  []HoldingResponse `json:"items"`
	Totals map[string]int64  `json:"totals"` // product_id → unidades
}

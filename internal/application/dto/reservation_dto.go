package dto

import "time"

// CreateReservationRequest body para POST /api/reservations.
type CreateReservationRequest struct {
	StockProductID string `json:"stock_product_id" validate:"required"`
	Quantity       int64  `json:"quantity" validate:"required,min=1"`
	SessionID      string `json:"session_id" validate:"required"`
	TTLSeconds     int    `json:"ttl_seconds,omitempty"`
}

// LinkReservationRequest body para POST /api/reservations/:id/link.
type LinkReservationRequest struct {
	SaleID string `json:"sale_id" validate:"required"`
}

// ReservationResponse salida de una reserva.
type ReservationResponse struct {
	ID             string     `json:"id"`
	StockProductID string     `json:"stock_product_id"`
	Quantity       int64      `json:"quantity"`
	SessionID      string     `json:"session_id"`
	Status         string     `json:"status"`
	SaleID         string     `json:"sale_id,omitempty"`
	ExpiresAt      time.Time  `json:"expires_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`
}

// ConsumeSaleRequest body para POST /api/sales/consume.
// stock_product_id para ventas desde bodega; storefront_id + product_id para punto de venta.
type ConsumeSaleRequest struct {
	SaleReference  string `json:"sale_reference" validate:"required"`
	StockProductID string `json:"stock_product_id,omitempty"`
	StorefrontID   string `json:"storefront_id,omitempty"`
	ProductID      string `json:"product_id,omitempty"`
	Quantity       int64  `json:"quantity" validate:"required,min=1"`
	ReservationID  string `json:"reservation_id,omitempty"`
}

// SaleConsumptionResponse consumo registrado por una venta.
type SaleConsumptionResponse struct {
	ID                  string    `json:"id"`
	SaleReference       string    `json:"sale_reference"`
	StockProductID      string    `json:"stock_product_id"`
	StorefrontHoldingID string    `json:"storefront_holding_id,omitempty"`
	StorefrontID        string    `json:"storefront_id,omitempty"`
	WarehouseID         string    `json:"warehouse_id,omitempty"`
	ProductID           string    `json:"product_id"`
	BatchID             string    `json:"batch_id,omitempty"`
	Quantity            int64     `json:"quantity"`
	ReservationID       string    `json:"reservation_id,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// ConsumeSaleResponse consumos producidos por una venta (uno por lote afectado).
type ConsumeSaleResponse struct {
	Items []SaleConsumptionResponse `json:"items"`
}

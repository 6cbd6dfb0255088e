package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferItemRequest línea de un traslado.
type TransferItemRequest struct {
	StockProductID string `json:"stock_product_id" validate:"required"`
	Quantity       int64  `json:"quantity" validate:"required,min=1"`
}

// CreateTransferRequest body para POST /api/transfers.
// Se indica destination_warehouse_id o destination_storefront_id, nunca ambos.
type CreateTransferRequest struct {
	SourceWarehouseID       string                `json:"source_warehouse_id" validate:"required"`
	DestinationWarehouseID  string                `json:"destination_warehouse_id,omitempty"`
	DestinationStorefrontID string                `json:"destination_storefront_id,omitempty"`
	Reference               string                `json:"reference,omitempty"`
	Notes                   string                `json:"notes,omitempty"`
	Items                   []TransferItemRequest `json:"items" validate:"required,min=1"`
}

// CancelTransferRequest body para POST /api/transfers/:id/cancel.
type CancelTransferRequest struct {
	Reason string `json:"reason,omitempty"`
}

// TransferItemResponse salida de una línea de traslado.
type TransferItemResponse struct {
	ID                        string          `json:"id"`
	Position                  int             `json:"position"`
	ProductID                 string          `json:"product_id"`
	StockProductID            string          `json:"stock_product_id"`
	BatchID                   string          `json:"batch_id,omitempty"`
	Quantity                  int64           `json:"quantity"`
	UnitCostSnapshot          decimal.Decimal `json:"unit_cost_snapshot"`
	DestinationStockProductID string          `json:"destination_stock_product_id,omitempty"`
	DestinationHoldingID      string          `json:"destination_holding_id,omitempty"`
	ReceivedQuantity          int64           `json:"received_quantity"`
	ReversedQuantity          int64           `json:"reversed_quantity"`
	ReversalShortfall         int64           `json:"reversal_shortfall"`
}

// TransferResponse salida de un traslado.
type TransferResponse struct {
	ID                      string                 `json:"id"`
	Type                    string                 `json:"type"`
	Status                  string                 `json:"status"`
	Reference               string                 `json:"reference"`
	SourceWarehouseID       string                 `json:"source_warehouse_id"`
	DestinationWarehouseID  string                 `json:"destination_warehouse_id,omitempty"`
	DestinationStorefrontID string                 `json:"destination_storefront_id,omitempty"`
	Notes                   string                 `json:"notes,omitempty"`
	CreatedBy               string                 `json:"created_by"`
	CompletedBy             string                 `json:"completed_by,omitempty"`
	CancelledBy             string                 `json:"cancelled_by,omitempty"`
	CancelReason            string                 `json:"cancel_reason,omitempty"`
	CreatedAt               time.Time              `json:"created_at"`
	UpdatedAt               time.Time              `json:"updated_at"`
	CompletedAt             *time.Time             `json:"completed_at,omitempty"`
	CancelledAt             *time.Time             `json:"cancelled_at,omitempty"`
	Items                   []TransferItemResponse `json:"items"`
}

// TransferListResponse lista paginada de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAdjustmentRequest body para POST /api/adjustments.
// delta con signo: negativo para merma, positivo para found/customer_return, ambos en recount.
type CreateAdjustmentRequest struct {
	StockProductID string `json:"stock_product_id" validate:"required"`
	Category       string `json:"category" validate:"required"`
	Delta          int64  `json:"delta" validate:"required"`
	Reference      string `json:"reference,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// RejectAdjustmentRequest body para POST /api/adjustments/:id/reject.
type RejectAdjustmentRequest struct {
	Reason string `json:"reason,omitempty"`
}

// AdjustmentResponse salida de un ajuste.
type AdjustmentResponse struct {
	ID                  string          `json:"id"`
	StockProductID      string          `json:"stock_product_id"`
	ProductID           string          `json:"product_id"`
	WarehouseID         string          `json:"warehouse_id"`
	BatchID             string          `json:"batch_id,omitempty"`
	Category            string          `json:"category"`
	Delta               int64           `json:"delta"`
	Status              string          `json:"status"`
	AwaitingApplication bool            `json:"awaiting_application"`
	Reference           string          `json:"reference"`
	Notes               string          `json:"notes,omitempty"`
	UnitCostSnapshot    decimal.Decimal `json:"unit_cost_snapshot"`
	QuantityBefore      *int64          `json:"quantity_before,omitempty"`
	QuantityAfter       *int64          `json:"quantity_after,omitempty"`
	CreatedBy           string          `json:"created_by"`
	ApprovedBy          string          `json:"approved_by,omitempty"`
	RejectedBy          string          `json:"rejected_by,omitempty"`
	RejectedReason      string          `json:"rejected_reason,omitempty"`
	CompletionError     string          `json:"completion_error,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	ApprovedAt          *time.Time      `json:"approved_at,omitempty"`
	CompletedAt         *time.Time      `json:"completed_at,omitempty"`
	RejectedAt          *time.Time      `json:"rejected_at,omitempty"`
}

// AdjustmentListResponse lista paginada de ajustes.
type AdjustmentListResponse struct {
	Items []AdjustmentResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

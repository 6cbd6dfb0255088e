package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// Adjustment cambio de cantidad de un solo ítem que no es traslado ni venta
// (merma, corrección, reconteo) contra un StockProduct.
type Adjustment struct {
	ID               string
	BusinessID       string
	StockProductID   string
	ProductID        string
	WarehouseID      string
	BatchID          string
	Category         inventory.AdjustmentCategory
	Delta            int64
	Status           inventory.AdjustmentStatus
	Reference        string
	Notes            string
	UnitCostSnapshot decimal.Decimal
	QuantityBefore   *int64
	QuantityAfter    *int64
	CreatedBy        string
	ApprovedBy       string
	RejectedBy       string
	RejectedReason   string
	CompletionError  string // último intento fallido de aplicación mientras está APPROVED
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ApprovedAt       *time.Time
	CompletedAt      *time.Time
	RejectedAt       *time.Time
}

// Apply aplica una acción a la máquina de estados del ajuste.
func (a *Adjustment) Apply(action inventory.AdjustmentAction) error {
	next, err := inventory.NextAdjustmentStatus(a.ID, a.Status, action)
	if err != nil {
		return err
	}
	a.Status = next
	return nil
}

// AwaitingApplication indica que el ajuste fue aprobado pero aún no afectó el stock.
func (a *Adjustment) AwaitingApplication() bool {
	return a.Status == inventory.AdjustmentApproved
}

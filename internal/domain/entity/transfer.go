package entity

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// Tipos de traslado.
const (
	TransferWarehouseToWarehouse  = "warehouse_to_warehouse"
	TransferWarehouseToStorefront = "warehouse_to_storefront"
)

// Transfer movimiento lógico de N líneas de producto desde una bodega origen hacia un destino
// (bodega XOR punto de venta).
type Transfer struct {
	ID                      string
	BusinessID              string
	Type                    string
	Status                  inventory.TransferStatus
	Reference               string
	SourceWarehouseID       string
	DestinationWarehouseID  string
	DestinationStorefrontID string
	Notes                   string
	CreatedBy               string
	CompletedBy             string
	CancelledBy             string
	CancelReason            string
	CreatedAt               time.Time
	UpdatedAt               time.Time
	CompletedAt             *time.Time
	CancelledAt             *time.Time
	Items                   []TransferItem
}

// TransferItem línea de un traslado. StockProductID es el registro origen.
type TransferItem struct {
	ID                        string
	TransferID                string
	Position                  int
	ProductID                 string
	StockProductID            string
	BatchID                   string
	Quantity                  int64
	UnitCostSnapshot          decimal.Decimal
	DestinationStockProductID string // traslado entre bodegas
	DestinationHoldingID      string // traslado a punto de venta
	ReceivedQuantity          int64
	ReversedQuantity          int64
	ReversalShortfall         int64 // unidades que no pudieron devolverse (destino ya consumido)
}

// DestinationID devuelve el id de la ubicación destino, sea bodega o punto de venta.
func (t *Transfer) DestinationID() string {
	if t.DestinationStorefrontID != "" {
		return t.DestinationStorefrontID
	}
	return t.DestinationWarehouseID
}

// Validate verifica los invariantes estructurales del traslado.
func (t *Transfer) Validate() error {
	if t.SourceWarehouseID == "" {
		return domain.NewValidationError("source_warehouse_id", "requerido")
	}
	hasWarehouse := t.DestinationWarehouseID != ""
	hasStorefront := t.DestinationStorefrontID != ""
	switch {
	case hasWarehouse && hasStorefront:
		return domain.NewValidationError("destination", "solo puede haber un tipo de destino")
	case !hasWarehouse && !hasStorefront:
		return domain.NewValidationError("destination", "destino requerido")
	}
	if hasWarehouse {
		if t.SourceWarehouseID == t.DestinationWarehouseID {
			return domain.NewValidationError("destination_warehouse_id", "origen y destino no pueden ser iguales")
		}
		t.Type = TransferWarehouseToWarehouse
	} else {
		t.Type = TransferWarehouseToStorefront
	}
	if len(t.Items) == 0 {
		return domain.NewValidationError("items", "al menos un ítem")
	}
	for i, it := range t.Items {
		if it.StockProductID == "" {
			return domain.NewValidationError("items", "stock_product_id requerido en ítem "+strconv.Itoa(i))
		}
		if it.Quantity <= 0 {
			return domain.NewValidationError("items", "cantidad debe ser mayor que cero en ítem "+strconv.Itoa(i))
		}
	}
	return nil
}

// Apply aplica una acción a la máquina de estados del traslado.
func (t *Transfer) Apply(action inventory.TransferAction) error {
	next, err := inventory.NextTransferStatus(t.ID, t.Status, action)
	if err != nil {
		return err
	}
	t.Status = next
	return nil
}

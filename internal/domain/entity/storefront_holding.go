package entity

import "time"

// StorefrontHolding cantidad de un producto presente en un punto de venta, por lote de origen.
// La cantidad total del producto en el punto de venta es la suma de sus lotes.
type StorefrontHolding struct {
	ID             string
	BusinessID     string
	StorefrontID   string
	ProductID      string
	StockProductID string // registro de bodega del que proviene el lote
	Quantity       int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario (multi-bodega).
// Pertenece al registro de ubicaciones externo; el motor solo la consulta.
type Warehouse struct {
	ID         string
	BusinessID string
	Name       string
	Address    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Storefront representa un punto de venta que recibe inventario desde bodegas.
type Storefront struct {
	ID         string
	BusinessID string
	Name       string
	Address    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

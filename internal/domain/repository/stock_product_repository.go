package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// StockProductFilter filtros de listado de StockProduct. BusinessID es obligatorio.
type StockProductFilter struct {
	BusinessID  string
	ProductID   string
	WarehouseID string
	BatchID     string
	IDs         []string
}

// StockProductRepository define el puerto de persistencia para StockProduct.
// Las lecturas *ForUpdate bloquean la fila (SELECT ... FOR UPDATE) y solo tienen sentido
// dentro de una transacción. UpdateWorkingQuantity solo lo invoca el primitivo de ledger.
type StockProductRepository interface {
	Create(ctx context.Context, sp *entity.StockProduct) error
	GetByID(ctx context.Context, businessID, id string) (*entity.StockProduct, error)
	GetForUpdate(ctx context.Context, businessID, id string) (*entity.StockProduct, error)
	// LockMany bloquea las filas en orden ascendente de id y las devuelve indexadas por id.
	LockMany(ctx context.Context, businessID string, ids []string) (map[string]*entity.StockProduct, error)
	// FindDestination busca el registro destino de un traslado entre bodegas (bodega + origen).
	FindDestination(ctx context.Context, businessID, warehouseID, originID string) (*entity.StockProduct, error)
	List(ctx context.Context, filter StockProductFilter) ([]*entity.StockProduct, error)
	UpdateWorkingQuantity(ctx context.Context, businessID, id string, quantity int64, at time.Time) error
}

package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// TransferFilter filtros de listado de traslados.
type TransferFilter struct {
	BusinessID string
	Statuses   []inventory.TransferStatus
	From, To   *time.Time
	Limit      int
	Offset     int
}

// TransferRepository define el puerto de persistencia para Transfer y sus ítems.
type TransferRepository interface {
	Create(ctx context.Context, t *entity.Transfer) error
	GetByID(ctx context.Context, businessID, id string) (*entity.Transfer, error)
	GetForUpdate(ctx context.Context, businessID, id string) (*entity.Transfer, error)
	// Update persiste cabecera e ítems (cantidades recibidas/revertidas, destinos).
	Update(ctx context.Context, t *entity.Transfer) error
	List(ctx context.Context, filter TransferFilter) ([]*entity.Transfer, error)
}

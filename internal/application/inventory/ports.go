package inventory

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario. Las implementaciones pueden reintentar fn
// una vez ante deadlock o timeout de bloqueo, por lo que fn no debe tener efectos fuera de la tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(tx repository.Tx) error) error
}

// Readers repositorios de solo lectura usados fuera de transacción (consultas y conciliación).
type Readers struct {
	StockProducts repository.StockProductRepository
	Holdings      repository.StorefrontHoldingRepository
	Transfers     repository.TransferRepository
	Adjustments   repository.AdjustmentRepository
	Reservations  repository.ReservationRepository
	Consumptions  repository.SaleConsumptionRepository
}

// NewReaders toma los repositorios de lectura de un conjunto fuera de transacción.
func NewReaders(r repository.Tx) Readers {
	return Readers{
		StockProducts: r.StockProducts,
		Holdings:      r.Holdings,
		Transfers:     r.Transfers,
		Adjustments:   r.Adjustments,
		Reservations:  r.Reservations,
		Consumptions:  r.Consumptions,
	}
}

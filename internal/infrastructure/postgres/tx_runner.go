package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Ante deadlock, fallo de serialización o lock_timeout reintenta el callback una sola vez.
type TxRunner struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, log zerolog.Logger) *TxRunner {
	return &TxRunner{pool: pool, log: log}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	err := r.runOnce(ctx, fn)
	if err != nil && isRetryable(err) && ctx.Err() == nil {
		r.log.Warn().Err(err).Str("pg_code", pgCode(err)).Msg("transacción abortada por bloqueo, reintentando")
		err = r.runOnce(ctx, fn)
	}
	return err
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(tx repository.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepositories construye los repositorios del motor sobre un Querier (pool o tx).
func NewRepositories(q Querier) repository.Tx {
	return repository.Tx{
		StockProducts: NewStockProductRepository(q),
		Holdings:      NewStorefrontHoldingRepository(q),
		Transfers:     NewTransferRepository(q),
		Adjustments:   NewAdjustmentRepository(q),
		Reservations:  NewReservationRepository(q),
		Consumptions:  NewSaleConsumptionRepository(q),
	}
}

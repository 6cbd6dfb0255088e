// Package bootstrap arma el motor de inventario sobre un almacenamiento concreto
// (PostgreSQL o memoria). Lo comparten cmd/api, cmd/reconcile y las pruebas HTTP.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/pkg/config"
)

// Storage puertos de persistencia sobre los que se construye el motor.
type Storage struct {
	TxRunner  inventory.TxRunner
	Repos     repository.Tx
	Locations repository.LocationRepository
	Sales     repository.SaleRepository
	Legacy    repository.LegacyAdjustmentRepository
	Close     func()
}

// Engine casos de uso del motor listos para usar.
type Engine struct {
	Ledger          *inventory.Ledger
	Stock           *inventory.StockUseCase
	Transfers       *inventory.TransferUseCase
	Adjustments     *inventory.AdjustmentUseCase
	Reservations    *inventory.ReservationUseCase
	SaleConsumption *inventory.SaleConsumptionUseCase
	Movements       *inventory.MovementTracker
	Reconciliation  *inventory.ReconciliationChecker
	Report          *inventory.ReconciliationReportUseCase
}

// Options parámetros del motor que no dependen del almacenamiento.
type Options struct {
	ReservationTTL             time.Duration
	DeferredAdjustmentComplete bool
	Clock                      func() time.Time // nil = time.Now
}

// OptionsFrom toma las opciones de la configuración de la aplicación.
func OptionsFrom(cfg config.InventoryConfig) Options {
	return Options{
		ReservationTTL:             cfg.ReservationTTL,
		DeferredAdjustmentComplete: cfg.DeferredAdjustmentComplete,
	}
}

// NewEngine construye los casos de uso. Cada componente recibe un logger con su nombre.
func NewEngine(s Storage, opts Options, log zerolog.Logger) *Engine {
	component := func(name string) zerolog.Logger {
		return log.With().Str("component", name).Logger()
	}
	readers := inventory.NewReaders(s.Repos)
	ledger := inventory.NewLedger(component("ledger"), opts.Clock)
	tracker := inventory.NewMovementTracker(component("movements"),
		inventory.NewAdjustmentSource(s.Repos.Adjustments),
		inventory.NewTransferSource(s.Repos.Transfers),
		inventory.NewLegacySource(s.Legacy),
		inventory.NewSaleSource(s.Sales),
	)
	checker := inventory.NewReconciliationChecker(readers, tracker, ledger, component("reconciliation"))
	return &Engine{
		Ledger:          ledger,
		Stock:           inventory.NewStockUseCase(s.TxRunner, readers, s.Locations, ledger, component("stock")),
		Transfers:       inventory.NewTransferUseCase(s.TxRunner, readers, s.Locations, ledger, component("transfers")),
		Adjustments:     inventory.NewAdjustmentUseCase(s.TxRunner, readers, ledger, opts.DeferredAdjustmentComplete, component("adjustments")),
		Reservations:    inventory.NewReservationUseCase(s.TxRunner, readers, ledger, opts.ReservationTTL, component("reservations")),
		SaleConsumption: inventory.NewSaleConsumptionUseCase(s.TxRunner, ledger, component("sales")),
		Movements:       tracker,
		Reconciliation:  checker,
		Report:          inventory.NewReconciliationReportUseCase(checker, s.Repos.StockProducts, infrapdf.NewDriftReportPDF(), component("report")),
	}
}

// MemoryStorage almacenamiento en memoria (desarrollo y pruebas).
func MemoryStorage(store *memory.Store) Storage {
	return Storage{
		TxRunner:  store,
		Repos:     store.Repositories(),
		Locations: store.Locations(),
		Sales:     store.Sales(),
		Legacy:    store.Legacy(),
		Close:     func() {},
	}
}

// PostgresStorage abre el pool, aplica migraciones si se pide y devuelve el almacenamiento.
func PostgresStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Storage, error) {
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return Storage{}, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	if cfg.Inventory.MigrateOnStart {
		if err := postgres.Migrate(ctx, pool, cfg.App.Env != "production", log); err != nil {
			pool.Close()
			return Storage{}, err
		}
	}
	return postgresStorage(pool, log), nil
}

func postgresStorage(pool *pgxpool.Pool, log zerolog.Logger) Storage {
	return Storage{
		TxRunner:  postgres.NewTxRunner(pool, log.With().Str("component", "tx").Logger()),
		Repos:     postgres.NewRepositories(pool),
		Locations: postgres.NewLocationRepository(pool),
		Sales:     postgres.NewSaleRepository(pool),
		Legacy:    postgres.NewLegacyAdjustmentRepository(pool),
		Close:     pool.Close,
	}
}

// Open elige el almacenamiento según APP_STORE.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Storage, error) {
	if cfg.App.Store == "memory" {
		log.Warn().Msg("APP_STORE=memory: los datos no se persisten")
		return MemoryStorage(memory.NewStore()), nil
	}
	return PostgresStorage(ctx, cfg, log)
}

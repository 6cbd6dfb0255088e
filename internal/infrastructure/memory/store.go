package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Store almacenamiento en memoria con la misma semántica transaccional que Postgres:
// Run serializa las transacciones, trabaja sobre una copia del estado y la publica solo en Commit.
// Las operaciones fuera de Run se aplican directamente (auto-commit).
type Store struct {
	mu          sync.Mutex
	st          *state
	unavailable map[string]bool
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState(), unavailable: map[string]bool{}}
}

type state struct {
	stockProducts map[string]entity.StockProduct
	holdings      map[string]entity.StorefrontHolding
	transfers     map[string]entity.Transfer
	adjustments   map[string]entity.Adjustment
	reservations  map[string]entity.Reservation
	consumptions  []entity.SaleConsumption
	warehouses    map[string]entity.Warehouse
	storefronts   map[string]entity.Storefront
	saleLines     []entity.SaleLine
	legacy        []entity.LegacyAdjustment
}

func newState() *state {
	return &state{
		stockProducts: map[string]entity.StockProduct{},
		holdings:      map[string]entity.StorefrontHolding{},
		transfers:     map[string]entity.Transfer{},
		adjustments:   map[string]entity.Adjustment{},
		reservations:  map[string]entity.Reservation{},
		warehouses:    map[string]entity.Warehouse{},
		storefronts:   map[string]entity.Storefront{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.stockProducts {
		c.stockProducts[k] = v
	}
	for k, v := range s.holdings {
		c.holdings[k] = v
	}
	for k, v := range s.transfers {
		c.transfers[k] = copyTransfer(v)
	}
	for k, v := range s.adjustments {
		c.adjustments[k] = v
	}
	for k, v := range s.reservations {
		c.reservations[k] = v
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.storefronts {
		c.storefronts[k] = v
	}
	c.consumptions = append([]entity.SaleConsumption(nil), s.consumptions...)
	c.saleLines = append([]entity.SaleLine(nil), s.saleLines...)
	c.legacy = append([]entity.LegacyAdjustment(nil), s.legacy...)
	return c
}

func copyTransfer(t entity.Transfer) entity.Transfer {
	t.Items = append([]entity.TransferItem(nil), t.Items...)
	return t
}

// Run ejecuta fn en una transacción. Si fn devuelve error el estado no cambia.
func (s *Store) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.st.clone()
	if err := fn(s.repos(work)); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) repos(tx *state) repository.Tx {
	b := base{store: s, tx: tx}
	return repository.Tx{
		StockProducts: &StockProductRepository{base: b},
		Holdings:      &StorefrontHoldingRepository{base: b},
		Transfers:     &TransferRepository{base: b},
		Adjustments:   &AdjustmentRepository{base: b},
		Reservations:  &ReservationRepository{base: b},
		Consumptions:  &SaleConsumptionRepository{base: b},
	}
}

// Repositories devuelve repositorios fuera de transacción (lecturas y auto-commit).
func (s *Store) Repositories() repository.Tx {
	return s.repos(nil)
}

// Locations registro de ubicaciones.
func (s *Store) Locations() *LocationRepository {
	return &LocationRepository{base: base{store: s}}
}

// Sales lectura de ventas del módulo externo.
func (s *Store) Sales() *SaleRepository {
	return &SaleRepository{base: base{store: s}}
}

// Legacy lectura del esquema anterior de ajustes.
func (s *Store) Legacy() *LegacyAdjustmentRepository {
	return &LegacyAdjustmentRepository{base: base{store: s}}
}

// SetUnavailable marca una fuente externa ("sales", "legacy_adjustments") como no desplegada.
func (s *Store) SetUnavailable(source string, unavailable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable[source] = unavailable
}

// AddWarehouse registra una bodega.
func (s *Store) AddWarehouse(w entity.Warehouse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.warehouses[w.ID] = w
}

// AddStorefront registra un punto de venta.
func (s *Store) AddStorefront(sf entity.Storefront) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.storefronts[sf.ID] = sf
}

// AddSaleLine registra una línea de venta del módulo externo.
func (s *Store) AddSaleLine(l entity.SaleLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.saleLines = append(s.st.saleLines, l)
}

// AddLegacyAdjustment registra una fila del esquema anterior.
func (s *Store) AddLegacyAdjustment(a entity.LegacyAdjustment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.legacy = append(s.st.legacy, a)
}

// base da acceso al estado: el de la transacción si existe, si no el publicado bajo el mutex.
type base struct {
	store *Store
	tx    *state
}

func (b base) view(fn func(st *state) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	return fn(b.store.st)
}

func (b base) isUnavailable(source string) bool {
	if b.tx != nil {
		return b.store.unavailable[source]
	}
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	return b.store.unavailable[source]
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return list[:0]
		}
		list = list[offset:]
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}

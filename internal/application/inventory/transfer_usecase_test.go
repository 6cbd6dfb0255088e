package inventory_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/bootstrap"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Traslado entre bodegas
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_EntreBodegas_ConservaUnidades(t *testing.T) {
	f := newFixture(t, false)
	sp := f.receive(t, whMain, 10)

	tr := f.transfer(t, sp, 4, whNorth, "")
	require.Equal(t, domaininv.TransferCompleted, tr.Status)
	require.Len(t, tr.Items, 1)
	dest := tr.Items[0].DestinationStockProductID
	require.NotEmpty(t, dest)

	assert.Equal(t, int64(6), f.working(t, sp.ID))
	assert.Equal(t, int64(4), f.working(t, dest))

	destSP, err := f.engine.Stock.Get(f.ctx, bizID, dest)
	require.NoError(t, err)
	assert.Equal(t, int64(0), destSP.StockProduct.IntakeQuantity, "el registro destino no es un ingreso")
	assert.Equal(t, sp.ID, destSP.StockProduct.OriginStockProductID)
	assert.Equal(t, batchID, destSP.StockProduct.BatchID)

	// un segundo traslado reutiliza el mismo registro destino
	tr2 := f.transfer(t, sp, 1, whNorth, "")
	assert.Equal(t, dest, tr2.Items[0].DestinationStockProductID)

	res := f.check(t, "")
	assert.True(t, res.Balanced)
	assert.Equal(t, int64(10), res.Actual)
	assert.Equal(t, int64(5), res.Terms.TransfersIn)
	assert.Equal(t, int64(5), res.Terms.TransfersOut)

	north := f.check(t, whNorth)
	assert.True(t, north.Balanced)
	assert.Equal(t, int64(5), north.Actual)
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad: todas las líneas o ninguna
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_Complete_FallaSinEfectos(t *testing.T) {
	f := newFixture(t, false)
	a := f.receive(t, whMain, 10)
	b := f.receive(t, whMain, 3)

	tr, err := f.engine.Transfers.Create(f.ctx, inventory.CreateTransferInput{
		BusinessID:             bizID,
		UserID:                 userID,
		SourceWarehouseID:      whMain,
		DestinationWarehouseID: whNorth,
		Items: []inventory.TransferItemInput{
			{StockProductID: a.ID, Quantity: 5},
			{StockProductID: b.ID, Quantity: 4},
		},
	})
	require.NoError(t, err)

	_, err = f.engine.Transfers.Complete(f.ctx, bizID, tr.ID, userID)
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr), "se esperaba InsufficientStockError, got %v", err)
	assert.Equal(t, 1, stockErr.ItemIndex)
	assert.Equal(t, int64(4), stockErr.Requested)
	assert.Equal(t, int64(3), stockErr.Available)

	assert.Equal(t, int64(10), f.working(t, a.ID), "la primera línea no debe aplicarse")
	assert.Equal(t, int64(3), f.working(t, b.ID))

	got, err := f.engine.Transfers.Get(f.ctx, bizID, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, domaininv.TransferPending, got.Status)

	north, err := f.engine.Stock.List(f.ctx, repository.StockProductFilter{BusinessID: bizID, WarehouseID: whNorth})
	require.NoError(t, err)
	assert.Empty(t, north, "no deben quedar registros destino creados")
}

func TestTransfer_Complete_RespetaReservas(t *testing.T) {
	f := newFixture(t, false)
	sp := f.receive(t, whMain, 10)
	_, err := f.engine.Reservations.Reserve(f.ctx, inventory.ReserveInput{
		BusinessID: bizID, StockProductID: sp.ID, Quantity: 7, SessionID: "s-1",
	})
	require.NoError(t, err)

	tr, err := f.engine.Transfers.Create(f.ctx, inventory.CreateTransferInput{
		BusinessID: bizID, UserID: userID, SourceWarehouseID: whMain, DestinationWarehouseID: whNorth,
		Items: []inventory.TransferItemInput{{StockProductID: sp.ID, Quantity: 4}},
	})
	require.NoError(t, err)
	_, err = f.engine.Transfers.Complete(f.ctx, bizID, tr.ID, userID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), f.working(t, sp.ID))
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de entrada
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_Create_Validaciones(t *testing.T) {
	f := newFixture(t, false)
	sp := f.receive(t, whMain, 10)
	other := f.receive(t, whNorth, 2)

	base := func() inventory.CreateTransferInput {
		return inventory.CreateTransferInput{
			BusinessID: bizID, UserID: userID, SourceWarehouseID: whMain, DestinationWarehouseID: whNorth,
			Items: []inventory.TransferItemInput{{StockProductID: sp.ID, Quantity: 1}},
		}
	}

	in := base()
	in.DestinationWarehouseID = whMain
	_, err := f.engine.Transfers.Create(f.ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "auto traslado")

	in = base()
	in.DestinationWarehouseID = "wh-fantasma"
	_, err = f.engine.Transfers.Create(f.ctx, in)
	assert.ErrorIs(t, err, domain.ErrNotFound, "destino inexistente")

	in = base()
	in.Items[0].StockProductID = other.ID
	_, err = f.engine.Transfers.Create(f.ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "registro de otra bodega")

	in = base()
	in.DestinationStorefrontID = sfMall
	_, err = f.engine.Transfers.Create(f.ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "dos destinos")

	tr, err := f.engine.Transfers.Create(f.ctx, base())
	require.NoError(t, err)
	assert.Equal(t, domaininv.TransferPending, tr.Status)
	assert.NotEmpty(t, tr.Reference)
	assert.Equal(t, int64(10), f.working(t, sp.ID), "crear no mueve stock")
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancelación
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_Cancel_PendienteYDobleCancelacion(t *testing.T) {
	f := newFixture(t, false)
	sp := f.receive(t, whMain, 10)
	tr, err := f.engine.Transfers.Create(f.ctx, inventory.CreateTransferInput{
		BusinessID: bizID, UserID: userID, SourceWarehouseID: whMain, DestinationWarehouseID: whNorth,
		Items: []inventory.TransferItemInput{{StockProductID: sp.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	got, err := f.engine.Transfers.Cancel(f.ctx, bizID, tr.ID, userID, "error de captura", true)
	require.NoError(t, err)
	assert.Equal(t, domaininv.TransferCancelled, got.Status)
	assert.Equal(t, "error de captura", got.CancelReason)

	_, err = f.engine.Transfers.Cancel(f.ctx, bizID, tr.ID, userID, "otra vez", true)
	var stateErr *domain.InvalidStateError
	require.True(t, errors.As(err, &stateErr))
	assert.Equal(t, string(domaininv.TransferCancelled), stateErr.From)

	_, err = f.engine.Transfers.Complete(f.ctx, bizID, tr.ID, userID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int64(10), f.working(t, sp.ID))
}

func TestTransfer_Cancel_CompletadoRevierte(t *testing.T) {
	f := newFixture(t, false)
	sp := f.receive(t, whMain, 10)
	tr := f.transfer(t, sp, 4, whNorth, "")
	dest := tr.Items[0].DestinationStockProductID

	got, err := f.engine.Transfers.Cancel(f.ctx, bizID, tr.ID, userID, "devuelto", true)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.Items[0].ReversedQuantity)
	assert.Equal(t, int64(0), got.Items[0].ReversalShortfall)
	assert.Equal(t, int64(10), f.working(t, sp.ID))
	assert.Equal(t, int64(0), f.working(t, dest))

	// la segunda cancelación no vuelve a mover stock
	_, err = f.engine.Transfers.Cancel(f.ctx, bizID, tr.ID, userID, "devuelto", true)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int64(10), f.working(t, sp.ID))

	res := f.check(t, "")
	assert.True(t, res.Balanced)
	assert.Empty(t, res.Findings)
}

func TestTransfer_Cancel_ReversionParcialGeneraHallazgo(t *testing.T) {
	f := newFixture(t, false)
	sp := f.receive(t, whMain, 10)
	tr := f.transfer(t, sp, 6, "", sfMall)
	assert.Equal(t, int64(4), f.working(t, sp.ID))

	_, err := f.engine.SaleConsumption.Consume(f.ctx, inventory.ConsumeInput{
		BusinessID: bizID, UserID: userID, SaleReference: "V-100",
		StorefrontID: sfMall, ProductID: prodID, Quantity: 4,
	})
	require.NoError(t, err)

	got, err := f.engine.Transfers.Cancel(f.ctx, bizID, tr.ID, userID, "mercancía equivocada", true)
	require.NoError(t, err)
	it := got.Items[0]
	assert.Equal(t, int64(2), it.ReversedQuantity)
	assert.Equal(t, int64(4), it.ReversalShortfall)
	assert.Equal(t, int64(6), f.working(t, sp.ID))

	holdings, err := f.engine.Stock.ListHoldings(f.ctx, repository.HoldingFilter{BusinessID: bizID, StorefrontID: sfMall})
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, int64(0), holdings[0].Quantity, "el lote nunca queda negativo")

	res := f.check(t, "")
	assert.True(t, res.Balanced, "las unidades vendidas cuadran la fórmula")
	assert.Equal(t, int64(6), res.Actual)
	assert.Equal(t, int64(4), res.Terms.SoldUnits)
	require.Len(t, res.Findings, 1)
	finding := res.Findings[0]
	assert.Equal(t, "reversal_shortfall", finding.Kind)
	assert.Equal(t, int64(-4), finding.Delta)
	assert.Equal(t, got.Reference, finding.Reference)

	main := f.check(t, whMain)
	assert.True(t, main.Balanced)
	assert.Equal(t, int64(2), main.Terms.TransfersIn)
	assert.Equal(t, int64(6), main.Terms.TransfersOut)
	assert.Equal(t, int64(0), main.Terms.StorefrontHolding)
}

func TestTransfer_Cancel_NoTomaUnidadesReservadasEnDestino(t *testing.T) {
	f := newFixture(t, false)
	sp := f.receive(t, whMain, 10)
	tr := f.transfer(t, sp, 4, whNorth, "")
	dest := tr.Items[0].DestinationStockProductID

	resID, err := f.reserve(dest, 3, 0)
	require.NoError(t, err)

	got, err := f.engine.Transfers.Cancel(f.ctx, bizID, tr.ID, userID, "devuelto", true)
	require.NoError(t, err)
	it := got.Items[0]
	assert.Equal(t, int64(1), it.ReversedQuantity)
	assert.Equal(t, int64(3), it.ReversalShortfall)
	assert.Equal(t, int64(7), f.working(t, sp.ID))
	assert.Equal(t, int64(3), f.working(t, dest), "las unidades reservadas siguen en el destino")

	// la reserva sigue cubierta y la venta se puede consumir
	_, err = f.engine.SaleConsumption.Consume(f.ctx, inventory.ConsumeInput{
		BusinessID: bizID, UserID: userID, SaleReference: "V-200",
		StockProductID: dest, Quantity: 3, ReservationID: resID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.working(t, dest))

	res := f.check(t, "")
	assert.True(t, res.Balanced)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, "reversal_shortfall", res.Findings[0].Kind)
	assert.Equal(t, int64(-3), res.Findings[0].Delta)
}

func TestTransfer_Cancel_ReversionSinPermisoNoMueveStock(t *testing.T) {
	f := newFixture(t, false)
	sp := f.receive(t, whMain, 10)
	tr := f.transfer(t, sp, 4, whNorth, "")
	dest := tr.Items[0].DestinationStockProductID

	_, err := f.engine.Transfers.Cancel(f.ctx, bizID, tr.ID, userID, "", false)
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, int64(6), f.working(t, sp.ID))
	assert.Equal(t, int64(4), f.working(t, dest))

	stored, err := f.engine.Transfers.Get(f.ctx, bizID, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, domaininv.TransferCompleted, stored.Status)

	// un traslado pendiente se cancela sin permiso de reversión
	pending, err := f.engine.Transfers.Create(f.ctx, inventory.CreateTransferInput{
		BusinessID: bizID, UserID: userID, SourceWarehouseID: whMain, DestinationWarehouseID: whNorth,
		Items: []inventory.TransferItemInput{{StockProductID: sp.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	got, err := f.engine.Transfers.Cancel(f.ctx, bizID, pending.ID, userID, "", false)
	require.NoError(t, err)
	assert.Equal(t, domaininv.TransferCancelled, got.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Orden de bloqueo
// ──────────────────────────────────────────────────────────────────────────────

// lockRecorder envuelve el TxRunner y anota cada bloqueo de StockProduct.
type lockRecorder struct {
	inner inventory.TxRunner
	mu    sync.Mutex
	calls [][]string
	made  map[string]bool
}

func (r *lockRecorder) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	return r.inner.Run(ctx, func(tx repository.Tx) error {
		tx.StockProducts = &recordingStockProducts{StockProductRepository: tx.StockProducts, rec: r}
		return fn(tx)
	})
}

func (r *lockRecorder) record(ids []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, append([]string(nil), ids...))
}

func (r *lockRecorder) created(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.made[id] = true
}

func (r *lockRecorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
	r.made = map[string]bool{}
}

type recordingStockProducts struct {
	repository.StockProductRepository
	rec *lockRecorder
}

func (s *recordingStockProducts) Create(ctx context.Context, sp *entity.StockProduct) error {
	s.rec.created(sp.ID)
	return s.StockProductRepository.Create(ctx, sp)
}

func (s *recordingStockProducts) GetForUpdate(ctx context.Context, businessID, id string) (*entity.StockProduct, error) {
	s.rec.record([]string{id})
	return s.StockProductRepository.GetForUpdate(ctx, businessID, id)
}

func (s *recordingStockProducts) LockMany(ctx context.Context, businessID string, ids []string) (map[string]*entity.StockProduct, error) {
	s.rec.record(ids)
	return s.StockProductRepository.LockMany(ctx, businessID, ids)
}

func TestTransfer_Complete_BloqueaOrigenYDestinoEnUnSoloOrden(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	store := memory.NewStore()
	store.AddWarehouse(entity.Warehouse{ID: whMain, BusinessID: bizID, Name: "Principal"})
	store.AddWarehouse(entity.Warehouse{ID: whNorth, BusinessID: bizID, Name: "Norte"})
	storage := bootstrap.MemoryStorage(store)
	rec := &lockRecorder{inner: storage.TxRunner, made: map[string]bool{}}
	storage.TxRunner = rec
	f := &fixture{
		ctx:    context.Background(),
		store:  store,
		engine: bootstrap.NewEngine(storage, bootstrap.Options{ReservationTTL: 10 * time.Minute, Clock: clock.Now}, zerolog.Nop()),
		clock:  clock,
	}

	sp := f.receive(t, whMain, 10)
	first := f.transfer(t, sp, 4, whNorth, "")
	dest := first.Items[0].DestinationStockProductID

	second, err := f.engine.Transfers.Create(f.ctx, inventory.CreateTransferInput{
		BusinessID: bizID, UserID: userID, SourceWarehouseID: whMain, DestinationWarehouseID: whNorth,
		Items: []inventory.TransferItemInput{{StockProductID: sp.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	rec.reset()
	done, err := f.engine.Transfers.Complete(f.ctx, bizID, second.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, dest, done.Items[0].DestinationStockProductID, "reutiliza el destino existente")

	// el primer bloqueo toma origen y destino existente juntos, ordenados por id
	require.NotEmpty(t, rec.calls)
	want := []string{sp.ID, dest}
	sort.Strings(want)
	assert.Equal(t, want, rec.calls[0])

	// ningún bloqueo posterior pide una fila preexistente que no estuviera ya tomada
	held := map[string]bool{sp.ID: true, dest: true}
	for _, call := range rec.calls[1:] {
		for _, id := range call {
			assert.True(t, held[id] || rec.made[id], "bloqueo fuera de orden de %s", id)
		}
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia: nunca se traslada más de lo disponible
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_CompleteConcurrente_NoSobrevende(t *testing.T) {
	f := newFixture(t, false)
	sp := f.receive(t, whMain, 10)

	const workers = 6
	ids := make([]string, workers)
	for i := range ids {
		tr, err := f.engine.Transfers.Create(f.ctx, inventory.CreateTransferInput{
			BusinessID: bizID, UserID: userID, SourceWarehouseID: whMain, DestinationWarehouseID: whNorth,
			Items: []inventory.TransferItemInput{{StockProductID: sp.ID, Quantity: 3}},
		})
		require.NoError(t, err)
		ids[i] = tr.ID
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	completed, rejected := 0, 0
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.engine.Transfers.Complete(f.ctx, bizID, id, userID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				completed++
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 3, completed)
	assert.Equal(t, 3, rejected)
	assert.Equal(t, int64(1), f.working(t, sp.ID))
	assert.True(t, f.check(t, "").Balanced)
}

package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

func (f *fixture) requestAdjustment(t *testing.T, sp *entity.StockProduct, cat domaininv.AdjustmentCategory, delta int64) *entity.Adjustment {
	t.Helper()
	adj, err := f.engine.Adjustments.Create(f.ctx, inventory.CreateAdjustmentInput{
		BusinessID:     bizID,
		UserID:         userID,
		StockProductID: sp.ID,
		Category:       cat,
		Delta:          delta,
	})
	require.NoError(t, err)
	return adj
}

// ──────────────────────────────────────────────────────────────────────────────
// Aprobación con aplicación inmediata
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustment_AprobarAplicaDelta(t *testing.T) {
	f := newFixture(t, false)
	sp := f.receive(t, whMain, 10)

	adj := f.requestAdjustment(t, sp, domaininv.CategoryDamage, -4)
	assert.Equal(t, domaininv.AdjustmentPending, adj.Status)
	assert.Equal(t, int64(10), f.working(t, sp.ID), "solicitar no mueve stock")

	got, err := f.engine.Adjustments.Approve(f.ctx, bizID, adj.ID, "supervisor")
	require.NoError(t, err)
	assert.Equal(t, domaininv.AdjustmentCompleted, got.Status)
	assert.Equal(t, "supervisor", got.ApprovedBy)
	require.NotNil(t, got.QuantityBefore)
	require.NotNil(t, got.QuantityAfter)
	assert.Equal(t, int64(10), *got.QuantityBefore)
	assert.Equal(t, int64(6), *got.QuantityAfter)
	assert.Equal(t, int64(6), f.working(t, sp.ID))

	summary, err := f.engine.Movements.GetSummary(f.ctx, entity.MovementFilter{BusinessID: bizID})
	require.NoError(t, err)
	assert.Equal(t, int64(4), summary.ShrinkageUnits)
	assert.True(t, decimal.NewFromInt(40).Equal(summary.ShrinkageValue), summary.ShrinkageValue.String())
	assert.Equal(t, 1, summary.ByCategory["damage"].Count)

	res := f.check(t, "")
	assert.True(t, res.Balanced)
	assert.Equal(t, int64(4), res.Terms.ShrinkageUnits)
}

func TestAdjustment_CorreccionesYRechazo(t *testing.T) {
	f := newFixture(t, false)
	sp := f.receive(t, whMain, 10)

	found := f.requestAdjustment(t, sp, domaininv.CategoryFound, 3)
	_, err := f.engine.Adjustments.Approve(f.ctx, bizID, found.ID, "supervisor")
	require.NoError(t, err)

	recount := f.requestAdjustment(t, sp, domaininv.CategoryRecount, -1)
	_, err = f.engine.Adjustments.Approve(f.ctx, bizID, recount.ID, "supervisor")
	require.NoError(t, err)

	theft := f.requestAdjustment(t, sp, domaininv.CategoryTheft, -5)
	rejected, err := f.engine.Adjustments.Reject(f.ctx, bizID, theft.ID, "supervisor", "no se encontró evidencia")
	require.NoError(t, err)
	assert.Equal(t, domaininv.AdjustmentRejected, rejected.Status)

	_, err = f.engine.Adjustments.Approve(f.ctx, bizID, theft.ID, "supervisor")
	assert.ErrorIs(t, err, domain.ErrInvalidState, "un ajuste rechazado no se aprueba")

	assert.Equal(t, int64(12), f.working(t, sp.ID))
	res := f.check(t, "")
	assert.True(t, res.Balanced)
	assert.Equal(t, int64(2), res.Terms.CorrectionUnits)
	assert.Equal(t, int64(0), res.Terms.ShrinkageUnits)

	pending, err := f.engine.Adjustments.List(f.ctx, repository.AdjustmentFilter{
		BusinessID: bizID,
		Statuses:   []domaininv.AdjustmentStatus{domaininv.AdjustmentRejected},
	})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, theft.ID, pending[0].ID)
}

func TestAdjustment_Create_SignoInvalido(t *testing.T) {
	f := newFixture(t, false)
	sp := f.receive(t, whMain, 10)
	_, err := f.engine.Adjustments.Create(f.ctx, inventory.CreateAdjustmentInput{
		BusinessID: bizID, UserID: userID, StockProductID: sp.ID,
		Category: domaininv.CategorySpoilage, Delta: 2,
	})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "delta", verr.Field)

	_, err = f.engine.Adjustments.Create(f.ctx, inventory.CreateAdjustmentInput{
		BusinessID: bizID, UserID: userID, StockProductID: "no-existe",
		Category: domaininv.CategoryFound, Delta: 2,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock insuficiente al aplicar
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustment_MermaNoTomaUnidadesReservadas(t *testing.T) {
	f := newFixture(t, false)
	sp := f.receive(t, whMain, 10)
	resID, err := f.reserve(sp.ID, 8, 0)
	require.NoError(t, err)

	adj := f.requestAdjustment(t, sp, domaininv.CategoryDamage, -5)
	got, err := f.engine.Adjustments.Approve(f.ctx, bizID, adj.ID, "supervisor")
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr), "se esperaba InsufficientStockError, got %v", err)
	assert.Equal(t, int64(5), stockErr.Requested)
	assert.Equal(t, int64(2), stockErr.Available)
	require.NotNil(t, got)
	assert.Equal(t, domaininv.AdjustmentApproved, got.Status)
	assert.NotEmpty(t, got.CompletionError)
	assert.Equal(t, int64(10), f.working(t, sp.ID))

	// al liberar la reserva la merma se aplica
	_, err = f.engine.Reservations.Release(f.ctx, bizID, resID)
	require.NoError(t, err)
	done, err := f.engine.Adjustments.Complete(f.ctx, bizID, adj.ID)
	require.NoError(t, err)
	assert.Equal(t, domaininv.AdjustmentCompleted, done.Status)
	assert.Equal(t, int64(5), f.working(t, sp.ID))

	// una corrección positiva no depende de las reservas
	_, err = f.reserve(sp.ID, 5, 0)
	require.NoError(t, err)
	found := f.requestAdjustment(t, sp, domaininv.CategoryFound, 1)
	_, err = f.engine.Adjustments.Approve(f.ctx, bizID, found.ID, "supervisor")
	require.NoError(t, err)
	assert.Equal(t, int64(6), f.working(t, sp.ID))
}

func TestAdjustment_AprobarSinStock_QuedaAprobadoConError(t *testing.T) {
	f := newFixture(t, false)
	sp := f.receive(t, whMain, 3)

	adj := f.requestAdjustment(t, sp, domaininv.CategoryLoss, -5)
	got, err := f.engine.Adjustments.Approve(f.ctx, bizID, adj.ID, "supervisor")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	require.NotNil(t, got)
	assert.Equal(t, domaininv.AdjustmentApproved, got.Status)
	assert.NotEmpty(t, got.CompletionError)
	assert.Equal(t, int64(3), f.working(t, sp.ID))

	stored, err := f.engine.Adjustments.Get(f.ctx, bizID, adj.ID)
	require.NoError(t, err)
	assert.Equal(t, domaininv.AdjustmentApproved, stored.Status)
	assert.NotEmpty(t, stored.CompletionError)
	assert.True(t, stored.AwaitingApplication())

	// tras un ingreso por corrección el ajuste se puede completar
	found := f.requestAdjustment(t, sp, domaininv.CategoryFound, 2)
	_, err = f.engine.Adjustments.Approve(f.ctx, bizID, found.ID, "supervisor")
	require.NoError(t, err)

	done, err := f.engine.Adjustments.Complete(f.ctx, bizID, adj.ID)
	require.NoError(t, err)
	assert.Equal(t, domaininv.AdjustmentCompleted, done.Status)
	assert.Empty(t, done.CompletionError)
	assert.Equal(t, int64(0), f.working(t, sp.ID))
}

// ──────────────────────────────────────────────────────────────────────────────
// Aplicación diferida
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjustment_AplicacionDiferida(t *testing.T) {
	f := newFixture(t, true)
	sp := f.receive(t, whMain, 10)

	adj := f.requestAdjustment(t, sp, domaininv.CategoryExpired, -2)
	got, err := f.engine.Adjustments.Approve(f.ctx, bizID, adj.ID, "supervisor")
	require.NoError(t, err)
	assert.Equal(t, domaininv.AdjustmentApproved, got.Status)
	assert.Equal(t, int64(10), f.working(t, sp.ID), "aprobado no es completado")

	summary, err := f.engine.Movements.GetSummary(f.ctx, entity.MovementFilter{BusinessID: bizID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.AwaitingApplicationUnits)
	assert.Equal(t, int64(0), summary.ShrinkageUnits)
	assert.True(t, f.check(t, "").Balanced, "un ajuste sin aplicar no descuadra")

	done, err := f.engine.Adjustments.Complete(f.ctx, bizID, adj.ID)
	require.NoError(t, err)
	assert.Equal(t, domaininv.AdjustmentCompleted, done.Status)
	assert.Equal(t, int64(8), f.working(t, sp.ID))

	_, err = f.engine.Adjustments.Complete(f.ctx, bizID, adj.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int64(8), f.working(t, sp.ID))
}

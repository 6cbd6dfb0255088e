package inventory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Traslados
// ──────────────────────────────────────────────────────────────────────────────

func TestNextTransferStatus_TransicionesValidas(t *testing.T) {
	cases := []struct {
		from   inventory.TransferStatus
		action inventory.TransferAction
		want   inventory.TransferStatus
	}{
		{inventory.TransferPending, inventory.TransferActionComplete, inventory.TransferCompleted},
		{inventory.TransferPending, inventory.TransferActionCancel, inventory.TransferCancelled},
		{inventory.TransferCompleted, inventory.TransferActionCancel, inventory.TransferCancelled},
	}
	for _, tc := range cases {
		got, err := inventory.NextTransferStatus("t-1", tc.from, tc.action)
		require.NoError(t, err, "%s + %s", tc.from, tc.action)
		assert.Equal(t, tc.want, got)
	}
}

func TestNextTransferStatus_EstadosTerminales(t *testing.T) {
	cases := []struct {
		from   inventory.TransferStatus
		action inventory.TransferAction
	}{
		{inventory.TransferCompleted, inventory.TransferActionComplete},
		{inventory.TransferCancelled, inventory.TransferActionCancel},
		{inventory.TransferCancelled, inventory.TransferActionComplete},
	}
	for _, tc := range cases {
		got, err := inventory.NextTransferStatus("t-1", tc.from, tc.action)
		require.Error(t, err)
		assert.Equal(t, tc.from, got, "el estado no cambia")

		var stateErr *domain.InvalidStateError
		require.True(t, errors.As(err, &stateErr))
		assert.Equal(t, "transfer", stateErr.Entity)
		assert.Equal(t, string(tc.from), stateErr.From)
		assert.True(t, errors.Is(err, domain.ErrInvalidState))
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes
// ──────────────────────────────────────────────────────────────────────────────

func TestNextAdjustmentStatus(t *testing.T) {
	got, err := inventory.NextAdjustmentStatus("a-1", inventory.AdjustmentPending, inventory.AdjustmentActionApprove)
	require.NoError(t, err)
	assert.Equal(t, inventory.AdjustmentApproved, got)

	got, err = inventory.NextAdjustmentStatus("a-1", inventory.AdjustmentApproved, inventory.AdjustmentActionComplete)
	require.NoError(t, err)
	assert.Equal(t, inventory.AdjustmentCompleted, got)

	got, err = inventory.NextAdjustmentStatus("a-1", inventory.AdjustmentPending, inventory.AdjustmentActionReject)
	require.NoError(t, err)
	assert.Equal(t, inventory.AdjustmentRejected, got)

	// aprobado no se puede rechazar ni completar dos veces
	_, err = inventory.NextAdjustmentStatus("a-1", inventory.AdjustmentApproved, inventory.AdjustmentActionReject)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = inventory.NextAdjustmentStatus("a-1", inventory.AdjustmentCompleted, inventory.AdjustmentActionComplete)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	// pendiente no se puede completar sin aprobar
	_, err = inventory.NextAdjustmentStatus("a-1", inventory.AdjustmentPending, inventory.AdjustmentActionComplete)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reservas
// ──────────────────────────────────────────────────────────────────────────────

func TestNextReservationStatus(t *testing.T) {
	for action, want := range map[inventory.ReservationAction]inventory.ReservationStatus{
		inventory.ReservationActionLink:    inventory.ReservationLinked,
		inventory.ReservationActionExpire:  inventory.ReservationExpired,
		inventory.ReservationActionRelease: inventory.ReservationReleased,
	} {
		got, err := inventory.NextReservationStatus("r-1", inventory.ReservationActive, action)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	for _, from := range []inventory.ReservationStatus{
		inventory.ReservationLinked, inventory.ReservationExpired, inventory.ReservationReleased,
	} {
		_, err := inventory.NextReservationStatus("r-1", from, inventory.ReservationActionLink)
		assert.ErrorIs(t, err, domain.ErrInvalidState, "desde %s", from)
	}
}

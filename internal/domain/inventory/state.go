package inventory

import "github.com/jhoicas/inventario-ledger/internal/domain"

// Las máquinas de estado de este archivo son la única forma de cambiar el estado de un
// traslado, ajuste o reserva. Las entidades exponen Apply(acción) y delegan aquí.

// ── Traslados ─────────────────────────────────────────────────────────────────

// TransferStatus estado de un traslado.
type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferCompleted TransferStatus = "completed"
	TransferCancelled TransferStatus = "cancelled"
)

// TransferAction acción sobre un traslado.
type TransferAction string

const (
	TransferActionComplete TransferAction = "complete"
	TransferActionCancel   TransferAction = "cancel"
)

var transferTransitions = map[TransferStatus]map[TransferAction]TransferStatus{
	TransferPending: {
		TransferActionComplete: TransferCompleted,
		TransferActionCancel:   TransferCancelled,
	},
	TransferCompleted: {
		TransferActionCancel: TransferCancelled,
	},
}

// NextTransferStatus devuelve el estado destino o un InvalidStateError.
func NextTransferStatus(id string, from TransferStatus, action TransferAction) (TransferStatus, error) {
	if to, ok := transferTransitions[from][action]; ok {
		return to, nil
	}
	return from, &domain.InvalidStateError{Entity: "transfer", ID: id, From: string(from), Action: string(action)}
}

// ── Ajustes ───────────────────────────────────────────────────────────────────

// AdjustmentStatus estado de un ajuste.
// APPROVED es un estado modelado ("pendiente de aplicar"), nunca equivalente a COMPLETED.
type AdjustmentStatus string

const (
	AdjustmentPending   AdjustmentStatus = "pending"
	AdjustmentApproved  AdjustmentStatus = "approved"
	AdjustmentCompleted AdjustmentStatus = "completed"
	AdjustmentRejected  AdjustmentStatus = "rejected"
)

// AdjustmentAction acción sobre un ajuste.
type AdjustmentAction string

const (
	AdjustmentActionApprove  AdjustmentAction = "approve"
	AdjustmentActionComplete AdjustmentAction = "complete"
	AdjustmentActionReject   AdjustmentAction = "reject"
)

var adjustmentTransitions = map[AdjustmentStatus]map[AdjustmentAction]AdjustmentStatus{
	AdjustmentPending: {
		AdjustmentActionApprove: AdjustmentApproved,
		AdjustmentActionReject:  AdjustmentRejected,
	},
	AdjustmentApproved: {
		AdjustmentActionComplete: AdjustmentCompleted,
	},
}

// NextAdjustmentStatus devuelve el estado destino o un InvalidStateError.
func NextAdjustmentStatus(id string, from AdjustmentStatus, action AdjustmentAction) (AdjustmentStatus, error) {
	if to, ok := adjustmentTransitions[from][action]; ok {
		return to, nil
	}
	return from, &domain.InvalidStateError{Entity: "adjustment", ID: id, From: string(from), Action: string(action)}
}

// ── Reservas ──────────────────────────────────────────────────────────────────

// ReservationStatus estado de una reserva.
type ReservationStatus string

const (
	ReservationActive   ReservationStatus = "active"
	ReservationLinked   ReservationStatus = "linked"
	ReservationExpired  ReservationStatus = "expired"
	ReservationReleased ReservationStatus = "released"
)

// ReservationAction acción sobre una reserva.
type ReservationAction string

const (
	ReservationActionLink    ReservationAction = "link"
	ReservationActionExpire  ReservationAction = "expire"
	ReservationActionRelease ReservationAction = "release"
)

var reservationTransitions = map[ReservationStatus]map[ReservationAction]ReservationStatus{
	ReservationActive: {
		ReservationActionLink:    ReservationLinked,
		ReservationActionExpire:  ReservationExpired,
		ReservationActionRelease: ReservationReleased,
	},
}

// NextReservationStatus devuelve el estado destino o un InvalidStateError.
func NextReservationStatus(id string, from ReservationStatus, action ReservationAction) (ReservationStatus, error) {
	if to, ok := reservationTransitions[from][action]; ok {
		return to, nil
	}
	return from, &domain.InvalidStateError{Entity: "reservation", ID: id, From: string(from), Action: string(action)}
}

package workorder

import (
	"errors"
	"time"

	"repairshop/internal/core/domain/model/kernel"
)

// ErrHistoryRecordIsNotConstructed is returned when a HistoryRecord was not
// created through NewHistoryRecord or RestoreHistoryRecord.
var ErrHistoryRecordIsNotConstructed = errors.New("HistoryRecord must be created via NewHistoryRecord or RestoreHistoryRecord")

// HistoryRecord is an immutable audit entry documenting one status change of
// a work order. Every accepted transition produces exactly one record pairing
// the pre-transition and post-transition statuses, attributed to the acting
// user. The intake of a work order is documented by a synthetic record whose
// before-status is nil.
//
// Records are append-only: they are never edited or deleted, and the work
// order does not hold them in memory; history is queried independently,
// keyed by work-order id, ordered by creation time.
type HistoryRecord struct {
	id           kernel.UUID
	workOrderID  kernel.UUID
	actorID      kernel.UUID
	statusBefore *Status
	statusAfter  Status
	observation  string
	createdAt    time.Time

	isConstructed bool
}

// NewHistoryRecord creates an audit entry for a status change. statusBefore
// is nil only for the synthetic intake record.
func NewHistoryRecord(
	id kernel.UUID,
	workOrderID kernel.UUID,
	actorID kernel.UUID,
	statusBefore *Status,
	statusAfter Status,
	observation string,
) (*HistoryRecord, error) {
	return newHistoryRecord(id, workOrderID, actorID, statusBefore, statusAfter, observation, time.Now().UTC())
}

// RestoreHistoryRecord reconstructs an audit entry from persistence with its
// stored creation time.
func RestoreHistoryRecord(
	id kernel.UUID,
	workOrderID kernel.UUID,
	actorID kernel.UUID,
	statusBefore *Status,
	statusAfter Status,
	observation string,
	createdAt time.Time,
) (*HistoryRecord, error) {
	return newHistoryRecord(id, workOrderID, actorID, statusBefore, statusAfter, observation, createdAt)
}

func newHistoryRecord(
	id kernel.UUID,
	workOrderID kernel.UUID,
	actorID kernel.UUID,
	statusBefore *Status,
	statusAfter Status,
	observation string,
	createdAt time.Time,
) (*HistoryRecord, error) {
	var statusBeforeErr error
	if statusBefore != nil {
		statusBeforeErr = statusBefore.Validate()
	}

	if err := errors.Join(
		id.Validate(),
		workOrderID.Validate(),
		actorID.Validate(),
		statusBeforeErr,
		statusAfter.Validate(),
	); err != nil {
		return nil, err
	}

	return &HistoryRecord{
		id:            id,
		workOrderID:   workOrderID,
		actorID:       actorID,
		statusBefore:  statusBefore,
		statusAfter:   statusAfter,
		observation:   observation,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the record was created through a constructor.
func (h *HistoryRecord) Validate() error {
	if h == nil || !h.isConstructed {
		return ErrHistoryRecordIsNotConstructed
	}
	return nil
}

// ID returns the record's unique identifier.
func (h *HistoryRecord) ID() kernel.UUID {
	return h.id
}

// WorkOrderID returns the documented work order.
func (h *HistoryRecord) WorkOrderID() kernel.UUID {
	return h.workOrderID
}

// ActorID returns the user who performed the transition.
func (h *HistoryRecord) ActorID() kernel.UUID {
	return h.actorID
}

// StatusBefore returns the pre-transition status, or nil for the intake record.
func (h *HistoryRecord) StatusBefore() *Status {
	return h.statusBefore
}

// StatusAfter returns the post-transition status.
func (h *HistoryRecord) StatusAfter() Status {
	return h.statusAfter
}

// Observation returns the free-text note attached to the transition.
func (h *HistoryRecord) Observation() string {
	return h.observation
}

// CreatedAt returns the record's creation time.
func (h *HistoryRecord) CreatedAt() time.Time {
	return h.createdAt
}

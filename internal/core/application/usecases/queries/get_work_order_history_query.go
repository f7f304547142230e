package queries

import (
	"errors"
	"time"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/pkg/guard"
)

var ErrGetWorkOrderHistoryQueryIsNotConstructed = errors.New(
	"GetWorkOrderHistoryQuery must be created via NewGetWorkOrderHistoryQuery constructor",
)

// GetWorkOrderHistoryQuery retrieves the full audit trail of one work order,
// from intake to its current status.
type GetWorkOrderHistoryQuery struct { //nolint:recvcheck //using for validation
	workOrderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetWorkOrderHistoryQuery creates a query for a work order's audit trail.
func NewGetWorkOrderHistoryQuery(workOrderID kernel.UUID) (GetWorkOrderHistoryQuery, error) {
	query := GetWorkOrderHistoryQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setWorkOrderID(workOrderID); err != nil {
		return GetWorkOrderHistoryQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetWorkOrderHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetWorkOrderHistoryQueryIsNotConstructed)
}

// WorkOrderID returns the work order whose history is requested.
func (q GetWorkOrderHistoryQuery) WorkOrderID() kernel.UUID {
	return q.workOrderID
}

func (q *GetWorkOrderHistoryQuery) setWorkOrderID(workOrderID kernel.UUID) error {
	if err := workOrderID.Validate(); err != nil {
		return err
	}

	q.workOrderID = workOrderID
	return nil
}

// GetWorkOrderHistoryQueryResponse represents one audit trail entry.
// StatusBefore is nil for the synthetic intake record.
type GetWorkOrderHistoryQueryResponse struct {
	ID           kernel.UUID
	ActorID      kernel.UUID
	ActorName    string
	StatusBefore *workorder.Status
	StatusAfter  workorder.Status
	Observation  string
	CreatedAt    time.Time
}

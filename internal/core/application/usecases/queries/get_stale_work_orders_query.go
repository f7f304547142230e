package queries

import (
	"errors"
	"time"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/pkg/errs"
	"repairshop/internal/pkg/guard"
)

var (
	ErrGetStaleWorkOrdersQueryIsNotConstructed = errors.New(
		"GetStaleWorkOrdersQuery must be created via NewGetStaleWorkOrdersQuery constructor",
	)
	ErrStaleThresholdIsInvalid = errs.NewValueIsInvalidError("staleAfter must be greater than 0")
)

// GetStaleWorkOrdersQuery retrieves non-terminal work orders that have not
// moved for longer than the given threshold. It runs across all tenants for
// the operational watchdog, which is exactly why it is not reachable from the
// HTTP surface.
type GetStaleWorkOrdersQuery struct { //nolint:recvcheck //using for validation
	staleAfter time.Duration

	guard guard.ConstructorGuard
}

// NewGetStaleWorkOrdersQuery creates a query for work orders stuck longer
// than staleAfter.
func NewGetStaleWorkOrdersQuery(staleAfter time.Duration) (GetStaleWorkOrdersQuery, error) {
	query := GetStaleWorkOrdersQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setStaleAfter(staleAfter); err != nil {
		return GetStaleWorkOrdersQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q GetStaleWorkOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetStaleWorkOrdersQueryIsNotConstructed)
}

// StaleAfter returns the inactivity threshold.
func (q GetStaleWorkOrdersQuery) StaleAfter() time.Duration {
	return q.staleAfter
}

func (q *GetStaleWorkOrdersQuery) setStaleAfter(staleAfter time.Duration) error {
	if staleAfter <= 0 {
		return ErrStaleThresholdIsInvalid
	}

	q.staleAfter = staleAfter
	return nil
}

// GetStaleWorkOrdersQueryResponse represents one stuck work order.
type GetStaleWorkOrdersQueryResponse struct {
	ID        kernel.UUID
	TenantID  kernel.UUID
	Status    workorder.Status
	UpdatedAt time.Time
}

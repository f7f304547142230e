package ports

import (
	"context"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
)

// WorkOrderRepository defines the persistence contract for work order
// aggregates. All reads are tenant-scoped through the scope bound to the
// context; a work order belonging to another tenant is indistinguishable from
// an absent one.
type WorkOrderRepository interface {
	// Add persists a new work order aggregate.
	Add(ctx context.Context, aggregate *workorder.WorkOrder) error

	// Get retrieves a work order by id within the caller's tenant.
	// Returns errs.ObjectNotFoundError when absent or foreign.
	Get(ctx context.Context, id kernel.UUID) (*workorder.WorkOrder, error)

	// UpdateStatus persists the aggregate's mutable state with a conditional
	// write: the row is only updated while its persisted status still equals
	// expectedStatus. When the row changed since it was read, the method
	// returns errs.ConcurrentModificationError; when the row is absent or
	// foreign it returns errs.ObjectNotFoundError.
	UpdateStatus(ctx context.Context, aggregate *workorder.WorkOrder, expectedStatus workorder.Status) error
}

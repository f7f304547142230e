package ports

import (
	"context"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
)

// WorkOrderHistoryRepository defines the persistence contract for the
// append-only audit trail. Records are never updated or deleted.
type WorkOrderHistoryRepository interface {
	// Add persists a new immutable history record.
	Add(ctx context.Context, record *workorder.HistoryRecord) error

	// GetByWorkOrderID retrieves all history records of a work order,
	// ordered by creation time. The tenant filter reaches the record through
	// its parent work order.
	GetByWorkOrderID(ctx context.Context, workOrderID kernel.UUID) ([]*workorder.HistoryRecord, error)
}

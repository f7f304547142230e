package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
)

// GetStaleWorkOrdersQueryHandler finds work orders that stopped moving. It
// deliberately reads without a tenant scope; callers are system-level jobs,
// not requests.
type GetStaleWorkOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetStaleWorkOrdersQueryHandler creates a handler for stale work order queries.
func NewGetStaleWorkOrdersQueryHandler(db *gorm.DB) GetStaleWorkOrdersQueryHandler {
	return GetStaleWorkOrdersQueryHandler{db: db}
}

// Handle executes the query. Results are sorted oldest first so the most
// neglected work orders surface at the top of the watchdog's report.
func (h GetStaleWorkOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetStaleWorkOrdersQuery,
) ([]GetStaleWorkOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	cutoff := time.Now().UTC().Add(-query.StaleAfter())
	orders := make([]GetStaleWorkOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			tenant_id,
			status,
			updated_at
		FROM work_orders
		WHERE status NOT IN (?, ?)
		  AND updated_at < ?
		  AND deleted_at IS NULL
		ORDER BY updated_at
	`, string(workorder.StatusDelivered), string(workorder.StatusCancelled), cutoff).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetStaleWorkOrdersQueryResponse
		var id, tenantID uuid.UUID
		var status string

		err = rows.Scan(&id, &tenantID, &status, &resp.UpdatedAt)
		if err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.TenantID, err = kernel.UUIDFromBytes(tenantID[:]); err != nil {
			return nil, err
		}
		resp.Status = workorder.Status(status)

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

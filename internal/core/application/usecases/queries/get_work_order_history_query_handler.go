package queries

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/pkg/errs"
	"repairshop/internal/pkg/tenantctx"
)

// GetWorkOrderHistoryQueryHandler retrieves a work order's audit trail joined
// with the acting users' names. A work order outside the caller's tenant
// produces the same not-found error as one that does not exist.
type GetWorkOrderHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetWorkOrderHistoryQueryHandler creates a handler for audit trail queries.
func NewGetWorkOrderHistoryQueryHandler(db *gorm.DB) GetWorkOrderHistoryQueryHandler {
	return GetWorkOrderHistoryQueryHandler{db: db}
}

// Handle executes the query for the tenant bound to the context.
// Records are ordered by creation time, intake first.
func (h GetWorkOrderHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetWorkOrderHistoryQuery,
) ([]GetWorkOrderHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	tenantID, ok := tenantctx.TenantID(ctx)
	if !ok {
		return nil, ErrTenantScopeRequired
	}

	// Distinguish "no such work order in this tenant" from "no history yet".
	var count int64
	err := h.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM work_orders
		WHERE id = ? AND tenant_id = ? AND deleted_at IS NULL
	`, query.WorkOrderID().Bytes(), tenantID.Bytes()).Scan(&count).Error
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errs.NewObjectNotFoundError("workOrder", query.WorkOrderID().String())
	}

	records := make([]GetWorkOrderHistoryQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			h.id,
			h.actor_id,
			COALESCE(u.name, ''),
			h.status_before,
			h.status_after,
			h.observation,
			h.created_at
		FROM work_order_histories h
		LEFT JOIN users u ON u.id = h.actor_id
		WHERE h.work_order_id = ?
		ORDER BY h.created_at
	`, query.WorkOrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetWorkOrderHistoryQueryResponse
		var id, actorID uuid.UUID
		var statusBefore sql.NullString
		var statusAfter string

		err = rows.Scan(
			&id,
			&actorID,
			&resp.ActorName,
			&statusBefore,
			&statusAfter,
			&resp.Observation,
			&resp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.ActorID, err = kernel.UUIDFromBytes(actorID[:]); err != nil {
			return nil, err
		}
		if statusBefore.Valid {
			status := workorder.Status(statusBefore.String)
			resp.StatusBefore = &status
		}
		resp.StatusAfter = workorder.Status(statusAfter)

		records = append(records, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/pkg/tenantctx"
)

// GetOpenWorkOrdersQueryHandler retrieves work orders still moving through
// the repair lifecycle, excluding delivered and cancelled ones.
type GetOpenWorkOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetOpenWorkOrdersQueryHandler creates a handler for open work order queries.
func NewGetOpenWorkOrdersQueryHandler(db *gorm.DB) GetOpenWorkOrdersQueryHandler {
	return GetOpenWorkOrdersQueryHandler{db: db}
}

// Handle executes the query for the tenant bound to the context.
// Results are sorted by intake time, oldest first.
func (h GetOpenWorkOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetOpenWorkOrdersQuery,
) ([]GetOpenWorkOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	tenantID, ok := tenantctx.TenantID(ctx)
	if !ok {
		return nil, ErrTenantScopeRequired
	}

	orders := make([]GetOpenWorkOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			client_id,
			equipment_id,
			technician_id,
			status,
			defect_report,
			return_visit,
			created_at,
			updated_at
		FROM work_orders
		WHERE tenant_id = ?
		  AND status NOT IN (?, ?)
		  AND deleted_at IS NULL
		ORDER BY created_at
	`, tenantID.Bytes(), string(workorder.StatusDelivered), string(workorder.StatusCancelled)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetOpenWorkOrdersQueryResponse
		var id, clientID, equipmentID, technicianID uuid.UUID
		var status string

		err = rows.Scan(
			&id,
			&clientID,
			&equipmentID,
			&technicianID,
			&status,
			&resp.DefectReport,
			&resp.ReturnVisit,
			&resp.CreatedAt,
			&resp.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if resp.ClientID, err = kernel.UUIDFromBytes(clientID[:]); err != nil {
			return nil, err
		}
		if resp.EquipmentID, err = kernel.UUIDFromBytes(equipmentID[:]); err != nil {
			return nil, err
		}
		if resp.TechnicianID, err = kernel.UUIDFromBytes(technicianID[:]); err != nil {
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

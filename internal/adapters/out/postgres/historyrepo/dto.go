// Package historyrepo persists the append-only work order audit trail.
// Records are created and read, never updated or deleted. The tenant filter
// reaches a record through its parent work order, since history rows do not
// carry a tenant column of their own.
package historyrepo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
)

// HistoryDTO is the database representation of a history record.
type HistoryDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	WorkOrderID  uuid.UUID `gorm:"type:uuid;index;not null"`
	ActorID      uuid.UUID `gorm:"type:uuid;not null"`
	StatusBefore *string   `gorm:"type:varchar(32)"`
	StatusAfter  string    `gorm:"type:varchar(32);not null"`
	Observation  string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"index"`
}

// TableName overrides gorm's default naming convention.
func (HistoryDTO) TableName() string {
	return "work_order_histories"
}

// TenantPredicate opts the table into join-reachable tenant scoping: a
// history row belongs to the tenant owning its work order.
func (HistoryDTO) TenantPredicate(tenantID uuid.UUID) clause.Expression {
	return clause.Expr{
		SQL:  "EXISTS (SELECT 1 FROM work_orders WHERE work_orders.id = work_order_histories.work_order_id AND work_orders.tenant_id = ?)",
		Vars: []any{tenantID},
	}
}

// fromDomain converts a history record to its database representation.
func fromDomain(record *workorder.HistoryRecord) HistoryDTO {
	var statusBefore *string
	if before := record.StatusBefore(); before != nil {
		raw := string(*before)
		statusBefore = &raw
	}

	return HistoryDTO{
		ID:           record.ID().Bytes(),
		WorkOrderID:  record.WorkOrderID().Bytes(),
		ActorID:      record.ActorID().Bytes(),
		StatusBefore: statusBefore,
		StatusAfter:  string(record.StatusAfter()),
		Observation:  record.Observation(),
		CreatedAt:    record.CreatedAt(),
	}
}

// toDomain reconstructs a history record from its database row.
func toDomain(dto HistoryDTO) (*workorder.HistoryRecord, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	workOrderID, err := kernel.UUIDFromBytes(dto.WorkOrderID[:])
	if err != nil {
		return nil, err
	}
	actorID, err := kernel.UUIDFromBytes(dto.ActorID[:])
	if err != nil {
		return nil, err
	}

	var statusBefore *workorder.Status
	if dto.StatusBefore != nil {
		status := workorder.Status(*dto.StatusBefore)
		statusBefore = &status
	}

	return workorder.RestoreHistoryRecord(
		id,
		workOrderID,
		actorID,
		statusBefore,
		workorder.Status(dto.StatusAfter),
		dto.Observation,
		dto.CreatedAt,
	)
}

// Package workorderrepo persists work order aggregates. It maps the domain
// aggregate to its relational representation and implements the conditional
// status write used for optimistic transition control.
package workorderrepo

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
)

// WorkOrderDTO is the database representation of a work order. Rows are
// soft-deleted: removal sets deleted_at while the audit trail stays intact.
type WorkOrderDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantID        uuid.UUID  `gorm:"type:uuid;index;not null"`
	ClientID        uuid.UUID  `gorm:"type:uuid;index;not null"`
	EquipmentID     uuid.UUID  `gorm:"type:uuid;not null"`
	TechnicianID    uuid.UUID  `gorm:"type:uuid;index;not null"`
	Status          string     `gorm:"type:varchar(32);index;not null"`
	DefectReport    string     `gorm:"type:text;not null"`
	InternalNotes   string     `gorm:"type:text"`
	ReturnVisit     bool       `gorm:"not null;default:false"`
	OriginalOrderID *uuid.UUID `gorm:"type:uuid"`
	DeliveredAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

// TableName overrides gorm's default naming convention.
func (WorkOrderDTO) TableName() string {
	return "work_orders"
}

// TenantColumn opts the table into direct tenant scoping.
func (WorkOrderDTO) TenantColumn() string {
	return "tenant_id"
}

// fromDomain converts a work order aggregate to its database representation.
func fromDomain(aggregate *workorder.WorkOrder) WorkOrderDTO {
	var originalOrderID *uuid.UUID
	if id := aggregate.OriginalOrderID(); id != nil {
		raw := id.Bytes()
		originalOrderID = &raw
	}

	return WorkOrderDTO{
		ID:              aggregate.ID().Bytes(),
		TenantID:        aggregate.TenantID().Bytes(),
		ClientID:        aggregate.ClientID().Bytes(),
		EquipmentID:     aggregate.EquipmentID().Bytes(),
		TechnicianID:    aggregate.TechnicianID().Bytes(),
		Status:          string(aggregate.Status()),
		DefectReport:    aggregate.DefectReport(),
		InternalNotes:   aggregate.InternalNotes(),
		ReturnVisit:     aggregate.IsReturnVisit(),
		OriginalOrderID: originalOrderID,
		DeliveredAt:     aggregate.DeliveredAt(),
		CreatedAt:       aggregate.CreatedAt(),
		UpdatedAt:       aggregate.UpdatedAt(),
	}
}

// toDomain reconstructs a work order aggregate from its database row.
func toDomain(dto WorkOrderDTO) (*workorder.WorkOrder, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	tenantID, err := kernel.UUIDFromBytes(dto.TenantID[:])
	if err != nil {
		return nil, err
	}
	clientID, err := kernel.UUIDFromBytes(dto.ClientID[:])
	if err != nil {
		return nil, err
	}
	equipmentID, err := kernel.UUIDFromBytes(dto.EquipmentID[:])
	if err != nil {
		return nil, err
	}
	technicianID, err := kernel.UUIDFromBytes(dto.TechnicianID[:])
	if err != nil {
		return nil, err
	}

	var originalOrderID *kernel.UUID
	if dto.OriginalOrderID != nil {
		oID, originalErr := kernel.UUIDFromBytes((*dto.OriginalOrderID)[:])
		if originalErr != nil {
			return nil, originalErr
		}
		originalOrderID = &oID
	}

	return workorder.RestoreWorkOrder(
		id,
		tenantID,
		clientID,
		equipmentID,
		technicianID,
		workorder.Status(dto.Status),
		dto.DefectReport,
		dto.InternalNotes,
		dto.ReturnVisit,
		originalOrderID,
		dto.DeliveredAt,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}

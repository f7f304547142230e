package workorderrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/pkg/errs"
)

// GormWorkOrderRepository implements ports.WorkOrderRepository using GORM.
// Tenant filtering is injected by the tenantscope plugin from the context, so
// the repository never mentions the tenant explicitly.
type GormWorkOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormWorkOrderRepository creates a new GORM work order repository.
func NewGormWorkOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormWorkOrderRepository {
	return &GormWorkOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new work order to the database.
func (r *GormWorkOrderRepository) Add(ctx context.Context, aggregate *workorder.WorkOrder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a work order by id. A row owned by another tenant is filtered
// out before the query runs, so it produces the same ObjectNotFoundError as a
// row that does not exist.
func (r *GormWorkOrderRepository) Get(ctx context.Context, id kernel.UUID) (*workorder.WorkOrder, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto WorkOrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("workOrder", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// UpdateStatus persists the aggregate's mutable state conditionally: the row
// is only written while its persisted status still equals expectedStatus.
// This is the write-time re-validation that serializes concurrent transitions
// on the same work order.
func (r *GormWorkOrderRepository) UpdateStatus(
	ctx context.Context,
	aggregate *workorder.WorkOrder,
	expectedStatus workorder.Status,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	id := aggregate.ID()
	result := r.db.WithContext(ctx).
		Model(&WorkOrderDTO{}).
		Where("id = ? AND status = ?", id.Bytes(), string(expectedStatus)).
		Updates(map[string]any{
			"status":         string(aggregate.Status()),
			"internal_notes": aggregate.InternalNotes(),
			"delivered_at":   aggregate.DeliveredAt(),
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		// Either the row moved on since it was read, or it is invisible to
		// this tenant. Distinguish the two with a scoped existence check.
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&WorkOrderDTO{}).
			Where("id = ?", id.Bytes()).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("workOrder", id.String())
		}
		return errs.NewConcurrentModificationError("workOrder", id.String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

package historyrepo

import (
	"context"

	"gorm.io/gorm"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
)

// GormWorkOrderHistoryRepository implements ports.WorkOrderHistoryRepository
// using GORM. The repository exposes no update or delete operations; the
// audit trail only ever grows.
type GormWorkOrderHistoryRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormWorkOrderHistoryRepository creates a new GORM history repository.
func NewGormWorkOrderHistoryRepository(db *gorm.DB, tracker aggregateTracker) *GormWorkOrderHistoryRepository {
	return &GormWorkOrderHistoryRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add persists a new history record.
func (r *GormWorkOrderHistoryRepository) Add(ctx context.Context, record *workorder.HistoryRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(record.ID(), record)
	return nil
}

// GetByWorkOrderID retrieves the full audit trail of a work order, ordered by
// creation time. Cross-tenant rows are filtered out through the parent join
// predicate, so a foreign work order simply yields no records.
func (r *GormWorkOrderHistoryRepository) GetByWorkOrderID(
	ctx context.Context,
	workOrderID kernel.UUID,
) ([]*workorder.HistoryRecord, error) {
	if err := workOrderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []HistoryDTO
	if err := r.db.WithContext(ctx).
		Where("work_order_id = ?", workOrderID.Bytes()).
		Order("created_at").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	records := make([]*workorder.HistoryRecord, 0, len(dtos))
	for _, dto := range dtos {
		record, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

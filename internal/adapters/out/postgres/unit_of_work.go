// Package postgres provides the GORM-based Unit of Work implementation.
// The Unit of Work pattern keeps a list of aggregates affected by a business
// transaction and coordinates writing out their changes atomically.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	if err := uow.WorkOrderRepository().Add(ctx, workOrder); err != nil {
//	    return err
//	}
//	if err := uow.WorkOrderHistoryRepository().Add(ctx, record); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each instance maintains its own transaction state and aggregate tracking,
// so concurrent operations must use separate instances. Tenant filtering is
// not the unit of work's concern: it is applied per statement by the
// tenantscope plugin from the context the repositories receive.
package postgres

import (
	"context"

	"gorm.io/gorm"

	"repairshop/internal/adapters/out/postgres/historyrepo"
	"repairshop/internal/adapters/out/postgres/userrepo"
	"repairshop/internal/adapters/out/postgres/workorderrepo"
	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/ports"
)

// trackedAggregate represents an aggregate modified during the unit of work.
// Useful for implementing patterns like the outbox or domain event publishing.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one GORM
// database connection. Every business operation gets a fresh unit of work
// with proper isolation from other concurrent operations.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work
// instances. The provided connection is reused by all created instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork instance ready for transaction management.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates database transactions and tracks aggregate
// changes for business operations. The work order transition flow relies on
// it to write the status change and the audit record atomically.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin initiates a new database transaction for the unit of work.
// Subsequent repository operations execute within this transaction.
// Calling Begin again on an instance with an open transaction is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		return uow.tx.Error
	}

	return nil
}

// Commit finalizes all changes made within the current transaction.
// After commit the transaction is closed and cannot be reused.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards all changes made within the current transaction.
// After rollback the transaction is closed and cannot be reused.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// WorkOrderRepository provides access to work order persistence within the
// unit of work. Operations execute within the current transaction if one is
// active, otherwise on the main connection.
func (uow *GormUnitOfWork) WorkOrderRepository() ports.WorkOrderRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return workorderrepo.NewGormWorkOrderRepository(db, uow)
}

// WorkOrderHistoryRepository provides access to the audit trail within the
// unit of work.
func (uow *GormUnitOfWork) WorkOrderHistoryRepository() ports.WorkOrderHistoryRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return historyrepo.NewGormWorkOrderHistoryRepository(db, uow)
}

// UserRepository provides read access to users within the unit of work.
func (uow *GormUnitOfWork) UserRepository() ports.UserRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return userrepo.NewGormUserRepository(db)
}

// TrackAggregate registers a domain aggregate as modified within this unit
// of work. Repository implementations call it when aggregates are added or
// updated.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

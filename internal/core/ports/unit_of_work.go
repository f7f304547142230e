package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary. A status transition
// and its audit record must be committed through the same unit of work so
// they land atomically.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// WorkOrderRepository returns a WorkOrderRepository bound to the current transaction.
	WorkOrderRepository() WorkOrderRepository

	// WorkOrderHistoryRepository returns a WorkOrderHistoryRepository bound to the current transaction.
	WorkOrderHistoryRepository() WorkOrderHistoryRepository

	// UserRepository returns a UserRepository bound to the current transaction.
	UserRepository() UserRepository
}

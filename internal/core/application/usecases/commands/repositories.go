// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management,
// and persistence.
//
// Handlers never accept a tenant id as input: the tenant scope travels on the
// context, installed by the request boundary, and the data layer applies it.
package commands

import (
	"context"
	"errors"

	"repairshop/internal/core/ports"
)

// ErrTenantScopeRequired is returned when a command handler runs on a context
// without a bound tenant scope. Commands always act for exactly one tenant.
var ErrTenantScopeRequired = errors.New("tenant scope is required on the context")

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// WorkOrderRepoFactory provides access to the work order repository within
	// a transaction.
	WorkOrderRepoFactory interface {
		WorkOrderRepository() ports.WorkOrderRepository
	}

	// HistoryRepoFactory provides access to the audit trail repository within
	// a transaction.
	HistoryRepoFactory interface {
		WorkOrderHistoryRepository() ports.WorkOrderHistoryRepository
	}

	// UserRepoFactory provides access to the user repository within a
	// transaction.
	UserRepoFactory interface {
		UserRepository() ports.UserRepository
	}

	// UoW manages transactions across the work order aggregate and its audit
	// trail. Every status change commits the aggregate write and the history
	// record through the same instance.
	UoW interface {
		TxManager
		WorkOrderRepoFactory
		HistoryRepoFactory
		UserRepoFactory
	}

	// UoWFactory creates new unit of work instances.
	UoWFactory interface {
		Create() UoW
	}
)

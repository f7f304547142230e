// Package queries contains read-only operations in the CQRS architecture.
// Query handlers bypass the domain model and read projections straight from
// the database.
//
// Tenant-owned reads name the tenant column explicitly: raw SQL does not pass
// through the statement-building phase the automatic tenant filter hooks
// into, so each query binds the tenant id from the request scope itself.
package queries

import (
	"errors"
	"time"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/pkg/guard"
)

// ErrTenantScopeRequired is returned when a tenant-owned query runs on a
// context without a bound tenant scope.
var ErrTenantScopeRequired = errors.New("tenant scope is required on the context")

var ErrGetOpenWorkOrdersQueryIsNotConstructed = errors.New(
	"GetOpenWorkOrdersQuery must be created via NewGetOpenWorkOrdersQuery constructor",
)

// GetOpenWorkOrdersQuery retrieves the tenant's work orders that have not
// reached a terminal status, for the shop's active workload view.
type GetOpenWorkOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetOpenWorkOrdersQuery creates a query to retrieve open work orders.
// This is a parameterless query; the tenant comes from the request scope.
func NewGetOpenWorkOrdersQuery() GetOpenWorkOrdersQuery {
	return GetOpenWorkOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetOpenWorkOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOpenWorkOrdersQueryIsNotConstructed)
}

// GetOpenWorkOrdersQueryResponse represents one open work order.
type GetOpenWorkOrdersQueryResponse struct {
	ID           kernel.UUID
	ClientID     kernel.UUID
	EquipmentID  kernel.UUID
	TechnicianID kernel.UUID
	Status       workorder.Status
	DefectReport string
	ReturnVisit  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

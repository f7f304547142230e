package commands

import (
	"context"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/pkg/tenantctx"
)

// CreateWorkOrderCommandHandler handles the business logic for work order
// intake. The new work order starts in the received status and gets a
// synthetic audit record documenting the intake, with no before-status.
type CreateWorkOrderCommandHandler struct {
	uowFactory UoWFactory
}

// NewCreateWorkOrderCommandHandler creates a handler for work order intake.
func NewCreateWorkOrderCommandHandler(uowFactory UoWFactory) CreateWorkOrderCommandHandler {
	return CreateWorkOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the intake command. The work order and its intake audit
// record are committed in one transaction. The acting user is resolved under
// the tenant scope, so an actor from another tenant comes back as not found.
func (h *CreateWorkOrderCommandHandler) Handle(ctx context.Context, cmd CreateWorkOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	scope, ok := tenantctx.ScopeFrom(ctx)
	if !ok {
		return ErrTenantScopeRequired
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	actor, err := uow.UserRepository().Get(ctx, scope.UserID)
	if err != nil {
		return err
	}

	order, err := workorder.NewWorkOrder(
		cmd.WorkOrderID(),
		scope.TenantID,
		cmd.ClientID(),
		cmd.EquipmentID(),
		cmd.TechnicianID(),
		cmd.DefectReport(),
		cmd.IsReturnVisit(),
		cmd.OriginalOrderID(),
	)
	if err != nil {
		return err
	}

	if err = uow.WorkOrderRepository().Add(ctx, order); err != nil {
		return err
	}

	record, err := workorder.NewHistoryRecord(
		kernel.NewUUID(),
		order.ID(),
		actor.ID(),
		nil,
		order.Status(),
		"",
	)
	if err != nil {
		return err
	}

	if err = uow.WorkOrderHistoryRepository().Add(ctx, record); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

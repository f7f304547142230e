package commands

import (
	"context"
	"errors"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/pkg/errs"
	"repairshop/internal/pkg/tenantctx"
)

// TransitionWorkOrderCommandHandler handles the business logic for status
// transitions. Concurrency control is optimistic: the aggregate is validated
// in memory and then written conditionally on the status it was read at. A
// lost race surfaces as a concurrent modification, and the handler retries
// the whole read-validate-write cycle once before giving up, so two racing
// but sequentially-valid transitions both succeed.
type TransitionWorkOrderCommandHandler struct {
	uowFactory UoWFactory
}

// NewTransitionWorkOrderCommandHandler creates a handler for status
// transition operations.
func NewTransitionWorkOrderCommandHandler(uowFactory UoWFactory) TransitionWorkOrderCommandHandler {
	return TransitionWorkOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the transition command. The status write and the audit
// record land in one transaction; an invalid transition leaves both the work
// order and its history untouched.
func (h *TransitionWorkOrderCommandHandler) Handle(ctx context.Context, cmd TransitionWorkOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	scope, ok := tenantctx.ScopeFrom(ctx)
	if !ok {
		return ErrTenantScopeRequired
	}

	err := h.transition(ctx, cmd, scope)
	if errors.Is(err, errs.ErrConcurrentModification) {
		// The row moved on between read and write. Re-read once: the
		// transition may still be valid from the new status.
		err = h.transition(ctx, cmd, scope)
	}

	return err
}

func (h *TransitionWorkOrderCommandHandler) transition(
	ctx context.Context,
	cmd TransitionWorkOrderCommand,
	scope tenantctx.Scope,
) error {
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

	workOrderRepo := uow.WorkOrderRepository()
	order, err := workOrderRepo.Get(ctx, cmd.WorkOrderID())
	if err != nil {
		return err
	}

	statusBefore := order.Status()
	if err = order.TransitionTo(cmd.TargetStatus()); err != nil {
		return err
	}
	order.AppendInternalNotes(cmd.Observation())

	if err = workOrderRepo.UpdateStatus(ctx, order, statusBefore); err != nil {
		return err
	}

	record, err := workorder.NewHistoryRecord(
		kernel.NewUUID(),
		order.ID(),
		actor.ID(),
		&statusBefore,
		order.Status(),
		cmd.Observation(),
	)
	if err != nil {
		return err
	}

	if err = uow.WorkOrderHistoryRepository().Add(ctx, record); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

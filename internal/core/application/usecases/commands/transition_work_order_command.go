package commands

import (
	"errors"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/pkg/guard"
)

var ErrTransitionWorkOrderCommandIsNotConstructed = errors.New(
	"TransitionWorkOrderCommand must be created via NewTransitionWorkOrderCommand constructor",
)

// TransitionWorkOrderCommand represents a request to move a work order to a
// new lifecycle status. Whether the move is allowed is not the command's
// business: the aggregate decides against its transition table when the
// handler runs.
type TransitionWorkOrderCommand struct { //nolint:recvcheck //using for validation
	workOrderID  kernel.UUID
	targetStatus workorder.Status
	observation  string

	guard guard.ConstructorGuard
}

// NewTransitionWorkOrderCommand creates a command to transition a work order.
// The observation is an optional free-text note recorded on the audit trail.
func NewTransitionWorkOrderCommand(
	workOrderID kernel.UUID,
	targetStatus workorder.Status,
	observation string,
) (TransitionWorkOrderCommand, error) {
	cmd := TransitionWorkOrderCommand{
		observation: observation,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setWorkOrderID(workOrderID),
		cmd.setTargetStatus(targetStatus),
	); err != nil {
		return TransitionWorkOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionWorkOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionWorkOrderCommandIsNotConstructed)
}

// WorkOrderID returns the work order to transition.
func (c TransitionWorkOrderCommand) WorkOrderID() kernel.UUID {
	return c.workOrderID
}

// TargetStatus returns the requested lifecycle status.
func (c TransitionWorkOrderCommand) TargetStatus() workorder.Status {
	return c.targetStatus
}

// Observation returns the free-text note to record with the transition.
func (c TransitionWorkOrderCommand) Observation() string {
	return c.observation
}

func (c *TransitionWorkOrderCommand) setWorkOrderID(workOrderID kernel.UUID) error {
	if err := workOrderID.Validate(); err != nil {
		return err
	}

	c.workOrderID = workOrderID
	return nil
}

func (c *TransitionWorkOrderCommand) setTargetStatus(targetStatus workorder.Status) error {
	if err := targetStatus.Validate(); err != nil {
		return err
	}

	c.targetStatus = targetStatus
	return nil
}

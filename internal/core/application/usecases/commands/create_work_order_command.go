package commands

import (
	"errors"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/pkg/errs"
	"repairshop/internal/pkg/guard"
)

var ErrCreateWorkOrderCommandIsNotConstructed = errors.New(
	"CreateWorkOrderCommand must be created via NewCreateWorkOrderCommand constructor",
)

// CreateWorkOrderCommand represents a request to register a piece of
// equipment for repair. The owning tenant is deliberately absent: it is taken
// from the request scope by the handler, never from client input.
type CreateWorkOrderCommand struct { //nolint:recvcheck //using for validation
	workOrderID     kernel.UUID
	clientID        kernel.UUID
	equipmentID     kernel.UUID
	technicianID    kernel.UUID
	defectReport    string
	returnVisit     bool
	originalOrderID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreateWorkOrderCommand creates a command to register a new work order.
// Validates that all referenced ids are valid, the defect report is present,
// and an originating order is named exactly when this is a return visit.
func NewCreateWorkOrderCommand(
	workOrderID kernel.UUID,
	clientID kernel.UUID,
	equipmentID kernel.UUID,
	technicianID kernel.UUID,
	defectReport string,
	returnVisit bool,
	originalOrderID *kernel.UUID,
) (CreateWorkOrderCommand, error) {
	cmd := CreateWorkOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setWorkOrderID(workOrderID),
		cmd.setClientID(clientID),
		cmd.setEquipmentID(equipmentID),
		cmd.setTechnicianID(technicianID),
		cmd.setDefectReport(defectReport),
		cmd.setReturnVisit(returnVisit, originalOrderID),
	); err != nil {
		return CreateWorkOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateWorkOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateWorkOrderCommandIsNotConstructed)
}

// WorkOrderID returns the unique identifier for the new work order.
func (c CreateWorkOrderCommand) WorkOrderID() kernel.UUID {
	return c.workOrderID
}

// ClientID returns the client the equipment belongs to.
func (c CreateWorkOrderCommand) ClientID() kernel.UUID {
	return c.clientID
}

// EquipmentID returns the equipment under repair.
func (c CreateWorkOrderCommand) EquipmentID() kernel.UUID {
	return c.equipmentID
}

// TechnicianID returns the technician responsible for the repair.
func (c CreateWorkOrderCommand) TechnicianID() kernel.UUID {
	return c.technicianID
}

// DefectReport returns the client-reported defect description.
func (c CreateWorkOrderCommand) DefectReport() string {
	return c.defectReport
}

// IsReturnVisit reports whether this registers a return for a previous repair.
func (c CreateWorkOrderCommand) IsReturnVisit() bool {
	return c.returnVisit
}

// OriginalOrderID returns the originating work order of a return visit, or
// nil for a first visit.
func (c CreateWorkOrderCommand) OriginalOrderID() *kernel.UUID {
	return c.originalOrderID
}

func (c *CreateWorkOrderCommand) setWorkOrderID(workOrderID kernel.UUID) error {
	if err := workOrderID.Validate(); err != nil {
		return err
	}

	c.workOrderID = workOrderID
	return nil
}

func (c *CreateWorkOrderCommand) setClientID(clientID kernel.UUID) error {
	if err := clientID.Validate(); err != nil {
		return err
	}

	c.clientID = clientID
	return nil
}

func (c *CreateWorkOrderCommand) setEquipmentID(equipmentID kernel.UUID) error {
	if err := equipmentID.Validate(); err != nil {
		return err
	}

	c.equipmentID = equipmentID
	return nil
}

func (c *CreateWorkOrderCommand) setTechnicianID(technicianID kernel.UUID) error {
	if err := technicianID.Validate(); err != nil {
		return err
	}

	c.technicianID = technicianID
	return nil
}

func (c *CreateWorkOrderCommand) setDefectReport(defectReport string) error {
	if defectReport == "" {
		return errs.NewValueIsRequiredError("defectReport")
	}

	c.defectReport = defectReport
	return nil
}

func (c *CreateWorkOrderCommand) setReturnVisit(returnVisit bool, originalOrderID *kernel.UUID) error {
	if originalOrderID != nil {
		if err := originalOrderID.Validate(); err != nil {
			return err
		}
	}

	c.returnVisit = returnVisit
	c.originalOrderID = originalOrderID
	return nil
}

package workorder

import (
	"errors"
	"time"

	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/pkg/errs"
)

var (
	// ErrWorkOrderIsNotConstructed is returned when a WorkOrder instance was
	// not created through NewWorkOrder or RestoreWorkOrder.
	ErrWorkOrderIsNotConstructed = errors.New("WorkOrder must be created via NewWorkOrder or RestoreWorkOrder")

	// ErrOriginalOrderRequired is returned when a return visit does not name
	// the work order it returns for.
	ErrOriginalOrderRequired = errs.NewValueIsRequiredError("originalOrderID is required for a return visit")

	// ErrOriginalOrderNotAllowed is returned when a first visit names an
	// originating work order.
	ErrOriginalOrderNotAllowed = errs.NewValueIsInvalidError("originalOrderID is only allowed for a return visit")
)

// WorkOrder is the aggregate root for a single repair job. It belongs to
// exactly one tenant and references the client, the equipment under repair,
// and the responsible technician by id.
//
// Invariants:
//   - status changes only through TransitionTo, never by direct assignment
//   - deliveredAt is set exactly when the Delivered status is reached, and is
//     never cleared afterwards (Delivered is terminal)
//   - a return visit references its originating work order; a first visit
//     does not
//
// Work orders are never hard-deleted; removal is a soft-deletion concern of
// the persistence layer so that the audit trail stays intact.
type WorkOrder struct {
	id              kernel.UUID
	tenantID        kernel.UUID
	clientID        kernel.UUID
	equipmentID     kernel.UUID
	technicianID    kernel.UUID
	status          Status
	defectReport    string
	internalNotes   string
	returnVisit     bool
	originalOrderID *kernel.UUID
	deliveredAt     *time.Time
	createdAt       time.Time
	updatedAt       time.Time

	isConstructed bool
}

// NewWorkOrder creates a work order at intake, in StatusReceived.
// The tenant id comes from the request scope, never from client input.
func NewWorkOrder(
	id kernel.UUID,
	tenantID kernel.UUID,
	clientID kernel.UUID,
	equipmentID kernel.UUID,
	technicianID kernel.UUID,
	defectReport string,
	returnVisit bool,
	originalOrderID *kernel.UUID,
) (*WorkOrder, error) {
	now := time.Now().UTC()
	order := &WorkOrder{
		status:        StatusReceived,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setTenantID(tenantID),
		order.setClientID(clientID),
		order.setEquipmentID(equipmentID),
		order.setTechnicianID(technicianID),
		order.setDefectReport(defectReport),
		order.setReturnVisit(returnVisit, originalOrderID),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// RestoreWorkOrder reconstructs a work order from persistence. Unlike
// NewWorkOrder it accepts any valid status and the stored timestamps.
func RestoreWorkOrder(
	id kernel.UUID,
	tenantID kernel.UUID,
	clientID kernel.UUID,
	equipmentID kernel.UUID,
	technicianID kernel.UUID,
	status Status,
	defectReport string,
	internalNotes string,
	returnVisit bool,
	originalOrderID *kernel.UUID,
	deliveredAt *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) (*WorkOrder, error) {
	order := &WorkOrder{
		internalNotes: internalNotes,
		deliveredAt:   deliveredAt,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setTenantID(tenantID),
		order.setClientID(clientID),
		order.setEquipmentID(equipmentID),
		order.setTechnicianID(technicianID),
		order.setDefectReport(defectReport),
		order.setReturnVisit(returnVisit, originalOrderID),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	order.status = status

	return order, nil
}

// Validate ensures the work order was created through a constructor.
func (o *WorkOrder) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrWorkOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two work orders by identity.
func (o *WorkOrder) IsEqual(other *WorkOrder) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the work order's unique identifier.
func (o *WorkOrder) ID() kernel.UUID {
	return o.id
}

// TenantID returns the owning tenant's identifier.
func (o *WorkOrder) TenantID() kernel.UUID {
	return o.tenantID
}

// ClientID returns the client the equipment belongs to.
func (o *WorkOrder) ClientID() kernel.UUID {
	return o.clientID
}

// EquipmentID returns the equipment under repair.
func (o *WorkOrder) EquipmentID() kernel.UUID {
	return o.equipmentID
}

// TechnicianID returns the responsible technician.
func (o *WorkOrder) TechnicianID() kernel.UUID {
	return o.technicianID
}

// Status returns the current lifecycle status.
func (o *WorkOrder) Status() Status {
	return o.status
}

// DefectReport returns the client-reported defect description.
func (o *WorkOrder) DefectReport() string {
	return o.defectReport
}

// InternalNotes returns the free-text notes kept by the shop.
func (o *WorkOrder) InternalNotes() string {
	return o.internalNotes
}

// IsReturnVisit reports whether this work order is a return for a previous one.
func (o *WorkOrder) IsReturnVisit() bool {
	return o.returnVisit
}

// OriginalOrderID returns the originating work order of a return visit, or
// nil for a first visit.
func (o *WorkOrder) OriginalOrderID() *kernel.UUID {
	return o.originalOrderID
}

// DeliveredAt returns the delivery timestamp, or nil while the work order has
// not reached StatusDelivered.
func (o *WorkOrder) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// CreatedAt returns the intake timestamp.
func (o *WorkOrder) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns the last modification timestamp.
func (o *WorkOrder) UpdatedAt() time.Time {
	return o.updatedAt
}

// AppendInternalNotes adds a line to the shop's internal notes.
func (o *WorkOrder) AppendInternalNotes(note string) {
	if note == "" {
		return
	}
	if o.internalNotes != "" {
		o.internalNotes += "\n"
	}
	o.internalNotes += note
	o.updatedAt = time.Now().UTC()
}

// TransitionTo is the only sanctioned mutator of the status field. It
// validates the requested change against the transition table and returns an
// InvalidTransitionError, leaving the aggregate untouched, when the change is
// not allowed. Reaching StatusDelivered stamps the delivery timestamp.
//
// TransitionTo neither persists the aggregate nor writes the audit record;
// that orchestration belongs to the use case, which must commit the status
// write and the history record in one transaction.
func (o *WorkOrder) TransitionTo(to Status) error {
	if err := to.Validate(); err != nil {
		return err
	}

	if !o.status.CanTransitionTo(to) {
		return &InvalidTransitionError{From: o.status, To: to}
	}

	now := time.Now().UTC()
	o.status = to
	o.updatedAt = now
	if to == StatusDelivered && o.deliveredAt == nil {
		o.deliveredAt = &now
	}

	return nil
}

func (o *WorkOrder) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *WorkOrder) setTenantID(tenantID kernel.UUID) error {
	if err := tenantID.Validate(); err != nil {
		return err
	}
	o.tenantID = tenantID
	return nil
}

func (o *WorkOrder) setClientID(clientID kernel.UUID) error {
	if err := clientID.Validate(); err != nil {
		return err
	}
	o.clientID = clientID
	return nil
}

func (o *WorkOrder) setEquipmentID(equipmentID kernel.UUID) error {
	if err := equipmentID.Validate(); err != nil {
		return err
	}
	o.equipmentID = equipmentID
	return nil
}

func (o *WorkOrder) setTechnicianID(technicianID kernel.UUID) error {
	if err := technicianID.Validate(); err != nil {
		return err
	}
	o.technicianID = technicianID
	return nil
}

func (o *WorkOrder) setDefectReport(defectReport string) error {
	if defectReport == "" {
		return errs.NewValueIsRequiredError("defectReport")
	}
	o.defectReport = defectReport
	return nil
}

func (o *WorkOrder) setReturnVisit(returnVisit bool, originalOrderID *kernel.UUID) error {
	if returnVisit && originalOrderID == nil {
		return ErrOriginalOrderRequired
	}
	if !returnVisit && originalOrderID != nil {
		return ErrOriginalOrderNotAllowed
	}
	if originalOrderID != nil {
		if err := originalOrderID.Validate(); err != nil {
			return err
		}
	}

	o.returnVisit = returnVisit
	o.originalOrderID = originalOrderID
	return nil
}

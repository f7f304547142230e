package workorder

import (
	"fmt"

	"github.com/looplab/fsm"

	"repairshop/internal/pkg/errs"
)

// Status represents the lifecycle state of a work order. The string values
// are persisted as-is, so they form part of the storage contract and must not
// be renamed.
type Status string

const (
	// StatusReceived is the initial status assigned at intake.
	StatusReceived Status = "Received"

	// StatusUnderAnalysis indicates a technician is diagnosing the defect.
	StatusUnderAnalysis Status = "UnderAnalysis"

	// StatusAwaitingApproval indicates the repair budget awaits the client's approval.
	StatusAwaitingApproval Status = "AwaitingApproval"

	// StatusInRepair indicates the approved repair is being carried out.
	StatusInRepair Status = "InRepair"

	// StatusReady indicates the repair is finished and the equipment awaits pickup.
	StatusReady Status = "Ready"

	// StatusDelivered indicates the equipment was returned to the client.
	// Terminal.
	StatusDelivered Status = "Delivered"

	// StatusCancelled indicates the work order was abandoned before delivery.
	// Terminal.
	StatusCancelled Status = "Cancelled"
)

// forwardTransitions is the single source of truth for the happy-path
// successors of each status. Cancellation is deliberately absent: it is
// reachable from any non-terminal status and is handled as a separate rule so
// the forward table stays linear.
var forwardTransitions = map[Status][]Status{
	StatusReceived:         {StatusUnderAnalysis},
	StatusUnderAnalysis:    {StatusAwaitingApproval},
	StatusAwaitingApproval: {StatusInRepair},
	StatusInRepair:         {StatusReady},
	StatusReady:            {StatusDelivered},
	StatusDelivered:        {},
	StatusCancelled:        {},
}

// statusOrder fixes a deterministic iteration order over the enumeration,
// since forwardTransitions is a map.
var statusOrder = []Status{
	StatusReceived,
	StatusUnderAnalysis,
	StatusAwaitingApproval,
	StatusInRepair,
	StatusReady,
	StatusDelivered,
	StatusCancelled,
}

// transitionEvents names the workflow event that moves a work order into each
// reachable destination status. StatusReceived has no event: nothing
// transitions back into intake.
var transitionEvents = map[Status]string{
	StatusUnderAnalysis:    "start_analysis",
	StatusAwaitingApproval: "request_approval",
	StatusInRepair:         "approve_budget",
	StatusReady:            "finish_repair",
	StatusDelivered:        "deliver",
	StatusCancelled:        "cancel",
}

// statusEvents is the looplab/fsm event set derived from forwardTransitions
// plus the cancellation rule. The table stays the single source of truth; the
// fsm is only the engine answering legality questions.
var statusEvents = buildStatusEvents()

func buildStatusEvents() []fsm.EventDesc {
	events := make([]fsm.EventDesc, 0, len(transitionEvents))

	for _, dst := range statusOrder {
		event, ok := transitionEvents[dst]
		if !ok {
			continue
		}

		var src []string
		if dst == StatusCancelled {
			for _, s := range statusOrder {
				if !s.IsTerminal() {
					src = append(src, string(s))
				}
			}
		} else {
			for _, s := range statusOrder {
				for _, next := range forwardTransitions[s] {
					if next == dst {
						src = append(src, string(s))
					}
				}
			}
		}

		events = append(events, fsm.EventDesc{Name: event, Src: src, Dst: string(dst)})
	}

	return events
}

// Validate checks that the status is a member of the enumeration. Statuses
// arriving from external sources (API, database) must be validated before use.
func (s Status) Validate() error {
	if _, ok := forwardTransitions[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", string(s)))
	}
	return nil
}

// String returns the status name. Implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether the status has no legal outgoing transition.
func (s Status) IsTerminal() bool {
	next, ok := forwardTransitions[s]
	return ok && len(next) == 0
}

// AllowedNextStatuses returns the happy-path successors of the status.
// Cancellation is not listed; use CanTransitionTo to check it.
func (s Status) AllowedNextStatuses() []Status {
	next := forwardTransitions[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo reports whether the transition from s to the given status
// is legal. A short-lived fsm instance is initialized with s as the current
// state because looplab/fsm tracks state internally; the event set itself is
// built once from the transition table.
func (s Status) CanTransitionTo(to Status) bool {
	event, ok := transitionEvents[to]
	if !ok {
		return false
	}
	if s.Validate() != nil {
		return false
	}

	machine := fsm.NewFSM(string(s), statusEvents, nil)
	return machine.Can(event)
}

// InvalidTransitionError is returned when a requested status change violates
// the transition table. The aggregate is left unmodified.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transition from %q to %q is not allowed", e.From, e.To)
}

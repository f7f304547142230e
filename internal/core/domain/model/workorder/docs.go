// Package workorder contains the work order aggregate and its lifecycle
// state machine.
//
// A work order tracks a piece of equipment through the repair workflow of a
// single tenant, from intake to delivery. Its status may only change through
// WorkOrder.TransitionTo, which consults the transition table owned by this
// package; every accepted transition is documented by an immutable
// HistoryRecord written by the orchestrating use case.
//
// The happy path is linear:
//
//	Received -> UnderAnalysis -> AwaitingApproval -> InRepair -> Ready -> Delivered
//
// Cancellation is reachable from any non-terminal state. Delivered and
// Cancelled are terminal.
package workorder

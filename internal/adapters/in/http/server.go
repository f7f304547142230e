// Package http exposes the work order use cases over REST.
// It coordinates between HTTP handlers and application use cases; every
// route except health and metrics sits behind the tenant authentication
// middleware.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"repairshop/internal/core/application/usecases/commands"
	"repairshop/internal/core/application/usecases/queries"
	"repairshop/internal/core/domain/model/kernel"
	"repairshop/internal/core/domain/model/workorder"
	"repairshop/internal/pkg/errs"
)

// Server implements the HTTP handlers for the work order API.
type Server struct {
	// Command handlers
	createWorkOrderHandler     commands.CreateWorkOrderCommandHandler
	transitionWorkOrderHandler commands.TransitionWorkOrderCommandHandler

	// Query handlers
	getOpenWorkOrdersHandler   queries.GetOpenWorkOrdersQueryHandler
	getWorkOrderHistoryHandler queries.GetWorkOrderHistoryQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createWorkOrderHandler commands.CreateWorkOrderCommandHandler,
	transitionWorkOrderHandler commands.TransitionWorkOrderCommandHandler,
	getOpenWorkOrdersHandler queries.GetOpenWorkOrdersQueryHandler,
	getWorkOrderHistoryHandler queries.GetWorkOrderHistoryQueryHandler,
) *Server {
	return &Server{
		createWorkOrderHandler:     createWorkOrderHandler,
		transitionWorkOrderHandler: transitionWorkOrderHandler,
		getOpenWorkOrdersHandler:   getOpenWorkOrdersHandler,
		getWorkOrderHistoryHandler: getWorkOrderHistoryHandler,
	}
}

// RegisterRoutes mounts the API routes on the given group. The group is
// expected to carry the tenant authentication middleware.
func (s *Server) RegisterRoutes(g *echo.Group) {
	g.POST("/work-orders", s.CreateWorkOrder)
	g.POST("/work-orders/:id/transition", s.TransitionWorkOrder)
	g.GET("/work-orders/open", s.GetOpenWorkOrders)
	g.GET("/work-orders/:id/history", s.GetWorkOrderHistory)
}

// Error is the JSON error body returned by all endpoints.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewWorkOrderRequest is the body of POST /api/v1/work-orders.
// The tenant is deliberately not part of the request: it comes from the
// caller's token.
type NewWorkOrderRequest struct {
	ClientID        string  `json:"client_id"`
	EquipmentID     string  `json:"equipment_id"`
	TechnicianID    string  `json:"technician_id"`
	DefectReport    string  `json:"defect_report"`
	ReturnVisit     bool    `json:"return_visit"`
	OriginalOrderID *string `json:"original_order_id,omitempty"`
}

// NewWorkOrderResponse returns the id assigned to the created work order.
type NewWorkOrderResponse struct {
	ID string `json:"id"`
}

// TransitionRequest is the body of POST /api/v1/work-orders/:id/transition.
type TransitionRequest struct {
	TargetStatus string `json:"target_status"`
	Observation  string `json:"observation,omitempty"`
}

// WorkOrderSummary is one element of the open work orders listing.
type WorkOrderSummary struct {
	ID           string    `json:"id"`
	ClientID     string    `json:"client_id"`
	EquipmentID  string    `json:"equipment_id"`
	TechnicianID string    `json:"technician_id"`
	Status       string    `json:"status"`
	DefectReport string    `json:"defect_report"`
	ReturnVisit  bool      `json:"return_visit"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HistoryEntry is one element of the audit trail listing. StatusBefore is
// absent on the intake entry.
type HistoryEntry struct {
	ID           string    `json:"id"`
	ActorID      string    `json:"actor_id"`
	ActorName    string    `json:"actor_name,omitempty"`
	StatusBefore *string   `json:"status_before,omitempty"`
	StatusAfter  string    `json:"status_after"`
	Observation  string    `json:"observation,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateWorkOrder handles POST /api/v1/work-orders - registers equipment for repair.
func (s *Server) CreateWorkOrder(ctx echo.Context) error {
	var req NewWorkOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	clientID, err := kernel.UUIDFromString(req.ClientID)
	if err != nil {
		return badRequest(ctx, "Invalid client_id")
	}
	equipmentID, err := kernel.UUIDFromString(req.EquipmentID)
	if err != nil {
		return badRequest(ctx, "Invalid equipment_id")
	}
	technicianID, err := kernel.UUIDFromString(req.TechnicianID)
	if err != nil {
		return badRequest(ctx, "Invalid technician_id")
	}

	var originalOrderID *kernel.UUID
	if req.OriginalOrderID != nil {
		id, idErr := kernel.UUIDFromString(*req.OriginalOrderID)
		if idErr != nil {
			return badRequest(ctx, "Invalid original_order_id")
		}
		originalOrderID = &id
	}

	workOrderID := kernel.NewUUID()
	cmd, err := commands.NewCreateWorkOrderCommand(
		workOrderID, clientID, equipmentID, technicianID,
		req.DefectReport, req.ReturnVisit, originalOrderID,
	)
	if err != nil {
		return badRequest(ctx, "Invalid work order data: "+err.Error())
	}

	if handleErr := s.createWorkOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeDomainError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, NewWorkOrderResponse{ID: workOrderID.String()})
}

// TransitionWorkOrder handles POST /api/v1/work-orders/:id/transition -
// moves a work order to a new lifecycle status.
func (s *Server) TransitionWorkOrder(ctx echo.Context) error {
	workOrderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid work order id")
	}

	var req TransitionRequest
	if err = ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cmd, err := commands.NewTransitionWorkOrderCommand(
		workOrderID, workorder.Status(req.TargetStatus), req.Observation,
	)
	if err != nil {
		return badRequest(ctx, "Invalid transition data: "+err.Error())
	}

	if handleErr := s.transitionWorkOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeDomainError(ctx, handleErr)
	}

	RecordTransition(req.TargetStatus)
	return ctx.NoContent(http.StatusNoContent)
}

// GetOpenWorkOrders handles GET /api/v1/work-orders/open - lists the
// tenant's work orders still moving through the lifecycle.
func (s *Server) GetOpenWorkOrders(ctx echo.Context) error {
	query := queries.NewGetOpenWorkOrdersQuery()

	orders, err := s.getOpenWorkOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeDomainError(ctx, err)
	}

	response := make([]WorkOrderSummary, len(orders))
	for i, o := range orders {
		response[i] = WorkOrderSummary{
			ID:           o.ID.String(),
			ClientID:     o.ClientID.String(),
			EquipmentID:  o.EquipmentID.String(),
			TechnicianID: o.TechnicianID.String(),
			Status:       o.Status.String(),
			DefectReport: o.DefectReport,
			ReturnVisit:  o.ReturnVisit,
			CreatedAt:    o.CreatedAt,
			UpdatedAt:    o.UpdatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetWorkOrderHistory handles GET /api/v1/work-orders/:id/history -
// returns the audit trail of one work order.
func (s *Server) GetWorkOrderHistory(ctx echo.Context) error {
	workOrderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid work order id")
	}

	query, err := queries.NewGetWorkOrderHistoryQuery(workOrderID)
	if err != nil {
		return badRequest(ctx, "Invalid history query: "+err.Error())
	}

	records, err := s.getWorkOrderHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeDomainError(ctx, err)
	}

	response := make([]HistoryEntry, len(records))
	for i, r := range records {
		entry := HistoryEntry{
			ID:          r.ID.String(),
			ActorID:     r.ActorID.String(),
			ActorName:   r.ActorName,
			StatusAfter: r.StatusAfter.String(),
			Observation: r.Observation,
			CreatedAt:   r.CreatedAt,
		}
		if r.StatusBefore != nil {
			before := r.StatusBefore.String()
			entry.StatusBefore = &before
		}
		response[i] = entry
	}

	return ctx.JSON(http.StatusOK, response)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// writeDomainError maps use case errors onto HTTP statuses. The rejected
// transition gets 422: the request was well-formed, the lifecycle just does
// not allow it. Cross-tenant access surfaces as a plain 404.
func writeDomainError(ctx echo.Context, err error) error {
	var invalidTransition *workorder.InvalidTransitionError

	switch {
	case errors.As(err, &invalidTransition):
		return ctx.JSON(http.StatusUnprocessableEntity, Error{
			Code:    http.StatusUnprocessableEntity,
			Message: invalidTransition.Error(),
		})
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: "Work order not found",
		})
	case errors.Is(err, errs.ErrConcurrentModification):
		return ctx.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: "Work order was modified concurrently, retry the request",
		})
	case errors.Is(err, errs.ErrValueIsInvalid), errors.Is(err, errs.ErrValueIsRequired):
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Internal server error",
		})
	}
}

// Package http exposes the warehouse workflow over a JSON API.
// Every role-gated endpoint reads the caller's role from the X-Agent-Role
// header; unrecognized values are rejected before any other processing.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"warehouse/internal/core/application/usecases/commands"
	"warehouse/internal/core/application/usecases/queries"
	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/order"
	"warehouse/internal/core/domain/model/task"
	"warehouse/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// RoleHeader carries the caller's role on every role-gated request.
const RoleHeader = "X-Agent-Role"

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler       commands.CreateOrderCommandHandler
	requestTransitionHandler commands.RequestTransitionCommandHandler
	executeTransitionHandler commands.ExecuteTransitionCommandHandler
	claimTaskHandler         commands.ClaimTaskCommandHandler
	completeTaskHandler      commands.CompleteTaskCommandHandler
	releaseTaskHandler       commands.ReleaseTaskCommandHandler

	// Query handlers
	getOrderHandler        queries.GetOrderQueryHandler
	getAllOrdersHandler    queries.GetAllOrdersQueryHandler
	getQueueStatusHandler  queries.GetQueueStatusQueryHandler
	getAgentClaimHandler   queries.GetAgentClaimQueryHandler
	getStateMachineHandler queries.GetStateMachineQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	requestTransitionHandler commands.RequestTransitionCommandHandler,
	executeTransitionHandler commands.ExecuteTransitionCommandHandler,
	claimTaskHandler commands.ClaimTaskCommandHandler,
	completeTaskHandler commands.CompleteTaskCommandHandler,
	releaseTaskHandler commands.ReleaseTaskCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getAllOrdersHandler queries.GetAllOrdersQueryHandler,
	getQueueStatusHandler queries.GetQueueStatusQueryHandler,
	getAgentClaimHandler queries.GetAgentClaimQueryHandler,
	getStateMachineHandler queries.GetStateMachineQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:       createOrderHandler,
		requestTransitionHandler: requestTransitionHandler,
		executeTransitionHandler: executeTransitionHandler,
		claimTaskHandler:         claimTaskHandler,
		completeTaskHandler:      completeTaskHandler,
		releaseTaskHandler:       releaseTaskHandler,
		getOrderHandler:          getOrderHandler,
		getAllOrdersHandler:      getAllOrdersHandler,
		getQueueStatusHandler:    getQueueStatusHandler,
		getAgentClaimHandler:     getAgentClaimHandler,
		getStateMachineHandler:   getStateMachineHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	v1 := e.Group("/api/v1")
	v1.POST("/orders", s.CreateOrder)
	v1.GET("/orders", s.ListOrders)
	v1.GET("/orders/:orderID", s.GetOrder)
	v1.POST("/orders/:orderID/transitions", s.RequestTransition)
	v1.POST("/tasks/claim", s.ClaimTask)
	v1.POST("/tasks/:taskID/complete", s.CompleteTask)
	v1.POST("/tasks/release", s.ReleaseTask)
	v1.GET("/queue/status", s.QueueStatus)
	v1.GET("/state-machine", s.StateMachine)
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func errorJSON(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, ErrorResponse{Code: code, Message: message})
}

// mapError translates application errors to HTTP responses. Authorization
// failures, unknown objects, illegal transitions, and lost races each have
// their own status so clients can react without parsing messages.
func mapError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrUnauthorized):
		return errorJSON(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrObjectNotFound):
		return errorJSON(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrInvalidTransition):
		return errorJSON(ctx, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, errs.ErrConcurrencyConflict), errors.Is(err, commands.ErrClaimMismatch):
		return errorJSON(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	default:
		return errorJSON(ctx, http.StatusInternalServerError, "internal error")
	}
}

func roleFromHeader(ctx echo.Context) (task.Role, error) {
	return task.RoleFromString(ctx.Request().Header.Get(RoleHeader))
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// NewOrderRequest is the body of POST /api/v1/orders.
type NewOrderRequest struct {
	CustomerName string   `json:"customer_name"`
	Items        []string `json:"items"`
	Notes        string   `json:"notes"`
}

// CreateOrder handles POST /api/v1/orders - registers a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req NewOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid request body")
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, req.CustomerName, req.Items, req.Notes)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return mapError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"id": orderID.String()})
}

// StateChangeView is one history entry of an order.
type StateChangeView struct {
	State      string    `json:"state"`
	OccurredAt time.Time `json:"occurred_at"`
	Notes      string    `json:"notes"`
}

// OrderView is the full order representation, history included.
type OrderView struct {
	ID           string            `json:"id"`
	CustomerName string            `json:"customer_name"`
	Items        []string          `json:"items"`
	Notes        string            `json:"notes"`
	State        string            `json:"state"`
	Version      int64             `json:"version"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	History      []StateChangeView `json:"history"`
}

// GetOrder handles GET /api/v1/orders/:orderID - retrieves one order.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	resp, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapError(ctx, err)
	}

	history := make([]StateChangeView, 0, len(resp.History))
	for _, change := range resp.History {
		history = append(history, StateChangeView{
			State:      string(change.State),
			OccurredAt: change.OccurredAt,
			Notes:      change.Notes,
		})
	}

	return ctx.JSON(http.StatusOK, OrderView{
		ID:           resp.ID.String(),
		CustomerName: resp.CustomerName,
		Items:        resp.Items,
		Notes:        resp.Notes,
		State:        string(resp.State),
		Version:      resp.Version,
		CreatedAt:    resp.CreatedAt,
		UpdatedAt:    resp.UpdatedAt,
		History:      history,
	})
}

// OrderSummaryView is one row of the order listing.
type OrderSummaryView struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customer_name"`
	Items        []string  `json:"items"`
	State        string    `json:"state"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ListOrders handles GET /api/v1/orders - lists orders, newest first.
// The optional limit query parameter bounds the result.
func (s *Server) ListOrders(ctx echo.Context) error {
	limit := 0
	if raw := ctx.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return errorJSON(ctx, http.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}

	query, err := queries.NewGetAllOrdersQuery(limit)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	orders, err := s.getAllOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapError(ctx, err)
	}

	response := make([]OrderSummaryView, 0, len(orders))
	for _, o := range orders {
		response = append(response, OrderSummaryView{
			ID:           o.ID.String(),
			CustomerName: o.CustomerName,
			Items:        o.Items,
			State:        string(o.State),
			Version:      o.Version,
			CreatedAt:    o.CreatedAt,
			UpdatedAt:    o.UpdatedAt,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// TransitionRequest is the body of POST /api/v1/orders/:orderID/transitions.
type TransitionRequest struct {
	Transition string `json:"transition"`
	AgentID    string `json:"agent_id"`
	Notes      string `json:"notes"`
}

// RequestTransition handles POST /api/v1/orders/:orderID/transitions.
// On success the transition is queued as a task, not executed; the response
// carries the task id the claiming agent will later see.
func (s *Server) RequestTransition(ctx echo.Context) error {
	role, err := roleFromHeader(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "unknown role")
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("orderID"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid order id")
	}

	var req TransitionRequest
	if err = ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid request body")
	}

	taskID := kernel.NewUUID()
	cmd, err := commands.NewRequestTransitionCommand(
		taskID, orderID, order.Transition(req.Transition), role, req.AgentID, req.Notes)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.requestTransitionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return mapError(ctx, err)
	}

	return ctx.JSON(http.StatusAccepted, map[string]string{
		"task_id": taskID.String(),
		"status":  "queued",
	})
}

// ClaimRequest is the body of POST /api/v1/tasks/claim.
type ClaimRequest struct {
	AgentID string `json:"agent_id"`
}

// ClaimView describes a claimed task and its lease.
type ClaimView struct {
	TaskID     string    `json:"task_id"`
	OrderID    string    `json:"order_id"`
	Transition string    `json:"transition"`
	Role       string    `json:"role"`
	Notes      string    `json:"notes"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ClaimTask handles POST /api/v1/tasks/claim - pops and claims the oldest
// task of the caller's role. An empty queue yields 200 with a null body,
// not an error: polling nothing is normal.
func (s *Server) ClaimTask(ctx echo.Context) error {
	role, err := roleFromHeader(ctx)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "unknown role")
	}

	var req ClaimRequest
	if err = ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid request body")
	}

	cmd, err := commands.NewClaimTaskCommand(role, req.AgentID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	claim, err := s.claimTaskHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return mapError(ctx, err)
	}

	if claim == nil {
		return ctx.JSON(http.StatusOK, nil)
	}

	claimed := claim.Task()
	return ctx.JSON(http.StatusOK, ClaimView{
		TaskID:     claimed.ID().String(),
		OrderID:    claimed.OrderID().String(),
		Transition: string(claimed.Transition()),
		Role:       string(claimed.Role()),
		Notes:      claimed.Notes(),
		ExpiresAt:  claim.ExpiresAt(),
	})
}

// CompleteRequest is the body of POST /api/v1/tasks/:taskID/complete.
type CompleteRequest struct {
	AgentID string `json:"agent_id"`
	Notes   string `json:"notes"`
}

// CompleteTask handles POST /api/v1/tasks/:taskID/complete.
// Executes the claimed transition on its order, then resolves the claim.
// If the execution fails the claim is left in place, so the agent can still
// release the task back to its queue.
func (s *Server) CompleteTask(ctx echo.Context) error {
	taskID, err := kernel.UUIDFromString(ctx.Param("taskID"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid task id")
	}

	var req CompleteRequest
	if err = ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid request body")
	}

	claimQuery, err := queries.NewGetAgentClaimQuery(req.AgentID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	claim, err := s.getAgentClaimHandler.Handle(ctx.Request().Context(), claimQuery)
	if err != nil {
		return mapError(ctx, err)
	}

	if !claim.TaskID.IsEqual(taskID) {
		return mapError(ctx, commands.ErrClaimMismatch)
	}

	notes := req.Notes
	if notes == "" {
		notes = claim.Notes
	}

	executeCmd, err := commands.NewExecuteTransitionCommand(claim.OrderID, claim.Transition, notes)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.executeTransitionHandler.Handle(ctx.Request().Context(), executeCmd); err != nil {
		return mapError(ctx, err)
	}

	completeCmd, err := commands.NewCompleteTaskCommand(taskID, req.AgentID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.completeTaskHandler.Handle(ctx.Request().Context(), completeCmd); err != nil {
		return mapError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]string{
		"status":     "completed",
		"task_id":    taskID.String(),
		"order_id":   claim.OrderID.String(),
		"transition": string(claim.Transition),
	})
}

// ReleaseRequest is the body of POST /api/v1/tasks/release. The optional
// reason is recorded on the requeued task.
type ReleaseRequest struct {
	AgentID string `json:"agent_id"`
	Reason  string `json:"reason"`
}

// ReleaseTask handles POST /api/v1/tasks/release - returns the caller's
// claimed task to the tail of its queue. Releasing without a claim reports
// released=false rather than failing.
func (s *Server) ReleaseTask(ctx echo.Context) error {
	var req ReleaseRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid request body")
	}

	cmd, err := commands.NewReleaseTaskCommand(req.AgentID, req.Reason)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	released, err := s.releaseTaskHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return mapError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]bool{"released": released})
}

// QueueStatusView is the queue monitoring snapshot.
type QueueStatusView struct {
	QueuedByRole    map[string]int64 `json:"queued_by_role"`
	TotalQueued     int64            `json:"total_queued"`
	TotalProcessing int64            `json:"total_processing"`
	TotalTasks      int64            `json:"total_tasks"`
}

// QueueStatus handles GET /api/v1/queue/status.
func (s *Server) QueueStatus(ctx echo.Context) error {
	status, err := s.getQueueStatusHandler.Handle(ctx.Request().Context(), queries.NewGetQueueStatusQuery())
	if err != nil {
		return mapError(ctx, err)
	}

	queued := make(map[string]int64, len(status.QueuedByRole))
	for role, count := range status.QueuedByRole {
		queued[string(role)] = count
	}

	return ctx.JSON(http.StatusOK, QueueStatusView{
		QueuedByRole:    queued,
		TotalQueued:     status.TotalQueued,
		TotalProcessing: status.TotalProcessing,
		TotalTasks:      status.TotalTasks,
	})
}

// TransitionView describes one edge of the workflow graph.
type TransitionView struct {
	Name  string   `json:"name"`
	From  string   `json:"from"`
	To    string   `json:"to"`
	Roles []string `json:"roles"`
}

// StateMachineView is the full workflow description.
type StateMachineView struct {
	States      []string         `json:"states"`
	Initial     string           `json:"initial"`
	Terminal    []string         `json:"terminal"`
	Transitions []TransitionView `json:"transitions"`
}

// StateMachine handles GET /api/v1/state-machine - describes the workflow.
func (s *Server) StateMachine(ctx echo.Context) error {
	resp, err := s.getStateMachineHandler.Handle(ctx.Request().Context(), queries.NewGetStateMachineQuery())
	if err != nil {
		return mapError(ctx, err)
	}

	states := make([]string, 0, len(resp.States))
	for _, state := range resp.States {
		states = append(states, string(state))
	}

	terminal := make([]string, 0, len(resp.Terminal))
	for _, state := range resp.Terminal {
		terminal = append(terminal, string(state))
	}

	transitions := make([]TransitionView, 0, len(resp.Transitions))
	for _, transition := range resp.Transitions {
		roles := make([]string, 0, len(transition.Roles))
		for _, role := range transition.Roles {
			roles = append(roles, string(role))
		}

		transitions = append(transitions, TransitionView{
			Name:  string(transition.Name),
			From:  string(transition.From),
			To:    string(transition.To),
			Roles: roles,
		})
	}

	return ctx.JSON(http.StatusOK, StateMachineView{
		States:      states,
		Initial:     string(resp.Initial),
		Terminal:    terminal,
		Transitions: transitions,
	})
}

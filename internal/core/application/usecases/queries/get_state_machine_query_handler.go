package queries

import (
	"context"

	"warehouse/internal/core/domain/model/order"
	"warehouse/internal/core/domain/model/task"
)

// GetStateMachineQueryHandler answers workflow description queries.
// It needs no storage: the workflow graph and the permission table are the
// single source of truth and live in code.
type GetStateMachineQueryHandler struct {
	permissions task.Permissions
}

// NewGetStateMachineQueryHandler creates a handler for workflow queries.
func NewGetStateMachineQueryHandler(permissions task.Permissions) GetStateMachineQueryHandler {
	return GetStateMachineQueryHandler{permissions: permissions}
}

// Handle builds the workflow description.
func (h GetStateMachineQueryHandler) Handle(
	_ context.Context,
	query GetStateMachineQuery,
) (GetStateMachineQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetStateMachineQueryResponse{}, err
	}

	states := order.AllStates()

	terminal := make([]order.State, 0, 2)
	for _, state := range states {
		if state.IsTerminal() {
			terminal = append(terminal, state)
		}
	}

	edges := order.Edges()
	transitions := make([]TransitionResponse, 0, len(edges))
	for _, edge := range edges {
		transitions = append(transitions, TransitionResponse{
			Name:  edge.Name,
			From:  edge.From,
			To:    edge.To,
			Roles: h.permissions.RolesFor(edge.Name),
		})
	}

	return GetStateMachineQueryResponse{
		States:      states,
		Initial:     order.InitialState,
		Terminal:    terminal,
		Transitions: transitions,
	}, nil
}

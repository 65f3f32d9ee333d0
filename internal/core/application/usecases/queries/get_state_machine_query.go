package queries

import (
	"errors"

	"warehouse/internal/core/domain/model/order"
	"warehouse/internal/core/domain/model/task"
	"warehouse/internal/pkg/guard"
)

var ErrGetStateMachineQueryIsNotConstructed = errors.New(
	"GetStateMachineQuery must be created via NewGetStateMachineQuery constructor",
)

// GetStateMachineQuery retrieves the workflow description: every state,
// every declared transition, and the role permitted to request each.
// The answer is derived entirely from the declarative tables, so it never
// drifts from what the write path actually enforces.
type GetStateMachineQuery struct {
	guard guard.ConstructorGuard
}

// NewGetStateMachineQuery creates a query for the workflow description.
func NewGetStateMachineQuery() GetStateMachineQuery {
	return GetStateMachineQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetStateMachineQueryIsNotConstructed if validation fails.
func (q GetStateMachineQuery) Validate() error {
	return q.guard.Validate(ErrGetStateMachineQueryIsNotConstructed)
}

// TransitionResponse describes one declared edge of the workflow graph.
type TransitionResponse struct {
	Name  order.Transition
	From  order.State
	To    order.State
	Roles []task.Role
}

// GetStateMachineQueryResponse is the full workflow description.
type GetStateMachineQueryResponse struct {
	States      []order.State
	Initial     order.State
	Terminal    []order.State
	Transitions []TransitionResponse
}

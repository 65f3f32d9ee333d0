package queries

import (
	"errors"
	"time"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/order"
	"warehouse/internal/core/domain/model/task"
	"warehouse/internal/pkg/guard"
)

var ErrGetAgentClaimQueryIsNotConstructed = errors.New(
	"GetAgentClaimQuery must be created via NewGetAgentClaimQuery constructor",
)

// GetAgentClaimQuery retrieves the live claim held by one agent, if any.
// Expired claims are invisible here even before the sweeper removes them.
type GetAgentClaimQuery struct {
	agentID string

	guard guard.ConstructorGuard
}

// NewGetAgentClaimQuery creates a query for the agent's current claim.
func NewGetAgentClaimQuery(agentID string) (GetAgentClaimQuery, error) {
	if agentID == "" {
		return GetAgentClaimQuery{}, errors.New("agent id is required")
	}

	return GetAgentClaimQuery{
		agentID: agentID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetAgentClaimQueryIsNotConstructed if validation fails.
func (q GetAgentClaimQuery) Validate() error {
	return q.guard.Validate(ErrGetAgentClaimQueryIsNotConstructed)
}

// AgentID returns the identifier of the agent whose claim is fetched.
func (q GetAgentClaimQuery) AgentID() string {
	return q.agentID
}

// GetAgentClaimQueryResponse describes the claimed task and the lease on it.
type GetAgentClaimQueryResponse struct {
	TaskID     kernel.UUID
	OrderID    kernel.UUID
	Transition order.Transition
	Role       task.Role
	Notes      string
	ExpiresAt  time.Time
}

package commands

import (
	"errors"

	"warehouse/internal/core/domain/model/task"
	"warehouse/internal/pkg/guard"
)

var (
	ErrClaimTaskCommandIsNotConstructed = errors.New(
		"ClaimTaskCommand must be created via NewClaimTaskCommand constructor",
	)
	ErrAgentIDIsRequired = errors.New("agent id is required")
)

// ClaimTaskCommand represents an agent's attempt to take the oldest task
// from its role's queue under a lease.
type ClaimTaskCommand struct { //nolint:recvcheck //using for validation
	role    task.Role
	agentID string

	guard guard.ConstructorGuard
}

// NewClaimTaskCommand creates a command to claim the next task for the role.
// Validates that the role belongs to the closed enumeration and the agent id
// is not empty.
func NewClaimTaskCommand(role task.Role, agentID string) (ClaimTaskCommand, error) {
	command := ClaimTaskCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setRole(role),
		command.setAgentID(agentID),
	); err != nil {
		return ClaimTaskCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrClaimTaskCommandIsNotConstructed if validation fails.
func (c ClaimTaskCommand) Validate() error {
	return c.guard.Validate(ErrClaimTaskCommandIsNotConstructed)
}

// Role returns the role whose queue is polled.
func (c ClaimTaskCommand) Role() task.Role {
	return c.role
}

// AgentID returns the claiming agent's identifier.
func (c ClaimTaskCommand) AgentID() string {
	return c.agentID
}

func (c *ClaimTaskCommand) setRole(role task.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}

	c.role = role
	return nil
}

func (c *ClaimTaskCommand) setAgentID(agentID string) error {
	if agentID == "" {
		return ErrAgentIDIsRequired
	}

	c.agentID = agentID
	return nil
}

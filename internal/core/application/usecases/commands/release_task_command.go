package commands

import (
	"errors"

	"warehouse/internal/pkg/guard"
)

var ErrReleaseTaskCommandIsNotConstructed = errors.New(
	"ReleaseTaskCommand must be created via NewReleaseTaskCommand constructor",
)

// ReleaseTaskCommand represents an agent voluntarily giving back the task it
// holds a claim on, returning it to the tail of its role's queue. The reason
// is free text recorded on the requeued task.
type ReleaseTaskCommand struct { //nolint:recvcheck //using for validation
	agentID string
	reason  string

	guard guard.ConstructorGuard
}

// NewReleaseTaskCommand creates a command to release the agent's claim.
// Validates that the agent id is not empty; the reason may be empty.
func NewReleaseTaskCommand(agentID string, reason string) (ReleaseTaskCommand, error) {
	command := ReleaseTaskCommand{
		reason: reason,
		guard:  guard.NewConstructorGuard(),
	}

	if err := command.setAgentID(agentID); err != nil {
		return ReleaseTaskCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrReleaseTaskCommandIsNotConstructed if validation fails.
func (c ReleaseTaskCommand) Validate() error {
	return c.guard.Validate(ErrReleaseTaskCommandIsNotConstructed)
}

// AgentID returns the identifier of the agent releasing its claim.
func (c ReleaseTaskCommand) AgentID() string {
	return c.agentID
}

// Reason returns the agent's explanation for giving the task back, if any.
func (c ReleaseTaskCommand) Reason() string {
	return c.reason
}

func (c *ReleaseTaskCommand) setAgentID(agentID string) error {
	if agentID == "" {
		return ErrAgentIDIsRequired
	}

	c.agentID = agentID
	return nil
}

package commands

import (
	"errors"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/pkg/guard"
)

var ErrCompleteTaskCommandIsNotConstructed = errors.New(
	"CompleteTaskCommand must be created via NewCompleteTaskCommand constructor",
)

// CompleteTaskCommand represents an agent resolving the task it holds a
// claim on. Completion only removes the claim; the transition itself is
// executed separately before the claim is resolved.
type CompleteTaskCommand struct { //nolint:recvcheck //using for validation
	taskID  kernel.UUID
	agentID string

	guard guard.ConstructorGuard
}

// NewCompleteTaskCommand creates a command to complete a claimed task.
// Validates that the task ID is valid and the agent id is not empty.
func NewCompleteTaskCommand(taskID kernel.UUID, agentID string) (CompleteTaskCommand, error) {
	command := CompleteTaskCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setTaskID(taskID),
		command.setAgentID(agentID),
	); err != nil {
		return CompleteTaskCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCompleteTaskCommandIsNotConstructed if validation fails.
func (c CompleteTaskCommand) Validate() error {
	return c.guard.Validate(ErrCompleteTaskCommandIsNotConstructed)
}

// TaskID returns the identifier of the task being completed.
func (c CompleteTaskCommand) TaskID() kernel.UUID {
	return c.taskID
}

// AgentID returns the identifier of the agent holding the claim.
func (c CompleteTaskCommand) AgentID() string {
	return c.agentID
}

func (c *CompleteTaskCommand) setTaskID(taskID kernel.UUID) error {
	if err := taskID.Validate(); err != nil {
		return err
	}

	c.taskID = taskID
	return nil
}

func (c *CompleteTaskCommand) setAgentID(agentID string) error {
	if agentID == "" {
		return ErrAgentIDIsRequired
	}

	c.agentID = agentID
	return nil
}

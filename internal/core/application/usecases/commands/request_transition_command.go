package commands

import (
	"errors"
	"fmt"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/order"
	"warehouse/internal/core/domain/model/task"
	"warehouse/internal/pkg/guard"
)

var ErrRequestTransitionCommandIsNotConstructed = errors.New(
	"RequestTransitionCommand must be created via NewRequestTransitionCommand constructor",
)

// RequestTransitionCommand represents an agent's request to run one named
// transition on one order. A request does not mutate the order; accepted
// requests become tasks at the tail of the permitted role's queue.
//
// Example:
//
//	cmd, err := NewRequestTransitionCommand(
//	    kernel.NewUUID(), orderID, order.Confirm, task.Fulfillment, "agent-7", "")
//	if err != nil {
//	    return fmt.Errorf("invalid transition request: %w", err)
//	}
//
//	handler := NewRequestTransitionCommandHandler(uowFactory, task.NewPermissions())
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("transition request rejected: %w", err)
//	}
type RequestTransitionCommand struct { //nolint:recvcheck //using for validation
	taskID     kernel.UUID
	orderID    kernel.UUID
	transition order.Transition
	role       task.Role
	agentID    string
	notes      string

	guard guard.ConstructorGuard
}

// NewRequestTransitionCommand creates a command to request a transition.
// Validates that both identifiers are valid, the transition is a declared
// edge of the workflow graph, and the role belongs to the closed enumeration.
func NewRequestTransitionCommand(
	taskID kernel.UUID,
	orderID kernel.UUID,
	transition order.Transition,
	role task.Role,
	agentID string,
	notes string,
) (RequestTransitionCommand, error) {
	command := RequestTransitionCommand{
		agentID: agentID,
		notes:   notes,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setTaskID(taskID),
		command.setOrderID(orderID),
		command.setTransition(transition),
		command.setRole(role),
	); err != nil {
		return RequestTransitionCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRequestTransitionCommandIsNotConstructed if validation fails.
func (c RequestTransitionCommand) Validate() error {
	return c.guard.Validate(ErrRequestTransitionCommandIsNotConstructed)
}

// TaskID returns the identifier assigned to the task to be enqueued.
func (c RequestTransitionCommand) TaskID() kernel.UUID {
	return c.taskID
}

// OrderID returns the identifier of the order to transition.
func (c RequestTransitionCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Transition returns the name of the requested transition.
func (c RequestTransitionCommand) Transition() order.Transition {
	return c.transition
}

// Role returns the role of the requesting agent.
func (c RequestTransitionCommand) Role() task.Role {
	return c.role
}

// AgentID returns the identifier of the requesting agent, if any.
func (c RequestTransitionCommand) AgentID() string {
	return c.agentID
}

// Notes returns the free-text notes attached to the request.
func (c RequestTransitionCommand) Notes() string {
	return c.notes
}

func (c *RequestTransitionCommand) setTaskID(taskID kernel.UUID) error {
	if err := taskID.Validate(); err != nil {
		return err
	}

	c.taskID = taskID
	return nil
}

func (c *RequestTransitionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

// An unknown name is an invalid transition, same as an edge that does not
// start at the order's current state.
func (c *RequestTransitionCommand) setTransition(transition order.Transition) error {
	if _, ok := order.Lookup(transition); !ok {
		return fmt.Errorf("%w: unknown transition %q", order.ErrInvalidTransition, string(transition))
	}

	c.transition = transition
	return nil
}

func (c *RequestTransitionCommand) setRole(role task.Role) error {
	if err := role.Validate(); err != nil {
		return err
	}

	c.role = role
	return nil
}

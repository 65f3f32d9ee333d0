package commands

import (
	"errors"
	"fmt"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/order"
	"warehouse/internal/pkg/guard"
)

var ErrExecuteTransitionCommandIsNotConstructed = errors.New(
	"ExecuteTransitionCommand must be created via NewExecuteTransitionCommand constructor",
)

// ExecuteTransitionCommand represents the actual state change of one order
// along one declared transition. Unlike a transition request it mutates the
// order; it is issued when an agent completes a claimed task.
type ExecuteTransitionCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	transition order.Transition
	notes      string

	guard guard.ConstructorGuard
}

// NewExecuteTransitionCommand creates a command to execute a transition.
// Validates that the order ID is valid and the transition is a declared edge.
func NewExecuteTransitionCommand(
	orderID kernel.UUID,
	transition order.Transition,
	notes string,
) (ExecuteTransitionCommand, error) {
	command := ExecuteTransitionCommand{
		notes: notes,
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		command.setOrderID(orderID),
		command.setTransition(transition),
	); err != nil {
		return ExecuteTransitionCommand{}, err
	}

	return command, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrExecuteTransitionCommandIsNotConstructed if validation fails.
func (c ExecuteTransitionCommand) Validate() error {
	return c.guard.Validate(ErrExecuteTransitionCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to transition.
func (c ExecuteTransitionCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Transition returns the name of the transition to execute.
func (c ExecuteTransitionCommand) Transition() order.Transition {
	return c.transition
}

// Notes returns the free-text annotation for the resulting history entry.
func (c ExecuteTransitionCommand) Notes() string {
	return c.notes
}

func (c *ExecuteTransitionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

// An unknown name is an invalid transition, same as an edge that does not
// start at the order's current state.
func (c *ExecuteTransitionCommand) setTransition(transition order.Transition) error {
	if _, ok := order.Lookup(transition); !ok {
		return fmt.Errorf("%w: unknown transition %q", order.ErrInvalidTransition, string(transition))
	}

	c.transition = transition
	return nil
}

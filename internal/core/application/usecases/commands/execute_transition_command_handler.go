package commands

import (
	"context"
)

// ExecuteTransitionCommandHandler is the transition coordinator. It moves an
// order along one edge of the workflow graph using an optimistic read-
// validate-write cycle: read the order with its version, re-check legality
// against the state just read, apply the transition in memory, and persist
// with a write conditional on that version.
//
// Legality is always judged against the freshly read state, never against
// whatever the caller saw earlier. Two agents racing to transition the same
// order both read the same version but only the first conditional write
// lands; the loser gets errs.ConcurrencyConflictError and the order reflects
// exactly one of the two transitions.
type ExecuteTransitionCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewExecuteTransitionCommandHandler creates the transition coordinator.
// Requires an OrderUoWFactory for transactional persistence.
func NewExecuteTransitionCommandHandler(uowFactory OrderUoWFactory) ExecuteTransitionCommandHandler {
	return ExecuteTransitionCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the transition execution command.
// Returns errs.ObjectNotFoundError when the order does not exist,
// order.ErrInvalidTransition when the edge is not legal from the order's
// current state, and errs.ConcurrencyConflictError when a concurrent writer
// changed the order between read and write. On any error the order is left
// unchanged.
func (h ExecuteTransitionCommandHandler) Handle(ctx context.Context, cmd ExecuteTransitionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.ApplyTransition(cmd.Transition(), cmd.Notes()); err != nil {
		return err
	}

	if err = orderRepo.UpdateWithVersion(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

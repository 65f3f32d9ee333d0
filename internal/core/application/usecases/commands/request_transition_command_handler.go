package commands

import (
	"context"

	"warehouse/internal/core/domain/model/order"
	"warehouse/internal/core/domain/model/task"
	"warehouse/internal/pkg/errs"
)

// RequestTransitionCommandHandler validates a transition request and, when
// accepted, enqueues a task for the permitted role.
//
// Checks run in a fixed sequence: authorization first, then order existence,
// then legality against the order's current state. Authorization never
// depends on state, so an agent of the wrong role is rejected even for a
// transition that would also be illegal right now.
type RequestTransitionCommandHandler struct {
	uowFactory  UoWFactory
	permissions task.Permissions
}

// NewRequestTransitionCommandHandler creates a handler for transition requests.
// Requires a UoWFactory spanning orders and task queues, and the permission
// table to authorize against.
func NewRequestTransitionCommandHandler(
	uowFactory UoWFactory,
	permissions task.Permissions,
) RequestTransitionCommandHandler {
	return RequestTransitionCommandHandler{
		uowFactory:  uowFactory,
		permissions: permissions,
	}
}

// Handle processes the transition request.
// On success the task sits at the tail of its role's queue and the order is
// untouched. Returns errs.UnauthorizedError when the role is not permitted,
// errs.ObjectNotFoundError when the order does not exist, and
// order.ErrInvalidTransition when the transition is not legal from the
// order's current state.
func (h RequestTransitionCommandHandler) Handle(ctx context.Context, cmd RequestTransitionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if !h.permissions.IsPermitted(cmd.Role(), cmd.Transition()) {
		return errs.NewUnauthorizedError(string(cmd.Role()), string(cmd.Transition()))
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if _, err = order.Apply(aggregate.State(), cmd.Transition()); err != nil {
		return err
	}

	queued, err := task.NewTask(
		cmd.TaskID(),
		cmd.OrderID(),
		cmd.Transition(),
		cmd.Role(),
		cmd.AgentID(),
		cmd.Notes(),
	)
	if err != nil {
		return err
	}

	if err = uow.TaskRepository().Enqueue(ctx, queued); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

package commands

import (
	"context"
	"errors"

	"warehouse/internal/core/domain/model/task"
	"warehouse/internal/pkg/errs"
)

// ReleaseTaskCommandHandler gives a claimed task back to its queue. The
// claim is removed and the task re-enqueued at the tail, losing its original
// position; both happen in one transaction so the task is never observable
// as neither queued nor claimed.
//
// Releasing without a live claim is a no-op, not an error. This is the only
// path that returns a task to a queue; lease expiry does not.
type ReleaseTaskCommandHandler struct {
	uowFactory TaskUoWFactory
}

// NewReleaseTaskCommandHandler creates a handler for task release.
// Requires a TaskUoWFactory for transactional requeueing.
func NewReleaseTaskCommandHandler(uowFactory TaskUoWFactory) ReleaseTaskCommandHandler {
	return ReleaseTaskCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the release command.
// Reports whether a live claim was actually released.
func (h ReleaseTaskCommandHandler) Handle(ctx context.Context, cmd ReleaseTaskCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	taskRepo := uow.TaskRepository()

	claim, err := taskRepo.GetClaim(ctx, cmd.AgentID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err = taskRepo.DeleteClaim(ctx, cmd.AgentID()); err != nil {
		return false, err
	}

	// The release reason replaces the task's notes so the next claimant
	// sees why it came back.
	released := claim.Task()
	if cmd.Reason() != "" {
		released, err = task.RestoreTask(
			released.ID(),
			released.OrderID(),
			released.Transition(),
			released.Role(),
			released.AgentID(),
			cmd.Reason(),
			released.CreatedAt(),
		)
		if err != nil {
			return false, err
		}
	}

	if err = taskRepo.Enqueue(ctx, released); err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	return true, nil
}

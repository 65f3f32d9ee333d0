package commands

import (
	"context"
	"errors"
)

// ErrClaimMismatch is returned when the agent holds a live claim, but on a
// different task than the one it is trying to resolve.
var ErrClaimMismatch = errors.New("claim is held on a different task")

// CompleteTaskCommandHandler resolves a claimed task by removing the claim.
// The task does not return to any queue: completion is terminal.
//
// The handler re-reads the claim inside its own transaction rather than
// trusting the caller, so a claim that expired or was swept between the
// caller's read and this command is reported as not found.
type CompleteTaskCommandHandler struct {
	uowFactory TaskUoWFactory
}

// NewCompleteTaskCommandHandler creates a handler for task completion.
// Requires a TaskUoWFactory for transactional claim removal.
func NewCompleteTaskCommandHandler(uowFactory TaskUoWFactory) CompleteTaskCommandHandler {
	return CompleteTaskCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the completion command.
// Returns errs.ObjectNotFoundError when the agent holds no live claim and
// ErrClaimMismatch when the claim is on a different task.
func (h CompleteTaskCommandHandler) Handle(ctx context.Context, cmd CompleteTaskCommand) error {
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

	taskRepo := uow.TaskRepository()

	claim, err := taskRepo.GetClaim(ctx, cmd.AgentID())
	if err != nil {
		return err
	}

	if !claim.Task().ID().IsEqual(cmd.TaskID()) {
		return ErrClaimMismatch
	}

	if err = taskRepo.DeleteClaim(ctx, cmd.AgentID()); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

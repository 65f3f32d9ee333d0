package commands

import (
	"context"
	"time"

	"warehouse/internal/core/domain/model/task"
)

// ClaimTaskCommandHandler pops the oldest task from a role's queue and
// records a claim for the calling agent, atomically. Under concurrent
// claimers each queued task is handed out exactly once; the removal from
// the queue and the claim record commit together or not at all.
type ClaimTaskCommandHandler struct {
	uowFactory TaskUoWFactory
	lease      time.Duration
}

// NewClaimTaskCommandHandler creates a handler for task claiming.
// lease bounds how long the agent may hold the claimed task.
func NewClaimTaskCommandHandler(uowFactory TaskUoWFactory, lease time.Duration) ClaimTaskCommandHandler {
	return ClaimTaskCommandHandler{
		uowFactory: uowFactory,
		lease:      lease,
	}
}

// Handle processes the claim attempt.
// Returns the claim on success and nil without error when the role's queue
// is empty: an empty queue is an expected outcome of polling, not a failure.
func (h ClaimTaskCommandHandler) Handle(ctx context.Context, cmd ClaimTaskCommand) (*task.Claim, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	claim, err := uow.TaskRepository().ClaimNext(ctx, cmd.Role(), cmd.AgentID(), h.lease)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return claim, nil
}

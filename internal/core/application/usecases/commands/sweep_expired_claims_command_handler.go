package commands

import (
	"context"
	"time"
)

// SweepExpiredClaimsCommandHandler deletes claims whose leases have run out.
//
// Swept tasks are NOT returned to their queues; they leave the system
// entirely. Readers already treat expired claims as absent, so the sweep
// only reclaims storage and never changes observable behavior.
type SweepExpiredClaimsCommandHandler struct {
	uowFactory TaskUoWFactory
}

// NewSweepExpiredClaimsCommandHandler creates a handler for lease sweeps.
// Requires a TaskUoWFactory for transactional claim removal.
func NewSweepExpiredClaimsCommandHandler(uowFactory TaskUoWFactory) SweepExpiredClaimsCommandHandler {
	return SweepExpiredClaimsCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes one sweep pass and reports how many claims were removed.
func (h SweepExpiredClaimsCommandHandler) Handle(
	ctx context.Context,
	cmd SweepExpiredClaimsCommand,
) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	swept, err := uow.TaskRepository().DeleteExpiredClaims(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return swept, nil
}

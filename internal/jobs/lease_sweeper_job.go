package jobs

import (
	"context"
	"log/slog"

	"warehouse/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// LeaseSweeperJob periodically deletes claims whose leases have run out.
// Runs every ten seconds; swept tasks are not requeued.
type LeaseSweeperJob struct {
	handler commands.SweepExpiredClaimsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewLeaseSweeperJob creates a new job for sweeping expired claims.
// Uses SweepExpiredClaimsCommandHandler to remove stale claim records.
func NewLeaseSweeperJob(handler commands.SweepExpiredClaimsCommandHandler, logger *slog.Logger) *LeaseSweeperJob {
	return &LeaseSweeperJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "lease_sweeper_job"),
	}
}

// Start begins the lease sweeper job to run every ten seconds.
func (j *LeaseSweeperJob) Start() error {
	_, err := j.cron.AddFunc("*/10 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewSweepExpiredClaimsCommand()

		swept, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Lease sweep failed", "error", err)
			return
		}

		if swept > 0 {
			j.logger.InfoContext(ctx, "Swept expired claims", "count", swept)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Lease sweeper job started (running every ten seconds)")
	return nil
}

// Stop stops the lease sweeper job.
func (j *LeaseSweeperJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Lease sweeper job stopped")
}

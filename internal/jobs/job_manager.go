package jobs

import (
	"fmt"
	"log/slog"

	"warehouse/internal/core/application/usecases/commands"
	"warehouse/internal/core/application/usecases/queries"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	leaseSweeperJob *LeaseSweeperJob
	queueMonitorJob *QueueMonitorJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes handlers as dependencies to wire up the job execution.
func NewJobManager(
	sweepHandler commands.SweepExpiredClaimsCommandHandler,
	queueStatusHandler queries.GetQueueStatusQueryHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		leaseSweeperJob: NewLeaseSweeperJob(sweepHandler, logger),
		queueMonitorJob: NewQueueMonitorJob(queueStatusHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.leaseSweeperJob.Start(); err != nil {
		return fmt.Errorf("failed to start lease sweeper job: %w", err)
	}

	if err := jm.queueMonitorJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.leaseSweeperJob.Stop()
		return fmt.Errorf("failed to start queue monitor job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.queueMonitorJob.Stop()
	jm.leaseSweeperJob.Stop()
}

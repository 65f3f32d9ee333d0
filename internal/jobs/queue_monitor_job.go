package jobs

import (
	"context"
	"log/slog"

	"warehouse/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

// QueueMonitorJob periodically logs queue depths and in-flight claim counts.
// Runs every thirty seconds to give operators a heartbeat of queue health.
type QueueMonitorJob struct {
	handler queries.GetQueueStatusQueryHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewQueueMonitorJob creates a new job for queue monitoring.
// Uses GetQueueStatusQueryHandler to read the snapshot it logs.
func NewQueueMonitorJob(handler queries.GetQueueStatusQueryHandler, logger *slog.Logger) *QueueMonitorJob {
	return &QueueMonitorJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "queue_monitor_job"),
	}
}

// Start begins the queue monitor job to run every thirty seconds.
func (j *QueueMonitorJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		ctx := context.Background()
		query := queries.NewGetQueueStatusQuery()

		status, err := j.handler.Handle(ctx, query)
		if err != nil {
			j.logger.ErrorContext(ctx, "Queue status read failed", "error", err)
			return
		}

		attrs := []any{
			"total_queued", status.TotalQueued,
			"total_processing", status.TotalProcessing,
			"total_tasks", status.TotalTasks,
		}
		for role, count := range status.QueuedByRole {
			attrs = append(attrs, "queued_"+string(role), count)
		}

		j.logger.InfoContext(ctx, "Queue status", attrs...)
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Queue monitor job started (running every thirty seconds)")
	return nil
}

// Stop stops the queue monitor job.
func (j *QueueMonitorJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Queue monitor job stopped")
}

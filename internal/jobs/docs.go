// Package jobs provides scheduled background tasks for the warehouse system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the warehouse service.
//
// # Available Jobs
//
// 1. LeaseSweeperJob - Runs every ten seconds to delete claims whose leases have expired
// 2. QueueMonitorJob - Runs every thirty seconds to log queue depths and in-flight claims
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(sweepHandler, queueStatusHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Lease Expiry
//
// The sweeper deletes expired claims without returning their tasks to any
// queue. Readers already ignore expired claims, so a task whose lease ran
// out is unreachable from the moment of expiry regardless of when the next
// sweep happens to run.
//
// # Error Handling
//
// - Sweeper and monitor log all errors; neither stops on failure
// - Failed job starts will stop any already running jobs
package jobs

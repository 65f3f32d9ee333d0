package ports

import (
	"context"
	"time"

	"warehouse/internal/core/domain/model/task"
)

// TaskRepository defines the persistence contract for the per-role task
// queues and the claims agents hold on popped tasks.
//
// The queue is strictly FIFO within a role. A task is either queued,
// claimed, or gone; ClaimNext is the only way a task leaves its queue and
// it hands the task to exactly one agent even under concurrent callers.
type TaskRepository interface {
	// Enqueue appends the task to the tail of its role's queue.
	Enqueue(ctx context.Context, t task.Task) error

	// ClaimNext atomically pops the oldest task from the role's queue and
	// records a claim for agentID expiring after the lease duration.
	// Returns nil without error when the queue is empty.
	ClaimNext(ctx context.Context, role task.Role, agentID string, lease time.Duration) (*task.Claim, error)

	// GetClaim retrieves the claim currently held by agentID.
	// A claim whose lease has expired is treated as absent.
	// Returns errs.ObjectNotFoundError when the agent holds no live claim.
	GetClaim(ctx context.Context, agentID string) (*task.Claim, error)

	// DeleteClaim removes the agent's claim record. The claimed task is not
	// returned to its queue; callers that want the task back must Enqueue
	// it again themselves.
	DeleteClaim(ctx context.Context, agentID string) error

	// CountQueued returns the number of tasks waiting in the role's queue.
	CountQueued(ctx context.Context, role task.Role) (int64, error)

	// CountClaimed returns the number of live (unexpired) claims.
	CountClaimed(ctx context.Context) (int64, error)

	// DeleteExpiredClaims removes every claim whose lease ran out at or
	// before now and reports how many were removed. The claimed tasks are
	// not requeued.
	DeleteExpiredClaims(ctx context.Context, now time.Time) (int64, error)
}

package queries

import (
	"errors"

	"warehouse/internal/core/domain/model/task"
	"warehouse/internal/pkg/guard"
)

var (
	ErrGetQueueStatusQueryIsNotConstructed = errors.New(
		"GetQueueStatusQuery must be created via NewGetQueueStatusQuery constructor",
	)
)

// GetQueueStatusQuery retrieves a point-in-time snapshot of queue depths and
// in-flight claims for operational monitoring.
//
// Example:
//
//	query := NewGetQueueStatusQuery()
//	handler := NewGetQueueStatusQueryHandler(db)
//
//	status, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get queue status: %w", err)
//	}
//	fmt.Printf("%d queued, %d processing\n", status.TotalQueued, status.TotalProcessing)
type GetQueueStatusQuery struct {
	guard guard.ConstructorGuard
}

// NewGetQueueStatusQuery creates a query for the queue snapshot.
// This is a parameterless query covering every role's queue.
func NewGetQueueStatusQuery() GetQueueStatusQuery {
	return GetQueueStatusQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetQueueStatusQueryIsNotConstructed if validation fails.
func (q GetQueueStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetQueueStatusQueryIsNotConstructed)
}

// GetQueueStatusQueryResponse is the queue snapshot. Counts are read in one
// statement so the snapshot is internally consistent; expired claims are
// excluded from TotalProcessing.
type GetQueueStatusQueryResponse struct {
	QueuedByRole    map[task.Role]int64
	TotalQueued     int64
	TotalProcessing int64
	TotalTasks      int64
}

package queries

import (
	"context"
	"time"

	"warehouse/internal/core/domain/model/task"

	"gorm.io/gorm"
)

// GetQueueStatusQueryHandler computes the queue snapshot from the database.
type GetQueueStatusQueryHandler struct {
	db *gorm.DB
}

// NewGetQueueStatusQueryHandler creates a handler for queue status queries.
// Requires a GORM database connection for query execution.
func NewGetQueueStatusQueryHandler(db *gorm.DB) GetQueueStatusQueryHandler {
	return GetQueueStatusQueryHandler{db: db}
}

// Handle executes the snapshot query.
// Every declared role appears in QueuedByRole, with zero for empty queues.
func (h GetQueueStatusQueryHandler) Handle(
	ctx context.Context,
	query GetQueueStatusQuery,
) (GetQueueStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetQueueStatusQueryResponse{}, err
	}

	resp := GetQueueStatusQueryResponse{
		QueuedByRole: make(map[task.Role]int64, len(task.AllRoles())),
	}
	for _, role := range task.AllRoles() {
		resp.QueuedByRole[role] = 0
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT role, COUNT(*)
		FROM queued_tasks
		GROUP BY role
	`).Rows()
	if err != nil {
		return GetQueueStatusQueryResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			role  string
			count int64
		)
		if err = rows.Scan(&role, &count); err != nil {
			return GetQueueStatusQueryResponse{}, err
		}

		resp.QueuedByRole[task.Role(role)] = count
		resp.TotalQueued += count
	}

	if err = rows.Err(); err != nil {
		return GetQueueStatusQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM task_claims
		WHERE expires_at > ?
	`, time.Now().UTC()).Row()

	if err = row.Scan(&resp.TotalProcessing); err != nil {
		return GetQueueStatusQueryResponse{}, err
	}

	resp.TotalTasks = resp.TotalQueued + resp.TotalProcessing
	return resp, nil
}

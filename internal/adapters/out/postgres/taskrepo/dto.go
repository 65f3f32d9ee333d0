// Package taskrepo persists the per-role task queues and claims.
// A queued task and a claimed task live in different tables: claiming moves
// the row from queued_tasks to task_claims in one transaction, which is what
// makes the hand-off exactly-once.
package taskrepo

import (
	"time"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/order"
	"warehouse/internal/core/domain/model/task"

	"github.com/google/uuid"
)

// QueuedTaskDTO represents one task waiting in its role's queue.
// The bigserial position preserves arrival order: claiming always takes the
// lowest position for the role, and a released task gets a fresh position,
// putting it at the tail.
type QueuedTaskDTO struct {
	Position   int64     `gorm:"primaryKey;autoIncrement"`
	ID         uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null"`
	Transition string    `gorm:"not null"`
	Role       string    `gorm:"index;not null"`
	AgentID    string
	Notes      string
	CreatedAt  time.Time `gorm:"autoCreateTime:false"`
}

// TableName specifies the database table name for queued tasks.
func (QueuedTaskDTO) TableName() string {
	return "queued_tasks"
}

// ClaimDTO represents one agent's claim on a task. The task payload is
// carried along because the queued_tasks row is gone once claimed. An agent
// holds at most one claim; expiry is judged against expires_at by readers,
// so a stale row behaves as absent even before the sweeper deletes it.
type ClaimDTO struct {
	AgentID       string    `gorm:"primaryKey"`
	TaskID        uuid.UUID `gorm:"type:uuid;not null"`
	OrderID       uuid.UUID `gorm:"type:uuid;not null"`
	Transition    string    `gorm:"not null"`
	Role          string    `gorm:"not null"`
	RequestedBy   string
	Notes         string
	TaskCreatedAt time.Time `gorm:"autoCreateTime:false"`
	ExpiresAt     time.Time `gorm:"index;not null"`
}

// TableName specifies the database table name for claims.
func (ClaimDTO) TableName() string {
	return "task_claims"
}

func fromDomain(t task.Task) QueuedTaskDTO {
	return QueuedTaskDTO{
		ID:         t.ID().Bytes(),
		OrderID:    t.OrderID().Bytes(),
		Transition: string(t.Transition()),
		Role:       string(t.Role()),
		AgentID:    t.AgentID(),
		Notes:      t.Notes(),
		CreatedAt:  t.CreatedAt(),
	}
}

func claimFromDomain(c task.Claim) ClaimDTO {
	claimed := c.Task()
	return ClaimDTO{
		AgentID:       c.AgentID(),
		TaskID:        claimed.ID().Bytes(),
		OrderID:       claimed.OrderID().Bytes(),
		Transition:    string(claimed.Transition()),
		Role:          string(claimed.Role()),
		RequestedBy:   claimed.AgentID(),
		Notes:         claimed.Notes(),
		TaskCreatedAt: claimed.CreatedAt(),
		ExpiresAt:     c.ExpiresAt(),
	}
}

func claimToDomain(dto ClaimDTO) (*task.Claim, error) {
	taskID, err := kernel.UUIDFromBytes(dto.TaskID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	claimed, err := task.RestoreTask(
		taskID,
		orderID,
		order.Transition(dto.Transition),
		task.Role(dto.Role),
		dto.RequestedBy,
		dto.Notes,
		dto.TaskCreatedAt,
	)
	if err != nil {
		return nil, err
	}

	claim, err := task.RestoreClaim(dto.AgentID, claimed, dto.ExpiresAt)
	if err != nil {
		return nil, err
	}

	return &claim, nil
}

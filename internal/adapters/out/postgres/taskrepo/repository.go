package taskrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/order"
	"warehouse/internal/core/domain/model/task"
	"warehouse/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository implements TaskRepository using GORM.
//
// ClaimNext relies on running inside the unit of work's transaction: the
// FOR UPDATE SKIP LOCKED pop and the claim insert must commit together.
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GORM task repository.
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// Enqueue appends the task to the tail of its role's queue.
// The position column is assigned by the database, so re-enqueueing a
// released task naturally places it behind everything already waiting.
func (r *GormTaskRepository) Enqueue(ctx context.Context, t task.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}

	dto := fromDomain(t)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ClaimNext atomically pops the oldest task for the role and claims it for
// agentID. SKIP LOCKED makes concurrent claimers pass over rows another
// transaction is already popping instead of blocking on them, so two agents
// polling the same queue never receive the same task.
// Returns nil without error when the queue is empty.
//
// agent_id keys the claim table, so claiming replaces whatever claim the
// agent already holds — expired or live. A task under a replaced live claim
// is discarded, the same way the system this one replaces overwrote the
// agent's claim key.
func (r *GormTaskRepository) ClaimNext(
	ctx context.Context,
	role task.Role,
	agentID string,
	lease time.Duration,
) (*task.Claim, error) {
	if err := role.Validate(); err != nil {
		return nil, err
	}
	if agentID == "" {
		return nil, errs.NewValueIsRequiredError("agentID")
	}

	row := r.db.WithContext(ctx).Raw(`
		DELETE FROM queued_tasks
		WHERE position = (
			SELECT position
			FROM queued_tasks
			WHERE role = ?
			ORDER BY position
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, order_id, transition, role, agent_id, notes, created_at
	`, string(role)).Row()

	var (
		id          uuid.UUID
		orderID     uuid.UUID
		transition  string
		taskRole    string
		requestedBy string
		notes       string
		createdAt   time.Time
	)

	err := row.Scan(&id, &orderID, &transition, &taskRole, &requestedBy, &notes, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	taskID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}
	taskOrderID, err := kernel.UUIDFromBytes(orderID[:])
	if err != nil {
		return nil, err
	}

	claimed, err := task.RestoreTask(
		taskID,
		taskOrderID,
		order.Transition(transition),
		task.Role(taskRole),
		requestedBy,
		notes,
		createdAt,
	)
	if err != nil {
		return nil, err
	}

	claim, err := task.NewClaim(agentID, claimed, lease)
	if err != nil {
		return nil, err
	}

	// Any leftover claim by the same agent is overwritten, live ones
	// included; see the method comment.
	dto := claimFromDomain(claim)
	if err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&dto).Error; err != nil {
		return nil, err
	}

	return &claim, nil
}

// GetClaim retrieves the live claim held by agentID.
// Returns errs.ObjectNotFoundError when there is none or the lease ran out.
func (r *GormTaskRepository) GetClaim(ctx context.Context, agentID string) (*task.Claim, error) {
	if agentID == "" {
		return nil, errs.NewValueIsRequiredError("agentID")
	}

	var dto ClaimDTO
	err := r.db.WithContext(ctx).
		First(&dto, "agent_id = ? AND expires_at > ?", agentID, time.Now().UTC()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("agentID", agentID)
	}
	if err != nil {
		return nil, err
	}

	return claimToDomain(dto)
}

// DeleteClaim removes the agent's claim record. The claimed task is not
// returned to any queue.
func (r *GormTaskRepository) DeleteClaim(ctx context.Context, agentID string) error {
	if agentID == "" {
		return errs.NewValueIsRequiredError("agentID")
	}

	return r.db.WithContext(ctx).Delete(&ClaimDTO{}, "agent_id = ?", agentID).Error
}

// CountQueued returns the number of tasks waiting in the role's queue.
func (r *GormTaskRepository) CountQueued(ctx context.Context, role task.Role) (int64, error) {
	if err := role.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&QueuedTaskDTO{}).
		Where("role = ?", string(role)).
		Count(&count).Error
	return count, err
}

// CountClaimed returns the number of live claims.
func (r *GormTaskRepository) CountClaimed(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ClaimDTO{}).
		Where("expires_at > ?", time.Now().UTC()).
		Count(&count).Error
	return count, err
}

// DeleteExpiredClaims removes every claim whose lease ran out at or before
// now. The claimed tasks are not requeued; once the lease is gone the task
// is gone with it.
func (r *GormTaskRepository) DeleteExpiredClaims(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&ClaimDTO{}, "expires_at <= ?", now)
	return result.RowsAffected, result.Error
}

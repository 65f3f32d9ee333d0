package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAgentClaimQueryHandler retrieves an agent's live claim from the database.
type GetAgentClaimQueryHandler struct {
	db *gorm.DB
}

// NewGetAgentClaimQueryHandler creates a handler for agent claim queries.
// Requires a GORM database connection for query execution.
func NewGetAgentClaimQueryHandler(db *gorm.DB) GetAgentClaimQueryHandler {
	return GetAgentClaimQueryHandler{db: db}
}

// Handle executes the claim lookup.
// Returns errs.ObjectNotFoundError when the agent holds no claim or the
// claim's lease has already run out.
func (h GetAgentClaimQueryHandler) Handle(
	ctx context.Context,
	query GetAgentClaimQuery,
) (GetAgentClaimQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetAgentClaimQueryResponse{}, err
	}

	var (
		taskID  uuid.UUID
		orderID uuid.UUID
		resp    GetAgentClaimQueryResponse
	)

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			task_id,
			order_id,
			transition,
			role,
			notes,
			expires_at
		FROM task_claims
		WHERE agent_id = ? AND expires_at > ?
	`, query.AgentID(), time.Now().UTC()).Row()

	err := row.Scan(
		&taskID,
		&orderID,
		&resp.Transition,
		&resp.Role,
		&resp.Notes,
		&resp.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetAgentClaimQueryResponse{}, errs.NewObjectNotFoundError("agentID", query.AgentID())
	}
	if err != nil {
		return GetAgentClaimQueryResponse{}, err
	}

	if resp.TaskID, err = kernel.UUIDFromBytes(taskID[:]); err != nil {
		return GetAgentClaimQueryResponse{}, err
	}
	if resp.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
		return GetAgentClaimQueryResponse{}, err
	}

	return resp, nil
}

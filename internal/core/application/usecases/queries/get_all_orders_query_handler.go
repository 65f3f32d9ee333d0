package queries

import (
	"context"

	"warehouse/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GetAllOrdersQueryHandler retrieves the order listing from the database.
type GetAllOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetAllOrdersQueryHandler creates a handler for order listing queries.
// Requires a GORM database connection for query execution.
func NewGetAllOrdersQueryHandler(db *gorm.DB) GetAllOrdersQueryHandler {
	return GetAllOrdersQueryHandler{db: db}
}

// Handle executes the listing query.
// Orders come back newest first; ties on creation time break by id so the
// ordering is stable.
func (h GetAllOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetAllOrdersQuery,
) ([]GetAllOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	// Postgres rejects a negative LIMIT, so an unbounded listing must omit
	// the clause instead of binding a sentinel.
	sql := `
		SELECT
			id,
			customer_name,
			items,
			state,
			version,
			created_at,
			updated_at
		FROM orders
		ORDER BY created_at DESC, id
	`
	args := make([]any, 0, 1)
	if query.Limit() > 0 {
		sql += ` LIMIT ?`
		args = append(args, query.Limit())
	}

	orders := make([]GetAllOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderResp GetAllOrdersQueryResponse
			id        uuid.UUID
			items     pq.StringArray
		)

		err = rows.Scan(
			&id,
			&orderResp.CustomerName,
			&items,
			&orderResp.State,
			&orderResp.Version,
			&orderResp.CreatedAt,
			&orderResp.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		orderResp.ID = orderID
		orderResp.Items = items

		orders = append(orders, orderResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

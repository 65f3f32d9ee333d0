package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/order"
	"warehouse/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// historyEntryRow is the JSON shape of one history entry as stored in the
// orders.history column.
type historyEntryRow struct {
	State      string    `json:"state"`
	OccurredAt time.Time `json:"occurred_at"`
	Notes      string    `json:"notes"`
}

// GetOrderQueryHandler retrieves a single order from the database.
//
// Example:
//
//	handler := NewGetOrderQueryHandler(db)
//	query, _ := NewGetOrderQuery(orderID)
//
//	resp, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    log.Printf("No such order %s", orderID)
//	    return err
//	}
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order queries.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query.
// Returns errs.ObjectNotFoundError when the order does not exist.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var (
		id          uuid.UUID
		items       pq.StringArray
		historyJSON []byte
		resp        GetOrderQueryResponse
	)

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_name,
			items,
			notes,
			state,
			version,
			created_at,
			updated_at,
			history
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	err := row.Scan(
		&id,
		&resp.CustomerName,
		&items,
		&resp.Notes,
		&resp.State,
		&resp.Version,
		&resp.CreatedAt,
		&resp.UpdatedAt,
		&historyJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("orderID", query.OrderID())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.ID = orderID
	resp.Items = items

	var entries []historyEntryRow
	if err = json.Unmarshal(historyJSON, &entries); err != nil {
		return GetOrderQueryResponse{}, err
	}

	resp.History = make([]StateChangeResponse, 0, len(entries))
	for _, entry := range entries {
		resp.History = append(resp.History, StateChangeResponse{
			State:      order.State(entry.State),
			OccurredAt: entry.OccurredAt,
			Notes:      entry.Notes,
		})
	}

	return resp, nil
}

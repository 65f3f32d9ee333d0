package queries

import (
	"errors"
	"time"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/order"
	"warehouse/internal/pkg/guard"
)

var (
	ErrGetAllOrdersQueryIsNotConstructed = errors.New(
		"GetAllOrdersQuery must be created via NewGetAllOrdersQuery constructor",
	)
	ErrLimitIsInvalid = errors.New("limit must not be negative")
)

// GetAllOrdersQuery retrieves a bounded listing of orders, newest first.
// A zero limit means no bound.
//
// Example:
//
//	query, _ := NewGetAllOrdersQuery(50)
//	handler := NewGetAllOrdersQueryHandler(db)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to list orders: %w", err)
//	}
//	fmt.Printf("Found %d orders\n", len(orders))
type GetAllOrdersQuery struct {
	limit int

	guard guard.ConstructorGuard
}

// NewGetAllOrdersQuery creates a query listing up to limit orders.
// The limit must not be negative; zero disables the bound.
func NewGetAllOrdersQuery(limit int) (GetAllOrdersQuery, error) {
	if limit < 0 {
		return GetAllOrdersQuery{}, ErrLimitIsInvalid
	}

	return GetAllOrdersQuery{
		limit: limit,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetAllOrdersQueryIsNotConstructed if validation fails.
func (q GetAllOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetAllOrdersQueryIsNotConstructed)
}

// Limit returns the maximum number of orders to return, zero for all.
func (q GetAllOrdersQuery) Limit() int {
	return q.limit
}

// GetAllOrdersQueryResponse is one row of the order listing. It omits the
// history; use GetOrderQuery for the full record.
type GetAllOrdersQueryResponse struct {
	ID           kernel.UUID
	CustomerName string
	Items        []string
	State        order.State
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

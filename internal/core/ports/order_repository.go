package ports

import (
	"context"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// All writes after creation are conditional on the version the aggregate
// carried when it was read, which is how concurrent transition executors
// are serialized without locks.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// UpdateWithVersion persists changes to an existing order only if its
	// stored version still equals the version captured when the aggregate
	// was read. On success the stored version is incremented by one.
	// Returns errs.ConcurrencyConflictError when another writer got there
	// first.
	UpdateWithVersion(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError when no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAll retrieves up to limit orders, newest first.
	// A non-positive limit returns all orders.
	GetAll(ctx context.Context, limit int) ([]*order.Order, error)
}

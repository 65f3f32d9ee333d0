package order

import (
	"errors"
	"fmt"
	"time"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through NewOrder or RestoreOrder. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrHistoryIsCorrupted is returned when a persisted history does not satisfy
	// the order invariants (empty, or its last entry disagrees with the current state).
	ErrHistoryIsCorrupted = errors.New("order history is corrupted")
)

// Order represents a warehouse order in the system. It is the aggregate root
// that manages the order lifecycle from creation through the fulfillment
// workflow to a terminal state.
//
// Order follows these invariants:
//   - Must have a valid unique identifier and a non-empty customer name
//   - Must contain at least one item
//   - The current state always equals the state of the last history entry
//   - History is append-only: never reordered, never truncated
//   - State changes only through transitions declared in the workflow graph
//   - Can only be created through NewOrder or RestoreOrder
//
// The version field is the optimistic-concurrency marker captured when the
// order is read; the persistence layer uses it for conditional writes.
type Order struct {
	id           kernel.UUID
	customerName string
	items        []string
	notes        string
	state        State
	createdAt    time.Time
	updatedAt    time.Time
	version      int64
	history      []StateChange

	isConstructed bool
}

// NewOrder creates a new Order in the initial state with a seeded history.
//
// The order starts in Pending with exactly one history entry
// {Pending, now, "Order created"} and version 1.
//
// Returns a validation error if the identifier is invalid, the customer name
// is empty, or the item list is empty.
func NewOrder(id kernel.UUID, customerName string, items []string, notes string) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if customerName == "" {
		return nil, errs.NewValueIsRequiredError("customerName")
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}

	now := time.Now().UTC()
	seed, err := NewStateChange(InitialState, now, "Order created")
	if err != nil {
		return nil, err
	}

	return &Order{
		id:            id,
		customerName:  customerName,
		items:         append([]string(nil), items...),
		notes:         notes,
		state:         InitialState,
		createdAt:     now,
		updatedAt:     now,
		version:       1,
		history:       []StateChange{seed},
		isConstructed: true,
	}, nil
}

// RestoreOrder reconstructs an Order from persistence.
//
// It re-validates the invariants that persisted data could have broken:
// the state must be declared, the version positive, the history non-empty,
// and the last history entry must match the current state. A violation is
// reported as ErrHistoryIsCorrupted or a validation error rather than
// producing a half-valid aggregate.
func RestoreOrder(
	id kernel.UUID,
	customerName string,
	items []string,
	notes string,
	state State,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
	history []StateChange,
) (*Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if customerName == "" {
		return nil, errs.NewValueIsRequiredError("customerName")
	}
	if err := state.Validate(); err != nil {
		return nil, err
	}
	if version < 1 {
		return nil, errs.NewVersionIsInvalidError("version", fmt.Errorf("%d is not a positive version", version))
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("%w: history is empty", ErrHistoryIsCorrupted)
	}
	if last := history[len(history)-1].State(); last != state {
		return nil, fmt.Errorf("%w: current state %q does not match last history entry %q",
			ErrHistoryIsCorrupted, string(state), string(last))
	}

	return &Order{
		id:            id,
		customerName:  customerName,
		items:         append([]string(nil), items...),
		notes:         notes,
		state:         state,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		version:       version,
		history:       append([]StateChange(nil), history...),
		isConstructed: true,
	}, nil
}

// Validate ensures the Order instance was properly constructed.
// Returns ErrOrderIsNotConstructed for zero-value or hand-built instances.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerName returns the name of the ordering customer.
func (o *Order) CustomerName() string {
	return o.customerName
}

// Items returns a copy of the ordered item names.
func (o *Order) Items() []string {
	return append([]string(nil), o.items...)
}

// Notes returns the free-text notes attached to the order.
func (o *Order) Notes() string {
	return o.notes
}

// State returns the current workflow state.
func (o *Order) State() State {
	return o.state
}

// CreatedAt returns when the order was created.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns when the order last changed state.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Version returns the optimistic-concurrency marker captured at read time.
func (o *Order) Version() int64 {
	return o.version
}

// History returns a copy of the append-only state-change history.
func (o *Order) History() []StateChange {
	return append([]StateChange(nil), o.history...)
}

// ApplyTransition moves the order along one declared edge of the workflow
// graph and appends the matching history entry.
//
// When notes is empty the entry is annotated "Transitioned to <state>".
// Returns ErrInvalidTransition (unchanged order) if the edge is unknown or
// does not start at the current state. The in-memory mutation only becomes
// visible to other actors once the persistence layer's conditional write
// accepts this order at its captured version.
func (o *Order) ApplyTransition(name Transition, notes string) error {
	newState, err := Apply(o.state, name)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if notes == "" {
		notes = "Transitioned to " + string(newState)
	}

	change, err := NewStateChange(newState, now, notes)
	if err != nil {
		return err
	}

	o.state = newState
	o.updatedAt = now
	o.history = append(o.history, change)
	return nil
}

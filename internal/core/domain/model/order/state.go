package order

import (
	"fmt"

	"warehouse/internal/pkg/errs"
)

// State represents the lifecycle state of a warehouse order.
// It is the node set of the workflow graph declared in transition.go.
//
// Workflow:
//
//	pending -> confirmed -> picking -> packed -> shipped -> delivered -> returned
//	   |           |           |         |                      (terminal)
//	   +-----------+-----------+---------+--> cancelled (terminal)
//	   |           |           |         |
//	   +-----------+-----------+---------+<-> halted
//
// State is a value object; the zero value is invalid and external input
// must be checked with Validate before use.
type State string

const (
	// Pending is the initial state of every order.
	Pending State = "pending"

	// Confirmed indicates fulfillment has accepted the order.
	Confirmed State = "confirmed"

	// Picking indicates items are being collected in the warehouse.
	Picking State = "picking"

	// Packed indicates items are boxed and awaiting shipment.
	Packed State = "packed"

	// Shipped indicates the package has left the warehouse.
	Shipped State = "shipped"

	// Delivered indicates the package reached the customer.
	Delivered State = "delivered"

	// Cancelled is a terminal state reached by customer cancellation.
	Cancelled State = "cancelled"

	// Halted is an emergency stop requested by fulfillment; orders can be
	// resumed from it back to the state they were halted from.
	Halted State = "halted"

	// Returned is a terminal state reached when a delivered order comes back.
	Returned State = "returned"
)

// InitialState is the unique state every new order starts in.
const InitialState = Pending

// AllStates returns every declared state in stable declaration order.
func AllStates() []State {
	return []State{
		Pending, Confirmed, Picking, Packed, Shipped,
		Delivered, Cancelled, Halted, Returned,
	}
}

// Validate checks that the value is a member of the declared state set.
// Used on every value reconstructed from persistence or parsed from input.
func (s State) Validate() error {
	for _, known := range AllStates() {
		if s == known {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("state", fmt.Errorf("%q is not a known order state", string(s)))
}

// IsTerminal reports whether the state has no outgoing transitions.
func (s State) IsTerminal() bool {
	return s == Cancelled || s == Returned
}

// String implements fmt.Stringer.
func (s State) String() string {
	return string(s)
}

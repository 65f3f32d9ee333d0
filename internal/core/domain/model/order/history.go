package order

import (
	"time"

	"warehouse/internal/pkg/errs"
)

// StateChange is one entry of an order's append-only history.
// The first entry of every order records the initial state at creation;
// every later entry records one successful transition.
//
// StateChange is an immutable value object.
type StateChange struct {
	state      State
	occurredAt time.Time
	notes      string
}

// NewStateChange creates a history entry after validating the state and timestamp.
func NewStateChange(state State, occurredAt time.Time, notes string) (StateChange, error) {
	if err := state.Validate(); err != nil {
		return StateChange{}, err
	}
	if occurredAt.IsZero() {
		return StateChange{}, errs.NewValueIsRequiredError("occurredAt")
	}

	return StateChange{
		state:      state,
		occurredAt: occurredAt,
		notes:      notes,
	}, nil
}

// State returns the state the order entered.
func (c StateChange) State() State {
	return c.state
}

// OccurredAt returns when the order entered the state.
func (c StateChange) OccurredAt() time.Time {
	return c.occurredAt
}

// Notes returns the free-text annotation recorded with the change.
func (c StateChange) Notes() string {
	return c.notes
}

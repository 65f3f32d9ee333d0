package order

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned by Apply when a transition name is unknown
// or is not an outgoing edge of the given state.
var ErrInvalidTransition = errors.New("invalid transition")

// Transition is the name of a directed edge in the workflow graph.
// Each edge has a distinct name, so a name alone identifies both
// source and destination state.
type Transition string

// Forward transitions (fulfillment).
const (
	Confirm Transition = "confirm"
	Pick    Transition = "pick"
	Pack    Transition = "pack"
	Ship    Transition = "ship"
	Deliver Transition = "deliver"
)

// Customer cancel transitions, one per cancellable source state.
const (
	CancelPending   Transition = "cancel_pending"
	CancelConfirmed Transition = "cancel_confirmed"
	CancelPicking   Transition = "cancel_picking"
	CancelPacked    Transition = "cancel_packed"
)

// Return of a delivered order (customer).
const Return Transition = "return"

// Halt transitions (fulfillment emergency stop), one per haltable source state.
const (
	HaltPending   Transition = "halt_pending"
	HaltConfirmed Transition = "halt_confirmed"
	HaltPicking   Transition = "halt_picking"
	HaltPacked    Transition = "halt_packed"
)

// Resume transitions (fulfillment), one per destination state.
const (
	ResumePending   Transition = "resume_pending"
	ResumeConfirmed Transition = "resume_confirmed"
	ResumePicking   Transition = "resume_picking"
	ResumePacked    Transition = "resume_packed"
)

// Edge describes one declared transition of the workflow graph.
type Edge struct {
	Name Transition
	From State
	To   State
}

// Edges returns the full immutable edge table of the workflow graph,
// in stable declaration order. Callers receive a fresh slice.
func Edges() []Edge {
	return []Edge{
		{Confirm, Pending, Confirmed},
		{Pick, Confirmed, Picking},
		{Pack, Picking, Packed},
		{Ship, Packed, Shipped},
		{Deliver, Shipped, Delivered},

		{CancelPending, Pending, Cancelled},
		{CancelConfirmed, Confirmed, Cancelled},
		{CancelPicking, Picking, Cancelled},
		{CancelPacked, Packed, Cancelled},

		{Return, Delivered, Returned},

		{HaltPending, Pending, Halted},
		{HaltConfirmed, Confirmed, Halted},
		{HaltPicking, Picking, Halted},
		{HaltPacked, Packed, Halted},

		{ResumePending, Halted, Pending},
		{ResumeConfirmed, Halted, Confirmed},
		{ResumePicking, Halted, Picking},
		{ResumePacked, Halted, Packed},
	}
}

// Lookup finds the declared edge for a transition name.
// The second result reports whether the name is known.
func Lookup(name Transition) (Edge, bool) {
	for _, e := range Edges() {
		if e.Name == name {
			return e, true
		}
	}
	return Edge{}, false
}

// Apply evaluates one transition against a state. It is a pure function:
// state in, state out, no machine instance and no side effects.
//
// Returns ErrInvalidTransition if the name is unknown or the edge does not
// start at the given state.
func Apply(s State, name Transition) (State, error) {
	edge, ok := Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: unknown transition %q", ErrInvalidTransition, string(name))
	}
	if edge.From != s {
		return "", fmt.Errorf("%w: %q is not a legal transition from state %q", ErrInvalidTransition, string(name), string(s))
	}
	return edge.To, nil
}

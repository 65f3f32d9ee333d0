package task

import (
	"warehouse/internal/core/domain/model/order"
)

// Permissions is the immutable map from transition name to the role allowed
// to request it. It is constructed once at startup and injected wherever
// authorization is checked; there is no mutable singleton.
//
// Authorization is checked strictly before legality and before any mutation
// or enqueue: a caller whose role is not in the permitted set fails fast,
// independent of whether the transition would even be legal from the
// order's current state.
type Permissions struct {
	grants map[order.Transition]Role
}

// NewPermissions builds the permission table for the warehouse workflow:
// customers own cancellation and returns, fulfillment owns forward progress,
// halting, and resuming.
func NewPermissions() Permissions {
	return Permissions{grants: map[order.Transition]Role{
		order.Confirm: Fulfillment,
		order.Pick:    Fulfillment,
		order.Pack:    Fulfillment,
		order.Ship:    Fulfillment,
		order.Deliver: Fulfillment,

		order.CancelPending:   Customer,
		order.CancelConfirmed: Customer,
		order.CancelPicking:   Customer,
		order.CancelPacked:    Customer,

		order.Return: Customer,

		order.HaltPending:   Fulfillment,
		order.HaltConfirmed: Fulfillment,
		order.HaltPicking:   Fulfillment,
		order.HaltPacked:    Fulfillment,

		order.ResumePending:   Fulfillment,
		order.ResumeConfirmed: Fulfillment,
		order.ResumePicking:   Fulfillment,
		order.ResumePacked:    Fulfillment,
	}}
}

// IsPermitted reports whether the role may request the named transition.
// Unknown transition names are permitted to no one.
func (p Permissions) IsPermitted(role Role, name order.Transition) bool {
	granted, ok := p.grants[name]
	return ok && granted == role
}

// RolesFor returns the roles allowed to request the named transition.
// Used by the state-machine description endpoint.
func (p Permissions) RolesFor(name order.Transition) []Role {
	granted, ok := p.grants[name]
	if !ok {
		return nil
	}
	return []Role{granted}
}

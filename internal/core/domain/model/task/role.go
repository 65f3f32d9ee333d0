package task

import (
	"fmt"

	"warehouse/internal/pkg/errs"
)

// Role is the closed enumeration of actor classes that may request work.
// Every request crossing the system boundary carries exactly one Role;
// unrecognized values are rejected before any other processing.
type Role string

const (
	// Customer agents place, cancel, and return orders.
	Customer Role = "customer"

	// Fulfillment agents advance orders through the warehouse and may
	// halt and resume them.
	Fulfillment Role = "fulfillment"
)

// AllRoles returns both declared roles.
func AllRoles() []Role {
	return []Role{Customer, Fulfillment}
}

// RoleFromString parses an externally supplied role value.
// Returns a validation error for anything outside the closed enumeration.
func RoleFromString(s string) (Role, error) {
	switch Role(s) {
	case Customer:
		return Customer, nil
	case Fulfillment:
		return Fulfillment, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
	}
}

// Validate checks membership in the closed enumeration.
func (r Role) Validate() error {
	switch r {
	case Customer, Fulfillment:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", string(r)))
	}
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

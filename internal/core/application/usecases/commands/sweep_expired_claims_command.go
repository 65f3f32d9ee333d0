package commands

import (
	"errors"

	"warehouse/internal/pkg/guard"
)

var ErrSweepExpiredClaimsCommandIsNotConstructed = errors.New(
	"SweepExpiredClaimsCommand must be created via NewSweepExpiredClaimsCommand constructor",
)

// SweepExpiredClaimsCommand represents one pass of the lease sweeper, which
// deletes claims whose leases have run out.
type SweepExpiredClaimsCommand struct {
	guard guard.ConstructorGuard
}

// NewSweepExpiredClaimsCommand creates a sweep command.
// This is a parameterless command; expiry is judged at execution time.
func NewSweepExpiredClaimsCommand() SweepExpiredClaimsCommand {
	return SweepExpiredClaimsCommand{guard: guard.NewConstructorGuard()}
}

// Validate ensures the command was created through the constructor.
// Returns ErrSweepExpiredClaimsCommandIsNotConstructed if validation fails.
func (c SweepExpiredClaimsCommand) Validate() error {
	return c.guard.Validate(ErrSweepExpiredClaimsCommandIsNotConstructed)
}

package task

import (
	"errors"
	"time"

	"warehouse/internal/core/domain/model/kernel"
	"warehouse/internal/core/domain/model/order"
	"warehouse/internal/pkg/errs"
	"warehouse/internal/pkg/guard"
)

// DefaultLease is how long an agent may hold a claimed task before the
// store expires the claim. An expired claim is removed without returning
// the task to its queue; the task is lost (see Claim).
const DefaultLease = 300 * time.Second

var (
	// ErrTaskIsNotConstructed is returned when a Task was not created via
	// NewTask or RestoreTask.
	ErrTaskIsNotConstructed = errors.New("Task must be created via NewTask or RestoreTask")

	// ErrClaimIsNotConstructed is returned when a Claim was not created via
	// NewClaim or RestoreClaim.
	ErrClaimIsNotConstructed = errors.New("Claim must be created via NewClaim or RestoreClaim")
)

// Task is a queued request to execute one transition on one order,
// destined for a specific role.
//
// At any instant a task is in exactly one of three states: queued in its
// role's FIFO, claimed by exactly one agent under a lease, or resolved
// (completed or released, at which point the record is gone).
type Task struct {
	id         kernel.UUID
	orderID    kernel.UUID
	transition order.Transition
	role       Role
	agentID    string
	notes      string
	createdAt  time.Time

	guard guard.ConstructorGuard
}

// NewTask creates a Task for the given order and transition.
// The transition must be a declared edge of the workflow graph and the role
// must be a member of the closed enumeration. agentID identifies the
// requesting agent and may be empty; notes are free text.
func NewTask(
	id kernel.UUID,
	orderID kernel.UUID,
	transition order.Transition,
	role Role,
	agentID string,
	notes string,
) (Task, error) {
	restored, err := RestoreTask(id, orderID, transition, role, agentID, notes, time.Now().UTC())
	if err != nil {
		return Task{}, err
	}
	return restored, nil
}

// RestoreTask reconstructs a Task from persistence with its original
// creation timestamp.
func RestoreTask(
	id kernel.UUID,
	orderID kernel.UUID,
	transition order.Transition,
	role Role,
	agentID string,
	notes string,
	createdAt time.Time,
) (Task, error) {
	if err := id.Validate(); err != nil {
		return Task{}, err
	}
	if err := orderID.Validate(); err != nil {
		return Task{}, err
	}
	if _, ok := order.Lookup(transition); !ok {
		return Task{}, errs.NewValueIsInvalidError("transition")
	}
	if err := role.Validate(); err != nil {
		return Task{}, err
	}
	if createdAt.IsZero() {
		return Task{}, errs.NewValueIsRequiredError("createdAt")
	}

	return Task{
		id:         id,
		orderID:    orderID,
		transition: transition,
		role:       role,
		agentID:    agentID,
		notes:      notes,
		createdAt:  createdAt,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Task was created through a constructor.
func (t Task) Validate() error {
	return t.guard.Validate(ErrTaskIsNotConstructed)
}

// ID returns the task's unique identifier.
func (t Task) ID() kernel.UUID {
	return t.id
}

// OrderID returns the identifier of the order the task targets.
func (t Task) OrderID() kernel.UUID {
	return t.orderID
}

// Transition returns the name of the transition to execute.
func (t Task) Transition() order.Transition {
	return t.transition
}

// Role returns the role whose queue holds, or held, the task.
func (t Task) Role() Role {
	return t.role
}

// AgentID returns the identifier of the requesting agent, if any.
func (t Task) AgentID() string {
	return t.agentID
}

// Notes returns the free-text notes attached to the task.
func (t Task) Notes() string {
	return t.notes
}

// CreatedAt returns when the task was first enqueued.
func (t Task) CreatedAt() time.Time {
	return t.createdAt
}

// Claim is the time-bounded exclusive ownership an agent holds on a task
// between claiming it and completing or releasing it.
//
// The claim is exclusively owned by its agent in that window; no other
// agent may act on it. When the lease expires the store removes the claim
// record and the task is NOT returned to its queue — it is lost from the
// system. That reproduces the behavior of the system this one replaces;
// production deployments should decide explicitly whether to requeue.
type Claim struct {
	agentID   string
	task      Task
	expiresAt time.Time

	guard guard.ConstructorGuard
}

// NewClaim creates a claim for agentID on the given task, expiring after
// the lease duration.
func NewClaim(agentID string, claimed Task, lease time.Duration) (Claim, error) {
	return RestoreClaim(agentID, claimed, time.Now().UTC().Add(lease))
}

// RestoreClaim reconstructs a Claim from persistence with its stored expiry.
func RestoreClaim(agentID string, claimed Task, expiresAt time.Time) (Claim, error) {
	if agentID == "" {
		return Claim{}, errs.NewValueIsRequiredError("agentID")
	}
	if err := claimed.Validate(); err != nil {
		return Claim{}, err
	}
	if expiresAt.IsZero() {
		return Claim{}, errs.NewValueIsRequiredError("expiresAt")
	}

	return Claim{
		agentID:   agentID,
		task:      claimed,
		expiresAt: expiresAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Claim was created through a constructor.
func (c Claim) Validate() error {
	return c.guard.Validate(ErrClaimIsNotConstructed)
}

// AgentID returns the claiming agent's identifier.
func (c Claim) AgentID() string {
	return c.agentID
}

// Task returns the claimed task.
func (c Claim) Task() Task {
	return c.task
}

// ExpiresAt returns when the lease runs out.
func (c Claim) ExpiresAt() time.Time {
	return c.expiresAt
}

// IsExpired reports whether the lease has run out at the given instant.
// Expired claims are treated as absent by every reader.
func (c Claim) IsExpired(now time.Time) bool {
	return !now.Before(c.expiresAt)
}

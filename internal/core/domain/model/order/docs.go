// Package order provides domain entities and business logic for warehouse
// order management. It implements the Order aggregate root with lifecycle
// management driven by a declarative workflow graph.
//
// The package includes:
//   - Order: The aggregate root managing identity, items, and the state lifecycle
//   - State: The closed set of workflow states
//   - Transition/Edge/Apply: The immutable edge table and the pure transition function
//   - StateChange: One entry of the append-only order history
//
// Key business rules:
//   - Every order starts in Pending with a seeded history entry
//   - State changes follow only edges declared in the workflow graph
//   - The current state always equals the last history entry's state
//   - Cancelled and Returned are terminal; Halted is resumable
//
// The workflow graph is plain data plus a pure function: there is no hidden
// machine instance, so evaluations are safe to run concurrently.
package order

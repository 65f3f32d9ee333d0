// Package task provides the work-distribution side of the warehouse domain:
// the Task entity handed out through per-role FIFO queues, the Claim an agent
// holds on a task under a lease, the closed Role enumeration, and the
// immutable Permissions table gating which role may request which transition.
//
// Tasks live in exactly one of three states — queued, claimed, or resolved —
// and the queue adapter guarantees no task is ever observable in between or
// handed to two claimants at once.
package task

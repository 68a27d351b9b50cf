// Package review runs live review sessions: it builds the session queue via
// the scheduler, presents one card at a time with an exercise chosen for it,
// grades submitted answers, applies the memory model, and persists the
// outcome atomically.
//
// Sessions live in an in-memory Registry keyed by session ID. A per-session
// lock serializes operations on one session while distinct sessions proceed
// in parallel; a background sweep evicts sessions that outlive their TTL.
package review

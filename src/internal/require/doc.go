// Package require implements the precondition framework gating interface
// state transitions.
//
// A requirement is a named boolean predicate with event-sequence based
// caching: the owning state machine re-tests pending requirements on
// every tick, and the requirement itself decides whether anything
// relevant changed since it last did real work. Evaluation fails closed;
// errors in sub-steps surface as "not yet satisfied", never as hard
// failures.
package require

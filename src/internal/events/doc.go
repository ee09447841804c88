// Package events tracks per-kind monotonic event sequence numbers.
//
// Requirement evaluation is cached against these counters: a check is
// only worth re-running after a relevant state change, so each
// requirement remembers the sequence number it last saw and compares it
// to a snapshot supplied by the caller. The counters have a single
// writer, the event monitor; all other parties read snapshots.
package events

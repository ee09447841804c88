// Package log provides a minimal leveled logger for ifweave.
//
// Debug output is gated on the verbose flag so that the periodic
// requirement polling does not flood the journal during normal operation.
package log

// Package extension runs external helper programs that configure the
// aspects of network setup the core does not implement natively.
//
// Each extension declares start/stop command templates, optional
// per-child environment templates and an optional pid file template used
// to verify the service's state after a command succeeded. The runner
// spawns the resolved command line through the command shell, reaps
// exactly that child (retrying on interrupted waits) and classifies the
// outcome, distinguishing a lying exit code from a real success.
package extension

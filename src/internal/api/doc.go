// Package api exposes the daemon's status and control endpoints over
// HTTP: requirement gate state, event counters, extension inventory and
// manual extension runs.
package api

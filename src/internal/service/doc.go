// Package service wires configuration, events, requirements and
// extensions into the runtime consumed by the daemon and the status API.
package service

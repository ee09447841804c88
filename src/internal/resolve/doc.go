// Package resolve provides the hostname resolution and reachability
// probing collaborators consumed by the requirement framework.
package resolve

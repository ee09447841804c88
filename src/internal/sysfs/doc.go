// Package sysfs reconciles kernel-exposed attribute lists with declared
// target configuration.
//
// The kernel exposes set-valued interface attributes (bonding slaves,
// ARP targets) as writable sysfs files accepting `+member`/`-member`
// lines. The reconciler reads the current membership, computes a minimal
// three-way diff against the desired membership and applies removals
// before additions.
package sysfs

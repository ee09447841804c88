package sysfs

import (
	"fmt"

	"github.com/ifweave/ifweave/src/internal/errors"
	"github.com/ifweave/ifweave/src/internal/log"
)

// Comm partitions two string sequences three ways, treating them as sets:
// values only in current (to remove), values only in desired (to add) and
// values in both. Each partition preserves the relative order of its
// source sequence so operation logs stay reproducible.
func Comm(current, desired []string) (remove, add, unchanged []string) {
	inCurrent := make(map[string]struct{}, len(current))
	for _, v := range current {
		inCurrent[v] = struct{}{}
	}
	inDesired := make(map[string]struct{}, len(desired))
	for _, v := range desired {
		inDesired[v] = struct{}{}
	}

	for _, v := range current {
		if _, ok := inDesired[v]; ok {
			unchanged = append(unchanged, v)
		} else {
			remove = append(remove, v)
		}
	}
	for _, v := range desired {
		if _, ok := inCurrent[v]; !ok {
			add = append(add, v)
		}
	}
	return remove, add, unchanged
}

// Reconciler brings a backend-held list attribute into agreement with a
// desired list using minimal add/remove writes.
type Reconciler struct {
	backend Backend
}

// NewReconciler creates a reconciler over the given backend.
func NewReconciler(backend Backend) *Reconciler {
	return &Reconciler{backend: backend}
}

// ReconcileList computes and applies the difference between the current
// and desired members of a list attribute.
//
// Removals are applied before additions: some attributes enforce
// exclusivity (a port cannot be enslaved to two masters), so stale
// associations must go before new ones are created. The first failing
// write aborts reconciliation and already-applied writes are not rolled
// back; re-running recomputes the diff against the partially-updated
// state and converges.
func (r *Reconciler) ReconcileList(path string, desired []string) error {
	current, err := r.backend.ReadList(path)
	if err != nil {
		return errors.NewBackendError(fmt.Sprintf("unable to read %s", path), err)
	}

	remove, add, unchanged := Comm(current, desired)

	if len(remove) == 0 && len(add) == 0 {
		log.Debugf("%s: attribute list unchanged", path)
		return nil
	}

	if log.IsVerbose() {
		log.Debugf("%s: updating attribute list", path)
		for _, v := range remove {
			log.Debugf("    remove %s", v)
		}
		for _, v := range add {
			log.Debugf("    add %s", v)
		}
		for _, v := range unchanged {
			log.Debugf("    leave %s", v)
		}
	}

	for _, v := range remove {
		if err := r.backend.WriteLine(path, "-"+v); err != nil {
			return errors.NewBackendError(fmt.Sprintf("%s: could not remove %s", path, v), err)
		}
	}
	for _, v := range add {
		if err := r.backend.WriteLine(path, "+"+v); err != nil {
			return errors.NewBackendError(fmt.Sprintf("%s: could not add %s", path, v), err)
		}
	}
	return nil
}

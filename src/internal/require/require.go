package require

import (
	"github.com/ifweave/ifweave/src/internal/events"
	"github.com/ifweave/ifweave/src/internal/expr"
)

// Worker is the handle under which the owning state machine evaluates
// requirements: one per managed interface. Doc is the interface's
// context document, shared with extension runs.
type Worker struct {
	Name string
	Doc  *expr.Document
}

// Requirement gates a state transition until an externally checkable
// condition holds. Test never returns an error: any failure in a
// sub-step means "not yet satisfied" and the caller re-tests on a later
// tick. Destroy releases the requirement's resources; a destroyed
// requirement must not be tested again.
type Requirement interface {
	Test(w *Worker, evt events.Counts) bool
	Destroy()
}

// Func adapts plain functions to the Requirement interface.
type Func struct {
	TestFn    func(w *Worker, evt events.Counts) bool
	DestroyFn func()
}

func (f *Func) Test(w *Worker, evt events.Counts) bool {
	if f.TestFn == nil {
		return false
	}
	return f.TestFn(w, evt)
}

// Destroy runs the destructor exactly once.
func (f *Func) Destroy() {
	if f.DestroyFn != nil {
		f.DestroyFn()
		f.DestroyFn = nil
	}
}

// List is an ordered collection of requirements gating one transition.
type List struct {
	reqs []Requirement
}

// Append adds a requirement at the tail, preserving declaration order.
func (l *List) Append(r Requirement) {
	l.reqs = append(l.reqs, r)
}

// Len returns the number of requirements held.
func (l *List) Len() int {
	return len(l.reqs)
}

// TestAll reports whether every requirement is satisfied. Requirements
// are tested in declaration order; the first unsatisfied one stops the
// scan.
func (l *List) TestAll(w *Worker, evt events.Counts) bool {
	for _, r := range l.reqs {
		if !r.Test(w, evt) {
			return false
		}
	}
	return true
}

// DestroyAll destroys every requirement exactly once and empties the
// list.
func (l *List) DestroyAll() {
	for _, r := range l.reqs {
		r.Destroy()
	}
	l.reqs = nil
}

// Package search implements the Sequential Expander (depth-first
// branch-and-bound over a single SearchState) and the Frontier Generator
// (breadth-first pre-expansion of the root into a pool of tasks), plus the
// shared Bound/Witness tracker the two use for pruning and for reporting
// the best completion found.
package search

import (
	"sync"
	"sync/atomic"

	"github.com/gitrdm/knighttour/pkg/knight"
)

// Tracker holds the process-local Bound and its Witness under the
// double-checked monotonicity discipline spec §4.3/§5 requires: reads of
// the current bound are lock-free atomic loads; writes go through a mutex
// that re-checks the improvement predicate after acquiring exclusion, so a
// losing race never regresses the bound.
type Tracker struct {
	bound atomic.Int64

	mu      sync.Mutex
	witness *knight.SearchState
}

// NewTracker seeds the tracker with the user-supplied upper bound and a
// placeholder witness at exactly that many steps (spec §7: "no solution
// within upper bound" reports the initial upper-bound state, not an error).
func NewTracker(upperBound int, placeholder *knight.SearchState) *Tracker {
	t := &Tracker{witness: placeholder}
	t.bound.Store(int64(upperBound))
	return t
}

// Steps returns the current bound: a lock-free snapshot, safe to call from
// any goroutine at any time, including from inside the hot pruning path.
func (t *Tracker) Steps() int {
	return int(t.bound.Load())
}

// TryImprove attempts to install candidate as the new Bound/Witness. It
// succeeds only if candidate is complete and strictly shorter than the
// bound in effect at the moment exclusion is acquired (the second half of
// the double-check, guarding against two goroutines racing to install two
// different improving candidates out of order).
func (t *Tracker) TryImprove(candidate *knight.SearchState) bool {
	if !candidate.IsComplete() {
		return false
	}
	if candidate.Steps() >= t.Steps() {
		return false // fast path: no lock needed when clearly not better
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if candidate.Steps() >= int(t.bound.Load()) {
		return false // re-check: another goroutine may have already improved past us
	}
	t.bound.Store(int64(candidate.Steps()))
	t.witness = candidate.Clone()
	return true
}

// AdoptIfBetter installs candidate as the bound/witness if it strictly
// improves on the current bound. This is the entry point for Bound-update
// messages arriving from peer workers (spec §4.6: "if its steps < local
// Bound, adopt it; otherwise drop"); every such candidate is itself a
// worker's Witness, so it is already complete by construction.
func (t *Tracker) AdoptIfBetter(candidate *knight.SearchState) bool {
	return t.TryImprove(candidate)
}

// Witness returns a defensive copy of the best completion found so far.
func (t *Tracker) Witness() *knight.SearchState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.witness.Clone()
}

package search

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gitrdm/knighttour/internal/parallel"
	"github.com/gitrdm/knighttour/pkg/knight"
)

// Expander performs depth-first branch-and-bound expansion of a single
// SearchState against a shared Tracker (spec §4.3). Only the top-level
// children of the state handed to Run are explored concurrently; every
// subtree below that is walked sequentially by the goroutine that claimed
// it, per the spec's "parallelise only the top level" design note (deeper
// fan-out would add synchronization on Bound for subtrees too small to
// amortize it).
type Expander struct {
	BoardSize int
	Tracker   *Tracker

	// Pool, if set, bounds the top-level fan-out to Pool's worker count
	// (spec §4.12); the Coordinator gives all of its workers one shared
	// pool. When nil, Run
	// falls back to one goroutine per child via errgroup, which is fine
	// for the small (<=8) branching factor of a single call but does not
	// bound fan-out across concurrent Run calls the way a shared Pool does.
	Pool *parallel.WorkerPool
}

// Run expands root to exhaustion. On return, if any completion reachable
// from root is strictly shorter than the Tracker's bound on entry, the
// bound has been updated and the Tracker's Witness points at a matching
// completion; admissibility guarantees no improving completion was missed.
func (e *Expander) Run(ctx context.Context, root *knight.SearchState) error {
	if root.LowerBound() >= e.Tracker.Steps() {
		return nil
	}
	if root.IsComplete() {
		e.Tracker.TryImprove(root)
		return nil
	}

	moves := root.AvailableMoves(e.BoardSize)
	if e.Pool == nil {
		return e.runWithErrgroup(ctx, root, moves)
	}
	return e.runWithPool(ctx, root, moves)
}

func (e *Expander) runWithErrgroup(ctx context.Context, root *knight.SearchState, moves []knight.Coordinate) error {
	g, _ := errgroup.WithContext(ctx)
	for _, m := range moves {
		m := m
		g.Go(func() error {
			child := root.Clone()
			child.Apply(m)
			e.expand(child)
			return nil
		})
	}
	return g.Wait()
}

func (e *Expander) runWithPool(ctx context.Context, root *knight.SearchState, moves []knight.Coordinate) error {
	var wg sync.WaitGroup
	for _, m := range moves {
		m := m
		wg.Add(1)
		if err := e.Pool.Submit(ctx, func() {
			defer wg.Done()
			child := root.Clone()
			child.Apply(m)
			e.expand(child)
		}); err != nil {
			wg.Done()
			return err
		}
	}
	wg.Wait()
	return nil
}

// expand is the sequential recursive step: clone-and-apply, prune, install
// or descend. It never spawns goroutines; that happens only once, at the
// top level, in Run.
func (e *Expander) expand(s *knight.SearchState) {
	if s.LowerBound() >= e.Tracker.Steps() {
		return // admissible prune: no completion below s can beat the bound
	}

	if s.IsComplete() {
		e.Tracker.TryImprove(s)
		return // no descent past a complete state
	}

	for _, m := range s.AvailableMoves(e.BoardSize) {
		child := s.Clone()
		child.Apply(m)
		e.expand(child)
	}
}

package search

import (
	"testing"

	"github.com/gitrdm/knighttour/pkg/knight"
)

func complete(steps int, start knight.Coordinate) *knight.SearchState {
	s := knight.New(start, knight.NewTargetSet(nil), 0)
	cur := start
	for i := 0; i < steps; i++ {
		moves := knight.KnightMovesFrom(cur, 8)
		cur = moves[0]
		s.Apply(cur)
	}
	return s
}

func TestTrackerTryImproveRespectsStrictLess(t *testing.T) {
	placeholder := knight.New(knight.Coordinate{Row: 0, Col: 0}, knight.NewTargetSet(nil), 10)
	tr := NewTracker(10, placeholder)

	c := complete(5, knight.Coordinate{Row: 0, Col: 0})
	if !tr.TryImprove(c) {
		t.Fatal("expected improvement from 10 to 5 steps to succeed")
	}
	if tr.Steps() != 5 {
		t.Fatalf("Steps() = %d; want 5", tr.Steps())
	}

	same := complete(5, knight.Coordinate{Row: 0, Col: 0})
	if tr.TryImprove(same) {
		t.Fatal("a candidate with steps == bound must not be adopted (strict <)")
	}

	worse := complete(7, knight.Coordinate{Row: 0, Col: 0})
	if tr.TryImprove(worse) {
		t.Fatal("a worse candidate must not be adopted")
	}
}

func TestTrackerRejectsIncompleteCandidate(t *testing.T) {
	placeholder := knight.New(knight.Coordinate{Row: 0, Col: 0}, knight.NewTargetSet(nil), 10)
	tr := NewTracker(10, placeholder)

	incomplete := knight.New(knight.Coordinate{Row: 0, Col: 0}, knight.NewTargetSet([]knight.Coordinate{{Row: 1, Col: 1}}), 0)
	if tr.TryImprove(incomplete) {
		t.Fatal("an incomplete state must never be adopted as a witness")
	}
}

func TestTrackerWitnessIsDefensiveCopy(t *testing.T) {
	placeholder := knight.New(knight.Coordinate{Row: 0, Col: 0}, knight.NewTargetSet(nil), 10)
	tr := NewTracker(10, placeholder)

	w := tr.Witness()
	w.Apply(knight.Coordinate{Row: 99, Col: 99}) // mutate the copy; must not affect the tracker

	if tr.Witness().Steps() != 10 {
		t.Fatalf("mutating a returned Witness leaked into the tracker: steps = %d", tr.Witness().Steps())
	}
}

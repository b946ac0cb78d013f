package search

import (
	"testing"

	"github.com/gitrdm/knighttour/pkg/knight"
)

func TestGenerateFrontierReachesMinPool(t *testing.T) {
	start := knight.Coordinate{Row: 4, Col: 4}
	targets := knight.NewTargetSet([]knight.Coordinate{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 0}})
	root := knight.New(start, targets, 0)

	pool := GenerateFrontier(root, 9, 10)
	if len(pool) < 10 {
		t.Fatalf("pool size = %d; want >= 10", len(pool))
	}
}

func TestGenerateFrontierKeepsCompleteTasksWithoutExpanding(t *testing.T) {
	start := knight.Coordinate{Row: 0, Col: 0}
	root := knight.New(start, knight.NewTargetSet(nil), 0) // already complete

	pool := GenerateFrontier(root, 3, 30)
	if len(pool) != 1 {
		t.Fatalf("pool size = %d; want 1 (root is already complete, never expanded)", len(pool))
	}
	if !pool[0].IsComplete() {
		t.Fatal("the single pooled task should be the complete root")
	}
}

func TestGenerateFrontierPartitionsReachableCompletions(t *testing.T) {
	// Every completion reachable from root must be reachable from exactly
	// one pooled task: check that every pooled task descends from root,
	// that no pooled task's history is a prefix of another's (i.e. no two
	// tasks share a subtree), and that step counts only grow.
	start := knight.Coordinate{Row: 0, Col: 0}
	targets := knight.NewTargetSet([]knight.Coordinate{{Row: 4, Col: 4}})
	root := knight.New(start, targets, 0)

	pool := GenerateFrontier(root, 5, 6)
	for i, s := range pool {
		if s.Steps() < root.Steps() {
			t.Fatalf("pooled task has fewer steps than the root: %d", s.Steps())
		}
		if !hasPrefix(s.History(), root.History()) {
			t.Fatalf("pooled task %v does not descend from the root", s.History())
		}
		for j, o := range pool {
			if i != j && hasPrefix(o.History(), s.History()) {
				t.Fatalf("pooled tasks overlap: %v is a prefix of %v", s.History(), o.History())
			}
		}
	}
}

func hasPrefix(h, prefix []knight.Coordinate) bool {
	if len(prefix) > len(h) {
		return false
	}
	for i := range prefix {
		if h[i] != prefix[i] {
			return false
		}
	}
	return true
}

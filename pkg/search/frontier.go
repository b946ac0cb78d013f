package search

import "github.com/gitrdm/knighttour/pkg/knight"

// GenerateFrontier performs breadth-first, unpruned expansion of root until
// the resulting task pool holds at least minPool entries (or the frontier
// is exhausted first, e.g. a tiny board with few branches). Every
// completion reachable from root is reachable from exactly one returned
// task, because no pruning happens here: the whole point is to widen the
// frontier cheaply and let workers do the pruning (spec §4.4).
//
// A task that is already complete when popped is moved straight into the
// pool rather than re-expanded (expanding it further would just wander the
// board after every target has been visited, and is pointless work).
func GenerateFrontier(root *knight.SearchState, boardSize, minPool int) []*knight.SearchState {
	queue := []*knight.SearchState{root}
	pool := make([]*knight.SearchState, 0, minPool)

	for len(queue) > 0 && len(queue)+len(pool) < minPool {
		s := queue[0]
		queue = queue[1:]

		if s.IsComplete() {
			pool = append(pool, s)
			continue
		}

		for _, m := range s.AvailableMoves(boardSize) {
			child := s.Clone()
			child.Apply(m)
			queue = append(queue, child)
		}
	}

	return append(pool, queue...)
}

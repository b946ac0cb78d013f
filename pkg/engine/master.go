package engine

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gitrdm/knighttour/internal/parallel"
	"github.com/gitrdm/knighttour/pkg/knight"
	"github.com/gitrdm/knighttour/pkg/search"
)

// Coordinator is the Master of spec §4.5: it owns the task pool, dispatches
// tasks to idle workers, collects readiness acknowledgements, broadcasts
// termination, and aggregates final witnesses. It never itself searches:
// after seeding the frontier its CPU is dedicated to coordination (spec
// §4.5: "mixing search worsens tail latency of acknowledgements").
type Coordinator struct {
	cfg Config
	log zerolog.Logger
}

// NewCoordinator builds a Coordinator with the given configuration and base
// logger. Per-worker loggers are derived from log via .With() the way
// other_examples' tablebase worker pool derives per-worker child loggers.
func NewCoordinator(cfg Config, log zerolog.Logger) *Coordinator {
	return &Coordinator{cfg: cfg.normalized(), log: log}
}

// Solve runs the full pipeline: seed the root, generate the frontier, spin
// up workers, dispatch tasks until the pool drains, broadcast termination,
// and pick the minimum-steps witness (ties broken by worker rank
// ascending, spec §4.5 step 4).
func (c *Coordinator) Solve(ctx context.Context, boardSize int, start knight.Coordinate, targets *knight.TargetSet, upperBound int) (*knight.SearchState, error) {
	root := knight.New(start, targets, 0)
	pool := search.GenerateFrontier(root, boardSize, c.cfg.MinPoolSize)
	c.log.Info().Int("pool_size", len(pool)).Msg("frontier generated")

	n := c.cfg.NumWorkers
	inboxes := make([]chan Message, n)
	for i := range inboxes {
		inboxes[i] = make(chan Message, c.cfg.WorkQueueSize)
	}
	bounds := NewBoundChannel(inboxes)
	ready := make(chan int, n)
	witnesses := make(chan workerResult, n)
	sharedPool := parallel.NewWorkerPool(n)
	defer sharedPool.Shutdown()

	workers := make([]*Worker, n)
	for i := 0; i < n; i++ {
		placeholder := knight.New(start, targets.Clone(), upperBound)
		workers[i] = &Worker{
			ID:        i,
			BoardSize: boardSize,
			Inbox:     inboxes[i],
			Ready:     ready,
			Witnesses: witnesses,
			Bounds:    bounds,
			Tracker:   search.NewTracker(upperBound, placeholder),
			Pool:      sharedPool,
			log:       c.log.With().Int("worker", i).Logger(),
		}
		go workers[i].Run(ctx)
	}

	if err := c.dispatch(ctx, pool, inboxes, ready, n); err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		inboxes[i] <- Message{Tag: TagTerminate}
	}
	c.log.Info().Msg("termination broadcast")

	return c.collectWitnesses(witnesses, n)
}

// dispatch implements the loop of spec §4.5: pair pool tasks with idle
// workers, waiting for Ready acknowledgements when none is free, until the
// pool is empty and every worker has gone idle again.
func (c *Coordinator) dispatch(ctx context.Context, pool []*knight.SearchState, inboxes []chan Message, ready <-chan int, n int) error {
	idle := make([]bool, n)
	for i := range idle {
		idle[i] = true
	}
	busy := 0

	for len(pool) > 0 {
		for i := 0; i < n && len(pool) > 0; i++ {
			if !idle[i] {
				continue
			}
			task := pool[0]
			pool = pool[1:]
			payload, err := task.Serialize()
			if err != nil {
				return err
			}
			if err := checkPayloadSize(payload); err != nil {
				return err
			}
			inboxes[i] <- Message{Tag: TagTask, Payload: payload}
			idle[i] = false
			busy++
			c.log.Debug().Int("worker", i).Msg("dispatched task")
		}
		if len(pool) == 0 {
			break
		}
		select {
		case id := <-ready:
			idle[id] = true
			busy--
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	for busy > 0 {
		select {
		case id := <-ready:
			idle[id] = true
			busy--
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// collectWitnesses receives exactly one witness message from each worker
// and selects the minimum-steps one, ties broken by ascending worker rank
// (achieved by iterating ranks in order and only replacing on strict
// improvement).
func (c *Coordinator) collectWitnesses(witnesses <-chan workerResult, n int) (*knight.SearchState, error) {
	byRank := make([]*knight.SearchState, n)
	for i := 0; i < n; i++ {
		r := <-witnesses
		w, err := knight.Deserialize(r.payload)
		if err != nil {
			return nil, err
		}
		byRank[r.id] = w
	}

	var best *knight.SearchState
	for _, w := range byRank {
		if w == nil {
			continue
		}
		if best == nil || w.Steps() < best.Steps() {
			best = w
		}
	}
	c.log.Info().Int("steps", best.Steps()).Msg("solution selected")
	return best, nil
}

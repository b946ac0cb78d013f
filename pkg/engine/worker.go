package engine

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gitrdm/knighttour/internal/parallel"
	"github.com/gitrdm/knighttour/pkg/knight"
	"github.com/gitrdm/knighttour/pkg/search"
)

// workerStatus is the state machine of spec §4.6: Idle -> Searching on Task
// receipt, Searching -> Idle on Ready emission, Idle -> Done on Terminate.
// It exists for logging only. Bound-update handling does not consult or
// change it, since bound updates mutate data, not control (spec §4.6).
type workerStatus int

const (
	statusIdle workerStatus = iota
	statusSearching
	statusDone
)

func (s workerStatus) String() string {
	switch s {
	case statusIdle:
		return "idle"
	case statusSearching:
		return "searching"
	case statusDone:
		return "done"
	default:
		return "unknown"
	}
}

// workerResult is what a Worker hands back to the Coordinator on Terminate:
// its rank (for tie-breaking, spec §4.5 step 4) and its serialized Witness.
type workerResult struct {
	id      int
	payload []byte
}

// Worker is one logical worker process, collapsed onto a goroutine per
// spec §9. It owns a process-local Tracker (its own cached Bound/Witness,
// spec §3 "Lifecycles") and runs the event loop of spec §4.6.
type Worker struct {
	ID        int
	BoardSize int

	Inbox     <-chan Message
	Ready     chan<- int
	Witnesses chan<- workerResult
	Bounds    *BoundChannel
	Tracker   *search.Tracker
	Pool      *parallel.WorkerPool

	log zerolog.Logger
}

// Run drives the event loop until a Terminate message is received or ctx
// is cancelled. It never returns early for any other reason (spec §5:
// "a dispatched task runs to completion").
func (w *Worker) Run(ctx context.Context) {
	w.logStatus(statusIdle)
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-w.Inbox:
			switch msg.Tag {
			case TagTask:
				w.logStatus(statusSearching)
				w.handleTask(ctx, msg.Payload)
				w.logStatus(statusIdle)
				w.Ready <- w.ID

			case TagBound:
				w.handleBound(msg.Payload)

			case TagTerminate:
				w.logStatus(statusDone)
				w.handleTerminate()
				return
			}
		}
	}
}

func (w *Worker) logStatus(s workerStatus) {
	w.log.Debug().Str("status", s.String()).Msg("state transition")
}

func (w *Worker) handleTask(ctx context.Context, payload []byte) {
	state, err := knight.Deserialize(payload)
	if err != nil {
		w.log.Error().Err(err).Msg("dropping malformed task")
		return
	}

	before := w.Tracker.Steps()
	expander := &search.Expander{BoardSize: w.BoardSize, Tracker: w.Tracker, Pool: w.Pool}
	if err := expander.Run(ctx, state); err != nil {
		w.log.Error().Err(err).Msg("expansion aborted")
	}

	if after := w.Tracker.Steps(); after < before {
		w.log.Debug().Int("bound", after).Msg("improved bound, broadcasting")
		payload, err := w.Tracker.Witness().Serialize()
		if err != nil {
			w.log.Error().Err(err).Msg("failed to serialize improved witness")
			return
		}
		if err := checkPayloadSize(payload); err != nil {
			w.log.Error().Err(err).Msg("improved witness too large to broadcast")
			return
		}
		w.Bounds.Broadcast(w.ID, payload)
	}
}

func (w *Worker) handleBound(payload []byte) {
	candidate, err := knight.Deserialize(payload)
	if err != nil {
		w.log.Warn().Err(err).Msg("dropping malformed bound update")
		return
	}
	if w.Tracker.AdoptIfBetter(candidate) {
		w.log.Debug().Int("bound", candidate.Steps()).Msg("adopted peer bound update")
	}
}

func (w *Worker) handleTerminate() {
	payload, err := w.Tracker.Witness().Serialize()
	if err != nil {
		w.log.Error().Err(err).Msg("failed to serialize final witness")
		payload = nil
	}
	w.Witnesses <- workerResult{id: w.ID, payload: payload}
	w.log.Debug().Msg("terminated")
}

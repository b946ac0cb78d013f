package engine

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gitrdm/knighttour/pkg/knight"
	"github.com/gitrdm/knighttour/pkg/search"
)

func newTestWorker(id int, boardSize, upperBound int, start knight.Coordinate, targets *knight.TargetSet, bounds *BoundChannel, ready chan int, witnesses chan workerResult) *Worker {
	placeholder := knight.New(start, targets.Clone(), upperBound)
	return &Worker{
		ID:        id,
		BoardSize: boardSize,
		Ready:     ready,
		Witnesses: witnesses,
		Bounds:    bounds,
		Tracker:   search.NewTracker(upperBound, placeholder),
		log:       zerolog.Nop(),
	}
}

func TestWorkerHandleTaskImprovesAndBroadcasts(t *testing.T) {
	start := knight.Coordinate{Row: 0, Col: 0}
	targets := knight.NewTargetSet([]knight.Coordinate{{Row: 2, Col: 1}})

	inboxes := []chan Message{make(chan Message, 4), make(chan Message, 4)}
	bounds := NewBoundChannel(inboxes)
	ready := make(chan int, 2)
	witnesses := make(chan workerResult, 2)

	w := newTestWorker(0, 3, 10, start, targets, bounds, ready, witnesses)
	w.Inbox = inboxes[0]

	task := knight.New(start, targets, 0)
	payload, err := task.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	w.handleTask(context.Background(), payload)

	if got := w.Tracker.Steps(); got != 1 {
		t.Fatalf("worker bound = %d; want 1", got)
	}

	select {
	case msg := <-inboxes[1]:
		if msg.Tag != TagBound {
			t.Fatalf("expected TagBound, got %v", msg.Tag)
		}
	default:
		t.Fatal("expected a bound-update broadcast to the peer worker")
	}
}

func TestWorkerHandleBoundAdoptsStrictImprovement(t *testing.T) {
	start := knight.Coordinate{Row: 0, Col: 0}
	targets := knight.NewTargetSet([]knight.Coordinate{{Row: 2, Col: 1}})

	w := newTestWorker(0, 3, 10, start, targets, nil, nil, nil)

	better := knight.New(start, knight.NewTargetSet(nil), 3)
	payload, _ := better.Serialize()

	w.handleBound(payload)
	if got := w.Tracker.Steps(); got != 3 {
		t.Fatalf("worker bound after adopting = %d; want 3", got)
	}

	worse := knight.New(start, knight.NewTargetSet(nil), 9)
	payload2, _ := worse.Serialize()
	w.handleBound(payload2)
	if got := w.Tracker.Steps(); got != 3 {
		t.Fatalf("worker bound must stay 3, got %d", got)
	}
}

func TestWorkerHandleTerminateSendsWitness(t *testing.T) {
	start := knight.Coordinate{Row: 0, Col: 0}
	targets := knight.NewTargetSet(nil)
	witnesses := make(chan workerResult, 1)

	w := newTestWorker(5, 3, 10, start, targets, nil, nil, witnesses)
	w.handleTerminate()

	r := <-witnesses
	if r.id != 5 {
		t.Fatalf("workerResult.id = %d; want 5", r.id)
	}
	got, err := knight.Deserialize(r.payload)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if got.Steps() != 10 {
		t.Fatalf("witness steps = %d; want 10 (placeholder, no improvement made)", got.Steps())
	}
}

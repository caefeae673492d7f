package media

import "context"

// EventKind tells progress events from the terminal result.
type EventKind int

const (
	EventProgress EventKind = iota
	EventDone
)

// Event is published by a Worker. Exactly one EventDone is sent, last.
type Event struct {
	Kind   EventKind
	Index  int
	Root   string
	Result Result
}

// Worker runs a single scan on its own goroutine. It never touches caller state; it only
// publishes events. The events channel is buffered for the whole scan so the worker never
// blocks on a slow consumer.
type Worker struct {
	cancel context.CancelFunc
	events chan Event
	done   chan struct{}
}

// StartWorker begins scanning roots in the background.
func StartWorker(ctx context.Context, s *Scanner, roots []string) *Worker {
	ctx, cancel := context.WithCancel(ctx)
	w := &Worker{
		cancel: cancel,
		events: make(chan Event, len(roots)+1),
		done:   make(chan struct{}),
	}
	go w.run(ctx, s, roots)
	return w
}

// StartCanceledWorker returns a worker whose scan is canceled before it reads any candidate.
func StartCanceledWorker(ctx context.Context, s *Scanner, roots []string) *Worker {
	ctx, cancel := context.WithCancel(ctx)
	cancel()
	return StartWorker(ctx, s, roots)
}

func (w *Worker) run(ctx context.Context, s *Scanner, roots []string) {
	defer close(w.done)
	defer close(w.events)
	defer w.cancel()

	res := s.Scan(ctx, roots, func(i int, root string) {
		w.events <- Event{Kind: EventProgress, Index: i, Root: root}
	})
	w.events <- Event{Kind: EventDone, Result: res}
}

// Events returns the channel of progress and result events. It is closed after EventDone.
func (w *Worker) Events() <-chan Event { return w.events }

// Cancel asks the worker to stop at the next candidate boundary. It is safe to call more than once.
func (w *Worker) Cancel() { w.cancel() }

// Wait blocks until the worker goroutine has exited.
func (w *Worker) Wait() { <-w.done }

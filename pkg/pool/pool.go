package pool

import (
	"context"
	"fmt"
	"sync"
)

// WorkerFunc defines the function signature for a worker that processes an item and may return an error.
type WorkerFunc[T any] func(ctx context.Context, item T) error

// ItemError ties a worker failure to the index of the item that caused it.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string { return fmt.Sprintf("item %d: %v", e.Index, e.Err) }
func (e *ItemError) Unwrap() error { return e.Err }

type task[T any] struct {
	index int
	item  T
}

// Run executes a worker pool over items. The worker count is clamped to [1, len(items)].
// A panicking worker is reported as an error for its item instead of crashing the process.
// It returns the errors that occurred, each wrapped in an *ItemError.
func Run[T any](ctx context.Context, items []T, numWorkers int, workerFunc WorkerFunc[T]) []error {
	if len(items) == 0 {
		return nil
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	if numWorkers > len(items) {
		numWorkers = len(items)
	}

	var wg sync.WaitGroup
	taskChan := make(chan task[T], numWorkers)
	errChan := make(chan error, len(items))

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range taskChan {
				select {
				case <-ctx.Done():
					return
				default:
					if err := runOne(ctx, t, workerFunc); err != nil {
						errChan <- &ItemError{Index: t.index, Err: err}
					}
				}
			}
		}()
	}

OUT:
	for i, item := range items {
		select {
		case taskChan <- task[T]{index: i, item: item}:
		case <-ctx.Done():
			break OUT
		}
	}
	close(taskChan)

	wg.Wait()
	close(errChan)

	var allErrors []error
	for err := range errChan {
		allErrors = append(allErrors, err)
	}
	return allErrors
}

func runOne[T any](ctx context.Context, t task[T], workerFunc WorkerFunc[T]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker panic: %v", r)
		}
	}()
	return workerFunc(ctx, t.item)
}

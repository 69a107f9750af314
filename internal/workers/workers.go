package workers

import (
	"context"
	"sync"
)

// Workers runs a set of background workers and waits for them to drain on
// shutdown.
type Workers struct {
	workers []Worker
	wg      sync.WaitGroup
}

// NewWorkers constructs a Workers aggregate over the given workers.
func NewWorkers(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Run starts every worker in its own goroutine and returns immediately.
// Each worker is expected to stop when ctx is cancelled.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		w.wg.Add(1)
		go func(worker Worker) {
			defer w.wg.Done()
			worker.Run(ctx)
		}(worker)
	}
}

// Wait blocks until every started worker has returned.
func (w *Workers) Wait() {
	w.wg.Wait()
}

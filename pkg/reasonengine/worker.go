package reasonengine

import (
	"context"
	"log"
	"sync"

	"github.com/pricesignal/reasoncore/pkg/queue"
	"github.com/pricesignal/reasoncore/pkg/store"
)

// WorkerPool drains a bounded WorkQueue with a fixed number of workers,
// matching spec §5's "a fixed-size pool of Reason Engine workers draining
// a bounded work queue of newly detected events."
type WorkerPool struct {
	engine *Engine
	store  *store.Store
	q      queue.WorkQueue
	size   int

	onProcessed func(audit Audit)
}

func NewWorkerPool(engine *Engine, s *store.Store, q queue.WorkQueue, size int, onProcessed func(Audit)) *WorkerPool {
	return &WorkerPool{engine: engine, store: s, q: q, size: size, onProcessed: onProcessed}
}

// Run starts size worker goroutines and blocks until ctx is cancelled.
func (p *WorkerPool) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < p.size; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			p.loop(ctx, workerID)
		}(i)
	}
	wg.Wait()
}

func (p *WorkerPool) loop(ctx context.Context, workerID int) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		event, ack, err := p.q.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			continue
		}
		_, _, audit, err := p.engine.Run(ctx, p.store, event)
		if err != nil {
			log.Printf("reason engine worker %d: run failed for event %s: %v", workerID, event.ID, err)
		}
		if ack != nil {
			ack()
		}
		if p.onProcessed != nil {
			p.onProcessed(audit)
		}
	}
}

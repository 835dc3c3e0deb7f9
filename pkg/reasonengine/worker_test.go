package reasonengine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pricesignal/reasoncore/pkg/adapter"
	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/model"
	"github.com/pricesignal/reasoncore/pkg/queue"
	"github.com/pricesignal/reasoncore/pkg/store"
)

func TestWorkerPoolProcessesQueuedEventAndInvokesCallback(t *testing.T) {
	now := time.Now()
	c := clock.NewFixed(now, time.Second)
	s := store.New(c)
	fixture := adapter.NewFixture("fixture")
	engine := New([]adapter.Adapter{fixture}, testConfig(), c)
	q := queue.NewLocal(4)

	var mu sync.Mutex
	var processed []string
	pool := NewWorkerPool(engine, s, q, 2, func(audit Audit) {
		mu.Lock()
		processed = append(processed, audit.EventID)
		mu.Unlock()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		pool.Run(ctx)
	}()

	event := model.PriceEvent{ID: "evt-1", Symbol: "AAPL", Market: model.MarketUS, DetectedAtUTC: now}
	if err := q.Push(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(processed)
		mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(processed) != 1 || processed[0] != "evt-1" {
		t.Fatalf("processed = %v, want [evt-1]", processed)
	}

	stored, err := s.Events.GetByID("evt-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.ID != "evt-1" {
		t.Fatalf("stored event id = %q", stored.ID)
	}
}

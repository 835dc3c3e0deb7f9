// Package queue is the bounded hand-off between the Detector and the
// Reason Engine worker pool (spec §5): "the work queue is bounded; when
// full, detector publish returns backpressure which the caller must
// retry." WorkQueue has two implementations: a buffered-channel Local
// queue for the default single-process deployment, and a JetStream-backed
// queue (grounded on the teacher's pkg/messaging/nats.go NATSClient) for
// running the Reason Engine workers out-of-process.
package queue

import (
	"context"

	"github.com/pricesignal/reasoncore/pkg/apperr"
	"github.com/pricesignal/reasoncore/pkg/model"
)

// WorkQueue hands detected events to the Reason Engine worker pool.
type WorkQueue interface {
	// Push enqueues event, returning a backpressure apperr.Error if the
	// queue is at capacity.
	Push(ctx context.Context, event model.PriceEvent) error
	// Pop waits for an event. Local blocks until one is available or ctx
	// is done; NATS returns an error (jetstream.ErrNoMessages) when its
	// 5-second fetch wait ends empty. ack must be called once the event
	// has been durably processed.
	Pop(ctx context.Context) (event model.PriceEvent, ack func(), err error)
	Close() error
}

func errBackpressure() error {
	return apperr.New(apperr.CodeBackpressure, "work queue is at capacity")
}

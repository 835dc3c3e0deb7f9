package queue

import (
	"context"

	"github.com/pricesignal/reasoncore/pkg/model"
)

// Local is a buffered-channel WorkQueue for the default single-process
// deployment described in spec §5.
type Local struct {
	ch chan model.PriceEvent
}

func NewLocal(capacity int) *Local {
	return &Local{ch: make(chan model.PriceEvent, capacity)}
}

func (q *Local) Push(ctx context.Context, event model.PriceEvent) error {
	select {
	case q.ch <- event:
		return nil
	default:
		return errBackpressure()
	}
}

func (q *Local) Pop(ctx context.Context) (model.PriceEvent, func(), error) {
	select {
	case e := <-q.ch:
		return e, func() {}, nil
	case <-ctx.Done():
		return model.PriceEvent{}, nil, ctx.Err()
	}
}

func (q *Local) Close() error {
	close(q.ch)
	return nil
}

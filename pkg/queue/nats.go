package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/pricesignal/reasoncore/pkg/model"
)

// NATS is a JetStream-backed WorkQueue, ported from the teacher's
// pkg/messaging/nats.go NATSClient (stream setup, pull consumer loop,
// explicit ack) onto this system's single EVENTS_STREAM. Use it when the
// Reason Engine workers run in a separate process from the Detector; for
// the default single-process deployment use Local instead.
type NATS struct {
	conn     *nats.Conn
	js       jetstream.JetStream
	stream   string
	subject  string
	consumer jetstream.Consumer
	capacity int
}

func NewNATS(natsURL, stream, subject, consumerName string, capacity int) (*NATS, error) {
	nc, err := nats.Connect(natsURL,
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("work queue: disconnected: %v", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("init jetstream: %w", err)
	}

	ctx := context.Background()
	if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        stream,
		Subjects:    []string{subject},
		Description: "bounded detector -> reason engine event queue",
		Retention:   jetstream.LimitsPolicy,
		MaxMsgs:     int64(capacity),
		Discard:     jetstream.DiscardNew, // full stream rejects new publishes: backpressure
	}); err != nil {
		nc.Close()
		return nil, fmt.Errorf("create stream: %w", err)
	}

	consumer, err := js.CreateOrUpdateConsumer(ctx, stream, jetstream.ConsumerConfig{
		Name:          consumerName,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create consumer: %w", err)
	}

	return &NATS{conn: nc, js: js, stream: stream, subject: subject, consumer: consumer, capacity: capacity}, nil
}

func (q *NATS) Push(ctx context.Context, event model.PriceEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	// DiscardNew on the stream means a full queue rejects the publish
	// outright rather than evicting an old event; any publish error here
	// is therefore reported as backpressure for the caller to retry.
	if _, err := q.js.Publish(ctx, q.subject, payload); err != nil {
		return errBackpressure()
	}
	return nil
}

func (q *NATS) Pop(ctx context.Context) (model.PriceEvent, func(), error) {
	msgs, err := q.consumer.Fetch(1, jetstream.FetchMaxWait(5*time.Second))
	if err != nil {
		return model.PriceEvent{}, nil, fmt.Errorf("fetch: %w", err)
	}
	for msg := range msgs.Messages() {
		var event model.PriceEvent
		if err := json.Unmarshal(msg.Data(), &event); err != nil {
			msg.Nak()
			return model.PriceEvent{}, nil, fmt.Errorf("unmarshal event: %w", err)
		}
		return event, func() { msg.Ack() }, nil
	}
	if err := msgs.Error(); err != nil {
		return model.PriceEvent{}, nil, err
	}
	select {
	case <-ctx.Done():
		return model.PriceEvent{}, nil, ctx.Err()
	default:
		return model.PriceEvent{}, nil, jetstream.ErrNoMessages
	}
}

func (q *NATS) Close() error {
	q.conn.Close()
	return nil
}

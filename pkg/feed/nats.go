// Package feed subscribes to the tick stream external market-data
// collectors publish and feeds each tick into the Detector. It is the
// JetStream consumer half of the teacher's pkg/messaging/nats.go
// QUOTES_STREAM publish/subscribe pair (the collector side, "fetch a
// quote and publish it," is out of this system's boundary per spec §6:
// "the system boundary is the HTTP surface above and the adapter
// interface" — this package only owns turning a published quote into a
// Detector.Tick).
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/pricesignal/reasoncore/pkg/detector"
	"github.com/pricesignal/reasoncore/pkg/model"
)

// rawTick is the wire shape a collector publishes to quotes.<MARKET>.
type rawTick struct {
	Market    string  `json:"market"`
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Timestamp string  `json:"timestamp_utc"`
}

// TickFeed owns the QUOTES_STREAM consumer and drains it into a Detector.
type TickFeed struct {
	conn *nats.Conn
	js   jetstream.JetStream
	det  *detector.Detector
}

// Connect dials natsURL and ensures QUOTES_STREAM exists. The pull
// consumer is created, and consuming starts, only when Run is called.
func Connect(natsURL string, det *detector.Detector) (*TickFeed, error) {
	nc, err := nats.Connect(natsURL,
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("feed: nats disconnected: %v", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("feed: connect: %w", err)
	}
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("feed: jetstream: %w", err)
	}
	ctx := context.Background()
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      "QUOTES_STREAM",
		Subjects:  []string{"quotes.*"},
		Retention: jetstream.LimitsPolicy,
		MaxMsgs:   200000,
		MaxAge:    24 * time.Hour,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("feed: create stream: %w", err)
	}
	return &TickFeed{conn: nc, js: js, det: det}, nil
}

// Run starts consuming quotes.* until ctx is cancelled.
func (f *TickFeed) Run(ctx context.Context) error {
	consumer, err := f.js.CreateOrUpdateConsumer(ctx, "QUOTES_STREAM", jetstream.ConsumerConfig{
		Name:          "reasoncore-detector",
		FilterSubject: "quotes.*",
		AckPolicy:     jetstream.AckExplicitPolicy,
		DeliverPolicy: jetstream.DeliverNewPolicy,
	})
	if err != nil {
		return fmt.Errorf("feed: create consumer: %w", err)
	}
	iter, err := consumer.Messages(jetstream.PullMaxMessages(20))
	if err != nil {
		return fmt.Errorf("feed: message iterator: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			iter.Stop()
			return nil
		default:
		}
		msg, err := iter.Next()
		if err != nil {
			if err == jetstream.ErrNoMessages || ctx.Err() != nil {
				continue
			}
			log.Printf("feed: next: %v", err)
			continue
		}
		if err := f.ingest(msg.Data()); err != nil {
			log.Printf("feed: ingest: %v", err)
			msg.Nak()
			continue
		}
		msg.Ack()
	}
}

func (f *TickFeed) ingest(data []byte) error {
	var raw rawTick
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ts, err := time.Parse(time.RFC3339, raw.Timestamp)
	if err != nil {
		return err
	}
	return f.det.Ingest(detector.Tick{
		Market:       model.Market(raw.Market),
		Symbol:       raw.Symbol,
		TimestampUTC: ts.UTC(),
		Price:        raw.Price,
	})
}

func (f *TickFeed) Close() {
	f.conn.Close()
}

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/pricesignal/reasoncore/pkg/model"
)

// NATSNewsAdapter is the news Adapter, ported from the teacher's
// NATSNewsCollector (pkg/collector/news_collector.go) onto JetStream: the
// teacher's own pkg/messaging/nats.go already wraps nats.go + jetstream,
// so this adapter reuses that client shape instead of the older stan.go
// connection the original collector used (see DESIGN.md).
//
// It holds a named pull consumer on a news stream and keeps a bounded
// in-memory cache of recently seen items per symbol, the same
// "newsCache map[string]*NewsEvent" pattern the teacher used, so Fetch
// never blocks on the network.
type NATSNewsAdapter struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	stream string
	mu     sync.RWMutex
	bySym  map[string][]Candidate // key: market:symbol
	cancel context.CancelFunc
}

// rawNewsMessage is the wire shape published by the external news
// crawler, matching the field names the teacher's collector expects.
type rawNewsMessage struct {
	Market      string `json:"market"`
	Symbol      string `json:"symbol"`
	Title       string `json:"title"`
	Abstract    string `json:"abstract"`
	Link        string `json:"link"`
	PublishedAt string `json:"published_at"`
}

// NewNATSNewsAdapter connects to natsURL and ensures the NEWS_STREAM
// exists, mirroring the teacher's setupStreams.
func NewNATSNewsAdapter(natsURL string) (*NATSNewsAdapter, error) {
	nc, err := nats.Connect(natsURL,
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats news adapter: disconnected: %v", err)
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

	ctx, cancel := context.WithCancel(context.Background())

	a := &NATSNewsAdapter{
		conn:   nc,
		js:     js,
		stream: "NEWS_STREAM",
		bySym:  make(map[string][]Candidate),
		cancel: cancel,
	}

	if _, err := js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        a.stream,
		Subjects:    []string{"news.*"},
		Description: "reason-engine news candidates",
		Retention:   jetstream.LimitsPolicy,
		MaxMsgs:     50000,
		MaxAge:      7 * 24 * time.Hour,
	}); err != nil {
		log.Printf("nats news adapter: stream setup failed: %v", err)
	}

	consumer, err := js.CreateOrUpdateConsumer(ctx, a.stream, jetstream.ConsumerConfig{
		Name:          "reason-engine-news",
		FilterSubject: "news.*",
		AckPolicy:     jetstream.AckExplicitPolicy,
		DeliverPolicy: jetstream.DeliverNewPolicy,
	})
	if err != nil {
		cancel()
		nc.Close()
		return nil, fmt.Errorf("create consumer: %w", err)
	}

	go a.consume(ctx, consumer)
	return a, nil
}

func (a *NATSNewsAdapter) consume(ctx context.Context, consumer jetstream.Consumer) {
	iter, err := consumer.Messages(jetstream.PullMaxMessages(10))
	if err != nil {
		log.Printf("nats news adapter: messages iterator failed: %v", err)
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		msg, err := iter.Next()
		if err != nil {
			if err == jetstream.ErrNoMessages {
				continue
			}
			log.Printf("nats news adapter: next failed: %v", err)
			time.Sleep(time.Second)
			continue
		}
		if err := a.ingest(msg.Data()); err != nil {
			log.Printf("nats news adapter: ingest failed: %v", err)
			msg.Nak()
			continue
		}
		msg.Ack()
	}
}

func (a *NATSNewsAdapter) ingest(data []byte) error {
	var raw rawNewsMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal news message: %w", err)
	}
	c := Candidate{
		Source:     "news",
		SourceURL:  raw.Link,
		Summary:    strings.TrimSpace(raw.Abstract),
		ReasonType: model.ReasonNews,
		RawText:    raw.Title + " " + raw.Abstract,
	}
	if t, err := time.Parse(time.RFC3339, raw.PublishedAt); err == nil {
		c.PublishedAtUTC = t.UTC()
		c.HasPublishedAt = true
	}

	key := raw.Market + ":" + raw.Symbol
	a.mu.Lock()
	defer a.mu.Unlock()
	items := append(a.bySym[key], c)
	if len(items) > 200 {
		items = items[len(items)-200:]
	}
	a.bySym[key] = items
	return nil
}

func (a *NATSNewsAdapter) Name() string { return "nats_news" }

func (a *NATSNewsAdapter) Fetch(ctx context.Context, market model.Market, symbol string, tr TimeRange) ([]Candidate, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	key := string(market) + ":" + symbol
	var out []Candidate
	for _, c := range a.bySym[key] {
		if c.HasPublishedAt && (c.PublishedAtUTC.Before(tr.Start) || c.PublishedAtUTC.After(tr.End)) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (a *NATSNewsAdapter) Close() {
	a.cancel()
	a.conn.Close()
}

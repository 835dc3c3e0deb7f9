package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/pricesignal/reasoncore/pkg/model"
)

func TestFixtureFetchFiltersByTimeRange(t *testing.T) {
	f := NewFixture("test")
	now := time.Now()
	f.Seed(model.MarketUS, "AAPL", []Candidate{
		{Source: "a", SourceURL: "https://a.example.com", PublishedAtUTC: now, HasPublishedAt: true},
		{Source: "b", SourceURL: "https://b.example.com", PublishedAtUTC: now.Add(-48 * time.Hour), HasPublishedAt: true},
		{Source: "c", SourceURL: "https://c.example.com", HasPublishedAt: false},
	})

	got, err := f.Fetch(context.Background(), model.MarketUS, "AAPL", TimeRange{Start: now.Add(-time.Hour), End: now.Add(time.Hour)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2 (in-range and no-published-at)", len(got))
	}
}

func TestFixtureFetchUnknownKeyReturnsEmpty(t *testing.T) {
	f := NewFixture("test")
	got, err := f.Fetch(context.Background(), model.MarketUS, "UNKNOWN", TimeRange{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d candidates, want 0", len(got))
	}
}

func TestFixtureSeedReplacesPreviousSeed(t *testing.T) {
	f := NewFixture("test")
	f.Seed(model.MarketUS, "AAPL", []Candidate{{Source: "a"}})
	f.Seed(model.MarketUS, "AAPL", []Candidate{{Source: "b"}, {Source: "c"}})

	got, _ := f.Fetch(context.Background(), model.MarketUS, "AAPL", TimeRange{})
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2 after reseeding", len(got))
	}
}

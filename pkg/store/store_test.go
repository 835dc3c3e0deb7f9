package store

import (
	"testing"
	"time"

	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/model"
	"github.com/shopspring/decimal"
)

func newTestStore() *Store {
	return New(clock.NewFixed(time.Now(), time.Second))
}

func TestUserCreateRejectsDuplicateEmail(t *testing.T) {
	s := newTestStore()
	if _, err := s.Users.Create("a@example.com", "hash", "en"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Users.Create("A@Example.com", "hash", "en"); err == nil {
		t.Fatalf("expected a duplicate (case-insensitive) email to be rejected")
	}
}

func TestWatchlistAddIsIdempotentAndReusableAfterRemove(t *testing.T) {
	s := newTestStore()
	item, dup, err := s.Watchlist.Add("u1", model.MarketUS, "aapl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dup {
		t.Fatalf("expected the first add not to be a duplicate")
	}
	if item.Ticker != "AAPL" {
		t.Fatalf("ticker = %q, want normalized to AAPL", item.Ticker)
	}

	_, dup, err = s.Watchlist.Add("u1", model.MarketUS, "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dup {
		t.Fatalf("expected re-adding the same (user, market, ticker) to report is_duplicate=true")
	}

	if err := s.Watchlist.Remove("u1", item.ID); err != nil {
		t.Fatalf("unexpected error removing: %v", err)
	}

	_, dup, err = s.Watchlist.Add("u1", model.MarketUS, "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dup {
		t.Fatalf("expected re-adding after a remove to succeed as a fresh (non-duplicate) item")
	}
}

func TestThresholdEffectiveFallsBackWhenNeverSet(t *testing.T) {
	s := newTestStore()
	fallback := decimal.NewFromFloat(3)
	got := s.Thresholds.Effective("u1", 5, fallback)
	if !got.Equal(fallback) {
		t.Fatalf("effective threshold = %s, want fallback %s", got, fallback)
	}

	if _, err := s.Thresholds.Upsert("u1", 5, decimal.NewFromFloat(1.5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got = s.Thresholds.Effective("u1", 5, fallback)
	if !got.Equal(decimal.NewFromFloat(1.5)) {
		t.Fatalf("effective threshold after upsert = %s, want 1.5", got)
	}
}

func TestCreateEventWithReasonsIsVisibleTogether(t *testing.T) {
	s := newTestStore()
	event := model.PriceEvent{ID: "evt-1", Symbol: "AAPL", Market: model.MarketUS, ChangePct: decimal.NewFromFloat(5)}
	reasons := []model.EventReason{{ID: "r1", EventID: "evt-1", Rank: 1, Summary: "test"}}
	s.CreateEventWithReasons(event, reasons)

	got, err := s.Events.GetByID("evt-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "evt-1" {
		t.Fatalf("got event id %q", got.ID)
	}
	gotReasons := s.Reasons.ListByEvent("evt-1")
	if len(gotReasons) != 1 {
		t.Fatalf("got %d reasons, want 1", len(gotReasons))
	}
}

func TestWatchersOfReturnsEveryWatcher(t *testing.T) {
	s := newTestStore()
	s.Watchlist.Add("u1", model.MarketUS, "AAPL")
	s.Watchlist.Add("u2", model.MarketUS, "AAPL")
	s.Watchlist.Add("u3", model.MarketUS, "MSFT")

	watchers := s.Watchlist.WatchersOf(model.MarketUS, "aapl")
	if len(watchers) != 2 {
		t.Fatalf("got %d watchers, want 2", len(watchers))
	}
}

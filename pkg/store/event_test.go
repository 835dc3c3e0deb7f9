package store

import (
	"testing"
	"time"

	"github.com/pricesignal/reasoncore/pkg/model"
	"github.com/shopspring/decimal"
)

func TestListInRangeIgnoresWatchlistAndOwnership(t *testing.T) {
	s := newTestStore()
	base := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

	s.CreateEventWithReasons(model.PriceEvent{ID: "e1", Symbol: "AAPL", Market: model.MarketUS, ChangePct: decimal.NewFromInt(3), DetectedAtUTC: base}, nil)
	s.CreateEventWithReasons(model.PriceEvent{ID: "e2", Symbol: "MSFT", Market: model.MarketUS, ChangePct: decimal.NewFromInt(2), DetectedAtUTC: base.Add(-30 * time.Hour)}, nil)
	s.CreateEventWithReasons(model.PriceEvent{ID: "e3", Symbol: "TSLA", Market: model.MarketUS, ChangePct: decimal.NewFromInt(5), DetectedAtUTC: base.Add(-1 * time.Hour)}, nil)

	got := s.Events.ListInRange(base.Add(-24*time.Hour), base.Add(time.Second), 0)
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2 (e1 and e3, e2 is out of the 24h window)", len(got))
	}
	if got[0].ID != "e1" || got[1].ID != "e3" {
		t.Fatalf("got order %s,%s, want newest-first e1,e3", got[0].ID, got[1].ID)
	}
}

func TestListInRangeRespectsLimit(t *testing.T) {
	s := newTestStore()
	base := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s.CreateEventWithReasons(model.PriceEvent{
			ID:            "e" + string(rune('0'+i)),
			Symbol:        "AAPL",
			Market:        model.MarketUS,
			ChangePct:     decimal.NewFromInt(3),
			DetectedAtUTC: base.Add(-time.Duration(i) * time.Minute),
		}, nil)
	}
	got := s.Events.ListInRange(base.Add(-time.Hour), base.Add(time.Second), 2)
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2 (limit applied)", len(got))
	}
}

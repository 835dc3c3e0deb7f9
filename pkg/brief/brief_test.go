package brief

import (
	"testing"
	"time"

	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/model"
	"github.com/pricesignal/reasoncore/pkg/session"
	"github.com/pricesignal/reasoncore/pkg/store"
	"github.com/shopspring/decimal"
)

func regularSessionInstant() time.Time {
	loc, _ := time.LoadLocation("America/New_York")
	return time.Date(2026, 1, 6, 10, 0, 0, 0, loc).UTC()
}

func newTestBuilder(now time.Time) (*Builder, *store.Store, clock.Clock) {
	c := clock.NewFixed(now, time.Second)
	s := store.New(c)
	sessions := session.NewRegistry(nil)
	cfg := Config{
		LookbackWindow:       24 * time.Hour,
		TopN:                 5,
		InsufficientFloor:    1,
		PreMarketTTLFallback: 12 * time.Hour,
		PostCloseTTL:         24 * time.Hour,
	}
	return New(s, c, sessions, cfg), s, c
}

func TestBuildNoEventsFallsBackToNoEvents(t *testing.T) {
	now := regularSessionInstant()
	b, s, _ := newTestBuilder(now)
	s.Watchlist.Add("u1", model.MarketUS, "AAPL")

	brief := b.Build("u1", model.BriefPreMarket, []model.Market{model.MarketUS})
	if brief.FallbackReason == nil || *brief.FallbackReason != model.FallbackNoEvents {
		t.Fatalf("fallback reason = %v, want no_events", brief.FallbackReason)
	}
	if len(brief.Items) != 0 {
		t.Fatalf("got %d items, want 0", len(brief.Items))
	}
}

func TestBuildIncludesRecentWatchedEvents(t *testing.T) {
	now := regularSessionInstant()
	b, s, _ := newTestBuilder(now)
	s.Watchlist.Add("u1", model.MarketUS, "AAPL")

	event := model.PriceEvent{ID: "evt-1", Symbol: "AAPL", Market: model.MarketUS, ChangePct: decimal.NewFromFloat(5), WindowMinutes: 5, DetectedAtUTC: now.Add(-time.Hour)}
	reasons := []model.EventReason{{ID: "r1", EventID: "evt-1", Summary: "Apple rallied on strong demand", SourceURL: "https://example.com/1"}}
	s.CreateEventWithReasons(event, reasons)

	brief := b.Build("u1", model.BriefPreMarket, []model.Market{model.MarketUS})
	if brief.FallbackReason != nil {
		t.Fatalf("fallback reason = %v, want none", *brief.FallbackReason)
	}
	if len(brief.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(brief.Items))
	}
	if brief.Items[0].Summary != "Apple rallied on strong demand" {
		t.Fatalf("summary = %q, want the reason's summary", brief.Items[0].Summary)
	}
}

func TestBuildPartialAggregationWhenReasonsMissing(t *testing.T) {
	now := regularSessionInstant()
	b, s, _ := newTestBuilder(now)
	s.Watchlist.Add("u1", model.MarketUS, "AAPL")

	event := model.PriceEvent{ID: "evt-1", Symbol: "AAPL", Market: model.MarketUS, ChangePct: decimal.NewFromFloat(5), WindowMinutes: 5, DetectedAtUTC: now.Add(-time.Hour)}
	s.CreateEventWithReasons(event, nil)

	brief := b.Build("u1", model.BriefPreMarket, []model.Market{model.MarketUS})
	if brief.FallbackReason == nil || *brief.FallbackReason != model.FallbackPartialAggregation {
		t.Fatalf("fallback reason = %v, want partial_aggregation", brief.FallbackReason)
	}
	if len(brief.Items) != 1 {
		t.Fatalf("got %d items, want 1 (event still included with a synthesized summary)", len(brief.Items))
	}
}

func TestBuildPreMarketExpiresAtNextSessionOpen(t *testing.T) {
	now := regularSessionInstant()
	b, s, _ := newTestBuilder(now)
	s.Watchlist.Add("u1", model.MarketUS, "AAPL")

	brief := b.Build("u1", model.BriefPreMarket, []model.Market{model.MarketUS})
	if !brief.ExpiresAtUTC.After(now) {
		t.Fatalf("expires_at_utc = %v, want after generation time %v", brief.ExpiresAtUTC, now)
	}
}

func TestBuildPostCloseExpiresAfterFixedTTL(t *testing.T) {
	now := regularSessionInstant()
	b, s, _ := newTestBuilder(now)
	s.Watchlist.Add("u1", model.MarketUS, "AAPL")

	brief := b.Build("u1", model.BriefPostClose, []model.Market{model.MarketUS})
	// The fixed clock steps on every read, so the TTL counts from the
	// brief's own generation time rather than from now.
	want := brief.GeneratedAtUTC.Add(24 * time.Hour)
	if !brief.ExpiresAtUTC.Equal(want) {
		t.Fatalf("expires_at_utc = %v, want %v", brief.ExpiresAtUTC, want)
	}
}

func TestGetForUserAndMarkReadRoundtrip(t *testing.T) {
	now := regularSessionInstant()
	b, s, _ := newTestBuilder(now)
	s.Watchlist.Add("u1", model.MarketUS, "AAPL")

	created := b.Build("u1", model.BriefPreMarket, []model.Market{model.MarketUS})
	if created.Status != model.BriefUnread {
		t.Fatalf("status = %s, want unread", created.Status)
	}

	read, err := b.MarkRead(created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if read.Status != model.BriefRead {
		t.Fatalf("status after mark-read = %s, want read", read.Status)
	}
}

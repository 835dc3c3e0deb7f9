package session

import (
	"testing"
	"time"

	"github.com/pricesignal/reasoncore/pkg/model"
)

func usEasternInstant(hour, min int) time.Time {
	loc, _ := time.LoadLocation("America/New_York")
	return time.Date(2026, 1, 6, hour, min, 0, 0, loc).UTC()
}

func TestClassifyRegularSession(t *testing.T) {
	reg := NewRegistry(nil)
	got := reg.For(model.MarketUS).Classify(usEasternInstant(10, 0))
	if got != model.SessionRegular {
		t.Fatalf("classify(10:00) = %s, want regular", got)
	}
}

func TestClassifyPreMarketSession(t *testing.T) {
	reg := NewRegistry(nil)
	got := reg.For(model.MarketUS).Classify(usEasternInstant(7, 0))
	if got != model.SessionPre {
		t.Fatalf("classify(07:00) = %s, want pre", got)
	}
}

func TestClassifyPostMarketSession(t *testing.T) {
	reg := NewRegistry(nil)
	got := reg.For(model.MarketUS).Classify(usEasternInstant(17, 0))
	if got != model.SessionPost {
		t.Fatalf("classify(17:00) = %s, want post", got)
	}
}

func TestClassifyClosedOvernight(t *testing.T) {
	reg := NewRegistry(nil)
	got := reg.For(model.MarketUS).Classify(usEasternInstant(2, 0))
	if got != model.SessionClosed {
		t.Fatalf("classify(02:00) = %s, want closed", got)
	}
}

func TestClassifyHolidayIsAlwaysClosed(t *testing.T) {
	loc, _ := time.LoadLocation("America/New_York")
	cal := mustCalendar("America/New_York", Window{9*time.Hour + 30*time.Minute, 16 * time.Hour}, map[string]bool{"2026-01-06": true})
	regularHours := time.Date(2026, 1, 6, 10, 0, 0, 0, loc).UTC()
	if got := cal.Classify(regularHours); got != model.SessionClosed {
		t.Fatalf("classify during a holiday = %s, want closed", got)
	}
}

func TestIsSessionOpen(t *testing.T) {
	reg := NewRegistry(nil)
	cal := reg.For(model.MarketUS)
	if !cal.IsSessionOpen(usEasternInstant(10, 0)) {
		t.Fatalf("expected regular session hours to be open")
	}
	if cal.IsSessionOpen(usEasternInstant(2, 0)) {
		t.Fatalf("expected overnight hours to be closed")
	}
}

func TestNextSessionOpenSkipsWeekend(t *testing.T) {
	reg := NewRegistry(nil)
	cal := reg.For(model.MarketUS)
	// Saturday at noon Eastern.
	loc, _ := time.LoadLocation("America/New_York")
	saturday := time.Date(2026, 1, 10, 12, 0, 0, 0, loc).UTC()

	open := cal.NextSessionOpen(saturday)
	if open.In(loc).Weekday() == time.Saturday || open.In(loc).Weekday() == time.Sunday {
		t.Fatalf("next session open %v fell on a weekend", open)
	}
}

func TestRegistryFallsBackToUTCForUnknownMarket(t *testing.T) {
	reg := NewRegistry(nil)
	cal := reg.For(model.Market("ZZ"))
	if cal.Timezone != "UTC" {
		t.Fatalf("timezone = %s, want UTC fallback for an unconfigured market", cal.Timezone)
	}
}

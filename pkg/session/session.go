// Package session owns all exchange-timezone and trading-session-calendar
// math. Design note in spec §9 is explicit: "never derive session labels
// from wall-clock strings" — every label in this package is computed from
// a time.Time converted into the exchange's IANA location, never from a
// formatted string.
package session

import (
	"time"

	"github.com/pricesignal/reasoncore/pkg/model"
)

// Window is a local time-of-day half-open interval [Start, End).
type Window struct {
	Start time.Duration // offset from local midnight
	End   time.Duration
}

func (w Window) contains(sinceMidnight time.Duration) bool {
	return sinceMidnight >= w.Start && sinceMidnight < w.End
}

// Calendar is the per-market session schedule. Holidays is a set of
// YYYY-MM-DD local dates on which the market never opens.
type Calendar struct {
	Timezone string
	Pre      Window
	Regular  Window
	Post     Window
	Holidays map[string]bool
	loc      *time.Location
}

// DefaultCalendars is the built-in session schedule, with no holidays.
// Per spec §9(b) this is data, not code; nothing loads calendars from
// config, so cmd/server and the tests both run on this map.
func DefaultCalendars() map[model.Market]*Calendar {
	return map[model.Market]*Calendar{
		model.MarketUS: mustCalendar("America/New_York",
			Window{9*time.Hour + 30*time.Minute, 16 * time.Hour},
			nil),
		model.MarketKR: mustCalendar("Asia/Seoul",
			Window{9 * time.Hour, 15*time.Hour + 30*time.Minute},
			nil),
	}
}

// mustCalendar builds a Calendar with a conventional pre-market window
// starting 5h30m before regular open and a post-market window running
// 4h after regular close; holidays is an optional set supplied by the
// caller (nil means none).
func mustCalendar(tz string, regular Window, holidays map[string]bool) *Calendar {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	if holidays == nil {
		holidays = map[string]bool{}
	}
	return &Calendar{
		Timezone: tz,
		Pre:      Window{regular.Start - 5*time.Hour - 30*time.Minute, regular.Start},
		Regular:  regular,
		Post:     Window{regular.End, regular.End + 4*time.Hour},
		Holidays: holidays,
		loc:      loc,
	}
}

// Location returns the calendar's IANA location, loading UTC as a safe
// fallback if the configured zone failed to load.
func (c *Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// Classify resolves the SessionLabel for an instant in UTC time.
func (c *Calendar) Classify(instantUTC time.Time) model.SessionLabel {
	local := instantUTC.In(c.Location())
	dateKey := local.Format("2006-01-02")
	if c.Holidays[dateKey] {
		return model.SessionClosed
	}

	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	sinceMidnight := local.Sub(midnight)

	switch {
	case c.Regular.contains(sinceMidnight):
		return model.SessionRegular
	case c.Pre.contains(sinceMidnight):
		return model.SessionPre
	case c.Post.contains(sinceMidnight):
		return model.SessionPost
	default:
		return model.SessionClosed
	}
}

// IsSessionOpen reports whether the given instant falls inside any
// tradeable (non-closed) window.
func (c *Calendar) IsSessionOpen(instantUTC time.Time) bool {
	return c.Classify(instantUTC) != model.SessionClosed
}

// NextSessionOpen returns the next regular-session open strictly after
// instantUTC, walking forward day by day and skipping holidays/weekends.
func (c *Calendar) NextSessionOpen(instantUTC time.Time) time.Time {
	local := instantUTC.In(c.Location())
	for i := 0; i < 14; i++ {
		day := local.AddDate(0, 0, i)
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		dateKey := day.Format("2006-01-02")
		if c.Holidays[dateKey] {
			continue
		}
		open := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location()).Add(c.Regular.Start)
		if open.After(instantUTC.In(c.Location())) || i > 0 {
			return open.UTC()
		}
	}
	return instantUTC.Add(24 * time.Hour).UTC()
}

// Registry resolves a Calendar by market, using DefaultCalendars when
// NewRegistry is given nil.
type Registry struct {
	calendars map[model.Market]*Calendar
}

func NewRegistry(calendars map[model.Market]*Calendar) *Registry {
	if calendars == nil {
		calendars = DefaultCalendars()
	}
	return &Registry{calendars: calendars}
}

func (r *Registry) For(m model.Market) *Calendar {
	if c, ok := r.calendars[m]; ok {
		return c
	}
	return mustCalendar("UTC", Window{9 * time.Hour, 17 * time.Hour}, nil)
}

func (r *Registry) TimezoneFor(m model.Market) string {
	return r.For(m).Timezone
}

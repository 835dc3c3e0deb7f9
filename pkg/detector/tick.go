package detector

import (
	"time"

	"github.com/pricesignal/reasoncore/pkg/model"
)

// Tick is one observed trade price for a symbol at an instant.
type Tick struct {
	Market       model.Market
	Symbol       string
	TimestampUTC time.Time
	Price        float64
}

type symbolKey struct {
	Market model.Market
	Symbol string
}

// tickSeries is a time-ordered ring of recent ticks for one symbol, trimmed
// to the detector's configured maximum lookback window on every append so
// memory use stays bounded regardless of tick rate.
type tickSeries struct {
	ticks []Tick
}

func (s *tickSeries) append(t Tick, maxAge time.Duration) {
	s.ticks = append(s.ticks, t)
	cutoff := t.TimestampUTC.Add(-maxAge)
	i := 0
	for i < len(s.ticks) && s.ticks[i].TimestampUTC.Before(cutoff) {
		i++
	}
	if i > 0 {
		s.ticks = s.ticks[i:]
	}
}

// withinWindow returns the earliest tick at or after windowStart, and the
// latest tick overall. ok is false when fewer than two ticks fall in the
// window (spec §4.2 edge case).
func (s *tickSeries) withinWindow(windowStart time.Time) (reference Tick, last Tick, ok bool) {
	var matched []Tick
	for _, t := range s.ticks {
		if !t.TimestampUTC.Before(windowStart) {
			matched = append(matched, t)
		}
	}
	if len(matched) < 2 {
		return Tick{}, Tick{}, false
	}
	return matched[0], matched[len(matched)-1], true
}

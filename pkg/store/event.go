package store

import (
	"sort"
	"sync"
	"time"

	"github.com/pricesignal/reasoncore/pkg/apperr"
	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/model"
)

// EventStore owns PriceEvent rows. Events are immutable after creation;
// there is no Update method by design.
type EventStore struct {
	mu    sync.RWMutex
	clock clock.Clock
	byID  map[string]model.PriceEvent
}

func newEventStore(c clock.Clock) *EventStore {
	return &EventStore{clock: c, byID: make(map[string]model.PriceEvent)}
}

func (s *EventStore) insert(e model.PriceEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[e.ID] = e
}

func (s *EventStore) GetByID(id string) (model.PriceEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byID[id]
	if !ok {
		return model.PriceEvent{}, apperr.NotFound("event")
	}
	return e, nil
}

// ListForUser returns events for any symbol the user watches, detected
// within the last `within` duration, newest first, paginated by an
// opaque cursor (the detected-at timestamp of the last item already seen).
func (s *EventStore) ListForUser(symbols map[string]bool, within time.Duration, now time.Time, size int, cursor time.Time) ([]model.PriceEvent, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := now.Add(-within)
	var matched []model.PriceEvent
	for _, e := range s.byID {
		sym := string(e.Market) + ":" + e.Symbol
		if !symbols[sym] {
			continue
		}
		if e.DetectedAtUTC.Before(cutoff) {
			continue
		}
		if !cursor.IsZero() && !e.DetectedAtUTC.Before(cursor) {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].DetectedAtUTC.After(matched[j].DetectedAtUTC) })
	if len(matched) > size {
		matched = matched[:size]
	}
	var next time.Time
	if len(matched) > 0 {
		next = matched[len(matched)-1].DetectedAtUTC
	}
	return matched, next
}

// ListInRange returns every event (regardless of owner or watchlist)
// detected in [from, to), newest first, capped at size. Used by the B2B
// summary endpoint, which is scoped by tenant symbol allowlist rather
// than by any one user's watchlist.
func (s *EventStore) ListInRange(from, to time.Time, size int) []model.PriceEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []model.PriceEvent
	for _, e := range s.byID {
		if e.DetectedAtUTC.Before(from) || !e.DetectedAtUTC.Before(to) {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].DetectedAtUTC.After(matched[j].DetectedAtUTC) })
	if size > 0 && len(matched) > size {
		matched = matched[:size]
	}
	return matched
}

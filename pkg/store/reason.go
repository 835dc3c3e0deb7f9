package store

import (
	"sort"
	"sync"

	"github.com/pricesignal/reasoncore/pkg/apperr"
	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/model"
	"github.com/shopspring/decimal"
)

// ReasonStore owns EventReason rows, keyed by event so the Reason Engine
// can replace an event's reason set atomically (see CreateEventWithReasons
// in commit.go and ReplaceForEvent below, used by reruns in §4.3).
type ReasonStore struct {
	mu        sync.RWMutex
	clock     clock.Clock
	byEventID map[string][]model.EventReason
	byID      map[string]model.EventReason
}

func newReasonStore(c clock.Clock) *ReasonStore {
	return &ReasonStore{clock: c, byEventID: make(map[string][]model.EventReason), byID: make(map[string]model.EventReason)}
}

func (s *ReasonStore) insert(eventID string, reasons []model.EventReason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byEventID[eventID] = append([]model.EventReason{}, reasons...)
	for _, r := range reasons {
		s.byID[r.ID] = r
	}
}

func (s *ReasonStore) ListByEvent(eventID string) []model.EventReason {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]model.EventReason{}, s.byEventID[eventID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}

func (s *ReasonStore) GetByID(id string) (model.EventReason, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byID[id]
	if !ok {
		return model.EventReason{}, apperr.NotFound("reason")
	}
	return r, nil
}

// ReplaceForEvent swaps an event's reason set in one write, used by Reason
// Engine reruns (§4.3 "Reruns... update the existing reason row"). Reasons
// not present in the new set are dropped; reasons present in both keep
// their id and created_at if the canonical URL matches, via the caller's
// merge, and take the rank of the new ranking.
func (s *ReasonStore) ReplaceForEvent(eventID string, reasons []model.EventReason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, old := range s.byEventID[eventID] {
		delete(s.byID, old.ID)
	}
	s.byEventID[eventID] = append([]model.EventReason{}, reasons...)
	for _, r := range reasons {
		s.byID[r.ID] = r
	}
}

// UpdateConfidence mutates a single reason's confidence score and
// breakdown in place. The report state machine does not call it: a rerun
// replaces the whole reason set through ReplaceForEvent.
func (s *ReasonStore) UpdateConfidence(reasonID string, score decimal.Decimal, breakdown *model.ConfidenceBreakdown) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[reasonID]
	if !ok {
		return apperr.NotFound("reason")
	}
	r.ConfidenceScore = score
	r.ConfidenceBreakdown = breakdown
	s.byID[reasonID] = r
	for i, existing := range s.byEventID[r.EventID] {
		if existing.ID == reasonID {
			s.byEventID[r.EventID][i] = r
		}
	}
	return nil
}

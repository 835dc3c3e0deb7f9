package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/model"
	"github.com/shopspring/decimal"
)

// RevisionStore is the append-only log of ReasonRevision rows.
type RevisionStore struct {
	mu      sync.Mutex
	clock   clock.Clock
	byEvent map[string][]model.ReasonRevision
}

func newRevisionStore(c clock.Clock) *RevisionStore {
	return &RevisionStore{clock: c, byEvent: make(map[string][]model.ReasonRevision)}
}

// Append records a confidence revision. revisedAt is supplied by the caller
// rather than taken from the clock here, so an orchestrator resolving a
// report can stamp the revision with the exact same instant as the
// resolve transition it accompanies (spec §4.4).
func (s *RevisionStore) Append(reportID, eventID, reasonID string, before, after decimal.Decimal, reason string, revisedAt time.Time) model.ReasonRevision {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := model.ReasonRevision{
		ID:               uuid.NewString(),
		ReportID:         reportID,
		EventID:          eventID,
		ReasonID:         reasonID,
		ConfidenceBefore: before,
		ConfidenceAfter:  after,
		RevisionReason:   reason,
		RevisedAtUTC:     revisedAt,
	}
	s.byEvent[eventID] = append(s.byEvent[eventID], r)
	return r
}

func (s *RevisionStore) ListByEvent(eventID string) []model.ReasonRevision {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]model.ReasonRevision{}, s.byEvent[eventID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].RevisedAtUTC.Before(out[j].RevisedAtUTC) })
	return out
}

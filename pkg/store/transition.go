package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/model"
)

// TransitionStore is the append-only log of ReasonStatusTransition rows.
type TransitionStore struct {
	mu      sync.Mutex
	clock   clock.Clock
	byEvent map[string][]model.ReasonStatusTransition
}

func newTransitionStore(c clock.Clock) *TransitionStore {
	return &TransitionStore{clock: c, byEvent: make(map[string][]model.ReasonStatusTransition)}
}

// Append records a state change at changedAt. The caller supplies the
// instant (rather than this store calling its own clock) so a resolve
// transition and its accompanying ReasonRevision can share one timestamp.
func (s *TransitionStore) Append(reportID, eventID string, from, to model.ReportState, note string, changedAt time.Time) model.ReasonStatusTransition {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := model.ReasonStatusTransition{
		ID:           uuid.NewString(),
		ReportID:     reportID,
		EventID:      eventID,
		FromStatus:   from,
		ToStatus:     to,
		ChangedAtUTC: changedAt,
		Note:         note,
	}
	s.byEvent[eventID] = append(s.byEvent[eventID], t)
	return t
}

func (s *TransitionStore) ListByEvent(eventID string) []model.ReasonStatusTransition {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]model.ReasonStatusTransition{}, s.byEvent[eventID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].ChangedAtUTC.Before(out[j].ChangedAtUTC) })
	return out
}

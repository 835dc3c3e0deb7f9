package store

import (
	"sync"

	"github.com/pricesignal/reasoncore/pkg/model"
)

// CompareStore caches the derived EvidenceCompare payload per event.
// Unlike the other aggregates it carries no clock of its own: the
// GeneratedAtUTC stamp is computed by pkg/compare, which already holds a
// Clock, and stored verbatim.
type CompareStore struct {
	mu   sync.RWMutex
	byID map[string]model.EvidenceCompare
}

func newCompareStore() *CompareStore {
	return &CompareStore{byID: make(map[string]model.EvidenceCompare)}
}

// Put overwrites the cached comparison for an event. Invalidate drops the
// entry instead, which is safe because an event's EvidenceCompare is
// always recomputable from its reasons.
func (s *CompareStore) Put(c model.EvidenceCompare) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[c.EventID] = c
}

func (s *CompareStore) Get(eventID string) (model.EvidenceCompare, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[eventID]
	return c, ok
}

func (s *CompareStore) Invalidate(eventID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, eventID)
}

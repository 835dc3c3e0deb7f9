package store

import (
	"sync"

	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/model"
)

// FeedbackStore owns Feedback rows, keyed by (user, event, reason). Last
// write wins; the second call for the same key reports Overwritten=true.
type FeedbackStore struct {
	mu    sync.Mutex
	clock clock.Clock
	byKey map[string]model.Feedback
}

func newFeedbackStore(c clock.Clock) *FeedbackStore {
	return &FeedbackStore{clock: c, byKey: make(map[string]model.Feedback)}
}

func feedbackKey(userID, eventID, reasonID string) string {
	return userID + "|" + eventID + "|" + reasonID
}

func (s *FeedbackStore) Upsert(userID, eventID, reasonID string, vote model.Vote) (model.Feedback, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := feedbackKey(userID, eventID, reasonID)
	now := s.clock.NowUTC()
	existing, overwritten := s.byKey[k]
	f := model.Feedback{
		UserID:       userID,
		EventID:      eventID,
		ReasonID:     reasonID,
		Vote:         vote,
		UpdatedAtUTC: now,
	}
	if overwritten {
		f.CreatedAtUTC = existing.CreatedAtUTC
	} else {
		f.CreatedAtUTC = now
	}
	s.byKey[k] = f
	return f, overwritten
}

func (s *FeedbackStore) Get(userID, eventID, reasonID string) (model.Feedback, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.byKey[feedbackKey(userID, eventID, reasonID)]
	return f, ok
}

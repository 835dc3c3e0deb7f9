package store

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pricesignal/reasoncore/pkg/apperr"
	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/model"
)

// BriefStore owns scheduled digest rows. A Brief is immutable except for
// its per-user Status (unread -> read); there is no backward transition.
type BriefStore struct {
	mu     sync.Mutex
	clock  clock.Clock
	byID   map[string]model.Brief
	byUser map[string][]string // userID -> brief ids, newest last
}

func newBriefStore(c clock.Clock) *BriefStore {
	return &BriefStore{
		clock:  c,
		byID:   make(map[string]model.Brief),
		byUser: make(map[string][]string),
	}
}

// Create inserts a freshly generated brief in the unread state.
func (s *BriefStore) Create(b model.Brief) model.Brief {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = uuid.NewString()
	b.Status = model.BriefUnread
	s.byID[b.ID] = b
	s.byUser[b.UserID] = append(s.byUser[b.UserID], b.ID)
	return b
}

func (s *BriefStore) GetByID(id string) (model.Brief, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byID[id]
	if !ok {
		return model.Brief{}, apperr.NotFound("brief")
	}
	return b, nil
}

func (s *BriefStore) MarkRead(id string) (model.Brief, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.byID[id]
	if !ok {
		return model.Brief{}, apperr.NotFound("brief")
	}
	if b.Status == model.BriefUnread {
		b.Status = model.BriefRead
		s.byID[id] = b
	}
	return b, nil
}

// ListByUser returns a user's briefs newest-first, paginated.
func (s *BriefStore) ListByUser(userID string, page, size int) ([]model.Brief, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.byUser[userID]
	out := make([]model.Brief, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.byID[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GeneratedAtUTC.After(out[j].GeneratedAtUTC) })
	total := len(out)
	start := (page - 1) * size
	if start < 0 || start >= total {
		return nil, total
	}
	end := start + size
	if end > total {
		end = total
	}
	return out[start:end], total
}

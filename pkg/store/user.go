package store

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pricesignal/reasoncore/pkg/apperr"
	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/model"
)

// UserStore is the User aggregate owner: one writer mutex, map-backed.
type UserStore struct {
	mu        sync.RWMutex
	clock     clock.Clock
	byID      map[string]model.User
	byEmail   map[string]string // lowercased email -> id
}

func newUserStore(c clock.Clock) *UserStore {
	return &UserStore{clock: c, byID: make(map[string]model.User), byEmail: make(map[string]string)}
}

// Create validates the unique-email invariant and inserts a new User.
func (s *UserStore) Create(email, passwordVerifier, locale string) (model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || passwordVerifier == "" {
		return model.User{}, apperr.InvalidInput("email and password are required")
	}
	key := strings.ToLower(email)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byEmail[key]; exists {
		return model.User{}, apperr.New(apperr.CodeEmailAlreadyExists, "email already exists")
	}
	now := s.clock.NowUTC()
	u := model.User{
		ID:               uuid.NewString(),
		Email:            email,
		PasswordVerifier: passwordVerifier,
		Locale:           locale,
		CreatedAtUTC:     now,
		UpdatedAtUTC:     now,
	}
	s.byID[u.ID] = u
	s.byEmail[key] = u.ID
	return u, nil
}

func (s *UserStore) GetByID(id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return model.User{}, apperr.NotFound("user")
	}
	return u, nil
}

func (s *UserStore) GetByEmail(email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return model.User{}, apperr.NotFound("user")
	}
	return s.byID[id], nil
}

// AllIDs returns every user id, used by pkg/scheduler to fan out brief
// generation and stale-notification promotion across all accounts.
func (s *UserStore) AllIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	return ids
}

// UpdateProfile mutates locale on an existing user (the only permitted
// profile edit per spec §3).
func (s *UserStore) UpdateProfile(id, locale string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return model.User{}, apperr.NotFound("user")
	}
	u.Locale = locale
	u.UpdatedAtUTC = s.clock.NowUTC()
	s.byID[id] = u
	return u, nil
}

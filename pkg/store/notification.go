package store

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/pricesignal/reasoncore/pkg/apperr"
	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/model"
	"github.com/shopspring/decimal"
)

// NotificationStore owns per-(user, event) Notification rounds. The
// cooldown/delta-realert decision lives in pkg/notifier; this store only
// records the outcome and answers the queries that decision needs.
type NotificationStore struct {
	mu       sync.Mutex
	clock    clock.Clock
	byID     map[string]model.Notification
	byUser   map[string][]string            // userID -> notification ids, newest last
	lastSent map[string]model.Notification // userID|eventID -> most recent round
}

func newNotificationStore(c clock.Clock) *NotificationStore {
	return &NotificationStore{
		clock:    c,
		byID:     make(map[string]model.Notification),
		byUser:   make(map[string][]string),
		lastSent: make(map[string]model.Notification),
	}
}

func notificationRoundKey(userID, eventID string) string {
	return userID + "|" + eventID
}

// LastForEventUser returns the most recent notification round sent to a
// user for one event id. The Notifier's cooldown check does not use it:
// it compares against the newest round for the same (market, symbol).
func (s *NotificationStore) LastForEventUser(userID, eventID string) (model.Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.lastSent[notificationRoundKey(userID, eventID)]
	return n, ok
}

// Create records a new notification round as sent. changePct is the
// triggering event's change_pct; priorChangePct is the previous round's
// change_pct, set only when isDelta is true.
func (s *NotificationStore) Create(userID, eventID, symbol string, market model.Market, channel model.NotificationChannel, message string, changePct decimal.Decimal, isDelta bool, priorChangePct decimal.Decimal) model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := model.Notification{
		ID:             uuid.NewString(),
		UserID:         userID,
		EventID:        eventID,
		Symbol:         symbol,
		Market:         market,
		Channel:        channel,
		Status:         model.NotificationSent,
		Message:        message,
		ChangePct:      changePct,
		IsDelta:        isDelta,
		PriorChangePct: priorChangePct,
		SentAtUTC:      s.clock.NowUTC(),
	}
	s.byID[n.ID] = n
	s.byUser[userID] = append(s.byUser[userID], n.ID)
	s.lastSent[notificationRoundKey(userID, eventID)] = n
	return n
}

func (s *NotificationStore) MarkRead(id string) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.byID[id]
	if !ok {
		return model.Notification{}, apperr.NotFound("notification")
	}
	if n.Status == model.NotificationSent {
		now := s.clock.NowUTC()
		n.Status = model.NotificationRead
		n.ReadAtUTC = &now
		s.byID[id] = n
	}
	return n, nil
}

func (s *NotificationStore) MarkCooldown(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.byID[id]
	if !ok {
		return apperr.NotFound("notification")
	}
	if n.Status == model.NotificationSent {
		n.Status = model.NotificationCooldown
		s.byID[id] = n
	}
	return nil
}

// ListByUser returns a user's notifications newest-first, paginated.
func (s *NotificationStore) ListByUser(userID string, page, size int) ([]model.Notification, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.byUser[userID]
	out := make([]model.Notification, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.byID[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAtUTC.After(out[j].SentAtUTC) })
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

func (s *NotificationStore) UnreadCount(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, id := range s.byUser[userID] {
		if s.byID[id].Status == model.NotificationSent {
			count++
		}
	}
	return count
}

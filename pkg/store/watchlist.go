package store

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pricesignal/reasoncore/pkg/apperr"
	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/model"
)

// WatchlistStore owns WatchlistItem rows. (user, market, ticker) is
// unique; deleting an item frees the key for reuse (spec §8 round-trip
// law: create, delete, create again succeeds and is not a duplicate).
type WatchlistStore struct {
	mu      sync.RWMutex
	clock   clock.Clock
	byID    map[string]model.WatchlistItem
	byKey   map[string]string // user|market|ticker -> id, only while live
}

func newWatchlistStore(c clock.Clock) *WatchlistStore {
	return &WatchlistStore{clock: c, byID: make(map[string]model.WatchlistItem), byKey: make(map[string]string)}
}

func watchlistKey(userID string, market model.Market, ticker string) string {
	return userID + "|" + string(market) + "|" + strings.ToUpper(ticker)
}

// Add inserts a watchlist item, reporting IsDuplicate=true (without error)
// if the (user, market, ticker) triple is already live, matching §6's
// `{item, is_duplicate}` response shape.
func (s *WatchlistStore) Add(userID string, market model.Market, ticker string) (model.WatchlistItem, bool, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" || (market != model.MarketKR && market != model.MarketUS) {
		return model.WatchlistItem{}, false, apperr.InvalidInput("market and ticker are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	k := watchlistKey(userID, market, ticker)
	if id, exists := s.byKey[k]; exists {
		return s.byID[id], true, nil
	}
	item := model.WatchlistItem{
		ID:           uuid.NewString(),
		UserID:       userID,
		Market:       market,
		Ticker:       ticker,
		CreatedAtUTC: s.clock.NowUTC(),
	}
	s.byID[item.ID] = item
	s.byKey[k] = item.ID
	return item, false, nil
}

func (s *WatchlistStore) Remove(userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.byID[id]
	if !ok || item.UserID != userID {
		return apperr.NotFound("watchlist item")
	}
	delete(s.byID, id)
	delete(s.byKey, watchlistKey(item.UserID, item.Market, item.Ticker))
	return nil
}

// ListByUser returns a stable-ordered (by created-at ascending) page.
func (s *WatchlistStore) ListByUser(userID string, page, size int) ([]model.WatchlistItem, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var all []model.WatchlistItem
	for _, item := range s.byID {
		if item.UserID == userID {
			all = append(all, item)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAtUTC.Before(all[j].CreatedAtUTC) })
	total := len(all)
	start := (page - 1) * size
	if start < 0 || start >= total {
		return nil, total
	}
	end := start + size
	if end > total {
		end = total
	}
	return all[start:end], total
}

// AllSymbolsByUser returns every (market, ticker) the user is watching,
// used by the Detector and Brief Builder.
func (s *WatchlistStore) AllSymbolsByUser(userID string) []model.WatchlistItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.WatchlistItem
	for _, item := range s.byID {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out
}

// WatchersOf returns every user id watching (market, ticker), used by the
// orchestrator to pick who is notified about a processed event.
func (s *WatchlistStore) WatchersOf(market model.Market, ticker string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ticker = strings.ToUpper(ticker)
	var users []string
	for _, item := range s.byID {
		if item.Market == market && item.Ticker == ticker {
			users = append(users, item.UserID)
		}
	}
	return users
}

package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pricesignal/reasoncore/pkg/apperr"
	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/model"
	"github.com/shopspring/decimal"
)

// ThresholdStore owns per (user, window_minutes) Threshold rows with
// upsert semantics: one row per window.
type ThresholdStore struct {
	mu    sync.RWMutex
	clock clock.Clock
	byKey map[string]model.Threshold
}

func newThresholdStore(c clock.Clock) *ThresholdStore {
	return &ThresholdStore{clock: c, byKey: make(map[string]model.Threshold)}
}

func thresholdKey(userID string, window int) string {
	return fmt.Sprintf("%s|%d", userID, window)
}

func (s *ThresholdStore) Upsert(userID string, windowMinutes int, thresholdPct decimal.Decimal) (model.Threshold, error) {
	if windowMinutes <= 0 {
		return model.Threshold{}, apperr.InvalidInput("window_minutes must be positive")
	}
	if thresholdPct.IsNegative() {
		return model.Threshold{}, apperr.InvalidInput("threshold_pct must be non-negative")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := model.Threshold{
		UserID:        userID,
		WindowMinutes: windowMinutes,
		ThresholdPct:  thresholdPct,
		UpdatedAtUTC:  s.clock.NowUTC(),
	}
	s.byKey[thresholdKey(userID, windowMinutes)] = t
	return t, nil
}

func (s *ThresholdStore) ListByUser(userID string) []model.Threshold {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Threshold
	for _, t := range s.byKey {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WindowMinutes < out[j].WindowMinutes })
	return out
}

// Effective returns the user's threshold for windowMinutes, or fallback
// if none was ever upserted (spec §4.2's "system default" case).
func (s *ThresholdStore) Effective(userID string, windowMinutes int, fallback decimal.Decimal) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.byKey[thresholdKey(userID, windowMinutes)]; ok {
		return t.ThresholdPct
	}
	return fallback
}

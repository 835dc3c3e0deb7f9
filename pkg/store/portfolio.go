package store

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pricesignal/reasoncore/pkg/apperr"
	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/model"
	"github.com/shopspring/decimal"
)

// PortfolioStore owns PortfolioHolding rows. (user, symbol) is unique; a
// second upsert for the same symbol updates the existing row's qty and
// avg_price in place rather than creating a second one.
type PortfolioStore struct {
	mu    sync.RWMutex
	clock clock.Clock
	byID  map[string]model.PortfolioHolding
	byKey map[string]string // user|symbol -> id
}

func newPortfolioStore(c clock.Clock) *PortfolioStore {
	return &PortfolioStore{clock: c, byID: make(map[string]model.PortfolioHolding), byKey: make(map[string]string)}
}

func portfolioKey(userID, symbol string) string {
	return userID + "|" + strings.ToUpper(symbol)
}

// Upsert inserts a new holding, or updates the existing (user, symbol)
// row's qty/avg_price in place, reporting created=true only on insert.
func (s *PortfolioStore) Upsert(userID, symbol string, qty, avgPrice decimal.Decimal) (model.PortfolioHolding, bool, error) {
	userID = strings.TrimSpace(userID)
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if userID == "" || symbol == "" {
		return model.PortfolioHolding{}, false, apperr.InvalidInput("user and symbol are required")
	}
	if !qty.IsPositive() {
		return model.PortfolioHolding{}, false, apperr.InvalidInput("qty must be > 0")
	}
	if !avgPrice.IsPositive() {
		return model.PortfolioHolding{}, false, apperr.InvalidInput("avg_price must be > 0")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.NowUTC()
	k := portfolioKey(userID, symbol)
	if id, exists := s.byKey[k]; exists {
		holding := s.byID[id]
		holding.Qty = qty
		holding.AvgPrice = avgPrice
		holding.UpdatedAtUTC = now
		s.byID[id] = holding
		return holding, false, nil
	}
	holding := model.PortfolioHolding{
		ID:           uuid.NewString(),
		UserID:       userID,
		Symbol:       symbol,
		Qty:          qty,
		AvgPrice:     avgPrice,
		CreatedAtUTC: now,
		UpdatedAtUTC: now,
	}
	s.byID[holding.ID] = holding
	s.byKey[k] = holding.ID
	return holding, true, nil
}

// ListByUser returns every holding for userID, ordered by symbol.
func (s *PortfolioStore) ListByUser(userID string) []model.PortfolioHolding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.PortfolioHolding
	for _, h := range s.byID {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// GetBySymbol returns userID's holding in symbol, if any.
func (s *PortfolioStore) GetBySymbol(userID, symbol string) (model.PortfolioHolding, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byKey[portfolioKey(userID, symbol)]
	if !ok {
		return model.PortfolioHolding{}, false
	}
	return s.byID[id], true
}

// Delete removes holdingID if userID owns it. Returns
// apperr.CodePortfolioHoldingNotFound, never a bare not-found generic,
// both when the id doesn't exist and when it belongs to someone else —
// callers can't distinguish the two, matching the original system's
// "deleted == False" catch-all.
func (s *PortfolioStore) Delete(userID, holdingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	holding, ok := s.byID[holdingID]
	if !ok || holding.UserID != userID {
		return apperr.New(apperr.CodePortfolioHoldingNotFound, "portfolio holding not found")
	}
	delete(s.byID, holdingID)
	delete(s.byKey, portfolioKey(holding.UserID, holding.Symbol))
	return nil
}

// Package model defines the entity contracts shared across the store,
// detector, reason engine, report state machine, notifier, brief builder
// and HTTP surface.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is a signed-up account. Created on signup; mutated only on profile
// edit; never destroyed while owning watchlist items, reports or feedback.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	PasswordVerifier string    `json:"-"`
	Locale           string    `json:"locale"`
	CreatedAtUTC     time.Time `json:"created_at_utc"`
	UpdatedAtUTC     time.Time `json:"updated_at_utc"`
}

// Market is one of the two supported equity markets.
type Market string

const (
	MarketKR Market = "KR"
	MarketUS Market = "US"
)

// WatchlistItem is a (user, market, ticker) the user tracks for detection.
type WatchlistItem struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Market       Market    `json:"market"`
	Ticker       string    `json:"ticker"`
	CreatedAtUTC time.Time `json:"created_at_utc"`
}

// Threshold is a per (user, window_minutes) sensitivity override.
// ThresholdPct is interpreted as |±pct| and must be non-negative.
type Threshold struct {
	UserID        string          `json:"user_id"`
	WindowMinutes int             `json:"window_minutes"`
	ThresholdPct  decimal.Decimal `json:"threshold_pct"`
	UpdatedAtUTC  time.Time       `json:"updated_at_utc"`
}

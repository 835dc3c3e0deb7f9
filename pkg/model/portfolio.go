package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioHolding is a (user, symbol) position size the user has told the
// system about, used only to estimate a price event's dollar impact on
// them. One row per (user, symbol); a second upsert for the same symbol
// replaces qty/avg_price in place rather than adding a second row.
type PortfolioHolding struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Symbol       string          `json:"symbol"`
	Qty          decimal.Decimal `json:"qty"`
	AvgPrice     decimal.Decimal `json:"avg_price"`
	CreatedAtUTC time.Time       `json:"created_at_utc"`
	UpdatedAtUTC time.Time       `json:"updated_at_utc"`
}

// PortfolioImpact is the estimated P&L a PriceEvent has on one holding,
// attached to an event-detail response when the caller holds that symbol.
type PortfolioImpact struct {
	Symbol             string          `json:"symbol"`
	Currency           string          `json:"currency"`
	Qty                decimal.Decimal `json:"qty"`
	AvgPrice           decimal.Decimal `json:"avg_price"`
	ChangePct          decimal.Decimal `json:"change_pct"`
	ExposureAmount     decimal.Decimal `json:"exposure_amount"`
	EstimatedPnLAmount decimal.Decimal `json:"estimated_pnl_amount"`
}

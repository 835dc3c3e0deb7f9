// Package portfolio estimates the P&L impact a detected price event has
// on a holding the caller has told the system about. Grounded on
// original_source/apps/domain/portfolio_impact.py's
// estimate_portfolio_event_impact, carried over as plain decimal
// arithmetic rather than SQL-backed domain code since this system's
// portfolio state lives in pkg/store like every other aggregate.
package portfolio

import (
	"github.com/pricesignal/reasoncore/pkg/apperr"
	"github.com/pricesignal/reasoncore/pkg/model"
	"github.com/shopspring/decimal"
)

// marketCurrencies mirrors _MARKET_CURRENCIES: the only two markets this
// system tracks, each quoted in its home currency.
var marketCurrencies = map[model.Market]string{
	model.MarketUS: "USD",
	model.MarketKR: "KRW",
}

// EstimateImpact computes exposure_amount = qty*avg_price and
// estimated_pnl_amount = exposure_amount*(change_pct/100) for one
// holding against one event's change_pct, in the holding's market
// currency. No FX conversion: nothing in this system's API surface lets
// a caller ask for impact in a currency other than the position's own.
func EstimateImpact(market model.Market, symbol string, qty, avgPrice, changePct decimal.Decimal) (model.PortfolioImpact, error) {
	currency, ok := marketCurrencies[market]
	if !ok {
		return model.PortfolioImpact{}, apperr.InvalidInput("market must be KR or US")
	}
	if !qty.IsPositive() || !avgPrice.IsPositive() {
		return model.PortfolioImpact{}, apperr.InvalidInput("qty and avg_price must be > 0")
	}

	exposure := qty.Mul(avgPrice).Round(4)
	pnl := exposure.Mul(changePct.Div(decimal.NewFromInt(100))).Round(4)

	return model.PortfolioImpact{
		Symbol:             symbol,
		Currency:           currency,
		Qty:                qty,
		AvgPrice:           avgPrice,
		ChangePct:          changePct,
		ExposureAmount:     exposure,
		EstimatedPnLAmount: pnl,
	}, nil
}

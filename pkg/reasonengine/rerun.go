package reasonengine

import (
	"context"

	"github.com/pricesignal/reasoncore/pkg/adapter"
	"github.com/pricesignal/reasoncore/pkg/model"
	"github.com/shopspring/decimal"
)

// Rerun repeats canonicalize/score/rank (spec §4.3 steps 3-5) against
// freshly fetched candidates for the reason's event, and returns the
// recomputed confidence total for the specific reason being revised along
// with the full refreshed top-3 reason set. The caller (pkg/reportsm) is
// responsible for persisting the before/after pair as a ReasonRevision and
// replacing the event's reason rows.
func (e *Engine) Rerun(ctx context.Context, event model.PriceEvent, targetCanonicalURL string) (refreshed []model.EventReason, matchedTotal decimal.Decimal, found bool) {
	tr := adapter.TimeRange{
		Start: event.DetectedAtUTC.Add(-e.cfg.Lookback),
		End:   event.DetectedAtUTC.Add(e.cfg.Trailing),
	}
	raw, _ := e.fetchAll(ctx, event.Market, event.Symbol, tr)
	reasons := e.scoreAndRank(raw, event)

	for _, r := range reasons {
		if r.CanonicalURL == targetCanonicalURL {
			return reasons, r.ConfidenceScore, true
		}
	}
	return reasons, decimal.Zero, false
}

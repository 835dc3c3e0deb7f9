package reasonengine

import (
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ReputationTable maps a lowercased host to a static source_reliability
// score in [0,1]. Per spec §9(b) this is data, not code. No loader fills
// it: cmd/server starts with an empty table, so every host gets the 0.3
// fallback score.
type ReputationTable map[string]decimal.Decimal

func (t ReputationTable) lookup(host string) decimal.Decimal {
	if v, ok := t[strings.ToLower(host)]; ok {
		return v
	}
	return decimal.NewFromFloat(0.3) // unknown host: low but nonzero trust
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// sourceReliability is signal 1 (spec §4.3 step 4): a static lookup by
// host in the reputation table.
func sourceReliability(rawURL string, table ReputationTable) decimal.Decimal {
	return table.lookup(hostOf(rawURL))
}

// eventMatch is signal 2: lexical overlap between the candidate's raw
// text and the event's descriptors (symbol plus market), normalized to
// [0,1] by the fraction of descriptor tokens present in the candidate.
func eventMatch(rawText string, descriptors []string) decimal.Decimal {
	if len(descriptors) == 0 {
		return decimal.Zero
	}
	lower := strings.ToLower(rawText)
	hits := 0
	for _, d := range descriptors {
		if d == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(d)) {
			hits++
		}
	}
	return decimal.NewFromInt(int64(hits)).Div(decimal.NewFromInt(int64(len(descriptors)))).Round(4)
}

// timeProximity is signal 3: max(0, 1 - |published_at - detected_at| /
// proximity_horizon).
func timeProximity(publishedAt, detectedAt time.Time, horizon time.Duration) decimal.Decimal {
	if horizon <= 0 {
		return decimal.Zero
	}
	delta := publishedAt.Sub(detectedAt)
	if delta < 0 {
		delta = -delta
	}
	ratio := decimal.NewFromFloat(delta.Seconds()).Div(decimal.NewFromFloat(horizon.Seconds()))
	score := decimal.NewFromInt(1).Sub(ratio)
	if score.IsNegative() {
		return decimal.Zero
	}
	return score.Round(4)
}

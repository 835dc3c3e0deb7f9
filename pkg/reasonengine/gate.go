package reasonengine

import (
	"strings"
	"time"

	"github.com/pricesignal/reasoncore/pkg/adapter"
)

// gatedCandidate is a Candidate that has passed the quality gate and
// carries its canonical URL, ready for dedup and scoring.
type gatedCandidate struct {
	adapter.Candidate
	canonicalURL string
}

// qualityGate implements spec §4.3 step 2: drop any candidate lacking an
// http/https source_url, lacking published_at, whose summary is empty
// after whitespace trim, or whose published_at falls later than
// detectedAt+tolerance (spec §8: "published_at ≤ detected_at_utc +
// tolerance").
func qualityGate(candidates []adapter.Candidate, detectedAt time.Time, tolerance time.Duration) []gatedCandidate {
	var out []gatedCandidate
	for _, c := range candidates {
		if !IsHTTPURL(c.SourceURL) {
			continue
		}
		if !c.HasPublishedAt {
			continue
		}
		if c.PublishedAtUTC.After(detectedAt.Add(tolerance)) {
			continue
		}
		summary := strings.TrimSpace(c.Summary)
		if summary == "" {
			continue
		}
		c.Summary = summary
		canonical, err := CanonicalizeURL(c.SourceURL)
		if err != nil {
			continue
		}
		out = append(out, gatedCandidate{Candidate: c, canonicalURL: canonical})
	}
	return out
}

// dedupeByCanonicalURL implements spec §4.3 step 3's merge rule: two
// candidates with identical canonical URL merge, preferring the earlier
// published_at and the longer non-empty summary.
func dedupeByCanonicalURL(candidates []gatedCandidate) []gatedCandidate {
	byURL := make(map[string]gatedCandidate)
	order := make([]string, 0, len(candidates))
	for _, c := range candidates {
		existing, ok := byURL[c.canonicalURL]
		if !ok {
			byURL[c.canonicalURL] = c
			order = append(order, c.canonicalURL)
			continue
		}
		byURL[c.canonicalURL] = mergeCandidates(existing, c)
	}
	out := make([]gatedCandidate, 0, len(order))
	for _, u := range order {
		out = append(out, byURL[u])
	}
	return out
}

func mergeCandidates(a, b gatedCandidate) gatedCandidate {
	merged := a
	if b.PublishedAtUTC.Before(a.PublishedAtUTC) {
		merged.PublishedAtUTC = b.PublishedAtUTC
	}
	if len(b.Summary) > len(merged.Summary) {
		merged.Summary = b.Summary
	}
	if merged.RawText == "" {
		merged.RawText = b.RawText
	}
	return merged
}

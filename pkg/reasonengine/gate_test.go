package reasonengine

import (
	"testing"
	"time"

	"github.com/pricesignal/reasoncore/pkg/adapter"
)

func TestQualityGateDropsMalformedCandidates(t *testing.T) {
	now := time.Now()
	candidates := []adapter.Candidate{
		{SourceURL: "https://example.com/a", Summary: "  Apple beats earnings  ", HasPublishedAt: true, PublishedAtUTC: now},
		{SourceURL: "not a url", Summary: "missing scheme", HasPublishedAt: true, PublishedAtUTC: now},
		{SourceURL: "https://example.com/b", Summary: "no published at", HasPublishedAt: false},
		{SourceURL: "https://example.com/c", Summary: "   ", HasPublishedAt: true, PublishedAtUTC: now},
	}

	gated := qualityGate(candidates, now, time.Hour)
	if len(gated) != 1 {
		t.Fatalf("got %d gated candidates, want 1", len(gated))
	}
	if gated[0].Summary != "Apple beats earnings" {
		t.Fatalf("summary = %q, want trimmed", gated[0].Summary)
	}
}

func TestQualityGateDropsCandidatesPublishedBeyondTolerance(t *testing.T) {
	detectedAt := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	candidates := []adapter.Candidate{
		{SourceURL: "https://example.com/on-time", Summary: "right at the edge", HasPublishedAt: true, PublishedAtUTC: detectedAt.Add(10 * time.Minute)},
		{SourceURL: "https://example.com/late", Summary: "published too far ahead", HasPublishedAt: true, PublishedAtUTC: detectedAt.Add(11 * time.Minute)},
	}

	gated := qualityGate(candidates, detectedAt, 10*time.Minute)
	if len(gated) != 1 {
		t.Fatalf("got %d gated candidates, want 1", len(gated))
	}
	if gated[0].SourceURL != "https://example.com/on-time" {
		t.Fatalf("gated candidate = %q, want the one inside tolerance", gated[0].SourceURL)
	}
}

func TestDedupeByCanonicalURLMergesPreferringEarlierPublishedAndLongerSummary(t *testing.T) {
	earlier := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	later := earlier.Add(2 * time.Hour)

	candidates := []adapter.Candidate{
		{SourceURL: "https://example.com/a?utm_source=x", Summary: "short", HasPublishedAt: true, PublishedAtUTC: later},
		{SourceURL: "https://example.com/a", Summary: "a much longer summary with more detail", HasPublishedAt: true, PublishedAtUTC: earlier},
	}
	gated := qualityGate(candidates, later, time.Hour)
	deduped := dedupeByCanonicalURL(gated)

	if len(deduped) != 1 {
		t.Fatalf("got %d deduped candidates, want 1", len(deduped))
	}
	merged := deduped[0]
	if !merged.PublishedAtUTC.Equal(earlier) {
		t.Fatalf("published_at = %v, want the earlier timestamp %v", merged.PublishedAtUTC, earlier)
	}
	if merged.Summary != "a much longer summary with more detail" {
		t.Fatalf("summary = %q, want the longer one kept", merged.Summary)
	}
}

// Package adapter defines the single-method fetch capability the Reason
// Engine depends on, grounded on the teacher's collector.QuoteFetcher
// interface shape (one method, no lifecycle baggage) per the design note
// in spec §9: "treat each adapter as an implementer of that single-method
// interface, allowing tests to inject deterministic fixtures."
package adapter

import (
	"context"
	"time"

	"github.com/pricesignal/reasoncore/pkg/model"
)

// TimeRange bounds a fetch by published_at.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Candidate is a raw, ungated reason candidate as returned by an adapter,
// before the quality gate, canonicalization, and scoring stages of the
// Reason Engine pipeline touch it.
type Candidate struct {
	Source         string
	SourceURL      string
	Summary        string
	PublishedAtUTC time.Time
	HasPublishedAt bool
	ReasonType     model.ReasonType
	RawText        string // title + body, used by the event_match signal
}

// Adapter is the external-collaborator boundary named in spec §6:
// {fetch(symbol, market, time_range) -> list<candidate>}.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, market model.Market, symbol string, tr TimeRange) ([]Candidate, error)
}

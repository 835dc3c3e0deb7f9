// Package reasonengine implements the fetch -> gate -> canonicalize ->
// score -> rank -> persist pipeline of spec §4.3. It generalizes the
// teacher's pkg/engine.RuleEngine shape (a component that receives a
// domain event and fans out work against registered collaborators) but
// the collaborators here are Adapters queried concurrently rather than
// in-memory rule lookups, and the output is a ranked, explainable set of
// EventReason rows rather than an AlertEvent.
package reasonengine

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pricesignal/reasoncore/pkg/adapter"
	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/model"
	"github.com/pricesignal/reasoncore/pkg/store"
	"github.com/shopspring/decimal"
)

// Weights are the scoring weights used for every reason scored by this
// engine instance. They are expected to sum to 1 (the config defaults
// do); neither New nor the config loader checks this.
type Weights struct {
	SourceReliability decimal.Decimal
	EventMatch        decimal.Decimal
	TimeProximity     decimal.Decimal
}

// Config bundles the tunables the pipeline needs beyond the store and
// adapters themselves.
type Config struct {
	Lookback             time.Duration
	Trailing             time.Duration
	ProximityHorizon     time.Duration
	PublishedAtTolerance time.Duration
	AdapterTimeout       time.Duration
	AdapterRetryBudget   int
	Weights              Weights
	Reputation           ReputationTable
}

// AdapterOutcome is one adapter's contribution to the audit record spec
// §4.3 step 6 requires: "an audit record including fetch durations per
// adapter."
type AdapterOutcome struct {
	Adapter  string
	OK       bool
	Duration time.Duration
	Error    string
}

// Audit is the per-run record Run returns alongside the event; the worker
// pool hands it to its onProcessed hook. It is not written to the store.
type Audit struct {
	EventID   string
	RanAtUTC  time.Time
	Outcomes  []AdapterOutcome
}

// Engine runs the Reason Engine pipeline against a fixed set of adapters.
type Engine struct {
	adapters []adapter.Adapter
	cfg      Config
	clock    clock.Clock
}

func New(adapters []adapter.Adapter, cfg Config, c clock.Clock) *Engine {
	return &Engine{adapters: adapters, cfg: cfg, clock: c}
}

// fetchAll queries every adapter concurrently, isolating failures per
// spec §4.3 step 1: "Adapter failure is isolated (other adapters still
// contribute)."
func (e *Engine) fetchAll(ctx context.Context, market model.Market, symbol string, tr adapter.TimeRange) ([]adapter.Candidate, []AdapterOutcome) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		all      []adapter.Candidate
		outcomes = make([]AdapterOutcome, len(e.adapters))
	)
	for i, a := range e.adapters {
		wg.Add(1)
		go func(i int, a adapter.Adapter) {
			defer wg.Done()
			start := e.clock.NowUTC()
			candidates, err := e.fetchWithRetry(ctx, a, market, symbol, tr)
			elapsed := e.clock.NowUTC().Sub(start)
			outcome := AdapterOutcome{Adapter: a.Name(), Duration: elapsed}
			if err != nil {
				outcome.Error = err.Error()
			} else {
				outcome.OK = true
			}
			mu.Lock()
			outcomes[i] = outcome
			all = append(all, candidates...)
			mu.Unlock()
		}(i, a)
	}
	wg.Wait()
	return all, outcomes
}

// fetchWithRetry applies a bounded, exponentially backed-off retry budget
// per adapter call, cancelled by the per-adapter timeout.
func (e *Engine) fetchWithRetry(ctx context.Context, a adapter.Adapter, market model.Market, symbol string, tr adapter.TimeRange) ([]adapter.Candidate, error) {
	var lastErr error
	backoff := 100 * time.Millisecond
	for attempt := 0; attempt <= e.cfg.AdapterRetryBudget; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, e.cfg.AdapterTimeout)
		candidates, err := a.Fetch(callCtx, market, symbol, tr)
		cancel()
		if err == nil {
			return candidates, nil
		}
		lastErr = err
		if attempt == e.cfg.AdapterRetryBudget {
			break
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		backoff *= 2
	}
	return nil, lastErr
}

// Run executes the full pipeline for a newly detected event and persists
// the event with its reasons in one commit via store.CreateEventWithReasons.
func (e *Engine) Run(ctx context.Context, s *store.Store, event model.PriceEvent) (model.PriceEvent, []model.EventReason, Audit, error) {
	tr := adapter.TimeRange{
		Start: event.DetectedAtUTC.Add(-e.cfg.Lookback),
		End:   event.DetectedAtUTC.Add(e.cfg.Trailing),
	}
	raw, outcomes := e.fetchAll(ctx, event.Market, event.Symbol, tr)

	reasons := e.scoreAndRank(raw, event)

	s.CreateEventWithReasons(event, reasons)

	audit := Audit{EventID: event.ID, RanAtUTC: e.clock.NowUTC(), Outcomes: outcomes}
	return event, reasons, audit, nil
}

// scoreAndRank runs gate -> dedupe -> score -> rank -> top3, assigning
// ranks 1..3 and minting fresh reason IDs/timestamps.
func (e *Engine) scoreAndRank(raw []adapter.Candidate, event model.PriceEvent) []model.EventReason {
	gated := qualityGate(raw, event.DetectedAtUTC, e.cfg.PublishedAtTolerance)
	deduped := dedupeByCanonicalURL(gated)

	descriptors := []string{event.Symbol, string(event.Market)}
	scored := make([]scoredCandidate, 0, len(deduped))
	for _, c := range deduped {
		scored = append(scored, e.score(c, event, descriptors))
	}

	sort.Slice(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if !a.breakdown.ScoreBreakdown.Total.Equal(b.breakdown.ScoreBreakdown.Total) {
			return a.breakdown.ScoreBreakdown.Total.GreaterThan(b.breakdown.ScoreBreakdown.Total)
		}
		if !a.breakdown.ScoreBreakdown.SourceReliability.Equal(b.breakdown.ScoreBreakdown.SourceReliability) {
			return a.breakdown.ScoreBreakdown.SourceReliability.GreaterThan(b.breakdown.ScoreBreakdown.SourceReliability)
		}
		if !a.candidate.PublishedAtUTC.Equal(b.candidate.PublishedAtUTC) {
			return a.candidate.PublishedAtUTC.Before(b.candidate.PublishedAtUTC)
		}
		return a.candidate.canonicalURL < b.candidate.canonicalURL
	})

	if len(scored) > 3 {
		scored = scored[:3]
	}

	now := e.clock.NowUTC()
	reasons := make([]model.EventReason, 0, len(scored))
	for i, sc := range scored {
		breakdown := sc.breakdown
		reasons = append(reasons, model.EventReason{
			ID:                  e.clock.NewID(),
			EventID:             event.ID,
			Rank:                i + 1,
			ReasonType:          sc.candidate.ReasonType,
			ConfidenceScore:     breakdown.ScoreBreakdown.Total,
			ConfidenceBreakdown: &breakdown,
			Summary:             sc.candidate.Summary,
			SourceURL:           sc.candidate.SourceURL,
			CanonicalURL:        sc.candidate.canonicalURL,
			PublishedAtUTC:      sc.candidate.PublishedAtUTC,
			CreatedAtUTC:        now,
		})
	}
	return reasons
}

type scoredCandidate struct {
	candidate gatedCandidate
	breakdown model.ConfidenceBreakdown
}

func (e *Engine) score(c gatedCandidate, event model.PriceEvent, descriptors []string) scoredCandidate {
	sigSource := sourceReliability(c.SourceURL, e.cfg.Reputation)
	sigMatch := eventMatch(strings.TrimSpace(c.RawText+" "+c.Summary), descriptors)
	sigTime := timeProximity(c.PublishedAtUTC, event.DetectedAtUTC, e.cfg.ProximityHorizon)

	w := e.cfg.Weights
	weightedSource := w.SourceReliability.Mul(sigSource).Round(4)
	weightedMatch := w.EventMatch.Mul(sigMatch).Round(4)
	weightedTime := w.TimeProximity.Mul(sigTime).Round(4)
	total := weightedSource.Add(weightedMatch).Add(weightedTime).Round(2)

	breakdown := model.ConfidenceBreakdown{
		Weights: model.Weights{
			SourceReliability: w.SourceReliability,
			EventMatch:        w.EventMatch,
			TimeProximity:     w.TimeProximity,
		},
		Signals: model.Signals{
			SourceReliability: sigSource,
			EventMatch:        sigMatch,
			TimeProximity:     sigTime,
		},
		ScoreBreakdown: model.ScoreBreakdown{
			SourceReliability:     sigSource,
			EventMatch:            sigMatch,
			TimeProximity:         sigTime,
			WeightedSourceRel:     weightedSource,
			WeightedEventMatch:    weightedMatch,
			WeightedTimeProximity: weightedTime,
			Total:                 total,
		},
	}
	return scoredCandidate{candidate: c, breakdown: breakdown}
}

// Package detector turns a tick stream into PriceEvent candidates. It
// generalizes the teacher's pkg/engine.RuleEngine (threshold comparison,
// per-symbol rule lookup, alert channel hand-off) to percent-change-over-
// window detection with debounce/delta-realert and session-calendar
// labeling, which the teacher's AlertTypePriceVolatility case did not need.
package detector

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/model"
	"github.com/pricesignal/reasoncore/pkg/session"
	"github.com/shopspring/decimal"
)

var (
	// ErrTooFewTicks is returned when fewer than two ticks fall inside the
	// requested window; callers should treat this as "no event" rather
	// than as a failure.
	ErrTooFewTicks = errors.New("detector: fewer than two ticks in window")
	// ErrNonPositiveReference is returned when the reference price is
	// zero or negative.
	ErrNonPositiveReference = errors.New("detector: reference price is non-positive")
	// ErrNonFinitePrice is returned when a price is NaN or Inf.
	ErrNonFinitePrice = errors.New("detector: non-finite price")
)

// Detector maintains per-symbol rolling tick windows and per-(user, symbol,
// window) debounce state, and computes PriceEvent candidates on demand.
type Detector struct {
	mu        sync.Mutex
	series    map[symbolKey]*tickSeries
	debounce  *debounceIndex
	clock     clock.Clock
	sessions  *session.Registry
	maxLookback time.Duration
}

// New builds a Detector. maxLookback bounds how much tick history is kept
// per symbol; it should be at least the largest window_minutes ever
// evaluated.
func New(c clock.Clock, sessions *session.Registry, maxLookback time.Duration) *Detector {
	return &Detector{
		series:      make(map[symbolKey]*tickSeries),
		debounce:    newDebounceIndex(),
		clock:       c,
		sessions:    sessions,
		maxLookback: maxLookback,
	}
}

// Ingest records a tick. Non-finite prices are rejected outright; the
// caller (typically an adapter feed loop) is expected to log and continue
// rather than treat this as fatal.
func (d *Detector) Ingest(t Tick) error {
	if math.IsNaN(t.Price) || math.IsInf(t.Price, 0) {
		return ErrNonFinitePrice
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	k := symbolKey{Market: t.Market, Symbol: t.Symbol}
	s, ok := d.series[k]
	if !ok {
		s = &tickSeries{}
		d.series[k] = s
	}
	s.append(t, d.maxLookback)
	return nil
}

// Result is a candidate detection together with whether it should actually
// be emitted after debounce/delta-realert evaluation.
type Result struct {
	Event     model.PriceEvent
	IsDelta   bool
	Emit      bool
	Alertable bool
}

// Evaluate computes change_pct for (market, symbol) over windowMinutes as
// of now, compares it against thresholdPct for userID, and applies
// debounce/delta-realert. It returns ErrTooFewTicks or
// ErrNonPositiveReference when the window cannot support a decision; these
// are not failures, just "no event this cycle" (spec §4.2 edge cases).
func (d *Detector) Evaluate(userID string, market model.Market, symbol string, windowMinutes int, thresholdPct decimal.Decimal, deltaPctForRealert decimal.Decimal, debounceDuration time.Duration, now time.Time) (Result, error) {
	d.mu.Lock()
	s, ok := d.series[symbolKey{Market: market, Symbol: symbol}]
	d.mu.Unlock()
	if !ok {
		return Result{}, ErrTooFewTicks
	}

	windowStart := now.Add(-time.Duration(windowMinutes) * time.Minute)
	reference, last, ok := s.withinWindow(windowStart)
	if !ok {
		return Result{}, ErrTooFewTicks
	}
	if reference.Price <= 0 {
		return Result{}, ErrNonPositiveReference
	}

	changePct := decimal.NewFromFloat(last.Price).
		Sub(decimal.NewFromFloat(reference.Price)).
		Div(decimal.NewFromFloat(reference.Price)).
		Mul(decimal.NewFromInt(100)).
		Round(2)

	if changePct.Abs().LessThan(thresholdPct) {
		return Result{}, nil
	}

	key := debounceKey(userID, string(market), symbol, windowMinutes)
	emit, isDelta, seq := d.debounce.shouldEmit(key, changePct, now, debounceDuration, deltaPctForRealert)

	tz := d.sessions.TimezoneFor(market)
	label := d.sessions.For(market).Classify(now)

	event := model.PriceEvent{
		ID:               d.clock.NewID(),
		Market:           market,
		Symbol:           symbol,
		ChangePct:        changePct,
		WindowMinutes:    windowMinutes,
		DetectedAtUTC:    now,
		ExchangeTimezone: tz,
		SessionLabel:     label,
		IsDeltaRealert:   isDelta,
	}

	if emit {
		d.debounce.record(key, changePct, now, seq)
	}

	// Closed-session events still persist so the catalog of moves stays
	// complete, but §4.2 says they are never alerted.
	alertable := label != model.SessionClosed

	return Result{Event: event, IsDelta: isDelta, Emit: emit, Alertable: alertable}, nil
}

// EvictStaleDebounce drops debounce entries idle for longer than maxAge.
// The orchestrator's scan loop calls it after every scan (spec §9
// "periodic eviction by timestamp").
func (d *Detector) EvictStaleDebounce(now time.Time, maxAge time.Duration) {
	d.debounce.evictOlderThan(now, maxAge)
}

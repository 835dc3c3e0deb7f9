package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionLabel classifies when, relative to a market's trading calendar,
// an event was detected.
type SessionLabel string

const (
	SessionRegular SessionLabel = "regular"
	SessionPre     SessionLabel = "pre"
	SessionPost    SessionLabel = "post"
	SessionClosed  SessionLabel = "closed"
)

// PriceEvent is a detected short-window price move. Immutable after
// creation; the detector never mutates a persisted PriceEvent.
type PriceEvent struct {
	ID               string          `json:"id"`
	Market           Market          `json:"market"`
	Symbol           string          `json:"symbol"`
	ChangePct        decimal.Decimal `json:"change_pct"`
	WindowMinutes    int             `json:"window_minutes"`
	DetectedAtUTC    time.Time       `json:"detected_at_utc"`
	ExchangeTimezone string          `json:"exchange_timezone"`
	SessionLabel     SessionLabel    `json:"session_label"`
	IsDeltaRealert   bool            `json:"is_delta_realert"`
}

// ReasonType classifies the provenance of an EventReason candidate.
type ReasonType string

const (
	ReasonFiling ReasonType = "filing"
	ReasonNews   ReasonType = "news"
	ReasonOther  ReasonType = "other"
)

// ScoreBreakdown is the verbatim per-signal explanation for a reason's
// confidence score. Total must equal Σ weight·signal within ±0.01.
type ScoreBreakdown struct {
	SourceReliability      decimal.Decimal `json:"source_reliability"`
	EventMatch             decimal.Decimal `json:"event_match"`
	TimeProximity          decimal.Decimal `json:"time_proximity"`
	WeightedSourceRel      decimal.Decimal `json:"weighted_source_reliability"`
	WeightedEventMatch     decimal.Decimal `json:"weighted_event_match"`
	WeightedTimeProximity  decimal.Decimal `json:"weighted_time_proximity"`
	Total                  decimal.Decimal `json:"total"`
}

// ConfidenceBreakdown is the full explanation payload returned to clients
// per spec §4.7: the weights used, the raw signals, and the breakdown.
type ConfidenceBreakdown struct {
	Weights        Weights        `json:"weights"`
	Signals        Signals        `json:"signals"`
	ScoreBreakdown ScoreBreakdown `json:"score_breakdown"`
}

// Weights are the three scoring weights as configured; the defaults sum
// to 1, and nothing enforces that for overridden values.
type Weights struct {
	SourceReliability decimal.Decimal `json:"source_reliability"`
	EventMatch        decimal.Decimal `json:"event_match"`
	TimeProximity     decimal.Decimal `json:"time_proximity"`
}

// Signals are the three raw [0,1] signal values before weighting.
type Signals struct {
	SourceReliability decimal.Decimal `json:"source_reliability"`
	EventMatch        decimal.Decimal `json:"event_match"`
	TimeProximity     decimal.Decimal `json:"time_proximity"`
}

// EventReason is a ranked candidate explanation for a PriceEvent.
type EventReason struct {
	ID                   string                `json:"id"`
	EventID              string                `json:"event_id"`
	Rank                 int                   `json:"rank"`
	ReasonType           ReasonType            `json:"reason_type"`
	ConfidenceScore      decimal.Decimal       `json:"confidence_score"`
	ConfidenceBreakdown  *ConfidenceBreakdown  `json:"confidence_breakdown,omitempty"`
	Summary              string                `json:"summary"`
	SourceURL            string                `json:"source_url"`
	CanonicalURL         string                `json:"canonical_url"`
	PublishedAtUTC       time.Time             `json:"published_at"`
	CreatedAtUTC         time.Time             `json:"created_at_utc"`
}

// ReasonStatus is derived from an event's current reason list.
type ReasonStatus string

const (
	ReasonStatusCollecting ReasonStatus = "collecting_evidence"
	ReasonStatusVerified   ReasonStatus = "verified"
)

// DeriveReasonStatus implements the §3 ReasonStatus derivation rule.
func DeriveReasonStatus(reasons []EventReason) ReasonStatus {
	if len(reasons) == 0 {
		return ReasonStatusCollecting
	}
	for _, r := range reasons {
		if r.SourceURL != "" {
			return ReasonStatusVerified
		}
	}
	return ReasonStatusCollecting
}

package model

import "time"

// CompareAxis is one partition of an EvidenceCompare payload.
type CompareAxis string

const (
	AxisPositive  CompareAxis = "positive"
	AxisNegative  CompareAxis = "negative"
	AxisUncertain CompareAxis = "uncertain"
)

// CompareStatus reports whether an EvidenceCompare payload has enough
// material on both sides to be useful.
type CompareStatus string

const (
	CompareReady       CompareStatus = "ready"
	CompareUnavailable CompareStatus = "compare_unavailable"
)

// CompareItem is one reason rendered onto a comparison axis. Malformed
// items are moved to AxisUncertain with empty fields preserved rather than
// dropped, so the client can still render a fallback label.
type CompareItem struct {
	ReasonID    string      `json:"reason_id"`
	Axis        CompareAxis `json:"axis"`
	Summary     string      `json:"summary"`
	SourceURL   string      `json:"source_url,omitempty"`
	PublishedAt *time.Time  `json:"published_at,omitempty"`
	ReasonType  ReasonType  `json:"reason_type"`
}

// EvidenceCompare is the derived, cacheable axis partition for an event.
type EvidenceCompare struct {
	EventID       string          `json:"event_id"`
	Status        CompareStatus   `json:"status"`
	FallbackReason *FallbackReason `json:"fallback_reason,omitempty"`
	BiasWarning   string          `json:"bias_warning"`
	Positive      []CompareItem   `json:"positive"`
	Negative      []CompareItem   `json:"negative"`
	Uncertain     []CompareItem   `json:"uncertain"`
	GeneratedAtUTC time.Time      `json:"generated_at_utc"`
}

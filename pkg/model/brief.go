package model

import "time"

// BriefType is one of the two scheduled digest kinds.
type BriefType string

const (
	BriefPreMarket BriefType = "pre_market"
	BriefPostClose BriefType = "post_close"
)

// FallbackReason explains why a Brief or EvidenceCompare payload is thin.
type FallbackReason string

const (
	FallbackInsufficientData      FallbackReason = "insufficient_data"
	FallbackNoEvents              FallbackReason = "no_events"
	FallbackMarketHoliday         FallbackReason = "market_holiday"
	FallbackPartialAggregation    FallbackReason = "partial_aggregation"
	FallbackInsufficientEvidence  FallbackReason = "insufficient_evidence"
	FallbackAxisImbalance         FallbackReason = "axis_imbalance"
	FallbackAmbiguousClassification FallbackReason = "ambiguous_classification"
	FallbackMissingSourceMetadata FallbackReason = "missing_source_metadata"
	FallbackPermissionDenied      FallbackReason = "permission_denied"
)

// BriefStatus is the per-user read state of a Brief.
type BriefStatus string

const (
	BriefUnread BriefStatus = "unread"
	BriefRead   BriefStatus = "read"
)

// BriefContentItem is one event's entry inside a Brief.
type BriefContentItem struct {
	EventID        string `json:"event_id"`
	Summary        string `json:"summary"`
	SourceURL      string `json:"source_url,omitempty"`
	EventDetailURL string `json:"event_detail_url"`
}

// Brief is a scheduled digest of recent watchlist events for a user.
type Brief struct {
	ID              string             `json:"id"`
	UserID          string             `json:"user_id"`
	BriefType       BriefType          `json:"brief_type"`
	GeneratedAtUTC  time.Time          `json:"generated_at_utc"`
	ExpiresAtUTC    time.Time          `json:"expires_at_utc"`
	Markets         []Market           `json:"markets"`
	Items           []BriefContentItem `json:"items"`
	FallbackReason  *FallbackReason    `json:"fallback_reason,omitempty"`
	Status          BriefStatus        `json:"status"`
}

// IsExpired reports whether the brief has passed its expiry at time now.
func (b Brief) IsExpired(now time.Time) bool {
	return now.After(b.ExpiresAtUTC)
}

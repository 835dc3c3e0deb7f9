package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vote is a user's helpfulness judgement on a reason.
type Vote string

const (
	VoteHelpful    Vote = "helpful"
	VoteNotHelpful Vote = "not_helpful"
)

// Feedback is a (user, event, reason) vote. Last write wins; a repeat
// submission is reported to the caller as overwritten rather than created.
type Feedback struct {
	UserID       string    `json:"user_id"`
	EventID      string    `json:"event_id"`
	ReasonID     string    `json:"reason_id"`
	Vote         Vote      `json:"vote"`
	CreatedAtUTC time.Time `json:"created_at_utc"`
	UpdatedAtUTC time.Time `json:"updated_at_utc"`
}

// ReportType classifies why a user is disputing a reason.
type ReportType string

const (
	ReportInaccurateReason    ReportType = "inaccurate_reason"
	ReportWrongSource         ReportType = "wrong_source"
	ReportOutdatedInformation ReportType = "outdated_information"
	ReportOther               ReportType = "other"
)

// ReportState is a position in the report state machine.
type ReportState string

const (
	ReportReceived ReportState = "received"
	ReportReviewed ReportState = "reviewed"
	ReportResolved ReportState = "resolved"
)

// IsResolved reports whether s is a terminal state.
func (s ReportState) IsResolved() bool { return s == ReportResolved }

// ReasonReport is a user-submitted dispute about a reason's accuracy.
// At most one non-resolved report may exist per (user, event, reason).
type ReasonReport struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	EventID      string      `json:"event_id"`
	ReasonID     string      `json:"reason_id"`
	ReportType   ReportType  `json:"report_type"`
	State        ReportState `json:"state"`
	Note         string      `json:"note,omitempty"`
	CreatedAtUTC time.Time   `json:"created_at_utc"`
	UpdatedAtUTC time.Time   `json:"updated_at_utc"`
}

// ReasonStatusTransition is an append-only log row for a report's state
// change.
type ReasonStatusTransition struct {
	ID           string      `json:"id"`
	ReportID     string      `json:"report_id"`
	EventID      string      `json:"event_id"`
	FromStatus   ReportState `json:"from_status"`
	ToStatus     ReportState `json:"to_status"`
	ChangedAtUTC time.Time   `json:"changed_at_utc"`
	Note         string      `json:"note,omitempty"`
}

// ReasonRevision records a confidence adjustment applied to a reason as a
// result of resolving a report.
type ReasonRevision struct {
	ID                string  `json:"id"`
	ReportID          string  `json:"report_id"`
	EventID           string  `json:"event_id"`
	ReasonID          string  `json:"reason_id"`
	ConfidenceBefore  decimal.Decimal `json:"confidence_before"`
	ConfidenceAfter   decimal.Decimal `json:"confidence_after"`
	RevisionReason    string          `json:"revision_reason"`
	RevisedAtUTC      time.Time       `json:"revised_at_utc"`
}

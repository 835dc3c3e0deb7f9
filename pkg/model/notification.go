package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// NotificationChannel is the delivery channel for a Notification.
type NotificationChannel string

const (
	ChannelInApp NotificationChannel = "in_app"
	ChannelEmail NotificationChannel = "email"
)

// NotificationStatus is the lifecycle state of a Notification. sent->read
// and sent->cooldown are the only legal transitions; never the reverse.
type NotificationStatus string

const (
	NotificationSent     NotificationStatus = "sent"
	NotificationRead     NotificationStatus = "read"
	NotificationCooldown NotificationStatus = "cooldown"
)

// Notification is a per (user, event) alert round. Within the cooldown
// TTL at most one round fires per (user, market, symbol) unless a delta
// re-alert bypasses cooldown.
type Notification struct {
	ID            string               `json:"id"`
	UserID        string               `json:"user_id"`
	EventID       string               `json:"event_id"`
	Symbol        string               `json:"symbol"`
	Market        Market               `json:"market"`
	Channel       NotificationChannel  `json:"channel"`
	Status        NotificationStatus   `json:"status"`
	Message       string               `json:"message"`
	ChangePct     decimal.Decimal      `json:"change_pct"`
	IsDelta       bool                 `json:"is_delta"`
	PriorChangePct decimal.Decimal     `json:"prior_change_pct,omitempty"`
	SentAtUTC     time.Time            `json:"sent_at_utc"`
	ReadAtUTC     *time.Time           `json:"read_at_utc,omitempty"`
}

// Package notifier converts detected events into Notification rows
// subject to per-user cooldown and delta re-alert rules (spec §4.5). It
// generalizes the teacher's alert dispatch concept (pkg/engine sends an
// AlertEvent down a channel for "later notification") into a component
// that decides, synchronously, whether a round should fire at all.
package notifier

import (
	"time"

	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/model"
	"github.com/pricesignal/reasoncore/pkg/store"
	"github.com/shopspring/decimal"
)

// Config holds the per-channel cooldown TTLs and the delta-realert
// threshold. These mirror pkg/config.Config.Notifier and
// pkg/config.Config.Detection.DeltaPctForRealert.
type Config struct {
	CooldownTTLInApp   time.Duration
	CooldownTTLEmail   time.Duration
	DeltaPctForRealert decimal.Decimal
}

// Notifier decides whether a detected event should produce a Notification
// and records the outcome.
type Notifier struct {
	store *store.Store
	clock clock.Clock
	cfg   Config
}

func New(s *store.Store, c clock.Clock, cfg Config) *Notifier {
	return &Notifier{store: s, clock: c, cfg: cfg}
}

func (n *Notifier) ttlFor(channel model.NotificationChannel) time.Duration {
	if channel == model.ChannelEmail {
		return n.cfg.CooldownTTLEmail
	}
	return n.cfg.CooldownTTLInApp
}

// Notify evaluates cooldown/delta-realert for userID and the event's
// (market, symbol) on channel and, if the round should fire, records a
// Notification. It returns ok=false (no error) when the round is
// suppressed by an active cooldown.
func (n *Notifier) Notify(userID string, event model.PriceEvent, channel model.NotificationChannel, message string) (model.Notification, bool, error) {
	now := n.clock.NowUTC()
	// The newest earlier round for the same (market, symbol) is the one
	// cooldown and delta re-alert are measured against.
	var last model.Notification
	hasLast := false
	rounds, _ := n.store.Notifications.ListByUser(userID, 1, 1<<20)
	for _, r := range rounds {
		if r.Market == event.Market && r.Symbol == event.Symbol {
			last, hasLast = r, true
			break
		}
	}

	isDelta := false
	if hasLast {
		elapsed := now.Sub(last.SentAtUTC)
		delta := event.ChangePct.Sub(last.ChangePct).Abs()
		withinCooldown := elapsed < n.ttlFor(channel)
		bypassesCooldown := delta.GreaterThanOrEqual(n.cfg.DeltaPctForRealert)
		if withinCooldown && !bypassesCooldown {
			return model.Notification{}, false, nil
		}
		isDelta = withinCooldown && bypassesCooldown
	}

	prior := decimal.Zero
	if isDelta {
		prior = last.ChangePct
	}

	notification := n.store.Notifications.Create(userID, event.ID, event.Symbol, event.Market, channel, message, event.ChangePct, isDelta, prior)
	return notification, true, nil
}

// MarkRead transitions a notification sent -> read.
func (n *Notifier) MarkRead(id string) (model.Notification, error) {
	return n.store.Notifications.MarkRead(id)
}

// PromoteStaleUnread transitions sent -> cooldown for any in-app
// notification whose TTL has elapsed without being read, per spec §4.5:
// "sent -> cooldown (system promotion after TTL for unread in-app
// messages)." Intended to be driven by a periodic ticker (pkg/scheduler).
func (n *Notifier) PromoteStaleUnread(userID string, now time.Time) {
	notifications, _ := n.store.Notifications.ListByUser(userID, 1, 1<<20)
	for _, notif := range notifications {
		if notif.Status != model.NotificationSent {
			continue
		}
		if notif.Channel != model.ChannelInApp {
			continue
		}
		if now.Sub(notif.SentAtUTC) >= n.ttlFor(notif.Channel) {
			_ = n.store.Notifications.MarkCooldown(notif.ID)
		}
	}
}

func (n *Notifier) UnreadCount(userID string) int {
	return n.store.Notifications.UnreadCount(userID)
}

package notifier

import (
	"testing"
	"time"

	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/model"
	"github.com/pricesignal/reasoncore/pkg/store"
	"github.com/shopspring/decimal"
)

func newTestNotifier(start time.Time) (*Notifier, *store.Store, *clock.Fixed) {
	c := clock.NewFixed(start, time.Second)
	s := store.New(c)
	n := New(s, c, Config{
		CooldownTTLInApp:   30 * time.Minute,
		CooldownTTLEmail:   30 * time.Minute,
		DeltaPctForRealert: decimal.NewFromFloat(2),
	})
	return n, s, c
}

func sampleEvent(changePct float64) model.PriceEvent {
	return model.PriceEvent{ID: "evt-1", Symbol: "AAPL", Market: model.MarketUS, ChangePct: decimal.NewFromFloat(changePct)}
}

func TestNotifyFirstRoundAlwaysFires(t *testing.T) {
	n, _, _ := newTestNotifier(time.Now())
	_, ok, err := n.Notify("u1", sampleEvent(5), model.ChannelInApp, "AAPL moved")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected the first round to fire")
	}
}

func TestNotifySecondRoundSuppressedWithinCooldown(t *testing.T) {
	n, _, _ := newTestNotifier(time.Now())
	_, ok, err := n.Notify("u1", sampleEvent(5), model.ChannelInApp, "first")
	if err != nil || !ok {
		t.Fatalf("expected first round to fire, ok=%v err=%v", ok, err)
	}

	_, ok, err = n.Notify("u1", sampleEvent(5.2), model.ChannelInApp, "second")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected the second round to be suppressed by cooldown")
	}
}

func TestNotifyDeltaRealertBypassesCooldown(t *testing.T) {
	n, _, _ := newTestNotifier(time.Now())
	_, ok, err := n.Notify("u1", sampleEvent(5), model.ChannelInApp, "first")
	if err != nil || !ok {
		t.Fatalf("expected first round to fire, ok=%v err=%v", ok, err)
	}

	notif, ok, err := n.Notify("u1", sampleEvent(9), model.ChannelInApp, "big move")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected a delta realert to bypass cooldown for a 4pp move")
	}
	if !notif.IsDelta {
		t.Fatalf("expected IsDelta=true on the realert notification")
	}
}

func TestNotifyAfterCooldownExpiresFiresAgain(t *testing.T) {
	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	n, _, c := newTestNotifier(start)
	_, ok, err := n.Notify("u1", sampleEvent(5), model.ChannelInApp, "first")
	if err != nil || !ok {
		t.Fatalf("expected first round to fire, ok=%v err=%v", ok, err)
	}

	// Skip the fixed clock far enough ahead that the cooldown has elapsed.
	for i := 0; i < int((31*time.Minute)/time.Second); i++ {
		c.NowUTC()
	}

	_, ok, err = n.Notify("u1", sampleEvent(5.1), model.ChannelInApp, "after cooldown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected a round after cooldown expiry to fire")
	}
}

func TestMarkReadAndUnreadCount(t *testing.T) {
	n, _, _ := newTestNotifier(time.Now())
	notif, ok, err := n.Notify("u1", sampleEvent(5), model.ChannelInApp, "first")
	if err != nil || !ok {
		t.Fatalf("expected first round to fire, ok=%v err=%v", ok, err)
	}
	if got := n.UnreadCount("u1"); got != 1 {
		t.Fatalf("unread count = %d, want 1", got)
	}

	if _, err := n.MarkRead(notif.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := n.UnreadCount("u1"); got != 0 {
		t.Fatalf("unread count after mark-read = %d, want 0", got)
	}
}

func TestPromoteStaleUnreadTransitionsToCooldown(t *testing.T) {
	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	n, s, _ := newTestNotifier(start)
	notif, ok, err := n.Notify("u1", sampleEvent(5), model.ChannelInApp, "first")
	if err != nil || !ok {
		t.Fatalf("expected first round to fire, ok=%v err=%v", ok, err)
	}

	later := start.Add(time.Hour)
	n.PromoteStaleUnread("u1", later)

	list, _ := s.Notifications.ListByUser("u1", 1, 10)
	var found model.Notification
	for _, item := range list {
		if item.ID == notif.ID {
			found = item
		}
	}
	if found.Status != model.NotificationCooldown {
		t.Fatalf("status = %s, want cooldown after promotion", found.Status)
	}
}

package scheduler

import (
	"testing"
	"time"

	"github.com/pricesignal/reasoncore/pkg/brief"
	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/model"
	"github.com/pricesignal/reasoncore/pkg/notifier"
	"github.com/pricesignal/reasoncore/pkg/session"
	"github.com/pricesignal/reasoncore/pkg/store"
	"github.com/shopspring/decimal"
)

func newTestScheduler(now time.Time) (*Scheduler, *store.Store, *brief.Builder, *notifier.Notifier) {
	c := clock.NewFixed(now, time.Second)
	s := store.New(c)
	sessions := session.NewRegistry(nil)
	briefs := brief.New(s, c, sessions, brief.Config{
		LookbackWindow:       24 * time.Hour,
		TopN:                 5,
		InsufficientFloor:    1,
		PreMarketTTLFallback: 12 * time.Hour,
		PostCloseTTL:         24 * time.Hour,
	})
	notif := notifier.New(s, c, notifier.Config{
		CooldownTTLInApp:   30 * time.Minute,
		CooldownTTLEmail:   30 * time.Minute,
		DeltaPctForRealert: decimal.NewFromFloat(2),
	})
	cfg := Config{
		PreMarketSpec: "0 30 8 * * 1-5",
		PostCloseSpec: "0 5 16 * * 1-5",
		PromotionSpec: "@every 5m",
		BriefMarkets:  []model.Market{model.MarketUS},
	}
	return New(briefs, notif, s, c, cfg), s, briefs, notif
}

func TestStartRegistersAllThreeJobsWithoutError(t *testing.T) {
	sched, _, _, _ := newTestScheduler(time.Now())
	if err := sched.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sched.Stop()
}

func TestGenerateForAllUsersBuildsOneBriefPerUser(t *testing.T) {
	sched, s, _, _ := newTestScheduler(time.Now())
	s.Users.Create("a@example.com", "hash", "en")
	s.Users.Create("b@example.com", "hash", "en")

	sched.generateForAllUsers(model.BriefPreMarket)

	for _, id := range s.Users.AllIDs() {
		list, _ := s.Briefs.ListByUser(id, 1, 10)
		if len(list) != 1 {
			t.Fatalf("user %s got %d briefs, want 1", id, len(list))
		}
	}
}

func TestRunPromotionPromotesStaleUnreadForEveryUser(t *testing.T) {
	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	sched, s, _, notif := newTestScheduler(start)
	user, _ := s.Users.Create("a@example.com", "hash", "en")
	event := model.PriceEvent{ID: "evt-1", Symbol: "AAPL", Market: model.MarketUS, ChangePct: decimal.NewFromFloat(5)}
	notif.Notify(user.ID, event, model.ChannelInApp, "AAPL moved")

	// The fixed clock steps one second per read; advance it past the 30m
	// in-app TTL so the unread notification is stale when promotion runs.
	for i := 0; i < 1860; i++ {
		sched.clock.NowUTC()
	}
	sched.runPromotion()

	list, _ := s.Notifications.ListByUser(user.ID, 1, 10)
	if len(list) != 1 {
		t.Fatalf("got %d notifications, want 1", len(list))
	}
	if list[0].Status != model.NotificationCooldown {
		t.Fatalf("status = %s, want cooldown once the TTL elapsed unread", list[0].Status)
	}
}

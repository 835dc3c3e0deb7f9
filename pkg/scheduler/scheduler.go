// Package scheduler drives the periodic work this system can't leave to
// request handlers: Brief Builder generation around session open/close
// and stale-unread notification promotion. It mirrors the teacher's
// pkg/scheduler/task.go (cron.New, AddFunc with cron expressions and
// @every syntax, Start/Stop) almost verbatim in shape, swapping rule
// reload + data-health polling for brief generation + cooldown promotion.
package scheduler

import (
	"log"

	"github.com/pricesignal/reasoncore/pkg/brief"
	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/model"
	"github.com/pricesignal/reasoncore/pkg/notifier"
	"github.com/pricesignal/reasoncore/pkg/store"
	"github.com/robfig/cron/v3"
)

// Config names the cron expressions driving each job. Defaults mirror
// the teacher's literal schedules ("0 30 9 * * 1-5" pre-open, "@every 5m"
// polling) adapted to this domain's two brief types.
type Config struct {
	PreMarketSpec      string // e.g. "0 30 8 * * 1-5"
	PostCloseSpec      string // e.g. "0 5 16 * * 1-5"
	PromotionSpec      string // e.g. "@every 5m"
	BriefMarkets       []model.Market
}

// Scheduler owns the cron runner and the components it drives.
type Scheduler struct {
	cron     *cron.Cron
	briefs   *brief.Builder
	notifier *notifier.Notifier
	store    *store.Store
	clock    clock.Clock
	cfg      Config
}

func New(briefs *brief.Builder, notif *notifier.Notifier, s *store.Store, c clock.Clock, cfg Config) *Scheduler {
	return &Scheduler{cron: cron.New(cron.WithSeconds()), briefs: briefs, notifier: notif, store: s, clock: c, cfg: cfg}
}

// Start registers every job and starts the cron runner in its own
// goroutine. Safe to call once.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.PreMarketSpec, s.runPreMarketBriefs); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.PostCloseSpec, s.runPostCloseBriefs); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.PromotionSpec, s.runPromotion); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) runPreMarketBriefs() {
	s.generateForAllUsers(model.BriefPreMarket)
}

func (s *Scheduler) runPostCloseBriefs() {
	s.generateForAllUsers(model.BriefPostClose)
}

func (s *Scheduler) generateForAllUsers(briefType model.BriefType) {
	userIDs := s.store.Users.AllIDs()
	count := 0
	for _, userID := range userIDs {
		s.briefs.Build(userID, briefType, s.cfg.BriefMarkets)
		count++
	}
	log.Printf("scheduler: generated %d %s briefs", count, briefType)
}

func (s *Scheduler) runPromotion() {
	now := s.clock.NowUTC()
	userIDs := s.store.Users.AllIDs()
	for _, userID := range userIDs {
		s.notifier.PromoteStaleUnread(userID, now)
	}
}

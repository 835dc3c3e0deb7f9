// Package brief builds pre_market and post_close digests (spec §4.6),
// aggregating a user's recent watchlist events into a ranked Brief. The
// ranking/selection shape mirrors the teacher's rule-evaluation loop
// (scan candidates, pick the ones crossing a bar) but over a lookback
// window of already-persisted events rather than live ticks.
package brief

import (
	"fmt"
	"sort"
	"time"

	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/model"
	"github.com/pricesignal/reasoncore/pkg/session"
	"github.com/pricesignal/reasoncore/pkg/store"
)

// Config bundles the tunables from pkg/config.Config.Brief.
type Config struct {
	LookbackWindow    time.Duration
	TopN              int
	InsufficientFloor int
	PreMarketTTLFallback time.Duration // used if the next session open cannot be resolved
	PostCloseTTL      time.Duration
}

// Builder produces Briefs on demand; scheduling is driven externally by
// pkg/scheduler.
type Builder struct {
	store    *store.Store
	clock    clock.Clock
	sessions *session.Registry
	cfg      Config
}

func New(s *store.Store, c clock.Clock, sessions *session.Registry, cfg Config) *Builder {
	return &Builder{store: s, clock: c, sessions: sessions, cfg: cfg}
}

// Build generates and persists one Brief of briefType for userID across
// markets, applying the fallback-reason policy of spec §4.6.
func (b *Builder) Build(userID string, briefType model.BriefType, markets []model.Market) model.Brief {
	now := b.clock.NowUTC()
	watch := b.store.Watchlist.AllSymbolsByUser(userID)

	symbolSet := make(map[string]bool)
	marketOf := make(map[string]model.Market)
	for _, item := range watch {
		include := false
		for _, m := range markets {
			if item.Market == m {
				include = true
				break
			}
		}
		if !include {
			continue
		}
		key := string(item.Market) + ":" + item.Ticker
		symbolSet[key] = true
		marketOf[key] = item.Market
	}

	var allEvents []model.PriceEvent
	if len(symbolSet) > 0 {
		events, _ := b.store.Events.ListForUser(symbolSet, b.cfg.LookbackWindow, now, 1<<20, time.Time{})
		allEvents = events
	}

	holiday := b.marketHoliday(markets, now)

	sort.Slice(allEvents, func(i, j int) bool {
		return allEvents[i].ChangePct.Abs().GreaterThan(allEvents[j].ChangePct.Abs())
	})
	if len(allEvents) > b.cfg.TopN {
		allEvents = allEvents[:b.cfg.TopN]
	}

	items := make([]model.BriefContentItem, 0, len(allEvents))
	missingReasons := 0
	for _, e := range allEvents {
		reasons := b.store.Reasons.ListByEvent(e.ID)
		summary := fmt.Sprintf("%s moved %s%% over %d minutes", e.Symbol, e.ChangePct.String(), e.WindowMinutes)
		var sourceURL string
		if len(reasons) > 0 {
			summary = reasons[0].Summary
			sourceURL = reasons[0].SourceURL
		} else {
			missingReasons++
		}
		items = append(items, model.BriefContentItem{
			EventID:        e.ID,
			Summary:        summary,
			SourceURL:      sourceURL,
			EventDetailURL: "/v1/events/" + e.ID,
		})
	}

	var fallback *model.FallbackReason
	switch {
	case holiday:
		r := model.FallbackMarketHoliday
		fallback = &r
	case len(allEvents) == 0:
		r := model.FallbackNoEvents
		fallback = &r
	case len(allEvents) < b.cfg.InsufficientFloor:
		r := model.FallbackInsufficientData
		fallback = &r
	case missingReasons > 0:
		// Some included events still have zero gated reasons, i.e. the
		// Reason Engine's adapters partially failed for them.
		r := model.FallbackPartialAggregation
		fallback = &r
	}

	expires := b.expiryFor(briefType, markets, now)

	brief := model.Brief{
		UserID:         userID,
		BriefType:      briefType,
		GeneratedAtUTC: now,
		ExpiresAtUTC:   expires,
		Markets:        markets,
		Items:          items,
		FallbackReason: fallback,
	}
	return b.store.Briefs.Create(brief)
}

// expiryFor implements spec §3's brief lifecycle: pre_market briefs
// expire at the next session open; post_close briefs after a fixed TTL
// from generation.
func (b *Builder) expiryFor(briefType model.BriefType, markets []model.Market, now time.Time) time.Time {
	if briefType == model.BriefPostClose {
		return now.Add(b.cfg.PostCloseTTL)
	}
	var earliest time.Time
	for _, m := range markets {
		open := b.sessions.For(m).NextSessionOpen(now)
		if earliest.IsZero() || open.Before(earliest) {
			earliest = open
		}
	}
	if earliest.IsZero() {
		return now.Add(b.cfg.PreMarketTTLFallback)
	}
	return earliest
}

func (b *Builder) marketHoliday(markets []model.Market, now time.Time) bool {
	for _, m := range markets {
		cal := b.sessions.For(m)
		dateKey := now.In(cal.Location()).Format("2006-01-02")
		if cal.Holidays[dateKey] {
			return true
		}
	}
	return false
}

// GetForUser fetches a brief, enforcing the expired->410 contract at the
// HTTP layer (this method just reports IsExpired; §6 maps it to status).
func (b *Builder) GetForUser(id string) (model.Brief, error) {
	return b.store.Briefs.GetByID(id)
}

func (b *Builder) MarkRead(id string) (model.Brief, error) {
	return b.store.Briefs.MarkRead(id)
}

func (b *Builder) ListForUser(userID string, page, size int) ([]model.Brief, int) {
	return b.store.Briefs.ListByUser(userID, page, size)
}

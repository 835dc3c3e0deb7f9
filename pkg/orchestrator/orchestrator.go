// Package orchestrator ticks the Detector across every watched symbol for
// every user, pushing alertable events onto the Reason Engine's work queue
// and handing queue-processed events to the Notifier. It is the
// synchronous "evaluate, then dispatch" loop the teacher's cmd/engine
// wires inline (NATS quote subscription -> RuleEngine.Evaluate -> alert
// channel) generalized to poll the Detector on a fixed cadence instead of
// reacting to each individual quote message, since this system's
// detection unit is a rolling window, not a single-tick rule.
package orchestrator

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/detector"
	"github.com/pricesignal/reasoncore/pkg/model"
	"github.com/pricesignal/reasoncore/pkg/notifier"
	"github.com/pricesignal/reasoncore/pkg/queue"
	"github.com/pricesignal/reasoncore/pkg/store"
	"github.com/shopspring/decimal"
)

// Config bundles the tunables from pkg/config.Config.Detection.
type Config struct {
	ScanInterval         time.Duration
	DefaultWindowMinutes int
	DefaultThresholdPct  decimal.Decimal
	DebounceDuration     time.Duration
	DeltaPctForRealert   decimal.Decimal
	DebounceEvictAge     time.Duration
}

// Orchestrator owns the detection scan loop and the post-reason
// notification dispatch.
type Orchestrator struct {
	store    *store.Store
	detector *detector.Detector
	queue    queue.WorkQueue
	notifier *notifier.Notifier
	clock    clock.Clock
	cfg      Config
}

func New(s *store.Store, det *detector.Detector, q queue.WorkQueue, n *notifier.Notifier, c clock.Clock, cfg Config) *Orchestrator {
	return &Orchestrator{store: s, detector: det, queue: q, notifier: n, clock: c, cfg: cfg}
}

// RunScanLoop evaluates every watched (user, symbol, window) on
// cfg.ScanInterval until ctx is cancelled.
func (o *Orchestrator) RunScanLoop(ctx context.Context) {
	ticker := time.NewTicker(o.cfg.ScanInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := o.clock.NowUTC()
			o.scanOnce(ctx, now)
			o.detector.EvictStaleDebounce(now, o.cfg.DebounceEvictAge)
		}
	}
}

func (o *Orchestrator) scanOnce(ctx context.Context, now time.Time) {
	for _, userID := range o.store.Users.AllIDs() {
		watched := o.store.Watchlist.AllSymbolsByUser(userID)
		windows := o.windowsFor(userID)
		for _, item := range watched {
			for _, window := range windows {
				threshold := o.store.Thresholds.Effective(userID, window, o.cfg.DefaultThresholdPct)
				result, err := o.detector.Evaluate(userID, item.Market, item.Ticker, window, threshold, o.cfg.DeltaPctForRealert, o.cfg.DebounceDuration, now)
				if err != nil || !result.Emit {
					continue
				}
				o.dispatch(ctx, result)
			}
		}
	}
}

func (o *Orchestrator) windowsFor(userID string) []int {
	thresholds := o.store.Thresholds.ListByUser(userID)
	if len(thresholds) == 0 {
		return []int{o.cfg.DefaultWindowMinutes}
	}
	windows := make([]int, 0, len(thresholds))
	for _, t := range thresholds {
		windows = append(windows, t.WindowMinutes)
	}
	return windows
}

// dispatch pushes an alertable event onto the work queue; closed-session
// events still get this far (spec §4.2 records them) but are never
// queued for a reason search or a notification.
func (o *Orchestrator) dispatch(ctx context.Context, result detector.Result) {
	if !result.Alertable {
		return
	}
	if err := o.queue.Push(ctx, result.Event); err != nil {
		log.Printf("orchestrator: work queue push failed for event %s: %v", result.Event.ID, err)
	}
}

// NotifyProcessed is the Reason Engine worker pool's onProcessed hook: once
// an event has its reasons persisted, decide whether to notify the user.
func (o *Orchestrator) NotifyProcessed(eventID string) {
	event, err := o.store.Events.GetByID(eventID)
	if err != nil {
		return
	}
	watchers := o.store.Watchlist.WatchersOf(event.Market, event.Symbol)
	for _, userID := range watchers {
		message := notificationMessage(event)
		if _, _, err := o.notifier.Notify(userID, event, model.ChannelInApp, message); err != nil {
			log.Printf("orchestrator: notify failed for user %s event %s: %v", userID, eventID, err)
		}
	}
}

func notificationMessage(event model.PriceEvent) string {
	direction := "up"
	if event.ChangePct.IsNegative() {
		direction = "down"
	}
	return event.Symbol + " moved " + direction + " " + event.ChangePct.Abs().String() + "% over " + strconv.Itoa(event.WindowMinutes) + " minutes"
}

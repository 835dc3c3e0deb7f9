// Command server wires every component of the event/reason pipeline into
// one process: the in-memory store, the Detector, the Reason Engine and
// its worker pool, the Report State Machine, the Notifier, the Brief
// Builder, the Evidence Compare classifier, the cron scheduler, and the
// HTTP surface. Shape follows the teacher's cmd/api/main.go (load config,
// construct collaborators, build handlers, start the server) generalized
// across a much larger collaborator graph.
package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/pricesignal/reasoncore/pkg/adapter"
	"github.com/pricesignal/reasoncore/pkg/auth"
	"github.com/pricesignal/reasoncore/pkg/b2b"
	"github.com/pricesignal/reasoncore/pkg/brief"
	"github.com/pricesignal/reasoncore/pkg/catalog"
	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/compare"
	"github.com/pricesignal/reasoncore/pkg/config"
	"github.com/pricesignal/reasoncore/pkg/detector"
	"github.com/pricesignal/reasoncore/pkg/feed"
	"github.com/pricesignal/reasoncore/pkg/httpapi"
	"github.com/pricesignal/reasoncore/pkg/model"
	"github.com/pricesignal/reasoncore/pkg/notifier"
	"github.com/pricesignal/reasoncore/pkg/orchestrator"
	"github.com/pricesignal/reasoncore/pkg/queue"
	"github.com/pricesignal/reasoncore/pkg/reasonengine"
	"github.com/pricesignal/reasoncore/pkg/reportsm"
	"github.com/pricesignal/reasoncore/pkg/scheduler"
	"github.com/pricesignal/reasoncore/pkg/session"
	"github.com/pricesignal/reasoncore/pkg/store"
	"github.com/shopspring/decimal"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("config: %v, falling back to defaults", err)
		cfg = config.Default()
	}

	c := clock.NewSystem()
	sessions := session.NewRegistry(nil)
	cat := catalog.NewStatic(seedEntries())
	s := store.New(c)

	adapters := buildAdapters(cfg.NATS.URL)

	engine := reasonengine.New(adapters, reasonengine.Config{
		Lookback:             cfg.ReasonEngine.LookbackDuration,
		Trailing:             cfg.ReasonEngine.TrailingDuration,
		ProximityHorizon:     cfg.ReasonEngine.ProximityHorizon,
		PublishedAtTolerance: cfg.ReasonEngine.PublishedAtTolerance,
		AdapterTimeout:       cfg.ReasonEngine.AdapterTimeout,
		AdapterRetryBudget:   cfg.ReasonEngine.AdapterRetryBudget,
		Weights: reasonengine.Weights{
			SourceReliability: decimal.NewFromFloat(cfg.ReasonEngine.WeightSourceReliability),
			EventMatch:        decimal.NewFromFloat(cfg.ReasonEngine.WeightEventMatch),
			TimeProximity:     decimal.NewFromFloat(cfg.ReasonEngine.WeightTimeProximity),
		},
		Reputation: reasonengine.ReputationTable{},
	}, c)

	q, err := buildQueue(cfg)
	if err != nil {
		log.Fatalf("work queue: %v", err)
	}

	cmp := compare.New(s, c, compare.Config{
		MinCompareItems:   cfg.Compare.MinCompareItems,
		PolarityThreshold: cfg.Compare.SentimentThreshold,
	})

	notif := notifier.New(s, c, notifier.Config{
		CooldownTTLInApp:   cfg.Notifier.CooldownTTLInApp,
		CooldownTTLEmail:   cfg.Notifier.CooldownTTLEmail,
		DeltaPctForRealert: decimal.NewFromFloat(cfg.Detection.DeltaPctForRealert),
	})

	det := detector.New(c, sessions, cfg.Detection.MaxTickLookback)

	orch := orchestrator.New(s, det, q, notif, c, orchestrator.Config{
		ScanInterval:         cfg.Detection.ScanInterval,
		DefaultWindowMinutes: cfg.Detection.DefaultWindowMinutes,
		DefaultThresholdPct:  decimal.NewFromFloat(cfg.Detection.DefaultThresholdPct),
		DebounceDuration:     cfg.Detection.DebounceDuration,
		DeltaPctForRealert:   decimal.NewFromFloat(cfg.Detection.DeltaPctForRealert),
		DebounceEvictAge:     cfg.Detection.DebounceEvictAge,
	})

	pool := reasonengine.NewWorkerPool(engine, s, q, cfg.ReasonEngine.WorkerPoolSize, func(audit reasonengine.Audit) {
		orch.NotifyProcessed(audit.EventID)
	})

	reports := reportsm.New(s, engine, cmp, c)

	b2bKeys := make([]b2b.APIKey, 0, len(cfg.B2B.APIKeys))
	for _, k := range cfg.B2B.APIKeys {
		b2bKeys = append(b2bKeys, b2b.APIKey{
			Key:                k.Key,
			TenantID:           k.TenantID,
			RateLimitPerMinute: k.RateLimitPerMinute,
			AllowedSymbols:     k.AllowedSymbols,
			ExpiresAtUTC:       k.ExpiresAtUTC,
		})
	}
	b2bSvc := b2b.New(c, b2bKeys)

	briefs := brief.New(s, c, sessions, brief.Config{
		LookbackWindow:       cfg.Brief.LookbackWindow,
		TopN:                 cfg.Brief.TopN,
		InsufficientFloor:    cfg.Brief.InsufficientFloor,
		PreMarketTTLFallback: cfg.Brief.PreMarketTTLFallback,
		PostCloseTTL:         cfg.Brief.PostCloseTTL,
	})

	sched := scheduler.New(briefs, notif, s, c, scheduler.Config{
		PreMarketSpec: cfg.Scheduler.PreMarketSpec,
		PostCloseSpec: cfg.Scheduler.PostCloseSpec,
		PromotionSpec: cfg.Scheduler.PromotionSpec,
		BriefMarkets:  []model.Market{model.MarketUS, model.MarketKR},
	})
	if err := sched.Start(); err != nil {
		log.Fatalf("scheduler: %v", err)
	}
	defer sched.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pool.Run(ctx)
	go orch.RunScanLoop(ctx)

	tickFeed, err := feed.Connect(cfg.NATS.URL, det)
	if err != nil {
		log.Printf("tick feed: %v, detector will see no live ticks", err)
	} else {
		go func() {
			if err := tickFeed.Run(ctx); err != nil {
				log.Printf("tick feed stopped: %v", err)
			}
		}()
		defer tickFeed.Close()
	}

	srv := httpapi.New(cfg.API.Port, cfg.API.ReadTimeout, cfg.API.WriteTimeout, httpapi.Deps{
		Store:          s,
		Catalog:        cat,
		Auth:           auth.New(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry),
		Notifier:       notif,
		Briefs:         briefs,
		Compare:        cmp,
		Reports:        reports,
		Queue:          q,
		Clock:          c,
		B2B:            b2bSvc,
		HandlerTimeout: cfg.API.HandlerTimeout,
		AllowedOrigins: cfg.API.AllowedOrigins,
	})
	srv.Start()
}

func buildAdapters(natsURL string) []adapter.Adapter {
	fixture := adapter.NewFixture("bootstrap-fixture")
	adapters := []adapter.Adapter{fixture}

	newsAdapter, err := adapter.NewNATSNewsAdapter(natsURL)
	if err != nil {
		log.Printf("news adapter: %v, reason engine will run without a news feed", err)
		return adapters
	}
	return append(adapters, newsAdapter)
}

func buildQueue(cfg *config.Config) (queue.WorkQueue, error) {
	if cfg.NATS.URL == "" {
		return queue.NewLocal(cfg.ReasonEngine.WorkQueueCapacity), nil
	}
	q, err := queue.NewNATS(cfg.NATS.URL, "EVENTS_STREAM", "events.detected", "reason-engine-workers", cfg.ReasonEngine.WorkQueueCapacity)
	if err != nil {
		log.Printf("nats work queue unavailable (%v), falling back to an in-process queue", err)
		return queue.NewLocal(cfg.ReasonEngine.WorkQueueCapacity), nil
	}
	return q, nil
}

// seedEntries is the bootstrap Catalog: a small fixed set of heavily
// traded KR/US tickers, overridable via SEED_SYMBOLS
// ("US:AAPL:Apple Inc.,KR:005930:Samsung Electronics"). The external
// seed-symbol loader spec §1 assumes is out of this system's boundary;
// this only guarantees the service boots with something searchable.
func seedEntries() []catalog.Entry {
	if raw := os.Getenv("SEED_SYMBOLS"); raw != "" {
		var entries []catalog.Entry
		for _, chunk := range strings.Split(raw, ",") {
			parts := strings.SplitN(chunk, ":", 3)
			if len(parts) != 3 {
				continue
			}
			entries = append(entries, catalog.Entry{
				Market: model.Market(parts[0]),
				Ticker: parts[1],
				Name:   parts[2],
				Active: true,
			})
		}
		if len(entries) > 0 {
			return entries
		}
	}
	return []catalog.Entry{
		{Market: model.MarketUS, Ticker: "AAPL", Name: "Apple Inc.", Active: true},
		{Market: model.MarketUS, Ticker: "MSFT", Name: "Microsoft Corp.", Active: true},
		{Market: model.MarketUS, Ticker: "NVDA", Name: "NVIDIA Corp.", Active: true},
		{Market: model.MarketUS, Ticker: "TSLA", Name: "Tesla Inc.", Active: true},
		{Market: model.MarketKR, Ticker: "005930", Name: "Samsung Electronics", Active: true},
		{Market: model.MarketKR, Ticker: "000660", Name: "SK Hynix", Active: true},
		{Market: model.MarketKR, Ticker: "035420", Name: "Naver Corp.", Active: true},
	}
}

// Package httpapi is the HTTP/JSON transport of spec §6: gin router,
// bearer-token auth, the error envelope, and one handler group per
// resource. Routing/lifecycle shape is carried over from the teacher's
// pkg/api/server.go (gin.Default, Recovery+Logger, graceful shutdown on
// SIGINT/SIGTERM); every handler itself is new, since the teacher's
// domain (quotes/alerts/subscriptions) has no equivalent to watchlists,
// reason reports, briefs, or evidence-compare.
package httpapi

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pricesignal/reasoncore/pkg/auth"
	"github.com/pricesignal/reasoncore/pkg/b2b"
	"github.com/pricesignal/reasoncore/pkg/brief"
	"github.com/pricesignal/reasoncore/pkg/catalog"
	"github.com/pricesignal/reasoncore/pkg/clock"
	"github.com/pricesignal/reasoncore/pkg/compare"
	"github.com/pricesignal/reasoncore/pkg/notifier"
	"github.com/pricesignal/reasoncore/pkg/queue"
	"github.com/pricesignal/reasoncore/pkg/reportsm"
	"github.com/pricesignal/reasoncore/pkg/store"
)

// Deps bundles every component the HTTP surface calls into.
type Deps struct {
	Store      *store.Store
	Catalog    catalog.Catalog
	Auth       *auth.Auth
	Notifier   *notifier.Notifier
	Briefs     *brief.Builder
	Compare    *compare.Classifier
	Reports    *reportsm.Machine
	Queue      queue.WorkQueue
	Clock      clock.Clock
	B2B        *b2b.Service

	HandlerTimeout time.Duration
	AllowedOrigins []string
}

// Server owns the gin engine and its http.Server.
type Server struct {
	router *gin.Engine
	srv    *http.Server
}

// New builds the router and registers every route in spec §6's table.
func New(port string, readTimeout, writeTimeout time.Duration, deps Deps) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(requestIDMiddleware())
	router.Use(corsMiddleware(deps.AllowedOrigins))
	router.Use(handlerTimeout(deps.HandlerTimeout))

	h := &handlers{deps: deps}
	registerRoutes(router, h, deps.Auth)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
	return &Server{router: router, srv: srv}
}

func registerRoutes(r *gin.Engine, h *handlers, a *auth.Auth) {
	r.GET("/health", h.health)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/signup", h.signup)
		v1.POST("/auth/login", h.login)
		v1.GET("/auth/me", requireAuth(a), h.me)

		v1.GET("/symbols/search", h.symbolSearch)

		watch := v1.Group("/watchlists/items", requireAuth(a))
		watch.GET("", h.listWatchlist)
		watch.POST("", h.addWatchlist)
		watch.DELETE("/:id", h.removeWatchlist)

		events := v1.Group("/events", requireAuth(a))
		events.GET("", h.listEvents)
		events.GET("/:id", h.getEvent)
		events.POST("/:id/feedback", h.upsertFeedback)
		events.POST("/:id/reason-reports", h.createReasonReport)
		events.GET("/:id/reason-revisions", h.reasonRevisions)
		events.GET("/:id/evidence-compare", h.evidenceCompare)

		briefs := v1.Group("/briefs", requireAuth(a))
		briefs.GET("", h.listBriefs)
		briefs.GET("/:id", h.getBrief)
		briefs.PATCH("/:id/read", h.markBriefRead)

		notifications := v1.Group("/notifications", requireAuth(a))
		notifications.GET("", h.listNotifications)
		notifications.PATCH("/:id/read", h.markNotificationRead)

		thresholds := v1.Group("/thresholds", requireAuth(a))
		thresholds.GET("", h.listThresholds)
		thresholds.POST("", h.upsertThreshold)

		portfolioHoldings := v1.Group("/portfolio/holdings", requireAuth(a))
		portfolioHoldings.POST("", h.upsertPortfolioHolding)
		portfolioHoldings.GET("", h.listPortfolioHoldings)
		portfolioHoldings.DELETE("/:id", h.deletePortfolioHolding)

		b2bGuard := requireAPIKey(h.deps.B2B)
		b2b := v1.Group("/b2b", b2bGuard)
		b2b.GET("/ping", h.b2bPing)
		b2b.GET("/events/summary", h.b2bEventSummary)
	}
}

// Start launches the server in a goroutine and blocks until SIGINT or
// SIGTERM, then drains in-flight requests before returning.
func (s *Server) Start() {
	go func() {
		log.Printf("http server listening on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		log.Fatalf("http server shutdown failed: %v", err)
	}
	log.Println("http server stopped")
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() http.Handler { return s.router }

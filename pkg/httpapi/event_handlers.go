package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pricesignal/reasoncore/pkg/apperr"
	"github.com/pricesignal/reasoncore/pkg/model"
	"github.com/pricesignal/reasoncore/pkg/portfolio"
)

// watchedSymbols builds the set EventStore.ListForUser expects: every
// (market, ticker) the caller currently has on their watchlist.
func (h *handlers) watchedSymbols(userID string) map[string]bool {
	items := h.deps.Store.Watchlist.AllSymbolsByUser(userID)
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[string(it.Market)+":"+it.Ticker] = true
	}
	return set
}

func (h *handlers) listEvents(c *gin.Context) {
	size := queryInt(c, "size", 20)
	var cursor time.Time
	if v := c.Query("cursor"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(c, apperr.InvalidInput("cursor must be an RFC3339 timestamp"))
			return
		}
		cursor = parsed
	}
	now := h.deps.Clock.NowUTC()
	events, next := h.deps.Store.Events.ListForUser(h.watchedSymbols(currentUserID(c)), 30*24*time.Hour, now, size, cursor)
	resp := gin.H{"items": events}
	if !next.IsZero() {
		resp["next_cursor"] = next.Format(time.RFC3339)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) getEvent(c *gin.Context) {
	event, err := h.deps.Store.Events.GetByID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	reasons := h.deps.Store.Reasons.ListByEvent(event.ID)
	revisions := h.deps.Store.Revisions.ListByEvent(event.ID)

	c.JSON(http.StatusOK, gin.H{
		"event":             eventWithPortfolioImpact(event, h.portfolioImpact(c, event)),
		"reasons":           reasons,
		"reason_status":     model.DeriveReasonStatus(reasons),
		"explanation_text":  explanationText(reasons),
		"revision_hint":     revisionHint(revisions),
	})
}

// portfolioImpact returns the caller's estimated P&L on event, or nil if
// they hold no position in its symbol. This route already requires a
// valid bearer token (every /v1/events route does), so currentUserID is
// always populated here; there is no anonymous-caller case to null out.
func (h *handlers) portfolioImpact(c *gin.Context, event model.PriceEvent) *model.PortfolioImpact {
	holding, ok := h.deps.Store.Portfolio.GetBySymbol(currentUserID(c), event.Symbol)
	if !ok {
		return nil
	}
	impact, err := portfolio.EstimateImpact(event.Market, event.Symbol, holding.Qty, holding.AvgPrice, event.ChangePct)
	if err != nil {
		return nil
	}
	return &impact
}

// eventWithPortfolioImpact augments the stored, immutable PriceEvent with
// a per-caller field for the JSON response only; the event row itself
// never carries per-user data.
func eventWithPortfolioImpact(event model.PriceEvent, impact *model.PortfolioImpact) gin.H {
	return gin.H{
		"id":                event.ID,
		"market":            event.Market,
		"symbol":            event.Symbol,
		"change_pct":        event.ChangePct,
		"window_minutes":    event.WindowMinutes,
		"detected_at_utc":   event.DetectedAtUTC,
		"exchange_timezone": event.ExchangeTimezone,
		"session_label":     event.SessionLabel,
		"is_delta_realert":  event.IsDeltaRealert,
		"portfolio_impact":  impact,
	}
}

// explanationText renders a single human-readable summary line from the
// top-ranked reasons, for clients that don't want to walk the reason list
// themselves.
func explanationText(reasons []model.EventReason) string {
	if len(reasons) == 0 {
		return "No corroborating evidence has been found for this move yet."
	}
	parts := make([]string, 0, len(reasons))
	for _, r := range reasons {
		parts = append(parts, r.Summary)
	}
	return strings.Join(parts, " ")
}

// revisionHint surfaces the most recent revision's stated reason, if any,
// so the client can flag "this explanation changed" without a second call.
func revisionHint(revisions []model.ReasonRevision) string {
	if len(revisions) == 0 {
		return ""
	}
	return revisions[len(revisions)-1].RevisionReason
}

type feedbackRequest struct {
	ReasonID string     `json:"reason_id" binding:"required"`
	Vote     model.Vote `json:"vote" binding:"required"`
}

func (h *handlers) upsertFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidInput(err.Error()))
		return
	}
	f, overwritten := h.deps.Store.Feedback.Upsert(currentUserID(c), c.Param("id"), req.ReasonID, req.Vote)
	c.JSON(http.StatusOK, gin.H{"feedback": f, "overwritten": overwritten})
}

type reasonReportRequest struct {
	ReasonID   string            `json:"reason_id" binding:"required"`
	ReportType model.ReportType  `json:"report_type" binding:"required"`
	Note       string            `json:"note"`
}

func (h *handlers) createReasonReport(c *gin.Context) {
	var req reasonReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidInput(err.Error()))
		return
	}
	report, err := h.deps.Reports.FileReport(currentUserID(c), c.Param("id"), req.ReasonID, req.ReportType, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (h *handlers) reasonRevisions(c *gin.Context) {
	eventID := c.Param("id")
	if !h.deps.Store.Reports.HasAnyForEvent(eventID) {
		respondError(c, apperr.New(apperr.CodeReasonRevisionHistoryNotFound, "no report has ever been filed for this event"))
		return
	}
	revisions := h.deps.Store.Revisions.ListByEvent(eventID)
	transitions := h.deps.Store.Transitions.ListByEvent(eventID)
	reports := h.deps.Store.Reports.ListByEvent(eventID)

	var latestStatus model.ReportState
	if len(reports) > 0 {
		latestStatus = reports[len(reports)-1].State
	}

	c.JSON(http.StatusOK, gin.H{
		"revisions":   revisions,
		"transitions": transitions,
		"meta": gin.H{
			"has_revision_history": len(revisions) > 0,
			"latest_status":        latestStatus,
		},
	})
}

func (h *handlers) evidenceCompare(c *gin.Context) {
	result, err := h.deps.Compare.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

package httpapi

import (
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pricesignal/reasoncore/pkg/apperr"
	"github.com/pricesignal/reasoncore/pkg/b2b"
	"github.com/pricesignal/reasoncore/pkg/model"
	"github.com/shopspring/decimal"
)

const b2bPrincipalKey = "b2b_principal"

// requireAPIKey authenticates the X-Api-Key header against svc and
// enforces that tenant's per-minute rate limit, the B2B equivalent of
// requireAuth's bearer-token check. Never logs the raw key, only the
// derived KeyID, matching b2b_guard.py's logging contract.
func requireAPIKey(svc *b2b.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawKey := c.GetHeader("X-Api-Key")
		principal, err := svc.Authenticate(rawKey)
		if err != nil {
			log.Printf("request_id=%s b2b_auth_failed", requestID(c))
			respondError(c, err)
			c.Abort()
			return
		}
		if err := svc.EnforceRateLimit(principal); err != nil {
			log.Printf("request_id=%s b2b_rate_limited tenant_id=%s key_id=%s", requestID(c), principal.TenantID, principal.KeyID)
			respondError(c, err)
			c.Abort()
			return
		}
		log.Printf("request_id=%s b2b_authenticated tenant_id=%s key_id=%s", requestID(c), principal.TenantID, principal.KeyID)
		c.Set(b2bPrincipalKey, principal)
		c.Next()
	}
}

func currentB2BPrincipal(c *gin.Context) b2b.Principal {
	v, _ := c.Get(b2bPrincipalKey)
	p, _ := v.(b2b.Principal)
	return p
}

func (h *handlers) b2bPing(c *gin.Context) {
	p := currentB2BPrincipal(c)
	c.JSON(http.StatusOK, gin.H{"ok": true, "tenant_id": p.TenantID})
}

// b2bSummaryItem is the subset of PriceEvent fields the tenant summary
// exposes, matching _to_summary_item's field list.
type b2bSummaryItem struct {
	ID            string             `json:"id"`
	Symbol        string             `json:"symbol"`
	Market        model.Market       `json:"market"`
	ChangePct     decimal.Decimal    `json:"change_pct"`
	DetectedAtUTC time.Time          `json:"detected_at_utc"`
	SessionLabel  model.SessionLabel `json:"session_label"`
}

const b2bDefaultWindow = 24 * time.Hour
const b2bDefaultLimit = 100
const b2bMaxLimit = 100

func (h *handlers) b2bEventSummary(c *gin.Context) {
	p := currentB2BPrincipal(c)

	now, err := b2bParseOptionalTime(c.Query("now"), h.deps.Clock.NowUTC())
	if err != nil {
		respondError(c, apperr.InvalidInput("now must be an RFC3339 timestamp"))
		return
	}
	to, err := b2bParseOptionalTime(c.Query("to"), now)
	if err != nil {
		respondError(c, apperr.InvalidInput("to must be an RFC3339 timestamp"))
		return
	}
	from, err := b2bParseOptionalTime(c.Query("from"), to.Add(-b2bDefaultWindow))
	if err != nil {
		respondError(c, apperr.InvalidInput("from must be an RFC3339 timestamp"))
		return
	}
	if from.After(to) {
		respondError(c, apperr.InvalidInput("from must not be after to"))
		return
	}

	limit := b2bDefaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > b2bMaxLimit {
			respondError(c, apperr.InvalidInput("limit must be an integer between 1 and 100"))
			return
		}
		limit = n
	}

	requested := b2bParseSymbolsParam(c.Query("symbols"))
	events := h.deps.Store.Events.ListInRange(from, to, 0)

	items := make([]b2bSummaryItem, 0, len(events))
	removed := make(map[string]bool)
	for _, e := range events {
		if len(requested) > 0 && !requested[e.Symbol] {
			continue
		}
		if p.AllowedSymbols != nil && !p.AllowedSymbols[e.Symbol] {
			if len(requested) > 0 && requested[e.Symbol] {
				removed[e.Symbol] = true
			}
			continue
		}
		items = append(items, b2bSummaryItem{
			ID:            e.ID,
			Symbol:        e.Symbol,
			Market:        e.Market,
			ChangePct:     e.ChangePct,
			DetectedAtUTC: e.DetectedAtUTC,
			SessionLabel:  e.SessionLabel,
		})
		if len(items) >= limit {
			break
		}
	}

	if len(removed) > 0 {
		log.Printf("request_id=%s b2b_summary_filtered_symbols tenant_id=%s removed_symbols=%v", requestID(c), p.TenantID, sortedKeys(removed))
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func b2bParseOptionalTime(raw string, fallback time.Time) (time.Time, error) {
	if raw == "" {
		return fallback, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func b2bParseSymbolsParam(raw string) map[string]bool {
	if raw == "" {
		return nil
	}
	out := make(map[string]bool)
	for _, sym := range strings.Split(raw, ",") {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym != "" {
			out[sym] = true
		}
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

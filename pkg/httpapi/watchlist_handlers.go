package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pricesignal/reasoncore/pkg/apperr"
	"github.com/pricesignal/reasoncore/pkg/model"
)

func (h *handlers) listWatchlist(c *gin.Context) {
	page := queryInt(c, "page", 1)
	size := queryInt(c, "size", 20)
	items, total := h.deps.Store.Watchlist.ListByUser(currentUserID(c), page, size)
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total, "page": page, "size": size})
}

type addWatchlistRequest struct {
	Market model.Market `json:"market" binding:"required"`
	Symbol string       `json:"symbol" binding:"required"`
}

func (h *handlers) addWatchlist(c *gin.Context) {
	var req addWatchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidInput(err.Error()))
		return
	}
	if _, ok := h.deps.Catalog.Lookup(req.Market, req.Symbol); !ok {
		respondError(c, apperr.InvalidInput("symbol is not in the catalog for this market"))
		return
	}
	item, isDuplicate, err := h.deps.Store.Watchlist.Add(currentUserID(c), req.Market, req.Symbol)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusCreated
	if isDuplicate {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"item": item, "is_duplicate": isDuplicate})
}

func (h *handlers) removeWatchlist(c *gin.Context) {
	if err := h.deps.Store.Watchlist.Remove(currentUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) symbolSearch(c *gin.Context) {
	q := c.Query("q")
	if len(q) < 2 || len(q) > 20 {
		respondError(c, apperr.InvalidInput("q must be between 2 and 20 characters"))
		return
	}
	market := model.Market(c.Query("market"))
	results := h.deps.Catalog.Search(market, q, 50)
	c.JSON(http.StatusOK, gin.H{"items": results, "catalog_version": h.deps.Catalog.Version()})
}

func (h *handlers) listThresholds(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.deps.Store.Thresholds.ListByUser(currentUserID(c))})
}

type upsertThresholdRequest struct {
	WindowMinutes int    `json:"window_minutes" binding:"required"`
	ThresholdPct  string `json:"threshold_pct" binding:"required"`
}

func (h *handlers) upsertThreshold(c *gin.Context) {
	var req upsertThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidInput(err.Error()))
		return
	}
	pct, err := parseDecimal(req.ThresholdPct)
	if err != nil {
		respondError(c, apperr.InvalidInput("threshold_pct must be a decimal string"))
		return
	}
	t, err := h.deps.Store.Thresholds.Upsert(currentUserID(c), req.WindowMinutes, pct)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

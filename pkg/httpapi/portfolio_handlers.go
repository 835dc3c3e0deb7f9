package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pricesignal/reasoncore/pkg/apperr"
)

type upsertHoldingRequest struct {
	Symbol   string `json:"symbol" binding:"required"`
	Qty      string `json:"qty" binding:"required"`
	AvgPrice string `json:"avg_price" binding:"required"`
}

func (h *handlers) upsertPortfolioHolding(c *gin.Context) {
	var req upsertHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.InvalidInput(err.Error()))
		return
	}
	qty, err := parseDecimal(req.Qty)
	if err != nil {
		respondError(c, apperr.InvalidInput("qty must be a decimal string"))
		return
	}
	avgPrice, err := parseDecimal(req.AvgPrice)
	if err != nil {
		respondError(c, apperr.InvalidInput("avg_price must be a decimal string"))
		return
	}
	holding, created, err := h.deps.Store.Portfolio.Upsert(currentUserID(c), req.Symbol, qty, avgPrice)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"holding": holding, "created": created})
}

func (h *handlers) listPortfolioHoldings(c *gin.Context) {
	items := h.deps.Store.Portfolio.ListByUser(currentUserID(c))
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

func (h *handlers) deletePortfolioHolding(c *gin.Context) {
	if err := h.deps.Store.Portfolio.Delete(currentUserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true, "holding_id": c.Param("id")})
}

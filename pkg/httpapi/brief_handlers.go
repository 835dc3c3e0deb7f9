package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pricesignal/reasoncore/pkg/apperr"
)

func (h *handlers) listBriefs(c *gin.Context) {
	size := queryInt(c, "size", 20)
	briefs, total := h.deps.Briefs.ListForUser(currentUserID(c), 1, size)
	unread := 0
	for _, b := range briefs {
		if b.Status == "unread" {
			unread++
		}
	}
	c.JSON(http.StatusOK, gin.H{"items": briefs, "total": total, "meta": gin.H{"unread_count": unread}})
}

func (h *handlers) getBrief(c *gin.Context) {
	b, err := h.deps.Briefs.GetForUser(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if b.IsExpired(h.deps.Clock.NowUTC()) {
		respondError(c, apperr.New(apperr.CodeBriefLinkExpired, "this brief has expired"))
		return
	}
	marked, err := h.deps.Briefs.MarkRead(b.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, marked)
}

func (h *handlers) markBriefRead(c *gin.Context) {
	b, err := h.deps.Briefs.MarkRead(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

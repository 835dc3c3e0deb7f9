package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlers) listNotifications(c *gin.Context) {
	page := queryInt(c, "page", 1)
	size := queryInt(c, "size", 20)
	userID := currentUserID(c)
	items, total := h.deps.Store.Notifications.ListByUser(userID, page, size)
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": total,
		"meta":  gin.H{"unread_count": h.deps.Notifier.UnreadCount(userID)},
	})
}

func (h *handlers) markNotificationRead(c *gin.Context) {
	n, err := h.deps.Notifier.MarkRead(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

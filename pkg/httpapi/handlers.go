package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handlers holds every dependency the route functions close over,
// mirroring the teacher's single *Handlers receiver in pkg/api/handlers.go.
type handlers struct {
	deps Deps
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

package httpapi

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pricesignal/reasoncore/pkg/apperr"
	"github.com/pricesignal/reasoncore/pkg/auth"
)

const requestIDKey = "request_id"
const userIDKey = "user_id"

// requestIDMiddleware mints the opaque request_id spec §6 requires on
// every response, mirroring the teacher's gin.Logger()/gin.Recovery() pair
// with one more layer the teacher never needed: a correlation id clients
// quote back for support.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-Id", id)
		c.Next()
	}
}

// handlerTimeout bounds every request by the configured hard upper
// timeout (spec §5: "HTTP handlers impose a hard upper timeout (default
// 10s) after which they return 504 with retryable: true").
func handlerTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		done := make(chan struct{})
		go func() {
			c.Next()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			// statusFor maps temporarily_unavailable to 503 for the generic
			// case; a handler timeout is specifically a gateway timeout, so
			// this is built and emitted by hand rather than through
			// respondError/statusFor.
			e := apperr.New(apperr.CodeTemporarilyUnavailable, "request exceeded the handler timeout")
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"code":       string(e.Code),
				"message":    e.Message,
				"request_id": requestID(c),
				"retryable":  e.Retryable,
			})
			c.Abort()
		}
	}
}

// requireAuth rejects requests without a valid bearer token, attaching
// the resolved user id for handlers that need it. Mutation endpoints per
// spec §6 all carry this middleware; read-only lookup endpoints (symbol
// search, health) do not.
func requireAuth(a *auth.Auth) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := a.ExtractClaims(c.Request)
		if err != nil || claims == nil {
			respondError(c, apperr.New(apperr.CodeInvalidToken, "a valid bearer token is required"))
			c.Abort()
			return
		}
		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	v, _ := c.Get(userIDKey)
	s, _ := v.(string)
	return s
}

// corsMiddleware implements spec §6's pairing rule: when allowedOrigins
// is non-empty, http://localhost:PORT and http://127.0.0.1:PORT are both
// accepted for any PORT present in the configured set (as either host).
func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	ports := make(map[string]bool)
	for _, origin := range allowedOrigins {
		if port := portOf(origin); port != "" {
			ports[port] = true
		}
	}
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	for port := range ports {
		allowed["http://localhost:"+port] = true
		allowed["http://127.0.0.1:"+port] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if len(allowed) == 0 {
			c.Next()
			return
		}
		if allowed[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func portOf(origin string) string {
	idx := strings.LastIndex(origin, ":")
	if idx < 0 || idx == len(origin)-1 {
		return ""
	}
	return origin[idx+1:]
}

func logUncaught(c *gin.Context, err error) {
	log.Printf("request_id=%s unhandled error: %v", requestID(c), err)
}

package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pricesignal/reasoncore/pkg/apperr"
)

// statusFor maps an apperr.Code to the HTTP status spec §7 requires.
func statusFor(code apperr.Code) int {
	switch code {
	case apperr.CodeInvalidInput, apperr.CodeDuplicateReasonReport:
		return http.StatusBadRequest
	case apperr.CodeInvalidCredentials, apperr.CodeInvalidToken, apperr.CodeInvalidAPIKey:
		return http.StatusUnauthorized
	case apperr.CodeForbidden:
		return http.StatusForbidden
	case apperr.CodeNotFound, apperr.CodeReasonRevisionHistoryNotFound, apperr.CodePortfolioHoldingNotFound:
		return http.StatusNotFound
	case apperr.CodeConflict, apperr.CodeEmailAlreadyExists:
		return http.StatusConflict
	case apperr.CodeBriefLinkExpired:
		return http.StatusGone
	case apperr.CodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case apperr.CodeBackpressure, apperr.CodeTemporarilyUnavailable, apperr.CodeUpstreamUnavailable, apperr.CodeCompareUpstreamTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError normalizes any error into the {code, message, details,
// request_id, retryable} envelope of spec §6, logging uncaught errors
// with the request id per §7.
func respondError(c *gin.Context, err error) {
	e := apperr.As(err)
	if e.Code == apperr.CodeUnknown {
		logUncaught(c, err)
	}
	if e.Code == apperr.CodeRateLimitExceeded {
		if retryAfter, ok := e.Details["retry_after_seconds"].(int); ok {
			c.Header("Retry-After", strconv.Itoa(retryAfter))
		}
	}
	c.JSON(statusFor(e.Code), gin.H{
		"code":       string(e.Code),
		"message":    e.Message,
		"details":    e.Details,
		"request_id": requestID(c),
		"retryable":  e.Retryable,
	})
}

func requestID(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

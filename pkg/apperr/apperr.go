// Package apperr is the error taxonomy shared by the store, the domain
// components, and the HTTP surface. Every component returns one of these
// rather than a bare error, so the HTTP layer can map code -> status
// without re-deriving intent from error strings (the teacher repo instead
// formats Chinese error strings ad hoc in every handler; §7 requires a
// stable machine-readable `code`, so this package is new plumbing built in
// the teacher's wrap-with-%w style).
package apperr

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable error identifier echoed to clients.
type Code string

const (
	CodeInvalidInput                Code = "invalid_input"
	CodeInvalidCredentials           Code = "invalid_credentials"
	CodeEmailAlreadyExists           Code = "email_already_exists"
	CodeInvalidToken                 Code = "invalid_token"
	CodeForbidden                    Code = "forbidden"
	CodeNotFound                     Code = "not_found"
	CodeConflict                     Code = "conflict"
	CodeDuplicateReasonReport        Code = "duplicate_reason_report"
	CodeReasonRevisionHistoryNotFound Code = "reason_revision_history_not_found"
	CodeBriefLinkExpired             Code = "brief_link_expired"
	CodeCompareUpstreamTimeout       Code = "compare_upstream_timeout"
	CodeTemporarilyUnavailable       Code = "temporarily_unavailable"
	CodeUpstreamUnavailable          Code = "upstream_unavailable"
	CodeBackpressure                Code = "backpressure"
	CodeInvalidAPIKey                Code = "invalid_api_key"
	CodeRateLimitExceeded            Code = "rate_limit_exceeded"
	CodePortfolioHoldingNotFound     Code = "portfolio_holding_not_found"
	CodeUnknown                     Code = "unknown_error"
)

// retryable records, per code, whether clients should be told to retry.
var retryable = map[Code]bool{
	CodeTemporarilyUnavailable: true,
	CodeUpstreamUnavailable:    true,
	CodeBackpressure:           true,
	CodeCompareUpstreamTimeout: true,
	CodeRateLimitExceeded:      true,
}

// Error is the canonical typed failure. It wraps an underlying cause the
// same way every teacher package wraps with %w, but also carries the code,
// an optional details object, and the retry hint.
type Error struct {
	Code      Code
	Message   string
	Details   map[string]any
	Retryable bool
	cause     error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds an Error, deriving Retryable from the code unless overridden
// by WithRetryable.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message, Retryable: retryable[code]}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	e := New(code, message)
	e.cause = cause
	return e
}

// WithDetails attaches a details object and returns the receiver for
// chaining.
func (e *Error) WithDetails(d map[string]any) *Error {
	e.Details = d
	return e
}

// WithRetryable overrides the default retryability for the code.
func (e *Error) WithRetryable(r bool) *Error {
	e.Retryable = r
	return e
}

// As extracts an *Error from err, falling back to a generic unknown_error
// wrapper (the HTTP layer's normalization rule in §7) if err is not one of
// ours.
func As(err error) *Error {
	var target *Error
	if errors.As(err, &target) {
		return target
	}
	return Wrap(CodeUnknown, "unexpected error", err)
}

func NotFound(what string) *Error {
	return New(CodeNotFound, what+" not found")
}

func Conflict(what string) *Error {
	return New(CodeConflict, what)
}

func InvalidInput(what string) *Error {
	return New(CodeInvalidInput, what)
}

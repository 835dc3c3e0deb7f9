package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewDerivesRetryableFromCode(t *testing.T) {
	if err := New(CodeNotFound, "missing"); err.Retryable {
		t.Fatalf("not_found should not default to retryable")
	}
	if err := New(CodeBackpressure, "full"); !err.Retryable {
		t.Fatalf("backpressure should default to retryable")
	}
}

func TestWithRetryableOverridesDefault(t *testing.T) {
	err := New(CodeNotFound, "missing").WithRetryable(true)
	if !err.Retryable {
		t.Fatalf("WithRetryable(true) should override the not_found default")
	}
}

func TestAsUnwrapsOurError(t *testing.T) {
	original := NotFound("user")
	wrapped := fmt.Errorf("context: %w", original)

	got := As(wrapped)
	if got != original {
		t.Fatalf("As should unwrap to the same *Error instance the chain carries")
	}
}

func TestAsWrapsForeignError(t *testing.T) {
	foreign := errors.New("boom")
	got := As(foreign)
	if got.Code != CodeUnknown {
		t.Fatalf("code = %s, want unknown_error", got.Code)
	}
	if !errors.Is(got, foreign) {
		t.Fatalf("wrapped error should unwrap to the foreign cause")
	}
}

func TestWrapPreservesCauseInMessage(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := Wrap(CodeUpstreamUnavailable, "fetch failed", cause)
	if err.Unwrap() != cause {
		t.Fatalf("Unwrap() should return the original cause")
	}
	if err.Error() == "" {
		t.Fatalf("Error() should not be empty")
	}
}

func TestWithDetailsChains(t *testing.T) {
	err := InvalidInput("bad market").WithDetails(map[string]any{"field": "market"})
	if err.Details["field"] != "market" {
		t.Fatalf("expected details to carry the field name")
	}
}

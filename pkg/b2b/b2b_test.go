package b2b

import (
	"testing"
	"time"

	"github.com/pricesignal/reasoncore/pkg/apperr"
	"github.com/pricesignal/reasoncore/pkg/clock"
)

func newTestService(now time.Time) (*Service, clock.Clock) {
	c := clock.NewFixed(now, time.Second)
	svc := New(c, []APIKey{
		{Key: "tenant-a-key", TenantID: "tenant-a", RateLimitPerMinute: 2},
	})
	return svc, c
}

func TestAuthenticateRejectsBlankAndUnknownKeys(t *testing.T) {
	svc, _ := newTestService(time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC))
	if _, err := svc.Authenticate(""); apperr.As(err).Code != apperr.CodeInvalidAPIKey {
		t.Fatalf("blank key: got %v, want invalid_api_key", err)
	}
	if _, err := svc.Authenticate("nope"); apperr.As(err).Code != apperr.CodeInvalidAPIKey {
		t.Fatalf("unknown key: got %v, want invalid_api_key", err)
	}
}

func TestAuthenticateRejectsExpiredKey(t *testing.T) {
	now := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	expired := now.Add(-time.Hour)
	c := clock.NewFixed(now, time.Second)
	svc := New(c, []APIKey{{Key: "k", TenantID: "t", RateLimitPerMinute: 10, ExpiresAtUTC: &expired}})
	if _, err := svc.Authenticate("k"); apperr.As(err).Code != apperr.CodeInvalidAPIKey {
		t.Fatalf("got %v, want invalid_api_key", err)
	}
}

func TestAuthenticateNeverReturnsRawKeyAsID(t *testing.T) {
	svc, _ := newTestService(time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC))
	p, err := svc.Authenticate("tenant-a-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.TenantID != "tenant-a" {
		t.Fatalf("tenant_id = %s, want tenant-a", p.TenantID)
	}
	if p.KeyID == "tenant-a-key" || len(p.KeyID) != 12 {
		t.Fatalf("key_id = %q, want a 12-char derived id, not the raw key", p.KeyID)
	}
}

func TestEnforceRateLimitBlocksThirdCallInSameMinute(t *testing.T) {
	svc, _ := newTestService(time.Date(2026, 1, 5, 12, 0, 30, 0, time.UTC))
	p, err := svc.Authenticate("tenant-a-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.EnforceRateLimit(p); err != nil {
		t.Fatalf("1st call: unexpected error: %v", err)
	}
	if err := svc.EnforceRateLimit(p); err != nil {
		t.Fatalf("2nd call: unexpected error: %v", err)
	}
	err = svc.EnforceRateLimit(p)
	e := apperr.As(err)
	if e.Code != apperr.CodeRateLimitExceeded {
		t.Fatalf("3rd call: got %v, want rate_limit_exceeded", err)
	}
	retryAfter, ok := e.Details["retry_after_seconds"].(int)
	if !ok || retryAfter < 1 {
		t.Fatalf("retry_after_seconds = %v, want >= 1", e.Details["retry_after_seconds"])
	}
}

func TestResetRateLimitsClearsBuckets(t *testing.T) {
	svc, _ := newTestService(time.Date(2026, 1, 5, 12, 0, 30, 0, time.UTC))
	p, _ := svc.Authenticate("tenant-a-key")
	_ = svc.EnforceRateLimit(p)
	_ = svc.EnforceRateLimit(p)
	svc.ResetRateLimits()
	if err := svc.EnforceRateLimit(p); err != nil {
		t.Fatalf("after reset: unexpected error: %v", err)
	}
}

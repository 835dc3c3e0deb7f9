package model

import (
	"testing"
	"time"
)

func TestBriefIsExpired(t *testing.T) {
	now := time.Date(2026, 1, 6, 12, 0, 0, 0, time.UTC)
	b := Brief{ExpiresAtUTC: now.Add(-time.Minute)}
	if !b.IsExpired(now) {
		t.Fatalf("expected a brief whose expiry is in the past to report expired")
	}

	b.ExpiresAtUTC = now.Add(time.Minute)
	if b.IsExpired(now) {
		t.Fatalf("expected a brief whose expiry is in the future to report not expired")
	}
}

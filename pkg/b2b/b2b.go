// Package b2b authenticates and rate-limits the tenant API-key surface
// under /v1/b2b/*, kept separate from pkg/auth's bearer-JWT scheme since
// a B2B tenant has no User row and no session — it authenticates with a
// long-lived shared secret instead. Grounded on
// original_source/apps/domain/b2b_auth.py's B2BAuthService: the same
// sha256-derived key id (never logging the raw key), the same
// minute-bucketed per-tenant counter, and the same env-configured
// key table, adapted here to this repository's YAML Config layer, with
// the B2B_API_KEYS_JSON env var as a JSON override.
package b2b

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/pricesignal/reasoncore/pkg/apperr"
	"github.com/pricesignal/reasoncore/pkg/clock"
)

// APIKey is one tenant's configured credential.
type APIKey struct {
	Key                string
	TenantID           string
	RateLimitPerMinute int
	AllowedSymbols     []string // empty means no allowlist restriction
	ExpiresAtUTC       *time.Time
}

// Principal is the authenticated identity attached to a B2B request.
type Principal struct {
	TenantID           string
	KeyID              string
	RateLimitPerMinute int
	AllowedSymbols     map[string]bool // nil means unrestricted
}

// Service authenticates API keys and enforces their per-minute rate
// limit. One Service per process; keys are loaded once at construction.
type Service struct {
	clock clock.Clock

	byKey map[string]APIKey // raw key -> record

	mu      sync.Mutex
	buckets map[bucketKey]int
}

type bucketKey struct {
	tenantID string
	minute   int64
}

func New(c clock.Clock, keys []APIKey) *Service {
	byKey := make(map[string]APIKey, len(keys))
	for _, k := range keys {
		byKey[k.Key] = k
	}
	return &Service{clock: c, byKey: byKey, buckets: make(map[bucketKey]int)}
}

func keyID(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])[:12]
}

// Authenticate resolves rawKey to a Principal, or an apperr.CodeInvalidAPIKey
// error for a blank, unknown, or expired key. The raw key is never
// logged or echoed back; only KeyID (its sha256 prefix) identifies it.
func (s *Service) Authenticate(rawKey string) (Principal, error) {
	if strings.TrimSpace(rawKey) == "" {
		return Principal{}, apperr.New(apperr.CodeInvalidAPIKey, "an x-api-key header is required")
	}
	record, ok := s.byKey[rawKey]
	if !ok {
		return Principal{}, apperr.New(apperr.CodeInvalidAPIKey, "unknown api key")
	}
	if record.ExpiresAtUTC != nil && !s.clock.NowUTC().Before(*record.ExpiresAtUTC) {
		return Principal{}, apperr.New(apperr.CodeInvalidAPIKey, "api key has expired")
	}

	var allowed map[string]bool
	if len(record.AllowedSymbols) > 0 {
		allowed = make(map[string]bool, len(record.AllowedSymbols))
		for _, sym := range record.AllowedSymbols {
			allowed[strings.ToUpper(sym)] = true
		}
	}
	return Principal{
		TenantID:           record.TenantID,
		KeyID:              keyID(rawKey),
		RateLimitPerMinute: record.RateLimitPerMinute,
		AllowedSymbols:     allowed,
	}, nil
}

// EnforceRateLimit increments p's tenant counter for the current minute
// bucket and returns apperr.CodeRateLimitExceeded (with a
// retry_after_seconds detail) once the count exceeds
// p.RateLimitPerMinute, matching enforce_rate_limit's
// `count >= rate_limit_per_minute` check.
func (s *Service) EnforceRateLimit(p Principal) error {
	now := s.clock.NowUTC()
	epochSeconds := now.Unix()
	minute := epochSeconds / 60

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanupOldBuckets(minute)

	k := bucketKey{tenantID: p.TenantID, minute: minute}
	count := s.buckets[k]
	if count >= p.RateLimitPerMinute {
		retryAfter := int(60 - (epochSeconds % 60))
		if retryAfter < 1 {
			retryAfter = 1
		}
		return apperr.New(apperr.CodeRateLimitExceeded, "tenant rate limit exceeded").
			WithDetails(map[string]any{"retry_after_seconds": retryAfter})
	}
	s.buckets[k] = count + 1
	return nil
}

// cleanupOldBuckets evicts any bucket more than one minute stale, the
// same bound _cleanup_old_buckets enforces, so the map can't grow
// without limit over a long-running process.
func (s *Service) cleanupOldBuckets(currentMinute int64) {
	for k := range s.buckets {
		if k.minute < currentMinute-1 {
			delete(s.buckets, k)
		}
	}
}

// ResetRateLimits clears every tenant's bucket. Test-only helper,
// mirroring reset_rate_limits.
func (s *Service) ResetRateLimits() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets = make(map[bucketKey]int)
}

package detector

import (
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// debounceState is the last-emitted round for one (user, symbol,
// window_minutes) key.
type debounceState struct {
	lastChangePct    decimal.Decimal
	lastEmittedAtUTC time.Time
	seq              uint64
}

// debounceIndex is a small hash index over debounce keys, per the design
// note that cooldown/debounce state is per-key and small enough for an
// arena-style map with periodic eviction by timestamp rather than a
// dedicated store.
type debounceIndex struct {
	mu    sync.Mutex
	byKey map[string]debounceState
}

func newDebounceIndex() *debounceIndex {
	return &debounceIndex{byKey: make(map[string]debounceState)}
}

func debounceKey(userID, market, symbol string, windowMinutes int) string {
	return userID + "|" + market + "|" + symbol + "|" + strconv.Itoa(windowMinutes)
}

// shouldEmit decides whether a freshly-computed change_pct for key should
// produce an event, applying the debounce + delta-realert rule of §4.2: a
// round suppressed by an active debounce window still fires if the
// magnitude of change since the last emitted round exceeds
// deltaPctForRealert.
func (d *debounceIndex) shouldEmit(key string, changePct decimal.Decimal, now time.Time, debounceDuration time.Duration, deltaPctForRealert decimal.Decimal) (emit bool, isDelta bool, nextSeq uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	prev, exists := d.byKey[key]
	if !exists {
		return true, false, 1
	}
	elapsed := now.Sub(prev.lastEmittedAtUTC)
	if elapsed >= debounceDuration {
		return true, false, prev.seq + 1
	}
	delta := changePct.Sub(prev.lastChangePct).Abs()
	if delta.GreaterThanOrEqual(deltaPctForRealert) {
		return true, true, prev.seq + 1
	}
	return false, false, prev.seq
}

func (d *debounceIndex) record(key string, changePct decimal.Decimal, now time.Time, seq uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byKey[key] = debounceState{lastChangePct: changePct, lastEmittedAtUTC: now, seq: seq}
}

// evictOlderThan drops debounce entries whose last emission predates the
// cutoff, bounding index growth for symbols that stop ticking.
func (d *debounceIndex) evictOlderThan(now time.Time, maxAge time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cutoff := now.Add(-maxAge)
	for k, v := range d.byKey {
		if v.lastEmittedAtUTC.Before(cutoff) {
			delete(d.byKey, k)
		}
	}
}

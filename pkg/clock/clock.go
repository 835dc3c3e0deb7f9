// Package clock provides the monotonic UTC time source and opaque
// identifier minting injected throughout the system for determinism. It
// is the Go-idiomatic answer to spec §2 component 1: a single narrow
// interface (grounded on pkg/collector/interface.go's one-method
// QuoteFetcher shape in the teacher repo) with a real and a fixture
// implementation, so tests never race on time.Now() or uuid.New().
package clock

import (
	"time"

	"github.com/google/uuid"
)

// Clock mints the current UTC time and opaque ids. Every component that
// needs "now" or a new id takes a Clock rather than calling time.Now or
// uuid.New directly.
type Clock interface {
	NowUTC() time.Time
	NewID() string
}

// System is the production Clock: real wall-clock time, real random UUIDs.
type System struct{}

func NewSystem() System { return System{} }

func (System) NowUTC() time.Time { return time.Now().UTC() }
func (System) NewID() string     { return uuid.NewString() }

// Fixed is a deterministic Clock for tests: NowUTC advances by a fixed
// step on each call (so ordering-sensitive code still progresses) and
// NewID returns sequential, predictable ids.
type Fixed struct {
	now  time.Time
	step time.Duration
	seq  int
}

// NewFixed returns a Fixed clock starting at start, advancing by step on
// every NowUTC call (step may be zero to freeze time entirely).
func NewFixed(start time.Time, step time.Duration) *Fixed {
	return &Fixed{now: start.UTC(), step: step}
}

func (f *Fixed) NowUTC() time.Time {
	t := f.now
	f.now = f.now.Add(f.step)
	return t
}

func (f *Fixed) NewID() string {
	f.seq++
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte{byte(f.seq >> 24), byte(f.seq >> 16), byte(f.seq >> 8), byte(f.seq)}).String()
}

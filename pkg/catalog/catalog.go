// Package catalog is the read-only (market, ticker) -> {name, active}
// lookup used to validate watchlist input and resolve search. Per spec
// §1 the seed-symbol loader that populates it is an external collaborator;
// this package only owns the lookup surface it is loaded into, grounded on
// the teacher's collector.QuoteFetcher one-method interface shape.
package catalog

import (
	"strings"
	"sync"

	"github.com/pricesignal/reasoncore/pkg/model"
)

// Entry is one catalog row.
type Entry struct {
	Market model.Market
	Ticker string
	Name   string
	Active bool
}

// Catalog is the narrow read surface every consumer depends on.
type Catalog interface {
	Lookup(market model.Market, ticker string) (Entry, bool)
	Search(market model.Market, q string, limit int) []Entry
	Version() int
}

// Static is an in-memory Catalog loaded once and swappable as a whole via
// Reload (e.g. when the external seed-symbol loader refreshes its source).
// Reload bumps Version so /v1/symbols/search can report catalog_version
// per SPEC_FULL.md's supplemented-feature note.
type Static struct {
	mu      sync.RWMutex
	byKey   map[string]Entry
	version int
}

func NewStatic(entries []Entry) *Static {
	s := &Static{byKey: make(map[string]Entry)}
	s.Reload(entries)
	return s
}

func key(market model.Market, ticker string) string {
	return string(market) + ":" + strings.ToUpper(ticker)
}

func (s *Static) Reload(entries []Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		m[key(e.Market, e.Ticker)] = e
	}
	s.byKey = m
	s.version++
}

func (s *Static) Lookup(market model.Market, ticker string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byKey[key(market, ticker)]
	return e, ok
}

func (s *Static) Search(market model.Market, q string, limit int) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q = strings.ToUpper(strings.TrimSpace(q))
	var out []Entry
	for _, e := range s.byKey {
		if market != "" && e.Market != market {
			continue
		}
		if strings.Contains(strings.ToUpper(e.Ticker), q) || strings.Contains(strings.ToUpper(e.Name), q) {
			out = append(out, e)
			if len(out) >= limit {
				break
			}
		}
	}
	return out
}

func (s *Static) Version() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

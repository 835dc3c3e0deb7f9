package adapter

import (
	"context"
	"sync"

	"github.com/pricesignal/reasoncore/pkg/model"
)

// Fixture is a deterministic in-memory Adapter for tests and local
// development, seeded by key (market, symbol) rather than reaching any
// network. It implements the same Adapter surface as a live adapter so
// the Reason Engine pipeline cannot tell the difference.
type Fixture struct {
	mu    sync.RWMutex
	name  string
	items map[string][]Candidate
}

func NewFixture(name string) *Fixture {
	return &Fixture{name: name, items: make(map[string][]Candidate)}
}

func fixtureKey(market model.Market, symbol string) string {
	return string(market) + ":" + symbol
}

// Seed installs the candidates returned for (market, symbol), replacing
// any previous seed for that key.
func (f *Fixture) Seed(market model.Market, symbol string, candidates []Candidate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[fixtureKey(market, symbol)] = candidates
}

func (f *Fixture) Name() string { return f.name }

func (f *Fixture) Fetch(ctx context.Context, market model.Market, symbol string, tr TimeRange) ([]Candidate, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []Candidate
	for _, c := range f.items[fixtureKey(market, symbol)] {
		if c.HasPublishedAt && (c.PublishedAtUTC.Before(tr.Start) || c.PublishedAtUTC.After(tr.End)) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

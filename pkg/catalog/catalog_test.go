package catalog

import (
	"testing"

	"github.com/pricesignal/reasoncore/pkg/model"
)

func TestLookupIsCaseInsensitiveOnTicker(t *testing.T) {
	c := NewStatic([]Entry{{Market: model.MarketUS, Ticker: "AAPL", Name: "Apple Inc.", Active: true}})
	got, ok := c.Lookup(model.MarketUS, "aapl")
	if !ok {
		t.Fatalf("expected a lowercase lookup to find the seeded ticker")
	}
	if got.Name != "Apple Inc." {
		t.Fatalf("name = %q, want Apple Inc.", got.Name)
	}
}

func TestLookupMissingReturnsFalse(t *testing.T) {
	c := NewStatic(nil)
	if _, ok := c.Lookup(model.MarketUS, "AAPL"); ok {
		t.Fatalf("expected an empty catalog to report no match")
	}
}

func TestSearchFiltersByMarketAndSubstring(t *testing.T) {
	c := NewStatic([]Entry{
		{Market: model.MarketUS, Ticker: "AAPL", Name: "Apple Inc.", Active: true},
		{Market: model.MarketUS, Ticker: "MSFT", Name: "Microsoft Corp.", Active: true},
		{Market: model.MarketKR, Ticker: "005930", Name: "Samsung Electronics", Active: true},
	})
	got := c.Search(model.MarketUS, "app", 10)
	if len(got) != 1 || got[0].Ticker != "AAPL" {
		t.Fatalf("got %+v, want only AAPL", got)
	}
}

func TestSearchRespectsLimit(t *testing.T) {
	c := NewStatic([]Entry{
		{Market: model.MarketUS, Ticker: "AAA", Name: "A Corp", Active: true},
		{Market: model.MarketUS, Ticker: "AAB", Name: "B Corp", Active: true},
		{Market: model.MarketUS, Ticker: "AAC", Name: "C Corp", Active: true},
	})
	got := c.Search(model.MarketUS, "AA", 2)
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2 (limit enforced)", len(got))
	}
}

func TestReloadBumpsVersion(t *testing.T) {
	c := NewStatic([]Entry{{Market: model.MarketUS, Ticker: "AAPL", Name: "Apple Inc.", Active: true}})
	before := c.Version()
	c.Reload([]Entry{{Market: model.MarketUS, Ticker: "MSFT", Name: "Microsoft Corp.", Active: true}})
	if c.Version() != before+1 {
		t.Fatalf("version = %d, want %d", c.Version(), before+1)
	}
	if _, ok := c.Lookup(model.MarketUS, "AAPL"); ok {
		t.Fatalf("expected reload to fully replace the previous entry set")
	}
}

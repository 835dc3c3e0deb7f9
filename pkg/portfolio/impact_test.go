package portfolio

import (
	"testing"

	"github.com/pricesignal/reasoncore/pkg/model"
	"github.com/shopspring/decimal"
)

func TestEstimateImpactComputesExposureAndPnL(t *testing.T) {
	impact, err := EstimateImpact(model.MarketUS, "AAPL", decimal.NewFromInt(4), decimal.NewFromInt(100), decimal.NewFromInt(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if impact.Currency != "USD" {
		t.Fatalf("currency = %s, want USD", impact.Currency)
	}
	if !impact.ExposureAmount.Equal(decimal.NewFromInt(400)) {
		t.Fatalf("exposure = %s, want 400", impact.ExposureAmount)
	}
	if !impact.EstimatedPnLAmount.Equal(decimal.NewFromInt(16)) {
		t.Fatalf("pnl = %s, want 16", impact.EstimatedPnLAmount)
	}
}

func TestEstimateImpactNegativeChangeProducesNegativePnL(t *testing.T) {
	impact, err := EstimateImpact(model.MarketKR, "005930", decimal.NewFromInt(10), decimal.NewFromInt(50000), decimal.NewFromFloat(-2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if impact.Currency != "KRW" {
		t.Fatalf("currency = %s, want KRW", impact.Currency)
	}
	if !impact.EstimatedPnLAmount.Equal(decimal.NewFromInt(-10000)) {
		t.Fatalf("pnl = %s, want -10000", impact.EstimatedPnLAmount)
	}
}

func TestEstimateImpactRejectsNonPositiveQty(t *testing.T) {
	if _, err := EstimateImpact(model.MarketUS, "AAPL", decimal.Zero, decimal.NewFromInt(100), decimal.NewFromInt(4)); err == nil {
		t.Fatal("expected an error for zero qty")
	}
}

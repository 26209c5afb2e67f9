package output

import (
	"testing"

	"github.com/rentsim/rental-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

func TestAnalyzeRegimes_ComparesWithDeclaredRegime(t *testing.T) {
	report := buildTestReport()
	rec := AnalyzeRegimes(&report.Investments[0])

	if rec.Recommended != domain.MicroFoncier || rec.Declared != domain.ReelFoncier {
		t.Fatalf("unexpected regimes: %+v", rec)
	}
	if !rec.NetIncomeChange.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected 1000 gain, got %s", rec.NetIncomeChange)
	}
	if !rec.PercentageChange.Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected 20%% gain, got %s", rec.PercentageChange)
	}
}

func TestAnalyzeRegimes_NoDeclaredRegime(t *testing.T) {
	inv := buildTestReport().Investments[0]
	inv.Regime = ""
	rec := AnalyzeRegimes(&inv)
	if !rec.NetIncomeChange.IsZero() {
		t.Fatalf("expected no change without declared regime, got %s", rec.NetIncomeChange)
	}
	if !rec.RecommendedNet.Equal(decimal.NewFromInt(6000)) {
		t.Fatalf("unexpected recommended net %s", rec.RecommendedNet)
	}
}

package output

import (
	"github.com/rentsim/rental-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// Recommendation compares the recommended regime of an investment with the
// regime its owner declared.
type Recommendation struct {
	InvestmentID     string
	Declared         domain.Regime
	Recommended      domain.Regime
	RecommendedNet   decimal.Decimal
	NetIncomeChange  decimal.Decimal
	PercentageChange decimal.Decimal
}

// AnalyzeRegimes summarizes the gain of switching from the declared regime
// to the recommended one over the holding period. Without a declared regime
// the change is zero.
func AnalyzeRegimes(r *domain.InvestmentReport) Recommendation {
	rec := Recommendation{
		InvestmentID:     r.ID,
		Declared:         r.Regime,
		Recommended:      r.Recommended,
		NetIncomeChange:  decimal.Zero,
		PercentageChange: decimal.Zero,
	}
	if r.Recommended == "" {
		return rec
	}
	rec.RecommendedNet = r.Totals[r.Recommended].NetIncome
	declared, ok := r.Totals[r.Regime]
	if !ok {
		return rec
	}
	rec.NetIncomeChange = rec.RecommendedNet.Sub(declared.NetIncome)
	if !declared.NetIncome.IsZero() {
		rec.PercentageChange = rec.NetIncomeChange.Div(declared.NetIncome.Abs()).Mul(decimalHundred).Round(2)
	}
	return rec
}

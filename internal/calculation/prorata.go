package calculation

import (
	"github.com/rentsim/rental-calculator/internal/domain"
	"github.com/rentsim/rental-calculator/pkg/dateutil"
	"github.com/rentsim/rental-calculator/pkg/money"
	"github.com/shopspring/decimal"
)

// coveragePlaces is the precision kept for year fractions.
const coveragePlaces = 6

var one = decimal.NewFromInt(1)

// Coverage returns the fraction of year that lies within the investment's
// project window, in [0, 1]. The investment must be normalized.
func Coverage(inv *domain.Investment, year int) decimal.Decimal {
	days := dateutil.OverlapDays(inv.Project.Start, inv.Project.End, year)
	total := dateutil.DaysInYear(year)
	switch {
	case days <= 0:
		return decimal.Zero
	case days >= total:
		return one
	}
	return decimal.NewFromInt(int64(days)).Div(decimal.NewFromInt(int64(total))).Round(coveragePlaces)
}

// SCICoverage is the coverage of a holding entity: entity costs run as soon
// as any member property is active, so it is the maximum member coverage.
func SCICoverage(members []domain.Investment, year int) decimal.Decimal {
	best := decimal.Zero
	for i := range members {
		if c := Coverage(&members[i], year); c.GreaterThan(best) {
			best = c
		}
	}
	return best
}

// AdjustForCoverage scales a full-year amount to the covered fraction.
func AdjustForCoverage(amount, coverage decimal.Decimal) decimal.Decimal {
	if coverage.Equal(one) {
		return amount
	}
	return money.Cents(amount.Mul(coverage))
}

// Annualize converts a partial-year amount back to a full-year equivalent.
// A zero coverage yields zero.
func Annualize(amount, coverage decimal.Decimal) decimal.Decimal {
	if !coverage.IsPositive() {
		return decimal.Zero
	}
	return money.Cents(amount.Div(coverage))
}

// ProrateExpense scales every money field of a yearly record.
func ProrateExpense(e domain.YearlyExpense, coverage decimal.Decimal) domain.YearlyExpense {
	return e.Map(func(d decimal.Decimal) decimal.Decimal {
		return AdjustForCoverage(d, coverage)
	})
}

package calculation

import (
	"testing"
	"time"

	"github.com/rentsim/rental-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// assertDecimal compares two decimals by value.
func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("expected %s, got %s %v", want, got.String(), msgAndArgs)
	}
}

// normalized builds a normalized investment over [start, end].
func normalized(t *testing.T, inv domain.Investment, start, end string) domain.Investment {
	t.Helper()
	inv.Project.StartDate = start
	inv.Project.EndDate = end
	out, _ := inv.Normalize(fixedNow)
	return out
}

// simpleInput is a full-coverage year with the given rents and deductible charges.
func simpleInput(year int, bareRent, furnishedRent, deductible string) YearInput {
	exp := domain.YearlyExpense{
		Year:            year,
		BareRent:        dec(bareRent),
		FurnishedRent:   dec(furnishedRent),
		OtherDeductible: dec(deductible),
	}
	return YearInput{
		Year:       year,
		Coverage:   one,
		Expense:    exp,
		Deductible: exp.Deductible(),
	}
}

func taxParams(marginal, social string) domain.TaxParameters {
	return domain.TaxParameters{MarginalRate: dec(marginal), SocialRate: dec(social)}
}

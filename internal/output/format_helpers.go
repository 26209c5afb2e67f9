package output

import (
	"errors"
	"strconv"

	"github.com/rentsim/rental-calculator/internal/domain"
	"github.com/rentsim/rental-calculator/pkg/money"
	"github.com/shopspring/decimal"
)

// ErrUnsupportedFormat is returned for a format name no formatter answers to.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// FormatCurrency formats a decimal as euros with grouped thousands.
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatCurrency(amount decimal.Decimal) string { return money.Format(amount) }

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return money.FormatPercent(amount) }

// FormatIRR renders an annual rate given as a fraction, or "n/a" when the
// series has no IRR.
func FormatIRR(r domain.IRRResult) string {
	if !r.Finite {
		return "n/a"
	}
	return FormatPercentage(r.Rate.Mul(decimalHundred))
}

func intToString(v int) string { return strconv.Itoa(v) }

func boolToString(v bool) string { return strconv.FormatBool(v) }

// regimesFor lists the regimes of a rental type in declaration order.
func regimesFor(rt domain.RentalType) []domain.Regime {
	var out []domain.Regime
	for _, r := range domain.Regimes() {
		if r.RentalType() == rt {
			out = append(out, r)
		}
	}
	return out
}

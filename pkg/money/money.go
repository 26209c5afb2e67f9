// Package money holds the cent-level helpers shared by every calculator.
// Amounts are plain decimal.Decimal values; the helpers only fix where and
// how rounding happens.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Cents rounds an amount to two decimal places (half away from zero).
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Rate converts a percentage (17.2) into a fraction (0.172).
func Rate(pct decimal.Decimal) decimal.Decimal {
	return pct.Div(hundred)
}

// Percent applies a percentage to an amount and rounds to cents.
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return Cents(amount.Mul(pct).Div(hundred))
}

// NonNegative floors an amount at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Clamp bounds d to [lo, hi].
func Clamp(d, lo, hi decimal.Decimal) decimal.Decimal {
	if d.LessThan(lo) {
		return lo
	}
	if d.GreaterThan(hi) {
		return hi
	}
	return d
}

// Sum adds amounts without intermediate rounding.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Allocate splits total across weights. Each share is rounded to cents and
// the last positive weight absorbs the remainder, so the shares add up to
// total exactly. When the weights sum to zero every share is zero.
func Allocate(total decimal.Decimal, weights []decimal.Decimal) []decimal.Decimal {
	shares := make([]decimal.Decimal, len(weights))
	for i := range shares {
		shares[i] = decimal.Zero
	}

	weightSum := Sum(weights...)
	if !weightSum.IsPositive() {
		return shares
	}

	last := -1
	for i, w := range weights {
		if w.IsPositive() {
			last = i
		}
	}

	allocated := decimal.Zero
	for i, w := range weights {
		if !w.IsPositive() {
			continue
		}
		if i == last {
			shares[i] = Cents(total).Sub(allocated)
			continue
		}
		shares[i] = Cents(total.Mul(w).Div(weightSum))
		allocated = allocated.Add(shares[i])
	}
	return shares
}

// Format renders an amount as euros with grouped thousands, e.g. "12 345.67 €".
func Format(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "." + frac + " €"
}

// FormatPercent renders a percentage with two decimals.
func FormatPercent(pct decimal.Decimal) string {
	return pct.StringFixed(2) + "%"
}

// Weights returns each value's share of the total, rounded to 8 places.
// The last positive value absorbs the rounding so the weights sum to one.
// With a zero total every weight is zero.
func Weights(values []decimal.Decimal) []decimal.Decimal {
	weights := make([]decimal.Decimal, len(values))
	for i := range weights {
		weights[i] = decimal.Zero
	}
	total := Sum(values...)
	if !total.IsPositive() {
		return weights
	}

	last := -1
	for i, v := range values {
		if v.IsPositive() {
			last = i
		}
	}
	assigned := decimal.Zero
	for i, v := range values {
		if !v.IsPositive() {
			continue
		}
		if i == last {
			weights[i] = decimal.NewFromInt(1).Sub(assigned)
			continue
		}
		weights[i] = v.Div(total).Round(8)
		assigned = assigned.Add(weights[i])
	}
	return weights
}

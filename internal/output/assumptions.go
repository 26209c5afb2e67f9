package output

import (
	"fmt"

	"github.com/rentsim/rental-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultAssumptions lists key modeling assumptions rendered in detailed outputs.
var DefaultAssumptions = GenerateAssumptions(domain.DefaultTaxRules())

// GenerateAssumptions creates dynamic assumptions list from the tax rules in use
func GenerateAssumptions(rules domain.TaxRules) []string {
	return []string{
		fmt.Sprintf("Micro-foncier: %s allowance, ceiling %s of yearly rent", FormatPercentage(rules.MicroFoncierAllowance), FormatCurrency(rules.MicroFoncierThreshold)),
		fmt.Sprintf("Micro-BIC: %s allowance, ceiling %s of yearly rent", FormatPercentage(rules.MicroBICAllowance), FormatCurrency(rules.MicroBICThreshold)),
		fmt.Sprintf("Deficit: capped at %s per year, carried %d years", FormatCurrency(rules.DeficitCap), rules.DeficitCarryYears),
		fmt.Sprintf("Capital gain: %s income tax + %s social levies, holding rebates from year 6", FormatPercentage(rules.CapitalGainIncomeRate), FormatPercentage(rules.CapitalGainSocialRate)),
		"Amounts rounded to the cent at every step; partial years prorated by day",
	}
}

var decimalHundred = decimal.NewFromInt(100)

package domain

import "github.com/shopspring/decimal"

// TaxRules holds the statutory constants shared by every investment.
// Percentages are expressed as 30 for 30%.
type TaxRules struct {
	MicroFoncierAllowance decimal.Decimal `yaml:"micro_foncier_allowance" json:"micro_foncier_allowance"`
	MicroBICAllowance     decimal.Decimal `yaml:"micro_bic_allowance" json:"micro_bic_allowance"`
	MicroFoncierThreshold decimal.Decimal `yaml:"micro_foncier_threshold" json:"micro_foncier_threshold"`
	MicroBICThreshold     decimal.Decimal `yaml:"micro_bic_threshold" json:"micro_bic_threshold"`
	DeficitCap            decimal.Decimal `yaml:"deficit_cap" json:"deficit_cap"`
	DeficitCarryYears     int             `yaml:"deficit_carry_years" json:"deficit_carry_years"`
	CapitalGainIncomeRate decimal.Decimal `yaml:"capital_gain_income_rate" json:"capital_gain_income_rate"`
	CapitalGainSocialRate decimal.Decimal `yaml:"capital_gain_social_rate" json:"capital_gain_social_rate"`
	LMPShortTermYears     int             `yaml:"lmp_short_term_years" json:"lmp_short_term_years"`
}

// DefaultTaxRules returns the current French rental tax constants.
func DefaultTaxRules() TaxRules {
	return TaxRules{
		MicroFoncierAllowance: decimal.NewFromInt(30),
		MicroBICAllowance:     decimal.NewFromInt(50),
		MicroFoncierThreshold: decimal.NewFromInt(15000),
		MicroBICThreshold:     decimal.NewFromInt(72600),
		DeficitCap:            decimal.NewFromInt(10700),
		DeficitCarryYears:     10,
		CapitalGainIncomeRate: decimal.NewFromInt(19),
		CapitalGainSocialRate: decimal.NewFromFloat(17.2),
		LMPShortTermYears:     2,
	}
}

// WithDefaults fills every zero or negative field from DefaultTaxRules.
func (r TaxRules) WithDefaults() TaxRules {
	def := DefaultTaxRules()
	fill := func(v *decimal.Decimal, d decimal.Decimal) {
		if !v.IsPositive() {
			*v = d
		}
	}
	fill(&r.MicroFoncierAllowance, def.MicroFoncierAllowance)
	fill(&r.MicroBICAllowance, def.MicroBICAllowance)
	fill(&r.MicroFoncierThreshold, def.MicroFoncierThreshold)
	fill(&r.MicroBICThreshold, def.MicroBICThreshold)
	fill(&r.DeficitCap, def.DeficitCap)
	fill(&r.CapitalGainIncomeRate, def.CapitalGainIncomeRate)
	fill(&r.CapitalGainSocialRate, def.CapitalGainSocialRate)
	if r.DeficitCarryYears <= 0 {
		r.DeficitCarryYears = def.DeficitCarryYears
	}
	if r.LMPShortTermYears <= 0 {
		r.LMPShortTermYears = def.LMPShortTermYears
	}
	return r
}

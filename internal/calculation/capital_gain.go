package calculation

import (
	"github.com/rentsim/rental-calculator/internal/domain"
	"github.com/rentsim/rental-calculator/pkg/dateutil"
	"github.com/rentsim/rental-calculator/pkg/money"
	"github.com/shopspring/decimal"
)

// Holding-period rebates on real-estate capital gains (percent of the gain).
//
// Income tax: 6% per year held from the 6th to the 21st year, exempt from 22.
// Social levies: 1.65% per year from the 6th to the 21st, 28% at 22,
// then 9% per year, exempt from 30.
const (
	rebateStartYears     = 6
	incomeExemptionYears = 22
	socialLateFromYears  = 23
	socialExemptionYears = 30
)

var (
	incomeRebatePerYear     = decimal.NewFromInt(6)
	socialRebatePerYear     = decimal.RequireFromString("1.65")
	socialRebateAt22        = decimal.NewFromInt(28)
	socialRebateLatePerYear = decimal.NewFromInt(9)
)

// IncomeRebatePct returns the income-tax rebate for a holding period.
func IncomeRebatePct(holdingYears int) decimal.Decimal {
	switch {
	case holdingYears < rebateStartYears:
		return decimal.Zero
	case holdingYears >= incomeExemptionYears:
		return hundred
	}
	return incomeRebatePerYear.Mul(decimal.NewFromInt(int64(holdingYears - rebateStartYears + 1)))
}

// SocialRebatePct returns the social-levy rebate for a holding period.
func SocialRebatePct(holdingYears int) decimal.Decimal {
	switch {
	case holdingYears < rebateStartYears:
		return decimal.Zero
	case holdingYears >= socialExemptionYears:
		return hundred
	case holdingYears >= socialLateFromYears:
		return socialRebateAt22.Add(socialRebateLatePerYear.Mul(decimal.NewFromInt(int64(holdingYears - socialLateFromYears + 1))))
	case holdingYears == incomeExemptionYears:
		return socialRebateAt22
	}
	return socialRebatePerYear.Mul(decimal.NewFromInt(int64(holdingYears - rebateStartYears + 1)))
}

// SaleInput describes one resale for the capital-gain calculator.
type SaleInput struct {
	Regime                  domain.Regime
	AcquisitionYear         int
	SaleYear                int
	SalePrice               decimal.Decimal
	SaleFees                decimal.Decimal
	CostBasis               decimal.Decimal
	AccumulatedDepreciation decimal.Decimal
	MarginalRate            decimal.Decimal
	SocialRate              decimal.Decimal
	LMP                     bool
	RemainingLoan           decimal.Decimal
}

// CapitalGainCalculator computes the tax due on resale.
type CapitalGainCalculator struct {
	Rules domain.TaxRules
}

// NewCapitalGainCalculator creates a calculator; zero rules fall back to defaults.
func NewCapitalGainCalculator(rules domain.TaxRules) *CapitalGainCalculator {
	return &CapitalGainCalculator{Rules: rules.WithDefaults()}
}

// Calculate computes the capital-gain tax of a sale.
//
// Bare regimes and micro-BIC use the standard private-gain rules. For
// furnished rentals under professional (LMP) status a gain realized within
// the short-term holding limit is taxed entirely at the business rate;
// beyond it only the part matching accumulated depreciation is. A non-LMP
// réel BIC sale adds the recapture of accumulated depreciation at the
// business rate on top of the standard treatment. The business rate is the
// marginal rate plus the social rate.
func (c *CapitalGainCalculator) Calculate(in SaleInput) domain.CapitalGainResult {
	res := domain.CapitalGainResult{
		Regime:        in.Regime,
		SaleYear:      in.SaleYear,
		SalePrice:     in.SalePrice,
		SaleFees:      in.SaleFees,
		CostBasis:     in.CostBasis,
		HoldingYears:  dateutil.YearsBetween(in.AcquisitionYear, in.SaleYear),
		RemainingLoan: in.RemainingLoan,
	}
	res.GrossGain = money.Cents(in.SalePrice.Sub(in.SaleFees).Sub(in.CostBasis))
	res.IncomeRebatePct = IncomeRebatePct(res.HoldingYears)
	res.SocialRebatePct = SocialRebatePct(res.HoldingYears)

	if res.GrossGain.IsPositive() {
		businessRate := in.MarginalRate.Add(in.SocialRate)
		furnished := in.Regime.RentalType() == domain.Furnished
		depreciation := money.NonNegative(in.AccumulatedDepreciation)

		switch {
		case furnished && in.LMP && res.HoldingYears <= c.Rules.LMPShortTermYears:
			res.ShortTermGain = res.GrossGain
			res.ShortTermTax = money.Percent(res.GrossGain, businessRate)
		case furnished && in.LMP:
			res.ShortTermGain = decimal.Min(res.GrossGain, depreciation)
			res.ShortTermTax = money.Percent(res.ShortTermGain, businessRate)
			c.standard(&res, res.GrossGain.Sub(res.ShortTermGain))
		case in.Regime == domain.ReelBIC:
			c.standard(&res, res.GrossGain)
			res.DepreciationRecapture = depreciation
			res.RecaptureTax = money.Percent(depreciation, businessRate)
		default:
			c.standard(&res, res.GrossGain)
		}
		res.TotalTax = money.Sum(res.IncomeTax, res.SocialCharges, res.ShortTermTax, res.RecaptureTax)
	} else {
		res.TotalTax = decimal.Zero
	}

	res.NetProceeds = money.Cents(in.SalePrice.Sub(in.SaleFees).Sub(in.RemainingLoan).Sub(res.TotalTax))
	return res
}

// standard applies the holding rebates and the flat long-term rates.
func (c *CapitalGainCalculator) standard(res *domain.CapitalGainResult, gain decimal.Decimal) {
	res.TaxableGainIncome = money.Cents(gain.Mul(hundred.Sub(res.IncomeRebatePct)).Div(hundred))
	res.TaxableGainSocial = money.Cents(gain.Mul(hundred.Sub(res.SocialRebatePct)).Div(hundred))
	res.IncomeTax = money.Percent(res.TaxableGainIncome, c.Rules.CapitalGainIncomeRate)
	res.SocialCharges = money.Percent(res.TaxableGainSocial, c.Rules.CapitalGainSocialRate)
}

// ProjectSalePrice grows the purchase price by the yearly appreciation
// (percent) over the holding period, rounding to cents each year.
func ProjectSalePrice(purchase, appreciationPct decimal.Decimal, years int) decimal.Decimal {
	factor := one.Add(appreciationPct.Div(hundred))
	price := purchase
	for i := 0; i < years; i++ {
		price = money.Cents(price.Mul(factor))
	}
	return money.NonNegative(price)
}

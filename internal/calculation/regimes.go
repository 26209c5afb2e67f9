package calculation

import (
	"github.com/rentsim/rental-calculator/internal/domain"
	"github.com/rentsim/rental-calculator/pkg/money"
	"github.com/shopspring/decimal"
)

// YearInput is one year of figures entering the tax calculators. Expense is
// already prorated; Deductible includes that year's loan interest and
// insurance.
type YearInput struct {
	Year       int
	YearIndex  int // years since the project started, 0 in the first year
	Coverage   decimal.Decimal
	Expense    domain.YearlyExpense
	Deductible domain.DeductibleBreakdown

	Loan          domain.LoanYear
	LoanPayment   decimal.Decimal
	LoanInsurance decimal.Decimal
	CashExpenses  decimal.Decimal // deductible and non-deductible charges, loan excluded
}

// regimeHandler computes one regime and returns the carry-forward state with
// that regime's fields updated.
type regimeHandler func(tc *TaxCalculator, in YearInput, prior CarryForward) (domain.TaxResult, CarryForward)

// regimeHandlers has exactly one entry per domain.Regime.
var regimeHandlers = map[domain.Regime]regimeHandler{
	domain.MicroFoncier: (*TaxCalculator).microFoncier,
	domain.ReelFoncier:  (*TaxCalculator).reelFoncier,
	domain.MicroBIC:     (*TaxCalculator).microBIC,
	domain.ReelBIC:      (*TaxCalculator).reelBIC,
}

// TaxCalculator computes the yearly personal income tax of one investment
// under each regime.
type TaxCalculator struct {
	Rules  domain.TaxRules
	Params domain.TaxParameters
}

// NewTaxCalculator creates a calculator; zero rules fall back to defaults.
func NewTaxCalculator(rules domain.TaxRules, params domain.TaxParameters) *TaxCalculator {
	return &TaxCalculator{Rules: rules.WithDefaults(), Params: params}
}

// Calculate computes one regime for one year.
func (tc *TaxCalculator) Calculate(regime domain.Regime, in YearInput, prior CarryForward) (domain.TaxResult, CarryForward) {
	handler, ok := regimeHandlers[regime]
	if !ok {
		return domain.TaxResult{Regime: regime, Year: in.Year}, prior
	}
	return handler(tc, in, prior)
}

// CalculateAll computes the four regimes independently for one year and
// returns the combined carry-forward for the next year.
func (tc *TaxCalculator) CalculateAll(in YearInput, prior CarryForward) (map[domain.Regime]domain.TaxResult, CarryForward) {
	results := make(map[domain.Regime]domain.TaxResult, len(regimeHandlers))
	next := prior
	for _, regime := range domain.Regimes() {
		var res domain.TaxResult
		res, next = tc.Calculate(regime, in, next)
		results[regime] = res
	}
	return results, next
}

func (tc *TaxCalculator) microFoncier(in YearInput, prior CarryForward) (domain.TaxResult, CarryForward) {
	rent := in.Expense.BareRent
	taxable := money.Cents(rent.Mul(hundred.Sub(tc.Rules.MicroFoncierAllowance)).Div(hundred))
	res := domain.TaxResult{
		Regime:                     domain.MicroFoncier,
		Year:                       in.Year,
		Eligible:                   !Annualize(rent, in.Coverage).GreaterThan(tc.Rules.MicroFoncierThreshold),
		Revenue:                    in.Expense.Revenue(domain.Bare),
		TaxableIncomeBeforeDeficit: taxable,
		TaxableIncome:              money.NonNegative(taxable),
	}
	return tc.finish(res, in.Deductible.Total), prior
}

func (tc *TaxCalculator) microBIC(in YearInput, prior CarryForward) (domain.TaxResult, CarryForward) {
	rent := in.Expense.FurnishedRent
	taxable := money.Cents(rent.Mul(hundred.Sub(tc.Rules.MicroBICAllowance)).Div(hundred))
	res := domain.TaxResult{
		Regime:                     domain.MicroBIC,
		Year:                       in.Year,
		Eligible:                   !Annualize(rent, in.Coverage).GreaterThan(tc.Rules.MicroBICThreshold),
		Revenue:                    in.Expense.Revenue(domain.Furnished),
		TaxableIncomeBeforeDeficit: taxable,
		TaxableIncome:              money.NonNegative(taxable),
	}
	return tc.finish(res, in.Deductible.Total), prior
}

// reelFoncier deducts actual charges. A negative result becomes a deficit
// capped at DeficitCap; a positive one first absorbs carried deficits.
func (tc *TaxCalculator) reelFoncier(in YearInput, prior CarryForward) (domain.TaxResult, CarryForward) {
	revenue := in.Expense.Revenue(domain.Bare)
	base := money.Cents(revenue.Sub(in.Deductible.Total))
	layers := prior.FoncierDeficits.Expire(in.Year, tc.Rules.DeficitCarryYears)

	ded := in.Deductible
	res := domain.TaxResult{
		Regime:                     domain.ReelFoncier,
		Year:                       in.Year,
		Eligible:                   true,
		Revenue:                    revenue,
		TaxableIncomeBeforeDeficit: base,
		Deductible:                 &ded,
	}

	if base.IsNegative() {
		res.DeficitGenerated = decimal.Min(base.Neg(), tc.Rules.DeficitCap)
		layers = layers.Add(in.Year, res.DeficitGenerated)
		res.TaxableIncome = decimal.Zero
	} else {
		res.DeficitUsed, layers = layers.Consume(base)
		res.TaxableIncome = base.Sub(res.DeficitUsed)
	}
	res.DeficitCarried = layers.Total()

	next := prior
	next.FoncierDeficits = layers
	return tc.finish(res, ded.Total), next
}

// reelBIC deducts actual charges and then depreciation. Carried excess
// depreciation is used first, then carried deficits, then the year's own
// depreciation. Depreciation never creates a loss: whatever the result
// cannot absorb is carried forward without limit. A loss before
// depreciation is a capped deficit, as in reelFoncier.
func (tc *TaxCalculator) reelBIC(in YearInput, prior CarryForward) (domain.TaxResult, CarryForward) {
	revenue := in.Expense.Revenue(domain.Furnished)
	base := money.Cents(revenue.Sub(in.Deductible.Total))
	layers := prior.BICDeficits.Expire(in.Year, tc.Rules.DeficitCarryYears)

	block := domain.AmortizationBlock{
		Available:    tc.AvailableDepreciation(in.YearIndex, in.Coverage),
		PriorCarried: prior.ExcessDepreciation,
	}
	ded := in.Deductible
	res := domain.TaxResult{
		Regime:                     domain.ReelBIC,
		Year:                       in.Year,
		Eligible:                   true,
		Revenue:                    revenue,
		TaxableIncomeBeforeDeficit: base,
		Deductible:                 &ded,
	}

	if base.IsNegative() {
		res.DeficitGenerated = decimal.Min(base.Neg(), tc.Rules.DeficitCap)
		layers = layers.Add(in.Year, res.DeficitGenerated)
		block.Used = decimal.Zero
		block.CarriedForward = block.PriorCarried.Add(block.Available)
		res.TaxableIncome = decimal.Zero
	} else {
		remaining := base
		fromCarried := decimal.Min(block.PriorCarried, remaining)
		remaining = remaining.Sub(fromCarried)

		res.DeficitUsed, layers = layers.Consume(remaining)
		remaining = remaining.Sub(res.DeficitUsed)

		fromYear := decimal.Min(block.Available, remaining)
		remaining = remaining.Sub(fromYear)

		block.Used = fromCarried.Add(fromYear)
		block.CarriedForward = block.PriorCarried.Sub(fromCarried).Add(block.Available.Sub(fromYear))
		res.TaxableIncome = remaining
	}
	res.DeficitCarried = layers.Total()
	res.Amortization = &block

	next := prior
	next.BICDeficits = layers
	next.ExcessDepreciation = block.CarriedForward
	return tc.finish(res, ded.Total), next
}

// AvailableDepreciation is the straight-line depreciation of building,
// furniture and works for the yearIndex-th project year, each line only
// while within its own horizon, scaled by the year's coverage.
func (tc *TaxCalculator) AvailableDepreciation(yearIndex int, coverage decimal.Decimal) decimal.Decimal {
	p := tc.Params
	return money.Sum(
		straightLine(p.BuildingValue, p.BuildingYears, yearIndex, coverage),
		straightLine(p.FurnitureValue, p.FurnitureYears, yearIndex, coverage),
		straightLine(p.WorksValue, p.WorksYears, yearIndex, coverage),
	)
}

func straightLine(value decimal.Decimal, years, yearIndex int, coverage decimal.Decimal) decimal.Decimal {
	if !value.IsPositive() || years <= 0 || yearIndex < 0 || yearIndex >= years {
		return decimal.Zero
	}
	annual := money.Cents(value.Div(decimal.NewFromInt(int64(years))))
	return AdjustForCoverage(annual, coverage)
}

// finish applies the marginal and social rates and derives net income.
func (tc *TaxCalculator) finish(res domain.TaxResult, expenses decimal.Decimal) domain.TaxResult {
	res.Tax = money.Percent(res.TaxableIncome, tc.Params.MarginalRate)
	res.SocialCharges = money.Percent(res.TaxableIncome, tc.Params.SocialRate)
	res.TotalTax = res.Tax.Add(res.SocialCharges)
	res.NetIncome = money.Cents(res.Revenue.Sub(expenses).Sub(res.TotalTax))
	return res
}

// Recommend picks the regime with the highest net income among the eligible
// regimes of a rental type. Ties go to the earlier regime in declaration
// order. It returns "" when no regime qualifies.
func Recommend(results map[domain.Regime]domain.TaxResult, rental domain.RentalType) domain.Regime {
	var best domain.Regime
	var bestNet decimal.Decimal
	for _, regime := range domain.Regimes() {
		res, ok := results[regime]
		if !ok || !res.Eligible || regime.RentalType() != rental {
			continue
		}
		if best == "" || res.NetIncome.GreaterThan(bestNet) {
			best = regime
			bestNet = res.NetIncome
		}
	}
	return best
}

package calculation

import (
	"github.com/rentsim/rental-calculator/internal/domain"
	"github.com/rentsim/rental-calculator/pkg/money"
	"github.com/shopspring/decimal"
)

// SCICalculator computes the consolidated corporate tax of holding entities
// and splits it across member properties.
type SCICalculator struct {
	Logger Logger
}

// NewSCICalculator creates an SCI calculator. A nil logger is a no-op.
func NewSCICalculator(logger Logger) *SCICalculator {
	if logger == nil {
		logger = NopLogger{}
	}
	return &SCICalculator{Logger: logger}
}

// sciMember is a normalized member property with its loan schedule.
type sciMember struct {
	inv   domain.Investment
	sched domain.AmortizationSchedule
}

func (c *SCICalculator) prepare(members []domain.Investment) []sciMember {
	out := make([]sciMember, len(members))
	for i, m := range members {
		inv, notes := m.Normalize(nowFunc())
		for _, n := range notes {
			c.Logger.Debugf("sci member %s: %s", inv.ID, n)
		}
		out[i] = sciMember{inv: inv, sched: BuildSchedule(TermsFor(&inv))}
	}
	return out
}

// CalculateYear computes one SCI year. priorDeficit is the entity's deficit
// carried from earlier years; the result's DeficitCarried feeds the next.
func (c *SCICalculator) CalculateYear(sci domain.SCI, members []domain.Investment, year int, priorDeficit decimal.Decimal) domain.SCITaxResult {
	return c.calculateYear(sci.Normalize(), c.prepare(members), year, priorDeficit)
}

func (c *SCICalculator) calculateYear(sci domain.SCI, members []sciMember, year int, priorDeficit decimal.Decimal) domain.SCITaxResult {
	invs := make([]domain.Investment, len(members))
	for i := range members {
		invs[i] = members[i].inv
	}
	coverage := SCICoverage(invs, year)

	res := domain.SCITaxResult{
		SCIID:             sci.ID,
		Year:              year,
		Coverage:          coverage,
		TotalRevenue:      decimal.Zero,
		TotalExpenses:     decimal.Zero,
		TotalDepreciation: decimal.Zero,
		EntityCosts:       AdjustForCoverage(sci.OperatingCosts.Total(), coverage),
		Contributions:     make([]domain.PropertyContribution, 0, len(members)),
	}

	values := make([]decimal.Decimal, len(members))
	for i := range members {
		m := &members[i]
		in := BuildYearInput(&m.inv, m.sched, year)
		values[i] = m.inv.PropertyValue()
		contrib := domain.PropertyContribution{
			InvestmentID:  m.inv.ID,
			Name:          m.inv.Name,
			Coverage:      in.Coverage,
			Revenue:       decimal.Zero,
			Expenses:      decimal.Zero,
			Depreciation:  decimal.Zero,
			PropertyValue: values[i],
		}
		// A property outside its holding window contributes nothing that year.
		if in.Coverage.IsPositive() {
			contrib.Revenue = sciRevenue(in.Expense, sci.RentalType, m.inv.RentalType)
			contrib.Expenses = in.Deductible.Total
			contrib.Depreciation = sciDepreciation(&m.inv, sci.Depreciation, in.YearIndex, in.Coverage)
		}
		res.TotalRevenue = res.TotalRevenue.Add(contrib.Revenue)
		res.TotalExpenses = res.TotalExpenses.Add(contrib.Expenses)
		res.TotalDepreciation = res.TotalDepreciation.Add(contrib.Depreciation)
		res.Contributions = append(res.Contributions, contrib)
	}

	res.ResultBeforeDeficit = money.Cents(res.TotalRevenue.Sub(res.TotalExpenses).Sub(res.EntityCosts).Sub(res.TotalDepreciation))
	prior := money.NonNegative(priorDeficit)
	if res.ResultBeforeDeficit.IsNegative() {
		res.DeficitGenerated = res.ResultBeforeDeficit.Neg()
		res.ResultAfterDeficit = decimal.Zero
		res.DeficitCarried = prior.Add(res.DeficitGenerated)
	} else {
		res.DeficitUsed = decimal.Min(prior, res.ResultBeforeDeficit)
		res.ResultAfterDeficit = res.ResultBeforeDeficit.Sub(res.DeficitUsed)
		res.DeficitCarried = prior.Sub(res.DeficitUsed)
	}

	res.ReducedRateTax, res.StandardRateTax = corporateTax(res.ResultAfterDeficit, sci)
	res.TotalIS = res.ReducedRateTax.Add(res.StandardRateTax)

	weights := money.Weights(values)
	shares := money.Allocate(res.TotalIS, values)
	for i := range res.Contributions {
		res.Contributions[i].ProrataWeight = weights[i]
		res.Contributions[i].AllocatedIS = shares[i]
	}
	return res
}

// corporateTax applies the reduced rate up to the threshold and the
// standard rate above it.
func corporateTax(taxable decimal.Decimal, sci domain.SCI) (reduced, standard decimal.Decimal) {
	if !taxable.IsPositive() {
		return decimal.Zero, decimal.Zero
	}
	reduced = money.Percent(decimal.Min(taxable, sci.Threshold), sci.ReducedRate)
	standard = money.Percent(money.NonNegative(taxable.Sub(sci.Threshold)), sci.StandardRate)
	return reduced, standard
}

// sciRevenue is the rent the entity books for one property, following the
// entity's rental type or, when it declares none, the property's own. The
// personal tax benefit does not apply under corporate tax.
func sciRevenue(e domain.YearlyExpense, sciRental, propertyRental domain.RentalType) decimal.Decimal {
	rental := sciRental
	if rental == "" {
		rental = propertyRental
	}
	if rental == domain.Furnished {
		return e.FurnishedRent.Add(e.TenantCharges)
	}
	return e.BareRent.Add(e.TenantCharges)
}

func sciDepreciation(inv *domain.Investment, d domain.SCIDepreciation, yearIndex int, coverage decimal.Decimal) decimal.Decimal {
	p := inv.Tax
	return money.Sum(
		straightLine(p.BuildingValue, d.BuildingYears, yearIndex, coverage),
		straightLine(p.FurnitureValue, d.FurnitureYears, yearIndex, coverage),
		straightLine(p.WorksValue, d.WorksYears, yearIndex, coverage),
	)
}

// Project folds an SCI over every year in which at least one member is
// active, from the earliest member start to the latest member end.
func (c *SCICalculator) Project(sci domain.SCI, members []domain.Investment) domain.SCIReport {
	sci = sci.Normalize()
	report := domain.SCIReport{ID: sci.ID, Name: sci.Name, TotalIS: decimal.Zero}
	prepared := c.prepare(members)
	if len(prepared) == 0 {
		c.Logger.Warnf("sci %s has no known member property", sci.ID)
		return report
	}

	first, last := prepared[0].inv.StartYear(), prepared[0].inv.EndYear()
	for _, m := range prepared[1:] {
		first = min(first, m.inv.StartYear())
		last = max(last, m.inv.EndYear())
	}
	years := make([]int, 0, last-first+1)
	for y := first; y <= last; y++ {
		years = append(years, y)
	}

	results, _ := Fold(years, sci.PriorDeficit, func(prior decimal.Decimal, year int) (decimal.Decimal, domain.SCITaxResult) {
		res := c.calculateYear(sci, prepared, year, prior)
		return res.DeficitCarried, res
	})
	for _, r := range results {
		report.TotalIS = report.TotalIS.Add(r.TotalIS)
	}
	report.Years = results
	c.Logger.Debugf("sci %s: %d years, total IS %s", sci.ID, len(results), report.TotalIS.StringFixed(2))
	return report
}

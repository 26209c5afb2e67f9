package domain

import (
	"fmt"
	"time"

	"github.com/rentsim/rental-calculator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

const (
	MinDurationYears = 1
	MaxDurationYears = 50

	// defaultHoldingYears bounds a project with no end date and no loan.
	defaultHoldingYears = 20
)

var (
	maxPercent        = decimal.NewFromInt(100)
	maxAppreciationPc = decimal.NewFromInt(50)
)

// Normalize returns a copy of the investment in which every field the
// calculators read has a safe value: negative amounts become zero, rates
// are bounded to [0, 100], durations to [1, 50] years, dates are parsed
// (falling back to now) and expenses are sorted with one record per year.
// The returned notes describe each adjustment. Normalize is idempotent.
func (inv Investment) Normalize(now time.Time) (Investment, []string) {
	var notes []string
	note := func(format string, args ...any) { notes = append(notes, fmt.Sprintf(format, args...)) }

	nonNeg := func(field string, d decimal.Decimal) decimal.Decimal {
		if d.IsNegative() {
			note("%s was negative (%s), using 0", field, d.StringFixed(2))
			return decimal.Zero
		}
		return d
	}
	pct := func(field string, d decimal.Decimal) decimal.Decimal {
		if d.IsNegative() {
			note("%s below 0%%, using 0", field)
			return decimal.Zero
		}
		if d.GreaterThan(maxPercent) {
			note("%s above 100%%, using 100", field)
			return maxPercent
		}
		return d
	}
	years := func(field string, n int) int {
		if n < MinDurationYears {
			return MinDurationYears
		}
		if n > MaxDurationYears {
			note("%s above %d years, using %d", field, MaxDurationYears, MaxDurationYears)
			return MaxDurationYears
		}
		return n
	}

	out := inv
	if out.RentalType == "" {
		if out.Regime.Valid() {
			out.RentalType = out.Regime.RentalType()
		} else {
			out.RentalType = Bare
		}
	}

	a := &out.Acquisition
	a.PurchasePrice = nonNeg("purchase_price", a.PurchasePrice)
	a.NotaryFees = nonNeg("notary_fees", a.NotaryFees)
	a.AgencyFees = nonNeg("agency_fees", a.AgencyFees)
	a.RenovationCosts = nonNeg("renovation_costs", a.RenovationCosts)
	a.FurnitureCost = nonNeg("furniture_cost", a.FurnitureCost)
	if a.DownPayment != nil {
		dp := nonNeg("down_payment", *a.DownPayment)
		a.DownPayment = &dp
	}

	f := &out.Financing
	f.LoanAmount = nonNeg("loan_amount", f.LoanAmount)
	f.AnnualRate = pct("annual_rate", f.AnnualRate)
	f.InsuranceRate = pct("insurance_rate", f.InsuranceRate)
	if f.LoanAmount.IsPositive() {
		f.DurationYears = years("duration_years", f.DurationYears)
	} else if f.DurationYears < 0 {
		f.DurationYears = 0
	}
	if f.DeferralType == "" {
		f.DeferralType = DeferralNone
	}
	if f.DeferralType == DeferralNone {
		f.DeferralMonths = 0
	}
	if maxDeferral := f.DurationYears*12 - 1; f.DeferralMonths > maxDeferral {
		note("deferral_months above loan term, using %d", max(maxDeferral, 0))
		f.DeferralMonths = max(maxDeferral, 0)
	}
	if f.DeferralMonths < 0 {
		f.DeferralMonths = 0
	}

	p := &out.Project
	if t, ok := dateutil.ParseDate(p.StartDate); ok {
		p.Start = t
	} else if t, ok := dateutil.ParseDate(f.StartDate); ok {
		p.Start = t
	} else if !p.Start.IsZero() {
		p.Start = dateutil.Day(p.Start)
	} else {
		if p.StartDate != "" {
			note("project start_date %q unparsable, using today", p.StartDate)
		}
		p.Start = dateutil.Day(now)
	}
	if t, ok := dateutil.ParseDate(f.StartDate); ok {
		f.Start = t
	} else {
		f.Start = p.Start
	}

	if t, ok := dateutil.ParseDate(p.EndDate); ok {
		p.End = t
	} else if p.TargetSaleYear != 0 {
		p.End = dateutil.EndOfYear(p.TargetSaleYear)
	} else if !p.End.IsZero() && p.EndDate == "" {
		p.End = dateutil.Day(p.End)
	} else if f.LoanAmount.IsPositive() {
		p.End = p.Start.AddDate(f.DurationYears, 0, -1)
	} else {
		p.End = p.Start.AddDate(defaultHoldingYears, 0, -1)
	}
	if p.End.Before(p.Start) {
		note("project end before start, using start date")
		p.End = p.Start
	}
	if p.TargetSaleYear != 0 && p.TargetSaleYear < p.Start.Year() {
		note("target_sale_year %d before project start, using %d", p.TargetSaleYear, p.Start.Year())
		p.TargetSaleYear = p.Start.Year()
	}

	r := &out.Resale
	if r.SalePrice != nil {
		sp := nonNeg("sale_price", *r.SalePrice)
		r.SalePrice = &sp
	}
	r.AnnualAppreciation = decimal.Min(r.AnnualAppreciation, maxAppreciationPc)
	r.AnnualAppreciation = decimal.Max(r.AnnualAppreciation, maxAppreciationPc.Neg())
	r.SaleFees = nonNeg("sale_fees", r.SaleFees)

	t := &out.Tax
	t.MarginalRate = pct("marginal_rate", t.MarginalRate)
	t.SocialRate = pct("social_rate", t.SocialRate)
	t.BuildingValue = nonNeg("building_value", t.BuildingValue)
	t.FurnitureValue = nonNeg("furniture_value", t.FurnitureValue)
	t.WorksValue = nonNeg("works_value", t.WorksValue)
	t.BuildingYears = years("building_years", t.BuildingYears)
	t.FurnitureYears = years("furniture_years", t.FurnitureYears)
	t.WorksYears = years("works_years", t.WorksYears)
	t.PriorDeficit = nonNeg("prior_deficit", t.PriorDeficit)

	if len(inv.Expenses) > 0 {
		out.Expenses = sortExpenses(inv.Expenses)
		if len(out.Expenses) != len(inv.Expenses) {
			note("duplicate expense years dropped, first record of each year kept")
		}
		for i := range out.Expenses {
			out.Expenses[i] = out.Expenses[i].Map(func(d decimal.Decimal) decimal.Decimal {
				if d.IsNegative() {
					return decimal.Zero
				}
				return d
			})
		}
	}

	return out, notes
}

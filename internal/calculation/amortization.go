package calculation

import (
	"math"
	"time"

	"github.com/rentsim/rental-calculator/internal/domain"
	"github.com/rentsim/rental-calculator/pkg/money"
	"github.com/shopspring/decimal"
)

const monthsPerYear = 12

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// LoanTerms are the inputs of the amortization scheduler.
// AnnualRate and InsuranceRate are percentages.
type LoanTerms struct {
	Principal      decimal.Decimal
	AnnualRate     decimal.Decimal
	DurationYears  int
	InsuranceRate  decimal.Decimal
	Deferral       domain.DeferralType
	DeferralMonths int
	Start          time.Time
}

// TermsFor extracts the loan terms of a normalized investment.
func TermsFor(inv *domain.Investment) LoanTerms {
	f := inv.Financing
	return LoanTerms{
		Principal:      f.LoanAmount,
		AnnualRate:     f.AnnualRate,
		DurationYears:  f.DurationYears,
		InsuranceRate:  f.InsuranceRate,
		Deferral:       f.DeferralType,
		DeferralMonths: f.DeferralMonths,
		Start:          f.Start,
	}
}

// MonthlyRate converts an annual percentage into a monthly fraction.
func MonthlyRate(annualPct decimal.Decimal) decimal.Decimal {
	return annualPct.Div(twelve).Div(hundred)
}

// AnnuityPayment solves the fixed monthly payment P·r·(1+r)^n / ((1+r)^n − 1).
//
// The compounding factor is computed in float64 and the monetary arithmetic
// in decimal; the result is rounded to cents.
func AnnuityPayment(principal, monthlyRate decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 || !principal.IsPositive() {
		return decimal.Zero
	}
	if !monthlyRate.IsPositive() {
		return money.Cents(principal.Div(decimal.NewFromInt(int64(months))))
	}
	factor := decimal.NewFromFloat(math.Pow(1+monthlyRate.InexactFloat64(), float64(months)))
	return money.Cents(principal.Mul(monthlyRate).Mul(factor).Div(factor.Sub(one)))
}

// BuildSchedule produces the month-by-month amortization schedule.
//
//   - none: fixed annuity payment over the whole term.
//   - partial: interest-only payments during the deferral, then an annuity
//     on the original principal over the remaining months.
//   - total: nothing is paid during the deferral and interest is added to
//     the balance; the annuity is then solved on principal plus the
//     capitalized interest over the remaining months.
//
// A principal, rate or duration that is not positive yields an empty
// schedule. Insurance is charged every month on the initial principal.
func BuildSchedule(t LoanTerms) domain.AmortizationSchedule {
	var sched domain.AmortizationSchedule
	if !t.Principal.IsPositive() || !t.AnnualRate.IsPositive() || t.DurationYears <= 0 {
		return sched
	}

	n := t.DurationYears * monthsPerYear
	deferred := 0
	if t.Deferral == domain.DeferralPartial || t.Deferral == domain.DeferralTotal {
		deferred = min(max(t.DeferralMonths, 0), n-1)
	}

	rate := MonthlyRate(t.AnnualRate)
	insurance := money.Cents(t.Principal.Mul(t.InsuranceRate).Div(hundred).Div(twelve))
	balance := t.Principal
	sched.Rows = make([]domain.AmortizationRow, 0, n)

	for m := 1; m <= deferred; m++ {
		interest := money.Cents(balance.Mul(rate))
		row := domain.AmortizationRow{
			Month:     m,
			Date:      paymentDate(t.Start, m),
			Interest:  interest,
			Insurance: insurance,
			Deferred:  true,
			Principal: decimal.Zero,
		}
		if t.Deferral == domain.DeferralTotal {
			balance = balance.Add(interest)
			row.Payment = decimal.Zero
			row.Principal = interest.Neg()
			row.Capitalized = true
			sched.DeferredInterest = sched.DeferredInterest.Add(interest)
		} else {
			row.Payment = interest
			sched.TotalInterest = sched.TotalInterest.Add(interest)
		}
		row.RemainingBalance = balance
		sched.TotalInsurance = sched.TotalInsurance.Add(insurance)
		sched.Rows = append(sched.Rows, row)
	}

	payment := AnnuityPayment(balance, rate, n-deferred)
	sched.MonthlyPayment = payment

	for m := deferred + 1; m <= n; m++ {
		interest := money.Cents(balance.Mul(rate))
		principal := payment.Sub(interest)
		pay := payment
		if m == n || principal.GreaterThan(balance) {
			principal = balance
			pay = principal.Add(interest)
		}
		balance = balance.Sub(principal)
		if balance.IsNegative() {
			balance = decimal.Zero
		}
		sched.TotalInterest = sched.TotalInterest.Add(interest)
		sched.TotalInsurance = sched.TotalInsurance.Add(insurance)
		sched.Rows = append(sched.Rows, domain.AmortizationRow{
			Month:            m,
			Date:             paymentDate(t.Start, m),
			Payment:          pay,
			Principal:        principal,
			Interest:         interest,
			Insurance:        insurance,
			RemainingBalance: balance,
		})
	}

	return sched
}

// paymentDate is the due date of month m (1-based); the first payment falls
// in the month the loan starts. Days past the 28th are pulled back so every
// month has a valid date.
func paymentDate(start time.Time, m int) time.Time {
	day := min(start.Day(), 28)
	return time.Date(start.Year(), start.Month()+time.Month(m-1), day, 0, 0, 0, 0, time.UTC)
}

// LoanYearFor aggregates the schedule rows falling in year. Principal and
// Interest only count amounts actually paid; capitalized interest is
// reported separately.
func LoanYearFor(s domain.AmortizationSchedule, year int) domain.LoanYear {
	ly := domain.LoanYear{Year: year, RemainingBalance: BalanceAtEndOfYear(s, year)}
	for _, row := range s.Rows {
		if row.Date.Year() != year {
			continue
		}
		ly.Payment = ly.Payment.Add(row.Payment)
		ly.Insurance = ly.Insurance.Add(row.Insurance)
		if row.Capitalized {
			ly.CapitalizedInterest = ly.CapitalizedInterest.Add(row.Interest)
			continue
		}
		ly.Interest = ly.Interest.Add(row.Interest)
		ly.Principal = ly.Principal.Add(row.Principal)
	}
	return ly
}

// BalanceAtEndOfYear returns the outstanding balance after the last payment
// of year. Before the first payment it is the original principal; an empty
// schedule has no balance.
func BalanceAtEndOfYear(s domain.AmortizationSchedule, year int) decimal.Decimal {
	if len(s.Rows) == 0 {
		return decimal.Zero
	}
	first := s.Rows[0]
	if year < first.Date.Year() {
		return first.RemainingBalance.Add(first.Principal)
	}
	balance := first.RemainingBalance
	for _, row := range s.Rows {
		if row.Date.Year() > year {
			break
		}
		balance = row.RemainingBalance
	}
	return balance
}

package calculation

import (
	"github.com/rentsim/rental-calculator/internal/domain"
	"github.com/rentsim/rental-calculator/pkg/money"
	"github.com/shopspring/decimal"
)

// BuildYearInput assembles the figures of one project year of a normalized
// investment. The yearly record is prorated by coverage. Loan interest,
// insurance and payment come from the schedule when there is one; they are
// actual payments and are not prorated. Without a schedule the record's own
// loan figures are used.
func BuildYearInput(inv *domain.Investment, sched domain.AmortizationSchedule, year int) YearInput {
	coverage := Coverage(inv, year)
	exp := ProrateExpense(inv.ExpenseFor(year), coverage)
	exp.Year = year

	in := YearInput{
		Year:       year,
		YearIndex:  year - inv.StartYear(),
		Coverage:   coverage,
		Expense:    exp,
		Deductible: exp.Deductible(),
		Loan:       LoanYearFor(sched, year),
	}
	in.CashExpenses = in.Deductible.Total.Add(exp.OtherNonDeductible)

	if len(sched.Rows) > 0 {
		in.LoanPayment = in.Loan.Payment
		in.LoanInsurance = in.Loan.Insurance
		in.Deductible.LoanInterest = in.Loan.Interest
	} else {
		in.LoanPayment = exp.LoanPayment
		in.LoanInsurance = exp.LoanInsurance
		in.Deductible.LoanInterest = exp.LoanInterest
		in.Loan.Payment = exp.LoanPayment
		in.Loan.Interest = exp.LoanInterest
		in.Loan.Insurance = exp.LoanInsurance
	}
	in.Deductible.LoanInsurance = in.LoanInsurance
	in.Deductible = in.Deductible.WithTotal()
	return in
}

// CashFlow is the owner's net cash of one year under one regime.
func CashFlow(res domain.TaxResult, in YearInput) decimal.Decimal {
	return money.Cents(res.Revenue.Sub(in.CashExpenses).Sub(in.LoanPayment).Sub(in.LoanInsurance).Sub(res.TotalTax))
}

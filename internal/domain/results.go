package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeductibleBreakdown itemizes the charges deducted under a real regime.
type DeductibleBreakdown struct {
	PropertyTax         decimal.Decimal `json:"property_tax"`
	CondoFees           decimal.Decimal `json:"condo_fees"`
	Insurance           decimal.Decimal `json:"insurance"`
	ManagementFees      decimal.Decimal `json:"management_fees"`
	UnpaidRentInsurance decimal.Decimal `json:"unpaid_rent_insurance"`
	Repairs             decimal.Decimal `json:"repairs"`
	Other               decimal.Decimal `json:"other"`
	LoanInterest        decimal.Decimal `json:"loan_interest"`
	LoanInsurance       decimal.Decimal `json:"loan_insurance"`
	Total               decimal.Decimal `json:"total"`
}

// WithTotal recomputes Total from the itemized lines.
func (b DeductibleBreakdown) WithTotal() DeductibleBreakdown {
	b.Total = b.PropertyTax.Add(b.CondoFees).Add(b.Insurance).Add(b.ManagementFees).
		Add(b.UnpaidRentInsurance).Add(b.Repairs).Add(b.Other).
		Add(b.LoanInterest).Add(b.LoanInsurance)
	return b
}

// AmortizationBlock tracks depreciation through one réel BIC year.
// Used + CarriedForward == Available + PriorCarried.
type AmortizationBlock struct {
	Available      decimal.Decimal `json:"available"`
	PriorCarried   decimal.Decimal `json:"prior_carried"`
	Used           decimal.Decimal `json:"used"`
	CarriedForward decimal.Decimal `json:"carried_forward"`
}

// TaxResult is one regime's outcome for one year.
// TotalTax == Tax + SocialCharges and TaxableIncome >= 0.
type TaxResult struct {
	Regime   Regime `json:"regime"`
	Year     int    `json:"year"`
	Eligible bool   `json:"eligible"`

	Revenue                    decimal.Decimal `json:"revenue"`
	TaxableIncomeBeforeDeficit decimal.Decimal `json:"taxable_income_before_deficit"`
	TaxableIncome              decimal.Decimal `json:"taxable_income"`
	Tax                        decimal.Decimal `json:"tax"`
	SocialCharges              decimal.Decimal `json:"social_charges"`
	TotalTax                   decimal.Decimal `json:"total_tax"`
	NetIncome                  decimal.Decimal `json:"net_income"`

	// Real regimes only.
	Deductible       *DeductibleBreakdown `json:"deductible,omitempty"`
	DeficitUsed      decimal.Decimal      `json:"deficit_used"`
	DeficitGenerated decimal.Decimal      `json:"deficit_generated"`
	DeficitCarried   decimal.Decimal      `json:"deficit_carried"`

	// Réel BIC only.
	Amortization *AmortizationBlock `json:"amortization,omitempty"`
}

// AmortizationRow is one month of a loan schedule.
type AmortizationRow struct {
	Month            int             `json:"month"`
	Date             time.Time       `json:"date"`
	Payment          decimal.Decimal `json:"payment"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         decimal.Decimal `json:"interest"`
	Insurance        decimal.Decimal `json:"insurance"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Deferred         bool            `json:"deferred"`
	Capitalized      bool            `json:"capitalized"` // interest added to the balance instead of paid
}

// AmortizationSchedule is the full monthly schedule of a loan.
type AmortizationSchedule struct {
	Rows             []AmortizationRow `json:"rows"`
	MonthlyPayment   decimal.Decimal   `json:"monthly_payment"`
	DeferredInterest decimal.Decimal   `json:"deferred_interest"`
	TotalInterest    decimal.Decimal   `json:"total_interest"`
	TotalInsurance   decimal.Decimal   `json:"total_insurance"`
}

// LoanYear aggregates a schedule over one calendar year.
type LoanYear struct {
	Year                int             `json:"year"`
	Payment             decimal.Decimal `json:"payment"`
	Principal           decimal.Decimal `json:"principal"`
	Interest            decimal.Decimal `json:"interest"`
	CapitalizedInterest decimal.Decimal `json:"capitalized_interest"`
	Insurance           decimal.Decimal `json:"insurance"`
	RemainingBalance    decimal.Decimal `json:"remaining_balance"`
}

// CapitalGainResult is the tax due on resale.
type CapitalGainResult struct {
	Regime       Regime          `json:"regime"`
	SaleYear     int             `json:"sale_year"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	SaleFees     decimal.Decimal `json:"sale_fees"`
	CostBasis    decimal.Decimal `json:"cost_basis"`
	GrossGain    decimal.Decimal `json:"gross_gain"`
	HoldingYears int             `json:"holding_years"`

	IncomeRebatePct   decimal.Decimal `json:"income_rebate_pct"`
	SocialRebatePct   decimal.Decimal `json:"social_rebate_pct"`
	TaxableGainIncome decimal.Decimal `json:"taxable_gain_income"`
	TaxableGainSocial decimal.Decimal `json:"taxable_gain_social"`
	IncomeTax         decimal.Decimal `json:"income_tax"`
	SocialCharges     decimal.Decimal `json:"social_charges"`

	ShortTermGain         decimal.Decimal `json:"short_term_gain"`
	ShortTermTax          decimal.Decimal `json:"short_term_tax"`
	DepreciationRecapture decimal.Decimal `json:"depreciation_recapture"`
	RecaptureTax          decimal.Decimal `json:"recapture_tax"`

	TotalTax      decimal.Decimal `json:"total_tax"`
	RemainingLoan decimal.Decimal `json:"remaining_loan"`
	NetProceeds   decimal.Decimal `json:"net_proceeds"`
}

// IRRResult is the annualized internal rate of return of a cash-flow series.
// Finite is false when no rate in the search interval zeroes the NPV.
type IRRResult struct {
	Rate      decimal.Decimal   `json:"rate"`
	Finite    bool              `json:"finite"`
	CashFlows []decimal.Decimal `json:"cash_flows"`
}

// PropertyContribution is one property's share of an SCI year.
type PropertyContribution struct {
	InvestmentID  string          `json:"investment_id"`
	Name          string          `json:"name"`
	Coverage      decimal.Decimal `json:"coverage"`
	Revenue       decimal.Decimal `json:"revenue"`
	Expenses      decimal.Decimal `json:"expenses"`
	Depreciation  decimal.Decimal `json:"depreciation"`
	PropertyValue decimal.Decimal `json:"property_value"`
	ProrataWeight decimal.Decimal `json:"prorata_weight"`
	AllocatedIS   decimal.Decimal `json:"allocated_is"`
}

// SCITaxResult is one year of consolidated corporate tax for an SCI.
// The AllocatedIS values of Contributions sum to TotalIS.
type SCITaxResult struct {
	SCIID    string          `json:"sci_id"`
	Year     int             `json:"year"`
	Coverage decimal.Decimal `json:"coverage"`

	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalExpenses     decimal.Decimal `json:"total_expenses"`
	EntityCosts       decimal.Decimal `json:"entity_costs"`
	TotalDepreciation decimal.Decimal `json:"total_depreciation"`

	ResultBeforeDeficit decimal.Decimal `json:"result_before_deficit"`
	ResultAfterDeficit  decimal.Decimal `json:"result_after_deficit"`
	DeficitUsed         decimal.Decimal `json:"deficit_used"`
	DeficitGenerated    decimal.Decimal `json:"deficit_generated"`
	DeficitCarried      decimal.Decimal `json:"deficit_carried"`

	ReducedRateTax  decimal.Decimal `json:"reduced_rate_tax"`
	StandardRateTax decimal.Decimal `json:"standard_rate_tax"`
	TotalIS         decimal.Decimal `json:"total_is"`

	Contributions []PropertyContribution `json:"contributions"`
}

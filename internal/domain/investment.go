package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Investment is one rental property's full parameter set.
type Investment struct {
	ID          string        `yaml:"id" json:"id"`
	Name        string        `yaml:"name" json:"name"`
	RentalType  RentalType    `yaml:"rental_type,omitempty" json:"rental_type,omitempty"`
	Regime      Regime        `yaml:"regime,omitempty" json:"regime,omitempty"` // preferred regime, display only
	Acquisition Acquisition   `yaml:"acquisition" json:"acquisition"`
	Financing   Financing     `yaml:"financing" json:"financing"`
	Project     ProjectWindow `yaml:"project" json:"project"`
	Resale      Resale        `yaml:"resale,omitempty" json:"resale,omitempty"`
	Tax         TaxParameters `yaml:"tax" json:"tax"`

	Expenses []YearlyExpense `yaml:"expenses" json:"expenses"`
}

// Acquisition holds the one-off purchase costs.
type Acquisition struct {
	PurchasePrice   decimal.Decimal `yaml:"purchase_price" json:"purchase_price"`
	NotaryFees      decimal.Decimal `yaml:"notary_fees" json:"notary_fees"`
	AgencyFees      decimal.Decimal `yaml:"agency_fees" json:"agency_fees"`
	RenovationCosts decimal.Decimal `yaml:"renovation_costs" json:"renovation_costs"`
	FurnitureCost   decimal.Decimal `yaml:"furniture_cost" json:"furniture_cost"`

	// DownPayment overrides the computed personal contribution when set.
	DownPayment *decimal.Decimal `yaml:"down_payment,omitempty" json:"down_payment,omitempty"`
}

// Financing describes the loan. Rates are annual percentages (3 means 3%).
type Financing struct {
	LoanAmount     decimal.Decimal `yaml:"loan_amount" json:"loan_amount"`
	AnnualRate     decimal.Decimal `yaml:"annual_rate" json:"annual_rate"`
	DurationYears  int             `yaml:"duration_years" json:"duration_years"`
	InsuranceRate  decimal.Decimal `yaml:"insurance_rate" json:"insurance_rate"`
	DeferralType   DeferralType    `yaml:"deferral_type,omitempty" json:"deferral_type,omitempty"`
	DeferralMonths int             `yaml:"deferral_months,omitempty" json:"deferral_months,omitempty"`
	StartDate      string          `yaml:"start_date,omitempty" json:"start_date,omitempty"`

	Start time.Time `yaml:"-" json:"-"`
}

// ProjectWindow is the period during which the property is held and let.
type ProjectWindow struct {
	StartDate      string `yaml:"start_date" json:"start_date"`
	EndDate        string `yaml:"end_date,omitempty" json:"end_date,omitempty"`
	TargetSaleYear int    `yaml:"target_sale_year,omitempty" json:"target_sale_year,omitempty"`

	Start time.Time `yaml:"-" json:"-"`
	End   time.Time `yaml:"-" json:"-"`
}

// Resale describes the exit. When SalePrice is nil the price is projected
// from the purchase price with AnnualAppreciation (percent per year).
type Resale struct {
	SalePrice          *decimal.Decimal `yaml:"sale_price,omitempty" json:"sale_price,omitempty"`
	AnnualAppreciation decimal.Decimal  `yaml:"annual_appreciation" json:"annual_appreciation"`
	SaleFees           decimal.Decimal  `yaml:"sale_fees" json:"sale_fees"`
}

// TaxParameters is the per-investment tax block. Rates are percentages.
type TaxParameters struct {
	MarginalRate   decimal.Decimal `yaml:"marginal_rate" json:"marginal_rate"`
	SocialRate     decimal.Decimal `yaml:"social_rate" json:"social_rate"`
	BuildingValue  decimal.Decimal `yaml:"building_value" json:"building_value"`
	BuildingYears  int             `yaml:"building_years" json:"building_years"`
	FurnitureValue decimal.Decimal `yaml:"furniture_value" json:"furniture_value"`
	FurnitureYears int             `yaml:"furniture_years" json:"furniture_years"`
	WorksValue     decimal.Decimal `yaml:"works_value" json:"works_value"`
	WorksYears     int             `yaml:"works_years" json:"works_years"`
	PriorDeficit   decimal.Decimal `yaml:"prior_deficit" json:"prior_deficit"`
	LMP            bool            `yaml:"lmp" json:"lmp"` // professional furnished-rental status
}

// YearlyExpense is one calendar year's raw figures for one property.
type YearlyExpense struct {
	Year int `yaml:"year" json:"year"`

	BareRent      decimal.Decimal `yaml:"bare_rent" json:"bare_rent"`
	FurnishedRent decimal.Decimal `yaml:"furnished_rent" json:"furnished_rent"`
	TenantCharges decimal.Decimal `yaml:"tenant_charges" json:"tenant_charges"`
	TaxBenefit    decimal.Decimal `yaml:"tax_benefit" json:"tax_benefit"`

	PropertyTax         decimal.Decimal `yaml:"property_tax" json:"property_tax"`
	CondoFees           decimal.Decimal `yaml:"condo_fees" json:"condo_fees"`
	Insurance           decimal.Decimal `yaml:"insurance" json:"insurance"`
	ManagementFees      decimal.Decimal `yaml:"management_fees" json:"management_fees"`
	UnpaidRentInsurance decimal.Decimal `yaml:"unpaid_rent_insurance" json:"unpaid_rent_insurance"`
	Repairs             decimal.Decimal `yaml:"repairs" json:"repairs"`
	OtherDeductible     decimal.Decimal `yaml:"other_deductible" json:"other_deductible"`
	OtherNonDeductible  decimal.Decimal `yaml:"other_non_deductible" json:"other_non_deductible"`

	// Loan figures are read only when the investment has no loan schedule.
	LoanPayment   decimal.Decimal `yaml:"loan_payment" json:"loan_payment"`
	LoanInsurance decimal.Decimal `yaml:"loan_insurance" json:"loan_insurance"`
	LoanInterest  decimal.Decimal `yaml:"loan_interest" json:"loan_interest"`

	// Previously displayed values; never used as calculation input.
	CachedTax     decimal.Decimal `yaml:"cached_tax,omitempty" json:"cached_tax,omitempty"`
	CachedDeficit decimal.Decimal `yaml:"cached_deficit,omitempty" json:"cached_deficit,omitempty"`
}

// Map returns a copy with f applied to every money field used by the
// calculators. Year and the cached display values are left untouched.
func (e YearlyExpense) Map(f func(decimal.Decimal) decimal.Decimal) YearlyExpense {
	out := e
	for _, p := range []*decimal.Decimal{
		&out.BareRent, &out.FurnishedRent, &out.TenantCharges, &out.TaxBenefit,
		&out.PropertyTax, &out.CondoFees, &out.Insurance, &out.ManagementFees,
		&out.UnpaidRentInsurance, &out.Repairs, &out.OtherDeductible, &out.OtherNonDeductible,
		&out.LoanPayment, &out.LoanInsurance, &out.LoanInterest,
	} {
		*p = f(*p)
	}
	return out
}

// Revenue returns the gross rental revenue for a rental type.
func (e YearlyExpense) Revenue(t RentalType) decimal.Decimal {
	if t == Furnished {
		return e.FurnishedRent.Add(e.TenantCharges)
	}
	return e.BareRent.Add(e.TenantCharges).Add(e.TaxBenefit)
}

// Deductible returns the itemized deductible charges, without loan costs.
func (e YearlyExpense) Deductible() DeductibleBreakdown {
	return DeductibleBreakdown{
		PropertyTax:         e.PropertyTax,
		CondoFees:           e.CondoFees,
		Insurance:           e.Insurance,
		ManagementFees:      e.ManagementFees,
		UnpaidRentInsurance: e.UnpaidRentInsurance,
		Repairs:             e.Repairs,
		Other:               e.OtherDeductible,
	}.WithTotal()
}

// ExpenseFor returns the record for year, or a zero record when none exists.
func (inv *Investment) ExpenseFor(year int) YearlyExpense {
	for _, e := range inv.Expenses {
		if e.Year == year {
			return e
		}
	}
	return YearlyExpense{Year: year}
}

// TotalCost is everything paid at acquisition.
func (inv *Investment) TotalCost() decimal.Decimal {
	a := inv.Acquisition
	return a.PurchasePrice.Add(a.NotaryFees).Add(a.AgencyFees).Add(a.RenovationCosts).Add(a.FurnitureCost)
}

// CostBasis is the acquisition basis used for capital gains:
// price, fees and improvement works.
func (inv *Investment) CostBasis() decimal.Decimal {
	a := inv.Acquisition
	return a.PurchasePrice.Add(a.NotaryFees).Add(a.AgencyFees).Add(a.RenovationCosts)
}

// PropertyValue weights the property inside a holding entity.
func (inv *Investment) PropertyValue() decimal.Decimal {
	return inv.Acquisition.PurchasePrice.Add(inv.Acquisition.RenovationCosts)
}

// DownPayment is the personal contribution at acquisition.
func (inv *Investment) DownPayment() decimal.Decimal {
	if inv.Acquisition.DownPayment != nil {
		return *inv.Acquisition.DownPayment
	}
	dp := inv.TotalCost().Sub(inv.Financing.LoanAmount)
	if dp.IsNegative() {
		return decimal.Zero
	}
	return dp
}

// StartYear is the calendar year the project starts.
func (inv *Investment) StartYear() int { return inv.Project.Start.Year() }

// EndYear is the calendar year the project ends.
func (inv *Investment) EndYear() int { return inv.Project.End.Year() }

// SaleYear is the resale year used for capital gains and IRR.
func (inv *Investment) SaleYear() int {
	if inv.Project.TargetSaleYear != 0 {
		return inv.Project.TargetSaleYear
	}
	return inv.EndYear()
}

// Years lists the calendar years of the project window in order.
func (inv *Investment) Years() []int {
	var years []int
	for y := inv.StartYear(); y <= inv.EndYear(); y++ {
		years = append(years, y)
	}
	return years
}

func sortExpenses(expenses []YearlyExpense) []YearlyExpense {
	out := make([]YearlyExpense, 0, len(expenses))
	seen := make(map[int]bool, len(expenses))
	for _, e := range expenses {
		if seen[e.Year] {
			continue
		}
		seen[e.Year] = true
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

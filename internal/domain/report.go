package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Portfolio is the loaded input: shared tax rules, investments and the
// holding entities grouping some of them.
type Portfolio struct {
	TaxRules    TaxRules     `yaml:"tax_rules" json:"tax_rules"`
	Investments []Investment `yaml:"investments" json:"investments"`
	SCIs        []SCI        `yaml:"scis" json:"scis"`
}

// InvestmentByID finds an investment by identifier.
func (p *Portfolio) InvestmentByID(id string) (*Investment, bool) {
	for i := range p.Investments {
		if p.Investments[i].ID == id {
			return &p.Investments[i], true
		}
	}
	return nil, false
}

// Members returns the investments referenced by an SCI, in reference order.
// Unknown identifiers are skipped.
func (p *Portfolio) Members(sci SCI) []Investment {
	var out []Investment
	for _, id := range sci.PropertyIDs {
		if inv, ok := p.InvestmentByID(id); ok {
			out = append(out, *inv)
		}
	}
	return out
}

// YearAnalysis is one project year of one investment.
type YearAnalysis struct {
	Year        int                        `json:"year"`
	Coverage    decimal.Decimal            `json:"coverage"`
	Loan        LoanYear                   `json:"loan"`
	Results     map[Regime]TaxResult       `json:"results"`
	CashFlows   map[Regime]decimal.Decimal `json:"cash_flows"`
	Recommended Regime                     `json:"recommended"`
}

// InvestmentReport is the full analysis of one investment.
type InvestmentReport struct {
	ID          string                       `json:"id"`
	Name        string                       `json:"name"`
	RentalType  RentalType                   `json:"rental_type"`
	Regime      Regime                       `json:"regime,omitempty"`
	DownPayment decimal.Decimal              `json:"down_payment"`
	Schedule    AmortizationSchedule         `json:"schedule"`
	Years       []YearAnalysis               `json:"years"`
	Totals      map[Regime]RegimeTotals      `json:"totals"`
	Recommended Regime                       `json:"recommended"`
	SaleYear    int                          `json:"sale_year"`
	CapitalGain map[Regime]CapitalGainResult `json:"capital_gain"`
	IRR         map[Regime]IRRResult         `json:"irr"`
	Notes       []string                     `json:"notes,omitempty"`
}

// RegimeTotals sums one regime over the holding period up to the sale year.
type RegimeTotals struct {
	Eligible  bool            `json:"eligible"`
	TotalTax  decimal.Decimal `json:"total_tax"`
	NetIncome decimal.Decimal `json:"net_income"`
}

// SCIReport is the consolidated multi-year result of one holding entity.
type SCIReport struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Years   []SCITaxResult  `json:"years"`
	TotalIS decimal.Decimal `json:"total_is"`
}

// PortfolioReport is what formatters and the HTTP endpoint render.
type PortfolioReport struct {
	GeneratedAt time.Time          `json:"generated_at"`
	TaxRules    TaxRules           `json:"tax_rules"`
	Investments []InvestmentReport `json:"investments"`
	SCIs        []SCIReport        `json:"scis"`
}

package calculation

import (
	"context"
	"fmt"

	"github.com/rentsim/rental-calculator/internal/domain"
	"github.com/rentsim/rental-calculator/pkg/money"
	"github.com/shopspring/decimal"
)

// Engine orchestrates the yearly analysis of investments and holding entities.
// It holds no mutable state after construction and is safe for concurrent use.
type Engine struct {
	Rules    domain.TaxRules
	GainCalc *CapitalGainCalculator
	SCICalc  *SCICalculator
	Logger   Logger
}

// NewEngine creates an engine with the default statutory rules.
func NewEngine() *Engine {
	return NewEngineWithRules(domain.DefaultTaxRules())
}

// NewEngineWithRules creates an engine with overridden tax rules. Zero fields
// fall back to their defaults.
func NewEngineWithRules(rules domain.TaxRules) *Engine {
	rules = rules.WithDefaults()
	logger := NopLogger{}
	return &Engine{
		Rules:    rules,
		GainCalc: NewCapitalGainCalculator(rules),
		SCICalc:  NewSCICalculator(logger),
		Logger:   logger,
	}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		l = NopLogger{}
	}
	e.Logger = l
	e.SCICalc.Logger = l
}

// Schedule normalizes an investment and returns its loan schedule.
func (e *Engine) Schedule(raw domain.Investment) domain.AmortizationSchedule {
	inv, _ := raw.Normalize(nowFunc())
	return BuildSchedule(TermsFor(&inv))
}

// analysisState is threaded through the years of one investment.
type analysisState struct {
	carry            CarryForward
	depreciationUsed decimal.Decimal
}

// AnalyzeInvestment runs every regime over the holding period of one
// investment, then prices the resale and the IRR of each regime.
func (e *Engine) AnalyzeInvestment(raw domain.Investment) domain.InvestmentReport {
	inv, notes := raw.Normalize(nowFunc())
	for _, n := range notes {
		e.Logger.Debugf("investment %s: %s", inv.ID, n)
	}

	sched := BuildSchedule(TermsFor(&inv))
	taxCalc := NewTaxCalculator(e.Rules, inv.Tax)
	start := inv.StartYear()
	saleYear := min(max(inv.SaleYear(), start), inv.EndYear())

	var years []int
	for _, y := range inv.Years() {
		if y <= saleYear {
			years = append(years, y)
		}
	}

	initial := analysisState{carry: InitialCarryForward(&inv), depreciationUsed: decimal.Zero}
	analyses, final := Fold(years, initial, func(st analysisState, year int) (analysisState, domain.YearAnalysis) {
		in := BuildYearInput(&inv, sched, year)
		results, next := taxCalc.CalculateAll(in, st.carry)

		ya := domain.YearAnalysis{
			Year:        year,
			Coverage:    in.Coverage,
			Loan:        in.Loan,
			Results:     results,
			CashFlows:   make(map[domain.Regime]decimal.Decimal, len(results)),
			Recommended: Recommend(results, inv.RentalType),
		}
		for regime, res := range results {
			ya.CashFlows[regime] = CashFlow(res, in)
		}

		used := st.depreciationUsed
		if a := results[domain.ReelBIC].Amortization; a != nil {
			used = used.Add(a.Used)
		}
		return analysisState{carry: next, depreciationUsed: used}, ya
	})
	e.Logger.Debugf("investment %s: folded %d years (%d-%d)", inv.ID, len(analyses), start, saleYear)

	report := domain.InvestmentReport{
		ID:          inv.ID,
		Name:        inv.Name,
		RentalType:  inv.RentalType,
		Regime:      inv.Regime,
		DownPayment: money.Cents(inv.DownPayment()),
		Schedule:    sched,
		Years:       analyses,
		Totals:      totals(analyses),
		SaleYear:    saleYear,
		CapitalGain: make(map[domain.Regime]domain.CapitalGainResult),
		IRR:         make(map[domain.Regime]domain.IRRResult),
		Notes:       notes,
	}
	report.Recommended = recommendTotals(report.Totals, inv.RentalType)

	salePrice := e.salePrice(&inv, saleYear)
	remaining := BalanceAtEndOfYear(sched, saleYear)
	for _, regime := range domain.Regimes() {
		depreciation := decimal.Zero
		if regime == domain.ReelBIC {
			depreciation = final.depreciationUsed
		}
		gain := e.GainCalc.Calculate(SaleInput{
			Regime:                  regime,
			AcquisitionYear:         start,
			SaleYear:                saleYear,
			SalePrice:               salePrice,
			SaleFees:                inv.Resale.SaleFees,
			CostBasis:               inv.CostBasis(),
			AccumulatedDepreciation: depreciation,
			MarginalRate:            inv.Tax.MarginalRate,
			SocialRate:              inv.Tax.SocialRate,
			LMP:                     inv.Tax.LMP,
			RemainingLoan:           remaining,
		})
		report.CapitalGain[regime] = gain

		flows := make([]decimal.Decimal, 0, len(analyses)+1)
		flows = append(flows, report.DownPayment.Neg())
		for _, ya := range analyses {
			cf := ya.CashFlows[regime]
			if ya.Year == saleYear {
				cf = cf.Add(gain.NetProceeds)
			}
			flows = append(flows, cf)
		}
		report.IRR[regime] = IRR(flows)
		if !report.IRR[regime].Finite {
			e.Logger.Debugf("investment %s: no IRR for %s", inv.ID, regime)
		}
	}
	return report
}

// salePrice is the declared resale price, or the purchase price grown by the
// yearly appreciation between acquisition and sale.
func (e *Engine) salePrice(inv *domain.Investment, saleYear int) decimal.Decimal {
	if inv.Resale.SalePrice != nil {
		return *inv.Resale.SalePrice
	}
	return ProjectSalePrice(inv.Acquisition.PurchasePrice, inv.Resale.AnnualAppreciation, saleYear-inv.StartYear())
}

func totals(analyses []domain.YearAnalysis) map[domain.Regime]domain.RegimeTotals {
	out := make(map[domain.Regime]domain.RegimeTotals, len(domain.Regimes()))
	for _, regime := range domain.Regimes() {
		t := domain.RegimeTotals{Eligible: true, TotalTax: decimal.Zero, NetIncome: decimal.Zero}
		for _, ya := range analyses {
			res := ya.Results[regime]
			t.Eligible = t.Eligible && res.Eligible
			t.TotalTax = t.TotalTax.Add(res.TotalTax)
			t.NetIncome = t.NetIncome.Add(res.NetIncome)
		}
		out[regime] = t
	}
	return out
}

// recommendTotals picks the regime with the best net income over the whole
// holding period among regimes eligible every year.
func recommendTotals(t map[domain.Regime]domain.RegimeTotals, rental domain.RentalType) domain.Regime {
	asResults := make(map[domain.Regime]domain.TaxResult, len(t))
	for regime, tot := range t {
		asResults[regime] = domain.TaxResult{Regime: regime, Eligible: tot.Eligible, NetIncome: tot.NetIncome}
	}
	return Recommend(asResults, rental)
}

// AnalyzeSCI projects one holding entity of a portfolio.
func (e *Engine) AnalyzeSCI(p *domain.Portfolio, sci domain.SCI) domain.SCIReport {
	members := p.Members(sci)
	if len(members) < len(sci.PropertyIDs) {
		e.Logger.Warnf("sci %s: %d of %d properties not found", sci.ID, len(sci.PropertyIDs)-len(members), len(sci.PropertyIDs))
	}
	return e.SCICalc.Project(sci, members)
}

// RunPortfolio analyzes every investment and every SCI of a portfolio.
// Investments are processed in file order; the context is checked between them.
func (e *Engine) RunPortfolio(ctx context.Context, p *domain.Portfolio) (*domain.PortfolioReport, error) {
	report := &domain.PortfolioReport{
		GeneratedAt: nowFunc(),
		TaxRules:    e.Rules,
		Investments: make([]domain.InvestmentReport, 0, len(p.Investments)),
		SCIs:        make([]domain.SCIReport, 0, len(p.SCIs)),
	}
	for _, inv := range p.Investments {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("portfolio analysis interrupted: %w", err)
		}
		report.Investments = append(report.Investments, e.AnalyzeInvestment(inv))
	}
	for _, sci := range p.SCIs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("portfolio analysis interrupted: %w", err)
		}
		report.SCIs = append(report.SCIs, e.AnalyzeSCI(p, sci))
	}
	e.Logger.Infof("analyzed %d investments and %d SCIs", len(report.Investments), len(report.SCIs))
	return report, nil
}

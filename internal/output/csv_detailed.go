package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rentsim/rental-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// CSVDetailedExporter provides raw yearly detail per investment, year and regime.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(report *domain.PortfolioReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Investment", "Year", "Coverage", "Regime", "Eligible", "Revenue", "Deductible", "TaxableIncome", "Tax", "SocialCharges", "TotalTax", "NetIncome", "DeficitCarried", "DepreciationCarried", "CashFlow"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, inv := range report.Investments {
		for _, yr := range inv.Years {
			for _, regime := range domain.Regimes() {
				res := yr.Results[regime]
				deductible := decimal.Zero
				if res.Deductible != nil {
					deductible = res.Deductible.Total
				}
				depreciation := decimal.Zero
				if res.Amortization != nil {
					depreciation = res.Amortization.CarriedForward
				}
				row := []string{
					inv.ID,
					intToString(yr.Year),
					yr.Coverage.String(),
					string(regime),
					boolToString(res.Eligible),
					res.Revenue.StringFixed(2),
					deductible.StringFixed(2),
					res.TaxableIncome.StringFixed(2),
					res.Tax.StringFixed(2),
					res.SocialCharges.StringFixed(2),
					res.TotalTax.StringFixed(2),
					res.NetIncome.StringFixed(2),
					res.DeficitCarried.StringFixed(2),
					depreciation.StringFixed(2),
					yr.CashFlows[regime].StringFixed(2),
				}
				if err := w.Write(row); err != nil {
					return nil, err
				}
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// SCICSVExporter lists every SCI year with the share allocated to each property.
type SCICSVExporter struct{}

func (c SCICSVExporter) Name() string { return "sci-csv" }

func (c SCICSVExporter) Format(report *domain.PortfolioReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"SCI", "Year", "Coverage", "ResultBeforeDeficit", "DeficitCarried", "TotalIS", "Property", "Revenue", "Expenses", "Depreciation", "Weight", "AllocatedIS"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sci := range report.SCIs {
		for _, y := range sci.Years {
			for _, p := range y.Contributions {
				row := []string{
					sci.ID,
					intToString(y.Year),
					y.Coverage.String(),
					y.ResultBeforeDeficit.StringFixed(2),
					y.DeficitCarried.StringFixed(2),
					y.TotalIS.StringFixed(2),
					p.InvestmentID,
					p.Revenue.StringFixed(2),
					p.Expenses.StringFixed(2),
					p.Depreciation.StringFixed(2),
					p.ProrataWeight.String(),
					p.AllocatedIS.StringFixed(2),
				}
				if err := w.Write(row); err != nil {
					return nil, err
				}
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rentsim/rental-calculator/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per investment and regime).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *domain.PortfolioReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Investment", "Regime", "Eligible", "TotalTax", "NetIncome", "SaleYear", "CapitalGainTax", "NetProceeds", "IRR", "Recommended"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, inv := range report.Investments {
		for _, regime := range domain.Regimes() {
			t := inv.Totals[regime]
			g := inv.CapitalGain[regime]
			irr := ""
			if r := inv.IRR[regime]; r.Finite {
				irr = r.Rate.String()
			}
			row := []string{
				inv.ID,
				string(regime),
				boolToString(t.Eligible),
				t.TotalTax.StringFixed(2),
				t.NetIncome.StringFixed(2),
				intToString(inv.SaleYear),
				g.TotalTax.StringFixed(2),
				g.NetProceeds.StringFixed(2),
				irr,
				boolToString(regime == inv.Recommended),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

package output

import (
	"bytes"
	"fmt"

	"github.com/rentsim/rental-calculator/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(report *domain.PortfolioReport) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "RENTAL PORTFOLIO SUMMARY")
	fmt.Fprintln(&buf, "================================")
	for i := range report.Investments {
		inv := &report.Investments[i]
		fmt.Fprintf(&buf, "%s (%s): sale %d\n", inv.Name, inv.RentalType, inv.SaleYear)
		for _, regime := range regimesFor(inv.RentalType) {
			t := inv.Totals[regime]
			eligible := ""
			if !t.Eligible {
				eligible = " (not eligible)"
			}
			fmt.Fprintf(&buf, "  %-14s Tax=%s Net=%s IRR=%s%s\n",
				regime,
				FormatCurrency(t.TotalTax),
				FormatCurrency(t.NetIncome),
				FormatIRR(inv.IRR[regime]),
				eligible,
			)
		}
		rec := AnalyzeRegimes(inv)
		if rec.Recommended != "" {
			fmt.Fprintf(&buf, "  Recommended: %s", rec.Recommended)
			if rec.Declared != "" && rec.Declared != rec.Recommended {
				fmt.Fprintf(&buf, " (Δ %s / %s vs %s)", FormatCurrency(rec.NetIncomeChange), FormatPercentage(rec.PercentageChange), rec.Declared)
			}
			fmt.Fprintln(&buf)
		}
	}
	for _, sci := range report.SCIs {
		fmt.Fprintf(&buf, "SCI %s: %d years, IS=%s\n", sci.Name, len(sci.Years), FormatCurrency(sci.TotalIS))
	}
	return buf.Bytes(), nil
}

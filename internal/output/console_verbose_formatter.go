package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rentsim/rental-calculator/internal/domain"
)

// ConsoleVerboseFormatter renders the detailed console report via the pluggable interface.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(report *domain.PortfolioReport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintln(&buf, "RENTAL INVESTMENT TAX & AMORTIZATION ANALYSIS")
	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range GenerateAssumptions(report.TaxRules.WithDefaults()) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	for i := range report.Investments {
		writeInvestment(&buf, i+1, &report.Investments[i])
	}
	for i := range report.SCIs {
		writeSCI(&buf, &report.SCIs[i])
	}
	return buf.Bytes(), nil
}

func writeInvestment(buf *bytes.Buffer, n int, inv *domain.InvestmentReport) {
	fmt.Fprintf(buf, "INVESTMENT %d: %s [%s]\n", n, inv.Name, inv.ID)
	fmt.Fprintln(buf, strings.Repeat("=", 50))
	fmt.Fprintf(buf, "Rental type:      %s\n", inv.RentalType)
	if inv.Regime != "" {
		fmt.Fprintf(buf, "Declared regime:  %s\n", inv.Regime)
	}
	fmt.Fprintf(buf, "Down payment:     %s\n", FormatCurrency(inv.DownPayment))
	if len(inv.Schedule.Rows) > 0 {
		fmt.Fprintf(buf, "Monthly payment:  %s over %d months\n", FormatCurrency(inv.Schedule.MonthlyPayment), len(inv.Schedule.Rows))
		fmt.Fprintf(buf, "Total interest:   %s (capitalized %s)\n", FormatCurrency(inv.Schedule.TotalInterest), FormatCurrency(inv.Schedule.DeferredInterest))
		fmt.Fprintf(buf, "Total insurance:  %s\n", FormatCurrency(inv.Schedule.TotalInsurance))
	}
	for _, note := range inv.Notes {
		fmt.Fprintf(buf, "  note: %s\n", note)
	}
	fmt.Fprintln(buf)

	regimes := regimesFor(inv.RentalType)
	fmt.Fprintf(buf, "%-6s %-9s %-16s", "YEAR", "COVERAGE", "LOAN INTEREST")
	for _, r := range regimes {
		fmt.Fprintf(buf, " %-18s", strings.ToUpper(string(r))+" TAX")
	}
	fmt.Fprintln(buf)
	for _, ya := range inv.Years {
		fmt.Fprintf(buf, "%-6d %-9s %-16s", ya.Year, ya.Coverage.StringFixed(4), FormatCurrency(ya.Loan.Interest))
		for _, r := range regimes {
			fmt.Fprintf(buf, " %-18s", FormatCurrency(ya.Results[r].TotalTax))
		}
		fmt.Fprintln(buf)
	}
	fmt.Fprintln(buf)

	fmt.Fprintln(buf, "REGIME TOTALS:")
	for _, r := range regimes {
		t := inv.Totals[r]
		marker := ""
		if r == inv.Recommended {
			marker = "  <- recommended"
		}
		fmt.Fprintf(buf, "  %-14s eligible=%-5s tax=%-16s net=%-16s IRR=%s%s\n",
			r, boolToString(t.Eligible), FormatCurrency(t.TotalTax), FormatCurrency(t.NetIncome), FormatIRR(inv.IRR[r]), marker)
	}
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "RESALE IN %d:\n", inv.SaleYear)
	for _, r := range regimes {
		g := inv.CapitalGain[r]
		fmt.Fprintf(buf, "  %-14s gain=%-16s held=%2dy tax=%-16s net proceeds=%s\n",
			r, FormatCurrency(g.GrossGain), g.HoldingYears, FormatCurrency(g.TotalTax), FormatCurrency(g.NetProceeds))
	}
	fmt.Fprintln(buf)
}

func writeSCI(buf *bytes.Buffer, sci *domain.SCIReport) {
	fmt.Fprintf(buf, "SCI: %s [%s]\n", sci.Name, sci.ID)
	fmt.Fprintln(buf, strings.Repeat("=", 50))
	fmt.Fprintf(buf, "%-6s %-16s %-16s %-16s %-14s\n", "YEAR", "RESULT", "DEFICIT CARRIED", "IS", "SPLIT")
	for _, y := range sci.Years {
		parts := make([]string, 0, len(y.Contributions))
		for _, c := range y.Contributions {
			parts = append(parts, fmt.Sprintf("%s=%s", c.InvestmentID, c.AllocatedIS.StringFixed(2)))
		}
		fmt.Fprintf(buf, "%-6d %-16s %-16s %-16s %s\n",
			y.Year, FormatCurrency(y.ResultBeforeDeficit), FormatCurrency(y.DeficitCarried), FormatCurrency(y.TotalIS), strings.Join(parts, " "))
	}
	fmt.Fprintf(buf, "Total IS: %s\n\n", FormatCurrency(sci.TotalIS))
}

package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rentsim/rental-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

func buildTestReport() *domain.PortfolioReport {
	d := decimal.NewFromInt
	results := map[domain.Regime]domain.TaxResult{
		domain.MicroFoncier: {Regime: domain.MicroFoncier, Eligible: true, Revenue: d(12000), TaxableIncome: d(8400), Tax: d(2520), SocialCharges: decimal.RequireFromString("1444.80"), TotalTax: decimal.RequireFromString("3964.80"), NetIncome: decimal.RequireFromString("5835.20")},
		domain.ReelFoncier:  {Regime: domain.ReelFoncier, Eligible: true, Revenue: d(12000), TaxableIncome: d(0), DeficitCarried: d(900), Deductible: &domain.DeductibleBreakdown{Total: d(12900)}, NetIncome: d(-900)},
		domain.MicroBIC:     {Regime: domain.MicroBIC, Eligible: true},
		domain.ReelBIC:      {Regime: domain.ReelBIC, Eligible: true, Amortization: &domain.AmortizationBlock{CarriedForward: d(4000)}},
	}
	schedule := domain.AmortizationSchedule{
		MonthlyPayment: decimal.RequireFromString("1109.20"),
		Rows: []domain.AmortizationRow{
			{Month: 1, Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Payment: decimal.RequireFromString("1109.20"), Principal: decimal.RequireFromString("609.20"), Interest: d(500), RemainingBalance: decimal.RequireFromString("199390.80")},
		},
	}
	return &domain.PortfolioReport{
		GeneratedAt: time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC),
		TaxRules:    domain.DefaultTaxRules(),
		Investments: []domain.InvestmentReport{
			{
				ID:          "flat",
				Name:        "Flat",
				RentalType:  domain.Bare,
				Regime:      domain.ReelFoncier,
				DownPayment: d(45000),
				Schedule:    schedule,
				Years: []domain.YearAnalysis{
					{Year: 2024, Coverage: decimal.NewFromInt(1), Results: results, CashFlows: map[domain.Regime]decimal.Decimal{domain.MicroFoncier: d(-1200)}},
				},
				Totals: map[domain.Regime]domain.RegimeTotals{
					domain.MicroFoncier: {Eligible: true, TotalTax: decimal.RequireFromString("3964.80"), NetIncome: d(6000)},
					domain.ReelFoncier:  {Eligible: true, TotalTax: d(0), NetIncome: d(5000)},
					domain.MicroBIC:     {Eligible: true},
					domain.ReelBIC:      {Eligible: true},
				},
				Recommended: domain.MicroFoncier,
				SaleYear:    2024,
				CapitalGain: map[domain.Regime]domain.CapitalGainResult{domain.MicroFoncier: {GrossGain: d(10000), TotalTax: d(3620), NetProceeds: d(50000)}},
				IRR: map[domain.Regime]domain.IRRResult{
					domain.MicroFoncier: {Rate: decimal.RequireFromString("0.0425"), Finite: true},
					domain.ReelFoncier:  {Finite: false},
				},
			},
		},
		SCIs: []domain.SCIReport{
			{
				ID:      "sci",
				Name:    "Family SCI",
				TotalIS: d(8250),
				Years: []domain.SCITaxResult{{
					Year:                2024,
					Coverage:            decimal.NewFromInt(1),
					ResultBeforeDeficit: d(50000),
					TotalIS:             d(8250),
					Contributions: []domain.PropertyContribution{
						{InvestmentID: "flat", ProrataWeight: decimal.RequireFromString("0.75"), AllocatedIS: decimal.RequireFromString("6187.50")},
						{InvestmentID: "studio", ProrataWeight: decimal.RequireFromString("0.25"), AllocatedIS: decimal.RequireFromString("2062.50")},
					},
				}},
			},
		},
	}
}

func TestConsoleLiteFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	if !strings.Contains(content, "Recommended: micro-foncier") {
		t.Fatalf("expected recommendation for micro-foncier, got: %s", content)
	}
	if !strings.Contains(content, "IRR=4.25%") {
		t.Fatalf("expected IRR rendered as a percentage, got: %s", content)
	}
	if !strings.Contains(content, "IRR=n/a") {
		t.Fatalf("expected n/a for a missing IRR, got: %s", content)
	}
	if strings.Contains(content, "micro-bic") {
		t.Fatalf("furnished regimes must not be listed for a bare rental")
	}
}

func TestConsoleVerboseFormatter(t *testing.T) {
	out, err := ConsoleVerboseFormatter{}.Format(buildTestReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	for _, want := range []string{
		"RENTAL INVESTMENT TAX & AMORTIZATION ANALYSIS",
		"KEY ASSUMPTIONS:",
		"INVESTMENT 1: Flat [flat]",
		"Monthly payment:  1 109.20 €",
		"<- recommended",
		"RESALE IN 2024:",
		"SCI: Family SCI [sci]",
		"flat=6187.50 studio=2062.50",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("expected %q in console output", want)
		}
	}
}

func TestCSVSummarizer(t *testing.T) {
	out, err := CSVSummarizer{}.Format(buildTestReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("csv parse: %v", err)
	}
	if len(records) != 1+len(domain.Regimes()) {
		t.Fatalf("expected header plus one row per regime, got %d rows", len(records))
	}
	first := records[1]
	if first[0] != "flat" || first[1] != "micro-foncier" || first[8] != "0.0425" || first[9] != "true" {
		t.Fatalf("unexpected first row: %v", first)
	}
	if records[2][8] != "" {
		t.Fatalf("expected empty IRR without solution, got %q", records[2][8])
	}
}

func TestCSVDetailedExporter(t *testing.T) {
	out, err := CSVDetailedExporter{}.Format(buildTestReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("csv parse: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(records))
	}
	if records[2][6] != "12900.00" || records[2][12] != "900.00" {
		t.Fatalf("unexpected reel-foncier row: %v", records[2])
	}
	if records[4][13] != "4000.00" {
		t.Fatalf("expected carried depreciation on reel-bic row, got %v", records[4])
	}
}

func TestSCICSVExporter(t *testing.T) {
	out, err := SCICSVExporter{}.Format(buildTestReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	if !strings.Contains(content, "sci,2024,1,50000.00,0.00,8250.00,studio,0.00,0.00,0.00,0.25,2062.50") {
		t.Fatalf("unexpected SCI csv: %s", content)
	}
}

func TestScheduleCSVExporter(t *testing.T) {
	out, err := ScheduleCSVExporter{}.Format(buildTestReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %d lines", len(lines))
	}
	if lines[1] != "flat,1,2024-01-01,1109.20,609.20,500.00,0.00,199390.80,false,false" {
		t.Fatalf("unexpected schedule row: %s", lines[1])
	}
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestReport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded domain.PortfolioReport
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if decoded.Investments[0].Recommended != domain.MicroFoncier {
		t.Fatalf("recommended lost in JSON: %q", decoded.Investments[0].Recommended)
	}
	if !decoded.SCIs[0].TotalIS.Equal(decimal.NewFromInt(8250)) {
		t.Fatalf("SCI total lost in JSON: %s", decoded.SCIs[0].TotalIS)
	}
}

func TestGetFormatterByName(t *testing.T) {
	tests := map[string]string{
		"console":      "console",
		"verbose":      "console",
		" JSON ":       "json",
		"csv-detailed": "detailed-csv",
		"schedule":     "schedule-csv",
		"summary":      "console-lite",
	}
	for in, want := range tests {
		f := GetFormatterByName(in)
		if f == nil {
			t.Fatalf("no formatter for %q", in)
		}
		if f.Name() != want {
			t.Errorf("GetFormatterByName(%q) = %s, want %s", in, f.Name(), want)
		}
	}
	if GetFormatterByName("html") != nil {
		t.Fatalf("html is not a supported format")
	}
}

func TestAvailableFormatterNamesSorted(t *testing.T) {
	names := AvailableFormatterNames()
	if len(names) != len(builtInFormatters) {
		t.Fatalf("expected %d names, got %d", len(builtInFormatters), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}

func TestExtension(t *testing.T) {
	if Extension(JSONFormatter{}) != "json" || Extension(CSVSummarizer{}) != "csv" || Extension(ConsoleFormatter{}) != "txt" {
		t.Fatalf("unexpected extensions")
	}
}

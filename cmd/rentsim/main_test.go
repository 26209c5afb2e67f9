package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentsim/rental-calculator/internal/calculation"
	"github.com/rentsim/rental-calculator/internal/config"
	"github.com/rentsim/rental-calculator/internal/domain"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	calculation.SetNowFunc(func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) })
	t.Cleanup(func() { calculation.SetNowFunc(time.Now) })

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeExample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	_, _, err := runCLI(t, "example", "--output", path)
	require.NoError(t, err)
	return path
}

func TestExampleToStdoutParses(t *testing.T) {
	out, _, err := runCLI(t, "example")
	require.NoError(t, err)

	portfolio, err := config.NewInputParser().Parse([]byte(out))
	require.NoError(t, err)
	assert.Len(t, portfolio.Investments, 2)
	assert.Len(t, portfolio.SCIs, 1)
}

func TestAnalyzeJSON(t *testing.T) {
	path := writeExample(t)

	out, _, err := runCLI(t, "analyze", "--config", path, "--format", "json")
	require.NoError(t, err)

	var report domain.PortfolioReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.Len(t, report.Investments, 2)
	assert.Equal(t, "lyon-flat", report.Investments[0].ID)
	assert.Len(t, report.SCIs, 1)
}

func TestAnalyzeConsoleToFile(t *testing.T) {
	path := writeExample(t)
	target := filepath.Join(t.TempDir(), "report.txt")

	out, errOut, err := runCLI(t, "analyze", "-c", path, "-o", target)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Report written to")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "RENTAL INVESTMENT TAX & AMORTIZATION ANALYSIS")
}

func TestAnalyzeVerboseLogs(t *testing.T) {
	path := writeExample(t)

	_, errOut, err := runCLI(t, "analyze", "-c", path, "-f", "csv", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, errOut, "INFO analyzed 2 investments and 1 SCIs")
}

func TestAnalyzeErrors(t *testing.T) {
	path := writeExample(t)

	_, _, err := runCLI(t, "analyze", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load portfolio")

	_, _, err = runCLI(t, "analyze", "--config", path, "--format", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestScheduleCSV(t *testing.T) {
	path := writeExample(t)

	out, _, err := runCLI(t, "schedule", "lyon-flat", "-c", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 241)
	assert.True(t, strings.HasPrefix(lines[0], "Investment,Month,Date"))
	assert.True(t, strings.HasPrefix(lines[1], "lyon-flat,1,"))

	out, _, err = runCLI(t, "schedule", "-c", path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "Investment,Month,Date"))
	assert.Contains(t, out, "nantes-studio,1,")
}

func TestScheduleJSONAndUnknownInvestment(t *testing.T) {
	path := writeExample(t)

	out, _, err := runCLI(t, "schedule", "nantes-studio", "-c", path, "-f", "json")
	require.NoError(t, err)
	var schedules map[string]domain.AmortizationSchedule
	require.NoError(t, json.Unmarshal([]byte(out), &schedules))
	assert.Len(t, schedules["nantes-studio"].Rows, 180)

	_, _, err = runCLI(t, "schedule", "nowhere", "-c", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "investment nowhere not found")
}

func TestSCICSV(t *testing.T) {
	path := writeExample(t)

	out, _, err := runCLI(t, "sci", "-c", path, "-f", "csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "SCI,Year,Coverage"))
	assert.Contains(t, out, "family-sci,")
}

func TestConfigDefaultsFromEnvironment(t *testing.T) {
	path := writeExample(t)
	t.Setenv("RENTSIM_CONFIG", path)

	out, _, err := runCLI(t, "analyze", "-f", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "lyon-flat")
}

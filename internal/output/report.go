package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rentsim/rental-calculator/internal/domain"
	"gopkg.in/yaml.v3"
)

// GenerateReport writes the report with the named formatter to a timestamped
// file and returns the file name.
func GenerateReport(report *domain.PortfolioReport, format string) (string, error) {
	f, err := lookup(format)
	if err != nil {
		return "", err
	}
	return WriteFormatted(f, report, Extension(f))
}

// WriteReport renders the report with the named formatter to w.
func WriteReport(w io.Writer, report *domain.PortfolioReport, format string) error {
	f, err := lookup(format)
	if err != nil {
		return err
	}
	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("format %s: %w", f.Name(), err)
	}
	_, err = w.Write(data)
	return err
}

func lookup(format string) (Formatter, error) {
	if f := GetFormatterByName(format); f != nil {
		return f, nil
	}
	// enrich error with available formatters and aliases
	return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}

// SavePortfolio writes a portfolio as YAML.
func SavePortfolio(portfolio *domain.Portfolio, filename string) error {
	b, err := yaml.Marshal(portfolio)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}

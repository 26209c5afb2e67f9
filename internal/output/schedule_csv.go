package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rentsim/rental-calculator/internal/domain"
)

// ScheduleCSVExporter writes the monthly loan schedule of every investment.
type ScheduleCSVExporter struct{}

func (c ScheduleCSVExporter) Name() string { return "schedule-csv" }

func (c ScheduleCSVExporter) Format(report *domain.PortfolioReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(scheduleHeader); err != nil {
		return nil, err
	}
	for _, inv := range report.Investments {
		if err := writeScheduleRows(w, inv.ID, inv.Schedule); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// FormatScheduleCSV renders a single schedule.
func FormatScheduleCSV(id string, s domain.AmortizationSchedule) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(scheduleHeader); err != nil {
		return nil, err
	}
	if err := writeScheduleRows(w, id, s); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

var scheduleHeader = []string{"Investment", "Month", "Date", "Payment", "Principal", "Interest", "Insurance", "RemainingBalance", "Deferred", "Capitalized"}

func writeScheduleRows(w *csv.Writer, id string, s domain.AmortizationSchedule) error {
	for _, row := range s.Rows {
		rec := []string{
			id,
			intToString(row.Month),
			row.Date.Format("2006-01-02"),
			row.Payment.StringFixed(2),
			row.Principal.StringFixed(2),
			row.Interest.StringFixed(2),
			row.Insurance.StringFixed(2),
			row.RemainingBalance.StringFixed(2),
			boolToString(row.Deferred),
			boolToString(row.Capitalized),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

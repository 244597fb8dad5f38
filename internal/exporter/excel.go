package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/muhammad-o98/Bike-Accidents-GB/pkg/contracts/domain"
)

const (
	summarySheet  = "Summary"
	yearlySheet   = "Yearly Trend"
	severitySheet = "Severity"
)

// ExcelWriter builds the multi-sheet summary workbook.
type ExcelWriter struct {
	logger *slog.Logger
	dir    string
}

// NewExcelWriter creates an Excel writer targeting dir.
func NewExcelWriter(logger *slog.Logger, dir string) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{
		logger: logger.With(slog.String("component", "excel_exporter")),
		dir:    dir,
	}
}

// WriteSummary writes the workbook: a KPI sheet, the yearly accident
// trend and the severity distribution.
func (w *ExcelWriter) WriteSummary(name string, summary domain.Summary, years []domain.TimeseriesPoint, severities []domain.CategoryCount) error {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.dir, name)
	}

	w.logger.Info("writing Excel summary", slog.String("path", path))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	if err := w.writeKPISheet(f, headerStyle, summary); err != nil {
		return err
	}
	if err := w.writeYearlySheet(f, headerStyle, years); err != nil {
		return err
	}
	if err := w.writeSeveritySheet(f, headerStyle, severities); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (w *ExcelWriter) writeKPISheet(f *excelize.File, headerStyle int, summary domain.Summary) error {
	rows := []struct {
		label string
		value interface{}
	}{
		{"Total Accidents", summary.TotalAccidents},
		{"Total Casualties", summary.TotalCasualties},
		{"Total Vehicles", summary.TotalVehicles},
		{"Fatal Accidents", summary.FatalAccidents},
		{"Serious Accidents", summary.SeriousAccidents},
		{"Slight Accidents", summary.SlightAccidents},
		{"Avg Casualties Per Accident", summary.AvgCasualtiesPerAccident},
		{"Year Range", summary.YearRange},
	}

	if err := f.SetCellValue(summarySheet, "A1", "Metric"); err != nil {
		return fmt.Errorf("failed to write summary sheet: %w", err)
	}
	if err := f.SetCellValue(summarySheet, "B1", "Value"); err != nil {
		return fmt.Errorf("failed to write summary sheet: %w", err)
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", headerStyle); err != nil {
		return fmt.Errorf("failed to style summary sheet: %w", err)
	}

	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetCellValue(summarySheet, cell, row.label); err != nil {
			return fmt.Errorf("failed to write summary sheet: %w", err)
		}
		cell = fmt.Sprintf("B%d", i+2)
		if err := f.SetCellValue(summarySheet, cell, row.value); err != nil {
			return fmt.Errorf("failed to write summary sheet: %w", err)
		}
	}

	return f.SetColWidth(summarySheet, "A", "A", 30)
}

func (w *ExcelWriter) writeYearlySheet(f *excelize.File, headerStyle int, years []domain.TimeseriesPoint) error {
	if _, err := f.NewSheet(yearlySheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := f.SetSheetRow(yearlySheet, "A1", &[]interface{}{"Year", "Accidents"}); err != nil {
		return fmt.Errorf("failed to write yearly sheet: %w", err)
	}
	if err := f.SetCellStyle(yearlySheet, "A1", "B1", headerStyle); err != nil {
		return fmt.Errorf("failed to style yearly sheet: %w", err)
	}

	for i, point := range years {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(yearlySheet, cell, &[]interface{}{point.Bucket, point.Count}); err != nil {
			return fmt.Errorf("failed to write yearly sheet: %w", err)
		}
	}
	return nil
}

func (w *ExcelWriter) writeSeveritySheet(f *excelize.File, headerStyle int, severities []domain.CategoryCount) error {
	if _, err := f.NewSheet(severitySheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := f.SetSheetRow(severitySheet, "A1", &[]interface{}{"Severity", "Accidents", "Share %"}); err != nil {
		return fmt.Errorf("failed to write severity sheet: %w", err)
	}
	if err := f.SetCellStyle(severitySheet, "A1", "C1", headerStyle); err != nil {
		return fmt.Errorf("failed to style severity sheet: %w", err)
	}

	for i, count := range severities {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(severitySheet, cell, &[]interface{}{count.Category, count.Count, count.Percentage}); err != nil {
			return fmt.Errorf("failed to write severity sheet: %w", err)
		}
	}
	return nil
}

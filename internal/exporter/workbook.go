package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/austinm2151/ECON-434-FinalProject/internal/poverty"
)

// Workbook sheet names
const (
	RateSheet = "poverty_rate"
	KeySheet  = "threshold_keys"
)

// WorkbookWriter writes the poverty rate analysis workbook
type WorkbookWriter struct {
	logger *slog.Logger
}

// NewWorkbookWriter creates a workbook writer
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{logger: logger}
}

// Write saves the rate table and the threshold key listing to path
func (w *WorkbookWriter) Write(path string, result *poverty.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), RateSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(KeySheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", KeySheet, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	// built-in number format 10 is 0.00%
	rateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 10})
	if err != nil {
		return fmt.Errorf("create rate style: %w", err)
	}

	if err := writeHeader(f, RateSheet, RateHeaders, headerStyle); err != nil {
		return err
	}
	for i, r := range result.Rates {
		row := []interface{}{r.Period, r.TotalCount, r.BelowCount, r.Rate}
		if err := setRow(f, RateSheet, i+2, row); err != nil {
			return err
		}
	}
	if n := len(result.Rates); n > 0 {
		if err := f.SetCellStyle(RateSheet, "D2", fmt.Sprintf("D%d", n+1), rateStyle); err != nil {
			return fmt.Errorf("style rate column: %w", err)
		}
	}

	if err := writeHeader(f, KeySheet, KeyHeaders, headerStyle); err != nil {
		return err
	}
	for i, k := range KeyRows(result) {
		row := []interface{}{k.Key.FamilySize, k.Key.Children, k.Status, k.Households}
		if err := setRow(f, KeySheet, i+2, row); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	w.logger.Info("Workbook written",
		slog.String("path", path),
		slog.Int("periods", len(result.Rates)),
		slog.Int("threshold_keys", len(result.Unresolved)+len(result.Extrapolated)))
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	row := make([]interface{}, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	if err := setRow(f, sheet, 1, row); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("style header of %s: %w", sheet, err)
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func setRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, rowNum, err)
	}
	return nil
}

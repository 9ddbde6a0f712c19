package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// HouseholdHeader is the column layout of the default household table
var HouseholdHeader = []string{"year", "famsze", "nchild", "wly", "cpi"}

// LongThresholdHeader is the column layout of the default long threshold table
var LongThresholdHeader = []string{"FamilySize", "Kids", "ThresholdType", "ThresholdValue"}

// DataFixtures writes small input tables into a test directory
type DataFixtures struct {
	t   *testing.T
	Dir string
}

// NewDataFixtures creates a fixtures manager rooted in a fresh temp directory
func NewDataFixtures(t *testing.T) *DataFixtures {
	t.Helper()
	return &DataFixtures{t: t, Dir: t.TempDir()}
}

// Path returns name joined to the fixture directory
func (f *DataFixtures) Path(name string) string {
	return filepath.Join(f.Dir, name)
}

// WriteCSV writes header and rows as a CSV file and returns its path
func (f *DataFixtures) WriteCSV(name string, header []string, rows [][]string) string {
	f.t.Helper()

	path := f.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		f.t.Fatalf("create fixture dir: %v", err)
	}
	file, err := os.Create(path)
	if err != nil {
		f.t.Fatalf("create fixture %s: %v", name, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if header != nil {
		if err := w.Write(header); err != nil {
			f.t.Fatalf("write fixture header: %v", err)
		}
	}
	if err := w.WriteAll(rows); err != nil {
		f.t.Fatalf("write fixture rows: %v", err)
	}
	return path
}

// WriteXLSX writes header and rows into sheet of a new workbook and returns its path
func (f *DataFixtures) WriteXLSX(name, sheet string, header []string, rows [][]string) string {
	f.t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if _, err := wb.NewSheet(sheet); err != nil {
			f.t.Fatalf("create sheet %s: %v", sheet, err)
		}
		if err := wb.DeleteSheet("Sheet1"); err != nil {
			f.t.Fatalf("delete default sheet: %v", err)
		}
	}

	all := rows
	if header != nil {
		all = append([][]string{header}, rows...)
	}
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			f.t.Fatalf("cell name: %v", err)
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
			f.t.Fatalf("write row %d: %v", i+1, err)
		}
	}

	path := f.Path(name)
	if err := wb.SaveAs(path); err != nil {
		f.t.Fatalf("save workbook %s: %v", name, err)
	}
	return path
}

// SampleThresholds returns a long threshold table covering family sizes 1-9
// with 0-2 children and a second "weighted" type for sizes 1-2
func SampleThresholds() [][]string {
	rows := [][]string{
		{"1", "0", "threshold", "100"},
		{"2", "0", "threshold", "130"},
		{"2", "1", "threshold", "135"},
		{"3", "0", "threshold", "150"},
		{"3", "1", "threshold", "155"},
		{"3", "2", "threshold", "160"},
		{"9", "0", "threshold", "300"},
		{"9", "2", "threshold", "320"},
		{"4", "8", "threshold", "400"},
		{"1", "0", "weighted", "95"},
		{"2", "0", "weighted", "125"},
	}
	return rows
}

// SampleHouseholds returns household rows over two periods. Row 4 has a
// family/children combination absent from SampleThresholds and row 5 a zero
// price index. Row 7 resolves by the family-size-9 extrapolation.
func SampleHouseholds() [][]string {
	return [][]string{
		{"1999", "1", "0", "90", "100"},
		{"1999", "2", "0", "150", "100"},
		{"1999", "3", "1", "100", "100"},
		{"1999", "5", "3", "1000", "100"},
		{"2001", "1", "0", "90", "0"},
		{"2001", "2", "1", "250", "200"},
		{"2001", "12", "1", "600", "200"},
	}
}

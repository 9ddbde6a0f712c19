package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/austinm2151/ECON-434-FinalProject/internal/errors"
)

const utf8BOM = "\uFEFF"

// Table is a rectangular input read from a CSV file or a workbook sheet.
// Rows exclude the header; row i sits on source line i+2.
type Table struct {
	Source string
	Sheet  string
	Header []string
	Rows   [][]string
}

// Line returns the 1-based source line of row index i
func (t *Table) Line(i int) int {
	return i + 2
}

// Column returns the index of the named column, ignoring case and
// surrounding spaces, or -1
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

// Cell returns the trimmed cell at row i, column idx; short rows read as blank
func (t *Table) Cell(i, idx int) string {
	row := t.Rows[i]
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// ReadTable reads path as CSV or, for .xlsx/.xlsm files, as the given sheet
// of a workbook. An empty sheet selects the first sheet.
func ReadTable(path, sheet string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readWorkbook(path, sheet)
	default:
		return readCSV(path)
	}
}

func readCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidInput, "read_table", err, "failed to open file")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, apperrors.Newf(apperrors.KindInvalidInput, "read_table", "%s is empty", path)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidInput, "read_table", err, "failed to read header")
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidInput, "read_table", err,
			fmt.Sprintf("failed to read %s", filepath.Base(path)))
	}

	return &Table{Source: path, Header: trimAll(header), Rows: rows}, nil
}

func readWorkbook(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidInput, "read_table", err, "failed to open workbook")
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.Newf(apperrors.KindInvalidInput, "read_table", "%s has no sheets", path)
		}
		sheet = sheets[0]
	}

	// Number formats only change how a cell displays; read the stored value.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInvalidInput, "read_table", err,
			fmt.Sprintf("failed to read sheet %q", sheet))
	}
	if len(rows) == 0 {
		return nil, apperrors.Newf(apperrors.KindInvalidInput, "read_table",
			"sheet %q of %s is empty", sheet, path)
	}

	return &Table{Source: path, Sheet: sheet, Header: trimAll(rows[0]), Rows: rows[1:]}, nil
}

func trimAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

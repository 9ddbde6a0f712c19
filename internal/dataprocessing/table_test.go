package dataprocessing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "github.com/austinm2151/ECON-434-FinalProject/internal/errors"
	"github.com/austinm2151/ECON-434-FinalProject/internal/shared/testutil"
)

func TestReadTable_CSV(t *testing.T) {
	fx := testutil.NewDataFixtures(t)
	path := fx.WriteCSV("households.csv", []string{" year ", "famsze"}, [][]string{
		{"1999", "3"},
		{"2001"},
	})

	table, err := ReadTable(path, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"year", "famsze"}, table.Header)
	assert.Len(t, table.Rows, 2)
	assert.Equal(t, 0, table.Column("YEAR"))
	assert.Equal(t, -1, table.Column("cpi"))
	assert.Equal(t, "3", table.Cell(0, 1))
	assert.Equal(t, "", table.Cell(1, 1), "short rows read as blank")
	assert.Equal(t, 3, table.Line(1))
}

func TestReadTable_CSVWithBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.csv")
	require.NoError(t, os.WriteFile(path, []byte("\uFEFFyear,cpi\n1999,100\n"), 0644))

	table, err := ReadTable(path, "")
	require.NoError(t, err)
	assert.Equal(t, 0, table.Column("year"))
}

func TestReadTable_XLSX(t *testing.T) {
	fx := testutil.NewDataFixtures(t)

	t.Run("first sheet by default", func(t *testing.T) {
		path := fx.WriteXLSX("first.xlsx", "panel", testutil.HouseholdHeader, testutil.SampleHouseholds())
		table, err := ReadTable(path, "")
		require.NoError(t, err)
		assert.Equal(t, "panel", table.Sheet)
		assert.Equal(t, testutil.HouseholdHeader, table.Header)
		assert.Len(t, table.Rows, len(testutil.SampleHouseholds()))
	})

	t.Run("named sheet", func(t *testing.T) {
		path := fx.WriteXLSX("named.xlsx", "data", []string{"a"}, [][]string{{"1"}})
		table, err := ReadTable(path, "data")
		require.NoError(t, err)
		assert.Equal(t, "1", table.Cell(0, 0))
	})

	t.Run("missing sheet", func(t *testing.T) {
		path := fx.WriteXLSX("missing.xlsx", "data", []string{"a"}, [][]string{{"1"}})
		_, err := ReadTable(path, "nope")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestReadTable_XLSXFormattedCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styled.xlsx")

	wb := excelize.NewFile()
	require.NoError(t, wb.SetSheetRow("Sheet1", "A1", &[]interface{}{"year", "wly", "cpi"}))
	require.NoError(t, wb.SetSheetRow("Sheet1", "A2", &[]interface{}{1999, 12345.67, 104.56}))

	currency := `"$"#,##0`
	currencyStyle, err := wb.NewStyle(&excelize.Style{CustomNumFmt: &currency})
	require.NoError(t, err)
	require.NoError(t, wb.SetCellStyle("Sheet1", "B2", "B2", currencyStyle))
	integerStyle, err := wb.NewStyle(&excelize.Style{NumFmt: 1})
	require.NoError(t, err)
	require.NoError(t, wb.SetCellStyle("Sheet1", "C2", "C2", integerStyle))

	require.NoError(t, wb.SaveAs(path))
	require.NoError(t, wb.Close())

	table, err := ReadTable(path, "")
	require.NoError(t, err)

	assert.Equal(t, "1999", table.Cell(0, 0))
	assert.Equal(t, "12345.67", table.Cell(0, 1), "display format must not round income")
	assert.Equal(t, "104.56", table.Cell(0, 2), "display format must not round the price index")
}

func TestReadTable_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadTable(filepath.Join(dir, "absent.csv"), "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = ReadTable(empty, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "empty")

	broken := filepath.Join(dir, "broken.csv")
	require.NoError(t, os.WriteFile(broken, []byte("a,b\n\"unterminated,1\n"), 0644))
	_, err = ReadTable(broken, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

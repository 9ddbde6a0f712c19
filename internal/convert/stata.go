package convert

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"time"

	"github.com/kshedden/datareader"

	apperrors "github.com/austinm2151/ECON-434-FinalProject/internal/errors"
)

// ChunkRows is the number of records read from a dta file at a time
const ChunkRows = 10000

// StataToCSV converts the Stata dta file src into a CSV file dst with a
// header row. Missing values become blank cells, dates are written as
// YYYY-MM-DD and value labels replace coded categories.
func StataToCSV(ctx context.Context, src, dst string, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	in, err := os.Open(src)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.KindInvalidInput, "convert", err, "failed to open dta file")
	}
	defer in.Close()

	reader, err := datareader.NewStataReader(in)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.KindInvalidInput, "convert", err,
			fmt.Sprintf("%s is not a readable Stata file", filepath.Base(src)))
	}
	reader.ConvertDates = true
	reader.InsertCategoryLabels = true

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("failed to create csv: %w", err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	header := reader.ColumnNames()
	if err := w.Write(header); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	rows := 0
	for {
		if err := ctx.Err(); err != nil {
			return rows, fmt.Errorf("convert: %w", err)
		}

		chunk, err := reader.Read(ChunkRows)
		if err != nil && err != io.EOF {
			return rows, apperrors.Wrap(apperrors.KindInvalidInput, "convert", err,
				fmt.Sprintf("failed to read records after row %d", rows))
		}
		n := chunkLength(chunk)
		if n == 0 {
			break
		}

		columns := make([][]string, len(chunk))
		for j, s := range chunk {
			columns[j] = formatColumn(s.Data(), s.Missing(), n)
		}
		record := make([]string, len(chunk))
		for i := 0; i < n; i++ {
			for j := range columns {
				record[j] = columns[j][i]
			}
			if err := w.Write(record); err != nil {
				return rows, fmt.Errorf("failed to write row %d: %w", rows+1, err)
			}
			rows++
		}

		if err == io.EOF {
			break
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return rows, fmt.Errorf("failed to flush csv: %w", err)
	}
	if err := out.Close(); err != nil {
		return rows, fmt.Errorf("failed to close csv: %w", err)
	}

	logger.InfoContext(ctx, "Stata file converted",
		slog.String("source", src),
		slog.String("destination", dst),
		slog.Int("columns", len(header)),
		slog.Int("rows", rows),
		slog.Duration("duration", time.Since(start)))
	return rows, nil
}

func chunkLength(chunk []*datareader.Series) int {
	if len(chunk) == 0 || chunk[0] == nil {
		return 0
	}
	return chunk[0].Length()
}

// formatColumn renders n values of a series column; missing entries are blank
func formatColumn(data interface{}, missing []bool, n int) []string {
	out := make([]string, n)
	isMissing := func(i int) bool {
		return missing != nil && i < len(missing) && missing[i]
	}

	for i := 0; i < n; i++ {
		if isMissing(i) {
			continue
		}
		switch v := data.(type) {
		case []float64:
			out[i] = formatValue(v[i])
		case []float32:
			out[i] = formatValue(float64(v[i]))
		case []int64:
			out[i] = strconv.FormatInt(v[i], 10)
		case []int32:
			out[i] = strconv.FormatInt(int64(v[i]), 10)
		case []int16:
			out[i] = strconv.FormatInt(int64(v[i]), 10)
		case []int8:
			out[i] = strconv.FormatInt(int64(v[i]), 10)
		case []string:
			out[i] = v[i]
		case []time.Time:
			out[i] = v[i].Format("2006-01-02")
		default:
			if rv := reflect.ValueOf(data); rv.Kind() == reflect.Slice && i < rv.Len() {
				out[i] = fmt.Sprint(rv.Index(i).Interface())
			}
		}
	}
	return out
}

// formatValue writes integral floats without a fraction and NaN as blank
func formatValue(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

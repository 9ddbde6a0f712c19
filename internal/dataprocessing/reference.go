package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	apperrors "github.com/austinm2151/ECON-434-FinalProject/internal/errors"
	"github.com/austinm2151/ECON-434-FinalProject/internal/poverty"
)

// Reference table shapes
const (
	ShapeAuto = "auto"
	ShapeLong = "long"
	ShapeWide = "wide"
)

// ReferenceOptions describes how to read the poverty threshold table
type ReferenceOptions struct {
	Sheet          string
	Shape          string
	PrimaryType    string
	FamilyColumn   string
	ChildrenColumn string
	TypeColumn     string
	ValueColumn    string
	// WideType tags the values of a wide table without a type column
	WideType string
}

// ReferenceLoader builds a ThresholdTable from a reference file
type ReferenceLoader struct {
	opts   ReferenceOptions
	logger *slog.Logger
}

// NewReferenceLoader creates a reference loader
func NewReferenceLoader(opts ReferenceOptions, logger *slog.Logger) *ReferenceLoader {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Shape == "" {
		opts.Shape = ShapeAuto
	}
	return &ReferenceLoader{
		opts:   opts,
		logger: logger.With(slog.String("component", "reference_loader")),
	}
}

// Load reads path and reshapes it into a ThresholdTable. An ambiguous
// reference row or an unreadable file aborts the load.
func (l *ReferenceLoader) Load(ctx context.Context, path string) (*poverty.ThresholdTable, poverty.ReshapeStats, error) {
	table, err := ReadTable(path, l.opts.Sheet)
	if err != nil {
		return nil, poverty.ReshapeStats{}, fmt.Errorf("load thresholds: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, poverty.ReshapeStats{}, fmt.Errorf("load thresholds: %w", err)
	}

	shape := l.DetectShape(table)
	var rows []poverty.RawThresholdRow
	switch shape {
	case ShapeLong:
		rows, err = l.longRows(table)
	case ShapeWide:
		rows, err = poverty.MeltWide(table.Header, table.Rows, poverty.WideOptions{
			FamilyColumn:  l.wideFamilyColumn(table),
			TypeColumn:    l.opts.TypeColumn,
			ThresholdType: l.opts.WideType,
		})
	default:
		err = apperrors.Newf(apperrors.KindInvalidInput, "load_thresholds", "unknown table shape %q", shape)
	}
	if err != nil {
		return nil, poverty.ReshapeStats{}, fmt.Errorf("load thresholds: %w", err)
	}

	thresholds, stats, err := poverty.BuildLong(rows, poverty.TableOptions{PrimaryType: l.opts.PrimaryType})
	if err != nil {
		return nil, stats, fmt.Errorf("load thresholds: %w", err)
	}

	l.logger.InfoContext(ctx, "threshold table loaded",
		slog.String("file", path),
		slog.String("shape", shape),
		slog.Int("keys", thresholds.Len()),
		slog.Any("types", thresholds.Types()),
		slog.String("primary_type", thresholds.Primary()),
		slog.Int("dropped", stats.Dropped),
		slog.Int("capped", stats.Capped))

	return thresholds, stats, nil
}

// DetectShape resolves the configured shape; auto picks long when the header
// carries the family, children and value columns. The type column is optional
// in long tables, so it does not take part in detection.
func (l *ReferenceLoader) DetectShape(t *Table) string {
	shape := strings.ToLower(l.opts.Shape)
	if shape != ShapeAuto {
		return shape
	}
	if t.Column(l.opts.FamilyColumn) >= 0 && t.Column(l.opts.ChildrenColumn) >= 0 && t.Column(l.opts.ValueColumn) >= 0 {
		return ShapeLong
	}
	return ShapeWide
}

func (l *ReferenceLoader) longRows(t *Table) ([]poverty.RawThresholdRow, error) {
	familyIdx := t.Column(l.opts.FamilyColumn)
	childrenIdx := t.Column(l.opts.ChildrenColumn)
	valueIdx := t.Column(l.opts.ValueColumn)
	typeIdx := t.Column(l.opts.TypeColumn)

	var missing []string
	for _, c := range []struct {
		name string
		idx  int
	}{
		{l.opts.FamilyColumn, familyIdx},
		{l.opts.ChildrenColumn, childrenIdx},
		{l.opts.ValueColumn, valueIdx},
	} {
		if c.idx < 0 {
			missing = append(missing, c.name)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.Newf(apperrors.KindInvalidInput, "load_thresholds",
			"%s is missing columns %s", t.Source, strings.Join(missing, ", "))
	}

	rows := make([]poverty.RawThresholdRow, 0, len(t.Rows))
	for i := range t.Rows {
		if isBlankRow(t.Rows[i]) {
			continue
		}
		value, err := poverty.ParseAmount(t.Cell(i, valueIdx))
		if err != nil {
			value = math.NaN()
		}
		ttype := ""
		if typeIdx >= 0 {
			ttype = t.Cell(i, typeIdx)
		}
		rows = append(rows, poverty.RawThresholdRow{
			Line:            t.Line(i),
			FamilySizeLabel: t.Cell(i, familyIdx),
			ChildrenLabel:   t.Cell(i, childrenIdx),
			ThresholdType:   ttype,
			Value:           value,
		})
	}
	return rows, nil
}

// wideFamilyColumn uses the configured family column when the wide header has it
func (l *ReferenceLoader) wideFamilyColumn(t *Table) string {
	if l.opts.FamilyColumn != "" && t.Column(l.opts.FamilyColumn) >= 0 {
		return l.opts.FamilyColumn
	}
	return ""
}

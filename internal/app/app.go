package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/austinm2151/ECON-434-FinalProject/internal/config"
	"github.com/austinm2151/ECON-434-FinalProject/internal/convert"
	"github.com/austinm2151/ECON-434-FinalProject/internal/dataprocessing"
	apperrors "github.com/austinm2151/ECON-434-FinalProject/internal/errors"
	"github.com/austinm2151/ECON-434-FinalProject/internal/exporter"
	"github.com/austinm2151/ECON-434-FinalProject/internal/infrastructure"
	"github.com/austinm2151/ECON-434-FinalProject/internal/poverty"
	"github.com/austinm2151/ECON-434-FinalProject/internal/validation"
)

const (
	VERSION = "1.0.0"
	AppName = "povrate"
)

// BuildTime is set at compile time
var BuildTime = "unknown"

// Pipeline stage names, used for spans, metrics and logs
const (
	StageLoadThresholds = "load_thresholds"
	StageLoadHouseholds = "load_households"
	StageClassify       = "classify"
	StageExport         = "export"
)

// Application wires configuration, logging and telemetry around one
// poverty-rate run
type Application struct {
	Config    *config.Config
	Paths     *config.Paths
	Logger    *slog.Logger
	Telemetry *infrastructure.Telemetry

	validator *validation.FileValidator
}

// Options configures NewApplication
type Options struct {
	// Logger replaces the logger built from Config.Logging
	Logger *slog.Logger
	// Console receives console log output instead of the process stderr
	Console io.Writer
}

// Report is the outcome of a run
type Report struct {
	RunID          string
	Result         *poverty.Result
	Thresholds     *poverty.ThresholdTable
	ThresholdStats poverty.ReshapeStats
	LoadStats      dataprocessing.LoadStats
	// HouseholdTable is the table actually read, the CSV conversion when
	// the configured file is a Stata extract
	HouseholdTable string
	Outputs        map[string]string
	Duration       time.Duration
}

// OutputNames returns the written output kinds in sorted order
func (r *Report) OutputNames() []string {
	names := make([]string, 0, len(r.Outputs))
	for k := range r.Outputs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// NewApplication creates the application for a validated configuration
func NewApplication(cfg *config.Config, opts Options) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logCfg := cfg.Logging
		logCfg.FilePath = paths.LogFile(logCfg.FilePath)
		if opts.Console != nil {
			logger, err = infrastructure.NewLogger(logCfg, opts.Console)
		} else {
			logger, err = infrastructure.InitializeLogger(logCfg)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateOutputDirectory(paths.ReportsDir); err != nil {
		return nil, err
	}

	telCfg := cfg.Telemetry
	if telCfg.TraceFile != "" {
		telCfg.TraceFile = paths.ReportFile(telCfg.TraceFile)
	}
	if telCfg.MetricsFile != "" {
		telCfg.MetricsFile = paths.ReportFile(telCfg.MetricsFile)
	}
	telemetry, err := infrastructure.InitTelemetry(telCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	logger.Info("Application ready",
		slog.String("name", AppName),
		slog.String("version", VERSION),
		slog.String("data_dir", paths.DataDir),
		slog.String("reports_dir", paths.ReportsDir))

	return &Application{
		Config:    cfg,
		Paths:     paths,
		Logger:    logger,
		Telemetry: telemetry,
		validator: validator,
	}, nil
}

// Run executes the full pipeline: load the reference table, load the
// household table, classify, then write every configured output. A fatal
// input error stops the run before classification.
func (a *Application) Run(ctx context.Context) (*Report, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	runID := infrastructure.GetRunID(ctx)
	start := time.Now()

	ctx, span := a.Telemetry.Tracer.Start(ctx, "povrate.run",
		trace.WithAttributes(attribute.String("run.id", runID)))
	defer span.End()

	a.Logger.InfoContext(ctx, "Poverty rate run starting",
		slog.String("households", a.Paths.DataFile(a.Config.Households.File)),
		slog.String("thresholds", a.Paths.DataFile(a.Config.Thresholds.File)))

	report := &Report{RunID: runID, Outputs: make(map[string]string)}

	err := a.stage(ctx, StageLoadThresholds, func(ctx context.Context) error {
		table, stats, err := a.LoadThresholds(ctx)
		report.Thresholds, report.ThresholdStats = table, stats
		return err
	})
	if err != nil {
		return nil, a.fail(ctx, err)
	}

	var records []poverty.HouseholdRecord
	err = a.stage(ctx, StageLoadHouseholds, func(ctx context.Context) error {
		path, err := a.householdTable(ctx)
		if err != nil {
			return err
		}
		report.HouseholdTable = path
		loader := dataprocessing.NewHouseholdLoader(householdColumns(a.Config.Households), a.Logger)
		records, report.LoadStats, err = loader.Load(ctx, path, a.Config.Households.Sheet)
		return err
	})
	if err != nil {
		return nil, a.fail(ctx, err)
	}

	err = a.stage(ctx, StageClassify, func(ctx context.Context) error {
		result, err := poverty.NewClassifier(report.Thresholds, a.Logger).Classify(ctx, records)
		report.Result = result
		return err
	})
	if err != nil {
		return nil, a.fail(ctx, err)
	}
	a.recordResult(ctx, report.Result, len(records))

	err = a.stage(ctx, StageExport, func(ctx context.Context) error {
		return a.export(ctx, report)
	})
	if err != nil {
		return nil, a.fail(ctx, err)
	}

	report.Duration = time.Since(start)
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"households":      len(records),
		"classified":      report.Result.Classified(),
		"excluded":        report.Result.ExcludedTotal(),
		"periods":         len(report.Result.Rates),
		"unresolved_keys": len(report.Result.Unresolved),
	})

	a.Logger.InfoContext(ctx, "Poverty rate run complete",
		slog.Int("periods", len(report.Result.Rates)),
		slog.Int("classified", report.Result.Classified()),
		slog.Int("excluded", report.Result.ExcludedTotal()),
		slog.Any("outputs", report.OutputNames()),
		slog.Duration("duration", report.Duration))

	return report, nil
}

// LoadThresholds reads and reshapes the configured reference table
func (a *Application) LoadThresholds(ctx context.Context) (*poverty.ThresholdTable, poverty.ReshapeStats, error) {
	path := a.Paths.DataFile(a.Config.Thresholds.File)
	if err := a.validator.ValidateTable(path, false); err != nil {
		return nil, poverty.ReshapeStats{}, fmt.Errorf("load thresholds: %w", err)
	}
	loader := dataprocessing.NewReferenceLoader(referenceOptions(a.Config.Thresholds), a.Logger)
	return loader.Load(ctx, path)
}

// householdTable validates the configured household file. A Stata extract
// is first converted to a CSV next to the reports.
func (a *Application) householdTable(ctx context.Context) (string, error) {
	path := a.Paths.DataFile(a.Config.Households.File)
	if err := a.validator.ValidateTable(path, true); err != nil {
		return "", fmt.Errorf("load households: %w", err)
	}
	if !validation.IsStata(path) {
		return path, nil
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	converted := a.Paths.ReportFile(base + ".csv")
	rows, err := convert.StataToCSV(ctx, path, converted, a.Logger)
	if err != nil {
		return "", fmt.Errorf("load households: %w", err)
	}
	a.Logger.InfoContext(ctx, "Converted Stata household file",
		slog.String("source", path),
		slog.String("csv", converted),
		slog.Int("rows", rows))
	return converted, nil
}

// Shutdown flushes telemetry and closes the log file
func (a *Application) Shutdown(ctx context.Context) error {
	err := a.Telemetry.Shutdown(ctx)
	if cerr := infrastructure.CloseLogFile(); err == nil {
		err = cerr
	}
	return err
}

// stage runs fn inside a span and records its duration
func (a *Application) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := a.Telemetry.Tracer.Start(ctx, "povrate."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	a.Telemetry.Metrics.RecordStage(ctx, name, time.Since(start), err)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		return err
	}
	a.Logger.DebugContext(ctx, "Stage complete",
		slog.String("stage", name),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func (a *Application) fail(ctx context.Context, err error) error {
	infrastructure.RecordError(ctx, err)
	a.Logger.ErrorContext(ctx, "Poverty rate run failed",
		slog.String("error", err.Error()),
		slog.String("kind", string(apperrors.KindOf(err))),
		slog.Bool("fatal", apperrors.IsFatal(err)))
	return err
}

func (a *Application) recordResult(ctx context.Context, result *poverty.Result, total int) {
	below := 0
	for _, r := range result.Rates {
		below += r.BelowCount
		a.Telemetry.Metrics.RecordRate(ctx, r.Period, r.Rate)
	}
	excluded := make(map[string]int, len(result.Excluded))
	for kind, n := range result.Excluded {
		excluded[string(kind)] = n
	}
	a.Telemetry.Metrics.RecordHouseholds(ctx, total, below, excluded)
}

// export writes each configured output; an empty file name skips it
func (a *Application) export(ctx context.Context, report *Report) error {
	out := a.Config.Output
	result := report.Result

	if out.Workbook != "" {
		path := a.Paths.ReportFile(out.Workbook)
		if err := exporter.NewWorkbookWriter(a.Logger).Write(path, result); err != nil {
			return err
		}
		report.Outputs["workbook"] = path
	}

	csvWriter := exporter.NewCSVWriter(a.Paths, a.Logger)
	if out.RateCSV != "" {
		path, err := csvWriter.WriteRates(out.RateCSV, result.Rates)
		if err != nil {
			return err
		}
		report.Outputs["rate_csv"] = path
	}

	if out.KeyCSV != "" {
		path, err := csvWriter.WriteKeys(out.KeyCSV, result)
		if err != nil {
			return err
		}
		report.Outputs["key_csv"] = path
	}

	if out.Classifications != "" {
		path, err := csvWriter.WriteClassifications(ctx, out.Classifications, result.Classifications)
		if err != nil {
			return err
		}
		report.Outputs["classifications"] = path
	}

	if out.Chart != "" {
		if len(result.Rates) == 0 {
			a.Logger.WarnContext(ctx, "Skipping rate chart, no period has classified households")
		} else {
			path := a.Paths.ReportFile(out.Chart)
			opts := exporter.DefaultChartOptions()
			opts.Title = chartTitle(a.Config.Households.File)
			if err := exporter.WriteRateChart(path, result.Rates, opts); err != nil {
				return err
			}
			report.Outputs["chart"] = path
		}
	}
	return nil
}

func chartTitle(householdFile string) string {
	base := strings.TrimSuffix(filepath.Base(householdFile), filepath.Ext(householdFile))
	return fmt.Sprintf("Poverty rate by period (%s)", base)
}

func householdColumns(c config.HouseholdConfig) dataprocessing.HouseholdColumns {
	return dataprocessing.HouseholdColumns{
		Period:     c.PeriodColumn,
		FamilySize: c.FamilySizeColumn,
		Children:   c.ChildrenColumn,
		Income:     c.IncomeColumn,
		PriceIndex: c.PriceIndexColumn,
	}
}

func referenceOptions(c config.ThresholdConfig) dataprocessing.ReferenceOptions {
	return dataprocessing.ReferenceOptions{
		Sheet:          c.Sheet,
		Shape:          c.Shape,
		PrimaryType:    c.PrimaryType,
		FamilyColumn:   c.FamilyColumn,
		ChildrenColumn: c.ChildrenColumn,
		TypeColumn:     c.TypeColumn,
		ValueColumn:    c.ValueColumn,
		WideType:       c.WideType,
	}
}

package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/austinm2151/ECON-434-FinalProject/internal/config"
)

const (
	ServiceVersion = "1.0.0"
	MeterName      = "povrate"
)

// Telemetry holds the tracer and meter of one run. A disabled Telemetry
// hands out no-op instruments, so callers never branch on it.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Metrics        *RunMetrics
	Registry       *prometheus.Registry
	Logger         *slog.Logger

	metricsFile string
	traceFile   *os.File
}

// InitTelemetry sets up tracing and metrics for a run. Spans are written to
// cfg.TraceFile when set; metrics are collected in a private Prometheus
// registry and written to cfg.MetricsFile on Shutdown.
func InitTelemetry(cfg config.TelemetryConfig, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = GetLogger()
	}

	if !cfg.Enabled {
		t := &Telemetry{
			Tracer: tracenoop.NewTracerProvider().Tracer(MeterName),
			Meter:  metricnoop.NewMeterProvider().Meter(MeterName),
			Logger: logger,
		}
		metrics, err := NewRunMetrics(t.Meter)
		if err != nil {
			return nil, err
		}
		t.Metrics = metrics
		return t, nil
	}

	ctx := context.Background()
	logger.InfoContext(ctx, "Initializing telemetry",
		slog.String("service", cfg.ServiceName),
		slog.String("trace_file", cfg.TraceFile),
		slog.String("metrics_file", cfg.MetricsFile))

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", ServiceVersion),
	)

	t := &Telemetry{
		Logger:      logger,
		metricsFile: cfg.MetricsFile,
	}

	if err := t.initializeTracing(cfg, res); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := t.initializeMetrics(res); err != nil {
		_ = t.TracerProvider.Shutdown(ctx)
		t.closeTraceFile()
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return t, nil
}

// initializeTracing builds the tracer provider; without a trace file spans
// are still created but not exported
func (t *Telemetry) initializeTracing(cfg config.TelemetryConfig, res *resource.Resource) error {
	opts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}

	if cfg.TraceFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.TraceFile), 0755); err != nil {
			return fmt.Errorf("failed to create trace directory: %w", err)
		}
		f, err := os.Create(cfg.TraceFile)
		if err != nil {
			return fmt.Errorf("failed to create trace file: %w", err)
		}
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(f))
		if err != nil {
			f.Close()
			return fmt.Errorf("failed to create trace exporter: %w", err)
		}
		t.traceFile = f
		opts = append(opts, sdktrace.WithSyncer(exporter))
	}

	t.TracerProvider = sdktrace.NewTracerProvider(opts...)
	t.Tracer = t.TracerProvider.Tracer(MeterName, trace.WithInstrumentationVersion(ServiceVersion))
	return nil
}

// initializeMetrics registers an OpenTelemetry Prometheus reader on a private registry
func (t *Telemetry) initializeMetrics(res *resource.Resource) error {
	t.Registry = prometheus.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(t.Registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	t.MeterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	t.Meter = t.MeterProvider.Meter(MeterName, metric.WithInstrumentationVersion(ServiceVersion))

	metrics, err := NewRunMetrics(t.Meter)
	if err != nil {
		return err
	}
	t.Metrics = metrics
	return nil
}

// Shutdown writes the metrics textfile, then flushes and stops both providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	var errs []error

	if t.Registry != nil && t.metricsFile != "" {
		if err := os.MkdirAll(filepath.Dir(t.metricsFile), 0755); err != nil {
			errs = append(errs, fmt.Errorf("metrics directory: %w", err))
		} else if err := prometheus.WriteToTextfile(t.metricsFile, t.Registry); err != nil {
			errs = append(errs, fmt.Errorf("metrics textfile: %w", err))
		}
	}

	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	t.closeTraceFile()

	if len(errs) > 0 {
		return fmt.Errorf("telemetry shutdown errors: %v", errs)
	}

	if t.MeterProvider != nil {
		t.Logger.InfoContext(ctx, "Telemetry shutdown complete",
			slog.String("metrics_file", t.metricsFile))
	}
	return nil
}

func (t *Telemetry) closeTraceFile() {
	if t.traceFile != nil {
		t.traceFile.Close()
		t.traceFile = nil
	}
}

// RunMetrics holds the instruments recorded by a poverty-rate run
type RunMetrics struct {
	HouseholdsTotal    metric.Int64Counter
	HouseholdsBelow    metric.Int64Counter
	HouseholdsExcluded metric.Int64Counter
	PovertyRate        metric.Float64Gauge
	StageDuration      metric.Float64Histogram
}

// NewRunMetrics creates the run instruments on meter
func NewRunMetrics(meter metric.Meter) (*RunMetrics, error) {
	householdsTotal, err := meter.Int64Counter(
		"povrate_households",
		metric.WithDescription("Household records read from the input table"),
	)
	if err != nil {
		return nil, err
	}

	householdsBelow, err := meter.Int64Counter(
		"povrate_households_below_line",
		metric.WithDescription("Classified households below the poverty line"),
	)
	if err != nil {
		return nil, err
	}

	householdsExcluded, err := meter.Int64Counter(
		"povrate_households_excluded",
		metric.WithDescription("Household records excluded from the rate, by reason"),
	)
	if err != nil {
		return nil, err
	}

	povertyRate, err := meter.Float64Gauge(
		"povrate_poverty_rate",
		metric.WithDescription("Share of classified households below the line, by period"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"povrate_stage_duration_seconds",
		metric.WithDescription("Duration of each pipeline stage in seconds"),
	)
	if err != nil {
		return nil, err
	}

	return &RunMetrics{
		HouseholdsTotal:    householdsTotal,
		HouseholdsBelow:    householdsBelow,
		HouseholdsExcluded: householdsExcluded,
		PovertyRate:        povertyRate,
		StageDuration:      stageDuration,
	}, nil
}

// RecordHouseholds records the record counts of a classification pass
func (m *RunMetrics) RecordHouseholds(ctx context.Context, total, below int, excluded map[string]int) {
	if m == nil {
		return
	}
	m.HouseholdsTotal.Add(ctx, int64(total))
	m.HouseholdsBelow.Add(ctx, int64(below))
	for reason, n := range excluded {
		if n == 0 {
			continue
		}
		m.HouseholdsExcluded.Add(ctx, int64(n), metric.WithAttributes(attribute.String("reason", reason)))
	}
}

// RecordRate records the poverty rate of one period
func (m *RunMetrics) RecordRate(ctx context.Context, period int, rate float64) {
	if m == nil {
		return
	}
	m.PovertyRate.Record(ctx, rate, metric.WithAttributes(attribute.String("period", strconv.Itoa(period))))
}

// RecordStage records how long a pipeline stage took
func (m *RunMetrics) RecordStage(ctx context.Context, stage string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.StageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	))
}

// TraceIDFromContext extracts trace ID from context for logging correlation
func TraceIDFromContext(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// SetSpanAttributes sets attributes on the current span
func SetSpanAttributes(ctx context.Context, attributes map[string]interface{}) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	for k, v := range attributes {
		switch val := v.(type) {
		case string:
			span.SetAttributes(attribute.String(k, val))
		case int:
			span.SetAttributes(attribute.Int(k, val))
		case int64:
			span.SetAttributes(attribute.Int64(k, val))
		case float64:
			span.SetAttributes(attribute.Float64(k, val))
		case bool:
			span.SetAttributes(attribute.Bool(k, val))
		default:
			span.SetAttributes(attribute.String(k, fmt.Sprintf("%v", val)))
		}
	}
}

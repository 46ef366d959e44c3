package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"scoreline/internal/config"
	"scoreline/pkg/contracts"
)

// InstrumentationName names the tracer and meter used across scoreline.
const InstrumentationName = "scoreline"

// Telemetry bundles the tracing and metrics providers. Tracer and Meter are
// never nil; with exporters disabled they are no-ops.
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	// Registry backs the /metrics endpoint. HTTP middleware registers its
	// collectors here too.
	Registry *prometheus.Registry

	logger *slog.Logger
}

// NewTelemetry initializes OpenTelemetry according to cfg.
func NewTelemetry(cfg config.TelemetryConfig, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ctx := context.Background()
	t := &Telemetry{
		Tracer:   tracenoop.NewTracerProvider().Tracer(InstrumentationName),
		Meter:    metricnoop.NewMeterProvider().Meter(InstrumentationName),
		Registry: prometheus.NewRegistry(),
		logger:   logger,
	}

	res, err := createResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	if err := t.initializeTracing(ctx, cfg, res); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if cfg.MetricsEnabled {
		if err := t.initializeMetrics(ctx, res); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.InfoContext(ctx, "Telemetry initialized",
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
		slog.String("trace_exporter", cfg.TraceExporter),
		slog.Bool("metrics_enabled", cfg.MetricsEnabled))

	return t, nil
}

func createResource(cfg config.TelemetryConfig) (*resource.Resource, error) {
	name := cfg.ServiceName
	if name == "" {
		name = InstrumentationName
	}
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(name),
		semconv.ServiceVersion(contracts.Version),
		semconv.DeploymentEnvironmentName(cfg.Environment),
		attribute.String("service.instance.id", generateInstanceID()),
	), nil
}

func (t *Telemetry) initializeTracing(ctx context.Context, cfg config.TelemetryConfig, res *resource.Resource) error {
	var (
		exporter sdktrace.SpanExporter
		err      error
	)

	switch strings.ToLower(cfg.TraceExporter) {
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "", "none":
		return nil
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	)

	t.TracerProvider = tp
	t.Tracer = tp.Tracer(InstrumentationName, trace.WithInstrumentationVersion(contracts.Version))
	otel.SetTracerProvider(tp)

	t.logger.DebugContext(ctx, "Tracing initialized",
		slog.String("exporter", cfg.TraceExporter),
		slog.Float64("sample_ratio", cfg.SampleRatio))
	return nil
}

func (t *Telemetry) initializeMetrics(ctx context.Context, res *resource.Resource) error {
	exporter, err := otelprom.New(otelprom.WithRegisterer(t.Registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	if err := t.Registry.Register(collectors.NewGoCollector()); err != nil {
		return fmt.Errorf("failed to register go collector: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	t.MeterProvider = mp
	t.Meter = mp.Meter(InstrumentationName, metric.WithInstrumentationVersion(contracts.Version))

	t.logger.DebugContext(ctx, "Metrics initialized")
	return nil
}

// MetricsHandler serves the registry in the Prometheus text format.
func (t *Telemetry) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(t.Registry, promhttp.HandlerOpts{Registry: t.Registry})
}

// Shutdown flushes and stops the providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.TracerProvider != nil {
		if err := t.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if t.MeterProvider != nil {
		if err := t.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	t.logger.InfoContext(ctx, "Telemetry shutdown complete")
	return nil
}

// AnalysisMetrics holds the instruments recorded by the analysis service.
type AnalysisMetrics struct {
	AnalysesTotal    metric.Int64Counter
	AnalysisDuration metric.Float64Histogram
	WorkbooksRead    metric.Int64Counter
	StudentsExcluded metric.Int64Counter
}

// NewAnalysisMetrics creates the analysis instruments on meter.
func NewAnalysisMetrics(meter metric.Meter) (*AnalysisMetrics, error) {
	analyses, err := meter.Int64Counter(
		"scoreline_analyses",
		metric.WithDescription("Analyses executed, by operation and outcome"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"scoreline_analysis_duration",
		metric.WithDescription("Analysis duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	workbooks, err := meter.Int64Counter(
		"scoreline_workbooks_read",
		metric.WithDescription("Workbooks opened, by kind"),
	)
	if err != nil {
		return nil, err
	}

	excluded, err := meter.Int64Counter(
		"scoreline_students_excluded",
		metric.WithDescription("Students left out of class assessment"),
	)
	if err != nil {
		return nil, err
	}

	return &AnalysisMetrics{
		AnalysesTotal:    analyses,
		AnalysisDuration: duration,
		WorkbooksRead:    workbooks,
		StudentsExcluded: excluded,
	}, nil
}

// RecordAnalysis records one analysis run.
func (m *AnalysisMetrics) RecordAnalysis(ctx context.Context, operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}

	outcome := "success"
	if err != nil {
		outcome = "error"
	}

	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	)
	m.AnalysesTotal.Add(ctx, 1, attrs)
	m.AnalysisDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordWorkbook counts a workbook read of the given kind.
func (m *AnalysisMetrics) RecordWorkbook(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.WorkbooksRead.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordExcluded counts students excluded from an assessment.
func (m *AnalysisMetrics) RecordExcluded(ctx context.Context, n int) {
	if m == nil || n == 0 {
		return
	}
	m.StudentsExcluded.Add(ctx, int64(n))
}

// generateInstanceID generates a unique instance identifier
func generateInstanceID() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s-%d", hostname, time.Now().Unix())
}

// RecordError records an error on the current span
func RecordError(ctx context.Context, err error, options ...trace.EventOption) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.RecordError(err, options...)
	span.SetStatus(codes.Error, err.Error())
}

// AddSpanEvent adds an event to the current span
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Trace exporters selectable through OTEL_TRACES_EXPORTER.
const (
	ExporterOTLP   = "otlp"
	ExporterStdout = "stdout"
	ExporterNone   = "none"
)

// Settings describes one repair shop process to the telemetry backends.
type Settings struct {
	Service string
	// Component is "api" or "worker"; both share the repairshop namespace.
	Component     string
	Version       string
	Environment   string
	TraceExporter string
	OTLPEndpoint  string
	OTLPInsecure  bool
	LogLevel      slog.Level
	TextLogs      bool
	LogOutput     io.Writer
}

// SettingsFromEnv reads LOG_LEVEL, LOG_FORMAT, ENVIRONMENT, SERVICE_VERSION
// and the standard OTEL_* variables.
func SettingsFromEnv(service, component string) Settings {
	return Settings{
		Service:       service,
		Component:     component,
		Version:       envOrDefault("SERVICE_VERSION", "dev"),
		Environment:   envOrDefault("ENVIRONMENT", "local"),
		TraceExporter: strings.ToLower(envOrDefault("OTEL_TRACES_EXPORTER", ExporterOTLP)),
		OTLPEndpoint:  strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTLPInsecure:  os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") != "0",
		LogLevel:      parseLevel(os.Getenv("LOG_LEVEL")),
		TextLogs:      strings.EqualFold(strings.TrimSpace(os.Getenv("LOG_FORMAT")), "text"),
		LogOutput:     os.Stdout,
	}
}

// Instruments bundles the runtime-wide observability dependencies.
type Instruments struct {
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	// MetricReader is collected on demand; the totals are logged at shutdown.
	MetricReader *sdkmetric.ManualReader
}

// Init installs the global logger, tracer provider and meter provider. The
// returned shutdown logs the metric totals and flushes pending spans.
func Init(ctx context.Context, settings Settings) (*Instruments, func(context.Context) error, error) {
	logger := newLogger(settings)

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithTelemetrySDK(),
		resource.WithHost(),
		resource.WithAttributes(resourceAttributes(settings)...),
	)
	if err != nil {
		return nil, nil, err
	}

	traceOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	spanExporter, err := newSpanExporter(ctx, settings, logger)
	if err != nil {
		return nil, nil, err
	}
	if spanExporter != nil {
		traceOpts = append(traceOpts, sdktrace.WithBatcher(spanExporter))
	}
	tracerProvider := sdktrace.NewTracerProvider(traceOpts...)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	reader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(meterProvider)

	instruments := &Instruments{
		Logger:         logger,
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
		MetricReader:   reader,
	}

	shutdown := func(ctx context.Context) error {
		instruments.LogMetricTotals(ctx)
		return errors.Join(meterProvider.Shutdown(ctx), tracerProvider.Shutdown(ctx))
	}
	return instruments, shutdown, nil
}

func resourceAttributes(s Settings) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("service.name", s.Service),
		attribute.String("service.namespace", "repairshop"),
		attribute.String("service.version", s.Version),
		attribute.String("deployment.environment", s.Environment),
	}
	if s.Component != "" {
		attrs = append(attrs, attribute.String("repairshop.component", s.Component))
	}
	return attrs
}

// Tracer returns a named tracer from the configured provider.
func (i *Instruments) Tracer(name string) trace.Tracer {
	if i == nil || i.TracerProvider == nil {
		return otel.Tracer(name)
	}
	return i.TracerProvider.Tracer(name)
}

// Meter returns a named meter from the configured provider.
func (i *Instruments) Meter(name string) metric.Meter {
	if i == nil || i.MeterProvider == nil {
		return metricnoop.NewMeterProvider().Meter(name)
	}
	return i.MeterProvider.Meter(name)
}

// LogMetricTotals collects the reader once and logs every integer counter
// total, e.g. serviceorders.service.calls or notifications.purged.
func (i *Instruments) LogMetricTotals(ctx context.Context) {
	if i == nil || i.MetricReader == nil || i.Logger == nil {
		return
	}
	var rm metricdata.ResourceMetrics
	if err := i.MetricReader.Collect(ctx, &rm); err != nil {
		i.Logger.WarnContext(ctx, "metric collection failed", slog.String("error", err.Error()))
		return
	}
	totals := counterTotals(rm)
	if len(totals) == 0 {
		return
	}
	i.Logger.LogAttrs(ctx, slog.LevelInfo, "metric totals", totals...)
}

func counterTotals(rm metricdata.ResourceMetrics) []slog.Attr {
	var attrs []slog.Attr
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			attrs = append(attrs, slog.Int64(m.Name, total))
		}
	}
	return attrs
}

func newLogger(s Settings) *slog.Logger {
	out := s.LogOutput
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: s.LogLevel, AddSource: true}
	var handler slog.Handler = slog.NewJSONHandler(out, opts)
	if s.TextLogs {
		handler = slog.NewTextHandler(out, opts)
	}
	logger := slog.New(handler).With(slog.String("component", s.Component))
	slog.SetDefault(logger)
	return logger
}

// parseLevel maps LOG_LEVEL to a slog level, defaulting to info.
func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newSpanExporter returns nil for ExporterNone. OTLP failures fall back to stdout.
func newSpanExporter(ctx context.Context, s Settings, logger *slog.Logger) (sdktrace.SpanExporter, error) {
	switch s.TraceExporter {
	case ExporterNone:
		return nil, nil
	case ExporterStdout:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	var opts []otlptracehttp.Option
	if s.OTLPEndpoint != "" {
		opts = append(opts, otlptracehttp.WithEndpoint(s.OTLPEndpoint))
	}
	if s.OTLPInsecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err == nil {
		return exporter, nil
	}
	logger.Warn("failed to initialize OTLP trace exporter, falling back to stdout", slog.String("error", err.Error()))
	return stdouttrace.New(stdouttrace.WithPrettyPrint())
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

package infra

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/tnqbao/gau-stream-overlay/config"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// LoggerClient fans structured logs out to stdout and, when an OTLP endpoint
// is configured, to Grafana through the otelslog bridge. It also owns the
// trace and metric providers so telemetry shares one shutdown path.
type LoggerClient struct {
	slogger        *slog.Logger
	loggerProvider *sdklog.LoggerProvider
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

func InitLoggerClient(cfg *config.EnvConfig) *LoggerClient {
	ctx := context.Background()

	client := &LoggerClient{}
	handlers := []slog.Handler{slog.NewTextHandler(os.Stdout, nil)}

	if cfg.Grafana.OTLPEndpoint != "" {
		res, err := resource.Merge(
			resource.Default(),
			resource.NewWithAttributes(
				semconv.SchemaURL,
				semconv.ServiceName(cfg.Grafana.ServiceName),
				attribute.String("deployment.environment", cfg.Environment.Mode),
				attribute.String("service.group", cfg.Environment.Group),
			),
		)
		if err != nil {
			log.Fatalf("Telemetry resource setup failed: %v", err)
		}

		logOptions := []otlploghttp.Option{otlploghttp.WithEndpoint(cfg.Grafana.OTLPEndpoint)}
		traceOptions := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Grafana.OTLPEndpoint)}
		metricOptions := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Grafana.OTLPEndpoint)}
		if cfg.Grafana.Insecure {
			logOptions = append(logOptions, otlploghttp.WithInsecure())
			traceOptions = append(traceOptions, otlptracehttp.WithInsecure())
			metricOptions = append(metricOptions, otlpmetrichttp.WithInsecure())
		}

		logExporter, err := otlploghttp.New(ctx, logOptions...)
		if err != nil {
			log.Fatalf("OTLP log exporter setup failed: %v", err)
		}
		client.loggerProvider = sdklog.NewLoggerProvider(
			sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
			sdklog.WithResource(res),
		)
		global.SetLoggerProvider(client.loggerProvider)
		handlers = append(handlers, otelslog.NewHandler(
			cfg.Grafana.ServiceName,
			otelslog.WithLoggerProvider(client.loggerProvider),
		))

		traceExporter, err := otlptrace.New(ctx, otlptracehttp.NewClient(traceOptions...))
		if err != nil {
			log.Fatalf("OTLP trace exporter setup failed: %v", err)
		}
		client.tracerProvider = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(traceExporter),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(client.tracerProvider)

		metricExporter, err := otlpmetrichttp.New(ctx, metricOptions...)
		if err != nil {
			log.Fatalf("OTLP metric exporter setup failed: %v", err)
		}
		client.meterProvider = sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
			sdkmetric.WithResource(res),
		)
		otel.SetMeterProvider(client.meterProvider)

		if err := runtime.Start(runtime.WithMeterProvider(client.meterProvider)); err != nil {
			log.Printf("Warning: runtime instrumentation failed to start: %v", err)
		}

		log.Println("Telemetry exporting to OTLP endpoint:", cfg.Grafana.OTLPEndpoint)
	} else {
		log.Println("No OTLP endpoint configured, logging to stdout only")
	}

	client.slogger = slog.New(newFanoutHandler(handlers...))
	return client
}

func (l *LoggerClient) InfoWithContextf(ctx context.Context, format string, args ...interface{}) {
	l.slogger.LogAttrs(ctx, slog.LevelInfo, fmt.Sprintf(format, args...), traceAttrs(ctx)...)
}

func (l *LoggerClient) WarningWithContextf(ctx context.Context, format string, args ...interface{}) {
	l.slogger.LogAttrs(ctx, slog.LevelWarn, fmt.Sprintf(format, args...), traceAttrs(ctx)...)
}

func (l *LoggerClient) ErrorWithContextf(ctx context.Context, err error, format string, args ...interface{}) {
	attrs := traceAttrs(ctx)
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	l.slogger.LogAttrs(ctx, slog.LevelError, fmt.Sprintf(format, args...), attrs...)
}

// Shutdown flushes buffered telemetry. Call it on process exit.
func (l *LoggerClient) Shutdown(ctx context.Context) {
	if l.loggerProvider != nil {
		_ = l.loggerProvider.Shutdown(ctx)
	}
	if l.tracerProvider != nil {
		_ = l.tracerProvider.Shutdown(ctx)
	}
	if l.meterProvider != nil {
		_ = l.meterProvider.Shutdown(ctx)
	}
}

func traceAttrs(ctx context.Context) []slog.Attr {
	spanContext := trace.SpanContextFromContext(ctx)
	if !spanContext.IsValid() {
		return nil
	}
	return []slog.Attr{
		slog.String("trace_id", spanContext.TraceID().String()),
		slog.String("span_id", spanContext.SpanID().String()),
	}
}

// fanoutHandler forwards every record to all underlying handlers.
type fanoutHandler struct {
	handlers []slog.Handler
}

func newFanoutHandler(handlers ...slog.Handler) *fanoutHandler {
	return &fanoutHandler{handlers: handlers}
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: next}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithGroup(name)
	}
	return &fanoutHandler{handlers: next}
}

// Package telemetry wires OpenTelemetry tracing and log export and dumps
// Prometheus metrics for batch runs.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/amp-labs/name-sorter/envutil"
	"github.com/amp-labs/name-sorter/logger"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

const (
	defaultServiceName    = "namesort"
	defaultServiceVersion = "dev"
	defaultEnvironment    = "local"
	defaultTimeout        = 5 * time.Second
)

var (
	mut            sync.Mutex               //nolint:gochecknoglobals
	tracerProvider *sdktrace.TracerProvider //nolint:gochecknoglobals
	loggerProvider *sdklog.LoggerProvider   //nolint:gochecknoglobals
)

// Config holds the OpenTelemetry configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Endpoint       string
	Enabled        bool
	Timeout        time.Duration
}

// LoadConfigFromEnv loads OpenTelemetry configuration from environment variables.
func LoadConfigFromEnv(ctx context.Context) (*Config, error) {
	enabled, err := envutil.Bool(ctx, "OTEL_ENABLED", envutil.Default(false)).Value()
	if err != nil {
		return nil, err
	}

	serviceName := logger.GetSubsystem(ctx)
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	svcName, err := envutil.String(ctx, "OTEL_SERVICE_NAME", envutil.Default(serviceName)).Value()
	if err != nil {
		return nil, err
	}

	svcVersion, err := envutil.String(ctx, "OTEL_SERVICE_VERSION",
		envutil.Default(defaultServiceVersion)).
		Value()
	if err != nil {
		return nil, err
	}

	environment, err := envutil.String(ctx, "DEPLOYMENT_ENVIRONMENT",
		envutil.Default(defaultEnvironment)).
		Value()
	if err != nil {
		return nil, err
	}

	endpoint, err := envutil.String(ctx, "OTEL_EXPORTER_OTLP_ENDPOINT", envutil.Default("")).Value()
	if err != nil {
		return nil, err
	}

	timeout, err := envutil.Duration(ctx, "OTEL_EXPORTER_OTLP_TIMEOUT",
		envutil.Default(defaultTimeout)).
		Value()
	if err != nil {
		return nil, err
	}

	return &Config{
		ServiceName:    svcName,
		ServiceVersion: svcVersion,
		Environment:    environment,
		Endpoint:       endpoint,
		Enabled:        enabled,
		Timeout:        timeout,
	}, nil
}

// Initialize installs OTLP/HTTP trace and log exporters as the global
// providers. The returned handler forwards slog records to the log
// exporter; hand it to logger.WithExtraHandler. When telemetry is disabled
// or no endpoint is configured, Initialize does nothing and returns a nil
// handler.
func Initialize(ctx context.Context, config *Config) (slog.Handler, error) {
	log := logger.Get(ctx)

	if !config.Enabled {
		log.Debug("OpenTelemetry is disabled")

		return nil, nil //nolint:nilnil
	}

	if config.Endpoint == "" {
		log.Warn("OpenTelemetry endpoint not configured, telemetry will be disabled")

		return nil, nil //nolint:nilnil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
			semconv.ServiceVersionKey.String(config.ServiceVersion),
			semconv.DeploymentEnvironmentKey.String(config.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	traceExporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(config.Endpoint),
		otlptracehttp.WithTimeout(config.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	logExporter, err := otlploghttp.New(ctx,
		otlploghttp.WithEndpointURL(config.Endpoint),
		otlploghttp.WithTimeout(config.Timeout),
	)
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("failed to create OTLP log exporter: %w", err),
			traceExporter.Shutdown(ctx))
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	lp := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		sdklog.WithResource(res),
	)

	mut.Lock()
	tracerProvider = tp
	loggerProvider = lp
	mut.Unlock()

	otel.SetTracerProvider(tp)
	global.SetLoggerProvider(lp)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.Info("OpenTelemetry initialized",
		"service", config.ServiceName,
		"version", config.ServiceVersion,
		"environment", config.Environment,
		"endpoint", config.Endpoint,
	)

	return otelslog.NewHandler(config.ServiceName, otelslog.WithLoggerProvider(lp)), nil
}

// Shutdown flushes and stops the providers installed by Initialize.
func Shutdown(ctx context.Context) error {
	mut.Lock()
	tp, lp := tracerProvider, loggerProvider
	tracerProvider, loggerProvider = nil, nil
	mut.Unlock()

	var errs []error

	if tp != nil {
		if err := tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider: %w", err))
		}
	}

	if lp != nil {
		if err := lp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("logger provider: %w", err))
		}
	}

	return errors.Join(errs...)
}

// WriteMetrics writes every metric in the default Prometheus registry to
// path in the text exposition format, for pickup by a textfile collector.
func WriteMetrics(path string) error {
	return writeMetrics(path, prometheus.DefaultGatherer)
}

func writeMetrics(path string, gatherer prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, gatherer); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}

	return nil
}

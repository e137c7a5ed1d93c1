// Package telemetry sets up OpenTelemetry metrics and tracing. Without an OTLP
// endpoint, instruments are still created but nothing is exported.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const meterName = "videoquiz/ai-services"

// Config configures exporters.
type Config struct {
	ServiceName    string
	ServiceVersion string
	// Endpoint is the OTLP/HTTP collector, e.g. "http://localhost:4318".
	// Empty disables export.
	Endpoint       string
	ExportInterval time.Duration
}

// Providers owns the meter and tracer providers installed as otel globals.
type Providers struct {
	Meter  *sdkmetric.MeterProvider
	Tracer *sdktrace.TracerProvider
}

// Init builds the providers, installs them globally and returns them for shutdown.
func Init(ctx context.Context, cfg Config, log *logrus.Logger) (*Providers, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("service.version", cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	meterOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	traceOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}

	if cfg.Endpoint != "" {
		host, insecure, err := splitEndpoint(cfg.Endpoint)
		if err != nil {
			return nil, err
		}

		metricExpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(host)}
		traceExpOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(host)}
		if insecure {
			metricExpOpts = append(metricExpOpts, otlpmetrichttp.WithInsecure())
			traceExpOpts = append(traceExpOpts, otlptracehttp.WithInsecure())
		}

		metricExp, err := otlpmetrichttp.New(ctx, metricExpOpts...)
		if err != nil {
			return nil, fmt.Errorf("creating metric exporter: %w", err)
		}
		traceExp, err := otlptracehttp.New(ctx, traceExpOpts...)
		if err != nil {
			return nil, fmt.Errorf("creating trace exporter: %w", err)
		}

		var readerOpts []sdkmetric.PeriodicReaderOption
		if cfg.ExportInterval > 0 {
			readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.ExportInterval))
		}
		meterOpts = append(meterOpts, sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp, readerOpts...)))
		traceOpts = append(traceOpts, sdktrace.WithBatcher(traceExp))
	}

	p := &Providers{
		Meter:  sdkmetric.NewMeterProvider(meterOpts...),
		Tracer: sdktrace.NewTracerProvider(traceOpts...),
	}
	otel.SetMeterProvider(p.Meter)
	otel.SetTracerProvider(p.Tracer)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	log.WithFields(logrus.Fields{
		"service":  cfg.ServiceName,
		"endpoint": cfg.Endpoint,
		"export":   cfg.Endpoint != "",
	}).Info("Telemetry initialized")
	return p, nil
}

// AppMeter returns the service meter from p.
func (p *Providers) AppMeter() metric.Meter {
	return p.Meter.Meter(meterName)
}

// Shutdown flushes and stops both providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	return errors.Join(p.Meter.Shutdown(ctx), p.Tracer.Shutdown(ctx))
}

// splitEndpoint accepts "host:port" or a URL and returns host:port and whether
// plain HTTP should be used.
func splitEndpoint(endpoint string) (string, bool, error) {
	if !strings.Contains(endpoint, "://") {
		return endpoint, true, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("invalid OTLP endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("invalid OTLP endpoint %q: missing host", endpoint)
	}
	return u.Host, u.Scheme != "https", nil
}

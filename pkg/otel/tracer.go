package otel

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

var (
	mu       sync.Mutex
	provider *sdktrace.TracerProvider
)

// InitTracer installs the W3C propagators and the global tracer provider.
// Without an enabled endpoint the provider is a noop, and Shutdown and
// ForceFlush have nothing to do.
func InitTracer(cfg Config) (trace.Tracer, error) {
	mu.Lock()
	defer mu.Unlock()

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !cfg.Enabled || cfg.EndpointURL == "" {
		tp := noop.NewTracerProvider()
		otel.SetTracerProvider(tp)
		return tp.Tracer(cfg.ServiceName), nil
	}

	ctx := context.Background()

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(cfg.toResourceAttributes()...))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(samplerFor(cfg.SampleRatio)),
	)
	otel.SetTracerProvider(tp)
	provider = tp

	return tp.Tracer(cfg.ServiceName, trace.WithInstrumentationVersion(cfg.ServiceVersion)), nil
}

// samplerFor honours the caller's sampling decision for fractional ratios,
// so a request sampled upstream keeps its spans here.
func samplerFor(ratio float64) sdktrace.Sampler {
	switch {
	case ratio <= 0:
		return sdktrace.NeverSample()
	case ratio >= 1:
		return sdktrace.AlwaysSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

// newExporter selects the OTLP transport by scheme: grpc://host:port or an
// http(s) collector URL.
func newExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	endpoint, err := url.Parse(cfg.EndpointURL)
	if err != nil {
		return nil, fmt.Errorf("invalid tracing endpoint: %w", err)
	}

	var exporter sdktrace.SpanExporter
	switch endpoint.Scheme {
	case "grpc":
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(endpoint.Host)}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exporter, err = otlptracegrpc.New(ctx, opts...)
	case "http", "https":
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpointURL(cfg.EndpointURL)}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exporter, err = otlptracehttp.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unsupported tracing endpoint scheme %q", endpoint.Scheme)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP %s exporter: %w", endpoint.Scheme, err)
	}

	return exporter, nil
}

// Shutdown flushes and stops the installed provider. It is safe to call
// when tracing was never enabled.
func Shutdown(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	if provider == nil {
		return nil
	}

	err := provider.Shutdown(ctx)
	provider = nil
	if err != nil {
		return fmt.Errorf("failed to shutdown tracer provider: %w", err)
	}
	return nil
}

// ForceFlush exports buffered spans. Short-lived invocations call it before
// returning, since the runtime may freeze the process right after.
func ForceFlush(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()

	if provider == nil {
		return nil
	}

	if err := provider.ForceFlush(ctx); err != nil {
		return fmt.Errorf("failed to flush tracer provider: %w", err)
	}
	return nil
}

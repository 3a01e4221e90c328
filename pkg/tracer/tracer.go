package tracer

import (
	"context"
	"sync"

	"github.com/astro-web3/metabase-embed/pkg/otel"
	otelglobal "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/astro-web3/metabase-embed"

var (
	defaultTracer trace.Tracer
	initOnce      sync.Once
	errInit       error
)

// InitTracer configures the package tracer once; later calls return the
// result of the first.
func InitTracer(cfg otel.Config) error {
	initOnce.Do(func() {
		t, err := otel.InitTracer(cfg)
		if err != nil {
			errInit = err
			return
		}

		defaultTracer = t
	})

	return errInit
}

// Start opens a span. Before InitTracer it uses whatever provider is
// installed globally, which is a noop unless someone set one.
func Start(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if defaultTracer == nil {
		return otelglobal.Tracer(instrumentationName).Start(ctx, spanName, opts...)
	}

	return defaultTracer.Start(ctx, spanName, opts...)
}

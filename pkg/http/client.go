package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/astro-web3/metabase-embed/pkg/tracer"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultTimeout = 30 * time.Second
	DefaultRetry   = 2
)

var (
	//nolint:gochecknoglobals // one client per process
	client *resty.Client
	//nolint:gochecknoglobals // guards client
	once sync.Once
)

func getClient() *resty.Client {
	once.Do(func() {
		client = resty.New().
			SetTimeout(DefaultTimeout).
			SetRetryCount(DefaultRetry).
			SetRedirectPolicy(resty.NoRedirectPolicy())
	})
	return client
}

type RequestOption func(*resty.Request)

func WithQueryParam(key, value string) RequestOption {
	return func(r *resty.Request) {
		r.SetQueryParam(key, value)
	}
}

// Get issues a traced GET. The span context of the call is injected into
// the request headers with the global propagator, so the server side joins
// the caller's trace.
func Get(ctx context.Context, url string, opts ...RequestOption) (*resty.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, span := tracer.Start(ctx, "http.Get", trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(
		attribute.String("http.method", http.MethodGet),
		attribute.String("http.url", url),
	))
	defer span.End()

	request := getClient().R().SetContext(ctx)
	for _, opt := range opts {
		opt(request)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(request.Header))

	resp, err := request.Get(url)
	recordSpan(span, resp, err)
	return resp, err
}

func recordSpan(span trace.Span, resp *resty.Response, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	if resp == nil {
		return
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))
	if resp.IsError() {
		span.SetStatus(codes.Error, resp.Status())
		return
	}
	span.SetStatus(codes.Ok, "")
}

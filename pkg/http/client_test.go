package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	httpclient "github.com/astro-web3/metabase-embed/pkg/http"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestGet_SendsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("dashboard") != "42" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("https://example.com/embed/dashboard/a.b.c"))
	}))
	defer srv.Close()

	resp, err := httpclient.Get(context.Background(), srv.URL, httpclient.WithQueryParam("dashboard", "42"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode())
	}
	if resp.String() != "https://example.com/embed/dashboard/a.b.c" {
		t.Errorf("unexpected body: %s", resp.String())
	}
}

func TestGet_PropagatesTraceContext(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("traceparent")
	}))
	defer srv.Close()

	ctx, parent := tp.Tracer("test").Start(context.Background(), "parent")
	defer parent.End()

	if _, err := httpclient.Get(ctx, srv.URL); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 00-<trace id>-<span id>-<flags>
	if len(got) != 55 {
		t.Fatalf("expected traceparent header, got %q", got)
	}
	if traceID := parent.SpanContext().TraceID().String(); got[3:35] != traceID {
		t.Errorf("expected trace id %s, got header %q", traceID, got)
	}
	if got[36:52] == parent.SpanContext().SpanID().String() {
		t.Error("expected the client span, not the parent, as the remote parent")
	}
}

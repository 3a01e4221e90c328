package rpc_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/astro-web3/metabase-embed/internal/domain/embed"
	"github.com/astro-web3/metabase-embed/internal/transport/rpc"
	"google.golang.org/protobuf/types/known/structpb"
)

type mockAppService struct {
	issueLinkFunc func(ctx context.Context, raw string, present bool) (*embed.Link, error)
}

func (m *mockAppService) IssueLink(ctx context.Context, raw string, present bool) (*embed.Link, error) {
	return m.issueLinkFunc(ctx, raw, present)
}

func newTestServer(t *testing.T, svc *mockAppService) *httptest.Server {
	t.Helper()

	path, handler := rpc.NewHandler(svc)
	mux := http.NewServeMux()
	mux.Handle(path, handler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, svc *mockAppService, opts ...connect.ClientOption) *connect.Client[structpb.Struct, structpb.Struct] {
	t.Helper()

	srv := newTestServer(t, svc)
	return connect.NewClient[structpb.Struct, structpb.Struct](
		srv.Client(),
		srv.URL+rpc.IssueLinkProcedure,
		opts...,
	)
}

func dashboardRequest(t *testing.T, value any) *connect.Request[structpb.Struct] {
	t.Helper()

	msg, err := structpb.NewStruct(map[string]any{"dashboard": value})
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	return connect.NewRequest(msg)
}

func TestIssueLink_Success(t *testing.T) {
	expiresAt := time.Unix(1700000600, 0)
	svc := &mockAppService{
		issueLinkFunc: func(_ context.Context, raw string, present bool) (*embed.Link, error) {
			if !present || raw != "42" {
				t.Errorf("expected dashboard 42, got present=%v raw=%q", present, raw)
			}
			return &embed.Link{
				URL:       "https://example.com/embed/dashboard/a.b.c#bordered=true&titled=true",
				Token:     "a.b.c",
				ExpiresAt: expiresAt,
			}, nil
		},
	}

	for name, opts := range map[string][]connect.ClientOption{
		"proto": nil,
		"json":  {connect.WithProtoJSON()},
	} {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, svc, opts...)

			resp, err := client.CallUnary(context.Background(), dashboardRequest(t, "42"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			fields := resp.Msg.GetFields()
			if got := fields[rpc.FieldToken].GetStringValue(); got != "a.b.c" {
				t.Errorf("expected token a.b.c, got %q", got)
			}
			if got := fields[rpc.FieldURL].GetStringValue(); !strings.HasSuffix(got, "#bordered=true&titled=true") {
				t.Errorf("unexpected url: %s", got)
			}
			if got := int64(fields[rpc.FieldExpiresAt].GetNumberValue()); got != expiresAt.Unix() {
				t.Errorf("expected expires_at %d, got %d", expiresAt.Unix(), got)
			}
		})
	}
}

func TestIssueLink_NumericDashboard(t *testing.T) {
	var gotRaw string
	client := newTestClient(t, &mockAppService{
		issueLinkFunc: func(_ context.Context, raw string, _ bool) (*embed.Link, error) {
			gotRaw = raw
			return &embed.Link{URL: "https://example.com/x", Token: "t", ExpiresAt: time.Unix(0, 0)}, nil
		},
	})

	if _, err := client.CallUnary(context.Background(), dashboardRequest(t, 7)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotRaw != "7" {
		t.Errorf("expected raw 7, got %q", gotRaw)
	}
}

func TestIssueLink_PlainJSONRequest(t *testing.T) {
	srv := newTestServer(t, &mockAppService{
		issueLinkFunc: func(context.Context, string, bool) (*embed.Link, error) {
			return &embed.Link{URL: "https://example.com/x", Token: "t", ExpiresAt: time.Unix(1700000600, 0)}, nil
		},
	})

	resp, err := srv.Client().Post(srv.URL+rpc.IssueLinkProcedure, "application/json", strings.NewReader(`{"dashboard":"42"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected status 200, got %d: %s", resp.StatusCode, body)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["url"] != "https://example.com/x" || body["token"] != "t" {
		t.Errorf("unexpected response: %v", body)
	}
	if body["expires_at"] != float64(1700000600) {
		t.Errorf("expected expires_at 1700000600, got %v", body["expires_at"])
	}
}

func TestIssueLink_MissingDashboard(t *testing.T) {
	client := newTestClient(t, &mockAppService{
		issueLinkFunc: func(_ context.Context, _ string, present bool) (*embed.Link, error) {
			if present {
				t.Error("expected dashboard to be absent")
			}
			return nil, embed.ErrMissingParameter
		},
	})

	_, err := client.CallUnary(context.Background(), connect.NewRequest(&structpb.Struct{}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestIssueLink_UnsupportedKind(t *testing.T) {
	var gotRaw string
	var gotPresent bool
	client := newTestClient(t, &mockAppService{
		issueLinkFunc: func(_ context.Context, raw string, present bool) (*embed.Link, error) {
			gotRaw, gotPresent = raw, present
			return nil, embed.ErrInvalidParameter
		},
	})

	_, err := client.CallUnary(context.Background(), dashboardRequest(t, true))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
	if !gotPresent || gotRaw != "" {
		t.Errorf("expected present empty value, got present=%v raw=%q", gotPresent, gotRaw)
	}
}

func TestIssueLink_ErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want connect.Code
	}{
		{name: "invalid", err: embed.ErrInvalidParameter, want: connect.CodeInvalidArgument},
		{name: "denied", err: embed.ErrDashboardNotAllowed, want: connect.CodePermissionDenied},
		{name: "signing", err: embed.ErrSigning, want: connect.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, &mockAppService{
				issueLinkFunc: func(context.Context, string, bool) (*embed.Link, error) {
					return nil, tt.err
				},
			})

			_, err := client.CallUnary(context.Background(), dashboardRequest(t, "1"))
			if connect.CodeOf(err) != tt.want {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestIssueLink_InternalErrorIsGeneric(t *testing.T) {
	client := newTestClient(t, &mockAppService{
		issueLinkFunc: func(context.Context, string, bool) (*embed.Link, error) {
			return nil, embed.ErrSigning
		},
	})

	_, err := client.CallUnary(context.Background(), dashboardRequest(t, "1"))
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		t.Fatalf("expected connect error, got %v", err)
	}
	if strings.Contains(connectErr.Message(), embed.ErrSigning.Error()) {
		t.Errorf("expected generic message, got %q", connectErr.Message())
	}
}

func TestIssueLink_PanicRecovered(t *testing.T) {
	client := newTestClient(t, &mockAppService{
		issueLinkFunc: func(context.Context, string, bool) (*embed.Link, error) {
			panic("boom")
		},
	})

	_, err := client.CallUnary(context.Background(), dashboardRequest(t, "1"))
	if connect.CodeOf(err) != connect.CodeInternal {
		t.Fatalf("expected Internal, got %v", err)
	}
}

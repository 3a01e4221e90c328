package rpc

import (
	"context"
	"errors"
	"strconv"

	"connectrpc.com/connect"
	"github.com/astro-web3/metabase-embed/internal/app/embed"
	domainembed "github.com/astro-web3/metabase-embed/internal/domain/embed"
	"github.com/astro-web3/metabase-embed/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
	"google.golang.org/protobuf/types/known/structpb"
)

const IssueLinkProcedure = "/embed.v1.EmbedService/IssueLink"

// Response field names of IssueLink.
const (
	FieldURL       = "url"
	FieldToken     = "token"
	FieldExpiresAt = "expires_at"
)

type Handler struct {
	appService embed.Service
}

// IssueLink takes {"dashboard": "42"} and answers with the link, its token
// and the expiry in Unix seconds. Messages are google.protobuf.Struct, so
// both the proto and JSON codecs of connect apply.
func (h *Handler) IssueLink(
	ctx context.Context,
	req *connect.Request[structpb.Struct],
) (*connect.Response[structpb.Struct], error) {
	ctx, span := tracer.Start(ctx, "transport.rpc.IssueLink")
	defer span.End()

	raw, present := dashboardField(req.Msg)

	link, err := h.appService.IssueLink(ctx, raw, present)
	if err != nil {
		code := codeForError(err)
		span.SetAttributes(attribute.String("rpc.connect.code", code.String()))
		if code == connect.CodeInternal {
			return nil, connect.NewError(code, errors.New(embed.InternalErrorMessage))
		}
		return nil, connect.NewError(code, err)
	}

	msg, err := structpb.NewStruct(map[string]any{
		FieldURL:       link.URL,
		FieldToken:     link.Token,
		FieldExpiresAt: link.ExpiresAt.Unix(),
	})
	if err != nil {
		span.RecordError(err)
		return nil, connect.NewError(connect.CodeInternal, errors.New(embed.InternalErrorMessage))
	}

	return connect.NewResponse(msg), nil
}

// dashboardField accepts the identifier as a string or a JSON number. Any
// other kind is passed on as an empty value and rejected as invalid.
func dashboardField(msg *structpb.Struct) (string, bool) {
	value, ok := msg.GetFields()[domainembed.DashboardParam]
	if !ok {
		return "", false
	}

	switch kind := value.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue, true
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64), true
	default:
		return "", true
	}
}

func codeForError(err error) connect.Code {
	switch {
	case errors.Is(err, domainembed.ErrMissingParameter),
		errors.Is(err, domainembed.ErrInvalidParameter):
		return connect.CodeInvalidArgument
	case errors.Is(err, domainembed.ErrDashboardNotAllowed):
		return connect.CodePermissionDenied
	default:
		return connect.CodeInternal
	}
}

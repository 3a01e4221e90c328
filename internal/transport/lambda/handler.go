package lambda

import (
	"context"
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/astro-web3/metabase-embed/internal/app/embed"
	domainembed "github.com/astro-web3/metabase-embed/internal/domain/embed"
	"github.com/astro-web3/metabase-embed/pkg/logger"
	"github.com/astro-web3/metabase-embed/pkg/tracer"
	"github.com/aws/aws-lambda-go/events"
	"go.opentelemetry.io/otel/attribute"
)

type Handler struct {
	appService embed.Service
}

func NewHandler(appService embed.Service) *Handler {
	return &Handler{
		appService: appService,
	}
}

// Handle serves an API Gateway proxy event. Failures are reported through
// the response status; the returned error is reserved for the runtime.
func (h *Handler) Handle(
	ctx context.Context,
	req events.APIGatewayProxyRequest,
) (events.APIGatewayProxyResponse, error) {
	ctx, span := tracer.Start(ctx, "transport.lambda.IssueLink")
	defer span.End()

	raw, present := dashboardParam(req)

	link, err := h.appService.IssueLink(ctx, raw, present)
	if err != nil {
		status := embed.StatusForError(err)
		span.SetAttributes(attribute.Int("http.status_code", status))

		message := err.Error()
		if status >= http.StatusInternalServerError {
			message = embed.InternalErrorMessage
		} else {
			logger.WarnContext(ctx, "embed link request rejected", slog.String("reason", err.Error()))
		}
		return errorResponse(status, message), nil
	}

	span.SetAttributes(attribute.Int("http.status_code", http.StatusOK))

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"content-type": "text/html",
		},
		Body: link.URL,
	}, nil
}

func dashboardParam(req events.APIGatewayProxyRequest) (string, bool) {
	if raw, ok := req.QueryStringParameters[domainembed.DashboardParam]; ok {
		return raw, true
	}
	if values, ok := req.MultiValueQueryStringParameters[domainembed.DashboardParam]; ok && len(values) > 0 {
		return values[0], true
	}
	return "", false
}

func errorResponse(status int, message string) events.APIGatewayProxyResponse {
	body, err := json.Marshal(map[string]string{"error": message})
	if err != nil {
		body = []byte(`{"error":"` + embed.InternalErrorMessage + `"}`)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers: map[string]string{
			"content-type": "application/json",
		},
		Body: string(body),
	}
}

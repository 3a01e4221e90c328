package http

import (
	"net/http"

	"log/slog"

	"github.com/astro-web3/metabase-embed/internal/app/embed"
	domainembed "github.com/astro-web3/metabase-embed/internal/domain/embed"
	"github.com/astro-web3/metabase-embed/pkg/logger"
	"github.com/astro-web3/metabase-embed/pkg/tracer"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

const contentTypeHTML = "text/html"

type Handler struct {
	appService embed.Service
}

func NewHandler(appService embed.Service) *Handler {
	return &Handler{
		appService: appService,
	}
}

// IssueLink answers with the embed URL for the dashboard named in the query.
func (h *Handler) IssueLink(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "transport.http.IssueLink")
	defer span.End()

	raw, present := c.GetQuery(domainembed.DashboardParam)

	link, err := h.appService.IssueLink(ctx, raw, present)
	if err != nil {
		status := embed.StatusForError(err)
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= http.StatusInternalServerError {
			c.JSON(status, gin.H{"error": embed.InternalErrorMessage})
			return
		}
		logger.WarnContext(ctx, "embed link request rejected", slog.String("reason", err.Error()))
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	span.SetAttributes(attribute.Int("http.status_code", http.StatusOK))
	c.Data(http.StatusOK, contentTypeHTML, []byte(link.URL))
}


package embed

import (
	"context"
	"errors"
	"time"

	"log/slog"

	"github.com/astro-web3/metabase-embed/internal/domain/embed"
	"github.com/astro-web3/metabase-embed/pkg/logger"
	"github.com/astro-web3/metabase-embed/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Service interface {
	IssueLink(ctx context.Context, rawDashboard string, present bool) (*embed.Link, error)
}

type service struct {
	domainService embed.Service
}

func NewService(domainService embed.Service) Service {
	return &service{
		domainService: domainService,
	}
}

func (s *service) IssueLink(ctx context.Context, rawDashboard string, present bool) (*embed.Link, error) {
	ctx, span := tracer.Start(ctx, "app.embed.IssueLink")
	defer span.End()

	dashboardID, err := embed.ParseDashboardID(rawDashboard, present)
	if err != nil {
		span.SetAttributes(attribute.Bool("embed.bad_request", true))
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int64("embed.dashboard", int64(dashboardID)))

	link, err := s.domainService.IssueLink(ctx, dashboardID)
	if err != nil {
		if !errors.Is(err, embed.ErrDashboardNotAllowed) {
			span.RecordError(err)
			logger.ErrorContext(ctx, "failed to issue embed link",
				slog.Uint64("dashboard", uint64(dashboardID)),
				slog.String("error", err.Error()),
			)
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	logger.InfoContext(ctx, "embed link issued",
		slog.Uint64("dashboard", uint64(dashboardID)),
		slog.Time("expires_at", link.ExpiresAt.UTC().Truncate(time.Second)),
	)

	return link, nil
}

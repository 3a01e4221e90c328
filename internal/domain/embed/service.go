package embed

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/astro-web3/metabase-embed/pkg/logger"
	"github.com/astro-web3/metabase-embed/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
)

type Service interface {
	IssueLink(ctx context.Context, dashboardID uint32) (*Link, error)
}

type service struct {
	signer   Signer
	policy   DashboardPolicy
	siteHost string
	paramsID uint32
	now      func() time.Time
}

func NewService(signer Signer, policy DashboardPolicy, siteHost string, paramsID uint32) Service {
	return NewServiceWithClock(signer, policy, siteHost, paramsID, time.Now)
}

func NewServiceWithClock(
	signer Signer,
	policy DashboardPolicy,
	siteHost string,
	paramsID uint32,
	now func() time.Time,
) Service {
	if policy == nil {
		policy = AllowAll()
	}
	return &service{
		signer:   signer,
		policy:   policy,
		siteHost: NormalizeSiteHost(siteHost),
		paramsID: paramsID,
		now:      now,
	}
}

func (s *service) IssueLink(ctx context.Context, dashboardID uint32) (*Link, error) {
	allowed, err := s.policy.Allowed(ctx, dashboardID)
	if err != nil {
		return nil, fmt.Errorf("failed to check dashboard policy: %w", err)
	}
	if !allowed {
		logger.WarnContext(ctx, "dashboard rejected by policy", slog.Uint64("dashboard", uint64(dashboardID)))
		return nil, fmt.Errorf("%w: %d", ErrDashboardNotAllowed, dashboardID)
	}

	claims := NewClaims(dashboardID, s.paramsID, s.now())

	token, err := s.sign(ctx, claims)
	if err != nil {
		return nil, err
	}

	link, err := FormatLink(s.siteHost, token)
	if err != nil {
		return nil, err
	}

	return &Link{
		URL:       link,
		Token:     token,
		Claims:    claims,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *service) sign(ctx context.Context, claims *Claims) (string, error) {
	_, span := tracer.Start(ctx, "domain.embed.Sign")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("embed.dashboard", int64(claims.Resource.Dashboard)),
		attribute.Int64("embed.exp", claims.ExpiresAt.Unix()),
	)

	if s.signer == nil {
		return "", fmt.Errorf("%w: no signer configured", ErrSigning)
	}

	token, err := s.signer.Sign(claims)
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	return token, nil
}

package embed

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/astro-web3/metabase-embed/internal/config"
	"github.com/astro-web3/metabase-embed/internal/domain/embed"
	"github.com/astro-web3/metabase-embed/internal/infra/allowlist"
	"github.com/astro-web3/metabase-embed/pkg/logger"
	"github.com/astro-web3/metabase-embed/pkg/otel"
	"github.com/astro-web3/metabase-embed/pkg/tracer"
)

const ServiceName = "metabase-embed"

// InitObservability sets up the global logger and tracer from cfg. version
// is reported as the service.version resource attribute.
func InitObservability(cfg *config.Config, version string) error {
	logger.InitLogger(cfg.Observability.LogLevel, cfg.Observability.Format, cfg.Observability.LogSource)

	otelCfg := otel.DefaultConfig(ServiceName)
	otelCfg.ServiceVersion = version
	otelCfg.EndpointURL = cfg.Observability.TracingEndpointURL
	otelCfg.Enabled = cfg.Observability.TraceEnabled
	if err := tracer.InitTracer(otelCfg); err != nil {
		return fmt.Errorf("failed to initialize tracer: %w", err)
	}

	return nil
}

// NewFromConfig wires the signer, dashboard policy and domain service
// described by cfg. The returned cleanup releases backend connections.
func NewFromConfig(cfg *config.Config) (Service, func(), error) {
	signer, err := embed.NewHMACSigner(cfg.Metabase.Key)
	if err != nil {
		return nil, nil, err
	}

	policy, cleanup, err := newPolicy(cfg)
	if err != nil {
		return nil, nil, err
	}

	paramsID := cfg.Embed.ParamsID
	if paramsID == 0 {
		paramsID = embed.DefaultParamsID
	}

	logger.InfoContext(context.Background(), "embed issuer configured",
		slog.String("metabase_url", embed.NormalizeSiteHost(cfg.Metabase.URL)),
		logger.Secret("metabase_key", cfg.Metabase.Key),
		slog.Uint64("params_id", uint64(paramsID)),
	)

	domainService := embed.NewService(signer, policy, cfg.Metabase.URL, paramsID)
	return NewService(domainService), cleanup, nil
}

func newPolicy(cfg *config.Config) (embed.DashboardPolicy, func(), error) {
	noop := func() {}

	if cfg.Allowlist.RedisURL != "" {
		client, err := allowlist.NewRedisClient(cfg.Allowlist.RedisURL, cfg.Allowlist.PoolSize)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create redis client: %w", err)
		}
		return allowlist.NewRedisPolicy(client, cfg.Allowlist.RedisKey), func() { _ = client.Close() }, nil
	}

	if len(cfg.Allowlist.Dashboards) > 0 {
		return embed.NewStaticAllowlist(cfg.Allowlist.Dashboards), noop, nil
	}

	return embed.AllowAll(), noop, nil
}

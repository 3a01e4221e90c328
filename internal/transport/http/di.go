package http

import (
	"context"
	"fmt"
	"net/http"

	appembed "github.com/astro-web3/metabase-embed/internal/app/embed"
	"github.com/astro-web3/metabase-embed/internal/config"
	"github.com/astro-web3/metabase-embed/internal/transport/rpc"
)

type Server struct {
	httpServer *http.Server
	cleanup    func()
}

const (
	idleTimeoutMultiplier = 2
	serviceName           = appembed.ServiceName
)

func NewServer(cfg *config.Config, version string) (*Server, error) {
	if err := appembed.InitObservability(cfg, version); err != nil {
		return nil, err
	}

	appService, cleanup, err := appembed.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create embed service: %w", err)
	}

	handler := NewHandler(appService)
	rpcPath, rpcHandler := rpc.NewHandler(appService)
	router := NewRouter(handler, cfg, rpcPath, rpcHandler)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout * idleTimeoutMultiplier,
	}

	return &Server{
		httpServer: httpServer,
		cleanup:    cleanup,
	}, nil
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	defer s.cleanup()
	return s.httpServer.Shutdown(ctx)
}

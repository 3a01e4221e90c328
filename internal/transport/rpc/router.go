package rpc

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/astro-web3/metabase-embed/internal/app/embed"
	"github.com/astro-web3/metabase-embed/pkg/logger"
)

// NewHandler returns the route and handler for the IssueLink procedure.
func NewHandler(appService embed.Service) (string, http.Handler) {
	h := &Handler{appService: appService}

	return IssueLinkProcedure, connect.NewUnaryHandler(
		IssueLinkProcedure,
		h.IssueLink,
		connect.WithInterceptors(
			recoveryInterceptor(),
			loggingInterceptor(),
		),
	)
}

func recoveryInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (resp connect.AnyResponse, err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.ErrorContext(ctx, "panic recovered", slog.Any("panic", r))
					resp = nil
					err = connect.NewError(connect.CodeInternal, errors.New(embed.InternalErrorMessage))
				}
			}()
			return next(ctx, req)
		}
	}
}

func loggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			duration := time.Since(start)

			if err != nil {
				logger.WarnContext(ctx, "request failed",
					slog.String("method", req.Spec().Procedure),
					slog.String("code", connect.CodeOf(err).String()),
					slog.Duration("duration", duration),
				)
			} else {
				logger.InfoContext(ctx, "request completed",
					slog.String("method", req.Spec().Procedure),
					slog.Duration("duration", duration),
				)
			}

			return resp, err
		}
	}
}

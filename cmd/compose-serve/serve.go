package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wasmcp/compose-go/chain"
	"github.com/wasmcp/compose-go/middleware"
	"github.com/wasmcp/compose-go/transport"
)

func newServeCmd() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Assemble the pipeline from the manifest and serve it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(manifestPath)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "path to the pipeline manifest")
	return cmd
}

func serve(ctx context.Context, cfg Config) error {
	handlers, err := buildPipeline(cfg.Pipeline)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)

	mws := []middleware.Middleware{
		middleware.Recover(),
		middleware.TraceID(),
		middleware.Logging(logger),
	}
	if cfg.Timeout > 0 {
		mws = append(mws, middleware.Timeout(cfg.Timeout))
	}
	if cfg.RateLimit > 0 {
		mws = append(mws, middleware.RateLimit(cfg.RateLimit, cfg.RateLimit,
			middleware.WithRateLimitLogger(logger)))
	}

	ep := middleware.Wrap(chain.New(handlers...), mws...)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var t transport.Transport
	switch cfg.Transport {
	case "stdio":
		t = transport.NewStdio()
	case "http":
		t = transport.NewHTTP(cfg.Addr)
	case "websocket":
		t = transport.NewWebSocket(cfg.Addr)
	default:
		return fmt.Errorf("unknown transport %q", cfg.Transport)
	}

	logger.Info("pipeline serving",
		middleware.F("transport", t.Addr()),
		middleware.F("pipeline", cfg.Pipeline),
	)

	if err := t.Serve(ctx, ep); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sliderx/slidepdf/internal/telemetry"
	"github.com/sliderx/slidepdf/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Long: `Serve POST /generate-pdf and GET /health until interrupted.

SIGINT or SIGTERM starts a graceful shutdown bounded by
SLIDERX_SHUTDOWN_TIMEOUT.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8000", "Listen address (or set SLIDERX_ADDR)")
	return cmd
}

// runServe runs the HTTP server until ctx ends, then flushes traces.
func runServe(ctx context.Context) error {
	shutdownTracing, err := telemetry.Setup(ctx, telemetry.ServiceName, cfg.OTelEndpoint)
	if err != nil {
		return err
	}

	srv := server.New(cfg, logger)
	logger.Info("starting",
		zap.String("addr", cfg.Addr),
		zap.Bool("tracing", cfg.OTelEndpoint != ""))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("otel shutdown", zap.Error(err))
		}
		return nil
	})
	return g.Wait()
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lunehart/pixelgrid/internal/api"
	"github.com/lunehart/pixelgrid/pkg/cache"
	"github.com/lunehart/pixelgrid/pkg/observability"
	"github.com/lunehart/pixelgrid/pkg/pipeline"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline engine over HTTP",
		Long: `Serve the pipeline engine over HTTP.

The server accepts manifests on POST /v1/runs and returns sink artifacts as
base64-encoded PNGs. GET /healthz reports liveness and GET /metrics exposes
Prometheus metrics for runs, nodes, and cache activity.

With --redis, run results are cached in Redis so multiple instances share
one result store; otherwise the local file cache is used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redisURL, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "redis URL for the shared run cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, redisURL string, noCache bool) error {
	logger := loggerFromContext(ctx)

	metrics := api.NewMetrics(nil)
	observability.SetEngineHooks(metrics)
	observability.SetCacheHooks(metrics)

	store, err := c.newServeCache(ctx, redisURL, noCache)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(store, nil, logger)
	defer runner.Close()

	uptime := newProgress(logger)
	err = api.NewServer(runner, logger).ListenAndServe(ctx, addr)
	uptime.done("Server stopped")
	return err
}

func (c *CLI) newServeCache(ctx context.Context, redisURL string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisURL != "" {
		store, err := cache.NewRedisCache(ctx, redisURL)
		if err != nil {
			return nil, fmt.Errorf("connect run cache: %w", err)
		}
		c.Logger.Info("using redis run cache")
		return store, nil
	}
	return newCache(false)
}

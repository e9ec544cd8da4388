package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/calloutgen/internal/server"
	"github.com/matzehuels/calloutgen/pkg/cache"
	"github.com/matzehuels/calloutgen/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr   string // listen address
	redis  string // shared cache address; empty uses the local file cache
	prefix string // key prefix inside a shared Redis
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the callout pipeline over HTTP",
		Long: `Run an HTTP API exposing generate, remove and render.

  POST /v1/generate           body: document, returns the updated document
  POST /v1/remove             body: document, returns the updated document
  POST /v1/render?format=svg  body: document, returns the image
  GET  /healthz

With --redis, replicas share one artifact cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "Redis address or redis:// URL for a shared cache")
	cmd.Flags().StringVar(&opts.prefix, "redis-prefix", appName+":", "key prefix in the shared cache")

	return cmd
}

// runServe builds the runner and serves until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg := c.config()
	gen, err := c.newGenerator(cfg)
	if err != nil {
		return err
	}

	var (
		store cache.Cache
		keyer cache.Keyer
	)
	if opts.redis != "" {
		store, err = cache.NewRedisCache(ctx, opts.redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), opts.prefix)
	} else if store, err = newCache(false); err != nil {
		return fmt.Errorf("open cache: %w", err)
	}

	runner := pipeline.NewRunner(store, keyer, gen, c.Logger)
	runner.ConfigHash = configHash(cfg)
	defer runner.Close()

	printInfo("Serving on %s", opts.addr)
	cacheKind := "file"
	if opts.redis != "" {
		cacheKind = "redis " + opts.redis
	}
	printKeyValue("Cache", cacheKind)
	printKeyValue("Scale", fmt.Sprintf("%g", cfg.Render.Scale))

	srv := server.New(runner, server.WithLogger(c.Logger), server.WithScale(cfg.Render.Scale))
	return srv.ListenAndServe(ctx, opts.addr)
}

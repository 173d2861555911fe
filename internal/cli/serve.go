package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/auradisp/internal/server"
	"github.com/matzehuels/auradisp/pkg/config"
	"github.com/matzehuels/auradisp/pkg/errors"
	"github.com/matzehuels/auradisp/pkg/observability"
	"github.com/matzehuels/auradisp/pkg/pipeline"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr            string
		shutdownTimeout time.Duration
		maxNodes        int
		noCache         bool
	)
	flags := newOptionFlags()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts and renders over HTTP",
		Long: `Serve layouts and renders over HTTP.

Routes:
  GET /healthz              build information
  GET /v1/layout            layout snapshot and statistics
  GET /v1/render/{format}   rendered artifact
  GET /v1/stats             request, build and cache counters

Query parameters override the defaults given by flags and the config file,
e.g. /v1/render/svg?nodes=64&seed=7&brightness=computed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.resolve(cmd, c.baseOptions())
			if !cmd.Flags().Changed("addr") && c.Config.Server.Addr != "" {
				addr = c.Config.Server.Addr
			}
			if !cmd.Flags().Changed("shutdown-timeout") && c.Config.Server.ShutdownTimeout > 0 {
				shutdownTimeout = c.Config.Server.ShutdownTimeout
			}
			if !cmd.Flags().Changed("max-nodes") && c.Config.Server.MaxNodes > 0 {
				maxNodes = c.Config.Server.MaxNodes
			}
			return c.runServe(cmd.Context(), opts, serveParams{
				addr:            addr,
				shutdownTimeout: shutdownTimeout,
				maxNodes:        maxNodes,
				noCache:         noCache,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", config.DefaultShutdownTimeout, "graceful shutdown timeout")
	cmd.Flags().IntVar(&maxNodes, "max-nodes", server.DefaultMaxNodes, "largest node count a request may ask for")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.bindLayout(cmd)
	flags.bindBrightness(cmd)

	return cmd
}

type serveParams struct {
	addr            string
	shutdownTimeout time.Duration
	maxNodes        int
	noCache         bool
}

func (c *CLI) runServe(ctx context.Context, opts pipeline.Options, p serveParams) error {
	// Defaults are validated once here so a bad flag fails at startup.
	check := opts
	if err := check.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if err := errors.ValidateNodeCount(p.maxNodes); err != nil {
		return fmt.Errorf("--max-nodes: %w", err)
	}
	if check.Nodes > p.maxNodes {
		return errors.New(errors.ErrCodeInvalidNodeCount, "default node count %d exceeds --max-nodes %d", check.Nodes, p.maxNodes)
	}

	runner, err := c.newRunner(ctx, p.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	rec := observability.NewRecorder()
	observability.Install(rec)
	defer observability.Reset()

	srv := server.New(runner, opts, c.Logger)
	srv.SetRecorder(rec)
	srv.SetMaxNodes(p.maxNodes)
	return srv.Run(ctx, p.addr, p.shutdownTimeout)
}

package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dxfsvg/internal/server"
	"github.com/matzehuels/dxfsvg/pkg/observability"
	"github.com/matzehuels/dxfsvg/pkg/pipeline"
	"github.com/matzehuels/dxfsvg/pkg/render"
)

type serveOpts struct {
	addr    string
	metrics bool
}

// serveCommand creates the serve command, which runs the HTTP rendering
// service until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{metrics: true}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP rendering service",
		Long: `Run an HTTP service that renders uploaded drawings.

  POST /v1/render?format=svg   render the request body (raw or multipart "file")
  GET  /healthz                liveness and build information
  GET  /metrics                Prometheus metrics (unless --metrics=false)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", opts.metrics, "expose Prometheus metrics on /metrics")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	srv, runner, cleanup, err := c.newServer(ctx, opts)
	if err != nil {
		return err
	}
	defer cleanup()
	defer runner.Close()

	printInfo("Serving on %s", c.serveAddr(opts))
	printKeyValue("Cache", c.cfg.Cache.Backend)
	if !render.Available() {
		printWarning("rsvg-convert not found; pdf and png requests will fail")
	}
	return srv.ListenAndServe(ctx)
}

// newServer builds the server and its runner. With metrics enabled the
// Prometheus hooks are installed globally; cleanup removes them.
func (c *CLI) newServer(ctx context.Context, opts serveOpts) (*server.Server, *pipeline.Runner, func(), error) {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return nil, nil, nil, err
	}

	cfg := server.Config{
		Addr:           c.serveAddr(opts),
		MaxUploadBytes: c.cfg.Server.MaxUploadMB << 20,
		ReadTimeout:    c.cfg.Server.ReadTimeout.Duration,
		RenderTimeout:  c.cfg.Server.RenderTimeout.Duration,
		Render:         c.baseOptions(),
	}

	cleanup := func() {}
	if opts.metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		hooks := observability.NewPrometheusHooks(reg)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
		cfg.Gatherer = reg
		cleanup = observability.Reset
	}

	return server.New(cfg, runner, logger), runner, cleanup, nil
}

func (c *CLI) serveAddr(opts serveOpts) string {
	if opts.addr != "" {
		return opts.addr
	}
	return c.cfg.Server.Addr
}

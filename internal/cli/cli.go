// Package cli implements the dxfsvg command-line interface.
package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dxfsvg/internal/config"
	"github.com/matzehuels/dxfsvg/pkg/buildinfo"
	"github.com/matzehuels/dxfsvg/pkg/cache"
	"github.com/matzehuels/dxfsvg/pkg/errors"
	"github.com/matzehuels/dxfsvg/pkg/pipeline"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Process exit codes.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitUsage     = 2
	ExitInterrupt = 130
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command output (dumps, paths). Status lines go to stdout
	// through the ui helpers.
	Out io.Writer

	configPath string
	verbose    bool
	cfg        config.Config
}

// New creates a CLI that logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          config.AppName,
		Short:        "dxfsvg renders DXF drawings as SVG",
		Long:         `dxfsvg converts ASCII DXF drawings into standalone SVG documents, with optional PDF, PNG and JSON outputs, from the command line or as an HTTP service.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/dxfsvg/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.dumpCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if stderrors.Is(err, context.Canceled) {
		return ExitInterrupt
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath, errors.ErrCodeInvalidCodepage:
		return ExitUsage
	}
	return ExitFailure
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if c.cfg.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(nil, c.cfg.Cache.Prefix)
	}
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	runner.ArtifactTTL = c.cfg.Cache.TTL.Duration
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		c.Logger.Debug("using redis cache")
		return cache.NewRedisCache(ctx, c.cfg.Cache.RedisURL)
	}
	dir, err := c.cfg.CacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	c.Logger.Debug("using file cache", "dir", dir)
	return cache.NewFileCache(dir)
}

// =============================================================================
// Options Helpers
// =============================================================================

// baseOptions returns pipeline options seeded from the [render] config.
func (c *CLI) baseOptions() pipeline.Options {
	r := c.cfg.Render
	return pipeline.Options{
		Codepage:      r.Codepage,
		Formats:       slices.Clone(r.Formats),
		FontFamily:    r.FontFamily,
		MaxBlockDepth: r.MaxBlockDepth,
		PNGScale:      r.PNGScale,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// Package cli implements the flowbridge command-line interface.
//
// # Commands
//
//   - layout: resolve a manifest into a layout.json file
//   - render: draw a manifest or layout as SVG, PNG, JSON or DOT
//   - inspect: print a per-section summary table
//   - preview: browse sections and frames interactively
//   - serve: run the HTTP API
//   - cache: manage the layout cache
//
// All commands read the optional config file (see pkg/config) and support
// --verbose (-v) for debug logging.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowbridge/pkg/buildinfo"
	"github.com/matzehuels/flowbridge/pkg/cache"
	"github.com/matzehuels/flowbridge/pkg/config"
	"github.com/matzehuels/flowbridge/pkg/pipeline"
	"github.com/matzehuels/flowbridge/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "flowbridge"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "flowbridge lays out flow-style collections as compositional sections",
		Long: `flowbridge translates flow-layout collections (item sizes, spacing, insets,
headers and footers) into compositional sections, resolves them into frames and
renders the result.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ~/.config/flowbridge/config.toml)")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file. An explicit log level in the config
// only applies while --verbose has not lowered the level already.
func (c *CLI) loadConfig() error {
	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.LoadFromFile(c.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	c.Config = cfg

	if c.Logger.GetLevel() != log.DebugLevel {
		if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
			c.Logger.SetLevel(level)
		}
	}
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache. Keys
// are scoped to the build version, so an upgrade never serves layouts
// resolved by older code.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, cacheScope()), c.Logger)
	runner.TTL = c.Config.Cache.TTL.Duration
	return runner, nil
}

// cacheScope is the key prefix for the running build.
func cacheScope() string {
	return buildinfo.Version + ":"
}

func (c *CLI) openCache(ctx context.Context, noCache bool) (*cache.Instrumented, error) {
	cfg := c.Config.Cache
	if noCache {
		cfg.Backend = config.BackendNone
	}
	return cache.Open(ctx, cfg)
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags are the flags shared by every command that lays out a manifest.
type layoutFlags struct {
	width, height float64
	noCache       bool
	refresh       bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", 0, "override the container width")
	cmd.Flags().Float64Var(&f.height, "height", 0, "override the container height")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results")
}

// options builds pipeline options for the manifest at path.
func (c *CLI) options(path string, f layoutFlags) pipeline.Options {
	opts := pipeline.Options{
		Path:    path,
		Width:   f.width,
		Height:  f.height,
		Refresh: f.refresh,
		Logger:  c.Logger,
	}
	opts.ApplyConfig(c.Config.Layout)
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

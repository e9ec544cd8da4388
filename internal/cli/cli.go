// Package cli implements the calloutgen command-line interface.
//
// The CLI reads scene documents (JSON or YAML exports of a design file),
// generates or removes annotation callouts, renders pages to SVG, PNG or PDF,
// and serves the same pipeline over HTTP.
//
// # Commands
//
//   - generate: add numbered callouts for every annotation on a page
//   - remove: delete previously generated callouts
//   - render: draw a page to SVG, PNG or PDF
//   - inspect: list frames and annotations, or draw the node tree
//   - watch: regenerate whenever the document changes
//   - serve: run the HTTP API
//   - cache: manage the local artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Progress and
// diagnostics go to stderr; results and file paths go to stdout.
package cli

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/calloutgen/pkg/buildinfo"
	"github.com/matzehuels/calloutgen/pkg/cache"
	"github.com/matzehuels/calloutgen/pkg/config"
	"github.com/matzehuels/calloutgen/pkg/core/callouts"
	"github.com/matzehuels/calloutgen/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = config.AppName

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

	// ConfigPath overrides the per-user config file.
	ConfigPath string

	verbose bool
	cfg     *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Calloutgen turns design annotations into numbered callouts",
		Long: `Calloutgen reads a design document, collects the annotations attached to its
nodes and draws a numbered marker, a callout card and a connector for each one
beside the annotated frame.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			c.cfg = &cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/calloutgen/config.toml)")

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config
// =============================================================================

// loadConfig reads --config, or the per-user file when it exists.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.ConfigPath != "" {
		return config.Load(c.ConfigPath, false)
	}
	path, err := config.DefaultPath()
	if err != nil {
		return config.Default(), nil
	}
	cfg, err := config.Load(path, true)
	if err == nil {
		c.Logger.Debug("loaded config", "path", path)
	}
	return cfg, err
}

// config returns the loaded settings, or the defaults before PersistentPreRunE ran.
func (c *CLI) config() config.Config {
	if c.cfg == nil {
		return config.Default()
	}
	return *c.cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newGenerator builds a callout generator from the config.
func (c *CLI) newGenerator(cfg config.Config) (*callouts.Generator, error) {
	drawer, err := cfg.Drawer()
	if err != nil {
		return nil, err
	}
	return callouts.New(
		callouts.WithLayout(cfg.Layout),
		callouts.WithDrawer(drawer),
		callouts.WithLogger(c.Logger),
	), nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cfg := c.config()
	gen, err := c.newGenerator(cfg)
	if err != nil {
		return nil, err
	}
	store, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(store, nil, gen, c.Logger)
	runner.ConfigHash = configHash(cfg)
	return runner, nil
}

// configHash identifies the settings that change generated output.
func configHash(cfg config.Config) string {
	data, _ := json.Marshal(struct {
		Layout   any
		Style    any
		Markdown string
	}{cfg.Layout, cfg.Style, cfg.Render.Markdown})
	return cache.Hash(data)
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/calloutgen/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
// An empty string yields defaults.
func parseFormats(s string, defaults []string) []string {
	if s == "" {
		return defaults
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// parseList splits a comma-separated flag value.
func parseList(s string) []string {
	return parseFormats(s, nil)
}

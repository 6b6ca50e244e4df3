// Package cli implements the swapcharts command-line interface.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/swapcharts/pkg/cache"
	"github.com/matzehuels/swapcharts/pkg/config"
	"github.com/matzehuels/swapcharts/pkg/dataset"
	"github.com/matzehuels/swapcharts/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "swapcharts"

// keyPrefix namespaces cache keys, so a shared Redis can be cleared
// without touching other applications' keys.
const keyPrefix = appName + ":"

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

	// Config is loaded before any subcommand runs.
	Config *config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and the built-in
// configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads --config (or the default path) into c.Config.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("config loaded", "path", c.configPath, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newCache opens the configured cache, or a NullCache when noCache is set.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	return c.Config.OpenCache(ctx)
}

// newLoader returns a shared loader whose remote bytes go through ch.
func (c *CLI) newLoader(ch cache.Cache) *dataset.SharedLoader {
	src := dataset.NewCSVSource()
	src.Cache = ch
	src.Keyer = newKeyer()
	src.TTL = c.Config.Cache.TTL.Duration
	return dataset.NewSharedLoader(src, dataset.SharedOptions{Logger: c.Logger})
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(c.newLoader(ch), ch, newKeyer(), c.Logger), nil
}

func newKeyer() cache.Keyer {
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), keyPrefix)
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineDefaults returns pipeline options seeded from the configuration.
func (c *CLI) pipelineDefaults() pipeline.Options {
	return pipeline.Options{
		Width:            pipeline.DefaultWidth,
		Height:           pipeline.DefaultHeight,
		HeatmapTopGenres: c.Config.Charts.HeatmapTopGenres,
		FlowTopGenres:    c.Config.Charts.FlowTopGenres,
		BandPadding:      c.Config.Charts.BandPadding,
		Theme:            c.Config.Theme,
		Logger:           c.Logger,
	}
}

// parseList splits a comma-separated flag value, dropping blanks.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// registerConfigFlag adds --config to root.
func (c *CLI) registerConfigFlag(root *cobra.Command) {
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/"+appName+"/"+config.FileName+")")
}

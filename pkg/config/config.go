// Package config loads swapcharts settings from a TOML file.
//
// Precedence, highest first:
//  1. Environment variables (SWAPCHARTS_*)
//  2. The TOML file
//  3. Built-in defaults
//
// Command-line flags are applied on top by the CLI.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/swapcharts/pkg/aggregate"
	"github.com/matzehuels/swapcharts/pkg/cache"
	"github.com/matzehuels/swapcharts/pkg/chart"
	"github.com/matzehuels/swapcharts/pkg/errors"
	"github.com/matzehuels/swapcharts/pkg/render"
	"github.com/matzehuels/swapcharts/pkg/scale"
	"github.com/matzehuels/swapcharts/pkg/viewport"
)

// FileName is the config file looked up in the user config directory.
const FileName = "config.toml"

// Cache backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Band padding bounds accepted for categorical axes.
const (
	MinBandPadding = scale.MinBandPadding
	MaxBandPadding = 0.1
)

// Theme is the colour configuration passed to every chart.
type Theme = render.Theme

// Config holds every setting.
type Config struct {
	Theme  Theme        `toml:"theme"`
	Charts ChartsConfig `toml:"charts"`
	Cache  CacheConfig  `toml:"cache"`
}

// ChartsConfig tunes aggregation and redraw behaviour.
type ChartsConfig struct {
	Debounce         Duration `toml:"debounce"`
	BandPadding      float64  `toml:"band_padding"`
	HeatmapTopGenres int      `toml:"heatmap_top_genres"`
	FlowTopGenres    int      `toml:"flow_top_genres"`
}

// CacheConfig selects where fetched datasets and rendered artifacts are
// kept between runs.
type CacheConfig struct {
	Backend   string   `toml:"backend"`   // none, file, or redis
	TTL       Duration `toml:"ttl"`       // dataset bytes lifetime
	RedisAddr string   `toml:"redis_addr"` // host:port or redis:// URL
	Dir       string   `toml:"dir"`       // file backend directory (default: user cache dir)
}

// Duration is a time.Duration written as a string ("200ms", "24h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Theme: render.DefaultTheme(),
		Charts: ChartsConfig{
			Debounce:         Duration{viewport.DefaultDebounce},
			BandPadding:      scale.DefaultBandPadding,
			HeatmapTopGenres: aggregate.DefaultHeatmapTopGenres,
			FlowTopGenres:    aggregate.DefaultFlowTopGenres,
		},
		Cache: CacheConfig{
			Backend:   BackendFile,
			TTL:       Duration{cache.TTLDataset},
			RedisAddr: "localhost:6379",
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path loads [DefaultPath] when it exists and the defaults
// otherwise. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		meta, err := toml.DecodeFile(path, cfg)
		switch {
		case err == nil:
			if undecoded := meta.Undecoded(); len(undecoded) > 0 {
				return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
			}
		case os.IsNotExist(err) && !explicit:
		default:
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
		}
	}

	cfg.applyEnv(os.Getenv)
	cfg.Theme = cfg.Theme.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults without reading the
// environment.
func Parse(text string) (*Config, error) {
	cfg := Default()
	meta, err := toml.Decode(text, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
	}
	cfg.Theme = cfg.Theme.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/swapcharts/config.toml, or "" when
// no config directory is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "swapcharts", FileName)
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("SWAPCHARTS_CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := getenv("SWAPCHARTS_REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := getenv("SWAPCHARTS_CACHE_DIR"); v != "" {
		c.Cache.Dir = v
	}
}

// Validate checks every field and returns an INVALID_CONFIG error for the
// first problem found.
func (c *Config) Validate() error {
	colors := c.Theme.Colors()
	names := make([]string, 0, len(colors))
	for name := range colors {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := errors.ValidateHexColor(colors[name]); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "theme.%s", name)
		}
	}
	ch := c.Charts
	if ch.Debounce.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "charts.debounce must not be negative")
	}
	if ch.BandPadding < MinBandPadding || ch.BandPadding > MaxBandPadding {
		return errors.New(errors.ErrCodeInvalidConfig, "charts.band_padding must be between %.2f and %.2f, got %g",
			MinBandPadding, MaxBandPadding, ch.BandPadding)
	}
	if ch.HeatmapTopGenres < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "charts.heatmap_top_genres must be positive")
	}
	if ch.FlowTopGenres < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "charts.flow_top_genres must be positive")
	}

	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	switch c.Cache.Backend {
	case BackendNone, BackendFile:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be none, file, or redis, got %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}

// String renders the configuration as TOML.
func (c *Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("# encode error: %v\n", err)
	}
	return b.String()
}

// Settings returns the aggregation and drawing knobs for chart models.
func (c *Config) Settings() chart.Settings {
	return chart.Settings{
		BandPadding:      c.Charts.BandPadding,
		HeatmapTopGenres: c.Charts.HeatmapTopGenres,
		FlowTopGenres:    c.Charts.FlowTopGenres,
	}
}

// CacheDir returns the file cache directory, defaulting to
// $XDG_CACHE_HOME/swapcharts.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "locate cache directory")
	}
	return filepath.Join(dir, "swapcharts"), nil
}

// OpenCache builds the configured cache backend.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.Cache.RedisAddr)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis at %s", c.Cache.RedisAddr)
		}
		return rc, nil
	default:
		dir, err := c.CacheDir()
		if err != nil {
			return nil, err
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "create cache directory %s", dir)
		}
		return fc, nil
	}
}

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/swapcharts/pkg/cache"
	"github.com/matzehuels/swapcharts/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if cfg.Charts.Debounce.Duration != 200*time.Millisecond {
		t.Errorf("debounce = %v, want 200ms", cfg.Charts.Debounce.Duration)
	}
	s := cfg.Settings()
	if s.HeatmapTopGenres != 20 || s.FlowTopGenres != 10 {
		t.Errorf("Settings() = %+v", s)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[theme]
background = "#000"
palette = ["#111111", "#222222"]

[charts]
debounce = "50ms"
band_padding = 0.05
flow_top_genres = 5

[cache]
backend = "None"
ttl = "1h"
`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Theme.Background != "#000" {
		t.Errorf("background = %q", cfg.Theme.Background)
	}
	if cfg.Theme.Foreground == "" {
		t.Error("foreground not defaulted")
	}
	if len(cfg.Theme.Palette) != 2 {
		t.Errorf("palette = %v", cfg.Theme.Palette)
	}
	if cfg.Charts.Debounce.Duration != 50*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Charts.Debounce.Duration)
	}
	if cfg.Charts.FlowTopGenres != 5 || cfg.Charts.HeatmapTopGenres != 20 {
		t.Errorf("charts = %+v", cfg.Charts)
	}
	if cfg.Cache.Backend != BackendNone {
		t.Errorf("backend = %q, want normalized %q", cfg.Cache.Backend, BackendNone)
	}
	if cfg.Cache.TTL.Duration != time.Hour {
		t.Errorf("ttl = %v", cfg.Cache.TTL.Duration)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"syntax", `[charts`},
		{"unknown key", "[charts]\nspeed = 3"},
		{"bad duration", "[charts]\ndebounce = \"soon\""},
		{"bad color", "[theme]\nheat_low = \"red\""},
		{"bad palette color", "[theme]\npalette = [\"#123456\", \"#12\"]"},
		{"padding too large", "[charts]\nband_padding = 0.3"},
		{"padding too small", "[charts]\nband_padding = 0.01"},
		{"zero top genres", "[charts]\nheatmap_top_genres = 0"},
		{"negative debounce", "[charts]\ndebounce = \"-1s\""},
		{"unknown backend", "[cache]\nbackend = \"memcached\""},
		{"redis without addr", "[cache]\nbackend = \"redis\"\nredis_addr = \"\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if err == nil {
				t.Fatal("Parse() succeeded, want error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("[charts]\nheatmap_top_genres = 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SWAPCHARTS_CACHE_BACKEND", "none")
	t.Setenv("SWAPCHARTS_CACHE_DIR", dir)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Charts.HeatmapTopGenres != 8 {
		t.Errorf("heatmap_top_genres = %d", cfg.Charts.HeatmapTopGenres)
	}
	if cfg.Cache.Backend != BackendNone {
		t.Errorf("backend = %q, want env override", cfg.Cache.Backend)
	}
	if got, _ := cfg.CacheDir(); got != dir {
		t.Errorf("CacheDir() = %q, want %q", got, dir)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("Load() error = %v, want %s", err, errors.ErrCodeInvalidConfig)
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	cfg := Default()
	cfg.Cache.Backend = BackendNone
	c, err := cfg.OpenCache(ctx)
	if err != nil {
		t.Fatalf("OpenCache(none) error = %v", err)
	}
	if _, ok := c.(cache.NullCache); !ok {
		t.Errorf("OpenCache(none) = %T", c)
	}

	cfg.Cache.Backend = BackendFile
	cfg.Cache.Dir = t.TempDir()
	c, err = cfg.OpenCache(ctx)
	if err != nil {
		t.Fatalf("OpenCache(file) error = %v", err)
	}
	fc, ok := c.(*cache.FileCache)
	if !ok {
		t.Fatalf("OpenCache(file) = %T", c)
	}
	if fc.Dir() != cfg.Cache.Dir {
		t.Errorf("Dir() = %q", fc.Dir())
	}
}

func TestStringRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Charts.FlowTopGenres = 7
	again, err := Parse(cfg.String())
	if err != nil {
		t.Fatalf("Parse(String()) error = %v", err)
	}
	if again.Charts.FlowTopGenres != 7 || again.Charts.Debounce != cfg.Charts.Debounce {
		t.Errorf("round trip = %+v", again.Charts)
	}
}

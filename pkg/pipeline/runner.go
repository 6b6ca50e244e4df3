package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/swapcharts/pkg/cache"
	"github.com/matzehuels/swapcharts/pkg/chart"
	"github.com/matzehuels/swapcharts/pkg/dataset"
	"github.com/matzehuels/swapcharts/pkg/observability"
)

// Loader supplies tables and can drop a cached one.
// [dataset.SharedLoader] implements it.
type Loader interface {
	Acquire(ctx context.Context, locator string) (*dataset.Table, func(), error)
	Invalidate(locator string)
}

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the loader, cache, and logger. It
// does not store results, and multiple goroutines can use the same
// Runner with different options.
type Runner struct {
	Loader Loader
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner.
// If loader is nil, a shared CSV loader backed by c is used.
// If c is nil, a NullCache is used (caching disabled).
// If keyer is nil, a DefaultKeyer is used.
func NewRunner(loader Loader, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	if loader == nil {
		src := dataset.NewCSVSource()
		src.Cache = c
		src.Keyer = keyer
		loader = dataset.NewSharedLoader(src, dataset.SharedOptions{Logger: logger})
	}
	return &Runner{
		Loader: loader,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → aggregate → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()

	// Stage 1: Load
	if opts.Refresh {
		r.Loader.Invalidate(opts.Locator)
		ctx = dataset.WithRefresh(ctx)
	}
	hooks.OnLoadStart(ctx, opts.Locator)
	loadStart := time.Now()
	table, release, err := r.Loader.Acquire(ctx, opts.Locator)
	loadTime := time.Since(loadStart)
	if err != nil {
		hooks.OnLoadComplete(ctx, opts.Locator, 0, loadTime, err)
		return nil, err
	}
	defer release()
	hooks.OnLoadComplete(ctx, opts.Locator, table.Len(), loadTime, nil)

	result := &Result{
		Locator:     opts.Locator,
		DatasetHash: table.Hash,
	}
	result.Stats.Rows = table.Len()
	result.Stats.LoadTime = loadTime

	opts.Logger.Info("loaded dataset",
		"locator", opts.Locator,
		"rows", table.Len(),
		"duration", loadTime)

	// Stage 2: Aggregate
	aggStart := time.Now()
	for _, kind := range opts.Kinds() {
		m, err := r.Aggregate(ctx, kind, table, opts)
		if err != nil {
			return nil, fmt.Errorf("aggregate %s: %w", kind, err)
		}
		result.Charts = append(result.Charts, &ChartResult{Kind: kind, Model: m})
	}
	result.Stats.AggregateTime = time.Since(aggStart)

	// Stage 3: Render, one goroutine per chart
	renderStart := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for _, cr := range result.Charts {
		g.Go(func() error {
			return r.render(gctx, cr, table.Hash, opts)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered charts",
		"charts", opts.Charts,
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Aggregate reduces the table into kind's model.
func (r *Runner) Aggregate(ctx context.Context, kind chart.Kind, table *dataset.Table, opts Options) (chart.Model, error) {
	hooks := observability.Pipeline()
	hooks.OnAggregateStart(ctx, string(kind), table.Len())
	start := time.Now()
	m, err := chart.Aggregate(kind, table.Rows, opts.Settings())
	hooks.OnAggregateComplete(ctx, string(kind), time.Since(start), err)
	if err == nil && m.Empty() {
		opts.Logger.Warn("nothing to draw", "chart", kind)
	}
	return m, err
}

// render fills cr.Artifacts, reading and writing the artifact cache.
func (r *Runner) render(ctx context.Context, cr *ChartResult, datasetHash string, opts Options) error {
	formats := opts.FormatsFor(cr.Kind)
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, string(cr.Kind), formats)
	start := time.Now()

	artifacts, hit := r.cachedArtifacts(ctx, cr.Kind, datasetHash, formats, opts)
	if hit {
		cr.Artifacts = artifacts
		cr.CacheHit = true
		hooks.OnRenderComplete(ctx, string(cr.Kind), formats, time.Since(start), nil)
		opts.Logger.Debug("artifacts from cache", "chart", cr.Kind)
		return nil
	}

	artifacts, skipped, err := Render(ctx, cr.Model, formats, opts)
	hooks.OnRenderComplete(ctx, string(cr.Kind), formats, time.Since(start), err)
	if err != nil {
		return err
	}
	cr.Artifacts = artifacts
	cr.Skipped = skipped

	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(datasetHash, opts.ArtifactKeyOpts(cr.Kind, format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Debug("cache write failed", "chart", cr.Kind, "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return nil
}

// cachedArtifacts returns every format from the cache, or false if any is
// missing. Refresh runs always miss.
func (r *Runner) cachedArtifacts(ctx context.Context, kind chart.Kind, datasetHash string, formats []string, opts Options) (map[string][]byte, bool) {
	if opts.Refresh || datasetHash == "" || len(formats) == 0 {
		return nil, false
	}
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		key := r.Keyer.ArtifactKey(datasetHash, opts.ArtifactKeyOpts(kind, format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		artifacts[format] = data
	}
	observability.Cache().OnCacheHit(ctx, "artifact")
	return artifacts, true
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

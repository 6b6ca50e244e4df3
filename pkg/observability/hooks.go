// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries report events through the hooks returned by [Pipeline], [Chart],
// [Cache], and [HTTP]. Every hook set defaults to a no-op; an application
// replaces them once at startup:
//
//	observability.SetChartHooks(observability.NewLogHooks(logger))
//
// [LogHooks] implements all four interfaces by writing debug log lines.
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the chart pipeline.
type PipelineHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, locator string)
	OnLoadComplete(ctx context.Context, locator string, rows int, duration time.Duration, err error)

	// Aggregate events
	OnAggregateStart(ctx context.Context, chart string, rows int)
	OnAggregateComplete(ctx context.Context, chart string, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, chart string, formats []string)
	OnRenderComplete(ctx context.Context, chart string, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Chart Hooks
// =============================================================================

// ChartHooks receives events from mounted chart components.
type ChartHooks interface {
	// OnDraw records a full redraw of a chart's surface.
	OnDraw(chartID, kind string, width, height float64, duration time.Duration)

	// OnDrawSkipped records a redraw suppressed because there was nothing
	// to draw.
	OnDrawSkipped(chartID, kind, reason string)

	// OnLoadError records a dataset load failure seen by a chart.
	OnLoadError(chartID, kind string, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnAggregateStart(context.Context, string, int)                     {}
func (NoopPipelineHooks) OnAggregateComplete(context.Context, string, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string, []string)                   {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, []string, time.Duration, error) {
}

// NoopChartHooks is a no-op implementation of ChartHooks.
type NoopChartHooks struct{}

func (NoopChartHooks) OnDraw(string, string, float64, float64, time.Duration) {}
func (NoopChartHooks) OnDrawSkipped(string, string, string)                   {}
func (NoopChartHooks) OnLoadError(string, string, error)                      {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Registry
// =============================================================================

// slot holds the registered implementation of one hook interface.
type slot[T any] struct {
	mu  sync.RWMutex
	def T
	cur T
}

func newSlot[T any](def T) *slot[T] {
	return &slot[T]{def: def, cur: def}
}

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// set installs h. A nil interface value is ignored.
func (s *slot[T]) set(h T) {
	if any(h) == nil {
		return
	}
	s.mu.Lock()
	s.cur = h
	s.mu.Unlock()
}

func (s *slot[T]) reset() {
	s.mu.Lock()
	s.cur = s.def
	s.mu.Unlock()
}

var (
	pipelineSlot = newSlot[PipelineHooks](NoopPipelineHooks{})
	chartSlot    = newSlot[ChartHooks](NoopChartHooks{})
	cacheSlot    = newSlot[CacheHooks](NoopCacheHooks{})
	httpSlot     = newSlot[HTTPHooks](NoopHTTPHooks{})
)

// SetPipelineHooks registers pipeline hooks. Call it before running any
// pipeline.
func SetPipelineHooks(h PipelineHooks) { pipelineSlot.set(h) }

// SetChartHooks registers chart hooks. Call it before mounting any chart.
func SetChartHooks(h ChartHooks) { chartSlot.set(h) }

// SetCacheHooks registers cache hooks.
func SetCacheHooks(h CacheHooks) { cacheSlot.set(h) }

// SetHTTPHooks registers HTTP hooks.
func SetHTTPHooks(h HTTPHooks) { httpSlot.set(h) }

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return pipelineSlot.get() }

// Chart returns the registered chart hooks.
func Chart() ChartHooks { return chartSlot.get() }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return cacheSlot.get() }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return httpSlot.get() }

// Reset restores every hook set to its no-op default.
func Reset() {
	pipelineSlot.reset()
	chartSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}

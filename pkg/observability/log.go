package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event as a debug line. It implements
// [PipelineHooks], [ChartHooks], [CacheHooks], and [HTTPHooks].
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks logging to logger with an "event" prefix.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger.WithPrefix("event")}
}

// Register installs h for every hook category.
func (h *LogHooks) Register() {
	SetPipelineHooks(h)
	SetChartHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnLoadStart(_ context.Context, locator string) {
	h.logger.Debug("load start", "locator", locator)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, locator string, rows int, d time.Duration, err error) {
	h.done("load", err, "locator", locator, "rows", rows, "elapsed", d)
}

func (h *LogHooks) OnAggregateStart(_ context.Context, chart string, rows int) {
	h.logger.Debug("aggregate start", "chart", chart, "rows", rows)
}

func (h *LogHooks) OnAggregateComplete(_ context.Context, chart string, d time.Duration, err error) {
	h.done("aggregate", err, "chart", chart, "elapsed", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, chart string, formats []string) {
	h.logger.Debug("render start", "chart", chart, "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, chart string, formats []string, d time.Duration, err error) {
	h.done("render", err, "chart", chart, "formats", formats, "elapsed", d)
}

func (h *LogHooks) OnDraw(chartID, kind string, width, height float64, d time.Duration) {
	h.logger.Debug("draw", "chart", chartID, "kind", kind, "width", width, "height", height, "elapsed", d)
}

func (h *LogHooks) OnDrawSkipped(chartID, kind, reason string) {
	h.logger.Debug("draw skipped", "chart", chartID, "kind", kind, "reason", reason)
}

func (h *LogHooks) OnLoadError(chartID, kind string, err error) {
	h.logger.Debug("chart load failed", "chart", chartID, "kind", kind, "error", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "elapsed", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "error", err)
}

func (h *LogHooks) done(stage string, err error, keyvals ...any) {
	if err != nil {
		h.logger.Debug(stage+" failed", append(keyvals, "error", err)...)
		return
	}
	h.logger.Debug(stage+" complete", keyvals...)
}

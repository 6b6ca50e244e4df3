// Package pipeline provides the load → aggregate → render pipeline for
// swapcharts.
//
// The CLI commands share this package so that every entry point reads,
// reduces, and draws the dataset the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read the CSV once through a shared loader
//  2. Aggregate: Reduce the rows into each requested chart's model
//  3. Render: Draw each model in the requested formats (SVG, PNG, PDF, JSON, DOT)
//
// Rendered artifacts are cached under a key derived from the dataset
// content hash and the options that change the output bytes.
//
// # Usage
//
//	runner := pipeline.NewRunner(nil, cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Locator: "books.csv",
//	    Charts:  []string{"bar", "flow"},
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Chart(chart.KindBar).Artifacts["svg"]
package pipeline

import (
	"encoding/json"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/swapcharts/pkg/aggregate"
	"github.com/matzehuels/swapcharts/pkg/cache"
	"github.com/matzehuels/swapcharts/pkg/chart"
	"github.com/matzehuels/swapcharts/pkg/errors"
	"github.com/matzehuels/swapcharts/pkg/render"
	"github.com/matzehuels/swapcharts/pkg/scale"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default chart width in pixels.
	DefaultWidth = 960.0

	// DefaultHeight is the default chart height in pixels.
	DefaultHeight = 600.0

	// DefaultScale is the PNG pixel density.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// drawnFormats need a measured drawing; empty models produce none of them.
var drawnFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Load options
	Locator string `json:"locator"`
	Refresh bool   `json:"refresh,omitempty"`

	// Aggregate options
	Charts           []string `json:"charts,omitempty"`
	HeatmapTopGenres int      `json:"heatmap_top_genres,omitempty"`
	FlowTopGenres    int      `json:"flow_top_genres,omitempty"`

	// Render options
	Formats     []string     `json:"formats,omitempty"`
	Width       float64      `json:"width,omitempty"`
	Height      float64      `json:"height,omitempty"`
	Scale       float64      `json:"scale,omitempty"` // PNG only
	BandPadding float64      `json:"band_padding,omitempty"`
	Theme       render.Theme `json:"theme"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	kinds     []chart.Kind
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Locator and DatasetHash identify the dataset that was read.
	Locator     string
	DatasetHash string

	// Charts holds one entry per requested chart, in request order.
	Charts []*ChartResult

	// Stats contains timing and size information.
	Stats Stats
}

// ChartResult is the output for one chart.
type ChartResult struct {
	Kind  chart.Kind
	Model chart.Model

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Skipped lists formats that were not produced because the chart had
	// nothing to draw.
	Skipped []string

	// CacheHit reports that every artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows          int
	LoadTime      time.Duration
	AggregateTime time.Duration
	RenderTime    time.Duration
}

// Chart returns the result for kind, or nil when it was not requested.
func (r *Result) Chart(kind chart.Kind) *ChartResult {
	for _, c := range r.Charts {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateLocator(o.Locator); err != nil {
		return err
	}

	kinds, err := chart.ParseKinds(o.Charts)
	if err != nil {
		return err
	}
	o.kinds = kinds
	o.Charts = make([]string, 0, len(kinds))
	for _, k := range kinds {
		o.Charts = append(o.Charts, string(k))
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	formats := make([]string, 0, len(o.Formats))
	for _, f := range o.Formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if err := ValidateFormat(f); err != nil {
			return err
		}
		if !slices.Contains(formats, f) {
			formats = append(formats, f)
		}
	}
	o.Formats = formats

	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width and height must be positive, got %gx%g", o.Width, o.Height)
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.HeatmapTopGenres == 0 {
		o.HeatmapTopGenres = aggregate.DefaultHeatmapTopGenres
	}
	if o.FlowTopGenres == 0 {
		o.FlowTopGenres = aggregate.DefaultFlowTopGenres
	}
	if o.HeatmapTopGenres < 0 || o.FlowTopGenres < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "top genre counts must be positive")
	}
	if o.BandPadding == 0 {
		o.BandPadding = scale.DefaultBandPadding
	}
	o.Theme = o.Theme.WithDefaults()

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Kinds returns the requested charts. Valid after ValidateAndSetDefaults.
func (o *Options) Kinds() []chart.Kind { return o.kinds }

// FormatsFor returns the requested formats that apply to kind. DOT output
// exists only for the flow chart.
func (o *Options) FormatsFor(kind chart.Kind) []string {
	var out []string
	for _, f := range o.Formats {
		if f == FormatDOT && kind != chart.KindFlow {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Settings returns the aggregation and drawing knobs for chart models.
func (o *Options) Settings() chart.Settings {
	return chart.Settings{
		BandPadding:      o.BandPadding,
		HeatmapTopGenres: o.HeatmapTopGenres,
		FlowTopGenres:    o.FlowTopGenres,
	}
}

// ArtifactKeyOpts returns cache key options for one chart and format.
func (o *Options) ArtifactKeyOpts(kind chart.Kind, format string) cache.ArtifactKeyOpts {
	key := cache.ArtifactKeyOpts{
		Chart:     string(kind),
		Format:    format,
		Width:     o.Width,
		Height:    o.Height,
		ThemeHash: o.styleHash(),
	}
	switch kind {
	case chart.KindHeatmap:
		key.TopN = o.HeatmapTopGenres
	case chart.KindFlow:
		key.TopN = o.FlowTopGenres
	}
	if format == FormatPNG {
		key.Width *= o.Scale
		key.Height *= o.Scale
	}
	return key
}

// styleHash covers the drawing settings that are not part of the key
// directly.
func (o *Options) styleHash() string {
	data, _ := json.Marshal(struct {
		Theme       render.Theme `json:"theme"`
		BandPadding float64      `json:"band_padding"`
	}{o.Theme, o.BandPadding})
	return cache.Hash(data)
}

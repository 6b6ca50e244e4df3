package svg

import (
	"github.com/google/uuid"

	"github.com/matzehuels/swapcharts/pkg/render"
	"github.com/matzehuels/swapcharts/pkg/scale"
)

// Option configures a renderer.
type Option func(*options)

type options struct {
	theme   render.Theme
	id      string
	title   string
	padding float64
}

// WithTheme sets the colours and font. Empty fields use the default theme.
func WithTheme(t render.Theme) Option { return func(o *options) { o.theme = t } }

// WithID sets the document id used to scope element ids.
func WithID(id string) Option { return func(o *options) { o.id = id } }

// WithTitle overrides the chart title.
func WithTitle(title string) Option { return func(o *options) { o.title = title } }

// WithBandPadding sets the band scale padding ratio. Non-positive values
// keep the default.
func WithBandPadding(p float64) Option {
	return func(o *options) {
		if p > 0 {
			o.padding = p
		}
	}
}

func newOptions(title string, opts []Option) options {
	o := options{
		theme:   render.DefaultTheme(),
		title:   title,
		padding: scale.DefaultBandPadding,
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.theme = o.theme.WithDefaults()
	if o.id == "" {
		o.id = "chart-" + uuid.NewString()[:8]
	}
	return o
}

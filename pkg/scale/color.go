package scale

import (
	"fmt"
	"image/color"

	"github.com/aclements/go-gg/palette"
	"github.com/lucasb-eyer/go-colorful"
)

// DefaultPalette is the categorical palette used when the theme sets none.
var DefaultPalette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

// Ordinal assigns palette colours to categories in domain order, cycling
// through the palette when there are more categories than colours.
// Categories outside the domain are appended on first use. An Ordinal is
// not safe for concurrent use.
type Ordinal struct {
	palette []string
	index   map[string]int
}

// NewOrdinal builds an ordinal colour scale. An empty palette falls back
// to [DefaultPalette].
func NewOrdinal(domain, colors []string) (*Ordinal, error) {
	if len(domain) == 0 {
		return nil, ErrEmptyDomain
	}
	if len(colors) == 0 {
		colors = DefaultPalette
	}
	o := &Ordinal{palette: colors, index: make(map[string]int, len(domain))}
	for _, d := range domain {
		o.add(d)
	}
	return o, nil
}

func (o *Ordinal) add(v string) int {
	if i, ok := o.index[v]; ok {
		return i
	}
	i := len(o.index)
	o.index[v] = i
	return i
}

// Map returns the colour for v.
func (o *Ordinal) Map(v string) string {
	return o.palette[o.add(v)%len(o.palette)]
}

// Sequential interpolates counts onto a colour gradient.
type Sequential struct {
	min, max float64
	gradient palette.RGBGradient
}

// NewSequential maps [min, max] onto the gradient through colors, which
// are hex strings spaced evenly. At least two colours are required.
func NewSequential(min, max float64, colors ...string) (*Sequential, error) {
	if !finite(min) || !finite(max) {
		return nil, ErrEmptyDomain
	}
	if len(colors) < 2 {
		return nil, fmt.Errorf("scale: sequential needs at least two colours, got %d", len(colors))
	}
	// RGBGradient returns Colors[0] across its whole first segment, so a
	// duplicated leading stop keeps that segment flat and Map skips it.
	stops := make([]color.RGBA, len(colors)+1)
	for i, c := range colors {
		rgba, err := ParseHex(c)
		if err != nil {
			return nil, err
		}
		stops[i+1] = rgba
	}
	stops[0] = stops[1]
	if min > max {
		min, max = max, min
	}
	return &Sequential{min: min, max: max, gradient: palette.RGBGradient{Colors: stops}}, nil
}

// Map returns the colour for v as a hex string. Values are clamped to the
// domain.
func (s *Sequential) Map(v float64) string {
	t := 0.0
	if s.max > s.min {
		t = (v - s.min) / (s.max - s.min)
	}
	t = min(max(t, 0), 1)
	segments := float64(len(s.gradient.Colors) - 1)
	return Hex(s.gradient.Map((1 + t*(segments-1)) / segments))
}

// ParseHex parses "#rgb" or "#rrggbb".
func ParseHex(s string) (color.RGBA, error) {
	if len(s) == 4 && s[0] == '#' {
		s = string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("scale: invalid colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Hex formats c as "#rrggbb".
func Hex(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "#000000"
	}
	return cf.Hex()
}

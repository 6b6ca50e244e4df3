package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/matzehuels/swapcharts/pkg/chart"
	"github.com/matzehuels/swapcharts/pkg/render"
	"github.com/matzehuels/swapcharts/pkg/render/nodelink"
	"github.com/matzehuels/swapcharts/pkg/render/svg"
	"github.com/matzehuels/swapcharts/pkg/viewport"
)

// Render draws m in formats. Formats that need a drawing are listed in
// skipped, not failed, when the model is empty.
func Render(ctx context.Context, m chart.Model, formats []string, opts Options) (artifacts map[string][]byte, skipped []string, err error) {
	artifacts = make(map[string][]byte)

	// The SVG is drawn once and converted for PNG and PDF.
	var doc []byte
	var empty bool
	drawn := func() ([]byte, error) {
		if doc != nil || empty {
			return doc, nil
		}
		d, err := DrawSVG(m, opts)
		if stderrors.Is(err, render.ErrNothingToDraw) {
			empty = true
			return nil, nil
		}
		doc = d
		return d, err
	}

	for _, format := range formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG, FormatPNG, FormatPDF:
			data, err = drawn()
			if err == nil && data == nil {
				skipped = append(skipped, format)
				continue
			}
			if err == nil && format == FormatPNG {
				data, err = render.ToPNG(ctx, data, opts.Scale)
			}
			if err == nil && format == FormatPDF {
				data, err = render.ToPDF(ctx, data)
			}
		case FormatJSON:
			data, err = json.MarshalIndent(m.Data(), "", "  ")
		case FormatDOT:
			g, ok := chart.Graph(m)
			if !ok {
				return nil, nil, fmt.Errorf("dot output needs the flow chart, got %s", m.Kind())
			}
			data = []byte(nodelink.ToDOT(g, nodelink.Options{Detailed: true, Theme: opts.Theme}))
		default:
			return nil, nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, nil, fmt.Errorf("render %s %s: %w", m.Kind(), format, err)
		}
		artifacts[format] = data
	}
	return artifacts, skipped, nil
}

// DrawSVG draws m at the options' size. The element ids are scoped by the
// chart kind so the output is stable across runs.
func DrawSVG(m chart.Model, opts Options) ([]byte, error) {
	return m.Draw(viewport.Size{Width: opts.Width, Height: opts.Height},
		svg.WithID(string(m.Kind())),
		svg.WithTheme(opts.Theme),
		svg.WithBandPadding(opts.BandPadding))
}

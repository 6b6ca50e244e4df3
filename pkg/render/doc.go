// Package render holds what the chart renderers share.
//
// # Overview
//
// The chart renderers live in subpackages:
//
//   - [svg]: stacked bars, heatmap, and Sankey diagrams as SVG documents
//   - [nodelink]: the flow graph as a Graphviz node-link diagram
//
// This package provides the [Theme] they draw with, the [ErrNothingToDraw]
// sentinel they return when there is no data or no size, and conversion
// of any SVG to PDF or PNG.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert an SVG using the external
// rsvg-convert tool (from librsvg):
//
//	doc, err := svg.Bars(data, size, svg.WithTheme(theme))
//	pdf, err := render.ToPDF(ctx, doc)
//	png, err := render.ToPNG(ctx, doc, 2.0)  // 2x scale
//
// # Full redraw
//
// Every render call builds a complete document from scratch. Callers
// replace the previous output wholesale; nothing is diffed.
//
// [svg]: github.com/matzehuels/swapcharts/pkg/render/svg
// [nodelink]: github.com/matzehuels/swapcharts/pkg/render/nodelink
package render

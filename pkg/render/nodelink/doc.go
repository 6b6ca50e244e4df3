// Package nodelink renders the book flow graph as a node-link diagram.
//
// # Overview
//
// This package is an alternative view of the data behind the Sankey
// chart: each category is a box, each transition an arrow labelled with
// its count. Layout is done by Graphviz, with one rank per flow layer
// from left to right.
//
// # Usage
//
// Convert a flow graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: node labels include the node's total flow
//   - Theme: colours for nodes, arrows, and background
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink

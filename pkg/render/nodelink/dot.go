package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/swapcharts/pkg/aggregate"
	"github.com/matzehuels/swapcharts/pkg/render"
	"github.com/matzehuels/swapcharts/pkg/scale"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds each node's total flow to its label.
	Detailed bool
	// Theme colours the diagram. Empty fields use the default theme.
	Theme render.Theme
}

const (
	penMin = 1.0
	penMax = 12.0
)

// ToDOT converts a flow graph to Graphviz DOT format. Layers become ranks
// laid out left to right; arrow thickness follows link weight.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(g *aggregate.FlowGraph, opts Options) string {
	theme := opts.Theme.WithDefaults()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", theme.Background)
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fillcolor=white, color=%q, fontcolor=%q, fontname=%q, fontsize=14, margin=\"0.2,0.1\"];\n",
		theme.Foreground, theme.Foreground, theme.FontFamily)
	fmt.Fprintf(&buf, "  edge [color=%q, fontcolor=%q, fontname=%q, fontsize=11];\n",
		theme.Foreground, theme.Foreground, theme.FontFamily)
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	if g == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	flow := nodeFlow(g)
	for layer, name := range aggregate.LayerNames {
		nodes := g.Layer(layer)
		if len(nodes) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "  subgraph \"cluster_%d\" {\n", layer)
		fmt.Fprintf(&buf, "    label=%q;\n", name)
		buf.WriteString("    style=dashed;\n")
		fmt.Fprintf(&buf, "    color=%q;\n", theme.Foreground)
		buf.WriteString("    rank=same;\n")
		for _, n := range nodes {
			fill := theme.Palette[layer%len(theme.Palette)]
			fmt.Fprintf(&buf, "    %q [%s];\n", n.Name, strings.Join(fmtAttrs(n, flow[n.Name], fill, opts.Detailed), ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	heaviest := 0
	for _, l := range g.Links {
		heaviest = max(heaviest, l.Value)
	}
	for _, l := range g.Links {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q, penwidth=%.2f];\n",
			l.Source, l.Target, strconv.Itoa(l.Value), penWidth(l.Value, heaviest))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n aggregate.FlowNode, flow int, detailed bool) string {
	if !detailed {
		return n.Name
	}
	return fmt.Sprintf("%s\n%d books", n.Name, flow)
}

func fmtAttrs(n aggregate.FlowNode, flow int, fill string, detailed bool) []string {
	return []string{
		fmt.Sprintf("label=%q", fmtLabel(n, flow, detailed)),
		fmt.Sprintf("fillcolor=%q", translucent(fill)),
	}
}

// translucent returns fill as "#rrggbb40". Short "#rgb" colours are
// expanded first; unparsable ones fall back to the default node fill.
func translucent(fill string) string {
	c, err := scale.ParseHex(fill)
	if err != nil {
		return "white"
	}
	return scale.Hex(c) + "40"
}

// nodeFlow returns max(inflow, outflow) per node.
func nodeFlow(g *aggregate.FlowGraph) map[string]int {
	in := make(map[string]int)
	out := make(map[string]int)
	for _, l := range g.Links {
		out[l.Source] += l.Value
		in[l.Target] += l.Value
	}
	flow := make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		flow[n.Name] = max(in[n.Name], out[n.Name])
	}
	return flow
}

func penWidth(v, heaviest int) float64 {
	if heaviest <= 0 {
		return penMin
	}
	return penMin + (penMax-penMin)*float64(v)/float64(heaviest)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized root element with a
// pixel-sized one so the diagram scales like the other charts.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPNG].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}

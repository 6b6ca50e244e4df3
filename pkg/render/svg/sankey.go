package svg

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/matzehuels/swapcharts/pkg/aggregate"
	"github.com/matzehuels/swapcharts/pkg/render"
	"github.com/matzehuels/swapcharts/pkg/scale"
	"github.com/matzehuels/swapcharts/pkg/viewport"
)

// SankeyMargins frame the flow diagram. The top margin holds the title
// and layer headings.
var SankeyMargins = scale.Margins{Top: 0.12, Right: 0.16, Bottom: 0.04, Left: 0.04}

const (
	nodeWidthRatio   = 0.015
	nodePaddingRatio = 0.02
	linkOpacity      = 0.4
)

// SankeyNode is a placed node rectangle.
type SankeyNode struct {
	Name   string
	Layer  int
	Value  int
	X0, X1 float64
	Y0, Y1 float64
}

// SankeyLink is a placed link band. SY and TY are the centre of the band
// where it leaves the source and enters the target.
type SankeyLink struct {
	Source, Target string
	Value          int
	Width          float64
	SY, TY         float64
}

// SankeyLayout is the geometry of a flow diagram.
type SankeyLayout struct {
	Nodes []SankeyNode
	Links []SankeyLink
	// KY is pixels per unit of flow.
	KY float64
}

// Node returns the placed node with the given name.
func (l *SankeyLayout) Node(name string) (SankeyNode, bool) {
	for _, n := range l.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return SankeyNode{}, false
}

// LayoutSankey places nodes in one column per layer and stacks links on
// them. A node's height is max(inflow, outflow) times KY, and KY is the
// largest value that fits the fullest column into area. Nodes within a
// column are ordered by value, largest first, and the column is centred
// vertically.
func LayoutSankey(g *aggregate.FlowGraph, area scale.Rect) (*SankeyLayout, error) {
	if g.Empty() || area.Width <= 0 || area.Height <= 0 {
		return nil, render.ErrNothingToDraw
	}

	in := make(map[string]int)
	out := make(map[string]int)
	for _, l := range g.Links {
		out[l.Source] += l.Value
		in[l.Target] += l.Value
	}

	layers := make([][]SankeyNode, len(aggregate.LayerNames))
	for _, n := range g.Nodes {
		v := max(in[n.Name], out[n.Name])
		if v == 0 || n.Layer < 0 || n.Layer >= len(layers) {
			continue
		}
		layers[n.Layer] = append(layers[n.Layer], SankeyNode{Name: n.Name, Layer: n.Layer, Value: v})
	}

	nodeWidth := max(area.Width*nodeWidthRatio, 2)
	padding := area.Height * nodePaddingRatio
	ky := columnScale(layers, area.Height, padding)
	if ky <= 0 {
		padding = 0
		ky = columnScale(layers, area.Height, padding)
	}

	columns := len(layers) - 1
	layout := &SankeyLayout{KY: ky}
	for i, col := range layers {
		slices.SortFunc(col, func(a, b SankeyNode) int {
			if c := cmp.Compare(b.Value, a.Value); c != 0 {
				return c
			}
			return cmp.Compare(a.Name, b.Name)
		})
		x0 := area.X + float64(i)*(area.Width-nodeWidth)/float64(columns)
		used := 0.0
		for _, n := range col {
			used += float64(n.Value) * ky
		}
		used += float64(max(len(col)-1, 0)) * padding
		y := area.Y + (area.Height-used)/2
		for _, n := range col {
			n.X0, n.X1 = x0, x0+nodeWidth
			n.Y0 = y
			n.Y1 = y + float64(n.Value)*ky
			y = n.Y1 + padding
			layout.Nodes = append(layout.Nodes, n)
		}
	}

	placed := make(map[string]SankeyNode, len(layout.Nodes))
	for _, n := range layout.Nodes {
		placed[n.Name] = n
	}
	layout.Links = stackLinks(g.Links, placed, ky)
	return layout, nil
}

// columnScale returns the pixels per unit that fit every column.
func columnScale(layers [][]SankeyNode, height, padding float64) float64 {
	ky := -1.0
	for _, col := range layers {
		if len(col) == 0 {
			continue
		}
		total := 0
		for _, n := range col {
			total += n.Value
		}
		k := (height - float64(len(col)-1)*padding) / float64(total)
		if ky < 0 || k < ky {
			ky = k
		}
	}
	return ky
}

// stackLinks assigns each link a band on its source's right edge and its
// target's left edge. Bands on a node are ordered by the position of the
// node at the other end so links cross as little as possible.
func stackLinks(links []aggregate.FlowLink, nodes map[string]SankeyNode, ky float64) []SankeyLink {
	out := make([]SankeyLink, 0, len(links))
	for _, l := range links {
		if _, ok := nodes[l.Source]; !ok {
			continue
		}
		if _, ok := nodes[l.Target]; !ok {
			continue
		}
		out = append(out, SankeyLink{
			Source: l.Source,
			Target: l.Target,
			Value:  l.Value,
			Width:  float64(l.Value) * ky,
		})
	}

	bySource := make(map[string][]int)
	byTarget := make(map[string][]int)
	for i, l := range out {
		bySource[l.Source] = append(bySource[l.Source], i)
		byTarget[l.Target] = append(byTarget[l.Target], i)
	}
	for name, idx := range bySource {
		slices.SortFunc(idx, func(a, b int) int {
			return cmp.Compare(nodes[out[a].Target].Y0, nodes[out[b].Target].Y0)
		})
		y := nodes[name].Y0
		for _, i := range idx {
			out[i].SY = y + out[i].Width/2
			y += out[i].Width
		}
	}
	for name, idx := range byTarget {
		slices.SortFunc(idx, func(a, b int) int {
			return cmp.Compare(nodes[out[a].Source].Y0, nodes[out[b].Source].Y0)
		})
		y := nodes[name].Y0
		for _, i := range idx {
			out[i].TY = y + out[i].Width/2
			y += out[i].Width
		}
	}
	return out
}

// Sankey draws the flow graph as a four-column Sankey diagram. Links take
// the colour of the genre they originate from when the source is a genre
// node and of their source node otherwise.
func Sankey(g *aggregate.FlowGraph, size viewport.Size, opts ...Option) ([]byte, error) {
	if !size.Measured() || g.Empty() {
		return nil, render.ErrNothingToDraw
	}
	o := newOptions("Book Flow: Genre → Age → Adaptation → Bestseller", opts)
	area := SankeyMargins.Inner(size)

	layout, err := LayoutSankey(g, area)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(layout.Nodes))
	for i, n := range layout.Nodes {
		names[i] = n.Name
	}
	colors, err := scale.NewOrdinal(names, o.theme.Palette)
	if err != nil {
		return nil, err
	}

	c := newCanvas("sankey", size, o)
	c.title(o.title)

	c.open("layer-headings")
	for layer, name := range aggregate.LayerNames {
		for _, n := range layout.Nodes {
			if n.Layer == layer {
				c.text((n.X0+n.X1)/2, area.Y-c.font*0.8, name, c.font, layerAnchor(layer), `font-weight="bold"`)
				break
			}
		}
	}
	c.close()

	c.open("links")
	for _, l := range layout.Links {
		s, _ := layout.Node(l.Source)
		t, _ := layout.Node(l.Target)
		c.path(linkPath(s.X1, l.SY, t.X0, l.TY),
			`fill="none"`,
			fmt.Sprintf(`stroke="%s"`, escape(colors.Map(l.Source))),
			fmt.Sprintf(`stroke-width="%.2f"`, max(l.Width, 1)),
			fmt.Sprintf(`stroke-opacity="%.2f"`, linkOpacity),
			fmt.Sprintf(`data-source="%s"`, escape(l.Source)),
			fmt.Sprintf(`data-target="%s"`, escape(l.Target)),
			fmt.Sprintf(`data-value="%d"`, l.Value))
	}
	c.close()

	c.open("nodes")
	for _, n := range layout.Nodes {
		c.rect(n.X0, n.Y0, n.X1-n.X0, n.Y1-n.Y0, colors.Map(n.Name),
			fmt.Sprintf(`data-node="%s"`, escape(n.Name)),
			fmt.Sprintf(`data-value="%d"`, n.Value))
	}
	c.close()

	// Labels sit right of their node, haloed in the background colour.
	c.open("node-labels")
	for _, n := range layout.Nodes {
		y := (n.Y0+n.Y1)/2 + c.font*0.35
		c.text(n.X1+c.font*0.4, y, n.Name, c.font, "start", `paint-order="stroke"`,
			fmt.Sprintf(`stroke="%s"`, escape(o.theme.Background)), `stroke-width="3"`)
	}
	c.close()
	return c.bytes(), nil
}

// linkPath is a horizontal cubic Bézier from (x0, y0) to (x1, y1) with
// both control points at the midpoint x.
func linkPath(x0, y0, x1, y1 float64) string {
	xm := (x0 + x1) / 2
	return fmt.Sprintf("M%.2f,%.2fC%.2f,%.2f %.2f,%.2f %.2f,%.2f", x0, y0, xm, y0, xm, y1, x1, y1)
}

func layerAnchor(layer int) string {
	switch layer {
	case 0:
		return "start"
	case len(aggregate.LayerNames) - 1:
		return "end"
	}
	return "middle"
}

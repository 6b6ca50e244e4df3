package aggregate

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/swapcharts/pkg/dataset"
)

// DefaultFlowTopGenres is how many genres enter the flow graph.
const DefaultFlowTopGenres = 10

// Flow graph layers, left to right.
const (
	LayerGenre = iota
	LayerAge
	LayerMovie
	LayerBestseller
	numLayers
)

// LayerNames are the display names of the flow layers.
var LayerNames = [numLayers]string{"Genre", "Age Category", "Movie Adaptation", "Bestseller"}

// FlowNode is a category label placed in one layer.
type FlowNode struct {
	Name  string `json:"name"`
	Layer int    `json:"layer"`
}

// FlowLink counts rows that pass from Source to Target in adjacent layers.
type FlowLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Value  int    `json:"value"`
}

// FlowGraph is a layered flow graph. Node names are unique across layers.
type FlowGraph struct {
	Nodes []FlowNode `json:"nodes"`
	Links []FlowLink `json:"links"`
	// Dropped counts rows whose genre was outside the top-N.
	Dropped int `json:"dropped"`
}

// Empty reports whether there is nothing to draw.
func (g *FlowGraph) Empty() bool { return g == nil || len(g.Links) == 0 }

// Layer returns the nodes of one layer in name order.
func (g *FlowGraph) Layer(layer int) []FlowNode {
	var out []FlowNode
	for _, n := range g.Nodes {
		if n.Layer == layer {
			out = append(out, n)
		}
	}
	return out
}

// NodeLayer returns the layer of the named node.
func (g *FlowGraph) NodeLayer(name string) (int, bool) {
	for _, n := range g.Nodes {
		if n.Name == name {
			return n.Layer, true
		}
	}
	return 0, false
}

// Flow builds the Genre → Age → Movie → Bestseller graph from rows whose
// genre is among the topN most frequent; other rows are dropped. Each row
// contributes one unit to each of its three transitions, so identical
// (source, target) pairs share one link. Missing fields become [Unknown].
// A label used in more than one layer keeps its plain name in the lowest
// layer and is suffixed with the layer name elsewhere, so every node name
// belongs to exactly one layer. topN <= 0 uses [DefaultFlowTopGenres].
func Flow(rows []dataset.Row, topN int) *FlowGraph {
	if topN <= 0 {
		topN = DefaultFlowTopGenres
	}
	keep := toSet(TopN(GenreCounts(rows), topN))

	type path [numLayers]string
	var paths []path
	raw := [numLayers]map[string]bool{}
	for i := range raw {
		raw[i] = make(map[string]bool)
	}

	g := &FlowGraph{}
	for _, r := range rows {
		genre := r.GetOr(dataset.FieldGenre, Unknown)
		if !keep[genre] {
			g.Dropped++
			continue
		}
		p := path{
			genre,
			r.GetOr(dataset.FieldAgeCategory, Unknown),
			MovieLabel(r.GetOr(dataset.FieldMovie, "")),
			BestsellerLabel(r.GetOr(dataset.FieldBestseller, "")),
		}
		for layer, label := range p {
			raw[layer][label] = true
		}
		paths = append(paths, p)
	}

	names := resolveNames(raw)

	type key struct{ source, target string }
	weights := make(map[key]int)
	for _, p := range paths {
		for layer := 0; layer < numLayers-1; layer++ {
			k := key{names[layer][p[layer]], names[layer+1][p[layer+1]]}
			weights[k]++
		}
	}

	for layer := range numLayers {
		for _, name := range names[layer] {
			g.Nodes = append(g.Nodes, FlowNode{Name: name, Layer: layer})
		}
	}
	slices.SortFunc(g.Nodes, func(a, b FlowNode) int {
		if c := cmp.Compare(a.Layer, b.Layer); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	layerOf := make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		layerOf[n.Name] = n.Layer
	}
	for k, w := range weights {
		g.Links = append(g.Links, FlowLink{Source: k.source, Target: k.target, Value: w})
	}
	slices.SortFunc(g.Links, func(a, b FlowLink) int {
		if c := cmp.Compare(layerOf[a.Source], layerOf[b.Source]); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Source, b.Source); c != 0 {
			return c
		}
		return cmp.Compare(a.Target, b.Target)
	})
	return g
}

// resolveNames maps each layer's raw labels to layer-unique node names.
func resolveNames(raw [numLayers]map[string]bool) [numLayers]map[string]string {
	var names [numLayers]map[string]string
	claimed := make(map[string]bool)
	for layer := range numLayers {
		names[layer] = make(map[string]string, len(raw[layer]))
		labels := make([]string, 0, len(raw[layer]))
		for l := range raw[layer] {
			labels = append(labels, l)
		}
		slices.Sort(labels)
		for _, label := range labels {
			name := label
			for claimed[name] {
				name += " (" + LayerNames[layer] + ")"
			}
			claimed[name] = true
			names[layer][label] = name
		}
	}
	return names
}

// MovieLabel names a movie-adaptation value. Boolean-like values become
// "Adapted" or "Not Adapted"; other values pass through.
func MovieLabel(v string) string {
	return boolLabel(v, "Adapted", "Not Adapted")
}

// BestsellerLabel names a bestseller value. Boolean-like values become
// "Bestseller" or "Not Bestseller"; other values pass through.
func BestsellerLabel(v string) string {
	return boolLabel(v, "Bestseller", "Not Bestseller")
}

func boolLabel(v, yes, no string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "":
		return Unknown
	case "true", "yes", "y", "1":
		return yes
	case "false", "no", "n", "0":
		return no
	}
	return v
}

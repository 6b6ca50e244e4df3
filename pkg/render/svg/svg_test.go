package svg

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/swapcharts/pkg/aggregate"
	"github.com/matzehuels/swapcharts/pkg/dataset"
	"github.com/matzehuels/swapcharts/pkg/render"
	"github.com/matzehuels/swapcharts/pkg/scale"
	"github.com/matzehuels/swapcharts/pkg/viewport"
)

var size = viewport.Size{Width: 800, Height: 480}

func rows() []dataset.Row {
	mk := func(genre, age, year, best, movie string) dataset.Row {
		return dataset.Row{
			dataset.FieldGenre:       genre,
			dataset.FieldAgeCategory: age,
			dataset.FieldYear:        year,
			dataset.FieldBestseller:  best,
			dataset.FieldMovie:       movie,
		}
	}
	return []dataset.Row{
		mk("Fiction", "Adult", "1994", "True", "False"),
		mk("Fiction", "Adult", "1996", "False", "False"),
		mk("Fiction", "Teen", "2003", "True", "True"),
		mk("Mystery", "Adult", "1988", "True", "False"),
		mk("Fantasy & Sci-Fi", "Child", "2011", "False", "True"),
	}
}

// wellFormed fails the test unless doc parses as XML.
func wellFormed(t *testing.T, doc []byte) {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(doc))
	for {
		_, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			t.Fatalf("invalid XML: %v\n%s", err, doc)
		}
	}
}

func TestRenderers_NothingToDraw(t *testing.T) {
	bars := aggregate.Bars(rows())
	heat := aggregate.Heatmap(rows(), 20)
	flow := aggregate.Flow(rows(), 10)

	tests := []struct {
		name string
		fn   func() ([]byte, error)
	}{
		{"bars/zero size", func() ([]byte, error) { return Bars(bars, viewport.Size{}) }},
		{"bars/empty", func() ([]byte, error) { return Bars(nil, size) }},
		{"heatmap/zero size", func() ([]byte, error) { return Heatmap(heat, viewport.Size{}) }},
		{"heatmap/empty", func() ([]byte, error) { return Heatmap(aggregate.HeatmapData{}, size) }},
		{"sankey/zero size", func() ([]byte, error) { return Sankey(flow, viewport.Size{}) }},
		{"sankey/empty", func() ([]byte, error) { return Sankey(aggregate.Flow(nil, 10), size) }},
		{"sankey/nil", func() ([]byte, error) { return Sankey(nil, size) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.fn()
			if !errors.Is(err, render.ErrNothingToDraw) {
				t.Errorf("error = %v, want ErrNothingToDraw", err)
			}
			if len(out) != 0 {
				t.Errorf("got %d bytes of output, want none", len(out))
			}
		})
	}
}

func TestBars(t *testing.T) {
	doc, err := Bars(aggregate.Bars(rows()), size, WithID("bars-test"))
	if err != nil {
		t.Fatalf("Bars: %v", err)
	}
	wellFormed(t, doc)
	s := string(doc)
	for _, want := range []string{
		`id="bars-test"`,
		`data-category="Fiction" data-stack="Adult" data-value="2"`,
		`data-category="Fiction" data-stack="Teen" data-value="1"`,
		"Fantasy &amp; Sci-Fi",
		"Number of Books",
		"Age Category",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if n := strings.Count(s, "data-stack="); n != 4 {
		t.Errorf("bar segments = %d, want 4", n)
	}
}

func TestBars_FullRedraw(t *testing.T) {
	data := aggregate.Bars(rows())
	a, err := Bars(data, size, WithID("x"))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Bars(data, size, WithID("x"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("identical input produced different documents")
	}
	if strings.Count(string(a), "<svg") != 1 {
		t.Error("document should contain exactly one root element")
	}
}

func TestHeatmap(t *testing.T) {
	doc, err := Heatmap(aggregate.Heatmap(rows(), 20), size, WithID("heat"))
	if err != nil {
		t.Fatalf("Heatmap: %v", err)
	}
	wellFormed(t, doc)
	s := string(doc)
	for _, want := range []string{
		`data-genre="Fiction" data-decade="1990" data-value="2"`,
		"1980s",
		"2010s",
		`id="heat-gradient"`,
		"url(#heat-gradient)",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestHeatmap_ScopedIDsDiffer(t *testing.T) {
	data := aggregate.Heatmap(rows(), 20)
	a, _ := Heatmap(data, size)
	b, _ := Heatmap(data, size)
	if bytes.Equal(a, b) {
		t.Error("two charts without explicit ids share element ids")
	}
}

func TestLayoutSankey(t *testing.T) {
	g := aggregate.Flow(rows(), 10)
	area := scale.Rect{X: 10, Y: 20, Width: 600, Height: 400}
	l, err := LayoutSankey(g, area)
	if err != nil {
		t.Fatalf("LayoutSankey: %v", err)
	}

	if len(l.Nodes) != len(g.Nodes) {
		t.Errorf("placed %d nodes, want %d", len(l.Nodes), len(g.Nodes))
	}
	for _, n := range l.Nodes {
		if n.Y0 < area.Y-1e-6 || n.Y1 > area.Bottom()+1e-6 {
			t.Errorf("node %q [%v, %v] outside area", n.Name, n.Y0, n.Y1)
		}
		if n.X0 < area.X-1e-6 || n.X1 > area.Right()+1e-6 {
			t.Errorf("node %q x [%v, %v] outside area", n.Name, n.X0, n.X1)
		}
		if h := n.Y1 - n.Y0; math.Abs(h-float64(n.Value)*l.KY) > 1e-6 {
			t.Errorf("node %q height %v, want %v", n.Name, h, float64(n.Value)*l.KY)
		}
	}

	// Every genre-layer node only has outflow; its value is the outflow.
	fiction, ok := l.Node("Fiction")
	if !ok || fiction.Value != 3 {
		t.Errorf("Fiction = %+v, want value 3", fiction)
	}

	for _, link := range l.Links {
		if math.Abs(link.Width-float64(link.Value)*l.KY) > 1e-6 {
			t.Errorf("link %s->%s width %v, want %v", link.Source, link.Target, link.Width, float64(link.Value)*l.KY)
		}
		s, _ := l.Node(link.Source)
		tg, _ := l.Node(link.Target)
		if link.SY-link.Width/2 < s.Y0-1e-6 || link.SY+link.Width/2 > s.Y1+1e-6 {
			t.Errorf("link %s->%s leaves outside its source", link.Source, link.Target)
		}
		if link.TY-link.Width/2 < tg.Y0-1e-6 || link.TY+link.Width/2 > tg.Y1+1e-6 {
			t.Errorf("link %s->%s enters outside its target", link.Source, link.Target)
		}
		if s.Layer+1 != tg.Layer {
			t.Errorf("link %s->%s skips layers", link.Source, link.Target)
		}
	}
}

func TestLayoutSankey_Columns(t *testing.T) {
	l, err := LayoutSankey(aggregate.Flow(rows(), 10), scale.Rect{Width: 400, Height: 300})
	if err != nil {
		t.Fatal(err)
	}
	x := make(map[int]float64)
	for _, n := range l.Nodes {
		if prev, ok := x[n.Layer]; ok && prev != n.X0 {
			t.Errorf("layer %d has nodes at x %v and %v", n.Layer, prev, n.X0)
		}
		x[n.Layer] = n.X0
	}
	for layer := 1; layer < len(aggregate.LayerNames); layer++ {
		if x[layer] <= x[layer-1] {
			t.Errorf("layer %d at x %v is not right of layer %d at %v", layer, x[layer], layer-1, x[layer-1])
		}
	}
}

func TestSankey(t *testing.T) {
	doc, err := Sankey(aggregate.Flow(rows(), 10), size, WithTitle("Flows"))
	if err != nil {
		t.Fatalf("Sankey: %v", err)
	}
	wellFormed(t, doc)
	s := string(doc)
	for _, want := range []string{
		"Flows",
		`data-source="Fiction" data-target="Adult" data-value="2"`,
		`data-node="Bestseller"`,
		"Movie Adaptation",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Short", 200, 10); got != "Short" {
		t.Errorf("truncate(Short) = %q", got)
	}
	got := truncate("A very long genre name indeed", 60, 10)
	if !strings.HasSuffix(got, "..") || len([]rune(got)) != 10 {
		t.Errorf("truncate(long) = %q", got)
	}
}

func TestWithBandPadding_NonPositiveKeepsDefault(t *testing.T) {
	data := aggregate.Bars(rows())
	want, err := Bars(data, size, WithID("pad"))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name    string
		padding float64
	}{
		{"zero", 0},
		{"negative", -0.2},
		{"default", scale.DefaultBandPadding},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Bars(data, size, WithID("pad"), WithBandPadding(tt.padding))
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, want) {
				t.Errorf("WithBandPadding(%v) changed the default layout", tt.padding)
			}
		})
	}
}

func TestHeatmap_CellPaddingFloor(t *testing.T) {
	data := aggregate.Heatmap(rows(), 20)
	draw := func(p float64) []byte {
		t.Helper()
		doc, err := Heatmap(data, size, WithID("heat"), WithBandPadding(p))
		if err != nil {
			t.Fatalf("Heatmap(padding %v): %v", p, err)
		}
		return doc
	}

	floor := draw(2 * scale.MinBandPadding)
	tests := []struct {
		name    string
		padding float64
		same    bool
	}{
		{"at minimum", scale.MinBandPadding, true},
		{"below minimum", scale.MinBandPadding / 4, true},
		{"wide", 0.4, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bytes.Equal(draw(tt.padding), floor); got != tt.same {
				t.Errorf("padding %v: same layout as the floor = %v, want %v", tt.padding, got, tt.same)
			}
		})
	}
}

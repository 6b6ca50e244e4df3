package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/swapcharts/pkg/aggregate"
	"github.com/matzehuels/swapcharts/pkg/render"
)

func testGraph() *aggregate.FlowGraph {
	return &aggregate.FlowGraph{
		Nodes: []aggregate.FlowNode{
			{Name: "Fiction", Layer: aggregate.LayerGenre},
			{Name: "Adult", Layer: aggregate.LayerAge},
			{Name: "Teen", Layer: aggregate.LayerAge},
		},
		Links: []aggregate.FlowLink{
			{Source: "Fiction", Target: "Adult", Value: 4},
			{Source: "Fiction", Target: "Teen", Value: 1},
		},
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(testGraph(), Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, "rankdir=LR") {
		t.Error("ToDOT() output should lay out left to right")
	}
	if !strings.Contains(dot, `"Fiction"`) {
		t.Error("ToDOT() output missing node Fiction")
	}
	if !strings.Contains(dot, `"Fiction" -> "Adult" [label="4", penwidth=12.00]`) {
		t.Errorf("ToDOT() output missing heaviest edge:\n%s", dot)
	}
	if !strings.Contains(dot, `label="Age Category"`) {
		t.Error("ToDOT() output missing layer cluster")
	}
	if strings.Contains(dot, "cluster_2") {
		t.Error("ToDOT() should skip empty layers")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(testGraph(), Options{Detailed: true})
	if !strings.Contains(dot, `"Fiction\n5 books"`) {
		t.Errorf("ToDOT() detailed output missing node flow:\n%s", dot)
	}
}

func TestToDOT_Theme(t *testing.T) {
	dot := ToDOT(testGraph(), Options{Theme: render.Theme{Background: "#123456"}})
	if !strings.Contains(dot, `bgcolor="#123456"`) {
		t.Error("ToDOT() ignored theme background")
	}
}

func TestToDOT_ShortHexPalette(t *testing.T) {
	dot := ToDOT(testGraph(), Options{Theme: render.Theme{Palette: []string{"#abc"}}})
	if !strings.Contains(dot, `fillcolor="#aabbcc40"`) {
		t.Errorf("ToDOT() did not expand short palette colour:\n%s", dot)
	}
	if strings.Contains(dot, "#abc40") {
		t.Error("ToDOT() appended alpha to a short hex colour")
	}
}

func TestTranslucent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#abc", "#aabbcc40"},
		{"#4E79A7", "#4e79a740"},
		{"#000", "#00000040"},
		{"bogus", "white"},
		{"", "white"},
	}
	for _, tt := range tests {
		if got := translucent(tt.in); got != tt.want {
			t.Errorf("translucent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToDOT_Nil(t *testing.T) {
	dot := ToDOT(nil, Options{})
	if !strings.HasSuffix(dot, "}\n") {
		t.Errorf("ToDOT(nil) = %q", dot)
	}
}

func TestPenWidth(t *testing.T) {
	tests := []struct {
		v, heaviest int
		want        float64
	}{
		{0, 0, penMin},
		{10, 10, penMax},
		{5, 10, penMin + (penMax-penMin)/2},
	}
	for _, tt := range tests {
		if got := penWidth(tt.v, tt.heaviest); got != tt.want {
			t.Errorf("penWidth(%d, %d) = %v, want %v", tt.v, tt.heaviest, got, tt.want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
}

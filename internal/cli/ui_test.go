package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/swapcharts/pkg/chart"
	"github.com/matzehuels/swapcharts/pkg/pipeline"
)

// captureUI redirects status output for the duration of a test.
func captureUI(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := uiOut
	uiOut = &buf
	t.Cleanup(func() { uiOut = prev })
	return &buf
}

func TestPrintStats(t *testing.T) {
	tests := []struct {
		name   string
		charts []*pipeline.ChartResult
		want   string
	}{
		{"all cached", []*pipeline.ChartResult{{Kind: chart.KindBar, CacheHit: true}, {Kind: chart.KindFlow, CacheHit: true}}, "cached"},
		{"one fresh", []*pipeline.ChartResult{{Kind: chart.KindBar, CacheHit: true}, {Kind: chart.KindFlow}}, "fresh"},
		{"no charts", nil, "fresh"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureUI(t)
			printStats(&pipeline.Result{Charts: tt.charts, Stats: pipeline.Stats{Rows: 12}})
			out := buf.String()
			if !strings.Contains(out, "12 rows") || !strings.Contains(out, tt.want) {
				t.Errorf("printStats = %q, want rows and %q", out, tt.want)
			}
		})
	}
}

func TestStatusLines(t *testing.T) {
	buf := captureUI(t)
	printSuccess("wrote %d files", 3)
	printWarning("bar chart has nothing to draw")
	printFile("out/books_bar.svg")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), buf.String())
	}
	for i, want := range []string{"wrote 3 files", "nothing to draw", "out/books_bar.svg"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want %q", i, lines[i], want)
		}
	}
}

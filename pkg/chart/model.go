package chart

import (
	"github.com/matzehuels/swapcharts/pkg/aggregate"
	"github.com/matzehuels/swapcharts/pkg/dataset"
	"github.com/matzehuels/swapcharts/pkg/errors"
	"github.com/matzehuels/swapcharts/pkg/render/svg"
	"github.com/matzehuels/swapcharts/pkg/viewport"
)

// Settings tune aggregation and layout. Zero values use the package
// defaults.
type Settings struct {
	BandPadding      float64
	HeatmapTopGenres int
	FlowTopGenres    int
}

// Model is the aggregated data of one chart.
type Model interface {
	// Kind reports which chart the model belongs to.
	Kind() Kind
	// Empty reports whether there is nothing to draw.
	Empty() bool
	// Draw renders the model at size. It returns render.ErrNothingToDraw
	// for an empty model or an unmeasured size.
	Draw(size viewport.Size, opts ...svg.Option) ([]byte, error)
	// Data returns the aggregate for JSON export.
	Data() any
}

// Aggregate runs the reducer for kind over rows.
func Aggregate(kind Kind, rows []dataset.Row, s Settings) (Model, error) {
	kind, err := ParseKind(string(kind))
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindBar:
		return barModel{aggregate.Bars(rows)}, nil
	case KindHeatmap:
		return heatmapModel{aggregate.Heatmap(rows, s.HeatmapTopGenres)}, nil
	case KindFlow:
		return flowModel{aggregate.Flow(rows, s.FlowTopGenres)}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidChart, "no reducer for chart %q", kind)
}

type barModel struct{ data aggregate.BarData }

func (m barModel) Kind() Kind  { return KindBar }
func (m barModel) Empty() bool { return len(m.data) == 0 }
func (m barModel) Data() any   { return m.data }
func (m barModel) Draw(size viewport.Size, opts ...svg.Option) ([]byte, error) {
	return svg.Bars(m.data, size, opts...)
}

type heatmapModel struct{ data aggregate.HeatmapData }

func (m heatmapModel) Kind() Kind  { return KindHeatmap }
func (m heatmapModel) Empty() bool { return m.data.Empty() }
func (m heatmapModel) Data() any   { return m.data }
func (m heatmapModel) Draw(size viewport.Size, opts ...svg.Option) ([]byte, error) {
	return svg.Heatmap(m.data, size, opts...)
}

type flowModel struct{ graph *aggregate.FlowGraph }

func (m flowModel) Kind() Kind  { return KindFlow }
func (m flowModel) Empty() bool { return m.graph.Empty() }
func (m flowModel) Data() any   { return m.graph }
func (m flowModel) Draw(size viewport.Size, opts ...svg.Option) ([]byte, error) {
	return svg.Sankey(m.graph, size, opts...)
}

// Graph returns the flow graph behind a flow model.
func Graph(m Model) (*aggregate.FlowGraph, bool) {
	fm, ok := m.(flowModel)
	if !ok {
		return nil, false
	}
	return fm.graph, true
}

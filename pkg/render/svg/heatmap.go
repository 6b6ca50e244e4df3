package svg

import (
	"fmt"
	"strconv"

	"github.com/matzehuels/swapcharts/pkg/aggregate"
	"github.com/matzehuels/swapcharts/pkg/render"
	"github.com/matzehuels/swapcharts/pkg/scale"
	"github.com/matzehuels/swapcharts/pkg/viewport"
)

// HeatmapMargins frame the heatmap grid; the left margin holds genre
// labels and the right margin the colour bar.
var HeatmapMargins = scale.Margins{Top: 0.1, Right: 0.14, Bottom: 0.15, Left: 0.18}

// Heatmap draws a genre × decade grid with cells coloured by count.
func Heatmap(data aggregate.HeatmapData, size viewport.Size, opts ...Option) ([]byte, error) {
	if !size.Measured() || data.Empty() {
		return nil, render.ErrNothingToDraw
	}
	o := newOptions("Books by Genre and Publication Decade", opts)
	area := HeatmapMargins.Inner(size)

	decades := make([]string, len(data.Decades))
	for i, d := range data.Decades {
		decades[i] = DecadeLabel(d)
	}

	// Cells are tighter than bars but never below the minimum padding.
	cellPadding := max(o.padding/2, scale.MinBandPadding)
	x, err := scale.NewBand(decades, area.X, area.Right(), cellPadding)
	if err != nil {
		return nil, err
	}
	y, err := scale.NewBand(data.Genres, area.Y, area.Bottom(), cellPadding)
	if err != nil {
		return nil, err
	}
	hi := float64(data.MaxCount())
	heat, err := scale.NewSequential(0, hi, o.theme.HeatLow, o.theme.HeatHigh)
	if err != nil {
		return nil, err
	}

	c := newCanvas("heatmap", size, o)
	c.title(o.title)

	c.open("marks")
	for _, d := range data.Data {
		x0, okX := x.Map(DecadeLabel(d.Decade))
		y0, okY := y.Map(d.Genre)
		if !okX || !okY {
			continue
		}
		c.rect(x0, y0, x.Bandwidth(), y.Bandwidth(), heat.Map(float64(d.Count)),
			fmt.Sprintf(`data-genre="%s"`, escape(d.Genre)),
			fmt.Sprintf(`data-decade="%d"`, d.Decade),
			fmt.Sprintf(`data-value="%d"`, d.Count))
	}
	c.close()

	c.bandAxisBottom(x, area)
	c.bandAxisLeft(y, area)
	c.axisLabels("Publication Decade", "", area)

	bar := scale.Rect{
		X:      area.Right() + c.font,
		Y:      area.Y + c.font,
		Width:  c.font,
		Height: area.Height / 2,
	}
	c.gradientLegend("Books", heat, 0, hi, bar)
	return c.bytes(), nil
}

// DecadeLabel formats a decade as "1990s".
func DecadeLabel(decade int) string {
	return strconv.Itoa(decade) + "s"
}

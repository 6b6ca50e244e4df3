package svg

import (
	"fmt"

	"github.com/matzehuels/swapcharts/pkg/aggregate"
	"github.com/matzehuels/swapcharts/pkg/render"
	"github.com/matzehuels/swapcharts/pkg/scale"
	"github.com/matzehuels/swapcharts/pkg/viewport"
)

// BarsMargins frame the stacked bar plot; the right margin holds the legend.
var BarsMargins = scale.Margins{Top: 0.1, Right: 0.2, Bottom: 0.22, Left: 0.1}

// Bars draws one bar per genre, stacked by age category. Genres are
// ordered by total count, tallest first.
func Bars(data aggregate.BarData, size viewport.Size, opts ...Option) ([]byte, error) {
	if !size.Measured() || len(data) == 0 || data.Total() == 0 {
		return nil, render.ErrNothingToDraw
	}
	o := newOptions("Books by Genre and Age Category", opts)
	area := BarsMargins.Inner(size)

	categories := data.Categories()
	stacks := data.Stacks()

	x, err := scale.NewBand(categories, area.X, area.Right(), o.padding)
	if err != nil {
		return nil, err
	}
	y, err := scale.NewLinear(0, float64(data.MaxCategoryTotal()), area.Bottom(), area.Y)
	if err != nil {
		return nil, err
	}
	y.Nice(scale.DefaultTicks)
	colors, err := scale.NewOrdinal(stacks, o.theme.Palette)
	if err != nil {
		return nil, err
	}

	values := make(map[[2]string]int, len(data))
	for _, d := range data {
		values[[2]string{d.Category, d.Stack}] = d.Value
	}

	c := newCanvas("bars", size, o)
	c.title(o.title)
	c.linearAxisLeft(y, area)

	c.open("marks")
	for _, cat := range categories {
		x0, _ := x.Map(cat)
		base := 0
		for _, st := range stacks {
			v := values[[2]string{cat, st}]
			if v == 0 {
				continue
			}
			top, bottom := y.Map(float64(base+v)), y.Map(float64(base))
			c.rect(x0, top, x.Bandwidth(), bottom-top, colors.Map(st),
				fmt.Sprintf(`data-category="%s"`, escape(cat)),
				fmt.Sprintf(`data-stack="%s"`, escape(st)),
				fmt.Sprintf(`data-value="%d"`, v))
			base += v
		}
	}
	c.close()

	c.bandAxisBottom(x, area)
	c.axisLabels("Genre", "Number of Books", area)
	c.swatchLegend("Age Category", stacks, colors, area.Right()+c.font, area.Y)
	return c.bytes(), nil
}

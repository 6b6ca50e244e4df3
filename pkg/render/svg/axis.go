package svg

import (
	"fmt"

	"github.com/matzehuels/swapcharts/pkg/scale"
)

const tickLength = 5

// bandAxisBottom draws category labels under the plot. Labels are rotated
// when the bands are too narrow to hold them.
func (c *canvas) bandAxisBottom(b *scale.Band, area scale.Rect) {
	y := area.Bottom()
	fg := c.opts.theme.Foreground
	c.open("axis axis-x")
	c.line(area.X, y, area.Right(), y, fg)

	rotate := false
	for _, v := range b.Domain() {
		if float64(len(v))*c.font*fontCharWidth > b.Step() {
			rotate = true
			break
		}
	}
	for _, v := range b.Domain() {
		x, _ := b.Center(v)
		c.line(x, y, x, y+tickLength, fg)
		if rotate {
			label := truncate(v, c.size.Height-y, c.font)
			c.text(x, y+tickLength+c.font, label, c.font, "end",
				fmt.Sprintf(`transform="rotate(-45 %.2f %.2f)"`, x, y+tickLength+c.font))
		} else {
			c.text(x, y+tickLength+c.font*1.2, v, c.font, "middle")
		}
	}
	c.close()
}

// bandAxisLeft draws category labels left of the plot.
func (c *canvas) bandAxisLeft(b *scale.Band, area scale.Rect) {
	x := area.X
	fg := c.opts.theme.Foreground
	c.open("axis axis-y")
	c.line(x, area.Y, x, area.Bottom(), fg)
	for _, v := range b.Domain() {
		y, _ := b.Center(v)
		c.line(x-tickLength, y, x, y, fg)
		label := truncate(v, area.X-tickLength*2, c.font)
		c.text(x-tickLength*2, y+c.font*0.35, label, c.font, "end")
	}
	c.close()
}

// linearAxisLeft draws numeric ticks and light gridlines across the plot.
func (c *canvas) linearAxisLeft(l *scale.Linear, area scale.Rect) {
	x := area.X
	fg := c.opts.theme.Foreground
	c.open("axis axis-y")
	c.line(x, area.Y, x, area.Bottom(), fg)
	for _, v := range l.Ticks(scale.DefaultTicks) {
		y := l.Map(v)
		c.line(x-tickLength, y, x, y, fg)
		c.line(x, y, area.Right(), y, fg, `stroke-opacity="0.1"`)
		c.text(x-tickLength*2, y+c.font*0.35, formatTick(v), c.font, "end")
	}
	c.close()
}

// axisLabels writes the x label centred under the plot and the y label
// rotated along the left edge.
func (c *canvas) axisLabels(xLabel, yLabel string, area scale.Rect) {
	c.open("axis-labels")
	if xLabel != "" {
		c.text(area.X+area.Width/2, c.size.Height-c.font*0.6, xLabel, c.font*1.1, "middle")
	}
	if yLabel != "" {
		x, y := c.font*1.2, area.Y+area.Height/2
		c.text(x, y, yLabel, c.font*1.1, "middle",
			fmt.Sprintf(`transform="rotate(-90 %.2f %.2f)"`, x, y))
	}
	c.close()
}

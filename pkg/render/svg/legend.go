package svg

import (
	"fmt"

	"github.com/matzehuels/swapcharts/pkg/scale"
)

// swatchLegend lists labels with their colours, top to bottom from (x, y).
func (c *canvas) swatchLegend(heading string, labels []string, colors *scale.Ordinal, x, y float64) {
	sw := c.font
	c.open("legend")
	if heading != "" {
		c.text(x, y, heading, c.font, "start", `font-weight="bold"`)
		y += c.font * 0.8
	}
	for i, label := range labels {
		row := y + float64(i)*sw*1.5
		c.rect(x, row, sw, sw, colors.Map(label))
		c.text(x+sw*1.4, row+sw*0.8, truncate(label, c.size.Width-x-sw*1.4, c.font), c.font, "start")
	}
	c.close()
}

// gradientLegend draws a vertical colour bar for a sequential scale with
// its extremes labelled.
func (c *canvas) gradientLegend(heading string, seq *scale.Sequential, lo, hi float64, area scale.Rect) {
	id := c.scoped("gradient")
	const stops = 10
	c.raw("  <defs>\n")
	fmt.Fprintf(&c.buf, `    <linearGradient id="%s" x1="0" y1="1" x2="0" y2="0">`+"\n", escape(id))
	for i := range stops + 1 {
		t := float64(i) / stops
		fmt.Fprintf(&c.buf, `      <stop offset="%.2f" stop-color="%s"/>`+"\n", t, seq.Map(lo+t*(hi-lo)))
	}
	c.raw("    </linearGradient>\n  </defs>\n")

	c.open("legend")
	c.text(area.X, area.Y-c.font*0.6, heading, c.font, "start", `font-weight="bold"`)
	c.rect(area.X, area.Y, area.Width, area.Height, fmt.Sprintf("url(#%s)", id))
	c.text(area.Right()+c.font*0.4, area.Y+c.font*0.8, formatTick(hi), c.font, "start")
	c.text(area.Right()+c.font*0.4, area.Bottom(), formatTick(lo), c.font, "start")
	c.close()
}

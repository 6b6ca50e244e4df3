package svg

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/swapcharts/pkg/viewport"
)

const (
	fontSizeMin   = 9.0
	fontSizeMax   = 16.0
	fontSizeRatio = 0.022
	fontCharWidth = 0.55
)

// canvas accumulates one SVG document.
type canvas struct {
	buf  bytes.Buffer
	opts options
	size viewport.Size
	font float64
}

func newCanvas(kind string, size viewport.Size, o options) *canvas {
	c := &canvas{opts: o, size: size, font: fontSize(size)}
	fmt.Fprintf(&c.buf, `<svg xmlns="http://www.w3.org/2000/svg" id="%s" class="chart chart-%s" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="%s" font-size="%.1f">`+"\n",
		escape(o.id), kind, size.Width, size.Height, size.Width, size.Height, escape(o.theme.FontFamily), c.font)
	fmt.Fprintf(&c.buf, `  <rect class="background" x="0" y="0" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
		size.Width, size.Height, escape(o.theme.Background))
	return c
}

func fontSize(size viewport.Size) float64 {
	return max(fontSizeMin, min(fontSizeMax, min(size.Width, size.Height)*fontSizeRatio))
}

// scoped returns an element id unique to this document.
func (c *canvas) scoped(name string) string {
	return c.opts.id + "-" + name
}

func (c *canvas) open(class string) {
	fmt.Fprintf(&c.buf, `  <g class="%s">`+"\n", class)
}

func (c *canvas) close() {
	c.buf.WriteString("  </g>\n")
}

func (c *canvas) rect(x, y, w, h float64, fill string, extra ...string) {
	fmt.Fprintf(&c.buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"%s/>`+"\n",
		x, y, max(w, 0), max(h, 0), escape(fill), attrs(extra))
}

func (c *canvas) line(x1, y1, x2, y2 float64, stroke string, extra ...string) {
	fmt.Fprintf(&c.buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"%s/>`+"\n",
		x1, y1, x2, y2, escape(stroke), attrs(extra))
}

func (c *canvas) path(d string, extra ...string) {
	fmt.Fprintf(&c.buf, `    <path d="%s"%s/>`+"\n", d, attrs(extra))
}

// text writes a label. anchor is start, middle, or end.
func (c *canvas) text(x, y float64, s string, size float64, anchor string, extra ...string) {
	fmt.Fprintf(&c.buf, `    <text x="%.2f" y="%.2f" font-size="%.1f" text-anchor="%s" fill="%s"%s>%s</text>`+"\n",
		x, y, size, anchor, escape(c.opts.theme.Foreground), attrs(extra), escape(s))
}

func (c *canvas) title(s string) {
	c.text(c.size.Width/2, c.font*1.8, s, c.font*1.3, "middle", `class="title"`, `font-weight="bold"`)
}

func (c *canvas) raw(s string) {
	c.buf.WriteString(s)
}

func (c *canvas) bytes() []byte {
	c.buf.WriteString("</svg>\n")
	return c.buf.Bytes()
}

func attrs(extra []string) string {
	if len(extra) == 0 {
		return ""
	}
	return " " + strings.Join(extra, " ")
}

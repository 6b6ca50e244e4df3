package scale

import "github.com/matzehuels/swapcharts/pkg/viewport"

// Margins are fractions of the container: Top and Bottom of its height,
// Left and Right of its width.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// Rect is a pixel rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// Inner returns the plot area left inside size once margins are removed.
func (m Margins) Inner(size viewport.Size) Rect {
	left := m.Left * size.Width
	top := m.Top * size.Height
	return Rect{
		X:      left,
		Y:      top,
		Width:  size.Width - left - m.Right*size.Width,
		Height: size.Height - top - m.Bottom*size.Height,
	}
}

// Right is the x coordinate of the rectangle's right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom is the y coordinate of the rectangle's bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Package viewport tracks the size of a chart's drawing area.
//
// A [Tracker] receives raw size observations (from a terminal resize, a
// flag, or a test) and publishes the most recent one after a quiet
// period. Bursts of observations collapse into a single publish, and a
// stopped tracker never publishes again.
package viewport

import (
	"fmt"
	"math"
)

// Size is a width and height in pixels. The zero Size means the area has
// not been measured yet.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Measured reports whether both dimensions are positive.
func (s Size) Measured() bool {
	return s.Width > 0 && s.Height > 0 && !math.IsInf(s.Width, 0) && !math.IsInf(s.Height, 0)
}

// Scale multiplies both dimensions by f.
func (s Size) Scale(f float64) Size {
	return Size{Width: s.Width * f, Height: s.Height * f}
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}

// Default terminal cell size in pixels, used when the terminal does not
// report one.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// FromTerminal converts a terminal window of cols×rows cells to pixels.
// Non-positive cell dimensions fall back to the defaults.
func FromTerminal(cols, rows int, cellW, cellH float64) Size {
	if cellW <= 0 {
		cellW = DefaultCellWidth
	}
	if cellH <= 0 {
		cellH = DefaultCellHeight
	}
	if cols <= 0 || rows <= 0 {
		return Size{}
	}
	return Size{Width: float64(cols) * cellW, Height: float64(rows) * cellH}
}

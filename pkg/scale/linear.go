package scale

import (
	"math"

	"github.com/aclements/go-moremath/scale"
)

// DefaultTicks is the tick count axes ask for.
const DefaultTicks = 10

// Linear maps a numeric domain onto a pixel range. r0 is the pixel for
// the domain minimum, so a vertical axis passes (bottom, top).
type Linear struct {
	s      scale.Linear
	r0, r1 float64
}

// NewLinear builds a linear scale. A degenerate domain (min == max) is
// widened to one unit so Map stays finite; NaN or infinite bounds are
// rejected.
func NewLinear(min, max, r0, r1 float64) (*Linear, error) {
	if !finite(min) || !finite(max) {
		return nil, ErrEmptyDomain
	}
	if min > max {
		min, max = max, min
	}
	if min == max {
		max = min + 1
	}
	return &Linear{
		s:  scale.Linear{Min: min, Max: max, Base: 10},
		r0: r0,
		r1: r1,
	}, nil
}

// Nice extends the domain outward to round tick values.
func (l *Linear) Nice(ticks int) *Linear {
	if ticks <= 0 {
		ticks = DefaultTicks
	}
	l.s.Nice(scale.TickOptions{Max: ticks})
	return l
}

// Map converts a domain value to pixels. Values outside the domain
// extrapolate.
func (l *Linear) Map(v float64) float64 {
	s := l.s
	return l.r0 + s.Map(v)*(l.r1-l.r0)
}

// Ticks returns at most n round values within the domain.
func (l *Linear) Ticks(n int) []float64 {
	if n <= 0 {
		n = DefaultTicks
	}
	s := l.s
	major, _ := s.Ticks(scale.TickOptions{Max: n})
	if len(major) == 0 {
		return []float64{s.Min, s.Max}
	}
	return major
}

// Domain returns the current domain bounds.
func (l *Linear) Domain() (float64, float64) {
	return l.s.Min, l.s.Max
}

// Range returns the pixel range.
func (l *Linear) Range() (float64, float64) {
	return l.r0, l.r1
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

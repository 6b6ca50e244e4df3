package scale

import "fmt"

// DefaultBandPadding is the fraction of each step left empty.
const DefaultBandPadding = 0.1

// MinBandPadding is the smallest padding ratio charts draw with.
const MinBandPadding = 0.05

// Band maps categories to equal-width intervals of [start, end]. The same
// padding ratio applies between bands and at both ends.
type Band struct {
	domain    []string
	index     map[string]int
	start     float64
	step      float64
	bandwidth float64
	padding   float64
}

// NewBand builds a band scale over domain in the given order. padding is
// clamped to [0, 1).
func NewBand(domain []string, start, end, padding float64) (*Band, error) {
	if len(domain) == 0 {
		return nil, ErrEmptyDomain
	}
	if padding < 0 {
		padding = 0
	}
	if padding >= 1 {
		padding = 0.99
	}

	index := make(map[string]int, len(domain))
	for i, d := range domain {
		if _, dup := index[d]; dup {
			return nil, fmt.Errorf("scale: duplicate band %q", d)
		}
		index[d] = i
	}

	n := float64(len(domain))
	step := (end - start) / (n + padding)
	return &Band{
		domain:    domain,
		index:     index,
		start:     start + step*padding,
		step:      step,
		bandwidth: step * (1 - padding),
		padding:   padding,
	}, nil
}

// Map returns the start of v's band and whether v is in the domain.
func (b *Band) Map(v string) (float64, bool) {
	i, ok := b.index[v]
	if !ok {
		return 0, false
	}
	return b.start + float64(i)*b.step, true
}

// Center returns the midpoint of v's band.
func (b *Band) Center(v string) (float64, bool) {
	x, ok := b.Map(v)
	return x + b.bandwidth/2, ok
}

// Bandwidth is the width of one band.
func (b *Band) Bandwidth() float64 { return b.bandwidth }

// Step is the distance between the starts of adjacent bands.
func (b *Band) Step() float64 { return b.step }

// Domain returns the categories in band order.
func (b *Band) Domain() []string { return b.domain }

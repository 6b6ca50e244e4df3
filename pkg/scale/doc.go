// Package scale maps data values to pixel positions and colours.
//
// Positional scales:
//
//   - [Band]: categorical values to equal-width bands with padding
//   - [Linear]: numbers to pixels over a "nice" rounded domain
//
// Colour scales:
//
//   - [Ordinal]: categories to a fixed palette, cycling when exhausted
//   - [Sequential]: numbers to an interpolated gradient
//
// [Margins] are fractions of the container so every derived offset scales
// with the container size.
//
// Constructors reject empty domains with [ErrEmptyDomain]; callers are
// expected to skip drawing instead of building a scale from nothing.
package scale

import "errors"

// ErrEmptyDomain is returned when a scale is built from no values.
var ErrEmptyDomain = errors.New("scale: empty domain")

// Package aggregate reduces dataset rows into chart-ready summaries.
//
// There is one reducer per chart:
//
//   - [Bars]: counts per (genre, age category) for the stacked bar chart
//   - [Heatmap]: counts per (genre, decade), top genres plus "Other"
//   - [Flow]: a four-layer flow graph Genre → Age → Movie → Bestseller
//
// Reducers are pure: the same rows always produce the same result, in the
// same order. Zero input rows yield an empty result, which renderers
// refuse to draw.
package aggregate

// Sentinel category labels.
const (
	// Unknown replaces a missing or blank field value.
	Unknown = "Unknown"

	// Other collects heatmap genres outside the top-N.
	Other = "Other"
)

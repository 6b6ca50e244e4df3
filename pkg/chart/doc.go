// Package chart composes loading, aggregation, size tracking, and
// rendering into one chart component.
//
// A [Component] owns its data, its measured size, and its surface. It
// goes through two independent state machines:
//
//	data: Empty → Loading → Ready
//	size: Unmeasured → Measured
//
// and draws only in the joint state Ready ∧ Measured. Every draw clears
// the surface and writes a complete document.
//
// Load failures are logged and leave the chart Empty. Data that arrives
// after [Component.Unmount] is discarded.
package chart

// Package svg renders aggregated book-swap data as standalone SVG documents.
//
// Three renderers are provided, one per chart:
//
//   - [Bars]: genres on the x axis, one stacked segment per age category
//   - [Heatmap]: genres by publication decade, coloured by count
//   - [Sankey]: the Genre → Age → Movie → Bestseller flow graph
//
// Every call builds the whole document, including axes, title, axis
// labels, and legend. A zero size or empty data yields
// [render.ErrNothingToDraw] and no output.
//
// Element ids inside a document are prefixed with the chart id (see
// [WithID]) so several charts can be inlined into one HTML page.
package svg

// Package pkg provides the libraries behind swapcharts.
//
// # Overview
//
// Swapcharts reads a book-swap dataset (one CSV row per book) and draws it
// three ways: a stacked bar chart of genres by age category, a heatmap of
// genres by publication decade, and a Sankey diagram that follows books
// from genre through age category and movie adaptation to bestseller
// status. Each chart is a component that loads its data once, tracks the
// size of its container, and redraws in full whenever data or size
// changes.
//
// # Architecture
//
// The typical data flow:
//
//	CSV (file or URL)
//	       ↓
//	  [dataset] (parse rows, share one load between charts)
//	       ↓
//	  [aggregate] (bar counts, decade heatmap, flow graph)
//	       ↓
//	  [scale] + [render/svg] (band/linear scales, colours, SVG documents)
//	       ↓
//	  [chart] / [page] (components on surfaces, the three-section page)
//
// [pipeline] runs the same stages as a batch for the CLI, caching each
// rendered artifact under the dataset's content hash.
//
// # Main Packages
//
// [dataset] - CSV loading from local paths and http(s) URLs, with optional
// byte caching and a reference-counted [dataset.SharedLoader] so several
// charts mounted on one page fetch the data once.
//
// [aggregate] - Pure functions from rows to chart data: [aggregate.Bars],
// [aggregate.Heatmap] with top-N genres and decade bucketing, and
// [aggregate.Flow] with its four node layers.
//
// [viewport] - Container sizes and a debounced [viewport.Tracker] that
// publishes only the last size of a burst of resizes.
//
// [scale] - Band and linear scales, the categorical palette, and the
// sequential heat colour scale.
//
// [render] - The shared [render.Theme], PDF/PNG conversion, and the
// renderers in [render/svg] and [render/nodelink].
//
// [chart] - Chart kinds, models, surfaces, and the [chart.Component] state
// machine that decides when to draw and when to blank.
//
// [page] - Three components stacked at 60%, 60%, and 80% of the viewport
// height, written out as one HTML document.
//
// [pipeline] - Batch load → aggregate → render with artifact caching.
//
// ## Infrastructure
//
// [cache] - Byte cache with file, Redis, and null backends plus key layout.
//
// [config] - TOML configuration with environment overrides.
//
// [errors] - Coded errors shared by every layer.
//
// [observability] - Hooks for pipeline, chart, cache, and HTTP events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/aggregate/...          # Specific package
//	go test -tags integration ./pkg/...  # Include Redis integration tests
//
// [dataset]: https://pkg.go.dev/github.com/matzehuels/swapcharts/pkg/dataset
// [aggregate]: https://pkg.go.dev/github.com/matzehuels/swapcharts/pkg/aggregate
// [viewport]: https://pkg.go.dev/github.com/matzehuels/swapcharts/pkg/viewport
// [scale]: https://pkg.go.dev/github.com/matzehuels/swapcharts/pkg/scale
// [render]: https://pkg.go.dev/github.com/matzehuels/swapcharts/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/swapcharts/pkg/render/svg
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/swapcharts/pkg/render/nodelink
// [chart]: https://pkg.go.dev/github.com/matzehuels/swapcharts/pkg/chart
// [page]: https://pkg.go.dev/github.com/matzehuels/swapcharts/pkg/page
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/swapcharts/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/swapcharts/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/swapcharts/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/swapcharts/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/swapcharts/pkg/observability
package pkg

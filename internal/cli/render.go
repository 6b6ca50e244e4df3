package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swapcharts/pkg/chart"
	"github.com/matzehuels/swapcharts/pkg/pipeline"
)

// renderCommand creates the render command, which writes one file per
// chart and format.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		chartsStr  string
		formatsStr string
		output     string
		noCache    bool
		opts       pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "render <csv>",
		Short: "Render the charts of a book-swap CSV to files",
		Long: `Render the charts of a book-swap CSV to files.

The CSV may be a local path or an http(s) URL. Each chart and format is
written to <output>/<name>_<chart>.<format>, where <name> is the CSV file
name without its extension.

PNG and PDF output need rsvg-convert on PATH. DOT output applies to the
flow chart only.

Rendered files are cached; use --refresh to redraw from a fresh copy of
the data.`,
		Args: cobra.ExactArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			defaults := c.pipelineDefaults()
			mergeUnset(cmd, &opts, defaults)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Locator = args[0]
			opts.Charts = parseList(chartsStr)
			opts.Formats = parseList(formatsStr)
			return c.runRender(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&chartsStr, "chart", "c", "", "chart(s): bar, heatmap, flow (comma-separated, default all)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", ".", "output directory")
	cmd.Flags().Float64Var(&opts.Width, "width", pipeline.DefaultWidth, "chart width in pixels")
	cmd.Flags().Float64Var(&opts.Height, "height", pipeline.DefaultHeight, "chart height in pixels")
	cmd.Flags().IntVar(&opts.HeatmapTopGenres, "heatmap-top", 0, "genres kept as heatmap rows (default from config)")
	cmd.Flags().IntVar(&opts.FlowTopGenres, "flow-top", 0, "genres entering the flow chart (default from config)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached data and artifacts")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	registerListCompletions(cmd)

	return cmd
}

// mergeUnset fills options the user did not set on the command line from
// the configuration.
func mergeUnset(cmd *cobra.Command, opts *pipeline.Options, defaults pipeline.Options) {
	if !cmd.Flags().Changed("heatmap-top") {
		opts.HeatmapTopGenres = defaults.HeatmapTopGenres
	}
	if !cmd.Flags().Changed("flow-top") {
		opts.FlowTopGenres = defaults.FlowTopGenres
	}
	opts.BandPadding = defaults.BandPadding
	opts.Theme = defaults.Theme
	opts.Logger = defaults.Logger
}

// runRender executes the pipeline and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.Locator))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return err
		}
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(result, baseName(opts.Locator), output)
	if err != nil {
		return err
	}
	prog.done("rendered", "files", len(paths))

	printStats(result)
	for _, p := range paths {
		printFile(p)
	}
	for _, cr := range result.Charts {
		if len(cr.Skipped) > 0 {
			printWarning("%s chart has nothing to draw; skipped %s", cr.Kind, strings.Join(cr.Skipped, ", "))
		}
	}
	printNextStep("Preview in a browser", appName+" preview "+output)
	return nil
}

// writeArtifacts writes every artifact to dir as <base>_<chart>.<format>
// and returns the paths in chart order.
func writeArtifacts(result *pipeline.Result, base, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	var paths []string
	for _, cr := range result.Charts {
		for _, format := range artifactOrder(cr) {
			p := artifactPath(dir, base, cr.Kind, format)
			if err := os.WriteFile(p, cr.Artifacts[format], 0o644); err != nil {
				return paths, fmt.Errorf("write %s: %w", p, err)
			}
			paths = append(paths, p)
		}
	}
	return paths, nil
}

// formatOrder is the order files are written and listed in.
var formatOrder = []string{pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatJSON, pipeline.FormatDOT}

// artifactOrder lists cr's formats in formatOrder.
func artifactOrder(cr *pipeline.ChartResult) []string {
	var out []string
	for _, f := range formatOrder {
		if _, ok := cr.Artifacts[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// artifactPath returns dir/<base>_<kind>.<format>.
func artifactPath(dir, base string, kind chart.Kind, format string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", base, kind, format))
}

// baseName derives an output file stem from a locator: the last path
// element without its extension.
func baseName(locator string) string {
	name := locator
	if u, err := url.Parse(locator); err == nil && u.Scheme != "" && u.Path != "" {
		name = path.Base(u.Path)
	} else {
		name = filepath.Base(locator)
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." || name == "/" {
		return "books"
	}
	return name
}

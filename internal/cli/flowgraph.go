package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swapcharts/pkg/chart"
	"github.com/matzehuels/swapcharts/pkg/errors"
	"github.com/matzehuels/swapcharts/pkg/pipeline"
	"github.com/matzehuels/swapcharts/pkg/render/nodelink"
)

// flowgraphCommand creates the flowgraph command, which lays the flow
// chart's graph out as a node-link diagram with Graphviz.
func (c *CLI) flowgraphCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
		flowTop  int
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "flowgraph <csv>",
		Short: "Draw the flow chart's graph as a node-link diagram",
		Long: `Draw the flow chart's graph as a node-link diagram.

The same nodes and weighted links as the Sankey chart are laid out left to
right by Graphviz, one cluster per layer. Use --format dot to get the
Graphviz source instead of a drawing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("flow-top") {
				flowTop = c.Config.Charts.FlowTopGenres
			}
			if output == "" {
				output = baseName(args[0]) + "_flowgraph." + format
			}
			return c.runFlowgraph(cmd.Context(), args[0], format, output, detailed, flowTop, noCache)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", pipeline.FormatSVG, "output format: svg, png, pdf, dot")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <name>_flowgraph.<format>, - for stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label nodes with their book counts")
	cmd.Flags().IntVar(&flowTop, "flow-top", 0, "genres entering the graph (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runFlowgraph(ctx context.Context, locator, format, output string, detailed bool, flowTop int, noCache bool) error {
	switch format {
	case pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatDOT:
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "invalid flowgraph format: %q (must be one of: svg, png, pdf, dot)", format)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.pipelineDefaults()
	opts.Locator = locator
	opts.Charts = []string{string(chart.KindFlow)}
	opts.Formats = []string{pipeline.FormatJSON}
	opts.FlowTopGenres = flowTop

	prog := newProgress(c.Logger)
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	g, ok := chart.Graph(result.Chart(chart.KindFlow).Model)
	if !ok || g.Empty() {
		printWarning("Flow graph is empty; nothing to draw")
		return nil
	}

	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: detailed, Theme: c.Config.Theme})
	var data []byte
	switch format {
	case pipeline.FormatDOT:
		data = []byte(dot)
	case pipeline.FormatSVG:
		data, err = nodelink.RenderSVG(ctx, dot)
	case pipeline.FormatPNG:
		data, err = nodelink.RenderPNG(ctx, dot, pipeline.DefaultScale)
	case pipeline.FormatPDF:
		data, err = nodelink.RenderPDF(ctx, dot)
	}
	if err != nil {
		return fmt.Errorf("render flowgraph %s: %w", format, err)
	}

	if output == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	prog.done("flowgraph written", "nodes", len(g.Nodes), "links", len(g.Links))
	printSuccess("Wrote flow graph")
	printFile(output)
	return nil
}

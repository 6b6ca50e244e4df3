package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swapcharts/pkg/page"
	"github.com/matzehuels/swapcharts/pkg/viewport"
)

// pageCommand creates the page command, which writes all three charts
// stacked in one HTML document.
func (c *CLI) pageCommand() *cobra.Command {
	var (
		output  string
		title   string
		width   float64
		height  float64
		noCache bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "page <csv>",
		Short: "Write the three charts as one HTML page",
		Long: `Write the three charts as one HTML page.

The bar chart, heatmap, and flow chart are stacked in containers of 60%,
60%, and 80% of the viewport height. --width and --height give the
viewport the charts are drawn for; the inline SVGs scale with the browser
window.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = baseName(args[0]) + ".html"
			}
			vp := viewport.Size{Width: width, Height: height}
			return c.runPage(cmd.Context(), args[0], title, vp, output, noCache, timeout)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <name>.html)")
	cmd.Flags().StringVar(&title, "title", "", "page title")
	cmd.Flags().Float64Var(&width, "width", 1280, "viewport width in pixels")
	cmd.Flags().Float64Var(&height, "height", 900, "viewport height in pixels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "give up loading after this long")

	return cmd
}

// runPage mounts a page, sizes it once, and writes the HTML.
func (c *CLI) runPage(ctx context.Context, locator, title string, vp viewport.Size, output string, noCache bool, timeout time.Duration) error {
	if !vp.Measured() {
		return fmt.Errorf("viewport must be positive, got %s", vp)
	}
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return err
	}
	defer ch.Close()

	p, err := page.New(page.Options{
		Title:    title,
		Locator:  locator,
		Loader:   c.newLoader(ch),
		Theme:    c.Config.Theme,
		Settings: c.Config.Settings(),
		Debounce: -1,
		Logger:   c.Logger,
	})
	if err != nil {
		return err
	}
	defer p.Unmount()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Loading "+locator+"...")
	spinner.Start()

	loadCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	p.Mount(loadCtx)
	if err := p.Wait(loadCtx); err != nil {
		spinner.StopWithError("Load failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Loaded %s", locator))
	p.Resize(vp)

	html, err := p.HTML()
	if err != nil {
		return fmt.Errorf("build page: %w", err)
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(output, html, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	prog.done("page written", "bytes", len(html))

	printSuccess("Wrote page")
	printFile(output)
	for _, s := range p.Slots() {
		if s.Component.Draws() == 0 {
			printWarning("%s chart has nothing to draw", s.Kind)
		}
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/swapcharts/pkg/chart"
	"github.com/matzehuels/swapcharts/pkg/page"
	"github.com/matzehuels/swapcharts/pkg/viewport"
)

// watchRefresh is how often the status table is redrawn.
const watchRefresh = 250 * time.Millisecond

var (
	watchReadyStyle = lipgloss.NewStyle().Foreground(colorGreen)
	watchBusyStyle  = lipgloss.NewStyle().Foreground(colorYellow)
	watchDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// watchCommand creates the watch command: an interactive session that
// redraws chart files whenever the terminal is resized.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		chartsStr string
		output    string
		cellW     float64
		cellH     float64
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "watch <csv>",
		Short: "Redraw chart files as the terminal is resized",
		Long: `Redraw chart files as the terminal is resized.

The terminal window stands in for the page: its size in cells, multiplied
by --cell-width and --cell-height, is the viewport. Each chart gets the
full width and its share of the height, and is redrawn to
<output>/<name>_<chart>.svg once resizing settles.

Open the files in a viewer that reloads on change to follow along.
Press q to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds, err := chart.ParseKinds(parseList(chartsStr))
			if err != nil {
				return err
			}
			return c.runWatch(cmd.Context(), args[0], kinds, output, cellW, cellH, noCache)
		},
	}

	cmd.Flags().StringVarP(&chartsStr, "chart", "c", "", "chart(s): bar, heatmap, flow (comma-separated, default all)")
	cmd.Flags().StringVarP(&output, "output", "o", ".", "output directory")
	cmd.Flags().Float64Var(&cellW, "cell-width", viewport.DefaultCellWidth, "pixels per terminal column")
	cmd.Flags().Float64Var(&cellH, "cell-height", viewport.DefaultCellHeight, "pixels per terminal row")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	registerListCompletions(cmd)

	return cmd
}

// runWatch mounts one component per chart, each drawing to a file, and
// runs the terminal UI until the user quits.
func (c *CLI) runWatch(ctx context.Context, locator string, kinds []chart.Kind, output string, cellW, cellH float64, noCache bool) error {
	if err := os.MkdirAll(output, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// The terminal belongs to the UI; component logs go to a file.
	logPath := filepath.Join(output, appName+"-watch.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()
	logger := newLogger(logFile, c.Logger.GetLevel())

	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return err
	}
	defer ch.Close()
	loader := c.newLoader(ch)

	base := baseName(locator)
	var items []watchItem
	for _, kind := range kinds {
		path := artifactPath(output, base, kind, "svg")
		comp, err := chart.New(chart.Options{
			Kind:     kind,
			Locator:  locator,
			Loader:   loader,
			Surface:  chart.NewFileSurface(path),
			Theme:    c.Config.Theme,
			Settings: c.Config.Settings(),
			Debounce: c.Config.Charts.Debounce.Duration,
			Logger:   logger,
		})
		if err != nil {
			return err
		}
		items = append(items, watchItem{comp: comp, path: path, section: sectionFor(kind)})
	}

	for _, it := range items {
		it.comp.Mount(ctx)
	}
	defer func() {
		for _, it := range items {
			it.comp.Unmount()
		}
	}()

	m := newWatchModel(locator, items, cellW, cellH)
	prog := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("watch: %w", err)
	}
	printInfo("Stopped watching %s", locator)
	printDetail("Log: %s", logPath)
	return nil
}

// sectionFor returns the page section of kind, so a watched chart gets the
// same share of the viewport as on the page.
func sectionFor(kind chart.Kind) page.Section {
	for _, s := range page.Layout {
		if s.Kind == kind {
			return s
		}
	}
	return page.Section{Kind: kind, VH: 100}
}

// =============================================================================
// watchModel - Terminal UI
// =============================================================================

type watchItem struct {
	comp    *chart.Component
	path    string
	section page.Section
}

type watchTickMsg time.Time

// watchModel forwards terminal sizes to the chart components and shows
// their state.
type watchModel struct {
	locator  string
	items    []watchItem
	cellW    float64
	cellH    float64
	viewport viewport.Size
	resizes  int
}

func newWatchModel(locator string, items []watchItem, cellW, cellH float64) watchModel {
	return watchModel{locator: locator, items: items, cellW: cellW, cellH: cellH}
}

func watchTick() tea.Cmd {
	return tea.Tick(watchRefresh, func(t time.Time) tea.Msg { return watchTickMsg(t) })
}

func (m watchModel) Init() tea.Cmd {
	return watchTick()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.viewport = viewport.FromTerminal(msg.Width, msg.Height, m.cellW, m.cellH)
		m.resizes++
		for _, it := range m.items {
			it.comp.Resize(page.SectionSize(m.viewport, it.section))
		}
	case watchTickMsg:
		return m, watchTick()
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Watching " + m.locator))
	b.WriteString("\n")
	b.WriteString(watchDimStyle.Render(fmt.Sprintf("viewport %s · %d resizes · q quit", m.viewport, m.resizes)))
	b.WriteString("\n\n")

	rows := make([][]string, 0, len(m.items))
	for _, it := range m.items {
		st := it.comp.State()
		rows = append(rows, []string{
			string(it.comp.Kind()),
			st.String(),
			it.comp.Size().String(),
			fmt.Sprintf("%d", it.comp.Draws()),
			it.path,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Chart", "State", "Size", "Draws", "File").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < 0 || row >= len(m.items) {
				return lipgloss.NewStyle()
			}
			if col != 1 {
				return lipgloss.NewStyle()
			}
			if m.items[row].comp.State().CanDraw() {
				return watchReadyStyle
			}
			return watchBusyStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}

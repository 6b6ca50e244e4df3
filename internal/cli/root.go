package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/swapcharts/pkg/buildinfo"
	"github.com/matzehuels/swapcharts/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// PersistentPreRunE loads the configuration named by --config and, at debug
// level, registers event logging hooks. Callers that wrap it must call the
// original.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Swapcharts draws book-swap datasets as three linked charts",
		Long: `Swapcharts reads a book-swap CSV and draws it three ways: a stacked bar
chart of genres by age category, a heatmap of genres by publication decade,
and a Sankey diagram flowing from genre through age category and movie
adaptation to bestseller status.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			if c.Logger.GetLevel() <= LogDebug {
				observability.NewLogHooks(c.Logger).Register()
			}
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	c.registerConfigFlag(root)

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.pageCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.flowgraphCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

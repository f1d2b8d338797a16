package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	var transitive bool

	cmd := &cobra.Command{
		Use:   "watch [root]",
		Short: "Build, then rebuild changed files and their importers until interrupted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.WatchOptions{Transitive: transitive}
			if len(args) == 1 {
				opts.Root = args[0]
			}
			return c.app.Watch(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVarP(&transitive, "transitive", "t", false, "Rebuild every file that reaches a change, not only direct importers")

	return cmd
}

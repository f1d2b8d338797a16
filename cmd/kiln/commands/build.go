package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	var (
		poolSize int
		outDir   string
	)

	cmd := &cobra.Command{
		Use:   "build [paths...]",
		Short: "Transform source files, reusing cached output for unchanged content",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if poolSize > 0 {
				c.app.Worker().SetPoolSize(poolSize)
			}
			_, err := c.app.Build(cmd.Context(), app.BuildOptions{
				Paths:  args,
				OutDir: outDir,
				Stdout: cmd.OutOrStdout(),
			})
			return err
		},
	}

	cmd.Flags().IntVarP(&poolSize, "pool-size", "j", 0, "Number of files processed in parallel (default from kiln.yaml)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Write outputs under this directory instead of stdout")

	return cmd
}

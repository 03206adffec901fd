package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/rig/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [targets...]",
		Short: "Run the specified targets and their dependencies",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, err := cmd.Flags().GetBool("dry-run")
			if err != nil {
				return err
			}
			return c.app.Run(cmd.Context(), args, app.RunOptions{DryRun: dryRun})
		},
	}
	cmd.Flags().Bool("dry-run", false, "Simulate the run; only dry-run-safe tasks execute")
	return cmd
}

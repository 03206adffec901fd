package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *CLI) newTargetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "List the targets of the build definition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			showHidden, err := cmd.Flags().GetBool("all")
			if err != nil {
				return err
			}

			infos, err := c.app.ListTargets(showHidden)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, info := range infos {
				marker := ""
				if info.Default {
					marker = " (default)"
				}
				fmt.Fprintf(w, "%s%s\t%s\n", info.Name, marker, info.Description)
			}
			return w.Flush()
		},
	}
	cmd.Flags().Bool("all", false, "Include hidden targets")
	return cmd
}

package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/chtl/internal/app"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <files...>",
		Short: "Resolve entry files and re-resolve them on every change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			return c.application(cmd).Watch(cmd.Context(), cfg, args, func(r app.EntryReport) {
				printReport(out, r)
			})
		},
	}
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/chtl/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that the imports of a file form no cycle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config(cmd)
			if err != nil {
				return err
			}

			valid, err := c.application(cmd).ValidateEntry(cmd.Context(), cfg, args[0])
			if err != nil {
				return err
			}
			if !valid {
				return zerr.With(domain.ErrInvalidChain, "entry", args[0])
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: import chain is valid\n", args[0])
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bookvox/bookvox/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the bookvox version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "bookvox v%s\n", version.Resolve())
			return nil
		},
	}
}

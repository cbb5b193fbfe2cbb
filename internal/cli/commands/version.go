package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/tsqlscript/pkg/dialect"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display tsqlscript version and the supported dialect versions.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "tsqlscript v%s\n", version)
			_, _ = fmt.Fprint(cmd.OutOrStdout(), "T-SQL validator and formatter for")
			for i, v := range dialect.Versions() {
				sep := ","
				if i == 0 {
					sep = ""
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)", sep, v, v.Name())
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout())
		},
	}
}

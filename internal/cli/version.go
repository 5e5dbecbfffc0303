package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the fl version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if isJSON() {
				return printJSON(out, map[string]string{"version": Version, "go": runtime.Version()})
			}
			_, err := fmt.Fprintf(out, "fl %s (%s)\n", Version, runtime.Version())
			return err
		},
	}
}

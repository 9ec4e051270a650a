package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "sceneloop version %s (built %s)\n", Version, BuildTime)
			fmt.Fprintf(out, "config schema %s, app %q\n", opts.cfg.Version, opts.cfg.AppName)
			return nil
		},
	}
}

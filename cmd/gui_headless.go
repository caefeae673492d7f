//go:build headless

package cmd

import (
	"github.com/habedi/q2launch/pkg/clierr"
	"github.com/spf13/cobra"
)

func guiCmd(_ *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gui",
		Short: "Start the launcher with a setup window (not available in headless build)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.PrintErrln("This is a headless (CLI-only) build of q2launch.")
			cmd.PrintErrln("Use `q2launch run`, or build from source without the 'headless' tag.")
			return clierr.Newf(clierr.Configuration, "the setup window is not available in this build")
		},
	}
	return cmd
}

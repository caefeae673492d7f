//go:build !headless

package cmd

import (
	"context"
	"errors"

	"github.com/habedi/q2launch/gui"
	"github.com/spf13/cobra"
)

func guiCmd(a *app) *cobra.Command {
	var (
		theme  string
		dialog bool
	)

	cmd := &cobra.Command{
		Use:   "gui",
		Short: "Start the launcher with a setup window",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.prefs()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			r := gui.NewRenderer()
			ctrl := a.newController(store, r)
			runErr := make(chan error, 1)
			go func() { runErr <- ctrl.Run(ctx) }()

			show, err := ctrl.ShouldShowDialog(ctx, dialog)
			if err == nil && !show {
				var launched bool
				if launched, err = quickLaunch(ctx, ctrl); launched {
					return <-runErr
				}
			}
			if err == nil {
				err = gui.Run(ctx, ctrl, r, gui.Options{Version: version, Theme: theme})
			}

			cancel()
			if rerr := <-runErr; err == nil && !errors.Is(rerr, context.Canceled) {
				err = rerr
			}
			return err
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "", "Window theme: Light, Dark or System Default")
	cmd.Flags().BoolVar(&dialog, "dialog", false, "Always show the setup window (like holding the option key)")
	return cmd
}

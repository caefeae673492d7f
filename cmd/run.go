package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/habedi/q2launch/launcher"
	"github.com/habedi/q2launch/pkg/clierr"
	"github.com/habedi/q2launch/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type runOptions struct {
	mod    string
	folder string
	listen string
	serve  bool
	yes    bool
	dialog bool
}

// runCmd finds the game data, lets the user adjust the launch and starts the engine.
func runCmd(a *app) *cobra.Command {
	var o runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Find the game data and start Quake II",
		RunE: func(cmd *cobra.Command, args []string) error {
			interactive := isInteractive(os.Stdin) && isInteractive(os.Stdout)
			return runLauncher(cmd.Context(), a, o, bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout(), interactive)
		},
	}

	cmd.Flags().StringVarP(&o.mod, "mod", "m", "", "Game folder to load instead of baseq2")
	cmd.Flags().StringVarP(&o.folder, "folder", "f", "", "Install folder to use instead of searching")
	cmd.Flags().StringVarP(&o.listen, "listen", "l", "", "Accept remote commands on this loopback address")
	cmd.Flags().BoolVar(&o.serve, "serve", false, "Accept remote commands on the configured address")
	cmd.Flags().BoolVarP(&o.yes, "yes", "y", false, "Launch without asking for confirmation")
	cmd.Flags().BoolVar(&o.dialog, "dialog", false, "Always show the setup prompts (like holding the option key)")

	return cmd
}

func runLauncher(ctx context.Context, a *app, o runOptions, in *bufio.Reader, out io.Writer, interactive bool) error {
	store, err := a.prefs()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out = &syncWriter{w: out}
	r := newCLIRenderer(out, interactive)
	ctrl := a.newController(store, r)

	runErr := make(chan error, 1)
	go func() { runErr <- ctrl.Run(ctx) }()

	if addr := o.listen; addr != "" || o.serve || a.cfg.Server.Enabled {
		if addr == "" {
			addr = a.cfg.Server.Listen
		}
		srv, err := server.Listen(addr, ctrl)
		if err != nil {
			cancel()
			<-runErr
			return clierr.New(clierr.Configuration, err.Error(), err)
		}
		go func() {
			if err := srv.Serve(); err != nil {
				log.Error().Err(err).Msg("Command server stopped")
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()
		fmt.Fprintf(out, "Accepting remote commands on %s\n", srv.Addr())
	}

	if err := setup(ctx, ctrl, r, o, in, out, interactive); err != nil {
		cancel()
		<-runErr
		return err
	}
	return <-runErr
}

// setup drives the controller from the terminal until the launch is confirmed.
func setup(ctx context.Context, ctrl *launcher.Controller, r *cliRenderer, o runOptions, in *bufio.Reader, out io.Writer, interactive bool) error {
	show, err := ctrl.ShouldShowDialog(ctx, o.dialog)
	if err != nil {
		return err
	}
	if err := applyMod(ctx, ctrl, o.mod); err != nil {
		return err
	}

	switch {
	case !show && o.folder == "":
		launched, err := quickLaunch(ctx, ctrl)
		if err != nil || launched {
			return err
		}
	case o.folder != "":
		err = ctrl.ChooseMediaFolder(ctx, o.folder)
	default:
		err = ctrl.Open(ctx)
	}
	if err != nil {
		return err
	}

	for {
		s, err := waitSettled(ctx, ctrl, r.changed)
		if err != nil {
			return err
		}
		switch s.State {
		case launcher.Launching:
			return nil
		case launcher.Ready:
			if !o.yes && interactive {
				fmt.Fprintln(out, "Command line:", ctrl.Snapshot().CommandLine)
				ok, err := promptYesNo(in, out, "Launch Quake II?", true)
				if err != nil {
					return err
				}
				if !ok {
					return errors.New("launch aborted")
				}
			}
			err := ctrl.ConfirmLaunch(ctx)
			if clierr.Is(err, clierr.Validation) {
				// The folder stopped validating since it was found; ask again.
				fmt.Fprintln(out, err)
				continue
			}
			return err
		default:
			if !interactive {
				if s.Err != "" {
					return clierr.Newf(clierr.Validation, "%s", s.Err)
				}
				return launcher.ErrNotReady
			}
			folder, err := promptForInput(in, out, "Quake II folder (empty to quit): ")
			if err != nil {
				return err
			}
			if folder == "" {
				return clierr.New(clierr.Validation, launcher.ErrNotReady.Error(), launcher.ErrNotReady)
			}
			if err := ctrl.ChooseMediaFolder(ctx, folder); err != nil {
				fmt.Fprintln(out, "Error:", err)
			}
		}
	}
}

func applyMod(ctx context.Context, ctrl *launcher.Controller, mod string) error {
	if mod == "" {
		return nil
	}
	return ctrl.SetModFolder(ctx, mod)
}

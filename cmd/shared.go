package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/habedi/q2launch/engine"
	"github.com/habedi/q2launch/launcher"
	"github.com/habedi/q2launch/media"
	"github.com/habedi/q2launch/pkg/clierr"
	"github.com/habedi/q2launch/prefs"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

// isInteractive reports whether f is attached to a terminal.
func isInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// promptForInput prints prompt and returns the trimmed line the user typed.
func promptForInput(in *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	input, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(input), nil
}

// promptYesNo asks a yes/no question. An empty answer picks def.
func promptYesNo(in *bufio.Reader, out io.Writer, question string, def bool) (bool, error) {
	hint := " [y/N] "
	if def {
		hint = " [Y/n] "
	}
	for {
		answer, err := promptForInput(in, out, question+hint)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(out, "Please answer y or n.")
	}
}

// candidateOptions collects the places to look for game data on this machine.
func (a *app) candidateOptions() media.CandidateOptions {
	o := media.CandidateOptions{
		Extra:  a.cfg.Media.ExtraRoots,
		CDPath: a.cfg.Media.CDPath,
	}
	if exe, err := os.Executable(); err == nil {
		o.ExeDir = filepath.Dir(exe)
	}
	if wd, err := os.Getwd(); err == nil {
		o.WorkDir = wd
	}
	return o
}

// newController wires a launch controller from the config and the preference store.
func (a *app) newController(store *prefs.Store, r launcher.Renderer) *launcher.Controller {
	return launcher.New(launcher.Options{
		Store:      store,
		Fs:         a.fs,
		Scanner:    media.NewScanner(a.fs, a.cfg.Media.Targets),
		Candidates: a.candidateOptions(),
		Executor:   &engine.RealExecutor{Dir: a.cfg.Engine.Dir},
		Engine:     a.cfg.Engine.Path,
		Renderer:   r,
		Tick:       a.cfg.TickInterval(),
	})
}

// settled reports whether the controller is waiting for the user.
func settled(s launcher.State) bool {
	switch s {
	case launcher.Ready, launcher.NotFound, launcher.Idle, launcher.Launching:
		return true
	}
	return false
}

// waitSettled blocks until the controller leaves Scanning (and a canceled scan returns
// to Idle) or stops.
func waitSettled(ctx context.Context, ctrl *launcher.Controller, changed <-chan struct{}) (launcher.Snapshot, error) {
	for {
		s := ctrl.Snapshot()
		if settled(s.State) {
			return s, nil
		}
		select {
		case <-changed:
		case <-ctrl.Done():
			return ctrl.Snapshot(), launcher.ErrStopped
		case <-ctx.Done():
			return s, ctx.Err()
		}
	}
}

// quickLaunch opens the controller and confirms right away when the cached install folder
// still validates. It reports false when the setup UI is needed after all.
func quickLaunch(ctx context.Context, ctrl *launcher.Controller) (bool, error) {
	log.Info().Msg("Trying to launch without the setup dialog")
	if err := ctrl.Open(ctx); err != nil {
		return false, err
	}
	if ctrl.Snapshot().State != launcher.Ready {
		return false, nil
	}
	err := ctrl.ConfirmLaunch(ctx)
	if clierr.Is(err, clierr.Validation) {
		return false, nil
	}
	return err == nil, err
}

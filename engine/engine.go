// Package engine is the boundary between the launcher and the game engine process.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/habedi/q2launch/args"
	"github.com/habedi/q2launch/pkg/clierr"
	"github.com/rs/zerolog/log"
)

// Executor runs a program and waits for it. Tests replace it with a fake.
type Executor interface {
	Run(ctx context.Context, name string, args ...string) error
}

// RealExecutor starts the engine as a child process. Nil streams default to the
// launcher's own stdio.
type RealExecutor struct {
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (e *RealExecutor) Run(ctx context.Context, name string, arg ...string) error {
	cmd := exec.CommandContext(ctx, name, arg...)
	cmd.Dir = e.Dir
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if e.Stdin != nil {
		cmd.Stdin = e.Stdin
	}
	if e.Stdout != nil {
		cmd.Stdout = e.Stdout
	}
	if e.Stderr != nil {
		cmd.Stderr = e.Stderr
	}
	return cmd.Run()
}

// ExitError reports an engine that exited with a non-zero status or was killed.
// Code is -1 when the process ended abnormally.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Code < 0 {
		return fmt.Sprintf("engine terminated abnormally: %v", e.Err)
	}
	return fmt.Sprintf("engine exited with status %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode extracts the engine's exit status from a launch error.
func ExitCode(err error) (int, bool) {
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code, true
	}
	return 0, false
}

// Launch hands cl to the engine and blocks until it exits. Every failure is a
// launch error; the caller must not retry.
func Launch(ctx context.Context, x Executor, cl args.CommandLine) error {
	if cl.Executable() == "" {
		return clierr.Newf(clierr.Launch, "no engine executable configured")
	}
	if err := cl.Validate(); err != nil {
		return err
	}

	log.Info().Str("engine", cl.Executable()).Strs("args", cl.Args()).Msg("Starting engine")
	err := x.Run(ctx, cl.Executable(), cl.Args()...)
	if err == nil {
		log.Info().Msg("Engine exited normally")
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		ee := &ExitError{Code: exitErr.ExitCode(), Err: err}
		return clierr.New(clierr.Launch, ee.Error(), ee)
	}
	return clierr.New(clierr.Launch, fmt.Sprintf("failed to start engine %s: %v", cl.Executable(), err), err)
}

package cmd

import (
	"fmt"
	"io"
	"sync"

	"github.com/habedi/q2launch/launcher"
	"github.com/schollz/progressbar/v3"
)

// cliRenderer draws the setup state on a terminal. Its methods run on the controller
// goroutine; changed is signaled after every state change for the goroutine driving the prompts.
type cliRenderer struct {
	out     io.Writer
	fancy   bool // draw a progress bar instead of plain lines
	bar     *progressbar.ProgressBar
	last    launcher.State
	changed chan struct{}
}

func newCLIRenderer(out io.Writer, fancy bool) *cliRenderer {
	return &cliRenderer{out: out, fancy: fancy, last: launcher.Idle, changed: make(chan struct{}, 1)}
}

func (r *cliRenderer) Render(s launcher.Snapshot) {
	defer r.signal()

	if s.State == launcher.Scanning {
		if r.last != launcher.Scanning {
			r.startScan(s)
		}
		r.progress(s)
		r.last = s.State
		return
	}
	r.finishScan()
	if s.State == r.last {
		return
	}
	r.last = s.State

	switch s.State {
	case launcher.Ready:
		fmt.Fprintf(r.out, "Found Quake II data in %s\n", s.Root)
	case launcher.NotFound:
		fmt.Fprintln(r.out, "Quake II data not found. Please choose a valid install location.")
		if s.Err != "" {
			fmt.Fprintln(r.out, " ", s.Err)
		}
	case launcher.Canceled:
		fmt.Fprintln(r.out, "Search canceled.")
	case launcher.Launching:
		fmt.Fprintln(r.out, "Starting Quake II...")
	}
}

func (r *cliRenderer) Tick(s launcher.Snapshot) {
	if r.bar != nil {
		r.bar.Describe(scanDescription(s))
	}
}

func (r *cliRenderer) startScan(s launcher.Snapshot) {
	if !r.fancy {
		fmt.Fprintf(r.out, "Looking for Quake II data in %d locations...\n", s.Candidates)
		return
	}
	r.bar = progressbar.NewOptions(s.Candidates,
		progressbar.OptionSetWriter(r.out),
		progressbar.OptionSetDescription(scanDescription(s)),
		progressbar.OptionSetWidth(20),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *cliRenderer) progress(s launcher.Snapshot) {
	if r.bar == nil {
		if !r.fancy && s.Candidate != "" {
			fmt.Fprintf(r.out, "  checking %s\n", s.Candidate)
		}
		return
	}
	_ = r.bar.Set(s.Progress)
	r.bar.Describe(scanDescription(s))
}

func (r *cliRenderer) finishScan() {
	if r.bar != nil {
		_ = r.bar.Finish()
		r.bar = nil
	}
}

func (r *cliRenderer) signal() {
	select {
	case r.changed <- struct{}{}:
	default:
	}
}

func scanDescription(s launcher.Snapshot) string {
	if s.Candidate == "" {
		return "Scanning..."
	}
	return "Scanning " + s.Candidate
}

// syncWriter serializes writes from the controller goroutine and the prompting goroutine.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

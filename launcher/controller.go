// Package launcher drives the setup flow: validate the installation, collect the
// user's settings and hand the assembled command line to the engine.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/habedi/q2launch/args"
	"github.com/habedi/q2launch/engine"
	"github.com/habedi/q2launch/media"
	"github.com/habedi/q2launch/pkg/clierr"
	"github.com/habedi/q2launch/pkg/validation"
	"github.com/habedi/q2launch/prefs"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var (
	ErrScanInProgress = errors.New("a media scan is already running")
	ErrLaunched       = errors.New("the engine has already been launched")
	ErrNotReady       = errors.New("no validated game data; choose the install folder first")
	ErrRemoteDisabled = errors.New("remote commands are disabled")
	ErrStopped        = errors.New("launcher is not running")
)

// DefaultTickInterval is the UI refresh period while scanning.
const DefaultTickInterval = 50 * time.Millisecond

// Options wires a Controller to its collaborators.
type Options struct {
	Store      *prefs.Store
	Fs         afero.Fs
	Scanner    *media.Scanner
	Candidates media.CandidateOptions
	Executor   engine.Executor
	Engine     string
	Renderer   Renderer
	Clock      clockwork.Clock
	Tick       time.Duration
}

type action struct {
	fn    func(ctx context.Context) error
	reply chan error
}

// Controller owns the setup state machine. All state changes happen on the goroutine
// running Run; public methods post work to it and wait for the outcome.
type Controller struct {
	opts    Options
	actions chan action
	done    chan struct{}
	started atomic.Bool
	snap    atomic.Pointer[Snapshot]
	req     atomic.Pointer[LaunchRequest]

	// Owned by the Run goroutine.
	state     State
	worker    *media.Worker
	root      string
	target    string
	candidate string
	progress  int
	total     int
	frame     int
	mod       string
	extra     []string
	pending   []Command
	err       error
}

// New creates a Controller in the Idle state.
func New(opts Options) *Controller {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Scanner == nil {
		opts.Scanner = media.NewScanner(opts.Fs, nil)
	}
	if opts.Executor == nil {
		opts.Executor = &engine.RealExecutor{}
	}
	if opts.Renderer == nil {
		opts.Renderer = nopRenderer{}
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Tick <= 0 {
		opts.Tick = DefaultTickInterval
	}
	c := &Controller{
		opts:    opts,
		actions: make(chan action),
		done:    make(chan struct{}),
	}
	c.snap.Store(&Snapshot{State: Idle})
	return c
}

// Run processes actions, scan events and ticks until ctx is done or the engine exits.
// It returns the engine's launch error, if any.
func (c *Controller) Run(ctx context.Context) (err error) {
	if !c.started.CompareAndSwap(false, true) {
		return errors.New("launcher: Run called twice")
	}
	defer close(c.done)
	defer func() {
		if r := recover(); r != nil {
			err = clierr.FromPanic(r)
		}
	}()
	defer c.stopWorker()

	ticker := c.opts.Clock.NewTicker(c.opts.Tick)
	defer ticker.Stop()

	c.publish()
	for {
		var events <-chan media.Event
		if c.worker != nil {
			events = c.worker.Events()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case a := <-c.actions:
			a.reply <- a.fn(ctx)
		case ev := <-events:
			c.handleScanEvent(ctx, ev)
		case <-ticker.Chan():
			if c.state == Scanning {
				c.frame++
				s := c.Snapshot()
				s.Frame = c.frame
				c.opts.Renderer.Tick(s)
			}
		}

		if c.state == Launching {
			return c.launch(ctx)
		}
	}
}

// Snapshot returns the last published state. Safe from any goroutine.
func (c *Controller) Snapshot() Snapshot { return *c.snap.Load() }

// Done is closed when Run returns.
func (c *Controller) Done() <-chan struct{} { return c.done }

func (c *Controller) do(ctx context.Context, fn func(ctx context.Context) error) error {
	a := action{fn: fn, reply: make(chan error, 1)}
	select {
	case c.actions <- a:
	case <-c.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-a.reply:
		return err
	case <-c.done:
		// Run may have exited right after replying.
		select {
		case err := <-a.reply:
			return err
		default:
			return ErrStopped
		}
	}
}

// Open is called when the setup dialog appears. A persisted root that still validates
// goes straight to Ready; otherwise every candidate root is scanned.
func (c *Controller) Open(ctx context.Context) error {
	return c.do(ctx, func(ctx context.Context) error {
		if err := c.checkActive(); err != nil {
			return err
		}
		if c.state == Ready {
			return nil
		}
		if root := c.opts.Store.String(ctx, prefs.BasePath); root != "" {
			if target, ok := c.opts.Scanner.Satisfies(root); ok {
				log.Debug().Str("root", root).Msg("Cached install folder is still valid")
				c.becomeReady(ctx, root, target.Name)
				return nil
			}
			log.Info().Str("root", root).Msg("Cached install folder no longer validates")
		}
		o := c.opts.Candidates
		o.BasePath = c.opts.Store.String(ctx, prefs.BasePath)
		c.startScan(media.Candidates(c.opts.Fs, o))
		return nil
	})
}

// ShouldShowDialog reports whether the setup dialog is needed. When the option key is
// required and not held, and the cached install folder is still valid, the launcher
// skips the dialog and launches directly.
func (c *Controller) ShouldShowDialog(ctx context.Context, optionPressed bool) (bool, error) {
	var show bool
	err := c.do(ctx, func(ctx context.Context) error {
		show = true
		if !c.opts.Store.Bool(ctx, prefs.OptionKeyRequired) || optionPressed {
			return nil
		}
		root := c.opts.Store.String(ctx, prefs.BasePath)
		if _, ok := c.opts.Scanner.Satisfies(root); ok {
			show = false
		}
		return nil
	})
	return show, err
}

// ChooseMediaFolder scans a folder picked by the user.
func (c *Controller) ChooseMediaFolder(ctx context.Context, path string) error {
	return c.do(ctx, func(ctx context.Context) error {
		if err := c.checkActive(); err != nil {
			return err
		}
		if err := validation.ValidateNonEmptyString("install folder", path); err != nil {
			return clierr.New(clierr.Validation, err.Error(), err)
		}
		c.startScan(media.Candidates(c.opts.Fs, media.CandidateOptions{Chosen: path}))
		return nil
	})
}

// CancelScan asks a running scan to stop. The state becomes Canceled, then Idle, once
// the worker reaches the next candidate boundary.
func (c *Controller) CancelScan(ctx context.Context) error {
	return c.do(ctx, func(ctx context.Context) error {
		if c.state != Scanning || c.worker == nil {
			return nil
		}
		log.Info().Msg("Canceling media scan")
		c.worker.Cancel()
		return nil
	})
}

// ConfirmLaunch re-validates the install folder, snapshots the settings and starts
// the engine. Run returns once the engine exits.
func (c *Controller) ConfirmLaunch(ctx context.Context) error {
	return c.do(ctx, c.confirm)
}

func (c *Controller) confirm(ctx context.Context) error {
	if c.state == Launching {
		return ErrLaunched
	}
	if c.state != Ready {
		return ErrNotReady
	}
	if _, ok := c.opts.Scanner.Satisfies(c.root); !ok {
		log.Warn().Str("root", c.root).Msg("Install folder disappeared before launch")
		_ = c.opts.Store.SetString(ctx, prefs.BasePath, "")
		err := clierr.Newf(clierr.Validation, "game data is no longer present in %s; please choose a valid install location", c.root)
		c.root, c.target = "", ""
		c.transition(NotFound, err)
		return err
	}

	req := c.snapshotRequest(ctx)
	cl := req.CommandLine()
	if err := cl.Validate(); err != nil {
		return err
	}
	c.req.Store(&req)
	log.Info().Str("command", cl.String()).Msg("Launch confirmed")
	c.transition(Launching, nil)
	return nil
}

func (c *Controller) snapshotRequest(ctx context.Context) LaunchRequest {
	s := c.opts.Store
	req := LaunchRequest{
		Executable: c.opts.Engine,
		Root:       c.root,
		ModFolder:  c.mod,
		MediaDir:   media.MediaDir(c.opts.Fs, c.opts.Candidates.CDPath),
		UseMP3:     s.Bool(ctx, prefs.UseMP3),
		MP3Folder:  s.String(ctx, prefs.MP3Path),
		Extra:      append([]string(nil), c.extra...),
	}
	if s.Bool(ctx, prefs.UseParameters) {
		req.Parameters = s.String(ctx, prefs.Parameters)
	}
	return req
}

// LaunchRequest returns the request taken at confirmation, or nil before that.
func (c *Controller) LaunchRequest() *LaunchRequest { return c.req.Load() }

func (c *Controller) launch(ctx context.Context) error {
	err := engine.Launch(ctx, c.opts.Executor, c.req.Load().CommandLine())
	if err != nil {
		c.err = err
		c.opts.Renderer.Render(c.publish())
	}
	return err
}

// ToggleMP3 enables or disables MP3 music.
func (c *Controller) ToggleMP3(ctx context.Context, enabled bool) error {
	return c.setting(ctx, func(ctx context.Context) error {
		return c.opts.Store.SetBool(ctx, prefs.UseMP3, enabled)
	})
}

// SetMP3Folder sets the folder holding the soundtrack. An empty path clears it.
func (c *Controller) SetMP3Folder(ctx context.Context, path string) error {
	return c.setting(ctx, func(ctx context.Context) error {
		if path != "" {
			if err := validation.ValidateDirectory(c.opts.Fs, path); err != nil {
				return clierr.New(clierr.Validation, err.Error(), err)
			}
		}
		return c.opts.Store.SetString(ctx, prefs.MP3Path, path)
	})
}

// ToggleCustomParameters enables or disables the custom parameter string.
func (c *Controller) ToggleCustomParameters(ctx context.Context, enabled bool) error {
	return c.setting(ctx, func(ctx context.Context) error {
		return c.opts.Store.SetBool(ctx, prefs.UseParameters, enabled)
	})
}

// SetParameters stores the custom parameter string.
func (c *Controller) SetParameters(ctx context.Context, params string) error {
	return c.setting(ctx, func(ctx context.Context) error {
		return c.opts.Store.SetString(ctx, prefs.Parameters, params)
	})
}

// SetModFolder selects the game folder for this launch. It is not persisted.
func (c *Controller) SetModFolder(ctx context.Context, name string) error {
	return c.setting(ctx, func(context.Context) error {
		if name != "" {
			if err := validation.ValidateModName(name); err != nil {
				return clierr.New(clierr.Validation, err.Error(), err)
			}
		}
		c.mod = name
		return nil
	})
}

// OpenFolder selects a mod from a folder opened in the launcher, e.g. by drag and drop.
func (c *Controller) OpenFolder(ctx context.Context, path string) error {
	return c.setting(ctx, func(context.Context) error {
		name, err := args.ModFolderFromPath(c.root, path)
		if err != nil {
			return err
		}
		c.mod = name
		return nil
	})
}

func (c *Controller) setting(ctx context.Context, fn func(ctx context.Context) error) error {
	return c.do(ctx, func(ctx context.Context) error {
		if c.state == Launching {
			return ErrLaunched
		}
		if err := fn(ctx); err != nil {
			return err
		}
		c.opts.Renderer.Render(c.publish())
		return nil
	})
}

// Submit queues a command from another process. It is applied right away when Ready,
// otherwise as soon as the controller becomes Ready.
func (c *Controller) Submit(ctx context.Context, cmd Command) error {
	return c.do(ctx, func(ctx context.Context) error {
		if !c.opts.Store.Bool(ctx, prefs.AllowRemoteCommands) {
			return ErrRemoteDisabled
		}
		if c.state == Launching {
			return ErrLaunched
		}
		log.Info().Str("id", cmd.ID).Str("verb", string(cmd.Verb)).Msg("Remote command queued")
		c.pending = append(c.pending, cmd)
		if c.state == Ready {
			return c.applyPending(ctx)
		}
		c.publish()
		return nil
	})
}

// applyPending runs queued commands in order. A run command stops the queue since the
// launch is terminal.
func (c *Controller) applyPending(ctx context.Context) error {
	for len(c.pending) > 0 && c.state == Ready {
		cmd := c.pending[0]
		c.pending = c.pending[1:]
		if err := c.apply(ctx, cmd); err != nil {
			log.Error().Err(err).Str("id", cmd.ID).Msg("Remote command failed")
			return err
		}
	}
	c.publish()
	return nil
}

func (c *Controller) apply(ctx context.Context, cmd Command) error {
	log.Debug().Str("id", cmd.ID).Str("verb", string(cmd.Verb)).Msg("Applying remote command")
	switch cmd.Verb {
	case VerbParams, VerbRun:
		if cmd.Text != "" {
			if err := c.opts.Store.SetString(ctx, prefs.Parameters, cmd.Text); err != nil {
				return err
			}
			if err := c.opts.Store.SetBool(ctx, prefs.UseParameters, true); err != nil {
				return err
			}
		}
		if cmd.Verb == VerbRun {
			return c.confirm(ctx)
		}
	case VerbConnect:
		c.extra = append(c.extra, "+connect", cmd.Text)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Verb)
	}
	return nil
}

func (c *Controller) checkActive() error {
	switch c.state {
	case Scanning:
		return ErrScanInProgress
	case Launching:
		return ErrLaunched
	}
	return nil
}

func (c *Controller) startScan(roots []string) {
	log.Info().Strs("roots", roots).Msg("Scanning for game data")
	c.worker = media.StartWorker(context.Background(), c.opts.Scanner, roots)
	c.root, c.target, c.candidate = "", "", ""
	c.progress, c.total, c.frame = 0, len(roots), 0
	c.transition(Scanning, nil)
}

func (c *Controller) stopWorker() {
	if c.worker != nil {
		c.worker.Cancel()
		c.worker.Wait()
		c.worker = nil
	}
}

func (c *Controller) handleScanEvent(ctx context.Context, ev media.Event) {
	switch ev.Kind {
	case media.EventProgress:
		c.progress, c.candidate = ev.Index, ev.Root
		c.opts.Renderer.Render(c.publish())
	case media.EventDone:
		c.worker.Wait()
		c.worker = nil
		switch ev.Result.Status {
		case media.Found:
			if err := c.opts.Store.SetString(ctx, prefs.BasePath, ev.Result.Root); err != nil {
				log.Warn().Err(err).Msg("Could not remember install folder")
			}
			c.becomeReady(ctx, ev.Result.Root, ev.Result.Target)
		case media.Canceled:
			c.transition(Canceled, nil)
			c.transition(Idle, nil)
		default:
			c.transition(NotFound, clierr.Newf(clierr.Validation,
				"no game data found in %d locations; please choose a valid install location", ev.Result.Checked))
		}
	}
}

func (c *Controller) becomeReady(ctx context.Context, root, target string) {
	c.root, c.target = root, target
	c.transition(Ready, nil)
	if err := c.applyPending(ctx); err != nil {
		c.err = err
		c.publish()
	}
}

func (c *Controller) transition(to State, err error) {
	log.Debug().Stringer("from", c.state).Stringer("to", to).Msg("Launcher state change")
	c.state = to
	c.err = err
	c.opts.Renderer.Render(c.publish())
}

// snapshot builds the current view. Only called on the Run goroutine.
func (c *Controller) snapshot() Snapshot {
	s := Snapshot{
		State:      c.state,
		Root:       c.root,
		Target:     c.target,
		Candidate:  c.candidate,
		Progress:   c.progress,
		Candidates: c.total,
		Frame:      c.frame,
		ModFolder:  c.mod,
		Pending:    len(c.pending),
	}
	if c.opts.Store != nil {
		ctx := context.Background()
		s.UseMP3 = c.opts.Store.Bool(ctx, prefs.UseMP3)
		s.MP3Folder = c.opts.Store.String(ctx, prefs.MP3Path)
		s.UseParameters = c.opts.Store.Bool(ctx, prefs.UseParameters)
		s.Parameters = c.opts.Store.String(ctx, prefs.Parameters)
		s.CommandLine = c.snapshotRequest(ctx).CommandLine().String()
	}
	if c.err != nil {
		s.Err = c.err.Error()
	}
	return s
}

// publish makes the current view visible to Snapshot and returns it.
func (c *Controller) publish() Snapshot {
	s := c.snapshot()
	c.snap.Store(&s)
	return s
}

// Package gui is the desktop setup dialog shown before the engine starts.
package gui

import (
	"context"
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"github.com/habedi/q2launch/launcher"
	"github.com/rs/zerolog/log"
)

// Renderer forwards controller updates to the setup window. Updates that arrive
// before the window exists are dropped; the window reads the current snapshot when it opens.
type Renderer struct {
	view *setupView // main thread only
}

// NewRenderer returns a renderer to pass to launcher.New before calling Run.
func NewRenderer() *Renderer { return &Renderer{} }

func (r *Renderer) Render(s launcher.Snapshot) {
	runOnMain(func() {
		if r.view != nil {
			r.view.render(s)
		}
	})
}

func (r *Renderer) Tick(s launcher.Snapshot) {
	runOnMain(func() {
		if r.view != nil {
			r.view.tick(s)
		}
	})
}

// Options configures the setup window.
type Options struct {
	Version string
	Theme   string // "Light", "Dark" or empty for the system setting
}

// Run shows the setup window for ctrl, whose Run loop must already be running on another
// goroutine. r must be the renderer ctrl was created with. Run blocks on the calling
// goroutine, which must be the main one, until the window is closed or the controller stops.
func Run(ctx context.Context, ctrl *launcher.Controller, r *Renderer, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a := app.NewWithID("com.github.habedi.q2launch")
	if opts.Theme == "" {
		opts.Theme = a.Preferences().StringWithFallback("theme", "System Default")
	}
	a.Settings().SetTheme(NewTheme(opts.Theme))

	title := "Quake II"
	if opts.Version != "" {
		title += " Launcher " + opts.Version
	}
	win := a.NewWindow(title)

	v := newSetupView(ctx, win, ctrl)
	r.view = v
	win.SetContent(v.content())
	win.Resize(fyne.NewSize(560, 640))
	win.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		if len(uris) == 0 {
			return
		}
		path := uris[0].Path()
		v.async("open folder", func(ctx context.Context) error { return ctrl.OpenFolder(ctx, path) })
	})
	win.SetOnClosed(cancel)

	go func() {
		select {
		case <-ctx.Done():
			return
		case <-ctrl.Done():
		}
		msg := ctrl.Snapshot().Err
		runOnMain(func() {
			if msg == "" {
				a.Quit()
				return
			}
			win.Show()
			d := dialog.NewError(errors.New(msg), win)
			d.SetOnClosed(a.Quit)
			d.Show()
		})
	}()
	if ctrl.Snapshot().State == launcher.Idle {
		v.async("open", ctrl.Open)
	}

	win.ShowAndRun()
	log.Debug().Msg("Setup window closed")
	return nil
}

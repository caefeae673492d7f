package gui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/habedi/q2launch/engine"
	"github.com/habedi/q2launch/launcher"
	"github.com/habedi/q2launch/media"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

// controls says which widgets accept input in a given state.
type controls struct {
	Choose bool
	Cancel bool
	Launch bool
	Edit   bool
}

func controlsFor(s launcher.Snapshot) controls {
	switch s.State {
	case launcher.Scanning:
		return controls{Cancel: true, Edit: true}
	case launcher.Ready:
		return controls{Choose: true, Launch: true, Edit: true}
	case launcher.Launching:
		return controls{}
	default:
		return controls{Choose: true, Edit: true}
	}
}

func statusText(s launcher.Snapshot) string {
	if s.Err != "" && s.State != launcher.Scanning {
		return s.Err
	}
	switch s.State {
	case launcher.Scanning:
		return fmt.Sprintf("Looking for Quake II data (%d of %d)...", s.Progress+1, s.Candidates)
	case launcher.Ready:
		return "Found Quake II data in " + s.Root
	case launcher.NotFound:
		return "Quake II data not found. Please choose a valid install location."
	case launcher.Canceled:
		return "Search canceled."
	case launcher.Launching:
		return "Starting Quake II..."
	default:
		return "Choose the folder that contains Quake II."
	}
}

func progressValue(s launcher.Snapshot) float64 {
	switch {
	case s.State == launcher.Ready || s.State == launcher.Launching:
		return 1
	case s.State != launcher.Scanning || s.Candidates == 0:
		return 0
	}
	return float64(s.Progress) / float64(s.Candidates)
}

func spinnerFrame(frame int) string {
	if frame < 0 {
		frame = -frame
	}
	return spinnerFrames[frame%len(spinnerFrames)]
}

// setupView is the launcher's setup dialog. All of its methods run on the Fyne main thread.
type setupView struct {
	ctx    context.Context
	win    fyne.Window
	ctrl   *launcher.Controller
	opener engine.Executor

	status    *widget.Label
	candidate *widget.Label
	progress  *widget.ProgressBar
	root      *widget.Label
	chooseBtn *widget.Button
	cancelBtn *widget.Button
	showBtn   *widget.Button
	launchBtn *widget.Button
	mp3Check  *widget.Check
	mp3Folder *widget.Label
	mp3Btn    *widget.Button
	playBtn   *widget.Button
	useParams *widget.Check
	params    *widget.Entry
	mod       *widget.Entry
	preview   *CommandPreview

	last launcher.Snapshot
}

func newSetupView(ctx context.Context, win fyne.Window, ctrl *launcher.Controller) *setupView {
	v := &setupView{ctx: ctx, win: win, ctrl: ctrl, opener: &engine.RealExecutor{}}
	s := ctrl.Snapshot()

	v.status = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	v.status.Wrapping = fyne.TextWrapWord
	v.candidate = widget.NewLabel("")
	v.candidate.Truncation = fyne.TextTruncateEllipsis
	v.progress = widget.NewProgressBar()
	v.root = widget.NewLabel("")
	v.root.Truncation = fyne.TextTruncateEllipsis

	v.chooseBtn = widget.NewButtonWithIcon("Choose Folder...", theme.FolderOpenIcon(), v.chooseMediaFolder)
	v.cancelBtn = widget.NewButtonWithIcon("Stop", theme.CancelIcon(), func() {
		v.async("cancel scan", v.ctrl.CancelScan)
	})
	v.showBtn = widget.NewButtonWithIcon("", theme.FolderIcon(), func() {
		if v.last.Root != "" {
			go openFolder(v.opener, v.last.Root)
		}
	})

	v.mp3Check = widget.NewCheck("Play the soundtrack from MP3 files", func(on bool) {
		v.async("toggle mp3", func(ctx context.Context) error { return v.ctrl.ToggleMP3(ctx, on) })
	})
	v.mp3Check.Checked = s.UseMP3
	v.mp3Folder = widget.NewLabel("")
	v.mp3Folder.Truncation = fyne.TextTruncateEllipsis
	v.mp3Btn = widget.NewButtonWithIcon("", theme.FolderOpenIcon(), v.chooseMP3Folder)
	v.playBtn = widget.NewButtonWithIcon("", theme.MediaPlayIcon(), v.playPreview)

	v.useParams = widget.NewCheck("Use command-line parameters", func(on bool) {
		v.async("toggle parameters", func(ctx context.Context) error {
			return v.ctrl.ToggleCustomParameters(ctx, on)
		})
	})
	v.useParams.Checked = s.UseParameters
	v.params = widget.NewMultiLineEntry()
	v.params.SetPlaceHolder("+set deathmatch 1 +map q2dm1")
	v.params.Wrapping = fyne.TextWrapWord
	v.params.SetText(s.Parameters)
	v.params.OnChanged = func(text string) {
		v.async("set parameters", func(ctx context.Context) error { return v.ctrl.SetParameters(ctx, text) })
	}

	v.mod = widget.NewEntry()
	v.mod.SetPlaceHolder("baseq2")
	v.mod.SetText(s.ModFolder)
	v.mod.OnSubmitted = func(name string) {
		v.async("set mod folder", func(ctx context.Context) error { return v.ctrl.SetModFolder(ctx, name) })
	}

	v.preview = NewCommandPreview()
	v.launchBtn = widget.NewButtonWithIcon("Play", theme.MediaPlayIcon(), v.confirm)
	v.launchBtn.Importance = widget.HighImportance

	v.render(s)
	return v
}

func (v *setupView) content() fyne.CanvasObject {
	header := widget.NewLabelWithStyle("Quake II", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	mediaCard := widget.NewCard("Game Data", "", container.NewVBox(
		v.status,
		v.progress,
		v.candidate,
		container.NewBorder(nil, nil, widget.NewLabel("Location:"), v.showBtn, v.root),
		container.NewHBox(v.chooseBtn, v.cancelBtn),
	))

	modRow := container.NewBorder(nil, nil, widget.NewLabel("Mod folder:"), nil, v.mod)
	optionsCard := widget.NewCard("Options", "", container.NewVBox(
		v.mp3Check,
		container.NewBorder(nil, nil, nil, container.NewHBox(v.mp3Btn, v.playBtn), v.mp3Folder),
		widget.NewSeparator(),
		v.useParams,
		v.params,
		modRow,
	))

	previewCard := widget.NewCard("Command Line", "Tap to copy", v.preview)
	quit := widget.NewButton("Quit", func() { v.win.Close() })

	return container.NewBorder(
		header,
		container.NewHBox(quit, layout.NewSpacer(), v.launchBtn),
		nil, nil,
		container.NewVScroll(container.NewVBox(mediaCard, optionsCard, previewCard)),
	)
}

func (v *setupView) render(s launcher.Snapshot) {
	v.last = s
	c := controlsFor(s)

	v.status.SetText(statusText(s))
	v.progress.SetValue(progressValue(s))
	if s.State == launcher.Scanning {
		v.candidate.SetText(spinnerFrame(s.Frame) + " " + s.Candidate)
	} else {
		v.candidate.SetText("")
	}
	v.root.SetText(s.Root)
	v.mp3Folder.SetText(s.MP3Folder)
	v.preview.SetCommandLine(s.CommandLine)

	setEnabled(v.chooseBtn, c.Choose)
	setEnabled(v.cancelBtn, c.Cancel)
	setEnabled(v.launchBtn, c.Launch)
	setEnabled(v.showBtn, s.Root != "")
	for _, w := range []fyne.Disableable{v.mp3Check, v.mp3Btn, v.playBtn, v.useParams, v.params, v.mod} {
		setEnabled(w, c.Edit)
	}
	if c.Edit && !s.UseParameters {
		v.params.Disable()
	}
	// The engine owns the screen from here on.
	if s.State == launcher.Launching {
		v.win.Hide()
	}
}

func (v *setupView) tick(s launcher.Snapshot) {
	v.candidate.SetText(spinnerFrame(s.Frame) + " " + s.Candidate)
	v.progress.SetValue(progressValue(s))
}

func (v *setupView) chooseMediaFolder() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		v.async("choose media folder", func(ctx context.Context) error {
			return v.ctrl.ChooseMediaFolder(ctx, uri.Path())
		})
	}, v.win)
}

func (v *setupView) chooseMP3Folder() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		path := uri.Path()
		go func() {
			n, err := media.CheckMP3Folder(v.ctx, afero.NewOsFs(), path, 4)
			if err != nil {
				runOnMain(func() { dialog.ShowError(err, v.win) })
				return
			}
			log.Info().Int("tracks", n).Str("folder", path).Msg("MP3 folder checked")
			v.async("set mp3 folder", func(ctx context.Context) error { return v.ctrl.SetMP3Folder(ctx, path) })
		}()
	}, v.win)
}

func (v *setupView) playPreview() {
	folder := v.last.MP3Folder
	if folder == "" {
		dialog.ShowInformation("Soundtrack", "Choose an MP3 folder first.", v.win)
		return
	}
	setEnabled(v.playBtn, false)
	go func() {
		defer runOnMain(func() { setEnabled(v.playBtn, controlsFor(v.last).Edit) })
		tracks, err := media.FindTracks(afero.NewOsFs(), folder)
		if err == nil && len(tracks) == 0 {
			err = media.ErrNoTracks
		}
		if err == nil {
			err = previewTrack(tracks[0])
		}
		if err != nil {
			log.Error().Err(err).Str("folder", folder).Msg("Soundtrack preview failed")
			runOnMain(func() { dialog.ShowError(err, v.win) })
		}
	}()
}

func (v *setupView) confirm() {
	params, mod := v.params.Text, v.mod.Text
	v.async("launch", func(ctx context.Context) error {
		if err := v.ctrl.SetParameters(ctx, params); err != nil {
			return err
		}
		if err := v.ctrl.SetModFolder(ctx, mod); err != nil {
			return err
		}
		return v.ctrl.ConfirmLaunch(ctx)
	})
}

// async runs a controller call off the main thread and reports failures in a dialog.
func (v *setupView) async(what string, fn func(ctx context.Context) error) {
	go func() {
		if err := fn(v.ctx); err != nil {
			if v.ctx.Err() != nil {
				return
			}
			log.Warn().Err(err).Str("action", what).Msg("Launcher action failed")
			runOnMain(func() { dialog.ShowError(err, v.win) })
		}
	}()
}

func setEnabled(w fyne.Disableable, on bool) {
	if on {
		w.Enable()
	} else {
		w.Disable()
	}
}

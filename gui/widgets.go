package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

const noCommandLine = "Choose an install folder to see the command line."

// CommandPreview shows the engine command line and copies it when tapped.
type CommandPreview struct {
	widget.Label
	command string
}

func NewCommandPreview() *CommandPreview {
	p := &CommandPreview{}
	p.ExtendBaseWidget(p)
	p.Wrapping = fyne.TextWrapBreak
	p.TextStyle = fyne.TextStyle{Monospace: true}
	p.SetCommandLine("")
	return p
}

// SetCommandLine replaces the previewed command. An empty command shows a hint instead.
func (p *CommandPreview) SetCommandLine(command string) {
	p.command = command
	p.SetText(previewText(command))
}

// Tapped copies the command line. The hint is never copied.
func (p *CommandPreview) Tapped(_ *fyne.PointEvent) {
	if p.command == "" {
		return
	}
	a := fyne.CurrentApp()
	a.Clipboard().SetContent(p.command)
	a.SendNotification(fyne.NewNotification("Quake II", "The command line was copied."))
}

func previewText(command string) string {
	if command == "" {
		return noCommandLine
	}
	return command
}

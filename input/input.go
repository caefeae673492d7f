// Package input forwards raw keyboard and mouse events to the engine's input queue.
package input

import "github.com/rs/zerolog/log"

// MaxMouseButtons is the number of mouse buttons the engine tracks.
const MaxMouseButtons = 5

type Kind int

const (
	KeyDown Kind = iota
	KeyUp
	MouseMove
	MouseDown
	MouseUp
	MouseWheel
)

func (k Kind) isMouse() bool { return k >= MouseMove }

// Event is a raw input event. Only the fields relevant to Kind are set.
type Event struct {
	Kind   Kind
	Key    int
	Button int
	DX, DY int
}

// Sink is the engine's input queue.
type Sink interface {
	Post(Event)
}

// Gate is the engine window state that decides whether input reaches the engine.
type Gate struct {
	Focused       bool
	Minimized     bool
	Fullscreen    bool
	WindowedMouse bool
	MouseEnabled  bool
}

// Accepts reports whether ev should be forwarded under g.
func (g Gate) Accepts(ev Event) bool {
	if !g.Focused || g.Minimized {
		return false
	}
	if !ev.Kind.isMouse() {
		return true
	}
	if !g.MouseEnabled || !(g.Fullscreen || g.WindowedMouse) {
		return false
	}
	if ev.Kind == MouseDown || ev.Kind == MouseUp {
		return ev.Button >= 0 && ev.Button < MaxMouseButtons
	}
	return true
}

// Forwarder passes accepted events through unmodified. It keeps no state of its own;
// the gate is read from the engine on every event.
type Forwarder struct {
	sink  Sink
	state func() Gate
}

func NewForwarder(sink Sink, state func() Gate) *Forwarder {
	return &Forwarder{sink: sink, state: state}
}

// Forward posts ev to the sink when the current gate accepts it.
func (f *Forwarder) Forward(ev Event) bool {
	if !f.state().Accepts(ev) {
		log.Trace().Int("kind", int(ev.Kind)).Msg("Input event dropped")
		return false
	}
	f.sink.Post(ev)
	return true
}

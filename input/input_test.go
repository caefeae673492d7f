package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct{ events []Event }

func (r *recorder) Post(ev Event) { r.events = append(r.events, ev) }

func TestGate_Accepts(t *testing.T) {
	active := Gate{Focused: true, Fullscreen: true, MouseEnabled: true}

	tests := []struct {
		name string
		gate Gate
		ev   Event
		want bool
	}{
		{"key when focused", active, Event{Kind: KeyDown, Key: 'w'}, true},
		{"key when unfocused", Gate{}, Event{Kind: KeyDown, Key: 'w'}, false},
		{"key when minimized", Gate{Focused: true, Minimized: true}, Event{Kind: KeyUp, Key: 'w'}, false},
		{"key without mouse gate", Gate{Focused: true}, Event{Kind: KeyUp, Key: 'w'}, true},
		{"mouse move fullscreen", active, Event{Kind: MouseMove, DX: 3, DY: -2}, true},
		{"mouse move windowed without grab", Gate{Focused: true, MouseEnabled: true}, Event{Kind: MouseMove}, false},
		{"mouse move windowed with grab", Gate{Focused: true, WindowedMouse: true, MouseEnabled: true}, Event{Kind: MouseMove}, true},
		{"mouse disabled", Gate{Focused: true, Fullscreen: true}, Event{Kind: MouseMove}, false},
		{"last button", active, Event{Kind: MouseDown, Button: MaxMouseButtons - 1}, true},
		{"button out of range", active, Event{Kind: MouseDown, Button: MaxMouseButtons}, false},
		{"negative button", active, Event{Kind: MouseUp, Button: -1}, false},
		{"wheel", active, Event{Kind: MouseWheel, DY: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.gate.Accepts(tt.ev))
		})
	}
}

func TestForwarder_PassesEventsUnmodified(t *testing.T) {
	gate := Gate{Focused: true, Fullscreen: true, MouseEnabled: true}
	rec := &recorder{}
	f := NewForwarder(rec, func() Gate { return gate })

	ev := Event{Kind: MouseMove, DX: 7, DY: -4}
	assert.True(t, f.Forward(ev))

	gate.Minimized = true
	assert.False(t, f.Forward(Event{Kind: KeyDown, Key: 27}))

	assert.Equal(t, []Event{ev}, rec.events)
}

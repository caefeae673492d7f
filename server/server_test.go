package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/habedi/q2launch/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLauncher struct {
	mu       sync.Mutex
	err      error
	commands []launcher.Command
}

func (f *fakeLauncher) Submit(_ context.Context, cmd launcher.Command) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.commands = append(f.commands, cmd)
	return nil
}

func (f *fakeLauncher) submitted() []launcher.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]launcher.Command(nil), f.commands...)
}

func (f *fakeLauncher) Snapshot() launcher.Snapshot {
	return launcher.Snapshot{State: launcher.Ready, Root: "/Applications/Quake2", Pending: 1}
}

func newTestServer(t *testing.T, l Launcher) *Client {
	t.Helper()
	ts := httptest.NewServer(NewRouter(l))
	t.Cleanup(ts.Close)
	return NewClient(strings.TrimPrefix(ts.URL, "http://"))
}

func TestSubmitAccepted(t *testing.T) {
	fake := &fakeLauncher{}
	c := newTestServer(t, fake)

	id, err := c.Send(context.Background(), "connect 10.0.0.1:27910")
	require.NoError(t, err)
	assert.Len(t, id, 36)

	cmds := fake.submitted()
	require.Len(t, cmds, 1)
	assert.Equal(t, launcher.VerbConnect, cmds[0].Verb)
	assert.Equal(t, "10.0.0.1:27910", cmds[0].Text)
	assert.Equal(t, id, cmds[0].ID)
}

func TestSubmitStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		body   string
		status int
	}{
		{"disabled", launcher.ErrRemoteDisabled, `{"command":"run"}`, http.StatusForbidden},
		{"already launched", launcher.ErrLaunched, `{"command":"run"}`, http.StatusConflict},
		{"unknown verb", nil, `{"command":"quit"}`, http.StatusBadRequest},
		{"bad json", nil, `{"command":`, http.StatusBadRequest},
		{"accepted", nil, `{"command":"params +set skill 3"}`, http.StatusAccepted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRouter(&fakeLauncher{err: tt.err})
			req := httptest.NewRequest(http.MethodPost, "/commands", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		})
	}
}

func TestClientReportsRejection(t *testing.T) {
	c := newTestServer(t, &fakeLauncher{err: launcher.ErrRemoteDisabled})
	_, err := c.Send(context.Background(), "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "remote commands are disabled")
}

func TestState(t *testing.T) {
	c := newTestServer(t, &fakeLauncher{})
	snap, err := c.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, launcher.Ready, snap.State)
	assert.Equal(t, "/Applications/Quake2", snap.Root)
	assert.Equal(t, 1, snap.Pending)
}

func TestListenRejectsNonLoopback(t *testing.T) {
	_, err := Listen("0.0.0.0:0", &fakeLauncher{})
	assert.Error(t, err)
}

func TestListenServeShutdown(t *testing.T) {
	s, err := Listen("127.0.0.1:0", &fakeLauncher{})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.Serve() }()

	snap, err := NewClient(s.Addr()).State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, launcher.Ready, snap.State)

	require.NoError(t, s.Shutdown(context.Background()))
	require.NoError(t, <-done)
}

package launcher

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/habedi/q2launch/db"
	"github.com/habedi/q2launch/media"
	"github.com/habedi/q2launch/prefs"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const (
	installRoot = "/Applications/Quake2"
	enginePath  = "/Applications/Quake2/quake2"
)

type memRepo struct {
	mu     sync.Mutex
	values map[string]string
}

func (m *memRepo) set(name, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[name] = value
}

func (m *memRepo) get(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[name]
}

func (m *memRepo) Get(_ context.Context, name string) (*db.Preference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[name]
	if !ok {
		return nil, nil
	}
	return &db.Preference{Name: name, Value: v}, nil
}

func (m *memRepo) Put(_ context.Context, p db.Preference) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[p.Name] = p.Value
	return nil
}

func (m *memRepo) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, name)
	return nil
}

func (m *memRepo) List(_ context.Context) ([]db.Preference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Preference
	for k, v := range m.values {
		out = append(out, db.Preference{Name: k, Value: v})
	}
	return out, nil
}

type recorder struct {
	mu      sync.Mutex
	states  []State
	ticks   []Snapshot
	panicOn State
}

func (r *recorder) Render(s Snapshot) {
	if r.panicOn != Idle && s.State == r.panicOn {
		panic("renderer exploded")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if n := len(r.states); n == 0 || r.states[n-1] != s.State {
		r.states = append(r.states, s.State)
	}
}

func (r *recorder) Tick(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = append(r.ticks, s)
}

func (r *recorder) seen() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State(nil), r.states...)
}

func (r *recorder) tickCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ticks)
}

type fakeExecutor struct {
	name string
	args []string
	err  error
}

func (f *fakeExecutor) Run(_ context.Context, name string, args ...string) error {
	f.name = name
	f.args = args
	return f.err
}

// gateFs blocks every Stat below prefix until release is closed.
type gateFs struct {
	afero.Fs
	prefix  string
	release chan struct{}
	once    sync.Once
}

func newGateFs(base afero.Fs, prefix string) *gateFs {
	return &gateFs{Fs: base, prefix: prefix, release: make(chan struct{})}
}

func (g *gateFs) Release() { g.once.Do(func() { close(g.release) }) }

func (g *gateFs) Stat(name string) (os.FileInfo, error) {
	if strings.HasPrefix(name, g.prefix) {
		<-g.release
	}
	return g.Fs.Stat(name)
}

type harness struct {
	ctrl  *Controller
	fs    afero.Fs
	repo  *memRepo
	store *prefs.Store
	clock *clockwork.FakeClock
	exec  *fakeExecutor
	rec   *recorder
	errCh chan error
	ctx   context.Context
}

type harnessOption func(*Options)

func install(t *testing.T, fs afero.Fs, root string) {
	t.Helper()
	p := root + "/baseq2/GameMac.q2plug/Contents/MacOS/GameMac"
	require.NoError(t, afero.WriteFile(fs, p, []byte("plugin"), 0o755))
}

func newHarness(t *testing.T, fs afero.Fs, opts ...harnessOption) *harness {
	t.Helper()
	h := &harness{
		fs:    fs,
		repo:  &memRepo{values: map[string]string{}},
		clock: clockwork.NewFakeClock(),
		exec:  &fakeExecutor{},
		rec:   &recorder{},
		errCh: make(chan error, 1),
	}
	h.store = prefs.NewStore(h.repo)

	o := Options{
		Store:    h.store,
		Fs:       fs,
		Scanner:  media.NewScanner(fs, nil),
		Executor: h.exec,
		Engine:   enginePath,
		Renderer: h.rec,
		Clock:    h.clock,
		Candidates: media.CandidateOptions{
			ExeDir:     installRoot,
			CDPath:     "/cd",
			VolumesDir: "/Volumes",
		},
	}
	for _, opt := range opts {
		opt(&o)
	}
	h.ctrl = New(o)

	ctx, cancel := context.WithCancel(context.Background())
	h.ctx = ctx
	go func() { h.errCh <- h.ctrl.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-h.ctrl.Done()
	})
	return h
}

func (h *harness) waitState(t *testing.T, want State) {
	t.Helper()
	require.Eventually(t, func() bool { return h.ctrl.Snapshot().State == want },
		2*time.Second, 5*time.Millisecond, "state never became %s (now %s)", want, h.ctrl.Snapshot().State)
}

func (h *harness) runResult(t *testing.T) error {
	t.Helper()
	select {
	case err := <-h.errCh:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("controller did not stop")
		return nil
	}
}

package launcher

import "fmt"

// State is the setup dialog state. Launching is terminal.
type State int

const (
	Idle State = iota
	Scanning
	Ready
	NotFound
	Canceled
	Launching
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scanning:
		return "scanning"
	case Ready:
		return "ready"
	case NotFound:
		return "not_found"
	case Canceled:
		return "canceled"
	case Launching:
		return "launching"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText and UnmarshalText encode the state by name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *State) UnmarshalText(b []byte) error {
	for st := Idle; st <= Launching; st++ {
		if st.String() == string(b) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", b)
}

// Snapshot is a read-only view of the controller handed to renderers.
type Snapshot struct {
	State         State  `json:"state"`
	Root          string `json:"root,omitempty"`
	Target        string `json:"target,omitempty"`
	Candidate     string `json:"candidate,omitempty"`
	Progress      int    `json:"progress"`
	Candidates    int    `json:"candidates"`
	Frame         int    `json:"-"`
	ModFolder     string `json:"mod_folder,omitempty"`
	UseMP3        bool   `json:"use_mp3"`
	MP3Folder     string `json:"mp3_folder,omitempty"`
	UseParameters bool   `json:"use_parameters"`
	Parameters    string `json:"parameters,omitempty"`
	CommandLine   string `json:"command_line,omitempty"`
	Pending       int    `json:"pending_commands"`
	Err           string `json:"error,omitempty"`
}

// Renderer draws controller state. It must not call back into the controller
// synchronously; both methods run on the controller goroutine.
type Renderer interface {
	// Render is called after every state change.
	Render(Snapshot)
	// Tick is called on every UI tick while a scan is running.
	Tick(Snapshot)
}

type nopRenderer struct{}

func (nopRenderer) Render(Snapshot) {}
func (nopRenderer) Tick(Snapshot)   {}

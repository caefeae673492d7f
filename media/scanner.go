// Package media finds a Quake II game-data installation among candidate directories.
package media

import (
	"context"
	"fmt"

	"github.com/habedi/q2launch/pkg/hasher"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Status is the state of a media scan.
type Status int

const (
	Idle Status = iota
	Scanning
	Canceled
	Found
	NotFound
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scanning:
		return "scanning"
	case Canceled:
		return "canceled"
	case Found:
		return "found"
	case NotFound:
		return "not found"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is the terminal outcome of a scan. Root and Target are set only when Status is Found.
type Result struct {
	Status  Status
	Root    string
	Target  string
	Checked int // number of candidate roots examined
}

// ProgressFunc is told which candidate is about to be examined.
type ProgressFunc func(index int, root string)

// Scanner checks candidate roots against validation targets.
type Scanner struct {
	fs      afero.Fs
	targets []Target
}

// NewScanner creates a Scanner. With no targets the defaults are used.
func NewScanner(fs afero.Fs, targets []Target) *Scanner {
	if len(targets) == 0 {
		targets = DefaultTargets()
	}
	return &Scanner{fs: fs, targets: targets}
}

// Targets returns the targets this scanner checks, in order.
func (s *Scanner) Targets() []Target { return s.targets }

// Scan examines roots in order and stops at the first root that satisfies a target.
// Cancellation is honored between roots only; a context canceled before the call
// returns Canceled without touching the filesystem.
func (s *Scanner) Scan(ctx context.Context, roots []string, progress ProgressFunc) Result {
	for i, root := range roots {
		if ctx.Err() != nil {
			log.Info().Int("checked", i).Msg("Media scan canceled")
			return Result{Status: Canceled, Checked: i}
		}
		if progress != nil {
			progress(i, root)
		}
		if target, ok := s.Satisfies(root); ok {
			log.Info().Str("root", root).Str("target", target.Name).Msg("Found game data")
			return Result{Status: Found, Root: root, Target: target.Name, Checked: i + 1}
		}
		log.Debug().Str("root", root).Msg("No validation target satisfied")
	}
	return Result{Status: NotFound, Checked: len(roots)}
}

// Satisfies returns the first target whose files are all present under root.
func (s *Scanner) Satisfies(root string) (Target, bool) {
	if root == "" {
		return Target{}, false
	}
	for _, t := range s.targets {
		if s.matches(root, t) {
			return t, true
		}
	}
	return Target{}, false
}

// matches treats any stat or read failure, permission errors included, as a miss.
func (s *Scanner) matches(root string, t Target) bool {
	for _, f := range t.Files {
		p := abs(root, f.Path)
		info, err := s.fs.Stat(p)
		if err != nil || info.IsDir() {
			return false
		}
		if f.SHA256 == "" {
			continue
		}
		ok, err := hasher.Verify(s.fs, p, "sha256", f.SHA256)
		if err != nil {
			log.Debug().Err(err).Str("path", p).Msg("Failed to checksum validation file")
			return false
		}
		if !ok {
			log.Warn().Str("path", p).Msg("Validation file checksum mismatch")
			return false
		}
	}
	return true
}

package media

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// CandidateOptions lists the places a game installation may live, in priority order.
type CandidateOptions struct {
	Chosen     string   // folder picked by the user; scanned alone when set
	BasePath   string   // previously validated root
	ExeDir     string   // directory of the launcher binary
	WorkDir    string   // current working directory
	Extra      []string // roots from the config file
	CDPath     string   // defaults to CDPath
	VolumesDir string   // defaults to VolumesDir
}

// Candidates returns the ordered, de-duplicated candidate roots. A user choice
// replaces every other source.
func Candidates(fs afero.Fs, o CandidateOptions) []string {
	if o.Chosen != "" {
		return []string{filepath.Clean(o.Chosen)}
	}
	if o.CDPath == "" {
		o.CDPath = CDPath
	}
	if o.VolumesDir == "" {
		o.VolumesDir = VolumesDir
	}

	var roots []string
	seen := make(map[string]bool)
	add := func(p string) {
		if p == "" {
			return
		}
		p = filepath.Clean(p)
		if seen[p] {
			return
		}
		seen[p] = true
		roots = append(roots, p)
	}

	add(o.BasePath)
	add(o.ExeDir)
	add(o.WorkDir)
	for _, p := range o.Extra {
		add(p)
	}
	add(o.CDPath)

	// Unreadable volume directories simply contribute nothing.
	if entries, err := afero.ReadDir(fs, o.VolumesDir); err == nil {
		for _, e := range entries {
			if e.IsDir() {
				add(filepath.Join(o.VolumesDir, e.Name()))
			}
		}
	}
	return roots
}

// MediaDir returns the CD install directory when it is mounted, or "".
func MediaDir(fs afero.Fs, cdPath string) string {
	if cdPath == "" {
		cdPath = CDPath
	}
	info, err := fs.Stat(cdPath)
	if err != nil || !info.IsDir() {
		return ""
	}
	return cdPath
}

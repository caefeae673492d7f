package media

import (
	"path"
	"path/filepath"
)

// Quake II installation layout.
const (
	BaseDir = "baseq2"
	// CDPath is where the retail CD mounts its install data on macOS.
	CDPath = "/Volumes/QUAKE2/Quake2InstallData"
	// VolumesDir holds mounted volumes on macOS.
	VolumesDir = "/Volumes"
)

// File is one path, relative to a candidate root, that must exist for a target to match.
// A non-empty SHA256 additionally pins the file contents.
type File struct {
	Path   string `toml:"path" validate:"required"`
	SHA256 string `toml:"sha256,omitempty" validate:"omitempty,len=64,hexadecimal"`
}

// Target is a named set of files whose joint presence proves a root is a game installation.
type Target struct {
	Name  string `toml:"name" validate:"required"`
	Files []File `toml:"files" validate:"required,min=1,dive"`
}

// DefaultTargets returns the game plugins shipped with the Mac release and the
// portable first pak file. Any one of them is enough.
func DefaultTargets() []Target {
	return []Target{
		single("mac-carbon", path.Join(BaseDir, "GameMac.q2plug/Contents/MacOS/GameMac")),
		single("mac-ppc-plugin", path.Join(BaseDir, "GamePPC.q2plug/Contents/MacOS/GamePPC")),
		single("mac-ppc-bundle", path.Join(BaseDir, "GamePPC.bundle/Contents/MacOS/GamePPC")),
		single("pak", path.Join(BaseDir, "pak0.pak")),
	}
}

func single(name, rel string) Target {
	return Target{Name: name, Files: []File{{Path: rel}}}
}

// abs joins a slash-separated relative path onto root.
func abs(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}

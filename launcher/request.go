package launcher

import (
	"strings"

	"github.com/habedi/q2launch/args"
)

// LaunchRequest is the settings snapshot taken when the user confirms.
type LaunchRequest struct {
	Executable string
	Root       string
	ModFolder  string
	MediaDir   string
	UseMP3     bool
	MP3Folder  string
	Parameters string
	Extra      []string // tokens queued by remote commands
}

// CommandLine assembles the engine arguments for r.
func (r LaunchRequest) CommandLine() args.CommandLine {
	raw := r.Parameters
	if len(r.Extra) > 0 {
		quoted := make([]string, len(r.Extra))
		for i, t := range r.Extra {
			quoted[i] = args.Quote(t)
		}
		raw = strings.TrimSpace(raw + " " + strings.Join(quoted, " "))
	}

	flags := args.Flags{
		Mod:      args.ModFlag(r.ModFolder),
		MediaDir: args.MediaDirFlag(r.MediaDir),
	}
	if r.UseMP3 {
		flags.MP3 = args.MP3Flags(r.MP3Folder)
	}
	return args.Build(r.Executable, raw, flags)
}

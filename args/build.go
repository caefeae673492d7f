package args

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/habedi/q2launch/media"
	"github.com/habedi/q2launch/pkg/clierr"
	"github.com/habedi/q2launch/pkg/validation"
)

// Flags holds the derived tokens appended after the user's own tokens, in field order.
type Flags struct {
	Mod      []string
	MediaDir []string
	MP3      []string
}

// ModFlag selects the engine's game folder. An empty name yields no tokens.
func ModFlag(name string) []string {
	if name == "" {
		return nil
	}
	return []string{"+set", "game", name}
}

// MediaDirFlag points the engine at the CD install data.
func MediaDirFlag(dir string) []string {
	if dir == "" {
		return nil
	}
	return []string{"+set", "cddir", dir}
}

// MP3Flags enables MP3 music playback from folder instead of CD audio.
func MP3Flags(folder string) []string {
	flags := []string{"+set", "cd_usemp3", "1"}
	if folder != "" {
		flags = append(flags, "+set", "cd_mp3dir", folder)
	}
	return flags
}

// CommandLine is an engine argument vector. The first token is always the executable.
type CommandLine struct {
	tokens []string
}

// Build tokenizes raw, appends flags and drops earlier duplicates of any flag that
// appears again later. The user tokens and each derived flag set are grouped on their
// own, so a malformed user flag never absorbs a derived one. The result always
// contains base.
func Build(base, raw string, flags Flags) CommandLine {
	groups := split(Tokenize(raw))
	for _, derived := range [][]string{flags.Mod, flags.MediaDir, flags.MP3} {
		groups = append(groups, split(derived)...)
	}
	return CommandLine{tokens: append([]string{base}, dedupe(groups)...)}
}

// Tokens returns a copy of every token, executable first.
func (c CommandLine) Tokens() []string {
	return append([]string(nil), c.tokens...)
}

// Executable returns the first token.
func (c CommandLine) Executable() string {
	if len(c.tokens) == 0 {
		return ""
	}
	return c.tokens[0]
}

// Args returns the tokens after the executable.
func (c CommandLine) Args() []string {
	if len(c.tokens) < 2 {
		return nil
	}
	return append([]string(nil), c.tokens[1:]...)
}

// String quotes every token so that Tokenize(c.String()) == c.Tokens().
func (c CommandLine) String() string {
	return join(c.tokens)
}

// Validate checks that the arguments fit in the engine's command buffer.
func (c CommandLine) Validate() error {
	if err := validation.ValidateCommandLineLength(len(join(c.Args()))); err != nil {
		return clierr.New(clierr.Launch, "command-line parameters are too long", err)
	}
	return nil
}

func join(tokens []string) string {
	quoted := make([]string, len(tokens))
	for i, t := range tokens {
		quoted[i] = Quote(t)
	}
	return strings.Join(quoted, " ")
}

// Quote returns s in a form the tokenizer reads back as the single token s.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.IndexFunc(s, needsQuoting) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

func needsQuoting(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case strings.ContainsRune("-_+=./:,@%^", r):
		return false
	}
	return true
}

// group is a flag together with the words it owns.
type group struct {
	key    string // empty for positional words
	tokens []string
}

func dedupe(groups []group) []string {
	last := make(map[string]int, len(groups))
	for i, g := range groups {
		if g.key != "" {
			last[g.key] = i
		}
	}
	var out []string
	for i, g := range groups {
		if g.key == "" || last[g.key] == i {
			out = append(out, g.tokens...)
		}
	}
	return out
}

// split groups tokens by flag name:
//
//	+set <cvar> <value>   keyed by cvar
//	+cmd [words...]       keyed by cmd
//	-name, --name=value   keyed by name
//
// A group never swallows a following flag, so "+set game" alone stays a short group.
// Negative numbers are values, not flags. A +set without a cvar and anything else
// is a positional word.
func split(tokens []string) []group {
	var groups []group
	for i := 0; i < len(tokens); {
		tok := tokens[i]
		switch {
		case isSet(tok) && i+1 < len(tokens) && !isFlag(tokens[i+1]):
			end := i + 2
			if end < len(tokens) && !isFlag(tokens[end]) {
				end++
			}
			groups = append(groups, group{key: "cvar:" + strings.ToLower(tokens[i+1]), tokens: tokens[i:end]})
			i = end
		case isFlag(tok) && tok[0] == '+' && !isSet(tok):
			end := i + 1
			for end < len(tokens) && !isFlag(tokens[end]) {
				end++
			}
			groups = append(groups, group{key: "cmd:" + strings.ToLower(tok[1:]), tokens: tokens[i:end]})
			i = end
		case isFlag(tok) && tok[0] == '-':
			name := strings.TrimLeft(tok, "-")
			if k := strings.IndexByte(name, '='); k >= 0 {
				name = name[:k]
			}
			groups = append(groups, group{key: "opt:" + name, tokens: tokens[i : i+1]})
			i++
		default:
			groups = append(groups, group{tokens: tokens[i : i+1]})
			i++
		}
	}
	return groups
}

func isSet(tok string) bool {
	return strings.EqualFold(tok, "+set") || strings.EqualFold(tok, "+seta")
}

func isFlag(tok string) bool {
	if len(tok) < 2 || (tok[0] != '+' && tok[0] != '-') || strings.Trim(tok, "+-") == "" {
		return false
	}
	if c := tok[1]; c == '.' || (c >= '0' && c <= '9') {
		_, err := strconv.ParseFloat(tok, 64)
		return err != nil
	}
	return true
}

// ModFolderFromPath turns a folder opened in the launcher into a mod name. The folder
// must sit directly inside the install root and must not be the base game folder.
func ModFolderFromPath(root, path string) (string, error) {
	if root == "" {
		return "", clierr.Newf(clierr.Validation, "no validated install folder; cannot use %s as a mod", path)
	}
	path = filepath.Clean(path)
	if filepath.Dir(path) != filepath.Clean(root) {
		return "", clierr.Newf(clierr.Validation, "%s is not inside the install folder %s", path, root)
	}
	name := filepath.Base(path)
	if strings.EqualFold(name, media.BaseDir) {
		return "", clierr.Newf(clierr.Validation, "%s is the base game, not a mod", name)
	}
	if err := validation.ValidateModName(name); err != nil {
		return "", clierr.New(clierr.Validation, fmt.Sprintf("invalid mod folder %s", path), err)
	}
	return name, nil
}

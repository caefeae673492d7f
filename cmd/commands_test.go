package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefsCommands(t *testing.T) {
	isolate(t)

	out, code := runCLI(t, "prefs", "get", "use mp3")
	require.Equal(t, 0, code, out)
	assert.Equal(t, "NO", strings.TrimSpace(out))

	out, code = runCLI(t, "prefs", "set", "Use MP3", "true")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Quake II Use MP3 updated.")

	out, code = runCLI(t, "prefs", "get", "quake ii use mp3")
	require.Equal(t, 0, code, out)
	assert.Equal(t, "YES", strings.TrimSpace(out))

	out, code = runCLI(t, "prefs", "list")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Quake II Use MP3")
	assert.Contains(t, out, "Quake II Command-Line Parameters")

	out, code = runCLI(t, "prefs", "reset", "use mp3")
	require.Equal(t, 0, code, out)
	out, _ = runCLI(t, "prefs", "get", "use mp3")
	assert.Equal(t, "NO", strings.TrimSpace(out))
}

func TestPrefsCommands_Errors(t *testing.T) {
	isolate(t)

	out, code := runCLI(t, "prefs", "get", "quake iii path")
	assert.Equal(t, 2, code)
	assert.Contains(t, out, "unknown preference")

	out, code = runCLI(t, "prefs", "set", "use mp3", "sometimes")
	assert.Equal(t, 3, code)
	assert.Contains(t, out, "invalid boolean")

	_, code = runCLI(t, "prefs", "get")
	assert.Equal(t, 1, code)
}

func TestResolvePreference(t *testing.T) {
	name, err := resolvePreference("  allow   remote commands ")
	require.NoError(t, err)
	assert.Equal(t, "Quake II Allow Remote Commands", name)

	name, err = resolvePreference("QUAKE II BASEQ2 PATH")
	require.NoError(t, err)
	assert.Equal(t, "Quake II baseq2 Path", name)

	_, err = resolvePreference("path")
	assert.Error(t, err)
}

func TestArgsCommand(t *testing.T) {
	isolate(t)

	_, code := runCLI(t, "prefs", "set", "use command-line parameters", "yes")
	require.Equal(t, 0, code)
	_, code = runCLI(t, "prefs", "set", "command-line parameters", `+set skill 3 +map "base1"`)
	require.Equal(t, 0, code)

	out, code := runCLI(t, "args", "--mod", "ctf")
	require.Equal(t, 0, code, out)
	assert.Equal(t, "quake2 +set skill 3 +map base1 +set game ctf", strings.TrimSpace(out))

	out, code = runCLI(t, "args", "--params", "+set skill 1 +set skill 2", "--tokens")
	require.Equal(t, 0, code, out)
	assert.Equal(t, []string{"quake2", "+set", "skill", "2"}, strings.Fields(out))

	out, code = runCLI(t, "args", "--mod", "../baseq2")
	assert.Equal(t, 2, code, out)
}

func TestArgsCommand_TooLong(t *testing.T) {
	isolate(t)
	out, code := runCLI(t, "args", "--params", "+map "+strings.Repeat("x", 1100))
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "too long")
}

func TestConfigCommands(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")

	out, code := runCLI(t, "config", "path")
	require.Equal(t, 0, code)
	assert.Equal(t, path, strings.TrimSpace(out))

	out, code = runCLI(t, "config", "init")
	require.Equal(t, 0, code, out)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "quake2")

	out, code = runCLI(t, "config", "init")
	assert.Equal(t, 3, code)
	assert.Contains(t, out, "already exists")

	_, code = runCLI(t, "config", "init", "--force")
	assert.Equal(t, 0, code)
}

func TestScanCommand_Save(t *testing.T) {
	isolate(t)
	install := makeInstall(t)

	out, code := runCLI(t, "scan", t.TempDir(), install, "--save")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Found Quake II game data in "+install+" (mac-carbon)")
	assert.Contains(t, out, "Install folder saved.")

	out, _ = runCLI(t, "prefs", "get", "baseq2 path")
	assert.Equal(t, install, strings.TrimSpace(out))
}

func TestMP3CheckCommand(t *testing.T) {
	isolate(t)

	out, code := runCLI(t, "mp3", "check")
	assert.Equal(t, 2, code)
	assert.Contains(t, out, "no MP3 folder")

	empty := t.TempDir()
	out, code = runCLI(t, "mp3", "check", empty)
	assert.Equal(t, 2, code)
	assert.Contains(t, out, "no playable mp3 tracks")

	out, code = runCLI(t, "mp3", "check", filepath.Join(empty, "missing"))
	assert.Equal(t, 2, code, out)
}

func TestRequestCommand_RejectsBadCommand(t *testing.T) {
	isolate(t)
	out, code := runCLI(t, "request", "fly", "away")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "unknown command")
}

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/habedi/q2launch/db"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// isolate points the database and the config file at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := db.Path
	db.Path = filepath.Join(dir, "launcher.db")
	t.Setenv("Q2LAUNCH_CFG", filepath.Join(dir, "config.toml"))
	t.Cleanup(func() {
		_ = closeDatabase()
		db.Path = old
	})
	return dir
}

// runCLI executes the root command with argv and returns its combined output and exit status.
func runCLI(t *testing.T, argv ...string) (string, int) {
	t.Helper()
	return runRoot(t, createRootCmd(), argv...)
}

func runRoot(t *testing.T, root *cobra.Command, argv ...string) (string, int) {
	t.Helper()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	code := execute(root, argv)
	return buf.String(), code
}

// makeInstall creates a folder that passes media validation.
func makeInstall(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "Quake2")
	plug := filepath.Join(root, "baseq2", "GameMac.q2plug", "Contents", "MacOS")
	require.NoError(t, os.MkdirAll(plug, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(plug, "GameMac"), []byte("plugin"), 0o644))
	return root
}

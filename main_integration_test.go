package main

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func buildTestBinary(t *testing.T) string {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	binName := "q2launch_it_bin"
	if runtime.GOOS == "windows" {
		binName += ".exe"
	}
	bin := filepath.Join(t.TempDir(), binName)
	cmd := exec.Command("go", "build", "-tags", "headless", "-o", bin, ".")
	cmd.Env = os.Environ()
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("failed to build binary: %v\n%s", err, string(out))
	}
	return bin
}

func isolatedEnv(t *testing.T) []string {
	dir := t.TempDir()
	return append(os.Environ(),
		"Q2LAUNCH_HOME="+dir,
		"Q2LAUNCH_CFG="+filepath.Join(dir, "config.toml"),
	)
}

// TestScanExitCode checks that a scan of an empty folder fails with the validation status.
func TestScanExitCode(t *testing.T) {
	bin := buildTestBinary(t)
	cmd := exec.Command(bin, "scan", t.TempDir())
	cmd.Env = isolatedEnv(t)
	out, err := cmd.CombinedOutput()

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected an exit error, got %v\n%s", err, out)
	}
	if exitErr.ExitCode() != 2 {
		t.Fatalf("expected exit code 2, got %d\n%s", exitErr.ExitCode(), out)
	}
	if !strings.Contains(string(out), "no Quake II game data found") {
		t.Fatalf("unexpected output: %s", out)
	}
}

// TestGracefulInterrupt runs the launcher waiting for a folder and sends SIGINT, expecting it to exit promptly.
func TestGracefulInterrupt(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("os.Interrupt cannot be sent on windows")
	}
	bin := buildTestBinary(t)
	cmd := exec.Command(bin, "run", "--listen", "127.0.0.1:0", "--folder", t.TempDir())
	cmd.Env = isolatedEnv(t)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		t.Fatalf("failed to open stdin: %v", err)
	}
	defer stdin.Close()
	if err := cmd.Start(); err != nil {
		t.Fatalf("failed to start binary: %v", err)
	}
	// Allow startup
	time.Sleep(200 * time.Millisecond)
	// The launcher may already have given up on the empty folder.
	if err := cmd.Process.Signal(os.Interrupt); err != nil && !errors.Is(err, os.ErrProcessDone) {
		t.Fatalf("failed to send interrupt: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		// Accept any exit code; main uses exit code 1 on interrupt.
		_ = err
	case <-time.After(3 * time.Second):
		t.Fatal("process did not exit within 3s after SIGINT")
	}
}

package validation

import (
	"fmt"
	"net"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

const (
	MinWorkers = 1
	MaxWorkers = 20

	MinTickInterval = 10 * time.Millisecond
	MaxTickInterval = time.Second

	// MaxCommandLineBytes is the size of the engine's command buffer.
	MaxCommandLineBytes = 1024
)

func ValidateWorkerCount(workers int) error {
	if workers < MinWorkers || workers > MaxWorkers {
		return fmt.Errorf("worker count must be between %d and %d, got %d", MinWorkers, MaxWorkers, workers)
	}
	return nil
}

func ValidateTickInterval(d time.Duration) error {
	if d < MinTickInterval || d > MaxTickInterval {
		return fmt.Errorf("tick interval must be between %s and %s, got %s", MinTickInterval, MaxTickInterval, d)
	}
	return nil
}

func ValidateNonEmptyString(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}
	return nil
}

// ValidateDirectory checks that path names an existing directory on fs.
func ValidateDirectory(fs afero.Fs, path string) error {
	if err := ValidateNonEmptyString("directory", path); err != nil {
		return err
	}
	info, err := fs.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access directory %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

func ValidateCommandLineLength(n int) error {
	if n > MaxCommandLineBytes {
		return fmt.Errorf("command line is %d bytes, the engine accepts at most %d", n, MaxCommandLineBytes)
	}
	return nil
}

// ValidateModName accepts a single directory name usable as the engine's game folder.
func ValidateModName(name string) error {
	if err := ValidateNonEmptyString("mod folder", name); err != nil {
		return err
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("invalid mod folder name: %s", name)
	}
	return nil
}

// ValidateListenAddress only accepts loopback addresses; remote commands never leave the host.
func ValidateListenAddress(addr string) error {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	if host == "localhost" {
		return nil
	}
	ip := net.ParseIP(host)
	if ip == nil || !ip.IsLoopback() {
		return fmt.Errorf("listen address must be a loopback address, got %s", host)
	}
	return nil
}

package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestValidateWorkerCount(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		wantErr bool
	}{
		{"valid minimum", 1, false},
		{"valid middle", 10, false},
		{"valid maximum", 20, false},
		{"too low", 0, true},
		{"negative", -1, true},
		{"too high", 21, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWorkerCount(tt.workers)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWorkerCount(%d) error = %v, wantErr %v", tt.workers, err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "worker") {
				t.Errorf("Error message should mention 'worker': %v", err)
			}
		})
	}
}

func TestValidateTickInterval(t *testing.T) {
	tests := []struct {
		name    string
		d       time.Duration
		wantErr bool
	}{
		{"default", 50 * time.Millisecond, false},
		{"minimum", 10 * time.Millisecond, false},
		{"maximum", time.Second, false},
		{"zero", 0, true},
		{"too fast", time.Millisecond, true},
		{"too slow", 2 * time.Second, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTickInterval(tt.d)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTickInterval(%s) error = %v, wantErr %v", tt.d, err, tt.wantErr)
			}
		})
	}
}

func TestValidateNonEmptyString(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		value     string
		wantErr   bool
	}{
		{"valid string", "parameters", "+map base1", false},
		{"empty string", "parameters", "", true},
		{"whitespace only", "parameters", "  \t", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNonEmptyString(tt.fieldName, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNonEmptyString(%q, %q) error = %v, wantErr %v", tt.fieldName, tt.value, err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), tt.fieldName) {
				t.Errorf("Error message should contain field name '%s': %v", tt.fieldName, err)
			}
		})
	}
}

func TestValidateDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("/games/quake2", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "/games/readme.txt", []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"existing directory", "/games/quake2", false},
		{"regular file", "/games/readme.txt", true},
		{"missing", "/games/quake3", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDirectory(fs, tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDirectory(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCommandLineLength(t *testing.T) {
	if err := ValidateCommandLineLength(MaxCommandLineBytes); err != nil {
		t.Errorf("limit itself should be accepted: %v", err)
	}
	if err := ValidateCommandLineLength(MaxCommandLineBytes + 1); err == nil {
		t.Error("expected error above the limit")
	}
}

func TestValidateModName(t *testing.T) {
	tests := []struct {
		name    string
		mod     string
		wantErr bool
	}{
		{"simple", "ctf", false},
		{"with dash", "rogue-xp", false},
		{"empty", "", true},
		{"dot", ".", true},
		{"parent", "..", true},
		{"slash", "mods/ctf", true},
		{"backslash", `mods\ctf`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateModName(tt.mod)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateModName(%q) error = %v, wantErr %v", tt.mod, err, tt.wantErr)
			}
		})
	}
}

func TestValidateListenAddress(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{"ipv4 loopback", "127.0.0.1:27999", false},
		{"ipv6 loopback", "[::1]:27999", false},
		{"localhost", "localhost:27999", false},
		{"wildcard", "0.0.0.0:27999", true},
		{"remote", "192.168.1.10:27999", true},
		{"hostname", "example.com:80", true},
		{"missing port", "127.0.0.1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateListenAddress(tt.addr)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateListenAddress(%q) error = %v, wantErr %v", tt.addr, err, tt.wantErr)
			}
		})
	}
}

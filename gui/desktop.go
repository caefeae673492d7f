package gui

import (
	"context"
	"runtime"

	"github.com/habedi/q2launch/engine"
	"github.com/rs/zerolog/log"
)

// openFolder opens the specified path in the system's default file explorer.
func openFolder(x engine.Executor, path string) {
	name := "xdg-open" // "linux", "freebsd", "openbsd", "netbsd"
	switch runtime.GOOS {
	case "windows":
		name = "explorer"
	case "darwin":
		name = "open"
	}
	if err := x.Run(context.Background(), name, path); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to open folder")
	}
}

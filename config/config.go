// Package config loads the optional launcher configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/habedi/q2launch/media"
	"github.com/habedi/q2launch/pkg/clierr"
	"github.com/habedi/q2launch/pkg/validation"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// EnvPath overrides the config file location.
const EnvPath = "Q2LAUNCH_CFG"

const (
	AppName        = "q2launch"
	FileName       = "config.toml"
	DefaultEngine  = "quake2"
	DefaultListen  = "127.0.0.1:27999"
	DefaultTickMS  = 50
	DefaultWorkers = 4
)

type Engine struct {
	// Path is the engine executable. A relative name is looked up in PATH.
	Path string `toml:"path" validate:"required"`
	Dir  string `toml:"dir,omitempty"`
}

type Media struct {
	ExtraRoots []string       `toml:"extra_roots,omitempty" validate:"dive,required"`
	CDPath     string         `toml:"cd_path,omitempty"`
	Targets    []media.Target `toml:"targets,omitempty" validate:"dive"`
	MP3Workers int            `toml:"mp3_workers" validate:"min=1,max=20"`
}

type Launcher struct {
	TickMS int `toml:"tick_ms" validate:"min=10,max=1000"`
}

type Server struct {
	Enabled bool   `toml:"enabled"`
	Listen  string `toml:"listen" validate:"required,hostname_port"`
}

// Config mirrors config.toml. Fields missing from the file keep their defaults.
type Config struct {
	Engine   Engine   `toml:"engine"`
	Media    Media    `toml:"media"`
	Launcher Launcher `toml:"launcher"`
	Server   Server   `toml:"server"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Engine:   Engine{Path: DefaultEngine},
		Media:    Media{MP3Workers: DefaultWorkers},
		Launcher: Launcher{TickMS: DefaultTickMS},
		Server:   Server{Listen: DefaultListen},
	}
}

// TickInterval is the UI refresh period while scanning.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.Launcher.TickMS) * time.Millisecond
}

// Path returns the config file location: $Q2LAUNCH_CFG, else the XDG config dir.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return filepath.Join(xdg.ConfigHome, AppName, FileName)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and the launcher-specific rules.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return clierr.New(clierr.Configuration,
				fmt.Sprintf("invalid config value for %s (failed %q)", fe.Namespace(), fe.Tag()), err)
		}
		return clierr.New(clierr.Configuration, "invalid config", err)
	}
	if err := validation.ValidateTickInterval(c.TickInterval()); err != nil {
		return clierr.New(clierr.Configuration, err.Error(), err)
	}
	if err := validation.ValidateWorkerCount(c.Media.MP3Workers); err != nil {
		return clierr.New(clierr.Configuration, err.Error(), err)
	}
	if err := validation.ValidateListenAddress(c.Server.Listen); err != nil {
		return clierr.New(clierr.Configuration, err.Error(), err)
	}
	return nil
}

// Load reads path from fs on top of the defaults. A missing file is not an error.
func Load(fs afero.Fs, path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = Path()
	}

	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug().Str("path", path).Msg("No config file, using defaults")
		return cfg, nil
	}
	if err != nil {
		return cfg, clierr.New(clierr.Configuration, fmt.Sprintf("failed to read config file %s", path), err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), clierr.New(clierr.Configuration, fmt.Sprintf("failed to parse config file %s", path), err)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	log.Debug().Str("path", path).Msg("Loaded config file")
	return cfg, nil
}

// Write saves cfg to path, creating parent directories.
func Write(fs afero.Fs, path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return afero.WriteFile(fs, path, data, 0o644)
}

// Package prefs is the launcher's durable settings store. Every key has a registered
// type and default; reads never fail for a missing or malformed value.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/habedi/q2launch/db"
	"github.com/habedi/q2launch/pkg/clierr"
	"github.com/rs/zerolog/log"
)

// Kind is the value type of a preference.
type Kind int

const (
	KindBool Kind = iota
	KindString
	KindPath
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindPath:
		return "path"
	default:
		return "string"
	}
}

// Preference keys as stored on disk.
const (
	BasePath            = "Quake II baseq2 Path"
	UseMP3              = "Quake II Use MP3"
	MP3Path             = "Quake II MP3 Path"
	OptionKeyRequired   = "Quake II Dialog Requires Option Key"
	UseParameters       = "Quake II Use Command-Line Parameters"
	Parameters          = "Quake II Command-Line Parameters"
	AllowRemoteCommands = "Quake II Allow Remote Commands"
)

const (
	yes = "YES"
	no  = "NO"
)

// Definition registers a preference name with its kind and default.
type Definition struct {
	Name    string
	Kind    Kind
	Default string
}

var definitions = map[string]Definition{
	BasePath:            {Name: BasePath, Kind: KindPath, Default: ""},
	UseMP3:              {Name: UseMP3, Kind: KindBool, Default: no},
	MP3Path:             {Name: MP3Path, Kind: KindPath, Default: ""},
	OptionKeyRequired:   {Name: OptionKeyRequired, Kind: KindBool, Default: no},
	UseParameters:       {Name: UseParameters, Kind: KindBool, Default: no},
	Parameters:          {Name: Parameters, Kind: KindString, Default: ""},
	AllowRemoteCommands: {Name: AllowRemoteCommands, Kind: KindBool, Default: no},
}

// ErrUnknownPreference is returned for names that were never registered.
var ErrUnknownPreference = errors.New("unknown preference")

// Lookup returns the definition for name.
func Lookup(name string) (Definition, error) {
	def, ok := definitions[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownPreference, name)
	}
	return def, nil
}

// Definitions returns all registered preferences sorted by name.
func Definitions() []Definition {
	defs := make([]Definition, 0, len(definitions))
	for _, d := range definitions {
		defs = append(defs, d)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Entry is a resolved preference value as shown to the user.
type Entry struct {
	Definition
	Value     string
	IsDefault bool
}

// Store reads and writes preferences through a repository. It is meant to be used
// from the UI goroutine only.
type Store struct {
	repo db.PreferenceRepository
}

// NewStore creates a Store backed by repo.
func NewStore(repo db.PreferenceRepository) *Store {
	return &Store{repo: repo}
}

// raw returns the stored value for a registered name or its default.
func (s *Store) raw(ctx context.Context, def Definition) string {
	p, err := s.repo.Get(ctx, def.Name)
	if err != nil {
		log.Warn().Err(err).Str("name", def.Name).Msg("Failed to read preference, using default")
		return def.Default
	}
	if p == nil {
		return def.Default
	}
	return p.Value
}

func (s *Store) mustLookup(name string, want Kind) Definition {
	def, err := Lookup(name)
	if err != nil {
		// Programming error: callers only pass the exported constants.
		panic(err)
	}
	if want == KindBool && def.Kind != KindBool {
		panic(fmt.Sprintf("preference %q is a %s, not a bool", name, def.Kind))
	}
	return def
}

// Bool returns a boolean preference, falling back to the default when the stored value is malformed.
func (s *Store) Bool(ctx context.Context, name string) bool {
	def := s.mustLookup(name, KindBool)
	v, err := parseBool(s.raw(ctx, def))
	if err != nil {
		cfgErr := clierr.New(clierr.Configuration, fmt.Sprintf("malformed value for %q", name), err)
		log.Warn().Err(cfgErr).Str("name", name).Msg("Substituting default preference value")
		v, _ = parseBool(def.Default)
	}
	return v
}

// String returns a string or path preference exactly as it was set.
func (s *Store) String(ctx context.Context, name string) string {
	return s.raw(ctx, s.mustLookup(name, KindString))
}

// SetBool persists a boolean preference.
func (s *Store) SetBool(ctx context.Context, name string, v bool) error {
	def := s.mustLookup(name, KindBool)
	return s.put(ctx, def, formatBool(v))
}

// SetString persists a string or path preference.
func (s *Store) SetString(ctx context.Context, name, v string) error {
	def := s.mustLookup(name, KindString)
	if def.Kind == KindBool {
		return fmt.Errorf("preference %q is a bool", name)
	}
	return s.put(ctx, def, v)
}

// Set parses a textual value according to the preference's kind and persists it.
// It backs the CLI, where values arrive as strings.
func (s *Store) Set(ctx context.Context, name, value string) error {
	def, err := Lookup(name)
	if err != nil {
		return err
	}
	if def.Kind == KindBool {
		b, err := parseBool(value)
		if err != nil {
			return clierr.New(clierr.Configuration, fmt.Sprintf("invalid boolean for %q: %s", name, value), err)
		}
		value = formatBool(b)
	}
	return s.put(ctx, def, value)
}

// Get returns the textual value of any registered preference.
func (s *Store) Get(ctx context.Context, name string) (string, error) {
	def, err := Lookup(name)
	if err != nil {
		return "", err
	}
	if def.Kind == KindBool {
		return formatBool(s.Bool(ctx, name)), nil
	}
	return s.String(ctx, name), nil
}

// Reset removes a stored value so the default applies again.
func (s *Store) Reset(ctx context.Context, name string) error {
	if _, err := Lookup(name); err != nil {
		return err
	}
	return s.repo.Delete(ctx, name)
}

// All resolves every registered preference.
func (s *Store) All(ctx context.Context) []Entry {
	defs := Definitions()
	entries := make([]Entry, 0, len(defs))
	for _, def := range defs {
		v, _ := s.Get(ctx, def.Name)
		entries = append(entries, Entry{Definition: def, Value: v, IsDefault: v == def.Default})
	}
	return entries
}

// put writes the value, or deletes the row when the value equals the default.
func (s *Store) put(ctx context.Context, def Definition, value string) error {
	if value == def.Default {
		if err := s.repo.Delete(ctx, def.Name); err != nil {
			log.Error().Err(err).Str("name", def.Name).Msg("Failed to reset preference")
			return err
		}
		return nil
	}
	if err := s.repo.Put(ctx, db.Preference{Name: def.Name, Value: value}); err != nil {
		log.Error().Err(err).Str("name", def.Name).Msg("Failed to save preference")
		return err
	}
	log.Debug().Str("name", def.Name).Str("value", value).Msg("Preference saved")
	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case yes:
		return true, nil
	case no:
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(s))
}

func formatBool(b bool) string {
	if b {
		return yes
	}
	return no
}

package launcher

import (
	"errors"
	"fmt"
	"strings"
)

// Verb names an inbound command.
type Verb string

const (
	// VerbParams replaces the custom parameters and enables them.
	VerbParams Verb = "params"
	// VerbRun is VerbParams followed by a launch. The text is optional.
	VerbRun Verb = "run"
	// VerbConnect joins a server once the engine starts.
	VerbConnect Verb = "connect"
)

var ErrUnknownCommand = errors.New("unknown command")

// Command is a request from another process, applied once the controller is Ready.
type Command struct {
	ID   string `json:"id"`
	Verb Verb   `json:"verb"`
	Text string `json:"text,omitempty"`
}

// ParseCommand reads "<verb> [text]".
func ParseCommand(id, line string) (Command, error) {
	line = strings.TrimSpace(line)
	verb, text, _ := strings.Cut(line, " ")
	cmd := Command{ID: id, Verb: Verb(strings.ToLower(verb)), Text: strings.TrimSpace(text)}

	switch cmd.Verb {
	case VerbParams:
	case VerbRun:
	case VerbConnect:
		if cmd.Text == "" || strings.ContainsAny(cmd.Text, " \t\n") {
			return Command{}, fmt.Errorf("connect needs a single host[:port], got %q", cmd.Text)
		}
	default:
		return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, verb)
	}
	return cmd, nil
}

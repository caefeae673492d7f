// Package args turns the user's free-form parameter string and the launcher's
// derived settings into the engine's argument vector.
package args

import (
	"strings"

	"github.com/google/shlex"
	"github.com/rs/zerolog/log"
)

// Tokenize splits raw with shell quoting rules. An unterminated quote is not an error:
// everything from the start of the broken token to the end of the input becomes one
// trailing token, with the dangling quote removed.
func Tokenize(raw string) []string {
	tokens, err := shlex.Split(raw)
	if err == nil {
		return tokens
	}

	start, quote, ok := brokenToken(raw)
	if !ok {
		// Not a quoting problem; fall back to plain whitespace splitting.
		log.Warn().Err(err).Msg("Could not parse parameters, splitting on whitespace")
		return strings.Fields(raw)
	}
	log.Debug().Str("parameters", raw).Int("offset", quote).Msg("Repairing unterminated quote")

	tokens, err = shlex.Split(raw[:start])
	if err != nil {
		tokens = strings.Fields(raw[:start])
	}
	head, err := shlex.Split(raw[start:quote])
	if err != nil {
		head = []string{raw[start:quote]}
	}
	return append(tokens, strings.Join(head, "")+raw[quote+1:])
}

type lexState int

// Lexer states, following shlex.
const (
	stateSpace lexState = iota
	stateWord
	stateEscape
	stateSingle
	stateDouble
	stateDoubleEsc
	stateComment
)

// brokenToken reports the byte offset where the last token starts and where its
// unterminated quote opens. It mirrors the states of the shlex lexer.
func brokenToken(raw string) (start, quote int, ok bool) {
	state := stateSpace
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch state {
		case stateSpace:
			switch {
			case isSpace(c):
			case c == '#':
				state = stateComment
			default:
				start = i
				state = stateWord
				state, quote = enterWord(state, c, i, quote)
			}
		case stateWord:
			if isSpace(c) {
				state = stateSpace
				continue
			}
			state, quote = enterWord(state, c, i, quote)
		case stateEscape:
			state = stateWord
		case stateSingle:
			if c == '\'' {
				state = stateWord
			}
		case stateDouble:
			switch c {
			case '"':
				state = stateWord
			case '\\':
				state = stateDoubleEsc
			}
		case stateDoubleEsc:
			state = stateDouble
		case stateComment:
			if c == '\n' {
				state = stateSpace
			}
		}
	}
	if state == stateSingle || state == stateDouble || state == stateDoubleEsc {
		return start, quote, true
	}
	return 0, 0, false
}

func enterWord(state lexState, c byte, i, quote int) (lexState, int) {
	switch c {
	case '\'':
		return stateSingle, i
	case '"':
		return stateDouble, i
	case '\\':
		return stateEscape, quote
	}
	return state, quote
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

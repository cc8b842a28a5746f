// Package errs defines the Sakura runtime's error kinds and its
// table-shaped error surface: one package of sentinel `error` values
// (errors.Is-compatible) plus a richer struct type that wraps a
// sentinel and carries contextual fields.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds. Every RuntimeError wraps exactly one of these,
// so callers can use errors.Is(err, errs.ErrMissingKey) etc.
var (
	ErrParse               = errors.New("parse error")
	ErrUnknownKey          = errors.New("unknown key")
	ErrMissingKey          = errors.New("missing key")
	ErrUnknownOutputKey    = errors.New("unknown output key")
	ErrUnknownBlossom      = errors.New("unknown blossom")
	ErrTypeMismatch        = errors.New("type mismatch")
	ErrMatchFailed         = errors.New("match failed")
	ErrUndefinedIdentifier = errors.New("undefined identifier")
	ErrMissingOutput       = errors.New("missing output")
	ErrMissingSubtree      = errors.New("missing subtree")
	ErrTemplate            = errors.New("template error")
	ErrFunction            = errors.New("function error")
	ErrHandler             = errors.New("handler error")
	ErrUninitialised       = errors.New("uninitialised value")
)

// RuntimeError is the runtime's table-shaped error surface: columns
// key|value, rows ERROR/component/source/location/possible
// solution/blossom-type/blossom-group-type/blossom-name/blossom-file-path/message.
type RuntimeError struct {
	Err              error
	Component        string
	Source           string
	Location         string
	PossibleSolution string
	BlossomType      string
	BlossomGroupType string
	BlossomName      string
	BlossomFilePath  string
	messages         []string
}

// New creates a RuntimeError wrapping a sentinel kind.
func New(kind error, message string) *RuntimeError {
	e := &RuntimeError{Err: kind}
	if message != "" {
		e.messages = append(e.messages, message)
	}
	return e
}

// AddMessage appends text to the accumulator; messages concatenate in
// order.
func (e *RuntimeError) AddMessage(text string) {
	if text == "" {
		return
	}
	e.messages = append(e.messages, text)
}

// WithLocation annotates the error with a createError-style contextual
// frame: blossom path, group, name, and a local "location" string.
func (e *RuntimeError) WithLocation(location, blossomFilePath, groupType, blossomType, name string) *RuntimeError {
	e.Location = location
	e.BlossomFilePath = blossomFilePath
	e.BlossomGroupType = groupType
	e.BlossomType = blossomType
	e.BlossomName = name
	return e
}

func (e *RuntimeError) Error() string {
	msg := e.Err.Error()
	if len(e.messages) > 0 {
		msg = msg + ": " + strings.Join(e.messages, "; ")
	}
	if e.Location != "" {
		msg = fmt.Sprintf("%s (at %s)", msg, e.Location)
	}
	return msg
}

// Unwrap exposes the wrapped sentinel kind for errors.Is/errors.As.
func (e *RuntimeError) Unwrap() error { return e.Err }

// Table renders the error surface as ordered key|value rows.
func (e *RuntimeError) Table() [][2]string {
	return [][2]string{
		{"ERROR", e.Err.Error()},
		{"component", e.Component},
		{"source", e.Source},
		{"location", e.Location},
		{"possible solution", e.PossibleSolution},
		{"blossom-type", e.BlossomType},
		{"blossom-group-type", e.BlossomGroupType},
		{"blossom-name", e.BlossomName},
		{"blossom-file-path", e.BlossomFilePath},
		{"message", strings.Join(e.messages, "; ")},
	}
}

// Package blossom defines the contract between the engine and
// host-registered action handlers.
package blossom

import (
	"context"
	"fmt"

	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/ir"
)

// Status mirrors the original BlossomStatus: a host-defined numeric code
// plus a free-form message, preserved verbatim by the runtime.
type Status struct {
	Code    uint64
	Message string
}

// IO is the view a blossom handler receives: resolved inputs, a place
// to write outputs, and breadcrumbs for diagnostics.
type IO struct {
	BlossomPath   string
	NameHierarchy []string
	ParentValues  map[string]interface{}
	Input         map[string]interface{}
	Output        map[string]interface{}
	TerminalOutput string
}

// NewIO builds a BlossomIO snapshot for one invocation.
func NewIO(blossomPath string, hierarchy []string, parentValues, input map[string]interface{}) *IO {
	return &IO{
		BlossomPath:   blossomPath,
		NameHierarchy: hierarchy,
		ParentValues:  parentValues,
		Input:         input,
		Output:        make(map[string]interface{}),
	}
}

// SetOutput writes a produced output value under name.
func (io *IO) SetOutput(name string, value interface{}) {
	io.Output[name] = value
}

// Handler is the contract a host action implementation satisfies.
// RunTask returning false (with or without err) means the entire
// invocation fails; status.Code/status.Message are surfaced upward
// unchanged.
type Handler interface {
	// Fields declares the blossom's schema: which inputs are required,
	// which outputs it produces, and their types/constraints.
	Fields() []ir.FieldDefinition

	// RunTask executes the handler body. treeContext is the read-only
	// context map carried by the invoking Growth Plan.
	RunTask(ctx context.Context, io *IO, treeContext map[string]interface{}, status *Status) (bool, error)
}

// RequiredKeys returns the set of declared input field names, plus
// whether the schema accepts arbitrary extra input keys via `*`.
func RequiredKeys(h Handler) (keys map[string]bool, wildcard bool) {
	keys = make(map[string]bool)
	for _, f := range h.Fields() {
		if f.IOType != ir.FieldInput {
			continue
		}
		if f.Name == ir.RequiredKeysWildcard {
			wildcard = true
			continue
		}
		keys[f.Name] = true
	}
	return keys, wildcard
}

// OutputKeys returns the set of declared output field names.
func OutputKeys(h Handler) map[string]bool {
	keys := make(map[string]bool)
	for _, f := range h.Fields() {
		if f.IOType == ir.FieldOutput {
			keys[f.Name] = true
		}
	}
	return keys
}

// FieldByName looks up a declared field by name.
func FieldByName(h Handler, name string) (ir.FieldDefinition, bool) {
	for _, f := range h.Fields() {
		if f.Name == name {
			return f, true
		}
	}
	return ir.FieldDefinition{}, false
}

// Base provides convenience accessors for handlers that read scalars out
// of BlossomIO.Input.
type Base struct{}

func (Base) GetString(io *IO, key string) (string, error) {
	v, ok := io.Input[key]
	if !ok {
		return "", fmt.Errorf("field not found: %s", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %s is not a string", key)
	}
	return s, nil
}

func (Base) GetInt(io *IO, key string) (int64, error) {
	v, ok := io.Input[key]
	if !ok {
		return 0, fmt.Errorf("field not found: %s", key)
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("field %s is not a number", key)
	}
}

func (Base) GetBool(io *IO, key string) (bool, error) {
	v, ok := io.Input[key]
	if !ok {
		return false, fmt.Errorf("field not found: %s", key)
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("field %s is not a bool", key)
	}
	return b, nil
}

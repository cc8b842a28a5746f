// Package value implements the Sakura value-resolution pipeline: scope
// lookup, template substitution, the built-in function pipeline, and
// the override semantics used at every scope boundary.
package value

import "github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/ir"

// Scope is a tree's or loop iteration's mutable variable map.
type Scope map[string]*ir.DataItem

// Clone deep-copies a scope so parallel branches and loop iterations
// each get a private snapshot.
func (s Scope) Clone() Scope {
	out := make(Scope, len(s))
	for k, v := range s {
		out[k] = v.Clone()
	}
	return out
}

// ToNative converts a scope to a plain map for templates and handlers.
func (s Scope) ToNative() map[string]interface{} {
	out := make(map[string]interface{}, len(s))
	for k, v := range s {
		out[k] = v.ToNative()
	}
	return out
}

// HasUninitialized reports whether any scope value is literally the
// uninitialised-marker string.
func (s Scope) HasUninitialized() bool {
	for _, v := range s {
		if str, ok := v.StringVal(); ok && str == ir.UninitializedSentinel {
			return true
		}
	}
	return false
}

// TemplateEngine is the pure-function collaborator the fill pipeline
// calls to expand literal string templates; the Jinja-style evaluator
// is an external collaborator, invoked as a pure function.
type TemplateEngine interface {
	Render(template string, scope map[string]interface{}) (string, error)
}

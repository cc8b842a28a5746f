// Package templating provides a minimal built-in template engine that
// satisfies the value package's TemplateEngine collaborator interface.
//
// The real Jinja-style `{{ expr }}` evaluator is out of scope: the
// runtime only ever calls it as a pure function of a template string
// and a scope. This package is that pure function: variable resolution
// with dotted paths and array indexing, adapted from a three-namespace
// env/input/resource model down to a single flat scope — Sakura
// templates only ever read the current tree scope. A host embedding
// the runtime may substitute a full engine instead.
package templating

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([^}]+?)\s*\}\}`)

// Engine resolves `{{ identifier.path[0].field }}` placeholders against a
// flat variable scope.
type Engine struct {
	// StrictMode, when true, returns an error on any unresolved
	// variable instead of substituting an empty string.
	StrictMode bool
}

// NewEngine creates a template engine.
func NewEngine(strict bool) *Engine {
	return &Engine{StrictMode: strict}
}

// Render resolves all placeholders in template against scope.
func (e *Engine) Render(template string, scope map[string]interface{}) (string, error) {
	if template == "" || !placeholderPattern.MatchString(template) {
		return template, nil
	}

	var firstErr error
	result := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		ref := strings.TrimSpace(match[2 : len(match)-2])
		value, err := resolvePath(scope, ref)
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("template %q: %w", template, err)
			}
			if e.StrictMode {
				return ""
			}
			return ""
		}
		return stringify(value)
	})

	if e.StrictMode && firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

func resolvePath(scope map[string]interface{}, ref string) (interface{}, error) {
	parts := splitPath(ref)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty variable reference")
	}

	root := parts[0]
	var current interface{}
	var ok bool

	if idx := strings.IndexByte(root, '['); idx > 0 {
		current, ok = scope[root[:idx]]
	} else {
		current, ok = scope[root]
	}
	if !ok {
		return nil, fmt.Errorf("undefined identifier %q", root)
	}

	if idx := strings.IndexByte(root, '['); idx > 0 {
		var err error
		current, err = applyIndices(current, root[idx:])
		if err != nil {
			return nil, err
		}
	}

	for _, part := range parts[1:] {
		if idx := strings.IndexByte(part, '['); idx >= 0 {
			field := part[:idx]
			if field != "" {
				current = resolveField(current, field)
			}
			var err error
			current, err = applyIndices(current, part[idx:])
			if err != nil {
				return nil, err
			}
			continue
		}
		current = resolveField(current, part)
		if current == nil {
			return nil, fmt.Errorf("field %q not found", part)
		}
	}

	return current, nil
}

func resolveField(value interface{}, field string) interface{} {
	if value == nil {
		return nil
	}
	if m, ok := value.(map[string]interface{}); ok {
		return m[field]
	}
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() == reflect.Struct {
		f := v.FieldByName(field)
		if f.IsValid() {
			return f.Interface()
		}
	}
	if data, err := json.Marshal(value); err == nil {
		var m map[string]interface{}
		if err := json.Unmarshal(data, &m); err == nil {
			return m[field]
		}
	}
	return nil
}

func applyIndices(value interface{}, bracketExpr string) (interface{}, error) {
	for len(bracketExpr) > 0 {
		if bracketExpr[0] != '[' {
			return nil, fmt.Errorf("invalid index expression %q", bracketExpr)
		}
		end := strings.IndexByte(bracketExpr, ']')
		if end < 0 {
			return nil, fmt.Errorf("unterminated index expression %q", bracketExpr)
		}
		idx, err := strconv.Atoi(strings.TrimSpace(bracketExpr[1:end]))
		if err != nil {
			return nil, fmt.Errorf("invalid array index %q", bracketExpr[1:end])
		}

		v := reflect.ValueOf(value)
		if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
			return nil, fmt.Errorf("cannot index non-array value")
		}
		if idx < 0 || idx >= v.Len() {
			return nil, fmt.Errorf("index %d out of bounds (len %d)", idx, v.Len())
		}
		value = v.Index(idx).Interface()
		bracketExpr = bracketExpr[end+1:]
	}
	return value, nil
}

func splitPath(path string) []string {
	var parts []string
	var cur strings.Builder
	inBracket := false
	for _, ch := range path {
		switch ch {
		case '.':
			if !inBracket {
				parts = append(parts, cur.String())
				cur.Reset()
				continue
			}
		case '[':
			inBracket = true
		case ']':
			inBracket = false
		}
		cur.WriteRune(ch)
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		return fmt.Sprintf("%v", v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}

package value

import (
	"fmt"

	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/errs"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/ir"
)

// FillValueItem resolves a single value item in place against scope,
// implementing a four-way dispatch:
//
//  1. Output marker: left as-is.
//  2. Identifier: looked up in scope, then the function pipeline runs.
//  3. String literal: expanded as a template (no function pipeline).
//  4. Other literal: the function pipeline runs directly.
func FillValueItem(vi *ir.ValueItem, scope Scope, tmpl TemplateEngine) (*ir.ValueItem, error) {
	if vi == nil {
		return nil, nil
	}

	if vi.IOType == ir.IOOutput {
		return vi, nil
	}

	if vi.IsIdentifier {
		name := vi.CapturedName()
		resolved, ok := scope[name]
		if !ok {
			return nil, errs.New(errs.ErrUndefinedIdentifier, name)
		}
		vi.Item = resolved.Clone()
		vi.IsIdentifier = false

		filled, err := ApplyPipeline(vi.Item, vi.Functions, scope, tmpl)
		if err != nil {
			return nil, err
		}
		vi.Item = filled
		return vi, nil
	}

	if str, ok := vi.Item.StringVal(); ok {
		rendered, err := tmpl.Render(str, scope.ToNative())
		if err != nil {
			return nil, errs.New(errs.ErrTemplate, err.Error())
		}
		vi.Item = ir.NewString(rendered)
		return vi, nil
	}

	filled, err := ApplyPipeline(vi.Item, vi.Functions, scope, tmpl)
	if err != nil {
		return nil, err
	}
	vi.Item = filled
	return vi, nil
}

// FillInputValueItemMap recursively fills every non-output value item in
// a ValueItemMap: values first, then nested child maps.
func FillInputValueItemMap(vim *ir.ValueItemMap, scope Scope, tmpl TemplateEngine) error {
	if vim == nil {
		return nil
	}

	var firstErr error
	vim.Values.Range(func(name string, vi *ir.ValueItem) bool {
		if _, err := FillValueItem(vi, scope, tmpl); err != nil {
			firstErr = fmt.Errorf("field %q: %w", name, err)
			return false
		}
		return true
	})
	if firstErr != nil {
		return firstErr
	}

	vim.Children.Range(func(name string, child *ir.ValueItemMap) bool {
		if err := FillInputValueItemMap(child, scope, tmpl); err != nil {
			firstErr = fmt.Errorf("group %q: %w", name, err)
			return false
		}
		return true
	})
	return firstErr
}

// FillOutputValueItemMap binds each output-marked entry's captured scope
// name to a copy of the matching value in produced.
func FillOutputValueItemMap(vim *ir.ValueItemMap, produced Scope) (Scope, error) {
	out := make(Scope)
	if vim == nil {
		return out, nil
	}

	var firstErr error
	vim.Values.Range(func(name string, vi *ir.ValueItem) bool {
		if vi.IOType != ir.IOOutput {
			return true
		}
		value, ok := produced[name]
		if !ok {
			firstErr = errs.New(errs.ErrMissingOutput, name)
			return false
		}
		out[vi.CapturedName()] = value.Clone()
		return true
	})
	return out, firstErr
}

// FromScope builds a Scope from a ValueItemMap's already-resolved
// literal values (used after fill_input_value_item_map has run), keyed
// by field name.
func FromScope(vim *ir.ValueItemMap) Scope {
	out := make(Scope)
	if vim == nil {
		return out
	}
	vim.Values.Range(func(name string, vi *ir.ValueItem) bool {
		if vi.IOType != ir.IOOutput {
			out[name] = vi.Item.Clone()
		}
		return true
	})
	return out
}

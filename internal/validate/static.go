// Package validate implements two validators: a static,
// registration-time descent over a tree's IR (this file) and a runtime
// per-dispatch type checker (runtime.go).
package validate

import (
	"fmt"

	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/blossom"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/errs"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/garden"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/ir"
)

// ValidateTree runs once per tree at registration. It descends the IR
// by node kind and, for every Blossom not backed by a
// resource, resolves the handler and runs validateInput. A successful
// validation is the gate that allows Garden.AddTree to proceed.
func ValidateTree(tree *ir.SakuraItem, g *garden.Garden) *errs.RuntimeError {
	return descend(tree, g)
}

func descend(node *ir.SakuraItem, g *garden.Garden) *errs.RuntimeError {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case ir.KindTree:
		return descend(node.Body, g)

	case ir.KindSequential:
		for _, c := range node.Children {
			if err := descend(c, g); err != nil {
				return err
			}
		}
		return nil

	case ir.KindParallel:
		return descend(node.Child, g)

	case ir.KindIf:
		if err := descend(node.Then, g); err != nil {
			return err
		}
		return descend(node.Else, g)

	case ir.KindForEach, ir.KindFor:
		return descend(node.LoopBody, g)

	case ir.KindSubtree:
		// Validated independently when that tree/resource is registered.
		return nil

	case ir.KindBlossomGroup:
		for _, b := range node.Blossoms {
			if _, ok := g.ResourceForBlossomType(b.BlossomType); ok {
				// Resource-backed: the "resource first" rule means this
				// dispatches as a subtree call, validated when the
				// resource tree itself was registered.
				continue
			}

			handler, ok := g.GetBlossom(node.GroupType, b.BlossomType)
			if !ok {
				return errs.New(errs.ErrUnknownBlossom, b.BlossomType).
					WithLocation("BlossomGroup:"+node.GroupID, "", node.GroupType, b.BlossomType, b.Name)
			}

			merged := mergeGroupDefaults(node.Values, b.Values)
			if err := validateInput(handler, merged); err != nil {
				re, ok := err.(*errs.RuntimeError)
				if !ok {
					re = errs.New(err, "")
				}
				return re.WithLocation("BlossomGroup:"+node.GroupID, "", node.GroupType, b.BlossomType, b.Name)
			}
		}
		return nil

	case ir.KindBlossom:
		handler, ok := g.GetBlossom(node.GroupType, node.BlossomType)
		if !ok {
			return errs.New(errs.ErrUnknownBlossom, node.BlossomType).
				WithLocation("Blossom:"+node.Name, "", node.GroupType, node.BlossomType, node.Name)
		}
		if err := validateInput(handler, node.Values); err != nil {
			re, ok := err.(*errs.RuntimeError)
			if !ok {
				re = errs.New(err, "")
			}
			return re.WithLocation("Blossom:"+node.Name, "", node.GroupType, node.BlossomType, node.Name)
		}
		return nil

	default:
		return nil
	}
}

// mergeGroupDefaults applies the BlossomGroup -> Blossom key propagation
// rule at key level (OnlyNonExisting): a blossom's own declared keys
// win; the group's keys fill in only names the blossom does not
// already declare. Values themselves are irrelevant at this stage —
// only names matter for UnknownKey/MissingKey checks.
func mergeGroupDefaults(group, blossomValues *ir.ValueItemMap) *ir.ValueItemMap {
	merged := blossomValues.Clone()
	if group == nil {
		return merged
	}
	group.Values.Range(func(name string, vi *ir.ValueItem) bool {
		if _, exists := merged.Get(name); !exists {
			merged.Set(name, vi.Clone())
		}
		return true
	})
	return merged
}

// validateInput checks a blossom's resolved value-item-map keys against
// its declared schema: unknown keys, missing required keys, and unknown
// output keys.
func validateInput(h blossom.Handler, vim *ir.ValueItemMap) error {
	requiredKeys, wildcard := blossom.RequiredKeys(h)
	outputKeys := blossom.OutputKeys(h)

	var firstErr error
	vim.Values.Range(func(name string, vi *ir.ValueItem) bool {
		if vi.IOType == ir.IOOutput {
			if !outputKeys[name] {
				firstErr = errs.New(errs.ErrUnknownOutputKey, name)
				return false
			}
			return true
		}
		if !wildcard && !requiredKeys[name] {
			firstErr = errs.New(errs.ErrUnknownKey, name)
			return false
		}
		return true
	})
	if firstErr != nil {
		return firstErr
	}

	for _, f := range h.Fields() {
		if f.IOType != ir.FieldInput || !f.Required || f.Name == ir.RequiredKeysWildcard {
			continue
		}
		if _, ok := vim.Get(f.Name); !ok {
			return errs.New(errs.ErrMissingKey, fmt.Sprintf("missing required field %q", f.Name))
		}
	}
	return nil
}

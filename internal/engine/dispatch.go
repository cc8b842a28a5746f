package engine

import (
	"context"

	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/blossom"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/errs"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/growth"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/ir"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/logging"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/validate"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/value"
)

// execNode dispatches a single IR node against plan p's scope,
// synchronously on the calling worker unless the node is Parallel or a
// parallel-flagged For/ForEach.
func (e *Engine) execNode(ctx context.Context, p *growth.Plan, node *ir.SakuraItem) error {
	if node == nil {
		return nil
	}
	if checkCancelled(p) {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	switch node.Kind {
	case ir.KindTree:
		return e.execTree(ctx, p, node)
	case ir.KindSequential:
		return e.execSequential(ctx, p, node)
	case ir.KindParallel:
		return e.execParallel(ctx, p, node)
	case ir.KindIf:
		return e.execIf(ctx, p, node)
	case ir.KindForEach:
		return e.execForEach(ctx, p, node)
	case ir.KindFor:
		return e.execFor(ctx, p, node)
	case ir.KindBlossomGroup:
		return e.execBlossomGroup(ctx, p, node)
	case ir.KindBlossom:
		return e.execBlossom(ctx, p, node, nil)
	case ir.KindSubtree:
		return e.execSubtree(ctx, p, node)
	default:
		return nil
	}
}

// execTree implements the Tree dispatch rule: uninitialised-guard,
// hierarchy/file_path bookkeeping, then execute body.
func (e *Engine) execTree(ctx context.Context, p *growth.Plan, node *ir.SakuraItem) error {
	if p.Items.HasUninitialized() {
		return errs.New(errs.ErrUninitialised, node.ID)
	}
	priorFilePath := p.FilePath
	priorHierarchyLen := len(p.Hierarchy)
	p.FilePath = node.RootPath + "/" + node.RelativePath
	p.Hierarchy = append(p.Hierarchy, "TREE: "+node.ID)
	defer func() {
		p.FilePath = priorFilePath
		p.Hierarchy = p.Hierarchy[:priorHierarchyLen]
	}()

	return e.execNode(ctx, p, node.Body)
}

// execSequential executes children in source order, aborting on first
// failure.
func (e *Engine) execSequential(ctx context.Context, p *growth.Plan, node *ir.SakuraItem) error {
	for _, child := range node.Children {
		if err := e.execNode(ctx, p, child); err != nil {
			return err
		}
	}
	return nil
}

// execIf resolves both sides, compares stringified forms, and executes
// the matching branch (only stringified ==/!= are supported).
func (e *Engine) execIf(ctx context.Context, p *growth.Plan, node *ir.SakuraItem) error {
	left, err := value.FillValueItem(node.Left.Clone(), p.Items, e.Template)
	if err != nil {
		return err
	}
	right, err := value.FillValueItem(node.Right.Clone(), p.Items, e.Template)
	if err != nil {
		return err
	}

	equal := left.Item.Stringify() == right.Item.Stringify()
	matched := (node.Compare == ir.CompareEqual && equal) || (node.Compare == ir.CompareUnequal && !equal)

	if matched {
		return e.execNode(ctx, p, node.Then)
	}
	return e.execNode(ctx, p, node.Else)
}

// execBlossom fills values (or an override map supplied by a
// BlossomGroup's OnlyNonExisting propagation), looks up the handler,
// runs the runtime type check, dispatches, and merges outputs back.
func (e *Engine) execBlossom(ctx context.Context, p *growth.Plan, node *ir.SakuraItem, valuesOverride *ir.ValueItemMap) error {
	vim := node.Values
	if valuesOverride != nil {
		vim = valuesOverride
	}
	vim = vim.Clone()

	if err := value.FillInputValueItemMap(vim, p.Items, e.Template); err != nil {
		return err
	}

	handler, ok := e.Garden.GetBlossom(node.GroupType, node.BlossomType)
	if !ok {
		return errs.New(errs.ErrUnknownBlossom, node.BlossomType).
			WithLocation(node.Name, p.FilePath, node.GroupType, node.BlossomType, node.Name)
	}

	resolved := value.FromScope(vim)
	if err := validate.CheckInput(handler, resolved); err != nil {
		return err
	}

	logging.ForPlan(e.log, p.ID, p.Hierarchy).Debug().
		Str("blossom_group", node.GroupType).Str("blossom_type", node.BlossomType).
		Msg("blossom invoked")

	io := blossom.NewIO(p.FilePath, append(append([]string{}, p.Hierarchy...), "BLOSSOM: "+node.Name), p.Items.ToNative(), toNative(resolved))
	status := blossom.Status{}
	ok2, err := handler.RunTask(ctx, io, contextToNative(p.Context), &status)
	p.Status = status
	if err != nil {
		return errs.New(errs.ErrHandler, err.Error()).
			WithLocation(node.Name, p.FilePath, node.GroupType, node.BlossomType, node.Name)
	}
	if !ok2 {
		return errs.New(errs.ErrHandler, status.Message).
			WithLocation(node.Name, p.FilePath, node.GroupType, node.BlossomType, node.Name)
	}

	produced := make(value.Scope, len(io.Output))
	for k, v := range io.Output {
		produced[k] = ir.FromNative(v)
	}

	out, ferr := value.FillOutputValueItemMap(vim, produced)
	if ferr != nil {
		return ferr
	}
	value.Override(p.Items, out, value.OnlyExisting)
	return nil
}

func toNative(s value.Scope) map[string]interface{} { return s.ToNative() }

func contextToNative(ctx map[string]*ir.DataItem) map[string]interface{} {
	out := make(map[string]interface{}, len(ctx))
	for k, v := range ctx {
		out[k] = v.ToNative()
	}
	return out
}

// execBlossomGroup runs each contained blossom in turn: a registered
// resource takes precedence over a handler (resource first, blossom
// handler second); otherwise group values propagate into the
// blossom's values as OnlyNonExisting before dispatch.
func (e *Engine) execBlossomGroup(ctx context.Context, p *growth.Plan, node *ir.SakuraItem) error {
	groupID, err := e.Template.Render(node.GroupID, p.Items.ToNative())
	if err != nil {
		return errs.New(errs.ErrTemplate, err.Error())
	}
	p.Hierarchy = append(p.Hierarchy, "BLOSSOM-GROUP: "+groupID)

	for _, b := range node.Blossoms {
		if checkCancelled(p) {
			return nil
		}

		if resource, ok := e.Garden.ResourceForBlossomType(b.BlossomType); ok {
			if err := e.execSubtreeLike(ctx, p, resource, node.Values, b.Values, p.FilePath); err != nil {
				return err
			}
			continue
		}

		merged := mergeGroupDefaults(node.Values, b.Values)
		if err := e.execBlossom(ctx, p, b, merged); err != nil {
			return err
		}
	}
	return nil
}

// mergeGroupDefaults applies OnlyNonExisting at the ValueItemMap level:
// the blossom's own declared entries win; the group's entries fill in
// only names the blossom does not already declare.
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

// execSubtree resolves the referenced tree via the Garden relative to
// the current file_path, then runs the shared subtree-dispatch
// algorithm. Subtree never hands off to the queue — it stays on the
// calling worker.
func (e *Engine) execSubtree(ctx context.Context, p *growth.Plan, node *ir.SakuraItem) error {
	tree, err := e.Garden.ResolveSubtree(p.FilePath, node.NameOrPath)
	if err != nil {
		return errs.New(errs.ErrMissingSubtree, node.NameOrPath)
	}
	newFilePath := p.FilePath
	if tree.RelativePath != "" {
		newFilePath = tree.RootPath + "/" + tree.RelativePath
	}
	return e.execSubtreeLike(ctx, p, tree, nil, node.Values, newFilePath)
}

// execSubtreeLike implements the Subtree dispatch algorithm shared by
// KindSubtree and a BlossomGroup's resource-backed branch:
//
//  1. build the subtree's starting scope from its own declared Values,
//     then merge the call site's resolved arguments in with All
//     (caller args win).
//  2. swap the plan's scope in, run the resolved tree's body.
//  3. bind the call site's declared output markers from the finished
//     scope, and merge those back into the restored caller scope with
//     OnlyExisting — mirroring Blossom's own two-step output merge.
//
// groupArgs, when non-nil (the BlossomGroup resource branch), is used
// as the call-site argument map in place of callSiteArgs's values.
func (e *Engine) execSubtreeLike(ctx context.Context, p *growth.Plan, tree *ir.SakuraItem, groupArgs, callSiteArgs *ir.ValueItemMap, newFilePath string) error {
	argsSource := callSiteArgs
	if groupArgs != nil {
		argsSource = groupArgs
	}

	defaultVim := tree.Values.Clone()
	if err := value.FillInputValueItemMap(defaultVim, value.Scope{}, e.Template); err != nil {
		return err
	}
	defaultScope := value.FromScope(defaultVim)

	callerArgsVim := argsSource.Clone()
	if err := value.FillInputValueItemMap(callerArgsVim, p.Items, e.Template); err != nil {
		return err
	}
	callerArgsScope := value.FromScope(callerArgsVim)

	subtreeScope := value.Override(defaultScope, callerArgsScope, value.All)

	priorScope := p.Items
	priorFilePath := p.FilePath
	p.Items = subtreeScope
	p.FilePath = newFilePath

	err := e.execNode(ctx, p, tree.Body)

	finishedScope := p.Items
	p.Items = priorScope
	p.FilePath = priorFilePath

	if err != nil {
		return err
	}

	out, ferr := value.FillOutputValueItemMap(callSiteArgs, finishedScope)
	if ferr != nil {
		return ferr
	}
	value.Override(p.Items, out, value.OnlyExisting)
	return nil
}

// Package growth implements the Growth Plan: the per-invocation
// execution context, the ActiveCounter convergence barrier it shares
// across a parallel fan-out, and the subtree queue + worker pool that
// drains queued plans.
package growth

import (
	"github.com/google/uuid"

	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/blossom"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/errs"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/ir"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/value"
)

// Plan is a single Growth Plan: an owned copy of the IR subtree to run,
// its mutable scope, a read-only context, status/error accumulators, a
// link to its parent, a shared barrier, the call hierarchy for human
// output, the current file path, and any spawned children.
type Plan struct {
	ID string

	// BodyCopy is the owned IR subtree this plan executes. Cloned from
	// the registered tree/loop-body so concurrent siblings never share
	// mutable IR state.
	BodyCopy *ir.SakuraItem

	Items   value.Scope
	Context map[string]*ir.DataItem

	Status blossom.Status
	Err    *errs.RuntimeError

	// Parent is a plain back-reference, not a true weak pointer (Go has
	// no weak-reference type); callers must not retain a Plan longer
	// than its parent's lifetime implies.
	Parent *Plan

	// Counter is shared with sibling plans spawned from the same
	// Parallel region or loop fan-out; nil for a serially-executed plan.
	Counter *ActiveCounter

	Hierarchy []string
	FilePath  string

	Children []*Plan

	// PostAggregation holds a ForEach/For node's post-loop merge
	// expressions, when the originating node carries one.
	PostAggregation *ir.ValueItemMap
}

// NewRootPlan builds the root Growth Plan created by trigger_tree /
// trigger_blossom.
func NewRootPlan(body *ir.SakuraItem, initial value.Scope, treeContext map[string]*ir.DataItem, filePath string) *Plan {
	return &Plan{
		ID:        uuid.NewString(),
		BodyCopy:  body.Clone(),
		Items:     initial,
		Context:   treeContext,
		Hierarchy: []string{},
		FilePath:  filePath,
	}
}

// Spawn creates a child plan for a Parallel branch or loop iteration,
// sharing counter (if non-nil) and inheriting context/file path, with
// its own isolated scope snapshot.
func (p *Plan) Spawn(body *ir.SakuraItem, scope value.Scope, counter *ActiveCounter, hierarchyFrame string) *Plan {
	child := &Plan{
		ID:        uuid.NewString(),
		BodyCopy:  body.Clone(),
		Items:     scope,
		Context:   p.Context,
		Parent:    p,
		Counter:   counter,
		Hierarchy: append(append([]string{}, p.Hierarchy...), hierarchyFrame),
		FilePath:  p.FilePath,
	}
	p.Children = append(p.Children, child)
	return child
}

// Fail records a terminal error on the plan, building a RuntimeError if
// none is attached yet and otherwise appending a message to the
// existing accumulator (add_message semantics).
func (p *Plan) Fail(kind error, message string) *errs.RuntimeError {
	if p.Err == nil {
		p.Err = errs.New(kind, message)
	} else {
		p.Err.AddMessage(message)
	}
	return p.Err
}

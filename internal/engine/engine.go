// Package engine implements the Growth Plan execution engine: the
// dispatch of every IR node kind, wired to the subtree queue and
// worker pool of internal/growth.
package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/blossom"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/errs"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/garden"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/growth"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/ir"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/logging"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/validate"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/value"
)

// Engine ties a Garden, a template engine collaborator, and a subtree
// queue/worker pool together into the runnable language runtime.
type Engine struct {
	Garden   *garden.Garden
	Template value.TemplateEngine

	queue        *growth.Queue
	pool         *growth.WorkerPool
	log          zerolog.Logger
	pollInterval time.Duration
}

// New builds an Engine with a fixed-size worker pool draining its
// subtree queue, both polling at queuePoll whenever the queue is
// empty or a barrier is still waiting on siblings.
func New(g *garden.Garden, tmpl value.TemplateEngine, workers int, queuePoll time.Duration, log zerolog.Logger) *Engine {
	e := &Engine{Garden: g, Template: tmpl, queue: growth.NewQueue(), log: log, pollInterval: queuePoll}
	e.pool = growth.NewWorkerPool(e.queue, workers, e.runQueued, queuePoll)
	return e
}

// Start launches the worker pool. It must be called once before
// TriggerTree/TriggerBlossom.
func (e *Engine) Start(ctx context.Context) { e.pool.Start(ctx) }

// Stop signals every worker to exit and waits for them to drain.
func (e *Engine) Stop() { e.pool.Stop() }

// runQueued is the Dispatch callback the worker pool invokes for each
// popped plan: run its body, then signal the plan's shared counter.
func (e *Engine) runQueued(ctx context.Context, p *growth.Plan) {
	err := e.execNode(ctx, p, p.BodyCopy)
	success := err == nil
	message := ""
	if err != nil {
		message = err.Error()
		p.Fail(errorKind(err), message)
		logging.ForPlan(e.log, p.ID, p.Hierarchy).Warn().Err(err).Msg("error surfaced")
	}
	if p.Counter != nil {
		p.Counter.Increment(success, message)
	}
}

func errorKind(err error) error {
	if re, ok := err.(*errs.RuntimeError); ok {
		return re.Unwrap()
	}
	return err
}

// TriggerTree implements trigger_tree(id, inputs): builds the root
// Growth Plan, enqueues it, and blocks until the shared counter
// converges.
func (e *Engine) TriggerTree(ctx context.Context, id string, initial value.Scope, treeContext map[string]*ir.DataItem) (value.Scope, blossom.Status, *errs.RuntimeError) {
	tree, ok := e.Garden.GetTree(id)
	if !ok {
		return nil, blossom.Status{}, errs.New(errs.ErrMissingSubtree, id)
	}
	e.log.Debug().Str("tree_id", id).Msg("tree entered")
	return e.triggerBody(ctx, tree.Body, initial, treeContext, tree.RootPath+"/"+tree.RelativePath, "TREE: "+id)
}

// TriggerBlossom implements trigger_blossom: invokes a single
// registered blossom directly, outside of any tree.
func (e *Engine) TriggerBlossom(ctx context.Context, group, name string, initial value.Scope, treeContext map[string]*ir.DataItem) (value.Scope, blossom.Status, *errs.RuntimeError) {
	node := ir.NewBlossom(group, name, name, ir.NewValueItemMap())
	for k, v := range initial {
		node.Values.Set(k, ir.NewLiteralValueItem(v))
	}
	return e.triggerBody(ctx, node, value.Scope{}, treeContext, "", "BLOSSOM: "+name)
}

func (e *Engine) triggerBody(ctx context.Context, body *ir.SakuraItem, initial value.Scope, treeContext map[string]*ir.DataItem, filePath, hierarchyFrame string) (value.Scope, blossom.Status, *errs.RuntimeError) {
	scope := initial.Clone()
	if scope.HasUninitialized() {
		return nil, blossom.Status{}, errs.New(errs.ErrUninitialised, hierarchyFrame)
	}

	plan := growth.NewRootPlan(body, scope, treeContext, filePath)
	plan.Hierarchy = append(plan.Hierarchy, hierarchyFrame)
	plan.Counter = growth.NewActiveCounter(1, e.pollInterval)

	e.queue.Push(plan)

	success, message, err := plan.Counter.Wait(ctx)
	if err != nil {
		return plan.Items, plan.Status, errs.New(err, "growth plan wait cancelled")
	}
	if !success {
		if plan.Err != nil {
			return plan.Items, plan.Status, plan.Err
		}
		return plan.Items, plan.Status, errs.New(errs.ErrHandler, message)
	}
	return plan.Items, plan.Status, nil
}

// checkCancelled reports the cooperative short-circuit: a sibling in a
// failed parallel region observes the shared counter's failure at
// every node dispatch and returns success to its own caller while
// leaving the parent's failure state intact.
func checkCancelled(p *growth.Plan) bool {
	if p.Counter == nil {
		return false
	}
	_, _, success, _ := p.Counter.Snapshot()
	return !success
}

// staticCheck exposes the registration-time validator to callers that
// build trees programmatically (see pkg/sakura).
func staticCheck(tree *ir.SakuraItem, g *garden.Garden) *errs.RuntimeError {
	return validate.ValidateTree(tree, g)
}

package engine

import (
	"context"

	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/errs"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/growth"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/ir"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/logging"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/value"
)

// execParallel wraps the Sequential child's children as N independent
// tasks, enqueues each as a fresh Growth Plan sharing a counter, waits
// for convergence, then merges with All in enqueue order (a stable
// deterministic merge).
func (e *Engine) execParallel(ctx context.Context, p *growth.Plan, node *ir.SakuraItem) error {
	branches := node.Child.Children
	if len(branches) == 0 {
		return nil
	}

	planLog := logging.ForPlan(e.log, p.ID, p.Hierarchy)
	planLog.Debug().Int("branches", len(branches)).Msg("wave spawned")

	counter := growth.NewActiveCounter(len(branches), e.pollInterval)
	children := make([]*growth.Plan, len(branches))
	for i, branch := range branches {
		child := p.Spawn(branch, p.Items.Clone(), counter, "PARALLEL-BRANCH")
		children[i] = child
		e.enqueue(child)
	}

	success, message, err := counter.Wait(ctx)
	if err != nil {
		return errs.New(err, "parallel region wait cancelled")
	}
	planLog.Debug().Bool("success", success).Msg("wave joined")
	if !success {
		if firstErr := firstChildError(children); firstErr != nil {
			return firstErr
		}
		return errs.New(errs.ErrHandler, message)
	}

	for _, child := range children {
		value.Override(p.Items, child.Items, value.All)
	}
	return nil
}

// enqueue pushes a spawned child plan onto the subtree queue; a pool
// worker pops it and runs it through runQueued, the same routine that
// runs the root plan of a trigger.
func (e *Engine) enqueue(child *growth.Plan) {
	e.queue.Push(child)
}

func firstChildError(children []*growth.Plan) *errs.RuntimeError {
	for _, c := range children {
		if c.Err != nil {
			return c.Err
		}
	}
	return nil
}

// execForEach resolves iterate_array and dispatches it to either the
// serial or parallel loop runner depending on node.IsParallel.
func (e *Engine) execForEach(ctx context.Context, p *growth.Plan, node *ir.SakuraItem) error {
	filled, err := value.FillValueItem(node.IterateArray.Clone(), p.Items, e.Template)
	if err != nil {
		return err
	}
	arr, ok := filled.Item.Array()
	if !ok {
		return errs.New(errs.ErrFunction, "foreach: iterate_array did not resolve to an array")
	}

	if node.IsParallel {
		return e.runParallelLoop(ctx, p, node, arr)
	}
	return e.runSerialLoop(ctx, p, node, arr)
}

// execFor is identical to ForEach with temp_var_name bound to the
// current integer in [start, end).
func (e *Engine) execFor(ctx context.Context, p *growth.Plan, node *ir.SakuraItem) error {
	startVI, err := value.FillValueItem(node.Start.Clone(), p.Items, e.Template)
	if err != nil {
		return err
	}
	endVI, err := value.FillValueItem(node.End.Clone(), p.Items, e.Template)
	if err != nil {
		return err
	}
	start, ok := startVI.Item.Int()
	if !ok {
		return errs.New(errs.ErrFunction, "for: start did not resolve to an int")
	}
	end, ok := endVI.Item.Int()
	if !ok {
		return errs.New(errs.ErrFunction, "for: end did not resolve to an int")
	}

	items := make([]*ir.DataItem, 0, end-start)
	for i := start; i < end; i++ {
		items = append(items, ir.NewInt(i))
	}

	if node.IsParallel {
		return e.runParallelLoop(ctx, p, node, items)
	}
	return e.runSerialLoop(ctx, p, node, items)
}

// runSerialLoop runs each iteration on the calling worker: a fresh body
// copy per element, discarded after use, merged back with OnlyExisting
// so loop-local variables do not leak.
func (e *Engine) runSerialLoop(ctx context.Context, p *growth.Plan, node *ir.SakuraItem, elements []*ir.DataItem) error {
	for _, elem := range elements {
		if checkCancelled(p) {
			return nil
		}

		iterScope := p.Items.Clone()
		iterScope[node.TempVarName] = elem.Clone()

		priorScope := p.Items
		p.Items = iterScope
		err := e.execNode(ctx, p, node.LoopBody.Clone())
		finished := p.Items
		p.Items = priorScope

		if err != nil {
			return err
		}
		value.Override(p.Items, finished, value.OnlyExisting)
	}
	return nil
}

// runParallelLoop spawns one Growth Plan per iteration, waits on a
// shared counter, then applies post_aggregation against each child's
// scope and merges into the parent with OnlyExisting. When
// post_aggregation is empty, no per-child state crosses back into the
// parent scope — this is the documented "aggregate-by-write" behaviour,
// preserved verbatim.
func (e *Engine) runParallelLoop(ctx context.Context, p *growth.Plan, node *ir.SakuraItem, elements []*ir.DataItem) error {
	if len(elements) == 0 {
		return nil
	}

	planLog := logging.ForPlan(e.log, p.ID, p.Hierarchy)
	planLog.Debug().Int("iterations", len(elements)).Msg("wave spawned")

	counter := growth.NewActiveCounter(len(elements), e.pollInterval)
	children := make([]*growth.Plan, len(elements))
	for i, elem := range elements {
		iterScope := p.Items.Clone()
		iterScope[node.TempVarName] = elem.Clone()
		child := p.Spawn(node.LoopBody, iterScope, counter, "LOOP-ITERATION")
		children[i] = child
		e.enqueue(child)
	}

	success, message, err := counter.Wait(ctx)
	if err != nil {
		return errs.New(err, "parallel loop wait cancelled")
	}
	planLog.Debug().Bool("success", success).Msg("wave joined")
	if !success {
		if firstErr := firstChildError(children); firstErr != nil {
			return firstErr
		}
		return errs.New(errs.ErrHandler, message)
	}

	if node.PostAggregation == nil || node.PostAggregation.Values.Len() == 0 {
		return nil
	}

	for _, child := range children {
		vim := node.PostAggregation.Clone()
		if err := value.FillInputValueItemMap(vim, child.Items, e.Template); err != nil {
			return err
		}
		aggregated := value.FromScope(vim)
		value.Override(p.Items, aggregated, value.OnlyExisting)
	}
	return nil
}

// Package sakura is the host-facing public API of the runtime:
// registering blossoms/trees/resources/templates/files into a Garden,
// and triggering trees or standalone blossoms against it. This is the
// single entry point a host program imports.
package sakura

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/blossom"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/config"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/engine"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/errs"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/garden"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/ir"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/logging"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/templating"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/validate"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/value"
)

// Runtime bundles a Garden and the engine that executes against it —
// the object a host program constructs once at startup.
type Runtime struct {
	Garden *garden.Garden
	Log    zerolog.Logger

	engine *engine.Engine
	tmpl   value.TemplateEngine
}

// Option configures a Runtime at construction time.
type Option func(*options)

type options struct {
	workerPoolSize int
	queuePoll      time.Duration
	template       value.TemplateEngine
	logger         *zerolog.Logger
}

// WithWorkerPoolSize overrides the fixed worker-pool size.
func WithWorkerPoolSize(n int) Option {
	return func(o *options) { o.workerPoolSize = n }
}

// WithQueuePoll overrides the interval the worker pool and the
// ActiveCounter convergence barrier poll at while idle.
func WithQueuePoll(d time.Duration) Option {
	return func(o *options) { o.queuePoll = d }
}

// WithTemplateEngine substitutes a host-supplied template engine for
// the runtime's built-in stand-in; the real Jinja-style evaluator is an
// external collaborator.
func WithTemplateEngine(t value.TemplateEngine) Option {
	return func(o *options) { o.template = t }
}

// WithLogger substitutes a host-configured zerolog.Logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = &l }
}

// New builds a Runtime, loading ambient configuration (worker pool
// size, log level/format) from the environment unless overridden by
// Option values.
func New(opts ...Option) (*Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	o := &options{workerPoolSize: cfg.Engine.WorkerPoolSize, queuePoll: cfg.Engine.QueuePoll}
	for _, opt := range opts {
		opt(o)
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if o.logger != nil {
		logger = *o.logger
	}

	tmpl := o.template
	if tmpl == nil {
		tmpl = templating.NewEngine(false)
	}

	g := garden.New()
	e := engine.New(g, tmpl, o.workerPoolSize, o.queuePoll, logger)

	return &Runtime{Garden: g, Log: logger, engine: e, tmpl: tmpl}, nil
}

// Start launches the worker pool; call once before Trigger*.
func (r *Runtime) Start(ctx context.Context) { r.engine.Start(ctx) }

// Stop drains and halts the worker pool.
func (r *Runtime) Stop() { r.engine.Stop() }

// TriggerTree implements trigger_tree: runs a registered tree by id.
func (r *Runtime) TriggerTree(ctx context.Context, id string, initialValues map[string]interface{}, treeContext map[string]interface{}) (map[string]interface{}, blossom.Status, *errs.RuntimeError) {
	scope := nativeToScope(initialValues)
	result, status, err := r.engine.TriggerTree(ctx, id, scope, nativeToContext(treeContext))
	return result.ToNative(), status, err
}

// TriggerBlossom implements trigger_blossom: invokes a single
// registered blossom directly, outside of any tree.
func (r *Runtime) TriggerBlossom(ctx context.Context, group, name string, initialValues map[string]interface{}, treeContext map[string]interface{}) (map[string]interface{}, blossom.Status, *errs.RuntimeError) {
	scope := nativeToScope(initialValues)
	result, status, err := r.engine.TriggerBlossom(ctx, group, name, scope, nativeToContext(treeContext))
	return result.ToNative(), status, err
}

// AddTree implements add_tree: validates tree and registers it under
// id (or the tree's own declared id, if id is empty). Parsing Sakura
// source text into this IR is explicitly out of scope; hosts build or
// deserialize the *ir.SakuraItem elsewhere and pass it in
// already-parsed.
func (r *Runtime) AddTree(id string, tree *ir.SakuraItem) *errs.RuntimeError {
	if id == "" {
		id = tree.ID
	}
	if verr := validate.ValidateTree(tree, r.Garden); verr != nil {
		return verr
	}
	if err := r.Garden.AddTree(id, tree); err != nil {
		return errs.New(errs.ErrParse, err.Error())
	}
	return nil
}

// AddResource implements add_resource: validates and registers an
// inline tree invoked as if it were a blossom.
func (r *Runtime) AddResource(id string, tree *ir.SakuraItem) *errs.RuntimeError {
	if id == "" {
		id = tree.ID
	}
	if verr := validate.ValidateTree(tree, r.Garden); verr != nil {
		return verr
	}
	if err := r.Garden.AddResource(id, tree); err != nil {
		return errs.New(errs.ErrParse, err.Error())
	}
	return nil
}

// AddTemplate implements add_template.
func (r *Runtime) AddTemplate(id, text string) error { return r.Garden.AddTemplate(id, text) }

// AddFile implements add_file.
func (r *Runtime) AddFile(id string, buf []byte) error { return r.Garden.AddFile(id, buf) }

// AddBlossom implements add_blossom.
func (r *Runtime) AddBlossom(group, name string, h blossom.Handler) error {
	return r.Garden.AddBlossom(group, name, h)
}

// DoesBlossomExist implements does_blossom_exist.
func (r *Runtime) DoesBlossomExist(group, name string) bool {
	return r.Garden.HasBlossom(group, name)
}

// GetBlossom implements get_blossom.
func (r *Runtime) GetBlossom(group, name string) (blossom.Handler, bool) {
	return r.Garden.GetBlossom(group, name)
}

// GetTemplate implements get_template.
func (r *Runtime) GetTemplate(id string) (string, bool) { return r.Garden.GetTemplate(id) }

// GetFile implements get_file.
func (r *Runtime) GetFile(id string) ([]byte, bool) { return r.Garden.GetFile(id) }

// Stats reports Garden population counts, for host observability.
func (r *Runtime) Stats() garden.Stats { return r.Garden.Stats() }

func nativeToScope(m map[string]interface{}) value.Scope {
	out := make(value.Scope, len(m))
	for k, v := range m {
		out[k] = ir.FromNative(v)
	}
	return out
}

func nativeToContext(m map[string]interface{}) map[string]*ir.DataItem {
	out := make(map[string]*ir.DataItem, len(m))
	for k, v := range m {
		out[k] = ir.FromNative(v)
	}
	return out
}

// Package garden implements the Garden registry: the shared lookup for
// trees, resources, templates, files, and blossom handlers.
//
// The source repo carries two generations of SakuraGarden with subtly
// different path-vs-id lookup semantics for trees. This implementation
// exposes exactly one scheme per map: trees and resources are keyed
// canonically by id, with an auxiliary file-path index (root path joined
// with relative path) used only to resolve Subtree references that look
// like file paths. Ownership of a
// registered tree passes to the Garden.
package garden

import (
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/blossom"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/ir"
)

// Garden is the host-facing registry. Registration (add_*) is
// mutex-guarded; reads during execution are lock-free in spirit (the
// RWMutex only ever blocks a reader behind an in-flight writer, and
// registration and execution are logically separate phases).
type Garden struct {
	mu sync.RWMutex

	trees       map[string]*ir.SakuraItem
	treesByPath map[string]string // file path (root path + relative path) -> id

	resources       map[string]*ir.SakuraItem
	resourcesByPath map[string]string

	templates map[string]string
	files     map[string][]byte

	blossoms *blossom.Registry
}

// New creates an empty Garden.
func New() *Garden {
	return &Garden{
		trees:           make(map[string]*ir.SakuraItem),
		treesByPath:     make(map[string]string),
		resources:       make(map[string]*ir.SakuraItem),
		resourcesByPath: make(map[string]string),
		templates:       make(map[string]string),
		files:           make(map[string][]byte),
		blossoms:        blossom.NewRegistry(),
	}
}

// AddTree registers a fully-built, already-validated tree. Re-adding an
// id that already exists fails and is a no-op on Garden state —
// validation itself is the caller's responsibility (see
// internal/validate), since the Garden only owns storage.
func (g *Garden) AddTree(id string, tree *ir.SakuraItem) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.trees[id]; exists {
		return fmt.Errorf("garden: tree %q already registered", id)
	}
	g.trees[id] = tree
	if tree.RelativePath != "" {
		g.treesByPath[normalizePath(tree.RootPath+"/"+tree.RelativePath)] = id
	}
	return nil
}

// AddResource registers an inline tree invoked as a blossom by name.
func (g *Garden) AddResource(id string, tree *ir.SakuraItem) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.resources[id]; exists {
		return fmt.Errorf("garden: resource %q already registered", id)
	}
	g.resources[id] = tree
	if tree.RelativePath != "" {
		g.resourcesByPath[normalizePath(tree.RootPath+"/"+tree.RelativePath)] = id
	}
	return nil
}

// GetTree looks a tree up by id.
func (g *Garden) GetTree(id string) (*ir.SakuraItem, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	t, ok := g.trees[id]
	return t, ok
}

// GetResource looks a resource up by id.
func (g *Garden) GetResource(id string) (*ir.SakuraItem, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	t, ok := g.resources[id]
	return t, ok
}

// looksLikePath reports whether a Subtree.name_or_path value should be
// resolved as a relative path rather than a bare id: the value contains
// a path separator or a file extension.
func looksLikePath(nameOrPath string) bool {
	return strings.ContainsRune(nameOrPath, '/') || path.Ext(nameOrPath) != ""
}

// ResolveSubtree resolves Subtree.name_or_path against the calling
// tree's file_path.
func (g *Garden) ResolveSubtree(callerFilePath, nameOrPath string) (*ir.SakuraItem, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if looksLikePath(nameOrPath) {
		target := normalizePath(path.Join(path.Dir(callerFilePath), nameOrPath))
		if id, ok := g.treesByPath[target]; ok {
			return g.trees[id], nil
		}
		if id, ok := g.resourcesByPath[target]; ok {
			return g.resources[id], nil
		}
		return nil, fmt.Errorf("garden: no subtree at path %q", target)
	}

	if t, ok := g.trees[nameOrPath]; ok {
		return t, nil
	}
	if t, ok := g.resources[nameOrPath]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("garden: no subtree named %q", nameOrPath)
}

// ResourceForBlossomType looks up a resource registered under the same
// id as a blossom-type name. Precedence rule: resource first, blossom
// handler second.
func (g *Garden) ResourceForBlossomType(blossomType string) (*ir.SakuraItem, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	t, ok := g.resources[blossomType]
	return t, ok
}

// AddTemplate registers raw template text under id.
func (g *Garden) AddTemplate(id, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.templates[id] = text
	return nil
}

// GetTemplate retrieves raw template text by id.
func (g *Garden) GetTemplate(id string) (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	t, ok := g.templates[id]
	return t, ok
}

// AddFile registers an opaque byte buffer under id.
func (g *Garden) AddFile(id string, data []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.files[id] = data
	return nil
}

// GetFile retrieves a byte buffer by id.
func (g *Garden) GetFile(id string) ([]byte, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	f, ok := g.files[id]
	return f, ok
}

// AddBlossom registers a handler under (group, name).
func (g *Garden) AddBlossom(group, name string, h blossom.Handler) error {
	return g.blossoms.Add(group, name, h)
}

// GetBlossom retrieves a handler by (group, name).
func (g *Garden) GetBlossom(group, name string) (blossom.Handler, bool) {
	return g.blossoms.Get(group, name)
}

// HasBlossom reports whether a handler is registered for (group, name).
func (g *Garden) HasBlossom(group, name string) bool {
	return g.blossoms.Has(group, name)
}

// Stats is a point-in-time snapshot of Garden population, for host
// observability.
type Stats struct {
	Trees     int
	Resources int
	Templates int
	Files     int
}

// Stats reports how many entries are registered in each map.
func (g *Garden) Stats() Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return Stats{
		Trees:     len(g.trees),
		Resources: len(g.resources),
		Templates: len(g.templates),
		Files:     len(g.files),
	}
}

func normalizePath(p string) string {
	return path.Clean(strings.TrimPrefix(p, "./"))
}

package garden

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/blossom"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/ir"
)

type stubHandler struct{}

func (stubHandler) Fields() []ir.FieldDefinition { return nil }
func (stubHandler) RunTask(ctx context.Context, io *blossom.IO, treeContext map[string]interface{}, status *blossom.Status) (bool, error) {
	return true, nil
}

func TestGarden_AddTree_IsIdempotentlyRejected(t *testing.T) {
	g := New()
	tree := ir.NewTree("main", "/trees", "main.sakura", ir.NewSequential(), nil)

	require.NoError(t, g.AddTree("main", tree))
	err := g.AddTree("main", tree)
	assert.Error(t, err, "re-registering the same id must fail, leaving Garden state untouched")

	got, ok := g.GetTree("main")
	assert.True(t, ok)
	assert.Same(t, tree, got)
}

func TestGarden_ResolveSubtree_ByID(t *testing.T) {
	g := New()
	tree := ir.NewTree("helper", "/trees", "", ir.NewSequential(), nil)
	require.NoError(t, g.AddTree("helper", tree))

	resolved, err := g.ResolveSubtree("/trees/main.sakura", "helper")
	require.NoError(t, err)
	assert.Same(t, tree, resolved)
}

func TestGarden_ResolveSubtree_ByRelativePath(t *testing.T) {
	g := New()
	tree := ir.NewTree("helper", "/trees", "nested/helper.sakura", ir.NewSequential(), nil)
	require.NoError(t, g.AddTree("helper", tree))

	resolved, err := g.ResolveSubtree("/trees/main.sakura", "nested/helper.sakura")
	require.NoError(t, err)
	assert.Same(t, tree, resolved)
}

func TestGarden_ResolveSubtree_Missing(t *testing.T) {
	g := New()
	_, err := g.ResolveSubtree("/trees/main.sakura", "nope")
	assert.Error(t, err)
}

func TestGarden_ResourceForBlossomType_PrecedesHandler(t *testing.T) {
	g := New()
	resource := ir.NewTree("http-request", "/resources", "", ir.NewSequential(), nil)
	require.NoError(t, g.AddResource("http-request", resource))
	require.NoError(t, g.AddBlossom("network", "http-request", stubHandler{}))

	resolved, ok := g.ResourceForBlossomType("http-request")
	assert.True(t, ok)
	assert.Same(t, resource, resolved)

	_, handlerStillRegistered := g.GetBlossom("network", "http-request")
	assert.True(t, handlerStillRegistered, "registering a resource must not evict the handler")
}

func TestGarden_TemplatesAndFiles(t *testing.T) {
	g := New()
	require.NoError(t, g.AddTemplate("greeting", "hello {{ name }}"))
	require.NoError(t, g.AddFile("logo", []byte{1, 2, 3}))

	text, ok := g.GetTemplate("greeting")
	assert.True(t, ok)
	assert.Equal(t, "hello {{ name }}", text)

	data, ok := g.GetFile("logo")
	assert.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, data)
}

func TestGarden_Stats(t *testing.T) {
	g := New()
	require.NoError(t, g.AddTree("t1", ir.NewTree("t1", "/", "", ir.NewSequential(), nil)))
	require.NoError(t, g.AddResource("r1", ir.NewTree("r1", "/", "", ir.NewSequential(), nil)))
	require.NoError(t, g.AddTemplate("tpl", "x"))
	require.NoError(t, g.AddFile("f1", []byte("x")))

	stats := g.Stats()
	assert.Equal(t, Stats{Trees: 1, Resources: 1, Templates: 1, Files: 1}, stats)
}

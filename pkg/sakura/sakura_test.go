package sakura

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/blossom"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/ir"
)

func clearEnv() {
	for _, k := range []string{
		"SAKURA_WORKER_POOL_SIZE",
		"SAKURA_QUEUE_POLL_INTERVAL",
		"SAKURA_LOG_LEVEL",
		"SAKURA_LOG_FORMAT",
	} {
		os.Unsetenv(k)
	}
}

func newTestRuntime(t *testing.T) (*Runtime, context.Context) {
	t.Helper()
	clearEnv()
	rt, err := New(WithWorkerPoolSize(2))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	rt.Start(ctx)
	t.Cleanup(func() {
		rt.Stop()
		cancel()
	})
	return rt, ctx
}

// echoHandler is a pass-through blossom: it copies every input
// straight to an identically named output.
type echoHandler struct {
	fields []ir.FieldDefinition
}

func (h echoHandler) Fields() []ir.FieldDefinition { return h.fields }
func (h echoHandler) RunTask(ctx context.Context, io *blossom.IO, treeContext map[string]interface{}, status *blossom.Status) (bool, error) {
	for k, v := range io.Input {
		io.Output[k] = v
	}
	status.Code = 200
	return true, nil
}

func TestNew_AppliesWorkerPoolSizeOption(t *testing.T) {
	clearEnv()
	rt, err := New(WithWorkerPoolSize(7))
	require.NoError(t, err)
	assert.NotNil(t, rt.Garden)
}

func TestRuntime_AddBlossomAndTriggerBlossom_RoundTripsNativeValues(t *testing.T) {
	rt, ctx := newTestRuntime(t)

	require.NoError(t, rt.AddBlossom("text", "echo", echoHandler{fields: []ir.FieldDefinition{
		{Name: "message", IOType: ir.FieldInput, FieldType: ir.FieldString, Required: true},
		{Name: "message", IOType: ir.FieldOutput, FieldType: ir.FieldString},
	}}))

	result, status, rerr := rt.TriggerBlossom(ctx, "text", "echo", map[string]interface{}{"message": "hi"}, nil)
	require.Nil(t, rerr)
	assert.Equal(t, uint64(200), status.Code)
	assert.Equal(t, "hi", result["message"])
}

func TestRuntime_DoesBlossomExistAndGetBlossom(t *testing.T) {
	rt, _ := newTestRuntime(t)
	assert.False(t, rt.DoesBlossomExist("text", "echo"))

	require.NoError(t, rt.AddBlossom("text", "echo", echoHandler{}))
	assert.True(t, rt.DoesBlossomExist("text", "echo"))

	h, ok := rt.GetBlossom("text", "echo")
	require.True(t, ok)
	assert.NotNil(t, h)
}

func TestRuntime_AddTree_ValidatesBeforeRegistering(t *testing.T) {
	rt, _ := newTestRuntime(t)

	badCall := ir.NewBlossom("missing", "nope", "call", ir.NewValueItemMap())
	tree := ir.NewTree("bad-tree", "/trees", "", ir.NewSequential(badCall), nil)

	rerr := rt.AddTree("bad-tree", tree)
	require.NotNil(t, rerr)

	_, ok := rt.Garden.GetTree("bad-tree")
	assert.False(t, ok, "a tree that fails static validation must not be registered")
}

func TestRuntime_AddTree_UsesDeclaredIDWhenIDArgEmpty(t *testing.T) {
	rt, _ := newTestRuntime(t)

	tree := ir.NewTree("declared-id", "/trees", "", ir.NewSequential(), nil)
	require.Nil(t, rt.AddTree("", tree))

	_, ok := rt.Garden.GetTree("declared-id")
	assert.True(t, ok)
}

func TestRuntime_TriggerTree_RoundTripsThroughNativeAPI(t *testing.T) {
	rt, ctx := newTestRuntime(t)
	require.NoError(t, rt.AddBlossom("math", "identity", echoHandler{fields: []ir.FieldDefinition{
		{Name: "value", IOType: ir.FieldInput, FieldType: ir.FieldInt, Required: true},
		{Name: "value", IOType: ir.FieldOutput, FieldType: ir.FieldInt},
	}}))

	values := ir.NewValueItemMap()
	values.Set("value", ir.NewIdentifierValueItem("value"))
	values.Set("value", ir.NewOutputValueItem("value"))
	call := ir.NewBlossom("math", "identity", "identity-call", values)

	tree := ir.NewTree("identity-tree", "/trees", "", ir.NewSequential(call), nil)
	require.Nil(t, rt.AddTree("identity-tree", tree))

	result, _, rerr := rt.TriggerTree(ctx, "identity-tree", map[string]interface{}{"value": int64(5)}, nil)
	require.Nil(t, rerr)
	assert.Equal(t, int64(5), result["value"])
}

func TestRuntime_AddResource_RegistersUnderGardenResourceIndex(t *testing.T) {
	rt, _ := newTestRuntime(t)
	tree := ir.NewTree("resource-tree", "/resources", "", ir.NewSequential(), nil)
	require.Nil(t, rt.AddResource("resource-tree", tree))

	_, ok := rt.Garden.GetResource("resource-tree")
	assert.True(t, ok)
}

func TestRuntime_AddTemplateAndGetTemplate(t *testing.T) {
	rt, _ := newTestRuntime(t)
	require.NoError(t, rt.AddTemplate("greeting", "hello {{ name }}"))

	text, ok := rt.GetTemplate("greeting")
	require.True(t, ok)
	assert.Equal(t, "hello {{ name }}", text)
}

func TestRuntime_AddFileAndGetFile(t *testing.T) {
	rt, _ := newTestRuntime(t)
	require.NoError(t, rt.AddFile("notes.txt", []byte("hello")))

	buf, ok := rt.GetFile("notes.txt")
	require.True(t, ok)
	assert.Equal(t, []byte("hello"), buf)
}

func TestRuntime_Stats_ReflectsRegisteredPopulation(t *testing.T) {
	rt, _ := newTestRuntime(t)
	tree := ir.NewTree("stats-tree", "/trees", "", ir.NewSequential(), nil)
	require.Nil(t, rt.AddTree("stats-tree", tree))
	require.NoError(t, rt.AddTemplate("greeting", "hi"))

	stats := rt.Stats()
	assert.Equal(t, 1, stats.Trees)
	assert.Equal(t, 1, stats.Templates)
}

package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/ir"
)

func TestApplyPipeline_Get_FromMap(t *testing.T) {
	m := ir.NewMap()
	m.MapSet("name", ir.NewString("sakura"))

	arg := ir.NewLiteralValueItem(ir.NewString("name"))
	result, err := ApplyPipeline(m, []ir.FunctionCall{{Name: "get", Args: []*ir.ValueItem{arg}}}, Scope{}, stubTemplate{})
	require.NoError(t, err)

	v, _ := result.StringVal()
	assert.Equal(t, "sakura", v)
}

func TestApplyPipeline_Get_FromArray_OutOfBounds(t *testing.T) {
	arr := ir.NewArray(ir.NewInt(1), ir.NewInt(2))
	arg := ir.NewLiteralValueItem(ir.NewInt(5))

	_, err := ApplyPipeline(arr, []ir.FunctionCall{{Name: "get", Args: []*ir.ValueItem{arg}}}, Scope{}, stubTemplate{})
	assert.ErrorContains(t, err, "out of bounds")
}

func TestApplyPipeline_Insert_DoesNotMutateInput(t *testing.T) {
	m := ir.NewMap()
	m.MapSet("a", ir.NewInt(1))

	keyArg := ir.NewLiteralValueItem(ir.NewString("b"))
	valArg := ir.NewLiteralValueItem(ir.NewInt(2))

	result, err := ApplyPipeline(m, []ir.FunctionCall{{Name: "insert", Args: []*ir.ValueItem{keyArg, valArg}}}, Scope{}, stubTemplate{})
	require.NoError(t, err)

	original, _ := m.Map()
	assert.False(t, original.Has("b"), "insert must not mutate its input")

	resultMap, _ := result.Map()
	assert.True(t, resultMap.Has("b"))
}

func TestApplyPipeline_Append_DoesNotMutateInput(t *testing.T) {
	arr := ir.NewArray(ir.NewInt(1))
	arg := ir.NewLiteralValueItem(ir.NewInt(2))

	result, err := ApplyPipeline(arr, []ir.FunctionCall{{Name: "append", Args: []*ir.ValueItem{arg}}}, Scope{}, stubTemplate{})
	require.NoError(t, err)

	originalArr, _ := arr.Array()
	assert.Len(t, originalArr, 1)

	resultArr, _ := result.Array()
	assert.Len(t, resultArr, 2)
}

func TestApplyPipeline_Split(t *testing.T) {
	str := ir.NewString("a,b,c")
	arg := ir.NewLiteralValueItem(ir.NewString(","))

	result, err := ApplyPipeline(str, []ir.FunctionCall{{Name: "split", Args: []*ir.ValueItem{arg}}}, Scope{}, stubTemplate{})
	require.NoError(t, err)

	arr, ok := result.Array()
	require.True(t, ok)
	assert.Len(t, arr, 3)
	v, _ := arr[1].StringVal()
	assert.Equal(t, "b", v)
}

func TestApplyPipeline_Size(t *testing.T) {
	result, err := ApplyPipeline(ir.NewArray(ir.NewInt(1), ir.NewInt(2)), []ir.FunctionCall{{Name: "size"}}, Scope{}, stubTemplate{})
	require.NoError(t, err)
	n, _ := result.Int()
	assert.Equal(t, int64(2), n)
}

func TestApplyPipeline_ClearEmpty(t *testing.T) {
	arr := ir.NewArray(ir.NewString("a"), ir.NewString(""), ir.NewString("b"))
	result, err := ApplyPipeline(arr, []ir.FunctionCall{{Name: "clear_empty"}}, Scope{}, stubTemplate{})
	require.NoError(t, err)

	out, _ := result.Array()
	assert.Len(t, out, 2)
}

func TestApplyPipeline_ParseJSON(t *testing.T) {
	str := ir.NewString(`{"a": 1}`)
	result, err := ApplyPipeline(str, []ir.FunctionCall{{Name: "parse_json"}}, Scope{}, stubTemplate{})
	require.NoError(t, err)

	m, ok := result.Map()
	require.True(t, ok)
	assert.True(t, m.Has("a"))
}

func TestApplyPipeline_UnknownFunction(t *testing.T) {
	_, err := ApplyPipeline(ir.NewInt(1), []ir.FunctionCall{{Name: "nope"}}, Scope{}, stubTemplate{})
	assert.ErrorContains(t, err, "unknown function")
}

func TestApplyPipeline_Chained(t *testing.T) {
	str := ir.NewString("a,b,,c")
	delim := ir.NewLiteralValueItem(ir.NewString(","))

	result, err := ApplyPipeline(str, []ir.FunctionCall{
		{Name: "split", Args: []*ir.ValueItem{delim}},
		{Name: "clear_empty"},
		{Name: "size"},
	}, Scope{}, stubTemplate{})
	require.NoError(t, err)

	n, _ := result.Int()
	assert.Equal(t, int64(3), n)
}

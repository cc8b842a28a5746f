package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataItem_Stringify(t *testing.T) {
	assert.Equal(t, "", NewNull().Stringify())
	assert.Equal(t, "true", NewBool(true).Stringify())
	assert.Equal(t, "42", NewInt(42).Stringify())
	assert.Equal(t, "3.5", NewFloat(3.5).Stringify())
	assert.Equal(t, "hi", NewString("hi").Stringify())
	assert.Equal(t, `["a","b"]`, NewArray(NewString("a"), NewString("b")).Stringify())
}

func TestDataItem_Size(t *testing.T) {
	assert.Equal(t, 0, NewNull().Size())
	assert.Equal(t, 1, NewInt(7).Size())
	assert.Equal(t, 3, NewString("abc").Size())
	assert.Equal(t, 2, NewArray(NewInt(1), NewInt(2)).Size())

	m := NewMap()
	m.MapSet("a", NewInt(1))
	m.MapSet("b", NewInt(2))
	assert.Equal(t, 2, m.Size())
}

func TestDataItem_Clone_DeepCopiesNestedStructures(t *testing.T) {
	m := NewMap()
	m.MapSet("list", NewArray(NewInt(1), NewInt(2)))

	clone := m.Clone()
	innerMap, ok := clone.Map()
	require.True(t, ok)
	inner, ok := innerMap.Get("list")
	require.True(t, ok)
	inner.ArrayAppend(NewInt(3))

	originalMap, _ := m.Map()
	originalList, _ := originalMap.Get("list")
	arr, _ := originalList.Array()
	assert.Len(t, arr, 2, "mutating the clone must not affect the original")
}

func TestDataItem_ToNativeAndFromNative_RoundTrip(t *testing.T) {
	m := NewMap()
	m.MapSet("name", NewString("sakura"))
	m.MapSet("count", NewInt(3))
	m.MapSet("tags", NewArray(NewString("a"), NewString("b")))

	native := m.ToNative()
	back := FromNative(native)

	backMap, ok := back.Map()
	require.True(t, ok)
	name, _ := backMap.Get("name")
	nameStr, _ := name.StringVal()
	assert.Equal(t, "sakura", nameStr)

	count, _ := backMap.Get("count")
	countVal, _ := count.Int()
	assert.Equal(t, int64(3), countVal)
}

func TestParseJSON(t *testing.T) {
	item, err := ParseJSON(`{"a": 1, "b": [2, 3]}`)
	require.NoError(t, err)

	m, ok := item.Map()
	require.True(t, ok)
	a, ok := m.Get("a")
	require.True(t, ok)
	av, _ := a.Int()
	assert.Equal(t, int64(1), av)
}

func TestParseJSON_InvalidInput(t *testing.T) {
	_, err := ParseJSON("not json")
	assert.Error(t, err)
}

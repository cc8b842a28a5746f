package templating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Render_NoPlaceholders_ReturnsUnchanged(t *testing.T) {
	e := NewEngine(false)
	out, err := e.Render("plain text", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain text", out)
}

func TestEngine_Render_SimpleIdentifier(t *testing.T) {
	e := NewEngine(false)
	out, err := e.Render("hello {{ name }}", map[string]interface{}{"name": "sakura"})
	require.NoError(t, err)
	assert.Equal(t, "hello sakura", out)
}

func TestEngine_Render_DottedPath(t *testing.T) {
	e := NewEngine(false)
	scope := map[string]interface{}{
		"user": map[string]interface{}{"name": "ada"},
	}
	out, err := e.Render("{{ user.name }}", scope)
	require.NoError(t, err)
	assert.Equal(t, "ada", out)
}

func TestEngine_Render_ArrayIndex(t *testing.T) {
	e := NewEngine(false)
	scope := map[string]interface{}{
		"items": []interface{}{"a", "b", "c"},
	}
	out, err := e.Render("{{ items[1] }}", scope)
	require.NoError(t, err)
	assert.Equal(t, "b", out)
}

func TestEngine_Render_NonStrict_UndefinedBecomesEmpty(t *testing.T) {
	e := NewEngine(false)
	out, err := e.Render("{{ missing }}", map[string]interface{}{})
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestEngine_Render_Strict_UndefinedReturnsError(t *testing.T) {
	e := NewEngine(true)
	_, err := e.Render("{{ missing }}", map[string]interface{}{})
	assert.Error(t, err)
}

func TestEngine_Render_MultiplePlaceholders(t *testing.T) {
	e := NewEngine(false)
	scope := map[string]interface{}{"a": "1", "b": "2"}
	out, err := e.Render("{{ a }}-{{ b }}", scope)
	require.NoError(t, err)
	assert.Equal(t, "1-2", out)
}

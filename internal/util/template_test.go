package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate_FastPathWithoutMarkers(t *testing.T) {
	out, err := RenderTemplate("plain text", map[string]any{"x": 1})
	require.NoError(t, err)
	assert.Equal(t, "plain text", out)
}

func TestRenderTemplate_Substitution(t *testing.T) {
	out, err := RenderTemplate("Hello {{.name}}!", map[string]any{"name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada!", out)
}

func TestRenderTemplate_Helpers(t *testing.T) {
	state := map[string]any{
		"empty": "",
		"items": []string{"a", "b"},
	}

	out, err := RenderTemplate(`{{default "fallback" .empty}}|{{upper "go"}}|{{join ", " .items}}`, state)
	require.NoError(t, err)
	assert.Equal(t, "fallback|GO|a, b", out)

	out, err = RenderTemplate("{{bullet .items}}", state)
	require.NoError(t, err)
	assert.Equal(t, "- a\n- b", out)
}

func TestRenderTemplate_NoHTMLEscaping(t *testing.T) {
	out, err := RenderTemplate("{{.tag}}", map[string]any{"tag": "<text>"})
	require.NoError(t, err)
	assert.Equal(t, "<text>", out)
}

func TestRenderTemplate_ParseError(t *testing.T) {
	_, err := RenderTemplate("{{.unclosed", nil)
	assert.Error(t, err)
}

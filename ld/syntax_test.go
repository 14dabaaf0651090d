package ld

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintContext_SingleLineDefinition(t *testing.T) {
	raw := map[string]interface{}{
		"name": "http://xmlns.com/foaf/0.1/name",
	}

	out, err := PrintContext(raw)
	require.NoError(t, err)
	assert.Equal(t, `{"name": "http://xmlns.com/foaf/0.1/name"}`, out)
}

func TestPrintContext_NullEntry(t *testing.T) {
	out, err := PrintContext(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", out)
}

func TestPrintContext_ArrayOfEntries(t *testing.T) {
	raw := []interface{}{
		map[string]interface{}{"x": "http://ex/x"},
		nil,
	}

	out, err := PrintContext(raw)
	require.NoError(t, err)
	assert.Contains(t, out, `"x": "http://ex/x"`)
	assert.Contains(t, out, "null")
}

func TestPrintContext_RejectsMalformedEntry(t *testing.T) {
	_, err := PrintContext(42)
	require.Error(t, err)

	jsonLDError := new(JsonLdError)
	require.ErrorAs(t, err, &jsonLDError)
	assert.Equal(t, InvalidLocalContext, jsonLDError.Code)
}

func TestParseContextSyntax_ExpandedTermDefinition(t *testing.T) {
	raw := map[string]interface{}{
		"items": map[string]interface{}{
			"@id":        "http://ex/items",
			"@container": "@list",
		},
	}

	parsed, err := ParseContextSyntax(raw)
	require.NoError(t, err)
	require.Len(t, parsed.Entries, 1)

	def := parsed.Entries[0].Definition
	require.NotNil(t, def)

	ts, ok := def.Get("items")
	require.True(t, ok)
	require.Equal(t, TermExpanded, ts.Kind)
	assert.Equal(t, "http://ex/items", *ts.Expanded.ID)
	assert.Equal(t, []string{"@list"}, ts.Expanded.Container)
}

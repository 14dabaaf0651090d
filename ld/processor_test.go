package ld

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonLdProcessor_Expand_MinimalNode(t *testing.T) {
	doc := map[string]interface{}{
		"@context": map[string]interface{}{
			"name": "http://xmlns.com/foaf/0.1/name",
		},
		"@id":  "http://example/a",
		"name": "A",
	}

	proc := NewJsonLdProcessor()
	expanded, err := proc.Expand(doc, NewJsonLdOptions(""))
	require.NoError(t, err)
	require.Len(t, expanded, 1)

	node, ok := expanded[0].AsNode()
	require.True(t, ok)
	require.NotNil(t, node.ID)
	assert.Equal(t, "http://example/a", node.ID.Value)

	values := node.Props.Get(NewIRIIdentifier("http://xmlns.com/foaf/0.1/name"))
	require.Len(t, values, 1)
	value, ok := values[0].AsValue()
	require.True(t, ok)
	assert.Equal(t, "A", value.Raw)
}

func TestJsonLdProcessor_Expand_ListContainer(t *testing.T) {
	doc := map[string]interface{}{
		"@context": map[string]interface{}{
			"items": map[string]interface{}{
				"@id":        "http://ex/items",
				"@container": "@list",
			},
		},
		"items": []interface{}{float64(1), float64(2), float64(3)},
	}

	proc := NewJsonLdProcessor()
	expanded, err := proc.Expand(doc, NewJsonLdOptions(""))
	require.NoError(t, err)
	require.Len(t, expanded, 1)

	node, ok := expanded[0].AsNode()
	require.True(t, ok)

	values := node.Props.Get(NewIRIIdentifier("http://ex/items"))
	require.Len(t, values, 1)

	list, ok := values[0].AsList()
	require.True(t, ok)
	require.Len(t, list.Items, 3)

	for i, want := range []float64{1, 2, 3} {
		v, ok := list.Items[i].AsValue()
		require.True(t, ok)
		assert.Equal(t, want, v.Raw)
	}
}

func TestJsonLdProcessor_Expand_CompactIriProperty(t *testing.T) {
	doc := map[string]interface{}{
		"@context": map[string]interface{}{
			"foaf": "http://xmlns.com/foaf/0.1/",
		},
		"foaf:name": "A",
	}

	proc := NewJsonLdProcessor()
	expanded, err := proc.Expand(doc, NewJsonLdOptions(""))
	require.NoError(t, err)
	require.Len(t, expanded, 1)

	node, ok := expanded[0].AsNode()
	require.True(t, ok)

	values := node.Props.Get(NewIRIIdentifier("http://xmlns.com/foaf/0.1/name"))
	require.Len(t, values, 1)
	v, ok := values[0].AsValue()
	require.True(t, ok)
	assert.Equal(t, "A", v.Raw)
}

func TestJsonLdProcessor_Expand_NullContextClears(t *testing.T) {
	doc := map[string]interface{}{
		"@context": []interface{}{
			map[string]interface{}{"x": "http://ex/x"},
			nil,
			map[string]interface{}{"y": "http://ex/y"},
		},
		"x": "ignored",
		"y": "kept",
	}

	proc := NewJsonLdProcessor()
	expanded, err := proc.Expand(doc, NewJsonLdOptions(""))
	require.NoError(t, err)
	require.Len(t, expanded, 1)

	node, ok := expanded[0].AsNode()
	require.True(t, ok)

	assert.Equal(t, 0, len(node.Props.Get(NewIRIIdentifier("x"))))
	assert.Len(t, node.Props.Get(NewIRIIdentifier("http://ex/y")), 1)
}

func TestJsonLdProcessor_Expand_RemoteContextViaNoLoader(t *testing.T) {
	doc := map[string]interface{}{
		"@context": "http://example/ctx",
		"k":        "v",
	}

	opts := NewJsonLdOptions("")
	opts.DocumentLoader = NoLoader{}

	proc := NewJsonLdProcessor()
	_, err := proc.Expand(doc, opts)
	require.Error(t, err)

	jsonLDError := new(JsonLdError)
	require.ErrorAs(t, err, &jsonLDError)
	assert.Equal(t, LoadingRemoteContextFailed, jsonLDError.Code)
}

func TestJsonLdProcessor_Expand_ProtectedTermRedefinition(t *testing.T) {
	ctx := NewContext(nil, NewJsonLdOptions(""))
	ctx, err := ctx.Parse(map[string]interface{}{
		"@protected": true,
		"t":          "http://ex/t",
	})
	require.NoError(t, err)

	_, err = ctx.Parse(map[string]interface{}{
		"t": "http://ex/u",
	})
	require.Error(t, err)

	jsonLDError := new(JsonLdError)
	require.ErrorAs(t, err, &jsonLDError)
	assert.Equal(t, ProtectedTermRedefinition, jsonLDError.Code)
}

func TestJsonLdProcessor_ExpandCompact_RoundTrip(t *testing.T) {
	doc := map[string]interface{}{
		"@context": map[string]interface{}{
			"name": "http://xmlns.com/foaf/0.1/name",
		},
		"@id":  "http://example/a",
		"name": "A",
	}

	proc := NewJsonLdProcessor()
	options := NewJsonLdOptions("")

	expanded, err := proc.Expand(doc, options)
	require.NoError(t, err)

	context := map[string]interface{}{
		"@context": map[string]interface{}{
			"name": "http://xmlns.com/foaf/0.1/name",
		},
	}

	compacted, err := proc.Compact(expanded, context, options)
	require.NoError(t, err)

	assert.Equal(t, "http://example/a", compacted["@id"])
	assert.Equal(t, "A", compacted["name"])

	reExpanded, err := proc.Expand(compacted, options)
	require.NoError(t, err)
	assert.True(t, expanded.MappedEq(reExpanded, IdentityMapping))
}

func TestJsonLdProcessor_Expand_Idempotent(t *testing.T) {
	doc := map[string]interface{}{
		"@context": map[string]interface{}{
			"name": "http://xmlns.com/foaf/0.1/name",
		},
		"@id":  "http://example/a",
		"name": "A",
	}

	proc := NewJsonLdProcessor()
	options := NewJsonLdOptions("")

	first, err := proc.Expand(doc, options)
	require.NoError(t, err)

	// Re-expanding the already-expanded document (against an empty context,
	// since every IRI in it is already absolute) must yield a MappedEq-identical result: there is
	// no further context to interpret, so expansion is a pass-through that
	// preserves every IRI, value and list already fully resolved.
	dematerialized := Dematerialize(first)
	second, err := proc.expand(dematerialized, NewJsonLdOptions(""))
	require.NoError(t, err)
	secondDoc, err := Materialize(Dematerialize(second))
	require.NoError(t, err)

	assert.True(t, first.MappedEq(secondDoc, IdentityMapping))
}

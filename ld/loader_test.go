package ld

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoLoader_AlwaysFails(t *testing.T) {
	_, err := NoLoader{}.LoadDocument("http://example.org/ctx")
	require.Error(t, err)

	jsonLDError := new(JsonLdError)
	require.ErrorAs(t, err, &jsonLDError)
	assert.Equal(t, LoadingDocumentFailed, jsonLDError.Code)
}

type countingLoader struct {
	calls int
	doc   *RemoteDocument
}

func (l *countingLoader) LoadDocument(u string) (*RemoteDocument, error) {
	l.calls++
	return l.doc, nil
}

func TestCachingDocumentLoader_ServesFromCacheOnSecondCall(t *testing.T) {
	inner := &countingLoader{doc: &RemoteDocument{
		DocumentURL: "http://example.org/ctx",
		Document:    map[string]interface{}{"@context": map[string]interface{}{}},
	}}
	cdl := NewCachingDocumentLoader(inner)

	first, err := cdl.LoadDocument("http://example.org/ctx")
	require.NoError(t, err)
	second, err := cdl.LoadDocument("http://example.org/ctx")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, inner.calls)
}

func TestCachingDocumentLoader_AddDocumentPreloadsCache(t *testing.T) {
	inner := &countingLoader{}
	cdl := NewCachingDocumentLoader(inner)

	doc := map[string]interface{}{"@context": map[string]interface{}{"name": "http://ex/name"}}
	cdl.AddDocument("http://example.org/ctx", doc)

	loaded, err := cdl.LoadDocument("http://example.org/ctx")
	require.NoError(t, err)
	assert.Equal(t, doc, loaded.Document)
	assert.Equal(t, 0, inner.calls)
}

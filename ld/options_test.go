package ld

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJsonLdOptions_Copy(t *testing.T) {
	expected := JsonLdOptions{
		Base:           "base",
		CompactArrays:  true,
		ExpandContext:  map[string]interface{}{"@vocab": "http://example.com/"},
		ProcessingMode: JsonLd_1_1,
		DocumentLoader: NewDefaultDocumentLoader(nil),
		Ordered:        true,
	}
	assert.Equal(t, expected, *expected.Copy())
}

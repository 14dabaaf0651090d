// Copyright 2015-2017 Piprate Limited
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ld

import (
	"strings"
)

// JsonLdProcessor implements the core JSON-LD processing operations: expansion
// and compaction. See http://www.w3.org/TR/json-ld-api/#the-jsonldprocessor-interface
type JsonLdProcessor struct {
}

// NewJsonLdProcessor creates an instance of JsonLdProcessor.
func NewJsonLdProcessor() *JsonLdProcessor {
	return &JsonLdProcessor{}
}

// Expand expands input into a Document according to the Expansion algorithm:
// http://www.w3.org/TR/json-ld-api/#expansion-algorithm
func (jldp *JsonLdProcessor) Expand(input interface{}, opts *JsonLdOptions) (Document, error) {
	if opts == nil {
		opts = NewJsonLdOptions("")
	}

	return jldp.expand(input, opts)
}

// expand is the same algorithm as Expand; it exists separately so tests and
// internal callers can invoke it without Expand's defaulting of nil options.
func (jldp *JsonLdProcessor) expand(input interface{}, opts *JsonLdOptions) (Document, error) {
	var remoteContext string

	// Dereference input if given as an IRI.
	if iri, isString := input.(string); isString && strings.Contains(iri, ":") {
		rd, err := opts.DocumentLoader.LoadDocument(iri)
		if err != nil {
			return nil, err
		}
		if rd.Document == "" {
			return nil, NewJsonLdError(LoadingDocumentFailed, err)
		}
		input = rd.Document
		iri = rd.DocumentURL

		// Only override options.Base if it hasn't already been set.
		if opts.Base == "" {
			opts.Base = iri
		}

		if rd.ContextURL != "" {
			remoteContext = rd.ContextURL
		}
	}

	activeCtx := NewContext(nil, opts)

	if opts.ExpandContext != nil {
		exCtx := opts.ExpandContext
		if exCtxMap, isMap := exCtx.(map[string]interface{}); isMap {
			if ctx, hasCtx := exCtxMap["@context"]; hasCtx {
				exCtx = ctx
			}
		}

		var err error
		activeCtx, err = activeCtx.Parse(exCtx)
		if err != nil {
			return nil, err
		}
	}

	if remoteContext != "" {
		var err error
		if activeCtx, err = activeCtx.Parse(remoteContext); err != nil {
			return nil, err
		}
	}

	api := NewJsonLdApi()
	expanded, err := api.Expand(activeCtx, "", input, opts)
	if err != nil {
		return nil, err
	}

	if expanded == nil {
		return Document{}, nil
	}

	if items, isList := expanded.([]*Indexed); isList {
		return Document(items), nil
	}

	idx := expanded.(*Indexed)
	// an object whose only content is @graph unwraps to its graph's items,
	// matching how a top-level {"@graph": [...]} document expands.
	if n, isNode := idx.AsNode(); isNode && idx.Index == nil && n.ID == nil && len(n.Types) == 0 &&
		n.Props.Len() == 0 && n.Reverse.Len() == 0 && len(n.Included) == 0 && len(n.Graph) > 0 {
		return Document(n.Graph), nil
	}

	return Document{idx}, nil
}

// Compact compacts a Document using the given context according to the steps
// in the Compaction algorithm: http://www.w3.org/TR/json-ld-api/#compaction-algorithm
func (jldp *JsonLdProcessor) Compact(doc Document, context interface{}, opts *JsonLdOptions) (map[string]interface{}, error) {
	if opts == nil {
		opts = NewJsonLdOptions("")
	}

	expanded := []*Indexed(doc)

	contextMap, isMap := context.(map[string]interface{})
	innerCtx, hasCtx := contextMap["@context"]
	if isMap && hasCtx {
		context = innerCtx
	}
	activeCtx := NewContext(nil, opts)
	activeCtx, err := activeCtx.Parse(context)
	if err != nil {
		return nil, err
	}

	api := NewJsonLdApi()
	compacted, err := api.Compact(activeCtx, "", expanded, opts.CompactArrays)
	if err != nil {
		return nil, err
	}

	if compactedList, isList := compacted.([]interface{}); isList {
		if len(compactedList) == 0 {
			compacted = make(map[string]interface{})
		} else {
			compactedIRI, err := activeCtx.CompactIri(NewKeywordIdentifier("@graph"), nil, true, false)
			if err != nil {
				return nil, err
			}
			compacted = map[string]interface{}{
				compactedIRI: compacted,
			}
		}
	}

	contextMap, _ = context.(map[string]interface{})
	contextList, _ := context.([]interface{})
	contextIsNotEmpty := len(contextMap) > 0 || len(contextList) > 0
	if compactedMap, isMap := compacted.(map[string]interface{}); contextIsNotEmpty && isMap {
		compactedMap["@context"] = context
	}

	return compacted.(map[string]interface{}), nil
}

// JsonLdApi groups the stateless expansion/compaction algorithm methods.
// It carries no state of its own; operations thread the active context and
// options explicitly instead.
type JsonLdApi struct { //nolint:stylecheck
}

// NewJsonLdApi creates an instance of JsonLdApi.
func NewJsonLdApi() *JsonLdApi { //nolint:stylecheck
	return &JsonLdApi{}
}

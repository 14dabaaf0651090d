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

import "strings"

// IdentifierKind classifies an Identifier as an absolute IRI, a blank node
// label, or an invalid string kept only for diagnostics.
type IdentifierKind int

const (
	// IRIIdentifier is a resolved, absolute IRI.
	IRIIdentifier IdentifierKind = iota
	// BlankIdentifier is a blank-node label, locally scoped to a document.
	BlankIdentifier
	// InvalidIdentifier is a string that failed IRI parsing but is retained
	// so that callers can still report where the failure occurred.
	InvalidIdentifier
	// KeywordIdentifier is a JSON-LD keyword ("@id", "@type", "@reverse", ...).
	// Keywords never resolve to an IRI and are never subject to base/vocab
	// resolution, so they're kept distinct from InvalidIdentifier.
	KeywordIdentifier
)

// BlankNodePrefix is the sentinel every blank-node label starts with.
const BlankNodePrefix = "_:"

// Identifier is a node or property identity: an absolute IRI, a blank-node
// label, or an invalid string retained for error reporting.
//
// Two identifiers compare equal with Equal iff their kind and value match
// exactly. MappedEq additionally lets blank-node labels compare equal under
// a caller-supplied renaming; see Document.MappedEq.
type Identifier struct {
	Kind  IdentifierKind
	Value string
}

// NewIRIIdentifier wraps an absolute IRI string.
func NewIRIIdentifier(iri string) Identifier {
	return Identifier{Kind: IRIIdentifier, Value: iri}
}

// NewBlankIdentifier wraps a blank-node label. The label is expected to carry
// the "_:" sentinel; callers that only have the bare suffix should prepend it.
func NewBlankIdentifier(label string) Identifier {
	if !strings.HasPrefix(label, BlankNodePrefix) {
		label = BlankNodePrefix + label
	}
	return Identifier{Kind: BlankIdentifier, Value: label}
}

// NewInvalidIdentifier wraps a string that could not be resolved to an IRI.
func NewInvalidIdentifier(value string) Identifier {
	return Identifier{Kind: InvalidIdentifier, Value: value}
}

// NewKeywordIdentifier wraps a JSON-LD keyword, e.g. "@id" or "@reverse".
func NewKeywordIdentifier(keyword string) Identifier {
	return Identifier{Kind: KeywordIdentifier, Value: keyword}
}

// ParseIdentifier classifies a raw string as produced by the expansion
// algorithm's IRI resolution: a JSON-LD keyword stays a keyword, any
// "_:"-prefixed string is a blank node, an absolute IRI is an IRI, and
// anything else is an InvalidIdentifier.
func ParseIdentifier(raw string) Identifier {
	if IsKeyword(raw) {
		return Identifier{Kind: KeywordIdentifier, Value: raw}
	}
	if strings.HasPrefix(raw, BlankNodePrefix) {
		return Identifier{Kind: BlankIdentifier, Value: raw}
	}
	if !IsAbsoluteIri(raw) {
		return Identifier{Kind: InvalidIdentifier, Value: raw}
	}
	return Identifier{Kind: IRIIdentifier, Value: raw}
}

// IsIRI reports whether the identifier is a resolved, absolute IRI.
func (id Identifier) IsIRI() bool { return id.Kind == IRIIdentifier }

// IsBlank reports whether the identifier is a blank-node label.
func (id Identifier) IsBlank() bool { return id.Kind == BlankIdentifier }

// IsInvalid reports whether the identifier failed IRI parsing.
func (id Identifier) IsInvalid() bool { return id.Kind == InvalidIdentifier }

// IsKeyword reports whether the identifier is a JSON-LD keyword.
func (id Identifier) IsKeyword() bool { return id.Kind == KeywordIdentifier }

func (id Identifier) String() string { return id.Value }

// Equal is strict structural equality: blank-node labels must match exactly.
func (id Identifier) Equal(other Identifier) bool {
	return id.Kind == other.Kind && id.Value == other.Value
}

// MappedEq is structural equality except blank-node identities are compared
// after applying f to this identifier's label. f is only ever called for
// blank nodes; non-blank identifiers always compare with Equal.
func (id Identifier) MappedEq(other Identifier, f func(string) string) bool {
	if id.Kind != other.Kind {
		return false
	}
	if id.Kind == BlankIdentifier {
		return f(id.Value) == other.Value
	}
	return id.Value == other.Value
}

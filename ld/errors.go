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
	"fmt"
)

// ErrorCode is a JSON-LD error code as per spec.
type ErrorCode string

// JsonLdError is a JSON-LD error as defined in the spec.
// See the allowed values and error messages below.
type JsonLdError struct {
	Code    ErrorCode
	Details interface{}
}

const (
	// Loader errors (§7: propagated unchanged from the loader).
	LoadingDocumentFailed      ErrorCode = "loading document failed"
	MultipleContextLinkHeaders ErrorCode = "multiple context link headers"

	// Context processing errors (§4.3). These are fatal for the document.
	InvalidLocalContext        ErrorCode = "invalid local context"
	InvalidContextEntry        ErrorCode = "invalid context entry"
	InvalidContextNullification ErrorCode = "invalid context nullification"
	LoadingRemoteContextFailed ErrorCode = "loading remote context failed"
	InvalidRemoteContext       ErrorCode = "invalid remote context"
	RecursiveContextInclusion  ErrorCode = "recursive context inclusion"
	InvalidBaseIRI             ErrorCode = "invalid base IRI"
	InvalidVocabMapping        ErrorCode = "invalid vocab mapping"
	InvalidDefaultLanguage     ErrorCode = "invalid default language"
	InvalidBaseDirection       ErrorCode = "invalid base direction"
	InvalidPropagateValue      ErrorCode = "invalid @propagate value"
	InvalidImportValue         ErrorCode = "invalid @import value"
	KeywordRedefinition        ErrorCode = "keyword redefinition"
	InvalidTermDefinition      ErrorCode = "invalid term definition"
	InvalidReverseProperty     ErrorCode = "invalid reverse property"
	InvalidIRIMapping          ErrorCode = "invalid IRI mapping"
	CyclicIRIMapping           ErrorCode = "cyclic IRI mapping"
	ProtectedTermRedefinition  ErrorCode = "protected term redefinition"
	InvalidKeywordAlias        ErrorCode = "invalid keyword alias"
	InvalidTypeMapping         ErrorCode = "invalid type mapping"
	InvalidLanguageMapping     ErrorCode = "invalid language mapping"
	InvalidContainerMapping    ErrorCode = "invalid container mapping"
	InvalidVersionValue        ErrorCode = "invalid @version value"
	ProcessingModeConflict     ErrorCode = "processing mode conflict"
	InvalidPrefixValue         ErrorCode = "invalid @prefix value"
	InvalidNestValue           ErrorCode = "invalid @nest value"

	// Document errors (§7). Raised during expansion.
	ListOfLists                 ErrorCode = "list of lists"
	InvalidIndexValue           ErrorCode = "invalid @index value"
	ConflictingIndexes          ErrorCode = "conflicting indexes"
	InvalidIDValue              ErrorCode = "invalid @id value"
	CollidingKeywords           ErrorCode = "colliding keywords"
	InvalidTypeValue            ErrorCode = "invalid type value"
	InvalidValueObject          ErrorCode = "invalid value object"
	InvalidValueObjectValue     ErrorCode = "invalid value object value"
	InvalidLanguageTaggedString ErrorCode = "invalid language-tagged string"
	InvalidLanguageTaggedValue  ErrorCode = "invalid language-tagged value"
	InvalidTypedValue           ErrorCode = "invalid typed value"
	InvalidSetOrListObject      ErrorCode = "invalid set or list object"
	InvalidLanguageMapValue     ErrorCode = "invalid language map value"
	InvalidIncludedValue        ErrorCode = "invalid @included value"
	InvalidReversePropertyMap   ErrorCode = "invalid reverse property map"
	InvalidReverseValue         ErrorCode = "invalid @reverse value"
	InvalidReversePropertyValue ErrorCode = "invalid reverse property value"

	// Compaction-specific errors (§4.5).
	CompactionToListOfLists ErrorCode = "compaction to list of lists"
	IRIConfusedWithPrefix   ErrorCode = "IRI confused with prefix"

	// Non-normative, implementation-level errors.
	SyntaxError    ErrorCode = "syntax error"
	NotImplemented ErrorCode = "not implemented"
	UnknownFormat  ErrorCode = "unknown format"
	InvalidInput   ErrorCode = "invalid input"
	ParseError     ErrorCode = "parse error"
	IOError        ErrorCode = "io error"
	UnknownError   ErrorCode = "unknown error"
)

func (e JsonLdError) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%v: %v", e.Code, e.Details)
	}
	return fmt.Sprintf("%v", e.Code)
}

// Unwrap exposes Details as the wrapped error when it is one, so that
// errors.Is/errors.As can see through a JsonLdError to the loader or
// low-level failure that caused it.
func (e JsonLdError) Unwrap() error {
	if err, ok := e.Details.(error); ok {
		return err
	}
	return nil
}

// NewJsonLdError creates a new instance of JsonLdError.
func NewJsonLdError(code ErrorCode, details interface{}) *JsonLdError {
	return &JsonLdError{Code: code, Details: details}
}

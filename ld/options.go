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

const (
	JsonLd_1_0 = "json-ld-1.0" //nolint:stylecheck
	JsonLd_1_1 = "json-ld-1.1" //nolint:stylecheck
)

// JsonLdOptions controls expansion and compaction, mirroring the JsonLdOptions
// type from the JSON-LD API specification, trimmed to the options that affect
// the core algorithms (expansion, compaction, context processing).
// http://www.w3.org/TR/json-ld-api/#the-jsonldoptions-type
type JsonLdOptions struct { //nolint:stylecheck

	// http://www.w3.org/TR/json-ld-api/#widl-JsonLdOptions-base
	Base string
	// http://www.w3.org/TR/json-ld-api/#widl-JsonLdOptions-compactArrays
	CompactArrays bool
	// http://www.w3.org/TR/json-ld-api/#widl-JsonLdOptions-expandContext
	ExpandContext interface{}
	// http://www.w3.org/TR/json-ld-api/#widl-JsonLdOptions-processingMode
	ProcessingMode string
	// http://www.w3.org/TR/json-ld-api/#widl-JsonLdOptions-documentLoader
	DocumentLoader DocumentLoader

	// Ordered is carried by Copy but not read by expansion or compaction:
	// both always visit map keys in lexicographic order (GetOrderedKeys),
	// whatever its value.
	Ordered bool
}

// NewJsonLdOptions creates and returns new instance of JsonLdOptions with the given base.
func NewJsonLdOptions(base string) *JsonLdOptions { //nolint:stylecheck
	return &JsonLdOptions{
		Base:           base,
		CompactArrays:  true,
		ProcessingMode: JsonLd_1_1,
		DocumentLoader: NewDefaultDocumentLoader(nil),
		Ordered:        false,
	}
}

// Copy creates a shallow copy of JsonLdOptions object; ExpandContext and
// DocumentLoader are shared with the original.
func (opt *JsonLdOptions) Copy() *JsonLdOptions {
	return &JsonLdOptions{
		Base:           opt.Base,
		CompactArrays:  opt.CompactArrays,
		ExpandContext:  opt.ExpandContext,
		ProcessingMode: opt.ProcessingMode,
		DocumentLoader: opt.DocumentLoader,
		Ordered:        opt.Ordered,
	}
}

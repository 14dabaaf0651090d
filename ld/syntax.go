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
	"encoding/json"
	"fmt"
	"strings"
)

// syntax.go models a @context value as it appears in source JSON, before
// any processing against an existing active context. The processor
// (context.go) works directly off the parsed generic JSON for @context
// entries, same as it always has; ContextSyntax exists as a typed view of
// that same surface syntax for tooling that wants to inspect or re-print a
// context without running it through the processor (e.g. the Printer
// below).

// ContextSyntaxKind distinguishes the three shapes a single @context entry
// may take.
type ContextSyntaxKind int

const (
	SyntaxNull ContextSyntaxKind = iota
	SyntaxIRIRef
	SyntaxDefinition
)

// ContextSyntax is one entry of a local context: null, an IRI reference, or
// a term-definition object.
type ContextSyntax struct {
	Kind       ContextSyntaxKind
	IRIRef     string
	Definition *Definition
}

// ContextSyntaxValue is the full @context value: either a single entry or
// an array of entries, processed left to right.
type ContextSyntaxValue struct {
	Entries []ContextSyntax
}

// NullableString distinguishes an explicit JSON null from a key that was
// never present: Defined is false when the key is absent; when Defined is
// true, Null indicates the value was exactly `null`.
type NullableString struct {
	Defined bool
	Null    bool
	Value   string
}

// ExpandedTermDefinition is the syntax-level (pre-processing) view of a term
// definition object: entries map 1:1 onto the allowed JSON keys.
type ExpandedTermDefinition struct {
	ID        *string
	Type      *string
	Context   *ContextSyntaxValue
	Reverse   *string
	Index     *string
	Language  NullableString
	Direction NullableString
	Container []string
	Nest      *string
	Prefix    *bool
	Propagate *bool
	Protected *bool
}

// TermSyntaxKind distinguishes the three shapes a term's value may take in
// a definition object.
type TermSyntaxKind int

const (
	TermNull TermSyntaxKind = iota
	TermSimple
	TermExpanded
)

// TermSyntax is the raw, unprocessed value bound to one term in a
// definition object.
type TermSyntax struct {
	Kind     TermSyntaxKind
	Simple   string
	Expanded *ExpandedTermDefinition
}

// Definition is a term-definition object: an ordered map from term string
// to TermSyntax, preserving insertion order for deterministic printing
// (ParseContextSyntax inserts terms in lexicographic order).
type Definition struct {
	keys   []string
	values map[string]TermSyntax
}

// NewDefinition creates an empty, ordered term-definition object.
func NewDefinition() *Definition {
	return &Definition{values: make(map[string]TermSyntax)}
}

// Set records term -> value, registering term in insertion order the first
// time it is seen.
func (d *Definition) Set(term string, value TermSyntax) {
	if _, ok := d.values[term]; !ok {
		d.keys = append(d.keys, term)
	}
	d.values[term] = value
}

// Keys returns the defined terms in insertion order.
func (d *Definition) Keys() []string { return d.keys }

// Get returns the value bound to term.
func (d *Definition) Get(term string) (TermSyntax, bool) {
	v, ok := d.values[term]
	return v, ok
}

// ParseContextSyntax converts a raw, already-parsed @context JSON value
// (string, nil, map[string]interface{}, or []interface{} of the former)
// into its typed surface-syntax representation.
func ParseContextSyntax(raw interface{}) (*ContextSyntaxValue, error) {
	if arr, ok := raw.([]interface{}); ok {
		entries := make([]ContextSyntax, 0, len(arr))
		for _, item := range arr {
			entry, err := parseContextEntry(item)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		}
		return &ContextSyntaxValue{Entries: entries}, nil
	}
	entry, err := parseContextEntry(raw)
	if err != nil {
		return nil, err
	}
	return &ContextSyntaxValue{Entries: []ContextSyntax{entry}}, nil
}

func parseContextEntry(raw interface{}) (ContextSyntax, error) {
	switch v := raw.(type) {
	case nil:
		return ContextSyntax{Kind: SyntaxNull}, nil
	case string:
		return ContextSyntax{Kind: SyntaxIRIRef, IRIRef: v}, nil
	case map[string]interface{}:
		def, err := parseDefinition(v)
		if err != nil {
			return ContextSyntax{}, err
		}
		return ContextSyntax{Kind: SyntaxDefinition, Definition: def}, nil
	default:
		return ContextSyntax{}, NewJsonLdError(InvalidLocalContext, raw)
	}
}

func parseDefinition(m map[string]interface{}) (*Definition, error) {
	def := NewDefinition()
	for _, key := range GetOrderedKeys(m) {
		ts, err := parseTermSyntax(m[key])
		if err != nil {
			return nil, err
		}
		def.Set(key, ts)
	}
	return def, nil
}

func parseTermSyntax(raw interface{}) (TermSyntax, error) {
	switch v := raw.(type) {
	case nil:
		return TermSyntax{Kind: TermNull}, nil
	case string:
		return TermSyntax{Kind: TermSimple, Simple: v}, nil
	case map[string]interface{}:
		expanded := &ExpandedTermDefinition{}
		if id, ok := v["@id"].(string); ok {
			expanded.ID = &id
		}
		if typ, ok := v["@type"].(string); ok {
			expanded.Type = &typ
		}
		if ctx, hasCtx := v["@context"]; hasCtx {
			parsed, err := ParseContextSyntax(ctx)
			if err != nil {
				return TermSyntax{}, err
			}
			expanded.Context = parsed
		}
		if rev, ok := v["@reverse"].(string); ok {
			expanded.Reverse = &rev
		}
		if idx, ok := v["@index"].(string); ok {
			expanded.Index = &idx
		}
		expanded.Language = parseNullableString(v, "@language")
		expanded.Direction = parseNullableString(v, "@direction")
		if cont, hasCont := v["@container"]; hasCont {
			for _, c := range Arrayify(cont) {
				if cs, ok := c.(string); ok {
					expanded.Container = append(expanded.Container, cs)
				}
			}
		}
		if nest, ok := v["@nest"].(string); ok {
			expanded.Nest = &nest
		}
		if prefix, hasPrefix := v["@prefix"]; hasPrefix {
			b, _ := prefix.(bool)
			expanded.Prefix = &b
		}
		if prop, hasProp := v["@propagate"]; hasProp {
			b, _ := prop.(bool)
			expanded.Propagate = &b
		}
		if prot, hasProt := v["@protected"]; hasProt {
			b, _ := prot.(bool)
			expanded.Protected = &b
		}
		return TermSyntax{Kind: TermExpanded, Expanded: expanded}, nil
	default:
		return TermSyntax{}, NewJsonLdError(InvalidTermDefinition, raw)
	}
}

func parseNullableString(m map[string]interface{}, key string) NullableString {
	raw, present := m[key]
	if !present {
		return NullableString{}
	}
	if raw == nil {
		return NullableString{Defined: true, Null: true}
	}
	s, _ := raw.(string)
	return NullableString{Defined: true, Value: s}
}

// Size is the precomputed inline width, in bytes, of a printed array or
// object, as if it were emitted on a single line. The printer consults it
// to decide between single-line and multi-line emission without having to
// re-measure subtrees during the print pass.
type Size int

// Printer deterministically re-serialises a ContextSyntaxValue as JSON.
// Emission runs in two passes: precomputeValue walks the tree once,
// recording one Size per array/object in document order; Print walks the
// same tree a second time, consuming those sizes through a monotonically
// increasing index to decide, at each array/object, whether it fits on one
// line.
type Printer struct {
	// MaxWidth is the inline width above which an array or object is
	// broken across multiple lines.
	MaxWidth int
	// Indent is the string used for one level of indentation when an
	// array or object breaks across multiple lines.
	Indent string
}

// NewPrinter returns a Printer with conventional defaults (80 columns, two
// spaces of indent).
func NewPrinter() *Printer {
	return &Printer{MaxWidth: 80, Indent: "  "}
}

// Print renders value as deterministic JSON text.
func (p *Printer) Print(value *ContextSyntaxValue) string {
	sizes := make([]Size, 0)
	p.precomputeValue(value, &sizes)
	index := 0
	var sb strings.Builder
	p.printValue(&sb, value, 0, sizes, &index)
	return sb.String()
}

// PrintContext parses a raw @context value, exactly as it appears in source
// JSON (string, nil, object, or array of the former), and re-serialises it
// deterministically using the default Printer. This gives callers a
// canonical, diff-friendly rendering of a context definition independent of
// how its author formatted it, without running it through the context
// processor.
func PrintContext(raw interface{}) (string, error) {
	parsed, err := ParseContextSyntax(raw)
	if err != nil {
		return "", err
	}
	return NewPrinter().Print(parsed), nil
}

func (p *Printer) precomputeValue(value *ContextSyntaxValue, sizes *[]Size) Size {
	if len(value.Entries) == 1 {
		return p.precomputeEntry(&value.Entries[0], sizes)
	}
	total := Size(2) // "[]"
	for i, e := range value.Entries {
		if i > 0 {
			total += 2 // ", "
		}
		total += p.precomputeEntry(&e, sizes)
	}
	*sizes = append(*sizes, total)
	return total
}

func (p *Printer) precomputeEntry(e *ContextSyntax, sizes *[]Size) Size {
	switch e.Kind {
	case SyntaxNull:
		return Size(4)
	case SyntaxIRIRef:
		b, _ := json.Marshal(e.IRIRef)
		return Size(len(b))
	default:
		return p.precomputeDefinition(e.Definition, sizes)
	}
}

func (p *Printer) precomputeDefinition(d *Definition, sizes *[]Size) Size {
	total := Size(2) // "{}"
	for i, k := range d.Keys() {
		if i > 0 {
			total += 2
		}
		kb, _ := json.Marshal(k)
		total += Size(len(kb)) + 2 // "key":
		v, _ := d.Get(k)
		total += p.precomputeTerm(&v, sizes)
	}
	*sizes = append(*sizes, total)
	return total
}

func (p *Printer) precomputeTerm(t *TermSyntax, sizes *[]Size) Size {
	switch t.Kind {
	case TermNull:
		return Size(4)
	case TermSimple:
		b, _ := json.Marshal(t.Simple)
		return Size(len(b))
	default:
		return p.precomputeExpanded(t.Expanded, sizes)
	}
}

func (p *Printer) precomputeExpanded(e *ExpandedTermDefinition, sizes *[]Size) Size {
	total := Size(2)
	n := 0
	add := func(keySize int, valSize Size) {
		if n > 0 {
			total += 2
		}
		total += Size(keySize) + 2 + valSize
		n++
	}
	if e.ID != nil {
		b, _ := json.Marshal(*e.ID)
		add(len(`"@id"`), Size(len(b)))
	}
	if e.Type != nil {
		b, _ := json.Marshal(*e.Type)
		add(len(`"@type"`), Size(len(b)))
	}
	if e.Context != nil {
		add(len(`"@context"`), p.precomputeValue(e.Context, sizes))
	}
	if e.Reverse != nil {
		b, _ := json.Marshal(*e.Reverse)
		add(len(`"@reverse"`), Size(len(b)))
	}
	if e.Index != nil {
		b, _ := json.Marshal(*e.Index)
		add(len(`"@index"`), Size(len(b)))
	}
	if e.Language.Defined {
		add(len(`"@language"`), nullableSize(e.Language))
	}
	if e.Direction.Defined {
		add(len(`"@direction"`), nullableSize(e.Direction))
	}
	if len(e.Container) > 0 {
		size := Size(2)
		for i, c := range e.Container {
			if i > 0 {
				size += 2
			}
			b, _ := json.Marshal(c)
			size += Size(len(b))
		}
		add(len(`"@container"`), size)
	}
	if e.Nest != nil {
		b, _ := json.Marshal(*e.Nest)
		add(len(`"@nest"`), Size(len(b)))
	}
	if e.Prefix != nil {
		add(len(`"@prefix"`), boolSize(*e.Prefix))
	}
	if e.Propagate != nil {
		add(len(`"@propagate"`), boolSize(*e.Propagate))
	}
	if e.Protected != nil {
		add(len(`"@protected"`), boolSize(*e.Protected))
	}
	*sizes = append(*sizes, total)
	return total
}

func nullableSize(ns NullableString) Size {
	if ns.Null {
		return Size(4)
	}
	b, _ := json.Marshal(ns.Value)
	return Size(len(b))
}

func boolSize(b bool) Size {
	if b {
		return Size(4)
	}
	return Size(5)
}

func (p *Printer) printValue(sb *strings.Builder, value *ContextSyntaxValue, indent int, sizes []Size, index *int) {
	if len(value.Entries) == 1 {
		p.printEntry(sb, &value.Entries[0], indent, sizes, index)
		return
	}
	size := sizes[*index]
	*index++
	if int(size) <= p.MaxWidth {
		sb.WriteByte('[')
		for i := range value.Entries {
			if i > 0 {
				sb.WriteString(", ")
			}
			p.printEntry(sb, &value.Entries[i], indent, sizes, index)
		}
		sb.WriteByte(']')
		return
	}
	sb.WriteString("[\n")
	for i := range value.Entries {
		sb.WriteString(strings.Repeat(p.Indent, indent+1))
		p.printEntry(sb, &value.Entries[i], indent+1, sizes, index)
		if i < len(value.Entries)-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(strings.Repeat(p.Indent, indent))
	sb.WriteByte(']')
}

func (p *Printer) printEntry(sb *strings.Builder, e *ContextSyntax, indent int, sizes []Size, index *int) {
	switch e.Kind {
	case SyntaxNull:
		sb.WriteString("null")
	case SyntaxIRIRef:
		b, _ := json.Marshal(e.IRIRef)
		sb.Write(b)
	default:
		p.printDefinition(sb, e.Definition, indent, sizes, index)
	}
}

func (p *Printer) printDefinition(sb *strings.Builder, d *Definition, indent int, sizes []Size, index *int) {
	size := sizes[*index]
	*index++
	keys := d.Keys()
	if len(keys) == 0 {
		sb.WriteString("{}")
		return
	}
	if int(size) <= p.MaxWidth {
		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			kb, _ := json.Marshal(k)
			sb.Write(kb)
			sb.WriteString(": ")
			v, _ := d.Get(k)
			p.printTerm(sb, &v, indent, sizes, index)
		}
		sb.WriteByte('}')
		return
	}
	sb.WriteString("{\n")
	for i, k := range keys {
		sb.WriteString(strings.Repeat(p.Indent, indent+1))
		kb, _ := json.Marshal(k)
		sb.Write(kb)
		sb.WriteString(": ")
		v, _ := d.Get(k)
		p.printTerm(sb, &v, indent+1, sizes, index)
		if i < len(keys)-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(strings.Repeat(p.Indent, indent))
	sb.WriteByte('}')
}

func (p *Printer) printTerm(sb *strings.Builder, t *TermSyntax, indent int, sizes []Size, index *int) {
	switch t.Kind {
	case TermNull:
		sb.WriteString("null")
	case TermSimple:
		b, _ := json.Marshal(t.Simple)
		sb.Write(b)
	default:
		p.printExpanded(sb, t.Expanded, indent, sizes, index)
	}
}

func (p *Printer) printExpanded(sb *strings.Builder, e *ExpandedTermDefinition, indent int, sizes []Size, index *int) {
	size := sizes[*index]
	*index++

	type field struct {
		key string
		val func()
	}
	var fields []field
	if e.ID != nil {
		id := *e.ID
		fields = append(fields, field{"@id", func() { writeJSONString(sb, id) }})
	}
	if e.Type != nil {
		t := *e.Type
		fields = append(fields, field{"@type", func() { writeJSONString(sb, t) }})
	}
	if e.Context != nil {
		ctx := e.Context
		fields = append(fields, field{"@context", func() { p.printValue(sb, ctx, indent+1, sizes, index) }})
	}
	if e.Reverse != nil {
		r := *e.Reverse
		fields = append(fields, field{"@reverse", func() { writeJSONString(sb, r) }})
	}
	if e.Index != nil {
		i := *e.Index
		fields = append(fields, field{"@index", func() { writeJSONString(sb, i) }})
	}
	if e.Language.Defined {
		lang := e.Language
		fields = append(fields, field{"@language", func() { writeNullable(sb, lang) }})
	}
	if e.Direction.Defined {
		dir := e.Direction
		fields = append(fields, field{"@direction", func() { writeNullable(sb, dir) }})
	}
	if len(e.Container) > 0 {
		cont := e.Container
		fields = append(fields, field{"@container", func() { writeStringArray(sb, cont) }})
	}
	if e.Nest != nil {
		n := *e.Nest
		fields = append(fields, field{"@nest", func() { writeJSONString(sb, n) }})
	}
	if e.Prefix != nil {
		b := *e.Prefix
		fields = append(fields, field{"@prefix", func() { fmt.Fprintf(sb, "%v", b) }})
	}
	if e.Propagate != nil {
		b := *e.Propagate
		fields = append(fields, field{"@propagate", func() { fmt.Fprintf(sb, "%v", b) }})
	}
	if e.Protected != nil {
		b := *e.Protected
		fields = append(fields, field{"@protected", func() { fmt.Fprintf(sb, "%v", b) }})
	}

	if int(size) <= p.MaxWidth {
		sb.WriteByte('{')
		for i, f := range fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeJSONString(sb, f.key)
			sb.WriteString(": ")
			f.val()
		}
		sb.WriteByte('}')
		return
	}
	sb.WriteString("{\n")
	for i, f := range fields {
		sb.WriteString(strings.Repeat(p.Indent, indent+1))
		writeJSONString(sb, f.key)
		sb.WriteString(": ")
		f.val()
		if i < len(fields)-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(strings.Repeat(p.Indent, indent))
	sb.WriteByte('}')
}

func writeJSONString(sb *strings.Builder, s string) {
	b, _ := json.Marshal(s)
	sb.Write(b)
}

func writeNullable(sb *strings.Builder, ns NullableString) {
	if ns.Null {
		sb.WriteString("null")
		return
	}
	writeJSONString(sb, ns.Value)
}

func writeStringArray(sb *strings.Builder, values []string) {
	sb.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeJSONString(sb, v)
	}
	sb.WriteByte(']')
}

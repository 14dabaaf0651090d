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

// Object is the sum type every expanded entity belongs to: a Value, a Node
// or a List. It has no methods of its own; type-switch on the concrete type
// (or use AsValue/AsNode/AsList) to inspect one.
type Object interface {
	objectMarker()
}

// Value is a literal leaf: a JSON scalar plus optional type, language and
// text direction. A nil Raw represents an explicit @value: null, which
// expansion drops before it ever reaches a Document.
type Value struct {
	Raw       interface{}
	Type      *Identifier
	Language  *string
	Direction *string
}

func (*Value) objectMarker() {}

// Equal compares two values ignoring any wrapping Indexed metadata: all
// components (raw scalar, type, language, direction) must coincide.
func (v *Value) Equal(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	if !rawScalarEqual(v.Raw, other.Raw) {
		return false
	}
	if !identPtrEqual(v.Type, other.Type) {
		return false
	}
	if !strPtrEqual(v.Language, other.Language) {
		return false
	}
	return strPtrEqual(v.Direction, other.Direction)
}

func rawScalarEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	af, aIsFloat := a.(float64)
	bf, bIsFloat := b.(float64)
	if aIsFloat && bIsFloat {
		return af == bf
	}
	return a == b
}

func identPtrEqual(a, b *Identifier) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Node is a graph subject: an optional id, an optional set of types, a
// properties mapping (in insertion order for determinism), optional
// reverse-properties, an optional embedded graph and an optional included
// set.
type Node struct {
	ID       *Identifier
	Types    []Identifier
	Props    *PropertySet
	Reverse  *PropertySet
	Graph    []*Indexed
	Included []*Indexed
}

func (*Node) objectMarker() {}

// PropertySet is an ordered, insertion-order-preserving multimap from
// property identifiers to the sequence of indexed objects found under that
// property. Order of properties matches the order they were first
// encountered during expansion; order of values under one property matches
// source order.
type PropertySet struct {
	keys   []Identifier
	values map[string][]*Indexed
}

// NewPropertySet creates an empty property set.
func NewPropertySet() *PropertySet {
	return &PropertySet{values: make(map[string][]*Indexed)}
}

// Add appends value under property, registering property in iteration order
// the first time it is seen.
func (ps *PropertySet) Add(property Identifier, value *Indexed) {
	key := property.Value
	if _, ok := ps.values[key]; !ok {
		ps.keys = append(ps.keys, property)
	}
	ps.values[key] = append(ps.values[key], value)
}

// Keys returns the properties in insertion order.
func (ps *PropertySet) Keys() []Identifier {
	if ps == nil {
		return nil
	}
	return ps.keys
}

// Get returns the values recorded under property.
func (ps *PropertySet) Get(property Identifier) []*Indexed {
	if ps == nil {
		return nil
	}
	return ps.values[property.Value]
}

// Len returns the number of distinct properties recorded.
func (ps *PropertySet) Len() int {
	if ps == nil {
		return 0
	}
	return len(ps.keys)
}

// List is an ordered sequence of indexed objects, carrying an optional type.
// JSON-LD's @list container never nests directly inside another list's
// value positions; the expansion algorithm rejects that shape before a List
// is ever constructed (see ListOfLists).
type List struct {
	Items []*Indexed
	Type  *Identifier
}

func (*List) objectMarker() {}

// Indexed pairs an Object with its optional @index annotation.
type Indexed struct {
	Object Object
	Index  *string
}

// Document is the result of expansion: an unordered set of indexed objects.
// Equivalence between two documents is defined by MappedEq, never by Go's
// == or slice order.
type Document []*Indexed

// AsValue type-asserts obj.Object as *Value, returning ok=false otherwise.
func (obj *Indexed) AsValue() (*Value, bool) {
	v, ok := obj.Object.(*Value)
	return v, ok
}

// AsNode type-asserts obj.Object as *Node, returning ok=false otherwise.
func (obj *Indexed) AsNode() (*Node, bool) {
	n, ok := obj.Object.(*Node)
	return n, ok
}

// AsList type-asserts obj.Object as *List, returning ok=false otherwise.
func (obj *Indexed) AsList() (*List, bool) {
	l, ok := obj.Object.(*List)
	return l, ok
}

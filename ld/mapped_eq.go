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

// BlankNodeMapping renames a blank-node label. mapped_eq never infers this
// function; callers that want semantic (canonicalisation-aware) equivalence
// compute one externally and pass it in. IdentityMapping below yields exact
// structural equality.
type BlankNodeMapping func(label string) string

// IdentityMapping is the trivial BlankNodeMapping: f(x) = x. Passing it to
// MappedEq reduces mapped-equality to exact structural equality; the @index
// of each indexed wrapper is compared as part of that structure.
func IdentityMapping(label string) string { return label }

// MappedEq reports whether d and other are structurally equal up to the
// blank-node renaming f.
//
// Two documents are equal iff they have the same cardinality and there is a
// one-to-one pairing between their indexed objects such that every pair is
// mappedEqIndexed. Property-value sets, type sets and graph sets are
// unordered: matching is done by greedy search, which is sufficient because
// f is supplied by the caller rather than inferred from the two documents.
func (d Document) MappedEq(other Document, f BlankNodeMapping) bool {
	return unorderedIndexedEq(d, other, f)
}

func mappedEqIndexed(a, b *Indexed, f BlankNodeMapping) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !strPtrEqual(a.Index, b.Index) {
		return false
	}
	return mappedEqObject(a.Object, b.Object, f)
}

func mappedEqObject(a, b Object, f BlankNodeMapping) bool {
	switch av := a.(type) {
	case *Value:
		bv, ok := b.(*Value)
		return ok && av.Equal(bv)
	case *Node:
		bn, ok := b.(*Node)
		return ok && mappedEqNode(av, bn, f)
	case *List:
		bl, ok := b.(*List)
		return ok && mappedEqList(av, bl, f)
	default:
		return false
	}
}

func mappedEqList(a, b *List, f BlankNodeMapping) bool {
	if !identPtrMappedEq(a.Type, b.Type, f) {
		return false
	}
	if len(a.Items) != len(b.Items) {
		return false
	}
	for i := range a.Items {
		if !mappedEqIndexed(a.Items[i], b.Items[i], f) {
			return false
		}
	}
	return true
}

func mappedEqNode(a, b *Node, f BlankNodeMapping) bool {
	if !identPtrMappedEq(a.ID, b.ID, f) {
		return false
	}
	if !unorderedIdentEq(a.Types, b.Types, f) {
		return false
	}
	if !mappedEqPropertySet(a.Props, b.Props, f) {
		return false
	}
	if !mappedEqPropertySet(a.Reverse, b.Reverse, f) {
		return false
	}
	if !unorderedIndexedEq(a.Graph, b.Graph, f) {
		return false
	}
	return unorderedIndexedEq(a.Included, b.Included, f)
}

func identPtrMappedEq(a, b *Identifier, f BlankNodeMapping) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.MappedEq(*b, f)
}

// unorderedIdentEq performs greedy unordered matching over identifier sets
// (e.g. @type). Marking selected elements as used, with no backtracking, is
// sufficient because f is fixed ahead of time rather than solved for.
func unorderedIdentEq(a, b []Identifier, f BlankNodeMapping) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
outer:
	for _, ai := range a {
		for i, bi := range b {
			if !used[i] && ai.MappedEq(bi, f) {
				used[i] = true
				continue outer
			}
		}
		return false
	}
	return true
}

// unorderedIndexedEq performs greedy unordered matching over sets of
// indexed objects (property values, graph entries, included entries, and
// whole documents).
func unorderedIndexedEq(a, b []*Indexed, f BlankNodeMapping) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
outer:
	for _, ai := range a {
		for i, bi := range b {
			if !used[i] && mappedEqIndexed(ai, bi, f) {
				used[i] = true
				continue outer
			}
		}
		return false
	}
	return true
}

// mappedEqPropertySet compares two property multimaps disregarding
// property order: each (property, value-set) pair in a must find a
// distinct, mapped-equal counterpart in b.
func mappedEqPropertySet(a, b *PropertySet, f BlankNodeMapping) bool {
	if a.Len() != b.Len() {
		return false
	}
	if a.Len() == 0 {
		return true
	}
	bKeys := b.Keys()
	used := make([]bool, len(bKeys))
outer:
	for _, prop := range a.Keys() {
		aValues := a.Get(prop)
		for i, bProp := range bKeys {
			if used[i] {
				continue
			}
			if !prop.MappedEq(bProp, f) {
				continue
			}
			if unorderedIndexedEq(aValues, b.Get(bProp), f) {
				used[i] = true
				continue outer
			}
		}
		return false
	}
	return true
}

package ld

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocument_MappedEq_IdentityIsStructuralEquality(t *testing.T) {
	a := Document{
		{Object: &Node{
			ID: identPtr(NewIRIIdentifier("http://example/a")),
			Props: propSet(
				NewIRIIdentifier("http://ex/name"),
				&Indexed{Object: &Value{Raw: "A"}},
			),
		}},
	}
	b := Document{
		{Object: &Node{
			ID: identPtr(NewIRIIdentifier("http://example/a")),
			Props: propSet(
				NewIRIIdentifier("http://ex/name"),
				&Indexed{Object: &Value{Raw: "A"}},
			),
		}},
	}

	assert.True(t, a.MappedEq(b, IdentityMapping))
}

func TestDocument_MappedEq_BlankNodeIsolation(t *testing.T) {
	a := Document{
		{Object: &Node{ID: identPtr(NewBlankIdentifier("_:b0"))}},
	}
	b := Document{
		{Object: &Node{ID: identPtr(NewBlankIdentifier("_:b1"))}},
	}

	// Two independent blank node labels must not be confused under the
	// identity mapping.
	assert.False(t, a.MappedEq(b, IdentityMapping))

	// A caller-supplied renaming that maps b0 to b1 brings them into
	// agreement.
	rename := func(label string) string {
		if label == "_:b0" {
			return "_:b1"
		}
		return label
	}
	assert.True(t, a.MappedEq(b, rename))
}

func TestDocument_MappedEq_PropertySetIsUnordered(t *testing.T) {
	a := Document{
		{Object: &Node{
			ID: identPtr(NewIRIIdentifier("http://example/a")),
			Props: propSet2(
				NewIRIIdentifier("http://ex/p1"), &Indexed{Object: &Value{Raw: "1"}},
				NewIRIIdentifier("http://ex/p2"), &Indexed{Object: &Value{Raw: "2"}},
			),
		}},
	}
	b := Document{
		{Object: &Node{
			ID: identPtr(NewIRIIdentifier("http://example/a")),
			Props: propSet2(
				NewIRIIdentifier("http://ex/p2"), &Indexed{Object: &Value{Raw: "2"}},
				NewIRIIdentifier("http://ex/p1"), &Indexed{Object: &Value{Raw: "1"}},
			),
		}},
	}

	assert.True(t, a.MappedEq(b, IdentityMapping))
}

func TestDocument_MappedEq_ListIsOrdered(t *testing.T) {
	a := Document{
		{Object: &List{Items: []*Indexed{
			{Object: &Value{Raw: float64(1)}},
			{Object: &Value{Raw: float64(2)}},
		}}},
	}
	b := Document{
		{Object: &List{Items: []*Indexed{
			{Object: &Value{Raw: float64(2)}},
			{Object: &Value{Raw: float64(1)}},
		}}},
	}

	assert.False(t, a.MappedEq(b, IdentityMapping))
}

func identPtr(id Identifier) *Identifier { return &id }

func propSet(prop Identifier, value *Indexed) *PropertySet {
	ps := NewPropertySet()
	ps.Add(prop, value)
	return ps
}

func propSet2(p1 Identifier, v1 *Indexed, p2 Identifier, v2 *Indexed) *PropertySet {
	ps := NewPropertySet()
	ps.Add(p1, v1)
	ps.Add(p2, v2)
	return ps
}

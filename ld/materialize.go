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

// materialize.go and dematerialize.go convert between a Document and the
// plain JSON tree (nested map[string]interface{}/[]interface{}) that
// interoperates with encoding/json and with JSON-LD tooling outside this
// package's typed object model. JsonLdApi.Expand/Compact no longer go
// through either conversion internally; they're public utilities for
// callers who received or need to produce a raw expanded-JSON-LD document.

// Materialize converts a raw expanded JSON-LD tree (as produced by, say,
// json.Unmarshal over a document already in expanded form) into a Document.
func Materialize(expanded interface{}) (Document, error) {
	items := Arrayify(expanded)
	doc := make(Document, 0, len(items))
	for _, item := range items {
		idx, err := materializeIndexed(item)
		if err != nil {
			return nil, err
		}
		if idx != nil {
			doc = append(doc, idx)
		}
	}
	return doc, nil
}

func materializeIndexed(raw interface{}) (*Indexed, error) {
	m, isMap := raw.(map[string]interface{})
	if !isMap {
		// A bare node reference or scalar slipped through free-floating-node
		// pruning; expansion guarantees every top-level item is a map, but
		// nested list entries are handled uniformly through this function
		// too, so tolerate a bare @id string as a node reference.
		if idStr, ok := raw.(string); ok {
			id := ParseIdentifier(idStr)
			return &Indexed{Object: &Node{ID: &id}}, nil
		}
		return nil, NewJsonLdError(InvalidInput, raw)
	}

	var index *string
	if idxVal, ok := m["@index"]; ok {
		if s, ok := idxVal.(string); ok {
			index = &s
		}
	}

	if _, hasValue := m["@value"]; hasValue {
		v, err := materializeValue(m)
		if err != nil {
			return nil, err
		}
		return &Indexed{Object: v, Index: index}, nil
	}

	if listVal, hasList := m["@list"]; hasList {
		l, err := materializeList(m, listVal)
		if err != nil {
			return nil, err
		}
		return &Indexed{Object: l, Index: index}, nil
	}

	n, err := materializeNode(m)
	if err != nil {
		return nil, err
	}
	return &Indexed{Object: n, Index: index}, nil
}

func materializeValue(m map[string]interface{}) (*Value, error) {
	v := &Value{Raw: m["@value"]}
	if typeVal, ok := m["@type"].(string); ok {
		id := ParseIdentifier(typeVal)
		v.Type = &id
	}
	if langVal, ok := m["@language"].(string); ok {
		lang := langVal
		v.Language = &lang
	}
	if dirVal, ok := m["@direction"].(string); ok {
		dir := dirVal
		v.Direction = &dir
	}
	return v, nil
}

func materializeList(m map[string]interface{}, listVal interface{}) (*List, error) {
	items := Arrayify(listVal)
	l := &List{Items: make([]*Indexed, 0, len(items))}
	for _, item := range items {
		idx, err := materializeIndexed(item)
		if err != nil {
			return nil, err
		}
		l.Items = append(l.Items, idx)
	}
	if typeVal, ok := m["@type"].(string); ok {
		id := ParseIdentifier(typeVal)
		l.Type = &id
	}
	return l, nil
}

func materializeNode(m map[string]interface{}) (*Node, error) {
	n := &Node{}

	if idVal, ok := m["@id"].(string); ok {
		id := ParseIdentifier(idVal)
		n.ID = &id
	}

	if typesVal, ok := m["@type"]; ok {
		for _, t := range Arrayify(typesVal) {
			if tStr, ok := t.(string); ok {
				n.Types = append(n.Types, ParseIdentifier(tStr))
			}
		}
	}

	if graphVal, ok := m["@graph"]; ok {
		for _, item := range Arrayify(graphVal) {
			idx, err := materializeIndexed(item)
			if err != nil {
				return nil, err
			}
			n.Graph = append(n.Graph, idx)
		}
	}

	if incVal, ok := m["@included"]; ok {
		for _, item := range Arrayify(incVal) {
			idx, err := materializeIndexed(item)
			if err != nil {
				return nil, err
			}
			n.Included = append(n.Included, idx)
		}
	}

	if revVal, ok := m["@reverse"].(map[string]interface{}); ok {
		n.Reverse = NewPropertySet()
		for _, key := range GetOrderedKeys(revVal) {
			prop := ParseIdentifier(key)
			for _, item := range Arrayify(revVal[key]) {
				idx, err := materializeIndexed(item)
				if err != nil {
					return nil, err
				}
				n.Reverse.Add(prop, idx)
			}
		}
	}

	n.Props = NewPropertySet()
	for _, key := range GetOrderedKeys(m) {
		switch key {
		case "@id", "@type", "@index", "@graph", "@included", "@reverse":
			continue
		}
		prop := ParseIdentifier(key)
		for _, item := range Arrayify(m[key]) {
			idx, err := materializeIndexed(item)
			if err != nil {
				return nil, err
			}
			n.Props.Add(prop, idx)
		}
	}

	return n, nil
}

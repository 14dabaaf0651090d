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

// Dematerialize converts a Document back into a raw expanded JSON-LD tree
// suitable for json.Marshal, the inverse of Materialize.
func Dematerialize(doc Document) []interface{} {
	out := make([]interface{}, 0, len(doc))
	for _, idx := range doc {
		out = append(out, dematerializeIndexed(idx))
	}
	return out
}

func dematerializeIndexed(idx *Indexed) interface{} {
	if idx == nil {
		return nil
	}
	var m map[string]interface{}
	switch o := idx.Object.(type) {
	case *Value:
		m = dematerializeValue(o)
	case *List:
		m = dematerializeList(o)
	case *Node:
		m = dematerializeNode(o)
	default:
		return nil
	}
	if idx.Index != nil {
		m["@index"] = *idx.Index
	}
	return m
}

func dematerializeValue(v *Value) map[string]interface{} {
	m := map[string]interface{}{"@value": v.Raw}
	if v.Type != nil {
		m["@type"] = v.Type.Value
	}
	if v.Language != nil {
		m["@language"] = *v.Language
	}
	if v.Direction != nil {
		m["@direction"] = *v.Direction
	}
	return m
}

func dematerializeList(l *List) map[string]interface{} {
	items := make([]interface{}, 0, len(l.Items))
	for _, item := range l.Items {
		items = append(items, dematerializeIndexed(item))
	}
	m := map[string]interface{}{"@list": items}
	if l.Type != nil {
		m["@type"] = l.Type.Value
	}
	return m
}

func dematerializeNode(n *Node) map[string]interface{} {
	m := make(map[string]interface{})
	if n.ID != nil {
		m["@id"] = n.ID.Value
	}
	if len(n.Types) > 0 {
		types := make([]interface{}, 0, len(n.Types))
		for _, t := range n.Types {
			types = append(types, t.Value)
		}
		m["@type"] = types
	}
	for _, prop := range n.Props.Keys() {
		values := n.Props.Get(prop)
		items := make([]interface{}, 0, len(values))
		for _, v := range values {
			items = append(items, dematerializeIndexed(v))
		}
		m[prop.Value] = items
	}
	if n.Reverse.Len() > 0 {
		reverse := make(map[string]interface{})
		for _, prop := range n.Reverse.Keys() {
			values := n.Reverse.Get(prop)
			items := make([]interface{}, 0, len(values))
			for _, v := range values {
				items = append(items, dematerializeIndexed(v))
			}
			reverse[prop.Value] = items
		}
		m["@reverse"] = reverse
	}
	if len(n.Graph) > 0 {
		items := make([]interface{}, 0, len(n.Graph))
		for _, v := range n.Graph {
			items = append(items, dematerializeIndexed(v))
		}
		m["@graph"] = items
	}
	if len(n.Included) > 0 {
		items := make([]interface{}, 0, len(n.Included))
		for _, v := range n.Included {
			items = append(items, dematerializeIndexed(v))
		}
		m["@included"] = items
	}
	return m
}

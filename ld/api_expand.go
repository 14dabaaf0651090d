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
	"sort"
	"strings"
)

// expandAccum accumulates the keyword and property entries expandObject
// collects for a single source object, mirroring the generic result map of
// the JSON-LD expansion algorithm but typed: each keyword gets its own field
// instead of a string-keyed map entry, and ordinary properties land in a
// PropertySet. Expand reads the accumulated fields back out to decide which
// concrete Object (Value, List or Node) the source object expands to.
type expandAccum struct {
	valueSet bool
	value    interface{}

	typeValSet bool
	valueType  *Identifier

	languageSet bool
	language    *string

	directionSet bool
	direction    *string

	indexSet bool
	index    *string

	listSet bool
	list    []*Indexed

	setSet bool
	set    []*Indexed

	idSet bool
	id    *Identifier

	typesSet bool
	types    []Identifier

	graphSet bool
	graph    []*Indexed

	includedSet bool
	included    []*Indexed

	reverseSet bool
	reverse    *PropertySet

	props *PropertySet
}

// keywordSet reports whether kw has already been recorded on this
// accumulator, the typed equivalent of the algorithm's "already exists in
// result" collision check (7.4.2). @nest and @default are excluded: the
// algorithm never stores them under their own keyword, so aliasing to
// either one can never collide.
func (a *expandAccum) keywordSet(kw string) bool {
	switch kw {
	case "@id":
		return a.idSet
	case "@type":
		return a.typesSet
	case "@graph":
		return a.graphSet
	case "@value":
		return a.valueSet
	case "@language":
		return a.languageSet
	case "@direction":
		return a.directionSet
	case "@index":
		return a.indexSet
	case "@list":
		return a.listSet
	case "@set":
		return a.setSet
	case "@reverse":
		return a.reverseSet
	case "@included":
		return a.includedSet
	default:
		return false
	}
}

func (a *expandAccum) addProp(property Identifier, value *Indexed) {
	if a.props == nil {
		a.props = NewPropertySet()
	}
	a.props.Add(property, value)
}

func (a *expandAccum) addReverse(property Identifier, value *Indexed) {
	a.reverseSet = true
	if a.reverse == nil {
		a.reverse = NewPropertySet()
	}
	a.reverse.Add(property, value)
}

// keyCount mirrors len(resultMap): the number of distinct top-level keyword
// entries recorded, plus one for every distinct ordinary property.
func (a *expandAccum) keyCount() int {
	n := 0
	for _, set := range []bool{
		a.valueSet, a.typeValSet, a.languageSet, a.directionSet, a.indexSet,
		a.listSet, a.setSet, a.idSet, a.typesSet, a.graphSet, a.includedSet, a.reverseSet,
	} {
		if set {
			n++
		}
	}
	return n + a.props.Len()
}

func asIndexedSlice(v interface{}) []*Indexed {
	switch ev := v.(type) {
	case []*Indexed:
		return ev
	case *Indexed:
		if ev == nil {
			return nil
		}
		return []*Indexed{ev}
	default:
		return nil
	}
}

// isPlainIndexedList reports whether v is itself a raw []*Indexed (as opposed
// to a single node/value/list wrapped in one), i.e. whether it came from the
// array branch of Expand rather than the map branch.
func isPlainIndexedList(v interface{}) bool {
	_, ok := v.([]*Indexed)
	return ok
}

// isListShaped reports whether v is a single Indexed wrapping a *List, the
// shape a map-form "@list": {...} source object expands to.
func isListShaped(v interface{}) bool {
	idx, ok := v.(*Indexed)
	if !ok {
		return false
	}
	_, isList := idx.AsList()
	return isList
}

func isGraphIndexed(idx *Indexed) bool {
	n, ok := idx.AsNode()
	return ok && len(n.Graph) > 0
}

// Expand operation expands the given input according to the steps in the Expansion algorithm:
//
// http://www.w3.org/TR/json-ld-api/#expansion-algorithm
//
// The generic JSON tree produced by a JSON decoder is expanded into the
// typed Object model (Value/Node/List, wrapped in Indexed): the return value
// is nil, a *Indexed, or a []*Indexed, matching the shape of element.
// Returns an error if there was an error during expansion.
func (api *JsonLdApi) Expand(activeCtx *Context, activeProperty string, element interface{}, opts *JsonLdOptions) (interface{}, error) {

	// frame expansion (json-ld-1.1-expand-frame processing mode) is out of
	// scope for this processor; kept as a constant false so the branches
	// below that depend on it still read like the normative algorithm.
	const frameExpansion = false
	// 1)
	if element == nil {
		return nil, nil
	}

	// 3)
	switch elem := element.(type) {
	case []interface{}:
		// 3.1)
		resultList := make([]*Indexed, 0)
		// 3.2)
		for _, item := range elem {
			// 3.2.1)
			v, err := api.Expand(activeCtx, activeProperty, item, opts)
			if err != nil {
				return nil, err
			}
			// 3.2.2)
			if activeProperty == "@list" || activeCtx.HasContainerMapping(activeProperty, "@list") {
				if isPlainIndexedList(v) || isListShaped(v) {
					return nil, NewJsonLdError(ListOfLists, "lists of lists are not permitted.")
				}
			}
			// 3.2.3)
			resultList = append(resultList, asIndexedSlice(v)...)
		}
		// 3.3)
		return resultList, nil

	case map[string]interface{}:

		// 4)
		// 5)
		if ctx, hasContext := elem["@context"]; hasContext {
			newCtx, err := activeCtx.Parse(ctx)
			if err != nil {
				return nil, err
			}
			activeCtx = newCtx
		}

		// look for scoped context on @type
		for _, key := range GetOrderedKeys(elem) {
			value := elem[key]
			expandedProperty, err := activeCtx.ExpandIri(key, false, true, nil, nil)
			if err != nil {
				return nil, err
			}
			if expandedProperty.Value == "@type" {
				// set scoped contexts from @type
				types := make([]string, 0)
				for _, t := range Arrayify(value) {
					if typeStr, isString := t.(string); isString {
						types = append(types, typeStr)
					}
					// process in lexicographical order, see https://github.com/json-ld/json-ld.org/issues/616
					sort.Strings(types)
					for _, tt := range types {
						td := activeCtx.GetTermDefinition(tt)
						if ctx, hasCtx := td["@context"]; hasCtx {
							newCtx, err := activeCtx.Parse(ctx)
							if err != nil {
								return nil, err
							}
							activeCtx = newCtx
						}
					}
				}
			}
		}

		expandedActiveProperty, err := activeCtx.ExpandIri(activeProperty, false, true, nil, nil)
		if err != nil {
			return nil, err
		}

		accum := &expandAccum{}
		if err := api.expandObject(activeCtx, activeProperty, expandedActiveProperty.Value, elem, accum, opts, frameExpansion); err != nil {
			return nil, err
		}

		// 8)
		if accum.valueSet {
			// 8.1)
			allowed := 1
			if accum.indexSet {
				allowed++
			}
			if accum.languageSet {
				allowed++
			}
			if accum.directionSet {
				allowed++
			}
			if accum.typeValSet {
				allowed++
			}
			if accum.keyCount() != allowed {
				return nil, NewJsonLdError(InvalidValueObject, "value object has unknown keys")
			}
			if accum.languageSet && accum.typeValSet {
				return nil, NewJsonLdError(InvalidValueObject,
					"an element containing @value may not contain both @type and @language")
			}
			// 8.2)
			if accum.value == nil {
				// nothing else is possible with result if we set it to
				// null, so simply return it
				return nil, nil
			}
			// 8.3)
			if accum.languageSet {
				for _, v := range Arrayify(accum.value) {
					if _, isString := v.(string); !isString {
						return nil, NewJsonLdError(InvalidLanguageTaggedValue,
							"only strings may be language-tagged")
					}
				}
			} else if accum.typeValSet {
				vStr := accum.valueType.Value
				if !IsAbsoluteIri(vStr) || strings.HasPrefix(vStr, "_:") {
					return nil, NewJsonLdError(InvalidTypedValue,
						"an element containing @value and @type must have an absolute IRI for the value of @type")
				}
			}

			if activeProperty == "" || activeProperty == "@graph" {
				// free-floating values are pruned at the top level/inside @graph
				return nil, nil
			}

			return &Indexed{
				Object: &Value{Raw: accum.value, Type: accum.valueType, Language: accum.language, Direction: accum.direction},
				Index:  accum.index,
			}, nil
		}

		// 9) types are already accumulated as a slice; nothing to coerce

		// 10)
		if accum.setSet || accum.listSet {
			maxSize := 1
			if accum.indexSet {
				maxSize = 2
			}
			if accum.keyCount() > maxSize {
				return nil, NewJsonLdError(InvalidSetOrListObject, "@set or @list may only contain @index")
			}
			if accum.setSet {
				// result becomes an array here, thus the remaining checks
				// will never be true from here on; simply return the set's
				// items rather than wrap them in a node/value object.
				return accum.set, nil
			}
			if activeProperty == "" || activeProperty == "@graph" {
				return nil, nil
			}
			return &Indexed{Object: &List{Items: accum.list}, Index: accum.index}, nil
		}

		// 11) a bare @language entry with nothing else is degenerate
		if accum.languageSet && accum.keyCount() == 1 {
			return nil, nil
		}

		// 12)
		if activeProperty == "" || activeProperty == "@graph" {
			if accum.keyCount() == 0 {
				return nil, nil
			}
			if !frameExpansion && accum.idSet && accum.keyCount() == 1 {
				return nil, nil
			}
		}

		// 13)
		props := accum.props
		if props == nil {
			props = NewPropertySet()
		}
		return &Indexed{
			Object: &Node{
				ID:       accum.id,
				Types:    accum.types,
				Props:    props,
				Reverse:  accum.reverse,
				Graph:    accum.graph,
				Included: accum.included,
			},
			Index: accum.index,
		}, nil
	default:
		// 2) If element is a scalar
		// 2.1)
		if activeProperty == "" || activeProperty == "@graph" {
			return nil, nil
		}
		return activeCtx.ExpandValue(activeProperty, element)
	}
}

func (api *JsonLdApi) expandObject(activeCtx *Context, activeProperty string, expandedActiveProperty string, elem map[string]interface{}, accum *expandAccum, opts *JsonLdOptions, frameExpansion bool) error {
	// 6)
	nests := make([]string, 0)
	// 7)
	for _, key := range GetOrderedKeys(elem) {
		value := elem[key]
		// 7.1)
		if key == "@context" {
			continue
		}
		// 7.2)
		expandedProperty, err := activeCtx.ExpandIri(key, false, true, nil, nil)
		if err != nil {
			return err
		}
		// 7.3)
		if expandedProperty.Value == "" || (!strings.Contains(expandedProperty.Value, ":") && !expandedProperty.IsKeyword()) {
			continue
		}
		// 7.4)
		if expandedProperty.IsKeyword() {
			// 7.4.1)
			if expandedActiveProperty == "@reverse" {
				return NewJsonLdError(InvalidReversePropertyMap,
					"a keyword cannot be used as a @reverse property")
			}
			// 7.4.2)
			if accum.keywordSet(expandedProperty.Value) {
				return NewJsonLdError(CollidingKeywords, expandedProperty.Value+" already exists in result")
			}

			switch expandedProperty.Value {
			case "@id": // 7.4.3)
				if valueStr, isString := value.(string); isString {
					id, err := activeCtx.ExpandIri(valueStr, true, false, nil, nil)
					if err != nil {
						return err
					}
					accum.id = &id
				} else {
					return NewJsonLdError(InvalidIDValue, "value of @id must be a string")
				}
				accum.idSet = true

			case "@type": // 7.4.4)
				switch v := value.(type) {
				case []interface{}:
					for _, listElem := range v {
						listElemStr, isString := listElem.(string)
						if !isString {
							return NewJsonLdError(InvalidTypeValue,
								"@type value must be a string or array of strings")
						}
						newVal, err := activeCtx.ExpandIri(listElemStr, true, true, nil, nil)
						if err != nil {
							return err
						}
						accum.types = append(accum.types, newVal)
					}
				case string:
					newVal, err := activeCtx.ExpandIri(v, true, true, nil, nil)
					if err != nil {
						return err
					}
					accum.types = append(accum.types, newVal)
				default:
					return NewJsonLdError(InvalidTypeValue, "@type value must be a string or array of strings")
				}
				accum.typesSet = true

			case "@graph": // 7.4.5)
				expandedValue, err := api.Expand(activeCtx, "@graph", value, opts)
				if err != nil {
					return err
				}
				accum.graph = asIndexedSlice(expandedValue)
				accum.graphSet = true

			case "@value": // 7.4.6)
				_, isMap := value.(map[string]interface{})
				_, isList := value.([]interface{})
				if value != nil && (isMap || isList) {
					return NewJsonLdError(InvalidValueObjectValue, "value of @value must be a scalar or null")
				}
				accum.value = value
				accum.valueSet = true

			case "@language": // 7.4.7)
				vStr, isString := value.(string)
				if !isString {
					return NewJsonLdError(InvalidLanguageTaggedString, "@language value must be a string")
				}
				lang := strings.ToLower(vStr)
				accum.language = &lang
				accum.languageSet = true

			case "@direction": // supplements the original algorithm, which
				// never assigned a base-direction keyword to value objects
				// despite the context and materialization layers already
				// carrying Value.Direction end to end.
				dirStr, isString := value.(string)
				if !isString || (dirStr != "ltr" && dirStr != "rtl") {
					return NewJsonLdError(InvalidBaseDirection, "@direction value must be 'ltr' or 'rtl'")
				}
				accum.direction = &dirStr
				accum.directionSet = true

			case "@index": // 7.4.8)
				idxStr, isString := value.(string)
				if !isString {
					return NewJsonLdError(InvalidIndexValue, "Value of @index must be a string")
				}
				accum.index = &idxStr
				accum.indexSet = true

			case "@list": // 7.4.9)
				// 7.4.9.1)
				if activeProperty == "" || activeProperty == "@graph" {
					continue
				}
				// 7.4.9.2)
				expandedValue, _ := api.Expand(activeCtx, activeProperty, value, opts)
				items := asIndexedSlice(expandedValue)
				// 7.4.9.3)
				for _, o := range items {
					if _, isList := o.AsList(); isList {
						return NewJsonLdError(ListOfLists, "A list may not contain another list")
					}
				}
				accum.list = items
				accum.listSet = true

			case "@set": // 7.4.10)
				expandedValue, err := api.Expand(activeCtx, activeProperty, value, opts)
				if err != nil {
					return err
				}
				accum.set = asIndexedSlice(expandedValue)
				accum.setSet = true

			case "@reverse": // 7.4.11)
				if _, isMap := value.(map[string]interface{}); !isMap {
					return NewJsonLdError(InvalidReverseValue, "@reverse value must be an object")
				}
				// 7.4.11.1)
				expandedValue, err := api.Expand(activeCtx, "@reverse", value, opts)
				if err != nil {
					return err
				}
				reverseIndexed, _ := expandedValue.(*Indexed)
				var reverseNode *Node
				if reverseIndexed != nil {
					reverseNode, _ = reverseIndexed.AsNode()
				}
				// 7.4.11.2): a @reverse nested inside our @reverse cancels
				// out, landing back among our own forward properties.
				if reverseNode != nil && reverseNode.Reverse.Len() > 0 {
					for _, prop := range reverseNode.Reverse.Keys() {
						for _, item := range reverseNode.Reverse.Get(prop) {
							accum.addProp(prop, item)
						}
					}
				}
				// 7.4.11.3): everything else the @reverse block expanded to
				// becomes one of our reverse properties.
				if reverseNode != nil && reverseNode.Props.Len() > 0 {
					for _, prop := range reverseNode.Props.Keys() {
						for _, item := range reverseNode.Props.Get(prop) {
							if _, isVal := item.AsValue(); isVal {
								return NewJsonLdError(InvalidReversePropertyValue, nil)
							}
							if _, isList := item.AsList(); isList {
								return NewJsonLdError(InvalidReversePropertyValue, nil)
							}
							accum.addReverse(prop, item)
						}
					}
				}
				// 7.4.11.4)
				continue

			case "@nest":
				// nested keys
				nests = append(nests, key)
				continue

			case "@default":
				// framing-only keyword; kept opaque under its own keyword
				// identifier rather than dropped, in case frame support is
				// added later.
				expandedValue, err := api.Expand(activeCtx, expandedProperty.Value, value, opts)
				if err != nil {
					return err
				}
				for _, item := range asIndexedSlice(expandedValue) {
					accum.addProp(expandedProperty, item)
				}
				continue

			case "@included":
				// @included: expand to one or more node objects, each of
				// which must expand to a node object (not a value or list).
				includedValue, err := api.Expand(activeCtx, activeProperty, value, opts)
				if err != nil {
					return err
				}
				items := asIndexedSlice(includedValue)
				for _, item := range items {
					if _, isVal := item.AsValue(); isVal {
						return NewJsonLdError(InvalidIncludedValue, "@included value must expand to one or more node objects")
					}
					if _, isList := item.AsList(); isList {
						return NewJsonLdError(InvalidIncludedValue, "@included value must expand to one or more node objects")
					}
				}
				accum.included = append(accum.included, items...)
				accum.includedSet = true
			}

			// 7.4.13)
			continue
		}

		// use potential scoped context for key
		termCtx := activeCtx
		td := activeCtx.GetTermDefinition(key)
		if ctx, hasCtx := td["@context"]; hasCtx {
			termCtx, err = activeCtx.Parse(ctx)
			if err != nil {
				return err
			}
		}

		valueMap, isMap := value.(map[string]interface{})
		var expandedItems []*Indexed
		// 7.5
		if activeCtx.HasContainerMapping(key, "@language") && isMap {
			// 7.5.1/7.5.2)
			for _, language := range GetOrderedKeys(valueMap) {
				expandedLanguage, err := termCtx.ExpandIri(language, false, true, nil, nil)
				if err != nil {
					return err
				}
				// 7.5.2.1)
				for _, item := range Arrayify(valueMap[language]) {
					if item == nil {
						continue
					}
					// 7.5.2.2.1)
					itemStr, isString := item.(string)
					if !isString {
						return NewJsonLdError(InvalidLanguageMapValue, "expected a string language map value")
					}
					// 7.5.2.2.2)
					v := &Value{Raw: itemStr}
					if expandedLanguage.Value != "@none" {
						lang := strings.ToLower(language)
						v.Language = &lang
					}
					expandedItems = append(expandedItems, &Indexed{Object: v})
				}
			}
		} else if activeCtx.HasContainerMapping(key, "@index") && isMap { // 7.6)
			asGraph := activeCtx.HasContainerMapping(key, "@graph")
			expandedItems, err = api.expandIndexMap(termCtx, key, valueMap, "@index", asGraph, opts)
			if err != nil {
				return err
			}
		} else if activeCtx.HasContainerMapping(key, "@id") && isMap {
			asGraph := activeCtx.HasContainerMapping(key, "@graph")
			expandedItems, err = api.expandIndexMap(termCtx, key, valueMap, "@id", asGraph, opts)
			if err != nil {
				return err
			}
		} else if activeCtx.HasContainerMapping(key, "@type") && isMap {
			expandedItems, err = api.expandIndexMap(termCtx, key, valueMap, "@type", false, opts)
			if err != nil {
				return err
			}
		} else {
			isList := expandedProperty.Value == "@list"
			if isList || expandedProperty.Value == "@set" {
				nextActiveProperty := activeProperty
				if isList && expandedActiveProperty == "@graph" {
					nextActiveProperty = ""
				}
				expandedValue, err := api.Expand(termCtx, nextActiveProperty, value, opts)
				if err != nil {
					return err
				}
				if isList && isListShaped(expandedValue) {
					return NewJsonLdError(ListOfLists, "lists of lists are not permitted")
				}
				expandedItems = asIndexedSlice(expandedValue)
			} else {
				// 7.7)
				expandedValue, err := api.Expand(termCtx, key, value, opts)
				if err != nil {
					return err
				}
				expandedItems = asIndexedSlice(expandedValue)
			}
		}

		// 7.8)
		if expandedItems == nil {
			continue
		}

		// 7.9)
		if activeCtx.HasContainerMapping(key, "@list") {
			alreadyList := len(expandedItems) == 1
			if alreadyList {
				_, alreadyList = expandedItems[0].AsList()
			}
			if !alreadyList {
				expandedItems = []*Indexed{{Object: &List{Items: expandedItems}}}
			}
		}

		isContainerGraph := activeCtx.HasContainerMapping(key, "@graph")
		isContainerID := activeCtx.HasContainerMapping(key, "@id")
		isContainerIndex := activeCtx.HasContainerMapping(key, "@index")
		selfIsGraph := len(expandedItems) == 1 && isGraphIndexed(expandedItems[0])
		if isContainerGraph && !isContainerID && !isContainerIndex && !selfIsGraph {
			wrapped := make([]*Indexed, 0, len(expandedItems))
			for _, ev := range expandedItems {
				if !isGraphIndexed(ev) {
					ev = &Indexed{Object: &Node{Graph: []*Indexed{ev}}}
				}
				wrapped = append(wrapped, ev)
			}
			expandedItems = wrapped
		}

		// 7.10)
		if termCtx.IsReverseProperty(key) {
			for _, item := range expandedItems {
				// 7.10.4.1)
				if _, isVal := item.AsValue(); isVal {
					return NewJsonLdError(InvalidReversePropertyValue, nil)
				}
				if _, isList := item.AsList(); isList {
					return NewJsonLdError(InvalidReversePropertyValue, nil)
				}
				accum.addReverse(expandedProperty, item)
			}
		} else { // 7.11)
			for _, item := range expandedItems {
				accum.addProp(expandedProperty, item)
			}
		}
	}

	// expand each nested key
	for _, n := range nests {
		for _, nv := range Arrayify(elem[n]) {
			nvMap, isMap := nv.(map[string]interface{})
			hasValues := false
			if isMap {
				for k := range nvMap {
					expanded, _ := activeCtx.ExpandIri(k, false, true, nil, nil)
					if expanded.Value == "@value" {
						hasValues = true
						break
					}
				}
			}
			if !isMap || hasValues {
				return NewJsonLdError(InvalidNestValue, "nested value must be a node object")
			}
			if err := api.expandObject(activeCtx, activeProperty, expandedActiveProperty, nvMap, accum, opts, frameExpansion); err != nil {
				return err
			}
		}
	}

	return nil
}

func (api *JsonLdApi) expandIndexMap(activeCtx *Context, activeProperty string, value map[string]interface{}, indexKey string, asGraph bool, opts *JsonLdOptions) ([]*Indexed, error) {
	// 7.6.1)
	var result []*Indexed
	// 7.6.2)
	for _, index := range GetOrderedKeys(value) {
		indexValue := value[index]

		indexCtx := activeCtx
		td := activeCtx.GetTermDefinition(index)
		if ctx, hasCtx := td["@context"]; hasCtx {
			newCtx, err := activeCtx.Parse(ctx)
			if err != nil {
				return nil, err
			}
			indexCtx = newCtx
		}

		expandedIndex, err := indexCtx.ExpandIri(index, false, true, nil, nil)
		if err != nil {
			return nil, err
		}

		idForIndexKey := index
		if indexKey == "@id" {
			expandedID, err := indexCtx.ExpandIri(index, true, false, nil, nil)
			if err != nil {
				return nil, err
			}
			idForIndexKey = expandedID.Value
		}

		// 7.6.2.1/7.6.2.2)
		expanded, err := api.Expand(indexCtx, activeProperty, Arrayify(indexValue), opts)
		if err != nil {
			return nil, err
		}

		// 7.6.2.3)
		for _, item := range asIndexedSlice(expanded) {
			if asGraph && !isGraphIndexed(item) {
				item = &Indexed{Object: &Node{Graph: []*Indexed{item}}}
			}
			switch indexKey {
			case "@type":
				if expandedIndex.Value != "@none" {
					if n, ok := item.AsNode(); ok {
						n.Types = append([]Identifier{ParseIdentifier(index)}, n.Types...)
					}
				}
			case "@id":
				if n, ok := item.AsNode(); ok && n.ID == nil && expandedIndex.Value != "@none" {
					id := ParseIdentifier(idForIndexKey)
					n.ID = &id
				}
			default: // "@index"
				if item.Index == nil && expandedIndex.Value != "@none" {
					idx := index
					item.Index = &idx
				}
			}
			// 7.6.2.3.2)
			result = append(result, item)
		}
	}
	return result, nil
}

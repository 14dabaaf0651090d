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

// containerHas returns true if the given container mapping (as returned by
// Context.GetContainer) includes the named container keyword.
func containerHas(containers []interface{}, name string) bool {
	for _, c := range containers {
		if c == name {
			return true
		}
	}
	return false
}

// Compact operation compacts the given input using the context
// according to the steps in the Compaction Algorithm:
//
// http://www.w3.org/TR/json-ld-api/#compaction-algorithm
//
// element holds whatever Expand produced: nil, a *Indexed or a []*Indexed.
// The return value is a generic, JSON-serialisable tree (map[string]interface{},
// []interface{}, or a scalar) — compaction's whole point is to leave the typed
// object model behind and hand back something a caller can json.Marshal.
func (api *JsonLdApi) Compact(activeCtx *Context, activeProperty string, element interface{},
	compactArrays bool) (interface{}, error) {
	// 2)
	if items, isList := element.([]*Indexed); isList {
		// 2.1)
		result := make([]interface{}, 0)
		// 2.2)
		for _, item := range items {
			// 2.2.1)
			compactedItem, err := api.Compact(activeCtx, activeProperty, item, compactArrays)
			if err != nil {
				return nil, err
			}
			// 2.2.2)
			if compactedItem != nil {
				result = append(result, compactedItem)
			}
		}
		// 2.3)
		if compactArrays && len(result) == 1 && len(activeCtx.GetContainer(activeProperty)) == 0 {
			return result[0], nil
		}
		// 2.4)
		return result, nil
	}

	// 3)
	if idx, isIndexed := element.(*Indexed); isIndexed {
		return api.compactIndexed(activeCtx, activeProperty, idx, compactArrays)
	}

	// 2)
	return element, nil
}

// compactIndexed compacts a single Indexed object: the @value/bare-@id
// shortcuts of step 4, then full node compaction (steps 5-8) when neither
// shortcut applies.
func (api *JsonLdApi) compactIndexed(activeCtx *Context, activeProperty string, idx *Indexed,
	compactArrays bool) (interface{}, error) {
	// 4) value and bare node-reference shortcuts
	if v, ok := idx.AsValue(); ok {
		return activeCtx.CompactValue(activeProperty, v, idx.Index)
	}
	if n, ok := idx.AsNode(); ok {
		if isBareNodeReference(n) {
			return api.compactNodeReference(activeCtx, activeProperty, *n.ID)
		}
		return api.compactNode(activeCtx, activeProperty, n, idx.Index, compactArrays)
	}

	// a List reaching this point was not unwrapped by its caller; compact its
	// items as a plain array, matching how Expand never hands a bare List to
	// Compact directly.
	list, _ := idx.AsList()
	return api.Compact(activeCtx, activeProperty, list.Items, compactArrays)
}

// isBareNodeReference reports whether n carries nothing but an @id: the
// condition under which CompactValue's original Java/JS counterparts
// short-circuited full node compaction with a one-line IRI reference.
func isBareNodeReference(n *Node) bool {
	return n.ID != nil && len(n.Types) == 0 && n.Props.Len() == 0 &&
		n.Reverse.Len() == 0 && len(n.Graph) == 0 && len(n.Included) == 0
}

// compactNodeReference compacts a bare node reference (only @id, optionally
// under an @index) according to the active property's term @type mapping:
// @id-typed and @vocab-typed terms compact straight to a string, anything
// else produces a one-key {"@id": ...} map so the reference doesn't silently
// turn into a different kind of value.
func (api *JsonLdApi) compactNodeReference(activeCtx *Context, activeProperty string, id Identifier) (interface{}, error) {
	propType, _ := activeCtx.GetTermDefinition(activeProperty)["@type"].(string)
	switch propType {
	case "@id":
		return activeCtx.CompactIri(id, nil, false, false)
	case "@vocab":
		return activeCtx.CompactIri(id, nil, true, false)
	default:
		compactedID, err := activeCtx.CompactIri(NewKeywordIdentifier("@id"), nil, true, false)
		if err != nil {
			return nil, err
		}
		compactedValue, err := activeCtx.CompactIri(id, nil, false, false)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{compactedID: compactedValue}, nil
	}
}

// compactNode compacts a full node object: @id/@type (7.1), @reverse (7.2),
// the wrapping @index, @graph and @included, then every ordinary property
// (7.5/7.6).
func (api *JsonLdApi) compactNode(activeCtx *Context, activeProperty string, n *Node, index *string,
	compactArrays bool) (map[string]interface{}, error) {
	insideReverse := activeProperty == "@reverse"
	result := make(map[string]interface{})

	// 7.1) @id
	if n.ID != nil {
		cv, err := activeCtx.CompactIri(*n.ID, nil, false, false)
		if err != nil {
			return nil, err
		}
		alias, err := activeCtx.CompactIri(NewKeywordIdentifier("@id"), nil, true, false)
		if err != nil {
			return nil, err
		}
		result[alias] = cv
	}

	// 7.1) @type
	if len(n.Types) > 0 {
		types := make([]interface{}, 0, len(n.Types))
		for _, t := range n.Types {
			cv, err := activeCtx.CompactIri(t, nil, true, false)
			if err != nil {
				return nil, err
			}
			types = append(types, cv)
		}
		var compactedTypes interface{} = types
		if len(types) == 1 {
			compactedTypes = types[0]
		}
		alias, err := activeCtx.CompactIri(NewKeywordIdentifier("@type"), nil, true, false)
		if err != nil {
			return nil, err
		}
		result[alias] = compactedTypes
	}

	// 7.2) @reverse
	if n.Reverse.Len() > 0 {
		reverseResult := make(map[string]interface{})
		for _, property := range n.Reverse.Keys() {
			if err := api.compactPropertyInto(activeCtx, property, n.Reverse.Get(property), reverseResult,
				compactArrays, true); err != nil {
				return nil, err
			}
		}
		// 7.2.2) properties that are themselves reverse properties of the
		// active context cancel out and are promoted back to forward
		// properties on result.
		for _, property := range GetKeys(reverseResult) {
			if !activeCtx.IsReverseProperty(property) {
				continue
			}
			value := reverseResult[property]
			valueList, isList := value.([]interface{})
			if (containerHas(activeCtx.GetContainer(property), "@set") || !compactArrays) && !isList {
				value = []interface{}{value}
				valueList, isList = value.([]interface{}), true
			}
			if _, present := result[property]; !present {
				result[property] = value
			} else {
				existingList, isExistingList := result[property].([]interface{})
				if !isExistingList {
					existingList = []interface{}{result[property]}
				}
				if isList {
					existingList = append(existingList, valueList...)
				} else {
					existingList = append(existingList, value)
				}
				result[property] = existingList
			}
			delete(reverseResult, property)
		}
		if len(reverseResult) > 0 {
			alias, err := activeCtx.CompactIri(NewKeywordIdentifier("@reverse"), nil, true, false)
			if err != nil {
				return nil, err
			}
			result[alias] = reverseResult
		}
	}

	// @index belonging to the Indexed wrapper, unless the active property's
	// own container mapping already encodes it positionally.
	if index != nil && !containerHas(activeCtx.GetContainer(activeProperty), "@index") {
		alias, err := activeCtx.CompactIri(NewKeywordIdentifier("@index"), nil, true, false)
		if err != nil {
			return nil, err
		}
		result[alias] = *index
	}

	if len(n.Graph) > 0 {
		if err := api.compactPropertyInto(activeCtx, NewKeywordIdentifier("@graph"), n.Graph, result,
			compactArrays, insideReverse); err != nil {
			return nil, err
		}
	}
	if len(n.Included) > 0 {
		if err := api.compactPropertyInto(activeCtx, NewKeywordIdentifier("@included"), n.Included, result,
			compactArrays, insideReverse); err != nil {
			return nil, err
		}
	}
	for _, property := range n.Props.Keys() {
		if err := api.compactPropertyInto(activeCtx, property, n.Props.Get(property), result,
			compactArrays, insideReverse); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// compactPropertyInto compacts the objects stored under property and merges
// the result into dst, steps 7.5/7.6 of the Compaction Algorithm. Ordinary
// node properties, @reverse properties, @graph and @included all boil down
// to the same shape once expansion is done: a property identifier plus an
// ordered list of indexed objects.
func (api *JsonLdApi) compactPropertyInto(activeCtx *Context, property Identifier, items []*Indexed,
	dst map[string]interface{}, compactArrays bool, insideReverse bool) error {
	expandedProperty := property.Value

	// 7.5)
	if len(items) == 0 {
		itemActiveProperty, err := activeCtx.CompactIri(property, nil, true, insideReverse)
		if err != nil {
			return err
		}
		if existing, present := dst[itemActiveProperty]; !present {
			dst[itemActiveProperty] = make([]interface{}, 0)
		} else if _, isList := existing.([]interface{}); !isList {
			dst[itemActiveProperty] = []interface{}{existing}
		}
		return nil
	}

	// 7.6)
	for _, expandedItem := range items {
		// 7.6.1)
		itemActiveProperty, err := activeCtx.CompactIri(property, expandedItem, true, insideReverse)
		if err != nil {
			return err
		}
		// 7.6.2)
		containers := activeCtx.GetContainer(itemActiveProperty)

		list, isList := expandedItem.AsList()

		// 7.6.3)
		var elementToCompact interface{}
		if isList {
			elementToCompact = list.Items
		} else {
			elementToCompact = expandedItem
		}
		compactedItem, err := api.Compact(activeCtx, itemActiveProperty, elementToCompact, compactArrays)
		if err != nil {
			return err
		}

		// 7.6.4)
		if isList {
			// 7.6.4.1)
			if _, isCompactedList := compactedItem.([]interface{}); !isCompactedList {
				compactedItem = []interface{}{compactedItem}
			}
			// 7.6.4.2)
			if !containerHas(containers, "@list") {
				// 7.6.4.2.1)
				wrapper := make(map[string]interface{})
				listAlias, err := activeCtx.CompactIri(NewKeywordIdentifier("@list"), nil, true, false)
				if err != nil {
					return err
				}
				wrapper[listAlias] = compactedItem
				compactedItem = wrapper
				// 7.6.4.2.2)
				if expandedItem.Index != nil {
					indexAlias, err := activeCtx.CompactIri(NewKeywordIdentifier("@index"), nil, true, false)
					if err != nil {
						return err
					}
					wrapper[indexAlias] = *expandedItem.Index
				}
			} else if _, present := dst[itemActiveProperty]; present { // 7.6.4.3)
				return NewJsonLdError(CompactionToListOfLists,
					"There cannot be two list objects associated with an active property that has a container mapping")
			}
		}

		// 7.6.5)
		containerIsLanguage := containerHas(containers, "@language")
		containerIsIndex := containerHas(containers, "@index")
		if containerIsLanguage || containerIsIndex {
			// 7.6.5.1)
			var mapObject map[string]interface{}
			if v, present := dst[itemActiveProperty]; present {
				mapObject = v.(map[string]interface{})
			} else {
				mapObject = make(map[string]interface{})
				dst[itemActiveProperty] = mapObject
			}

			// 7.6.5.2)
			var mapKey string
			if containerIsLanguage {
				if itemVal, isVal := expandedItem.AsValue(); isVal {
					if compactedItemMap, isMap := compactedItem.(map[string]interface{}); isMap {
						if cv, hasValue := compactedItemMap["@value"]; hasValue {
							compactedItem = cv
						}
					}
					if itemVal.Language != nil {
						mapKey = *itemVal.Language
					} else {
						mapKey = "@none"
					}
				} else {
					mapKey = "@none"
				}
			} else {
				// 7.6.5.3)
				if expandedItem.Index != nil {
					mapKey = *expandedItem.Index
				} else {
					mapKey = "@none"
				}
			}

			// 7.6.5.4)
			mapValue, hasMapKey := mapObject[mapKey]
			if !hasMapKey {
				mapObject[mapKey] = compactedItem
			} else {
				mapValueList, isList := mapValue.([]interface{})
				var tmp []interface{}
				if !isList {
					tmp = []interface{}{mapValue}
				} else {
					tmp = mapValueList
				}
				tmp = append(tmp, compactedItem)
				mapObject[mapKey] = tmp
			}
		} else { // 7.6.6)
			// 7.6.6.1)
			_, isList := compactedItem.([]interface{})
			check := (!compactArrays || containerHas(containers, "@set") || containerHas(containers, "@list") ||
				expandedProperty == "@list" || expandedProperty == "@graph") && !isList
			if check {
				compactedItem = []interface{}{compactedItem}
			}
			// 7.6.6.2)
			itemActivePropertyVal, present := dst[itemActiveProperty]
			if !present {
				dst[itemActiveProperty] = compactedItem
			} else {
				itemActivePropertyValueList, isList := itemActivePropertyVal.([]interface{})
				if !isList {
					itemActivePropertyValueList = []interface{}{itemActivePropertyVal}
					dst[itemActiveProperty] = itemActivePropertyValueList
				}
				compactedItemList, isList := compactedItem.([]interface{})
				if isList {
					itemActivePropertyValueList = append(itemActivePropertyValueList, compactedItemList...)
				} else {
					itemActivePropertyValueList = append(itemActivePropertyValueList, compactedItem)
				}
				dst[itemActiveProperty] = itemActivePropertyValueList
			}
		}
	}
	return nil
}

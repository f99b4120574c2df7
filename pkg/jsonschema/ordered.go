package jsonschema

import (
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// RawObject is the mapping node of the raw schema tree. Descriptor output
// follows the document's own property order, so the tree is decoded through
// yaml.Node into ordered maps instead of plain map[string]any.
type RawObject = orderedmap.OrderedMap[string, any]

const maxAliasDepth = 256

func newRawObject() *RawObject {
	return orderedmap.New[string, any]()
}

// decodeDocument parses YAML or JSON bytes (YAML being a superset, one code
// path covers both) into a tree of *RawObject, []any, and scalars.
func decodeDocument(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("jsonschema: parse document: %w", err)
	}
	node := &root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, nil
		}
		node = node.Content[0]
	}
	return decodeNode(node, 0)
}

func decodeNode(node *yaml.Node, aliasDepth int) (any, error) {
	if node == nil {
		return nil, nil
	}
	switch node.Kind {
	case yaml.MappingNode:
		obj := newRawObject()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("jsonschema: mapping key at line %d must be a scalar", keyNode.Line)
			}
			value, err := decodeNode(node.Content[i+1], aliasDepth)
			if err != nil {
				return nil, err
			}
			obj.Set(keyNode.Value, value)
		}
		return obj, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			value, err := decodeNode(child, aliasDepth)
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		}
		return out, nil
	case yaml.AliasNode:
		if aliasDepth >= maxAliasDepth {
			return nil, fmt.Errorf("jsonschema: alias nesting exceeds %d at line %d", maxAliasDepth, node.Line)
		}
		return decodeNode(node.Alias, aliasDepth+1)
	case yaml.ScalarNode:
		var value any
		if err := node.Decode(&value); err != nil {
			return nil, fmt.Errorf("jsonschema: decode scalar at line %d: %w", node.Line, err)
		}
		return value, nil
	default:
		return nil, fmt.Errorf("jsonschema: unsupported node kind %d at line %d", node.Kind, node.Line)
	}
}

func readString(obj *RawObject, key string) string {
	if obj == nil {
		return ""
	}
	raw, ok := obj.Get(key)
	if !ok {
		return ""
	}
	value, ok := raw.(string)
	if !ok {
		return ""
	}
	return value
}

func objectKeys(obj *RawObject) []string {
	if obj == nil {
		return nil
	}
	keys := make([]string, 0, obj.Len())
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

func isVendorExtension(key string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(key)), "x-")
}

// cloneValue deep-copies a raw tree so resolved output never aliases cached
// document payloads.
func cloneValue(value any) any {
	switch typed := value.(type) {
	case *RawObject:
		out := newRawObject()
		for pair := typed.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, cloneValue(pair.Value))
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for idx, entry := range typed {
			out[idx] = cloneValue(entry)
		}
		return out
	default:
		return typed
	}
}


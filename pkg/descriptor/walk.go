package descriptor

import (
	"fmt"

	"github.com/goliatone/go-schemadoc/pkg/schema"
)

// Extract compiles a resolved schema into the flat descriptor list. The root
// must be an object and free of allOf composition; anything else fails before
// any descriptor is produced. The input tree is never mutated.
func Extract(root schema.Schema) ([]Descriptor, error) {
	if len(root.AllOf) > 0 {
		return nil, fmt.Errorf("%w at the schema root", ErrUnsupportedComposition)
	}
	if root.Type != schema.TypeObject {
		return nil, fmt.Errorf("%w: got %q", ErrRootNotObject, root.Type)
	}
	return walkProperties(nil, root, 0, root.RequiredSet()), nil
}

// walkProperties visits the object's direct properties in document order,
// appending one descriptor per terminal field.
func walkProperties(acc []Descriptor, parent schema.Schema, depth int, required map[string]struct{}) []Descriptor {
	for _, name := range parent.PropertyNames() {
		acc = walkNode(acc, name, parent.Properties[name], depth, required)
	}
	return acc
}

func walkNode(acc []Descriptor, name string, node schema.Schema, depth int, required map[string]struct{}) []Descriptor {
	_, isRequired := required[name]

	switch node.Type {
	case schema.TypeObject:
		// Objects contribute no descriptor of their own; their required set
		// scopes only their direct children.
		return walkProperties(acc, node, depth+1, node.RequiredSet())
	case schema.TypeArray:
		if len(node.Items) == 0 {
			return append(acc, arrayLeaf(name, node, depth, isRequired))
		}
		// Member schemas carry no requiredness of their own here; required
		// lists resume one object level further down.
		for _, item := range node.Items {
			acc = walkProperties(acc, item, depth+1, nil)
		}
		return acc
	case schema.TypeString:
		return append(acc, stringLeaf(name, node, depth, isRequired))
	case schema.TypeNumber, schema.TypeInteger:
		return append(acc, numberLeaf(name, node, depth, isRequired))
	default:
		// boolean, and any type label the dispatch does not know: a bare
		// scalar leaf.
		return append(acc, scalarLeaf(name, node, depth, isRequired))
	}
}

func stringLeaf(name string, node schema.Schema, depth int, required bool) Descriptor {
	d := leaf(name, node, depth, required)
	d.BaseType = refineType(node.Type, node.Format, node.Pattern)
	d.SizeMin = intBound(node.MinLength)
	d.SizeMax = intBound(node.MaxLength)
	d.Enum = node.Enum
	return d
}

// numberLeaf folds the exclusive flags into the effective bounds: an
// exclusive minimum of 5 reads as "at least 6".
func numberLeaf(name string, node schema.Schema, depth int, required bool) Descriptor {
	d := leaf(name, node, depth, required)
	d.BaseType = refineType(node.Type, node.Format, node.Pattern)
	if node.Minimum != nil {
		v := *node.Minimum
		if node.ExclusiveMinimum {
			v++
		}
		d.SizeMin = &v
	}
	if node.Maximum != nil {
		v := *node.Maximum
		if node.ExclusiveMaximum {
			v--
		}
		d.SizeMax = &v
	}
	d.Enum = node.Enum
	return d
}

func arrayLeaf(name string, node schema.Schema, depth int, required bool) Descriptor {
	d := leaf(name, node, depth, required)
	d.BaseType = node.Type
	d.SizeMin = intBound(node.MinItems)
	d.SizeMax = intBound(node.MaxItems)
	return d
}

func scalarLeaf(name string, node schema.Schema, depth int, required bool) Descriptor {
	d := leaf(name, node, depth, required)
	d.BaseType = node.Type
	return d
}

func leaf(name string, node schema.Schema, depth int, required bool) Descriptor {
	return Descriptor{
		Name:        name,
		Depth:       depth,
		Required:    required,
		Default:     node.Default,
		Description: describe(node),
	}
}

func describe(node schema.Schema) string {
	if node.Title != "" {
		return node.Title
	}
	return node.Description
}

func intBound(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

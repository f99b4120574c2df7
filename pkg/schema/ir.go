package schema

import (
	"context"
	"sort"
)

// Type labels carried by schema nodes. Dispatch in the descriptor walker
// switches over these tags.
const (
	TypeObject  = "object"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeArray   = "array"
)

// Schema is the canonical, fully dereferenced schema IR consumed by the
// descriptor extractor. Adapters (JSON Schema, OpenAPI) normalize their source
// documents into this shape; by the time a Schema reaches the walker no $ref
// indirection remains.
type Schema struct {
	Type        string
	Format      string
	Pattern     string
	Title       string
	Description string
	Default     any
	Enum        []any
	Required    []string

	// Properties holds an object's direct children. PropertyOrder preserves
	// the document's own key order; when empty (hand-built trees, sources
	// without order metadata) iteration falls back to sorted names.
	Properties    map[string]Schema
	PropertyOrder []string

	// Items is nil when absent. A single-schema items keyword normalizes to a
	// one-element sequence; tuple forms keep their member order.
	Items []Schema

	AllOf []Schema

	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum bool
	ExclusiveMaximum bool
	MinLength        *int
	MaxLength        *int
	MinItems         *int
	MaxItems         *int

	// Extensions collects vendor x-* keys verbatim.
	Extensions map[string]any
}

// PropertyNames returns the object's property names in document order when
// the order is known, falling back to sorted names so traversal stays
// deterministic either way. Names recorded in PropertyOrder but missing from
// Properties are skipped; properties missing from PropertyOrder are appended
// in sorted order.
func (s Schema) PropertyNames() []string {
	if len(s.Properties) == 0 {
		return nil
	}

	names := make([]string, 0, len(s.Properties))
	seen := make(map[string]struct{}, len(s.Properties))
	for _, name := range s.PropertyOrder {
		if _, ok := s.Properties[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	if len(names) == len(s.Properties) {
		return names
	}

	rest := make([]string, 0, len(s.Properties)-len(names))
	for name := range s.Properties {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// RequiredSet expands the Required list into a membership set scoped to this
// object's direct properties.
func (s Schema) RequiredSet() map[string]struct{} {
	if len(s.Required) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(s.Required))
	for _, name := range s.Required {
		set[name] = struct{}{}
	}
	return set
}

// FormatAdapter normalizes source documents into the canonical schema tree.
type FormatAdapter interface {
	Name() string
	Detect(src Source, raw []byte) bool
	Load(ctx context.Context, src Source) (Document, error)
	Normalize(ctx context.Context, doc Document) (Schema, error)
}

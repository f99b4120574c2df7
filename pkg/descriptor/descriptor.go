package descriptor

import "strings"

// Descriptor is one terminal field of a schema: a flat record carrying the
// name, nesting depth, requiredness, and the type facts needed to render the
// canonical line. The flat list plus Depth is the whole output model; nesting
// survives only as depth-derived padding inside the rendered line.
type Descriptor struct {
	// Name is the bare property name, unpadded. Padding is derived from Depth
	// at render time.
	Name string

	// Depth counts the object/array levels above this field. Root-level
	// properties sit at depth 0.
	Depth int

	// Required reports whether the parent object lists this field in its
	// required set. Optional fields render with the name wrapped in brackets.
	Required bool

	// BaseType is the type label, already slash-composed with the format or
	// pattern refinement when one is present ("string / email").
	BaseType string

	// SizeMin and SizeMax are the effective size bounds: value bounds with
	// exclusive flags folded in for numerics, length bounds for strings, item
	// bounds for arrays. Nil means absent.
	SizeMin *float64
	SizeMax *float64

	// Enum lists the allowed values, nil when unconstrained.
	Enum []any

	// Default holds the field default. Nil means absent.
	Default any

	// Description is the field prose, title winning over description. May be
	// empty.
	Description string
}

// TypeExpr renders the composed type expression: base type, optional
// "{min..max}" size suffix, optional "=\"v1,v2\"" allowed-values suffix, in
// that order.
func (d Descriptor) TypeExpr() string {
	return typeExpression(d.BaseType, d.SizeMin, d.SizeMax, d.Enum)
}

// DefaultLiteral renders the default as its JSON literal, empty when the
// field has no default.
func (d Descriptor) DefaultLiteral() string {
	if d.Default == nil {
		return ""
	}
	return jsonLiteral(d.Default)
}

// NameExpr renders the name segment: depth padding, then the default suffix,
// then the optional-field bracket wrap around the whole of it.
func (d Descriptor) NameExpr() string {
	name := strings.Repeat(" ", d.Depth) + d.Name
	if lit := d.DefaultLiteral(); lit != "" {
		name += "=" + lit
	}
	if !d.Required {
		name = "[" + name + "]"
	}
	return name
}

// String renders the canonical descriptor line:
//
//	{<typeExpr>} <nameExpr> <description>
//
// The three segments are always joined by single spaces, so a missing
// description leaves a trailing space. Downstream formats rely on that exact
// shape; do not trim here.
func (d Descriptor) String() string {
	return "{" + d.TypeExpr() + "} " + d.NameExpr() + " " + d.Description
}

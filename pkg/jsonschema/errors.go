package jsonschema

import "errors"

// Sentinel errors classify load and resolution failures so callers can branch
// with errors.Is instead of matching message text.
var (
	// ErrUnsupportedExtension reports a schema path whose extension is not
	// .json, .yaml, or .yml.
	ErrUnsupportedExtension = errors.New("jsonschema: unsupported schema extension")

	// ErrUnsupportedDialect reports a $schema value outside the supported
	// drafts.
	ErrUnsupportedDialect = errors.New("jsonschema: unsupported schema dialect")

	// ErrRefNotResolved reports a $ref target that could not be located in any
	// candidate directory.
	ErrRefNotResolved = errors.New("jsonschema: reference not resolved")
)

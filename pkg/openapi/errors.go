package openapi

import "errors"

// Sentinel errors classify selection failures so callers can branch with
// errors.Is instead of matching message text.
var (
	// ErrNoSelection reports an adapter asked to normalize without a component
	// or operation selection.
	ErrNoSelection = errors.New("openapi: a component or operation selection is required")

	// ErrComponentNotFound reports a selected component schema missing from
	// the document.
	ErrComponentNotFound = errors.New("openapi: component schema not found")

	// ErrOperationNotFound reports a selected operation missing from the
	// document, or one without a JSON request body schema.
	ErrOperationNotFound = errors.New("openapi: operation not found")
)

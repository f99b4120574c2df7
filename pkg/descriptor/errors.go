package descriptor

import "errors"

var (
	// ErrRootNotObject reports a schema whose root type is anything but
	// "object". Extraction has no meaningful output for scalar or array roots.
	ErrRootNotObject = errors.New("descriptor: schema root must be an object")

	// ErrUnsupportedComposition reports allOf composition at the schema root.
	// Composed schemas would need merging before extraction; failing fast beats
	// emitting a partial field list.
	ErrUnsupportedComposition = errors.New("descriptor: allOf composition is not supported")
)

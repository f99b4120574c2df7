// Package template defines the renderer-agnostic template engine contract.
// Renderers that produce templated output depend on this seam instead of a
// concrete engine, so the engine can be swapped without touching them.
package template

// Package orchestrator coordinates the full pipeline from schema document to
// rendered descriptor output: load, parse, resolve refs, normalize into the
// canonical tree, extract descriptors, transform, render.
//
// Format adapters (JSON Schema, OpenAPI) plug in through a registry with
// payload detection, renderers through the render registry. The zero-config
// path wires the JSON Schema adapter, the built-in loaders, and the text,
// markdown, and template renderers.
package orchestrator

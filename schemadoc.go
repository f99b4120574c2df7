// Package schemadoc converts JSON Schema documents into flat, ordered lists
// of human-readable descriptor lines suitable for injection into API
// documentation comments. The root package is a thin facade over the pipeline
// packages: pkg/jsonschema resolves documents, pkg/descriptor extracts the
// descriptor list, pkg/render formats it, and pkg/doctag expands schema tags
// inside comment blocks.
package schemadoc

import (
	"context"

	"github.com/goliatone/go-schemadoc/pkg/descriptor"
	"github.com/goliatone/go-schemadoc/pkg/doctag"
	"github.com/goliatone/go-schemadoc/pkg/orchestrator"
	"github.com/goliatone/go-schemadoc/pkg/render"
	"github.com/goliatone/go-schemadoc/pkg/schema"
)

// Descriptor is one rendered field of a schema.
type Descriptor = descriptor.Descriptor

// Schema is the canonical, fully dereferenced schema tree.
type Schema = schema.Schema

// RenderOptions carries per-request presentation inputs for renderers.
type RenderOptions = render.RenderOptions

// Request describes one descriptor pipeline invocation.
type Request = orchestrator.Request

// New exposes the orchestrator constructor from the top-level module so
// callers can start with a single import.
func New(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// ExtractArguments compiles an already resolved schema tree into the flat
// descriptor list. The root must be an object free of allOf composition.
func ExtractArguments(root Schema) ([]Descriptor, error) {
	return descriptor.Extract(root)
}

// DescribeFile resolves the schema file at path and returns its descriptor
// list using a default pipeline.
func DescribeFile(ctx context.Context, path string, options ...orchestrator.Option) ([]Descriptor, error) {
	gen := orchestrator.New(options...)
	return gen.Descriptors(ctx, orchestrator.Request{
		Source: schema.SourceFromFile(path),
	})
}

// RenderSchemaReference resolves the schema file at path, extracts its
// descriptors, and renders each canonical line. A non-empty group prefixes
// every line with "(group) ".
func RenderSchemaReference(ctx context.Context, group, path string, options ...orchestrator.Option) ([]string, error) {
	descriptors, err := DescribeFile(ctx, path, options...)
	if err != nil {
		return nil, err
	}
	return render.Lines(descriptors, group), nil
}

// NewTagRewriter builds a doctag rewriter that expands "{schema} <path>" tags
// through the supplied orchestrator. A nil orchestrator gets the defaults.
func NewTagRewriter(gen *orchestrator.Orchestrator) *doctag.Rewriter {
	if gen == nil {
		gen = orchestrator.New()
	}
	return doctag.NewRewriter(func(ctx context.Context, group, path string) ([]string, error) {
		descriptors, err := gen.Descriptors(ctx, orchestrator.Request{
			Source: schema.SourceFromFile(path),
		})
		if err != nil {
			return nil, err
		}
		return render.Lines(descriptors, group), nil
	})
}

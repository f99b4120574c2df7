package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	internalLoader "github.com/goliatone/go-schemadoc/internal/loader"
	"github.com/goliatone/go-schemadoc/pkg/descriptor"
	"github.com/goliatone/go-schemadoc/pkg/jsonschema"
	"github.com/goliatone/go-schemadoc/pkg/render"
	"github.com/goliatone/go-schemadoc/pkg/schema"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom document loader shared by the default adapters.
func WithLoader(loader jsonschema.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithAdapter registers an additional format adapter.
func WithAdapter(adapter schema.FormatAdapter) Option {
	return func(o *Orchestrator) {
		if adapter == nil {
			return
		}
		o.pendingAdapters = append(o.pendingAdapters, adapter)
	}
}

// WithAdapterRegistry replaces the adapter registry wholesale.
func WithAdapterRegistry(registry *AdapterRegistry) Option {
	return func(o *Orchestrator) {
		o.adapterRegistry = registry
	}
}

// WithDefaultAdapter names the adapter used when detection is inconclusive.
func WithDefaultAdapter(name string) Option {
	return func(o *Orchestrator) {
		o.defaultAdapter = normalizeAdapterName(name)
	}
}

// WithResolverOptions configures ref resolution on the default JSON Schema
// adapter (base directories, HTTP refs, guardrail limits).
func WithResolverOptions(options jsonschema.ResolveOptions) Option {
	return func(o *Orchestrator) {
		o.resolverOptions = options
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformers registers descriptor transformers that run after
// extraction and before rendering, in registration order.
func WithTransformers(transformers ...Transformer) Option {
	return func(o *Orchestrator) {
		if len(transformers) == 0 {
			return
		}
		o.transformers = append(o.transformers, transformers...)
	}
}

// Orchestrator coordinates the pipeline from schema document to rendered
// descriptor output. It applies sensible defaults (JSON Schema adapter, text
// renderer, embedded templates) while remaining open to dependency injection
// for advanced callers.
type Orchestrator struct {
	loader          jsonschema.Loader
	adapterRegistry *AdapterRegistry
	pendingAdapters []schema.FormatAdapter
	defaultAdapter  string
	resolverOptions jsonschema.ResolveOptions
	registry        *render.Registry
	defaultRenderer string
	transformers    []Transformer
	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations so callers
// can start with a single constructor call.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: render.DefaultRendererName,
		defaultAdapter:  jsonschema.DefaultAdapterName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to render descriptors from a schema
// document.
type Request struct {
	// Source identifies where the schema document lives. Optional when
	// Document is supplied.
	Source schema.Source

	// Document allows callers to bypass the loader when they already have a
	// raw payload.
	Document *schema.Document

	// Format names the adapter to use. Empty means payload detection, falling
	// back to the configured default adapter.
	Format string

	// Renderer names the renderer to use. If empty, the orchestrator falls
	// back to the configured default renderer.
	Renderer string

	// RenderOptions carries per-request presentation inputs (group prefix,
	// title, inline template). When omitted, renderers receive the zero value.
	RenderOptions render.RenderOptions
}

// Generate executes the load → normalize → extract → transform → render
// sequence and returns the rendered bytes.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	descriptors, err := o.Descriptors(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, descriptors, req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Descriptors runs the pipeline up to the transformed descriptor list,
// skipping rendering. Callers that need structured output use this.
func (o *Orchestrator) Descriptors(ctx context.Context, req Request) ([]descriptor.Descriptor, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	if !o.defaultsApplied {
		o.applyDefaults()
		if err := o.initialiseErr; err != nil {
			return nil, err
		}
	}

	adapter, err := o.resolveAdapter(ctx, req)
	if err != nil {
		return nil, err
	}

	doc, err := o.resolveDocument(ctx, req, adapter)
	if err != nil {
		return nil, err
	}

	root, err := adapter.Normalize(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: normalize document: %w", err)
	}

	descriptors, err := descriptor.Extract(root)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: extract descriptors: %w", err)
	}

	return o.applyTransformers(ctx, descriptors)
}

func (o *Orchestrator) resolveAdapter(ctx context.Context, req Request) (schema.FormatAdapter, error) {
	if o.adapterRegistry == nil {
		return nil, errors.New("orchestrator: adapter registry is nil")
	}

	if format := strings.TrimSpace(req.Format); format != "" {
		return o.adapterRegistry.Get(format)
	}

	raw, src, err := o.rawForDetection(ctx, req)
	if err != nil {
		return nil, err
	}

	matches := o.adapterRegistry.Detect(src, raw)
	switch len(matches) {
	case 0:
		if o.defaultAdapter == "" {
			return nil, errors.New("orchestrator: unable to detect document format")
		}
		return o.adapterRegistry.Get(o.defaultAdapter)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("orchestrator: multiple adapters matched payload (%s), specify a format", formatAdapterNames(matches))
	}
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request, adapter schema.FormatAdapter) (schema.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return schema.Document{}, errors.New("orchestrator: source or document is required")
	}
	doc, err := adapter.Load(ctx, req.Source)
	if err != nil {
		return schema.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) rawForDetection(ctx context.Context, req Request) ([]byte, schema.Source, error) {
	switch {
	case req.Document != nil:
		return req.Document.Raw(), req.Document.Source(), nil
	case req.Source != nil:
		if o.loader == nil {
			return nil, nil, errors.New("orchestrator: loader is nil")
		}
		doc, err := o.loader.Load(ctx, req.Source)
		if err != nil {
			return nil, nil, fmt.Errorf("orchestrator: load document for detection: %w", err)
		}
		return doc.Raw(), req.Source, nil
	default:
		return nil, nil, errors.New("orchestrator: source or document is required")
	}
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyTransformers(ctx context.Context, descriptors []descriptor.Descriptor) ([]descriptor.Descriptor, error) {
	for _, transformer := range o.transformers {
		if transformer == nil {
			continue
		}
		transformed, err := transformer.Transform(ctx, descriptors)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: transform descriptors: %w", err)
		}
		descriptors = transformed
	}
	return descriptors, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.loader == nil {
		o.loader = internalLoader.New(jsonschema.NewLoaderOptions(), nil)
	}
	if o.adapterRegistry == nil {
		o.adapterRegistry = NewAdapterRegistry()
	}
	for _, adapter := range o.pendingAdapters {
		if err := o.adapterRegistry.Register(adapter); err != nil {
			o.initialiseErr = err
			return
		}
	}
	o.pendingAdapters = nil
	if !o.adapterRegistry.Has(jsonschema.DefaultAdapterName) {
		o.adapterRegistry.MustRegister(jsonschema.NewAdapter(o.loader,
			jsonschema.WithResolverOptions(o.resolverOptions)))
	}

	if o.registry == nil {
		o.registry = render.NewRegistry()
		o.registry.MustRegister(render.NewTextRenderer())
		o.registry.MustRegister(render.NewMarkdownRenderer())
		templateRenderer, err := render.NewTemplateRenderer()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default template renderer: %w", err)
		} else {
			o.registry.MustRegister(templateRenderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = render.DefaultRendererName
	}

	o.defaultsApplied = true
}

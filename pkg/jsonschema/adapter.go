package jsonschema

import (
	"context"
	"errors"

	"github.com/goliatone/go-schemadoc/pkg/schema"
)

const DefaultAdapterName = "jsonschema"

// Adapter wraps JSON Schema parsing and normalization behind the schema
// adapter interface.
type Adapter struct {
	loader   Loader
	resolver *Resolver
}

var _ schema.FormatAdapter = (*Adapter)(nil)

// AdapterOption configures a JSON Schema adapter.
type AdapterOption func(*adapterOptions)

type adapterOptions struct {
	resolver       *Resolver
	resolverConfig ResolveOptions
}

// WithResolver injects a custom resolver implementation.
func WithResolver(resolver *Resolver) AdapterOption {
	return func(opts *adapterOptions) {
		opts.resolver = resolver
	}
}

// WithResolverOptions supplies options to the default resolver.
func WithResolverOptions(options ResolveOptions) AdapterOption {
	return func(opts *adapterOptions) {
		opts.resolverConfig = options
	}
}

// NewAdapter constructs a JSON Schema adapter with the supplied loader.
func NewAdapter(loader Loader, options ...AdapterOption) *Adapter {
	opts := adapterOptions{}
	for _, opt := range options {
		opt(&opts)
	}

	resolver := opts.resolver
	if resolver == nil {
		resolver = NewResolver(loader, opts.resolverConfig)
	}

	return &Adapter{
		loader:   loader,
		resolver: resolver,
	}
}

// Name returns the adapter registry identifier.
func (a *Adapter) Name() string {
	return DefaultAdapterName
}

// Detect reports whether the raw payload appears to be JSON Schema.
func (a *Adapter) Detect(_ schema.Source, raw []byte) bool {
	return detectSchema(raw)
}

// Load fetches the raw JSON Schema document. File-backed sources are checked
// for a loadable extension before any I/O happens.
func (a *Adapter) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if a == nil || a.loader == nil {
		return schema.Document{}, errors.New("jsonschema adapter: loader is nil")
	}
	if src != nil && (src.Kind() == SourceKindFile || src.Kind() == SourceKindFS) {
		if err := CheckExtension(src.Location()); err != nil {
			return schema.Document{}, err
		}
	}
	doc, err := a.loader.Load(ctx, src)
	if err != nil {
		return schema.Document{}, err
	}
	return schema.NewDocument(doc.Source(), doc.Raw())
}

// Normalize resolves refs and converts JSON Schema into the canonical schema
// tree.
func (a *Adapter) Normalize(ctx context.Context, doc schema.Document) (schema.Schema, error) {
	if a == nil || a.resolver == nil {
		return schema.Schema{}, errors.New("jsonschema adapter: resolver is nil")
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return schema.Schema{}, errors.New("jsonschema adapter: empty document")
	}

	payload, err := parseSchemaPayload(raw)
	if err != nil {
		return schema.Schema{}, err
	}

	if err := validateDialect(payload); err != nil {
		return schema.Schema{}, err
	}

	resolved, err := a.resolver.Resolve(ctx, doc, payload)
	if err != nil {
		return schema.Schema{}, err
	}

	return schemaFromRaw(resolved, "#")
}

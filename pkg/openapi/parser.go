package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-schemadoc/pkg/schema"
)

// Parser resolves OpenAPI documents with kin-openapi and converts schemas
// into the canonical tree.
type Parser struct {
	options ParserOptions
}

// ParserOptions configures document parsing.
type ParserOptions struct {
	// ResolveReferences controls whether the parser validates the document,
	// which forces eager $ref resolution. Defaults to true.
	ResolveReferences bool

	// AllowExternalRefs permits refs pointing outside the document.
	AllowExternalRefs bool
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithReferenceResolution toggles eager reference resolution.
func WithReferenceResolution(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.ResolveReferences = enabled
	}
}

// WithExternalRefs toggles loading refs that point outside the document.
func WithExternalRefs(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.AllowExternalRefs = enabled
	}
}

// NewParserOptions applies ParserOption functions and returns the resulting
// configuration.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{
		ResolveReferences: true,
	}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}

// NewParser constructs a Parser with the given options.
func NewParser(options ParserOptions) *Parser {
	return &Parser{options: options}
}

// Component converts the named component schema into the canonical tree.
func (p *Parser) Component(ctx context.Context, doc Document, name string) (schema.Schema, error) {
	spec, err := p.load(ctx, doc)
	if err != nil {
		return schema.Schema{}, err
	}
	if spec.Components == nil || spec.Components.Schemas == nil {
		return schema.Schema{}, fmt.Errorf("%w: %q", ErrComponentNotFound, name)
	}
	ref, ok := spec.Components.Schemas[name]
	if !ok {
		return schema.Schema{}, fmt.Errorf("%w: %q", ErrComponentNotFound, name)
	}
	return convertSchemaRef(ref, newConversionState()), nil
}

// ComponentNames lists the document's component schema names, sorted.
func (p *Parser) ComponentNames(ctx context.Context, doc Document) ([]string, error) {
	spec, err := p.load(ctx, doc)
	if err != nil {
		return nil, err
	}
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(spec.Components.Schemas))
	for name := range spec.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// RequestBody converts the JSON request body schema of the identified
// operation into the canonical tree. Operations without an operationId match
// on the "method:path" fallback identifier, lowercase method.
func (p *Parser) RequestBody(ctx context.Context, doc Document, operationID string) (schema.Schema, error) {
	spec, err := p.load(ctx, doc)
	if err != nil {
		return schema.Schema{}, err
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return schema.Schema{}, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}

	ref := requestBodySchema(operation.RequestBody)
	if ref == nil {
		return schema.Schema{}, fmt.Errorf("%w: operation %q has no request body schema", ErrOperationNotFound, operationID)
	}
	return convertSchemaRef(ref, newConversionState()), nil
}

func (p *Parser) load(ctx context.Context, doc Document) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: p.options.AllowExternalRefs,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}

	if p.options.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}
	return spec, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec.Paths == nil {
		return nil
	}
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, operation := range item.Operations() {
			if operation == nil {
				continue
			}
			id := operation.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			if id == operationID {
				return operation
			}
		}
	}
	return nil
}

func requestBodySchema(body *openapi3.RequestBodyRef) *openapi3.SchemaRef {
	if body == nil || body.Value == nil {
		return nil
	}
	if mt, ok := body.Value.Content["application/json"]; ok && mt.Schema != nil {
		return mt.Schema
	}
	for _, mt := range body.Value.Content {
		if mt.Schema != nil {
			return mt.Schema
		}
	}
	return nil
}

// conversionState guards against cyclic schema graphs. Dereferenced OpenAPI
// documents can be cyclic even though JSON Schema input never is; a revisited
// node converts to its bare type with no descent.
type conversionState struct {
	visiting map[*openapi3.Schema]struct{}
}

func newConversionState() *conversionState {
	return &conversionState{visiting: make(map[*openapi3.Schema]struct{})}
}

func convertSchemaRef(ref *openapi3.SchemaRef, state *conversionState) schema.Schema {
	if ref == nil || ref.Value == nil {
		return schema.Schema{}
	}
	src := ref.Value

	if _, seen := state.visiting[src]; seen {
		return schema.Schema{Type: firstSchemaType(src.Type)}
	}
	state.visiting[src] = struct{}{}
	defer delete(state.visiting, src)

	out := schema.Schema{
		Type:        firstSchemaType(src.Type),
		Format:      src.Format,
		Pattern:     src.Pattern,
		Title:       src.Title,
		Description: src.Description,
		Default:     src.Default,
	}

	if len(src.Enum) > 0 {
		out.Enum = append([]any(nil), src.Enum...)
	}
	if len(src.Required) > 0 {
		out.Required = append([]string(nil), src.Required...)
	}
	if len(src.Properties) > 0 {
		out.Properties = make(map[string]schema.Schema, len(src.Properties))
		for name, property := range src.Properties {
			out.Properties[name] = convertSchemaRef(property, state)
		}
	}
	if src.Items != nil {
		out.Items = []schema.Schema{convertSchemaRef(src.Items, state)}
	}
	for _, member := range src.AllOf {
		out.AllOf = append(out.AllOf, convertSchemaRef(member, state))
	}

	if src.Min != nil {
		value := *src.Min
		out.Minimum = &value
	}
	if src.Max != nil {
		value := *src.Max
		out.Maximum = &value
	}
	out.ExclusiveMinimum = src.ExclusiveMin
	out.ExclusiveMaximum = src.ExclusiveMax

	if src.MinLength != 0 {
		value := int(src.MinLength)
		out.MinLength = &value
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		out.MaxLength = &value
	}
	if src.MinItems != 0 {
		value := int(src.MinItems)
		out.MinItems = &value
	}
	if src.MaxItems != nil {
		value := int(*src.MaxItems)
		out.MaxItems = &value
	}

	out.Extensions = vendorExtensions(src.Extensions)
	return out
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func vendorExtensions(raw map[string]any) map[string]any {
	if len(raw) == 0 {
		return nil
	}
	out := make(map[string]any, len(raw))
	for key, value := range raw {
		if strings.HasPrefix(key, "x-") {
			out[key] = value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

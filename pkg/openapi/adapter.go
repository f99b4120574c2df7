package openapi

import (
	"bytes"
	"context"
	"errors"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-schemadoc/pkg/schema"
)

const DefaultAdapterName = "openapi"

// Selection names the schema inside an OpenAPI document that the adapter
// normalizes. Exactly one of the fields should be set; Component wins when
// both are.
type Selection struct {
	// Component names a schema under components/schemas.
	Component string
	// OperationID selects an operation's JSON request body schema.
	OperationID string
}

func (s Selection) empty() bool {
	return strings.TrimSpace(s.Component) == "" && strings.TrimSpace(s.OperationID) == ""
}

// Adapter wraps the OpenAPI loader/parser flow behind the schema adapter
// interface.
type Adapter struct {
	loader    Loader
	parser    *Parser
	selection Selection
}

var _ schema.FormatAdapter = (*Adapter)(nil)

// AdapterOption configures an OpenAPI adapter.
type AdapterOption func(*Adapter)

// WithParser injects a custom parser implementation.
func WithParser(parser *Parser) AdapterOption {
	return func(a *Adapter) {
		if parser != nil {
			a.parser = parser
		}
	}
}

// WithSelection picks the schema the adapter normalizes.
func WithSelection(selection Selection) AdapterOption {
	return func(a *Adapter) {
		a.selection = selection
	}
}

// NewAdapter constructs an OpenAPI adapter with the supplied loader.
func NewAdapter(loader Loader, options ...AdapterOption) *Adapter {
	a := &Adapter{loader: loader}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(a)
	}
	if a.parser == nil {
		a.parser = NewParser(NewParserOptions())
	}
	return a
}

// Name returns the adapter registry identifier.
func (a *Adapter) Name() string {
	return DefaultAdapterName
}

// Detect reports whether the raw payload appears to be OpenAPI.
func (a *Adapter) Detect(_ schema.Source, raw []byte) bool {
	return detectOpenAPI(raw)
}

// Load fetches the raw OpenAPI document.
func (a *Adapter) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if a == nil || a.loader == nil {
		return schema.Document{}, errors.New("openapi adapter: loader is nil")
	}
	doc, err := a.loader.Load(ctx, src)
	if err != nil {
		return schema.Document{}, err
	}
	return schema.NewDocument(doc.Source(), doc.Raw())
}

// Normalize converts the selected schema into the canonical tree.
func (a *Adapter) Normalize(ctx context.Context, doc schema.Document) (schema.Schema, error) {
	if a == nil || a.parser == nil {
		return schema.Schema{}, errors.New("openapi adapter: parser is nil")
	}
	if a.selection.empty() {
		return schema.Schema{}, ErrNoSelection
	}
	if component := strings.TrimSpace(a.selection.Component); component != "" {
		return a.parser.Component(ctx, doc, component)
	}
	return a.parser.RequestBody(ctx, doc, strings.TrimSpace(a.selection.OperationID))
}

func detectOpenAPI(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	if trimmed[0] == '{' {
		var payload map[string]any
		if err := json.Unmarshal(trimmed, &payload); err == nil {
			if _, ok := payload["openapi"]; ok {
				return true
			}
			if _, ok := payload["swagger"]; ok {
				return true
			}
		}
		return false
	}
	lower := strings.ToLower(string(trimmed))
	return strings.Contains(lower, "openapi:") || strings.Contains(lower, "swagger:")
}

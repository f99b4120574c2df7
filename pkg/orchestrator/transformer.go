package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-schemadoc/pkg/descriptor"
)

// Transformer rewrites the extracted descriptor list before rendering.
// Implementations can rename fields, drop entries, or override prose.
type Transformer interface {
	Transform(ctx context.Context, descriptors []descriptor.Descriptor) ([]descriptor.Descriptor, error)
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, descriptors []descriptor.Descriptor) ([]descriptor.Descriptor, error)

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, descriptors []descriptor.Descriptor) ([]descriptor.Descriptor, error) {
	if fn == nil {
		return descriptors, nil
	}
	return fn(ctx, descriptors)
}

// JSONPresetTransformer applies declarative per-field patches loaded from a
// JSON document. Fields are addressed by descriptor name; a patch applies to
// every descriptor carrying that name. The document shape:
//
//	{
//	  "fields": {
//	    "title": {"rename": "headline", "description": "Article headline"},
//	    "legacy_id": {"drop": true}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

var _ Transformer = (*JSONPresetTransformer)(nil)

type jsonTransformDocument struct {
	Fields map[string]jsonFieldPatch `json:"fields"`
}

type jsonFieldPatch struct {
	Rename      string `json:"rename"`
	Description string `json:"description"`
	Drop        bool   `json:"drop"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches onto the descriptor list. A patch
// naming a field absent from the list is an error so stale presets surface
// instead of silently doing nothing.
func (t *JSONPresetTransformer) Transform(ctx context.Context, descriptors []descriptor.Descriptor) ([]descriptor.Descriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(t.document.Fields) == 0 {
		return descriptors, nil
	}

	matched := make(map[string]bool, len(t.document.Fields))
	out := make([]descriptor.Descriptor, 0, len(descriptors))
	for _, d := range descriptors {
		patch, ok := t.document.Fields[d.Name]
		if !ok {
			out = append(out, d)
			continue
		}
		matched[d.Name] = true
		if patch.Drop {
			continue
		}
		if rename := strings.TrimSpace(patch.Rename); rename != "" {
			d.Name = rename
		}
		if patch.Description != "" {
			d.Description = patch.Description
		}
		out = append(out, d)
	}

	for name := range t.document.Fields {
		if !matched[name] {
			return nil, fmt.Errorf("json preset transformer: field %q not found", name)
		}
	}
	return out, nil
}

package render

import (
	"context"
	"strings"

	"github.com/goliatone/go-schemadoc/pkg/descriptor"
)

// Lines renders each descriptor as its canonical line, prefixing every line
// with the group marker when one is set. Descriptions are sanitized to plain
// text; everything else is the byte-exact descriptor grammar.
func Lines(descriptors []descriptor.Descriptor, group string) []string {
	prefix := GroupPrefix(group)
	lines := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		d.Description = SanitizeDescription(d.Description)
		lines = append(lines, prefix+d.String())
	}
	return lines
}

// TextRenderer emits the canonical descriptor grammar, one line per field.
// This is the contract output format; the other renderers are presentation
// conveniences layered on the same descriptor list.
type TextRenderer struct{}

var _ Renderer = (*TextRenderer)(nil)

// NewTextRenderer constructs the canonical text renderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

func (r *TextRenderer) Name() string {
	return "text"
}

func (r *TextRenderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render joins the canonical lines with newlines. Empty descriptor lists
// yield empty output.
func (r *TextRenderer) Render(_ context.Context, descriptors []descriptor.Descriptor, options RenderOptions) ([]byte, error) {
	lines := Lines(descriptors, options.Group)
	if len(lines) == 0 {
		return nil, nil
	}
	return []byte(strings.Join(lines, "\n") + "\n"), nil
}

package render

import (
	"context"
	"strings"

	"github.com/goliatone/go-schemadoc/pkg/descriptor"
)

// MarkdownRenderer emits the descriptor list as a nested bullet list for
// docs sites. Nesting uses list indentation instead of name padding; the
// type-and-name segment keeps the descriptor grammar inside a code span.
type MarkdownRenderer struct{}

var _ Renderer = (*MarkdownRenderer)(nil)

// NewMarkdownRenderer constructs the markdown renderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

func (r *MarkdownRenderer) Name() string {
	return "markdown"
}

func (r *MarkdownRenderer) ContentType() string {
	return "text/markdown; charset=utf-8"
}

func (r *MarkdownRenderer) Render(_ context.Context, descriptors []descriptor.Descriptor, options RenderOptions) ([]byte, error) {
	var sb strings.Builder

	if heading := strings.TrimSpace(GroupPrefix(options.Group) + options.Title); heading != "" {
		sb.WriteString("## ")
		sb.WriteString(heading)
		sb.WriteString("\n\n")
	}

	for _, d := range descriptors {
		sb.WriteString(strings.Repeat("  ", d.Depth))
		sb.WriteString("- `{")
		sb.WriteString(d.TypeExpr())
		sb.WriteString("} ")
		sb.WriteString(markdownName(d))
		sb.WriteString("`")
		if description := SanitizeDescription(d.Description); description != "" {
			sb.WriteString(": ")
			sb.WriteString(description)
		}
		sb.WriteString("\n")
	}

	if sb.Len() == 0 {
		return nil, nil
	}
	return []byte(sb.String()), nil
}

// markdownName is the name segment without depth padding; list indentation
// already encodes nesting.
func markdownName(d descriptor.Descriptor) string {
	name := d.Name
	if lit := d.DefaultLiteral(); lit != "" {
		name += "=" + lit
	}
	if !d.Required {
		name = "[" + name + "]"
	}
	return name
}

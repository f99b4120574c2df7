package render

import "strings"

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the descriptor pipeline.
type RenderOptions struct {
	// Group carries the tag group name. When present every rendered line is
	// prefixed with "(<group>) ", matching the grouped documentation-tag
	// form.
	Group string
	// Title names the schema in formats that carry a heading. The text
	// renderer ignores it; it never appears in canonical lines.
	Title string
	// Template overrides the template renderer's configured template with
	// inline template source for a single render. Renderers without template
	// support ignore it.
	Template string
}

// GroupPrefix renders the per-line group marker, empty when no group is set.
func GroupPrefix(group string) string {
	group = strings.TrimSpace(group)
	if group == "" {
		return ""
	}
	return "(" + group + ") "
}

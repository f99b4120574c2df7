package doctag

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// RenderFunc resolves a schema reference and renders its descriptor lines.
// The group name is empty for ungrouped tags.
type RenderFunc func(ctx context.Context, group, path string) ([]string, error)

// commentLeaderPattern splits a comment line into indent, leader, optional
// spacing, and content. The leaders cover line comments (//, #) and block
// comment continuations (*).
var commentLeaderPattern = regexp.MustCompile(`^([ \t]*)(//|#|\*)( ?)(.*)$`)

// Rewriter expands schema tags inside comment blocks into rendered
// descriptor lines carrying the same comment leader.
type Rewriter struct {
	render RenderFunc
}

// NewRewriter builds a rewriter around the given render function.
func NewRewriter(render RenderFunc) *Rewriter {
	return &Rewriter{render: render}
}

// Rewrite scans the source line by line. Every schema tag line is kept and
// followed by that schema's freshly rendered descriptor lines, indent and
// leader preserved; a previously expanded block directly under the tag is
// replaced, so rewriting an already annotated file is idempotent. Lines
// without a recognized tag pass through byte-identical. A render failure
// aborts the whole rewrite; there is no partial output.
func (r *Rewriter) Rewrite(ctx context.Context, src []byte) ([]byte, bool, error) {
	if r == nil || r.render == nil {
		return nil, false, fmt.Errorf("doctag: render func is required")
	}

	lines := strings.Split(string(src), "\n")
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		match := commentLeaderPattern.FindStringSubmatch(line)
		if match == nil {
			out = append(out, line)
			continue
		}
		tag, ok := Parse(match[4])
		if !ok {
			out = append(out, line)
			continue
		}

		rendered, err := r.render(ctx, tag.Group, tag.Path)
		if err != nil {
			return nil, false, fmt.Errorf("doctag: line %d: expand %q: %w", i+1, tag.Path, err)
		}

		// The tag line stays so the source can be re-annotated later.
		out = append(out, line)
		prefix := match[1] + match[2] + leaderSpacing(match[3])
		for _, descriptorLine := range rendered {
			out = append(out, prefix+descriptorLine)
		}

		// Consume the previous expansion: comment lines directly under the
		// tag that carry the tag's group prefix and a brace-led type, up to
		// the first line of any other shape.
		blockPrefix := "{"
		if tag.Group != "" {
			blockPrefix = "(" + tag.Group + ") {"
		}
		for i+1 < len(lines) {
			next := commentLeaderPattern.FindStringSubmatch(lines[i+1])
			if next == nil {
				break
			}
			if _, isTag := Parse(next[4]); isTag {
				break
			}
			if !strings.HasPrefix(next[4], blockPrefix) {
				break
			}
			i++
		}
	}

	result := strings.Join(out, "\n")
	return []byte(result), result != string(src), nil
}

func leaderSpacing(captured string) string {
	if captured == "" {
		return " "
	}
	return captured
}

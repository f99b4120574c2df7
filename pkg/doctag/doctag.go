// Package doctag recognizes schema documentation tags and expands them
// inside comment blocks. A schema tag's content has the literal shape
// "{schema} <path>", optionally preceded by "(<group>)"; tags of any other
// shape belong to the host documentation tool and are left untouched.
package doctag

import (
	"regexp"
	"strings"
)

// Tag is one recognized schema tag.
type Tag struct {
	// Group is the optional group name, empty when the tag carries none.
	Group string
	// Path is the schema reference exactly as written in the tag.
	Path string
}

var schemaTagPattern = regexp.MustCompile(`^\s*(?:\(([^)]+)\)\s+)?\{schema\}\s+(\S+)\s*$`)

// Parse recognizes a schema tag. Content of any other shape reports false.
func Parse(content string) (Tag, bool) {
	match := schemaTagPattern.FindStringSubmatch(content)
	if match == nil {
		return Tag{}, false
	}
	return Tag{
		Group: strings.TrimSpace(match[1]),
		Path:  match[2],
	}, true
}

package render

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	descriptionPolicyOnce sync.Once
	descriptionPolicy     *bluemonday.Policy
)

// SanitizeDescription strips markup from schema prose so descriptor lines
// stay plain text. The strict policy escapes text content as HTML entities,
// which the unescape pass undoes; line breaks are collapsed so the result
// always fits a single descriptor line. Plain single-line prose passes
// through unchanged.
func SanitizeDescription(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	cleaned := descriptionSanitizer().Sanitize(trimmed)
	cleaned = html.UnescapeString(cleaned)
	return singleLine(cleaned)
}

func descriptionSanitizer() *bluemonday.Policy {
	descriptionPolicyOnce.Do(func() {
		descriptionPolicy = bluemonday.StrictPolicy()
	})
	return descriptionPolicy
}

// singleLine joins line fragments with single spaces, dropping blank
// fragments. Interior spacing inside a fragment is left alone.
func singleLine(value string) string {
	if !strings.ContainsAny(value, "\r\n") {
		return value
	}

	fragments := strings.FieldsFunc(value, func(r rune) bool {
		return r == '\r' || r == '\n'
	})
	parts := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		if trimmed := strings.TrimSpace(fragment); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " ")
}

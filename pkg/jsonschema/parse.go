package jsonschema

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"strings"
)

var supportedExtensions = map[string]struct{}{
	".json": {},
	".yaml": {},
	".yml":  {},
}

// SupportedExtension reports whether the path carries a loadable schema
// extension.
func SupportedExtension(name string) bool {
	_, ok := supportedExtensions[strings.ToLower(path.Ext(strings.TrimSpace(name)))]
	return ok
}

// CheckExtension validates the path extension before any I/O happens so
// callers fail with a load error instead of a parse error.
func CheckExtension(name string) error {
	if !SupportedExtension(name) {
		return fmt.Errorf("%w: %q", ErrUnsupportedExtension, name)
	}
	return nil
}

func parseSchemaPayload(raw []byte) (*RawObject, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("jsonschema: raw schema is empty")
	}
	decoded, err := decodeDocument(trimmed)
	if err != nil {
		return nil, err
	}
	payload, ok := decoded.(*RawObject)
	if !ok || payload == nil {
		return nil, errors.New("jsonschema: schema document is not an object")
	}
	return payload, nil
}

// validateDialect accepts the drafts the normalizer understands. $schema is
// optional; documents without it are treated as draft 2020-12.
func validateDialect(payload *RawObject) error {
	value := strings.TrimSpace(readString(payload, "$schema"))
	if value == "" {
		return nil
	}
	if !supportedDialect(value) {
		return fmt.Errorf("%w: %q", ErrUnsupportedDialect, value)
	}
	return nil
}

func supportedDialect(value string) bool {
	trimmed := strings.TrimSuffix(strings.TrimSpace(value), "#")
	trimmed = strings.TrimPrefix(trimmed, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")
	switch trimmed {
	case "json-schema.org/draft/2020-12/schema",
		"json-schema.org/draft/2019-09/schema",
		"json-schema.org/draft-07/schema",
		"json-schema.org/draft-04/schema":
		return true
	default:
		return false
	}
}

// detectSchema reports whether the raw payload appears to be a standalone JSON
// Schema document rather than an OpenAPI one.
func detectSchema(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	decoded, err := decodeDocument(trimmed)
	if err != nil {
		return false
	}
	payload, ok := decoded.(*RawObject)
	if !ok || payload == nil {
		return false
	}
	if _, ok := payload.Get("openapi"); ok {
		return false
	}
	if _, ok := payload.Get("swagger"); ok {
		return false
	}
	for _, marker := range []string{"$schema", "$id", "$defs", "definitions", "properties", "type", "items"} {
		if _, ok := payload.Get(marker); ok {
			return true
		}
	}
	return false
}

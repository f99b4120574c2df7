package openapi

import "github.com/goliatone/go-schemadoc/pkg/schema"

// Document wraps the raw OpenAPI payload and its origin. This is an alias to
// the canonical schema.Document so loaders serve both adapters unchanged.
type Document = schema.Document

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	return schema.NewDocument(src, raw)
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	return schema.MustNewDocument(src, raw)
}

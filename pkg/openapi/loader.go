package openapi

import "context"

// Loader fetches OpenAPI documents from different sources. The contract has
// the same shape as the JSON Schema loader, so a single internal/loader
// instance serves both adapters.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

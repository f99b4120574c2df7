package jsonschema

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-schemadoc/pkg/schema"
)

// Loader fetches JSON Schema documents from different sources. This is an
// alias to the canonical schema loader contract so format adapters share one
// definition; implementations live under internal/loader.
type Loader = schema.Loader

// LoaderOptions configures how a Loader resolves sources. Loading stays
// offline unless HTTP is explicitly enabled.
type LoaderOptions = schema.LoaderOptions

// LoaderOption mutates LoaderOptions prior to construction.
type LoaderOption = schema.LoaderOption

// WithFileSystem injects an fs.FS implementation for relative paths.
func WithFileSystem(files fs.FS) LoaderOption {
	return schema.WithFileSystem(files)
}

// WithHTTPClient injects a custom HTTP client for remote schema documents.
func WithHTTPClient(client *http.Client) LoaderOption {
	return schema.WithHTTPClient(client)
}

// WithHTTPFallback enables HTTP loading using http.DefaultClient and assigns an
// optional timeout.
func WithHTTPFallback(timeout time.Duration) LoaderOption {
	return schema.WithHTTPFallback(timeout)
}

// WithDefaultSources enables the built-in HTTP loader using the default client
// when no explicit client is provided.
func WithDefaultSources() LoaderOption {
	return schema.WithDefaultSources()
}

// NewLoaderOptions applies a set of LoaderOption values and returns the
// resulting configuration.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	return schema.NewLoaderOptions(options...)
}

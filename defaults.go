package schemadoc

import (
	"log/slog"

	internalLoader "github.com/goliatone/go-schemadoc/internal/loader"
	"github.com/goliatone/go-schemadoc/pkg/jsonschema"
	"github.com/goliatone/go-schemadoc/pkg/render"
)

// NewLoader constructs a document loader using the internal implementation
// while keeping the concrete type hidden from consumers.
func NewLoader(options ...jsonschema.LoaderOption) jsonschema.Loader {
	cfg := jsonschema.NewLoaderOptions(options...)
	return internalLoader.New(cfg, nil)
}

// NewLoaderWithLogger is NewLoader with an explicit slog logger for the I/O
// layer.
func NewLoaderWithLogger(log *slog.Logger, options ...jsonschema.LoaderOption) jsonschema.Loader {
	cfg := jsonschema.NewLoaderOptions(options...)
	return internalLoader.New(cfg, log)
}

// NewDefaultRegistry returns a renderer registry with the built-in renderers
// registered: text, markdown, and template.
func NewDefaultRegistry() (*render.Registry, error) {
	registry := render.NewRegistry()
	registry.MustRegister(render.NewTextRenderer())
	registry.MustRegister(render.NewMarkdownRenderer())
	templateRenderer, err := render.NewTemplateRenderer()
	if err != nil {
		return nil, err
	}
	registry.MustRegister(templateRenderer)
	return registry, nil
}

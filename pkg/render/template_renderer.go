package render

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-schemadoc/pkg/descriptor"
	rendertemplate "github.com/goliatone/go-schemadoc/pkg/render/template"
	gotemplate "github.com/goliatone/go-schemadoc/pkg/render/template/gotemplate"
)

const defaultTemplateName = "templates/descriptors"

// TemplateOption configures the template renderer.
type TemplateOption func(*templateConfig)

type templateConfig struct {
	engine       rendertemplate.TemplateRenderer
	templateFS   fs.FS
	templateName string
	source       string
}

// WithTemplateFS supplies an alternate template bundle via fs.FS.
func WithTemplateFS(files fs.FS) TemplateOption {
	return func(cfg *templateConfig) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) TemplateOption {
	return func(cfg *templateConfig) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateName picks the template rendered by default. The engine
// extension is appended automatically.
func WithTemplateName(name string) TemplateOption {
	return func(cfg *templateConfig) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cfg.templateName = trimmed
		}
	}
}

// WithTemplateSource renders inline template content instead of a named
// template.
func WithTemplateSource(source string) TemplateOption {
	return func(cfg *templateConfig) {
		cfg.source = source
	}
}

// WithTemplateEngine injects a custom template engine implementation.
func WithTemplateEngine(engine rendertemplate.TemplateRenderer) TemplateOption {
	return func(cfg *templateConfig) {
		if engine != nil {
			cfg.engine = engine
		}
	}
}

// TemplateRenderer renders the descriptor list through a user template. The
// built-in template reproduces the canonical text output; callers override it
// with their own line formats per construction or per render call.
type TemplateRenderer struct {
	engine       rendertemplate.TemplateRenderer
	templateName string
	source       string
}

var _ Renderer = (*TemplateRenderer)(nil)

// NewTemplateRenderer constructs the template renderer applying any provided
// options.
func NewTemplateRenderer(options ...TemplateOption) (*TemplateRenderer, error) {
	cfg := templateConfig{
		templateFS:   TemplatesFS(),
		templateName: defaultTemplateName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	engine := cfg.engine
	if engine == nil {
		files := cfg.templateFS
		if files == nil {
			files = TemplatesFS()
		}
		built, err := gotemplate.New(gotemplate.WithFS(files))
		if err != nil {
			return nil, fmt.Errorf("render: configure template engine: %w", err)
		}
		engine = built
	}

	return &TemplateRenderer{
		engine:       engine,
		templateName: cfg.templateName,
		source:       cfg.source,
	}, nil
}

func (r *TemplateRenderer) Name() string {
	return "template"
}

func (r *TemplateRenderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render executes the template against the descriptor context. An inline
// template in the options wins over the construction-time configuration.
func (r *TemplateRenderer) Render(_ context.Context, descriptors []descriptor.Descriptor, options RenderOptions) ([]byte, error) {
	if r.engine == nil {
		return nil, fmt.Errorf("render: template engine is nil")
	}

	data := templateContext(descriptors, options)

	var (
		result string
		err    error
	)
	switch {
	case strings.TrimSpace(options.Template) != "":
		result, err = r.engine.RenderString(options.Template, data)
	case r.source != "":
		result, err = r.engine.RenderString(r.source, data)
	default:
		result, err = r.engine.RenderTemplate(r.templateName, data)
	}
	if err != nil {
		return nil, fmt.Errorf("render: render template: %w", err)
	}
	return []byte(result), nil
}

// templateContext exposes the descriptor list to templates. Each entry
// carries the structured facts plus the prerendered canonical line so simple
// templates stay one-liners.
func templateContext(descriptors []descriptor.Descriptor, options RenderOptions) map[string]any {
	prefix := GroupPrefix(options.Group)

	entries := make([]map[string]any, 0, len(descriptors))
	for _, d := range descriptors {
		d.Description = SanitizeDescription(d.Description)
		entries = append(entries, map[string]any{
			"name":        d.Name,
			"depth":       d.Depth,
			"padding":     strings.Repeat(" ", d.Depth),
			"required":    d.Required,
			"type":        d.TypeExpr(),
			"default":     d.DefaultLiteral(),
			"enum":        d.Enum,
			"description": d.Description,
			"line":        prefix + d.String(),
		})
	}

	return map[string]any{
		"descriptors": entries,
		"group":       strings.TrimSpace(options.Group),
		"prefix":      prefix,
		"title":       strings.TrimSpace(options.Title),
	}
}

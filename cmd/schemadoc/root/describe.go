package root

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	schemadoc "github.com/goliatone/go-schemadoc"
	"github.com/goliatone/go-schemadoc/internal/prompt"
	"github.com/goliatone/go-schemadoc/pkg/jsonschema"
	"github.com/goliatone/go-schemadoc/pkg/openapi"
	"github.com/goliatone/go-schemadoc/pkg/orchestrator"
	"github.com/goliatone/go-schemadoc/pkg/render"
	"github.com/goliatone/go-schemadoc/pkg/schema"
)

var describeFlags struct {
	renderer  string
	group     string
	title     string
	template  string
	output    string
	format    string
	component string
	operation string
	preset    string
	baseDirs  []string
}

var describeCmd = &cobra.Command{
	Use:   "describe [schema]",
	Short: "Render a schema document as descriptor lines",
	Long: `Describe resolves a JSON Schema (or OpenAPI) document, extracts one
descriptor per leaf field, and renders the list with the selected renderer.
Without a schema argument the configured schema directories are scanned and
the schema is picked interactively.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDescribe,
}

func init() {
	flags := describeCmd.Flags()
	flags.StringVarP(&describeFlags.renderer, "renderer", "r", "", "renderer to use (default from config)")
	flags.StringVarP(&describeFlags.group, "group", "g", "", "group name prefixed to every line")
	flags.StringVar(&describeFlags.title, "title", "", "title for renderers that carry a heading")
	flags.StringVar(&describeFlags.template, "template", "", "inline template file overriding the template renderer")
	flags.StringVarP(&describeFlags.output, "output", "o", "", "output file (stdout if empty)")
	flags.StringVar(&describeFlags.format, "format", "", "force a format adapter (jsonschema, openapi)")
	flags.StringVar(&describeFlags.component, "component", "", "OpenAPI component schema to describe")
	flags.StringVar(&describeFlags.operation, "operation", "", "OpenAPI operation whose request body to describe")
	flags.StringVar(&describeFlags.preset, "preset", "", "JSON preset document patching descriptors before rendering")
	flags.StringSliceVar(&describeFlags.baseDirs, "base-dir", nil, "candidate directory for relative $ref resolution (repeatable)")
}

func runDescribe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	interactive := len(args) == 0

	schemaPath := ""
	if len(args) == 1 {
		schemaPath = args[0]
	} else {
		picked, err := pickSchema(ctx)
		if err != nil {
			return err
		}
		schemaPath = picked
	}

	rendererName := describeFlags.renderer
	if rendererName == "" && interactive {
		picked, err := pickRenderer(ctx)
		if err != nil {
			return err
		}
		rendererName = picked
	}

	group := firstNonEmpty(describeFlags.group, cfg.Group)
	if group == "" && interactive {
		entered, err := driver.Input(ctx, prompt.InputConfig{
			Message:   "Group prefix (empty for none):",
			Validator: validateGroup,
		})
		if err != nil {
			return err
		}
		group = strings.TrimSpace(entered)
	}

	options, err := pipelineOptions()
	if err != nil {
		return err
	}
	gen := schemadoc.New(options...)

	renderOptions := render.RenderOptions{
		Group: group,
		Title: describeFlags.title,
	}
	if describeFlags.template != "" {
		raw, err := os.ReadFile(describeFlags.template)
		if err != nil {
			return fmt.Errorf("read template: %w", err)
		}
		renderOptions.Template = string(raw)
	}

	output, err := gen.Generate(ctx, orchestrator.Request{
		Source:        schema.SourceFromFile(schemaPath),
		Format:        describeFlags.format,
		Renderer:      rendererName,
		RenderOptions: renderOptions,
	})
	if err != nil {
		return err
	}

	if describeFlags.output != "" {
		if interactive {
			if _, statErr := os.Stat(describeFlags.output); statErr == nil {
				ok, err := driver.Confirm(ctx, prompt.ConfirmConfig{
					Message: fmt.Sprintf("Overwrite %s?", describeFlags.output),
				})
				if err != nil {
					return err
				}
				if !ok {
					return prompt.ErrAborted
				}
			}
		}
		if err := os.WriteFile(describeFlags.output, output, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		message := fmt.Sprintf("Descriptors written to %s", describeFlags.output)
		if interactive {
			return driver.Info(ctx, message)
		}
		fmt.Fprintln(cmd.OutOrStdout(), message)
		return nil
	}
	_, err = cmd.OutOrStdout().Write(output)
	return err
}

// pipelineOptions builds the orchestrator configuration shared by describe
// and annotate from config plus command flags.
func pipelineOptions() ([]orchestrator.Option, error) {
	loaderOptions := []jsonschema.LoaderOption{}
	if cfg.AllowHTTP {
		loaderOptions = append(loaderOptions, jsonschema.WithHTTPFallback(cfg.HTTPTimeout))
	}
	loader := schemadoc.NewLoader(loaderOptions...)

	baseDirs := append(append([]string(nil), cfg.BaseDirs...), describeFlags.baseDirs...)

	options := []orchestrator.Option{
		orchestrator.WithLoader(loader),
		orchestrator.WithResolverOptions(jsonschema.ResolveOptions{
			BaseDirs:      baseDirs,
			AllowHTTPRefs: cfg.AllowHTTP,
		}),
		orchestrator.WithDefaultRenderer(cfg.Renderer),
	}

	if cfg.TemplatesDir != "" {
		registry := render.NewRegistry()
		registry.MustRegister(render.NewTextRenderer())
		registry.MustRegister(render.NewMarkdownRenderer())
		templateRenderer, err := render.NewTemplateRenderer(render.WithTemplatesDir(cfg.TemplatesDir))
		if err != nil {
			return nil, fmt.Errorf("template renderer: %w", err)
		}
		registry.MustRegister(templateRenderer)
		options = append(options, orchestrator.WithRegistry(registry))
	}

	if describeFlags.component != "" || describeFlags.operation != "" {
		options = append(options, orchestrator.WithAdapter(openapi.NewAdapter(loader,
			openapi.WithSelection(openapi.Selection{
				Component:   describeFlags.component,
				OperationID: describeFlags.operation,
			}))))
	}

	if describeFlags.preset != "" {
		raw, err := os.ReadFile(describeFlags.preset)
		if err != nil {
			return nil, fmt.Errorf("read preset: %w", err)
		}
		preset, err := orchestrator.NewJSONPresetTransformer(raw)
		if err != nil {
			return nil, err
		}
		options = append(options, orchestrator.WithTransformers(preset))
	}

	return options, nil
}

func pickSchema(ctx context.Context) (string, error) {
	dirs := cfg.SchemaDirs
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	var candidates []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if jsonschema.SupportedExtension(entry.Name()) {
				candidates = append(candidates, filepath.Join(dir, entry.Name()))
			}
		}
	}
	sort.Strings(candidates)
	if len(candidates) == 0 {
		return "", fmt.Errorf("no schema documents found under %s", strings.Join(dirs, ", "))
	}

	index, err := driver.Select(ctx, prompt.SelectConfig{
		Message:  "Schema document:",
		Options:  candidates,
		PageSize: 12,
	})
	if err != nil {
		return "", err
	}
	if index < 0 || index >= len(candidates) {
		return "", fmt.Errorf("no schema selected")
	}
	return candidates[index], nil
}

func pickRenderer(ctx context.Context) (string, error) {
	registry, err := schemadoc.NewDefaultRegistry()
	if err != nil {
		return "", err
	}
	names := registry.List()

	defaultIndex := 0
	for i, name := range names {
		if name == cfg.Renderer {
			defaultIndex = i
		}
	}

	index, err := driver.Select(ctx, prompt.SelectConfig{
		Message:      "Renderer:",
		Options:      names,
		DefaultIndex: defaultIndex,
	})
	if err != nil {
		return "", err
	}
	if index < 0 || index >= len(names) {
		return "", fmt.Errorf("no renderer selected")
	}
	return names[index], nil
}

// validateGroup rejects group names that would break the "(group) " line
// prefix.
func validateGroup(value string) error {
	if strings.ContainsAny(value, "()") {
		return fmt.Errorf("group must not contain parentheses")
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

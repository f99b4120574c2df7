// Package root wires the schemadoc CLI: configuration, logging, and the
// describe, annotate, and renderers subcommands.
package root

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-schemadoc/internal/config"
	"github.com/goliatone/go-schemadoc/internal/prompt"
)

var (
	cfg    *config.Config
	driver prompt.Driver

	rootCmd = &cobra.Command{
		Use:   "schemadoc",
		Short: "Render JSON Schema documents as documentation descriptor lines",
		Long: `schemadoc converts JSON Schema (and OpenAPI) documents into flat,
ordered descriptor lines suitable for API documentation comments. Each leaf
field becomes one line carrying type, size bounds, enum, requiredness,
default, and description metadata, with nesting encoded as indentation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute loads configuration, configures logging, and runs the CLI.
func Execute() error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	cfg = loaded
	driver = prompt.New()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.ParsedLogLevel(),
	})))

	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(renderersCmd)
}

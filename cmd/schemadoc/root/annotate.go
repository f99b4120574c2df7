package root

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	schemadoc "github.com/goliatone/go-schemadoc"
)

var annotateWrite bool

var annotateCmd = &cobra.Command{
	Use:   "annotate <file> [file...]",
	Short: "Expand schema tags inside source comments",
	Long: `Annotate scans comment blocks for schema tags of the form

    // (group) {schema} path/to/schema.json

and replaces each tag with the rendered descriptor lines for that schema,
keeping the comment prefix and group intact. Files are printed to stdout
unless -w rewrites them in place.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnnotate,
}

func init() {
	annotateCmd.Flags().BoolVarP(&annotateWrite, "write", "w", false, "rewrite files in place instead of printing to stdout")
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	options, err := pipelineOptions()
	if err != nil {
		return err
	}
	rewriter := schemadoc.NewTagRewriter(schemadoc.New(options...))

	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		out, changed, err := rewriter.Rewrite(ctx, src)
		if err != nil {
			return fmt.Errorf("annotate %s: %w", path, err)
		}

		if !annotateWrite {
			if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return err
			}
			continue
		}
		if !changed {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Annotated %s\n", path)
	}
	return nil
}

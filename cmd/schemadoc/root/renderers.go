package root

import (
	"fmt"

	"github.com/spf13/cobra"

	schemadoc "github.com/goliatone/go-schemadoc"
)

var renderersCmd = &cobra.Command{
	Use:   "renderers",
	Short: "List the available renderers",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := schemadoc.NewDefaultRegistry()
		if err != nil {
			return err
		}
		for _, name := range registry.List() {
			marker := " "
			if name == cfg.Renderer {
				marker = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, name)
		}
		return nil
	},
}

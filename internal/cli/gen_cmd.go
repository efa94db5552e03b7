package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/syssam/modelkit/codegen"
)

// genCmd returns the gen command.
func genCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate typed constants and reference constructors for the configured entities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := e.cfg.Registry()
			if err != nil {
				return err
			}
			pkg, _ := cmd.Flags().GetString("package")
			src, err := codegen.Generate(registry, pkg)
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				_, err = cmd.OutOrStdout().Write(src)
				return err
			}
			if err := os.WriteFile(out, src, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			e.logger.InfoContext(cmd.Context(), "generated", "file", out, "entities", len(registry.Entities()))
			return nil
		},
	}
	cmd.Flags().StringP("package", "p", "models", "Package name of the generated file")
	cmd.Flags().StringP("out", "o", "", "Output file (default stdout)")
	return cmd
}

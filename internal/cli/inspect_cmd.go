package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/syssam/modelkit/cache"
	"github.com/syssam/modelkit/discover"
	"github.com/syssam/modelkit/schema"
)

// modelsCmd returns the models command.
func modelsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models [pattern...]",
		Short: "List the model types declared in Go source",
		Long: `List every named type implementing EntityType() string and
EntityID() any, as import-path qualified names.

Packages are loaded from models.dir of the configuration file, using
the given patterns or models.patterns ("./..." by default).

Usage:
  modelkit models                  # List models once
  modelkit models ./blog/...       # Restrict to some packages
  modelkit models --watch          # Print the list again on every change`,
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns := args
			if len(patterns) == 0 {
				patterns = e.cfg.Models.Patterns
			}
			out := cmd.OutOrStdout()
			if watch, _ := cmd.Flags().GetBool("watch"); watch {
				return discover.Watch(cmd.Context(), e.cfg.Models.Dir, func(names []string, err error) {
					if err != nil {
						e.logger.ErrorContext(cmd.Context(), "model discovery failed", "err", err)
						return
					}
					fmt.Fprintf(out, "%s %d models\n", color.New(color.FgCyan).Sprint("==>"), len(names))
					fmt.Fprintln(out, strings.Join(names, "\n"))
				}, patterns...)
			}
			names, err := discover.Models(cmd.Context(), e.cfg.Models.Dir, patterns...)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
	cmd.Flags().BoolP("watch", "w", false, "Watch the source tree and list again on changes")
	return cmd
}

// columnsCmd returns the columns command.
func columnsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "columns <table>...",
		Short: "List the columns of tables in table order",
		Long: `List the columns of one or more tables in table order.

A table is looked up once per run, so naming it again reuses the first
listing. With more than one table each listing is headed by its name.

Usage:
  modelkit columns posts
  modelkit columns posts comments
  modelkit columns --schema blog posts`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			drv, err := e.driver()
			if err != nil {
				return err
			}
			defer drv.Close()
			lister := schema.NewCached(
				schema.NewInspector(drv, inspectorOptions(cmd)...),
				cache.NewMemory(),
				schema.WithCacheLogger(e.logger),
			)
			out := cmd.OutOrStdout()
			for _, table := range args {
				columns, err := lister.Columns(cmd.Context(), table)
				if err != nil {
					return err
				}
				if len(args) > 1 {
					fmt.Fprintf(out, "%s %s\n", color.New(color.FgCyan).Sprint("==>"), table)
				}
				for _, c := range columns {
					fmt.Fprintln(out, c)
				}
			}
			return nil
		},
	}
	schemaFlag(cmd)
	return cmd
}

// nextIDCmd returns the next-id command.
func nextIDCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "next-id <table>",
		Short: "Print the id the next row inserted into a table will receive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			drv, err := e.driver()
			if err != nil {
				return err
			}
			defer drv.Close()
			opts := inspectorOptions(cmd)
			if col, _ := cmd.Flags().GetString("serial-column"); col != "" {
				opts = append(opts, schema.WithSerialColumn(col))
			}
			id, err := schema.NewInspector(drv, opts...).NextID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	schemaFlag(cmd)
	cmd.Flags().String("serial-column", "", "Serial column whose sequence is read on postgres (default \"id\")")
	return cmd
}

func schemaFlag(cmd *cobra.Command) {
	cmd.Flags().String("schema", "", "Schema of unqualified table names (default the connection's)")
}

func inspectorOptions(cmd *cobra.Command) []schema.InspectorOption {
	var opts []schema.InspectorOption
	if name, _ := cmd.Flags().GetString("schema"); name != "" {
		opts = append(opts, schema.WithSchema(name))
	}
	return opts
}

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/syssam/modelkit"
	"github.com/syssam/modelkit/relation"
	"github.com/syssam/modelkit/sqlstore"
)

// relatedCmd returns the related command.
func relatedCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "related <Type:id[@association]>...",
		Short: "Check that a chain of records is related",
		Long: `Check that each record is in the named association of the record
before it. Without @association the pluralized, lower-cased type name
of the record is used.

The command prints "related" and exits 0, or prints "not related" and
exits 1.

Usage:
  modelkit related Author:1 Post:42             # Author 1 has post 42
  modelkit related Author:1 Post:42 Comment:7   # ... and post 42 has comment 7
  modelkit related Post:42 Author:1@authors     # Explicit association
  modelkit related --explain Author:2 Post:42   # Print why the chain fails`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := e.cfg.Registry()
			if err != nil {
				return err
			}
			inputs := make([]relation.Input, len(args))
			for i, arg := range args {
				if inputs[i], err = ParseInput(registry, arg); err != nil {
					return err
				}
			}
			drv, err := e.driver()
			if err != nil {
				return err
			}
			defer drv.Close()

			concurrency, _ := cmd.Flags().GetInt("concurrency")
			v := relation.New(sqlstore.New(drv, registry),
				relation.WithLogger(e.logger),
				relation.WithConcurrency(concurrency),
			)
			out := cmd.OutOrStdout()
			err = v.Check(cmd.Context(), inputs...)
			if err == nil {
				fmt.Fprintln(out, color.New(color.FgGreen).Sprint("related"))
				return nil
			}
			fmt.Fprintln(out, color.New(color.FgRed).Sprint("not related"))
			if explain, _ := cmd.Flags().GetBool("explain"); explain {
				var rerr *relation.Error
				if errors.As(err, &rerr) {
					fmt.Fprintf(out, "  %s: %v\n", color.New(color.FgYellow).Sprint(rerr.Kind), err)
				}
			}
			if relation.KindOf(err) == relation.StoreFailure {
				return err
			}
			return ErrUnrelated
		},
	}
	cmd.Flags().Bool("explain", false, "Print the reason the chain is not related")
	cmd.Flags().Int("concurrency", 1, "Number of links checked in parallel")
	return cmd
}

// ParseInput parses "Type:id" or "Type:id@association". The id is parsed
// according to the id type of the entity in the registry.
func ParseInput(r *sqlstore.Registry, s string) (relation.Input, error) {
	ref, assoc, hasAssoc := strings.Cut(s, "@")
	typ, rawID, ok := strings.Cut(ref, ":")
	if !ok || typ == "" || rawID == "" {
		return nil, fmt.Errorf("invalid record %q, want Type:id[@association]", s)
	}
	if hasAssoc && assoc == "" {
		return nil, fmt.Errorf("invalid record %q: empty association", s)
	}
	ent, ok := r.Entity(typ)
	if !ok {
		return nil, fmt.Errorf("invalid record %q: unknown type %q", s, typ)
	}
	id, err := ent.ParseID(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid record %q: %w", s, err)
	}
	e := modelkit.NewRef(typ, id)
	if hasAssoc {
		return relation.Via(e, assoc), nil
	}
	return relation.Of(e), nil
}

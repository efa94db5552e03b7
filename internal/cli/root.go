// Package cli implements the modelkit command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/syssam/modelkit/config"
	"github.com/syssam/modelkit/dialect"
	"github.com/syssam/modelkit/dialect/sql"
)

// ErrUnrelated is returned by the related command when the chain does
// not hold.
var ErrUnrelated = errors.New("modelkit: entities are not related")

// env is the state shared by the subcommands.
type env struct {
	v      *viper.Viper
	cfg    *config.Config
	logger *slog.Logger
}

// RootCmd returns the modelkit command with all subcommands attached.
func RootCmd() *cobra.Command {
	e := &env{v: viper.New()}
	cmd := &cobra.Command{
		Use:   "modelkit",
		Short: "Inspect and relate the models of a SQL database",
		Long: `modelkit works with the entity types described in modelkit.yaml.

It lists the model types declared in Go source, reads table metadata
and checks whether a chain of records is related through their
associations.

Flags can also be set through MODELKIT_DSN, MODELKIT_DIALECT,
MODELKIT_CONFIG and MODELKIT_VERBOSE.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.load(cmd)
		},
	}
	flags := cmd.PersistentFlags()
	flags.String("config", config.DefaultFile, "Path of the configuration file")
	flags.String("dialect", "", "Database dialect (mysql, postgres, sqlite)")
	flags.String("dsn", "", "Data source name of the database")
	flags.BoolP("verbose", "v", false, "Log debug output, including SQL queries")
	for _, name := range []string{"config", "dialect", "dsn", "verbose"} {
		_ = e.v.BindPFlag(name, flags.Lookup(name))
	}
	e.v.SetEnvPrefix("MODELKIT")
	e.v.AutomaticEnv()

	cmd.AddCommand(
		modelsCmd(e),
		columnsCmd(e),
		nextIDCmd(e),
		relatedCmd(e),
		genCmd(e),
	)
	return cmd
}

func (e *env) load(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if e.v.GetBool("verbose") {
		level = slog.LevelDebug
	}
	e.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	path := e.v.GetString("config")
	cfg, err := config.Load(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !e.v.IsSet("config"):
		// No configuration file is fine; flags may carry everything.
		cfg, err = config.Parse(nil)
		if err != nil {
			return err
		}
	case err != nil:
		return err
	}
	if d := e.v.GetString("dialect"); d != "" {
		cfg.Dialect = d
	}
	if dsn := e.v.GetString("dsn"); dsn != "" {
		cfg.DSN = dsn
	}
	e.cfg = cfg
	return nil
}

// driver opens the configured database. Queries are logged at debug
// level.
func (e *env) driver() (dialect.Driver, error) {
	if !dialect.Supported(e.cfg.Dialect) {
		return nil, fmt.Errorf("unsupported or missing dialect %q (set --dialect or MODELKIT_DIALECT)", e.cfg.Dialect)
	}
	if e.cfg.DSN == "" {
		return nil, errors.New("missing data source name (set --dsn or MODELKIT_DSN)")
	}
	drv, err := sql.Open(e.cfg.Dialect, e.cfg.DSN)
	if err != nil {
		return nil, err
	}
	logger := e.logger
	return sql.NewDebugDriver(drv, sql.DebugWithLog(func(ctx context.Context, args ...any) {
		logger.DebugContext(ctx, fmt.Sprint(args...))
	})), nil
}

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/plankton/foundation/core/error"
	mdwlog "github.com/msto63/plankton/foundation/core/log"
	"github.com/msto63/plankton/internal/objsvc/client"
	"github.com/msto63/plankton/internal/objsvc/service"
	"github.com/msto63/plankton/pkg/core/config"
	coreGrpc "github.com/msto63/plankton/pkg/core/grpc"
	"github.com/msto63/plankton/pkg/core/logging"
	"github.com/msto63/plankton/pkg/core/store"
)

// app carries the state shared by all commands of one invocation
type app struct {
	cfgFile  string
	verbose  bool
	remote   string
	output   string
	inFormat string
	table    bool

	cfg    *config.Config
	logger *logging.Logger
	stdin  io.Reader
}

// Execute runs the plankton command line
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		printError(root.ErrOrStderr(), err)
		return err
	}
	return nil
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "plankton",
		Short: "Plankton - property-map combinators",
		Long: `Plankton copies, merges, enumerates and filters property maps read
from JSON, YAML or TOML documents. Only the own entries of a map take part.

Inputs are file paths; "-" reads standard input (see --in).
Filter and each expressions see the variables key, value and item.

Examples:
  plankton merge base.yaml override.json
  plankton filter scores.json --expr "value % 2 == 0"
  plankton store save nightly config.toml
  plankton serve`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: $PLANKTON_CONFIG or ./configs/config.toml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&a.remote, "remote", "", "run against an Objects service at host:port")
	flags.StringVarP(&a.output, "output", "o", "json", "output format: json, yaml or toml")
	flags.StringVar(&a.inFormat, "in", "json", "format of standard input: json, yaml or toml")
	flags.BoolVarP(&a.table, "table", "t", false, "render results as a table")

	root.AddCommand(
		newCopyCmd(a),
		newMixCmd(a),
		newMergeCmd(a),
		newCombineCmd(a),
		newKeysCmd(a),
		newValuesCmd(a),
		newCountCmd(a),
		newAnyCmd(a),
		newFilterCmd(a),
		newEachCmd(a),
		newStoreCmd(a),
		newServeCmd(a),
		newStatusCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	a.stdin = cmd.InOrStdin()

	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.cfgFile)
	} else {
		a.cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	level := a.cfg.General.LogLevel
	if a.verbose {
		level = "debug"
	}
	base := logging.NewLogger(logging.LoggerConfig{
		ServiceName: "plankton",
		Level:       level,
		Format:      a.cfg.General.LogFormat,
		Output:      cmd.ErrOrStderr(),
	})
	mdwlog.SetDefault(base)
	a.logger = logging.Wrap(base)
	return nil
}

// backend opens the local service or a client of the remote one. Local
// snapshot operations need withStore.
func (a *app) backend(withStore bool) (backend, error) {
	if a.remote != "" {
		cfg := coreGrpc.DefaultClientConfig(a.remote)
		cfg.Logger = a.logger
		c, err := client.Dial(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	}

	svc, err := a.localService(withStore)
	if err != nil {
		return nil, err
	}
	return &local{svc: svc}, nil
}

func (a *app) localService(withStore bool) (*service.Service, error) {
	cfg := service.DefaultConfig()
	cfg.Logger = a.logger
	if withStore {
		st, err := store.NewSQLiteStore(store.SQLiteConfig{
			Path:   a.cfg.Store.Path,
			Logger: a.logger,
		})
		if err != nil {
			return nil, err
		}
		cfg.Store = st
	}
	return service.NewService(cfg)
}

func printError(w io.Writer, err error) {
	if mdwErr, ok := mdwerror.As(err); ok {
		fmt.Fprintf(w, "Error: %s [%s]\n", err, mdwErr.Code())
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}

func withContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

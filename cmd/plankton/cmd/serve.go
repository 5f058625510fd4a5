package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/plankton/foundation/core/log"
	"github.com/msto63/plankton/internal/objsvc/server"
	"github.com/msto63/plankton/pkg/core/config"
	"github.com/msto63/plankton/pkg/core/logging"
	"github.com/msto63/plankton/pkg/core/store"
	"github.com/msto63/plankton/pkg/core/version"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Objects gRPC service",
		Long: `Serve exposes the combinators and the snapshot store over gRPC together
with the standard health service. SIGINT or SIGTERM stops it gracefully.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			return a.serve(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (overrides server.host)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")
	return cmd
}

func (a *app) serve(cmd *cobra.Command, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(withContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.NewSQLiteStore(store.SQLiteConfig{
		Path:   cfg.Store.Path,
		Logger: a.logger,
	})
	if err != nil {
		return err
	}

	srvCfg := server.DefaultConfig()
	srvCfg.Host = cfg.Server.Host
	srvCfg.Port = cfg.Server.Port
	srvCfg.EnableReflection = cfg.Server.EnableReflection
	srvCfg.Service.Store = st
	srvCfg.Logger = a.logger

	srv, err := server.New(srvCfg)
	if err != nil {
		st.Close()
		return err
	}

	a.logger.Info("starting objects service",
		"address", cfg.ServerAddress(),
		"version", version.Objects,
		"store", cfg.Store.Path,
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	go a.watchConfig(ctx, cfg, cmd)

	select {
	case err := <-errCh:
		if err != nil {
			a.logger.Err("objects service failed", err)
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
		defer cancel()
		_ = srv.Stop(shutdownCtx)
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down objects service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

// watchConfig follows the config file. Log level and format apply to loggers
// created afterwards; listener changes need a restart.
func (a *app) watchConfig(ctx context.Context, current *config.Config, cmd *cobra.Command) {
	err := current.Watch(ctx, func(next *config.Config) {
		if err := next.Validate(); err != nil {
			a.logger.Err("ignoring invalid configuration", err, "file", next.FilePath())
			return
		}
		mdwlog.SetDefault(logging.NewLogger(logging.LoggerConfig{
			ServiceName: "plankton",
			Level:       next.General.LogLevel,
			Format:      next.General.LogFormat,
			Output:      cmd.ErrOrStderr(),
		}))
		a.logger.Info("configuration reloaded", "file", next.FilePath(), "log_level", next.General.LogLevel)
		if next.ServerAddress() != current.ServerAddress() {
			a.logger.Warn("listen address changed, restart to apply",
				"current", current.ServerAddress(),
				"configured", next.ServerAddress(),
			)
		}
	})
	if err != nil && ctx.Err() == nil {
		a.logger.Err("config watch stopped", err)
	}
}

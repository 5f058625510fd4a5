package cmd

import (
	"github.com/spf13/cobra"

	"github.com/msto63/plankton/foundation/codec"
	"github.com/msto63/plankton/pkg/core/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show configuration",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Long: `Show prints the merged configuration (defaults, file and PLANKTON_
environment overrides) in the --output format.`,
			Args: cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.printObject(cmd, a.cfg.Source())
			},
		},
		&cobra.Command{
			Use:   "defaults",
			Short: "Print the built-in defaults as TOML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := codec.Encode(config.Defaults(), codec.FormatTOML)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the loaded config file",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				path := a.cfg.FilePath()
				if path == "" {
					path = "(defaults)"
				}
				cmd.Println(path)
			},
		},
	)
	return cmd
}

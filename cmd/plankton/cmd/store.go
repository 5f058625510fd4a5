package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStoreCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage named snapshots",
		Long: `Snapshots keep the own entries of a document under a name in the
SQLite database configured by store.path, or on the --remote service.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "save NAME FILE",
			Short: "Save a document as a snapshot",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				subject, err := a.readInput(args[1])
				if err != nil {
					return err
				}
				b, err := a.backend(true)
				if err != nil {
					return err
				}
				defer b.Close()

				snap, err := b.Save(withContext(cmd), args[0], subject)
				if err != nil {
					return err
				}
				return a.printObject(cmd, snap)
			},
		},
		&cobra.Command{
			Use:   "load NAME",
			Short: "Print a snapshot",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				b, err := a.backend(true)
				if err != nil {
					return err
				}
				defer b.Close()

				subject, err := b.Load(withContext(cmd), args[0])
				if err != nil {
					return err
				}
				return a.printObject(cmd, subject)
			},
		},
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List snapshots",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				b, err := a.backend(true)
				if err != nil {
					return err
				}
				defer b.Close()

				snapshots, err := b.List(withContext(cmd))
				if err != nil {
					return err
				}
				return a.printRecords(cmd, []string{"name", "entries", "updated_at", "id"}, snapshots)
			},
		},
		&cobra.Command{
			Use:     "delete NAME",
			Aliases: []string{"rm"},
			Short:   "Delete a snapshot",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				b, err := a.backend(true)
				if err != nil {
					return err
				}
				defer b.Close()

				if err := b.Delete(withContext(cmd), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}

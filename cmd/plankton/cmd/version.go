package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/msto63/plankton/pkg/core/version"
)

func newVersionCmd(a *app) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(w, version.CLI)
				return
			}

			title := lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
			fmt.Fprintln(w, title.Render("Plankton")+" - property-map combinators")

			rows := make([][]string, 0, 3)
			for _, component := range []string{"cli", "objx", "objects"} {
				info := version.Get(component)
				rows = append(rows, []string{component, info.Version, info.Commit, info.BuildDate, info.GoVersion})
			}
			fmt.Fprintln(w, renderTable([]string{"COMPONENT", "VERSION", "COMMIT", "BUILT", "GO"}, rows))
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "print the CLI version only")
	return cmd
}

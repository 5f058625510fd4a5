package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msto63/plankton/foundation/codec"
	mdwerror "github.com/msto63/plankton/foundation/core/error"
	"github.com/msto63/plankton/foundation/utils/objx"
	"github.com/msto63/plankton/pkg/predicate"
)

func newCopyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "copy FILE",
		Short: "Print the own entries of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, err := a.readInput(args[0])
			if err != nil {
				return err
			}
			svc, err := a.localService(false)
			if err != nil {
				return err
			}
			defer svc.Close()
			return a.printObject(cmd, svc.Copy(subject))
		},
	}
}

func newMixCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mix TARGET SOURCE...",
		Short: "Write the entries of each source into the target",
		Long: `Mix copies the entries of every source into the target in order and
prints the target. Later sources win on duplicate keys.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := a.readInputs(args)
			if err != nil {
				return err
			}
			svc, err := a.localService(false)
			if err != nil {
				return err
			}
			defer svc.Close()
			return a.printObject(cmd, svc.Mix(docs[0], docs[1:]...))
		},
	}
}

func newMergeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "merge FILE...",
		Short: "Merge documents into a new one",
		Long: `Merge builds a new document from the entries of every input in order.
Later inputs win on duplicate keys. No input gives an empty document.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := a.readInputs(args)
			if err != nil {
				return err
			}
			b, err := a.backend(false)
			if err != nil {
				return err
			}
			defer b.Close()

			merged, err := b.Merge(withContext(cmd), docs...)
			if err != nil {
				return err
			}
			return a.printObject(cmd, merged)
		},
	}
}

func newCombineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "combine KEY VALUE",
		Short: "Build a single-entry document",
		Long: `Combine prints a document holding exactly KEY. VALUE is parsed as JSON
and taken as a plain string when that fails.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.localService(false)
			if err != nil {
				return err
			}
			defer svc.Close()
			return a.printObject(cmd, svc.Combine(args[0], parseScalar(args[1])))
		},
	}
}

func newKeysCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "keys FILE",
		Short: "List the own keys of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, b, err := a.subjectAndBackend(args[0])
			if err != nil {
				return err
			}
			defer b.Close()

			keys, err := b.Keys(withContext(cmd), subject)
			if err != nil {
				return err
			}
			list := make([]any, len(keys))
			for i, k := range keys {
				list[i] = k
			}
			a.printList(cmd, "KEY", list)
			return nil
		},
	}
}

func newValuesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "values FILE",
		Short: "List the own values of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, b, err := a.subjectAndBackend(args[0])
			if err != nil {
				return err
			}
			defer b.Close()

			values, err := b.Values(withContext(cmd), subject)
			if err != nil {
				return err
			}
			a.printList(cmd, "VALUE", values)
			return nil
		},
	}
}

func newCountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count FILE",
		Short: "Count the own entries of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, b, err := a.subjectAndBackend(args[0])
			if err != nil {
				return err
			}
			defer b.Close()

			n, err := b.Count(withContext(cmd), subject)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func newAnyCmd(a *app) *cobra.Command {
	var by string

	cmd := &cobra.Command{
		Use:   "any FILE",
		Short: "Print one entry of a document",
		Long: `Any prints one own entry of the document projected by --by. The
result carries found=false for an empty document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projection, err := predicate.ParseBy(by)
			if err != nil {
				return err
			}
			subject, b, err := a.subjectAndBackend(args[0])
			if err != nil {
				return err
			}
			defer b.Close()

			result, err := b.Any(withContext(cmd), subject, projection)
			if err != nil {
				return err
			}
			return a.printObject(cmd, result)
		},
	}

	cmd.Flags().StringVar(&by, "by", "value", "projection: value, key, pair or item")
	return cmd
}

func newFilterCmd(a *app) *cobra.Command {
	var (
		source string
		by     string
	)

	cmd := &cobra.Command{
		Use:   "filter FILE",
		Short: "Select entries with an expression",
		Long: `Filter keeps the entries for which --expr evaluates to true. A nil
result aborts the selection and keeps what was selected so far.`,
		Example: `  plankton filter scores.json --expr "value % 2 == 0"
  plankton filter scores.json --expr "value == 3 ? nil : value % 2 == 0"
  plankton filter env.yaml --by key --expr "key startsWith 'APP_'"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projection, err := predicate.ParseBy(by)
			if err != nil {
				return err
			}
			subject, b, err := a.subjectAndBackend(args[0])
			if err != nil {
				return err
			}
			defer b.Close()

			result, err := b.Filter(withContext(cmd), subject, source, projection)
			if err != nil {
				return err
			}
			return a.printObject(cmd, result)
		},
	}

	cmd.Flags().StringVarP(&source, "expr", "e", "", "selection expression (required)")
	cmd.Flags().StringVar(&by, "by", "value", "projection: value, key, pair or item")
	_ = cmd.MarkFlagRequired("expr")
	return cmd
}

func newEachCmd(a *app) *cobra.Command {
	var (
		source string
		by     string
	)

	cmd := &cobra.Command{
		Use:   "each FILE",
		Short: "Visit entries until an expression yields false",
		Long: `Each walks the entries in order and prints every visited one. The walk
stops after the first entry for which --expr yields false.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.remote != "" {
				return mdwerror.New("each runs locally only").
					WithCode(mdwerror.CodeInvalidOperation)
			}
			projection, err := predicate.ParseBy(by)
			if err != nil {
				return err
			}
			subject, err := a.readInput(args[0])
			if err != nil {
				return err
			}
			svc, err := a.localService(false)
			if err != nil {
				return err
			}
			defer svc.Close()

			visited := objx.NewObject()
			err = svc.Each(withContext(cmd), subject, source, projection, func(key string, value any) {
				visited.Set(key, value)
			})
			if err != nil {
				return err
			}
			return a.printObject(cmd, visited)
		},
	}

	cmd.Flags().StringVarP(&source, "expr", "e", "true", "continuation expression")
	cmd.Flags().StringVar(&by, "by", "value", "projection: value, key, pair or item")
	return cmd
}

func (a *app) subjectAndBackend(path string) (*objx.Object, backend, error) {
	subject, err := a.readInput(path)
	if err != nil {
		return nil, nil, err
	}
	b, err := a.backend(false)
	if err != nil {
		return nil, nil, err
	}
	return subject, b, nil
}

// parseScalar reads s as a JSON value, falling back to the raw string
func parseScalar(s string) any {
	v, err := codec.DecodeJSONValue(strings.NewReader(s))
	if err != nil {
		return s
	}
	return v
}

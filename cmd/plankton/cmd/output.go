package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/msto63/plankton/foundation/codec"
	mdwerror "github.com/msto63/plankton/foundation/core/error"
	"github.com/msto63/plankton/foundation/utils/objx"
)

var (
	colorPrimary = lipgloss.Color("#7D56F4")
	colorMuted   = lipgloss.Color("#626262")

	headerStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

// readInput decodes the document at path. "-" reads standard input in the
// --in format.
func (a *app) readInput(path string) (*objx.Object, error) {
	if path != "-" {
		return codec.ReadFile(path)
	}

	format, err := codec.ParseFormat(a.inFormat)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to read standard input").
			WithCode(mdwerror.CodeInvalidInput)
	}
	return codec.Decode(data, format)
}

func (a *app) readInputs(paths []string) ([]*objx.Object, error) {
	out := make([]*objx.Object, 0, len(paths))
	stdinUsed := false
	for _, p := range paths {
		if p == "-" {
			if stdinUsed {
				return nil, mdwerror.New("standard input can only be read once").
					WithCode(mdwerror.CodeInvalidInput)
			}
			stdinUsed = true
		}
		obj, err := a.readInput(p)
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}

// printObject writes subject in the --output format, or as a key/value
// table with --table
func (a *app) printObject(cmd *cobra.Command, subject *objx.Object) error {
	w := cmd.OutOrStdout()
	if a.table {
		rows := make([][]string, 0, objx.Count(subject))
		objx.ForEachPair(subject, func(key string, value any) objx.Step {
			rows = append(rows, []string{key, formatCell(value)})
			return objx.Continue
		})
		fmt.Fprintln(w, renderTable([]string{"KEY", "VALUE"}, rows))
		return nil
	}

	format, err := codec.ParseFormat(a.output)
	if err != nil {
		return err
	}
	data, err := codec.Encode(subject, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		fmt.Fprintln(w)
	}
	return nil
}

// printList writes one value per line, or a single column table
func (a *app) printList(cmd *cobra.Command, header string, values []any) {
	w := cmd.OutOrStdout()
	if a.table {
		rows := make([][]string, len(values))
		for i, v := range values {
			rows[i] = []string{formatCell(v)}
		}
		fmt.Fprintln(w, renderTable([]string{header}, rows))
		return
	}
	for _, v := range values {
		fmt.Fprintln(w, formatCell(v))
	}
}

// printRecords writes objects sharing the given columns
func (a *app) printRecords(cmd *cobra.Command, columns []string, records []*objx.Object) error {
	if !a.table {
		list := make([]any, len(records))
		for i, r := range records {
			list[i] = r
		}
		return a.printObject(cmd, objx.NewObject().Set("items", list))
	}

	rows := make([][]string, len(records))
	for i, r := range records {
		row := make([]string, len(columns))
		for j, col := range columns {
			v, _ := r.GetOwn(col)
			row[j] = formatCell(v)
		}
		rows[i] = row
	}
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = strings.ToUpper(c)
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows))
	return nil
}

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

// formatCell renders a value on one line. Nested objects and lists use
// compact JSON.
func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case time.Time:
		return t.Format(time.RFC3339)
	case *objx.Object:
		data, err := codec.EncodeJSON(t, false)
		if err != nil {
			return t.String()
		}
		return string(data)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = formatCell(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprintf("%v", t)
	}
}

package formatting

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"pironman5/internal/config"
	pstrings "pironman5/pkg/strings"
)

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(options Options) Formatter {
	return &TableFormatter{options: options}
}

// FormatConfig writes one row per leaf of tree, keyed by its dotted path.
func (f *TableFormatter) FormatConfig(w io.Writer, tree config.Tree) error {
	entries := Flatten(tree)
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, f.colorize(text.FgYellow, "No configuration values set"))
		return err
	}

	t := f.createTable()
	t.AppendHeader(table.Row{
		f.colorize(text.FgHiCyan, "KEY"),
		f.colorize(text.FgHiCyan, "VALUE"),
	})

	for _, entry := range entries {
		t.AppendRow(table.Row{
			f.colorize(text.FgHiCyan, entry.Key),
			pstrings.Ellipsize(entry.Value, pstrings.DefaultCellMaxLen),
		})
	}

	_, err := fmt.Fprintln(w, t.Render())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "\n%s %s\n",
		f.colorize(text.FgHiBlue, "Total:"),
		f.colorize(text.FgHiWhite, fmt.Sprintf("%d keys", len(entries))))
	return err
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	return t
}

func (f *TableFormatter) colorize(color text.Color, s string) string {
	if !f.options.Color {
		return s
	}
	return color.Sprint(s)
}

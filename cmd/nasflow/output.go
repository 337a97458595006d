package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// emit writes v as JSON when --json is set. Otherwise render draws the human
// view; a nil render prints nothing.
func (c *commandContext) emit(cmd *cobra.Command, v any, render func(out io.Writer)) error {
	out := cmd.OutOrStdout()
	if !c.JSONMode() {
		if render != nil {
			render(out)
		}
		return nil
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %T: %w", v, err)
	}
	return nil
}

// column describes one record table column. Quantities are right-aligned.
type column struct {
	title    string
	quantity bool
}

// recordTable renders tracked records and counts with a shared look.
type recordTable struct {
	tw    table.Writer
	width int
}

func newRecordTable(columns ...column) *recordTable {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Format.Footer = text.FormatDefault

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, col := range columns {
		header[i] = col.title
		configs[i] = table.ColumnConfig{Number: i + 1, AlignHeader: text.AlignLeft}
		if col.quantity {
			configs[i].Align = text.AlignRight
			configs[i].AlignFooter = text.AlignRight
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)
	return &recordTable{tw: tw, width: len(columns)}
}

func (t *recordTable) row(cells ...string) {
	t.tw.AppendRow(t.pad(cells))
}

// total sets the footer line, used for per-table sums.
func (t *recordTable) total(cells ...string) {
	t.tw.AppendFooter(t.pad(cells))
}

func (t *recordTable) render(out io.Writer) {
	fmt.Fprintln(out, t.tw.Render())
}

func (t *recordTable) pad(cells []string) table.Row {
	row := make(table.Row, t.width)
	for i := range row {
		row[i] = ""
		if i < len(cells) {
			row[i] = cells[i]
		}
	}
	return row
}

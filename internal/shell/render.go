package shell

import (
	"fmt"
	"io"
	"net/http"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/tobsdb/pdb/internal/command"
	"github.com/tobsdb/pdb/internal/conn"
)

// Render writes res for a human. Select results become a table with the
// columns in declared order.
func Render(w io.Writer, action command.Action, res conn.Response) {
	switch {
	case res.Status == http.StatusPreconditionRequired:
		fmt.Fprintln(w, res.Message)
	case res.Status >= http.StatusBadRequest:
		fmt.Fprintf(w, "Error: %s\n", res.Message)
	default:
		rows, is_rows := res.Data.([]map[string]any)
		if is_rows && len(rows) > 0 && len(res.Columns) > 0 {
			renderRows(w, res.Columns, rows)
		}
		fmt.Fprintln(w, res.Message)
	}

	if res.Elapsed > 0 {
		fmt.Fprintf(w, "%s took %.3f seconds\n", action, res.Elapsed.Seconds())
	}
}

func renderRows(w io.Writer, columns []string, rows []map[string]any) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	// keep column names as declared
	t.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i, col := range columns {
			r[i] = formatValue(row[col])
		}
		t.AppendRow(r)
	}
	t.Render()
}

func formatValue(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

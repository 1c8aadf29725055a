// Package render turns finished tables into text. It is the
// presentation collaborator of the engine: the core hands it a Table
// and takes no part in formatting.
package render

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/connerohnesorge/tabq/table"
)

// Text draws the table as an ASCII grid.
func Text(w io.Writer, t *table.Table) error {
	tw := tablewriter.NewWriter(w)
	cols := t.Schema().Columns()
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Name
	}
	tw.SetHeader(header)
	tw.SetAutoFormatHeaders(false)

	record := make([]string, len(cols))
	for i := 0; i < t.NumRows(); i++ {
		row := t.Row(i)
		for c := range cols {
			record[c] = row.Value(c).String()
		}
		tw.Append(record)
	}
	tw.Render()
	return nil
}

// CSV writes the table as CSV with a header row.
func CSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	cols := t.Schema().Columns()
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Name
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	record := make([]string, len(cols))
	for i := 0; i < t.NumRows(); i++ {
		row := t.Row(i)
		for c := range cols {
			record[c] = row.Value(c).String()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}

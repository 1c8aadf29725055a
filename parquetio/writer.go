package parquetio

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/connerohnesorge/tabq/table"
	"github.com/connerohnesorge/tabq/types"
)

// schemaOf builds a parquet schema mirroring the table's schema. Every
// column is optional since any value may be Null.
func schemaOf(t *table.Table) (*parquet.Schema, error) {
	group := parquet.Group{}
	for _, c := range t.Schema().Columns() {
		var node parquet.Node
		switch c.Kind {
		case types.KindInteger:
			node = parquet.Int(64)
		case types.KindDecimal:
			node = parquet.Leaf(parquet.DoubleType)
		case types.KindText:
			node = parquet.String()
		case types.KindDate:
			node = parquet.Date()
		default:
			return nil, fmt.Errorf("column %q: kind %s cannot be stored", c.Name, c.Kind)
		}
		group[c.Name] = parquet.Optional(node)
	}
	return parquet.NewSchema("tabq", group), nil
}

// Write stores the table as one parquet row group.
func Write(w io.Writer, t *table.Table) error {
	schema, err := schemaOf(t)
	if err != nil {
		return err
	}
	writer := parquet.NewGenericWriter[map[string]any](w, schema)
	cols := t.Schema().Columns()
	rows := make([]map[string]any, 0, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		row := t.Row(i)
		rec := make(map[string]any, len(cols))
		for c, col := range cols {
			v := row.Value(c)
			if v.IsNull() {
				rec[col.Name] = nil
				continue
			}
			switch col.Kind {
			case types.KindInteger:
				rec[col.Name] = v.Int()
			case types.KindDecimal:
				rec[col.Name] = v.Float()
			case types.KindText:
				rec[col.Name] = v.Text()
			case types.KindDate:
				rec[col.Name] = int32(v.Date())
			}
		}
		rows = append(rows, rec)
	}
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// WriteFile stores the table at the given path.
func WriteFile(path string, t *table.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Write(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

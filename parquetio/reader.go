// Package parquetio loads tables from and stores tables to Parquet
// files, mapping parquet physical and logical types onto the engine's
// value kinds. It is the file-ingestion collaborator: output tables
// are schema-validated on construction like any other.
package parquetio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/connerohnesorge/tabq/table"
	"github.com/connerohnesorge/tabq/types"
)

// Reader reads one parquet file into a Table.
type Reader struct {
	file   *os.File
	pqFile *parquet.File
}

// NewReader opens and validates a parquet file.
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	return &Reader{file: file, pqFile: pqFile}, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// kindOf maps a parquet leaf field onto a value kind. Dates (the DATE
// logical type over int32) become KindDate; other integers
// KindInteger; floats KindDecimal; byte arrays KindText. Booleans load
// as 0/1 integers since the value model carries no boolean kind.
func kindOf(field parquet.Field) (types.Kind, error) {
	if !field.Leaf() {
		return types.KindNull, fmt.Errorf("column %q: nested parquet groups are not supported", field.Name())
	}
	if lt := field.Type().LogicalType(); lt != nil && lt.Date != nil {
		return types.KindDate, nil
	}
	switch field.Type().Kind() {
	case parquet.Boolean, parquet.Int32, parquet.Int64:
		return types.KindInteger, nil
	case parquet.Float, parquet.Double:
		return types.KindDecimal, nil
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return types.KindText, nil
	default:
		return types.KindNull, fmt.Errorf("column %q: unsupported parquet kind %s", field.Name(), field.Type().Kind())
	}
}

// convert turns one parquet value into the declared kind.
func convert(v parquet.Value, kind types.Kind) types.Value {
	if v.IsNull() {
		return types.Null
	}
	switch kind {
	case types.KindDate:
		return types.NewDate(types.Date(v.Int64()))
	case types.KindInteger:
		if v.Kind() == parquet.Boolean {
			if v.Boolean() {
				return types.NewInteger(1)
			}
			return types.NewInteger(0)
		}
		return types.NewInteger(v.Int64())
	case types.KindDecimal:
		return types.NewDecimal(v.Double())
	default:
		return types.NewText(v.String())
	}
}

// ReadAll materializes the whole file as a Table. Columns appear in
// file schema order; suitable for the in-memory analytical scale this
// engine targets.
func (r *Reader) ReadAll() (*table.Table, error) {
	fields := r.pqFile.Schema().Fields()
	cols := make([]table.Column, len(fields))
	kinds := make([]types.Kind, len(fields))
	for i, f := range fields {
		kind, err := kindOf(f)
		if err != nil {
			return nil, err
		}
		cols[i] = table.Column{Name: f.Name(), Kind: kind}
		kinds[i] = kind
	}
	schema, err := table.NewSchema(cols...)
	if err != nil {
		return nil, err
	}

	b := table.NewBuilder(schema)
	buf := make([]parquet.Row, 256)
	for _, rg := range r.pqFile.RowGroups() {
		rows := rg.Rows()
		for {
			n, err := rows.ReadRows(buf)
			for _, prow := range buf[:n] {
				vals := make([]types.Value, len(fields))
				for i := range vals {
					vals[i] = types.Null
				}
				for _, pv := range prow {
					col := pv.Column()
					if col < 0 || col >= len(fields) {
						continue
					}
					vals[col] = convert(pv, kinds[col])
				}
				if err := b.Append(vals...); err != nil {
					rows.Close()
					return nil, err
				}
			}
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				rows.Close()
				return nil, fmt.Errorf("failed to read rows: %w", err)
			}
		}
		if err := rows.Close(); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// ReadFile is the one-shot convenience: open, read, close.
func ReadFile(path string) (*table.Table, error) {
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.ReadAll()
}

package table

import (
	"fmt"

	"github.com/connerohnesorge/tabq/types"
)

// Row is one immutable record of a Table. Positions correspond to the
// owning table's schema.
type Row struct {
	values []types.Value
}

// NewRow copies the given values into a Row.
func NewRow(values ...types.Value) Row {
	vs := make([]types.Value, len(values))
	copy(vs, values)
	return Row{values: vs}
}

// Len returns the number of values in the row.
func (r Row) Len() int {
	return len(r.values)
}

// Value returns the value at position i.
func (r Row) Value(i int) types.Value {
	return r.values[i]
}

// Values returns a copy of the row's values.
func (r Row) Values() []types.Value {
	out := make([]types.Value, len(r.values))
	copy(out, r.values)
	return out
}

// Table is an ordered sequence of rows sharing a schema. Tables are
// value-producing: engine steps never mutate an input Table, they
// build a new one through a Builder.
type Table struct {
	schema *Schema
	rows   []Row
}

// Schema returns the table's schema.
func (t *Table) Schema() *Schema {
	return t.schema
}

// NumRows returns the row count.
func (t *Table) NumRows() int {
	return len(t.rows)
}

// Row returns the row at position i.
func (t *Table) Row(i int) Row {
	return t.rows[i]
}

// Value returns the value of the named column in row i.
func (t *Table) Value(i int, column string) (types.Value, error) {
	idx, err := t.schema.Index(column)
	if err != nil {
		return types.Null, err
	}
	return t.rows[i].Value(idx), nil
}

// Builder assembles a Table, validating every appended row against the
// schema. Appending after Build panics.
type Builder struct {
	schema *Schema
	rows   []Row
	built  bool
}

// NewBuilder starts a table with the given schema.
func NewBuilder(schema *Schema) *Builder {
	return &Builder{schema: schema}
}

// Append validates and adds one row. Arity must match the schema
// exactly; each value must be Null or of the declared kind.
func (b *Builder) Append(values ...types.Value) error {
	if b.built {
		panic("table: Append after Build")
	}
	if len(values) != b.schema.Len() {
		return &SchemaError{
			Column: "",
			Reason: fmt.Sprintf("row has %d values, schema has %d columns", len(values), b.schema.Len()),
		}
	}
	for i, v := range values {
		col := b.schema.Column(i)
		if !v.IsNull() && v.Kind() != col.Kind {
			return &SchemaError{
				Column: col.Name,
				Reason: fmt.Sprintf("value kind %s does not match declared kind %s", v.Kind(), col.Kind),
			}
		}
	}
	b.rows = append(b.rows, NewRow(values...))
	return nil
}

// AppendRow validates and adds an existing Row.
func (b *Builder) AppendRow(row Row) error {
	return b.Append(row.values...)
}

// MustAppend is Append that panics on error, for tests and examples.
func (b *Builder) MustAppend(values ...types.Value) *Builder {
	if err := b.Append(values...); err != nil {
		panic(err)
	}
	return b
}

// Build finalizes and returns the table.
func (b *Builder) Build() *Table {
	b.built = true
	return &Table{schema: b.schema, rows: b.rows}
}

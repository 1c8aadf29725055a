package table

import (
	"fmt"

	"github.com/connerohnesorge/tabq/types"
)

// Column declares one schema column.
type Column struct {
	Name string
	Kind types.Kind
}

// Schema is the ordered column declaration a Table enforces.
type Schema struct {
	columns []Column
	index   map[string]int
}

// NewSchema builds a schema from column declarations. Duplicate names
// are a SchemaError.
func NewSchema(columns ...Column) (*Schema, error) {
	s := &Schema{
		columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	copy(s.columns, columns)
	for i, c := range columns {
		if _, dup := s.index[c.Name]; dup {
			return nil, &SchemaError{Column: c.Name, Reason: "duplicate column name"}
		}
		s.index[c.Name] = i
	}
	return s, nil
}

// MustSchema is NewSchema that panics on error, for tests and examples.
func MustSchema(columns ...Column) *Schema {
	s, err := NewSchema(columns...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of columns.
func (s *Schema) Len() int {
	return len(s.columns)
}

// Columns returns a copy of the column declarations.
func (s *Schema) Columns() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Column returns the declaration at position i.
func (s *Schema) Column(i int) Column {
	return s.columns[i]
}

// Index resolves a column name to its position, or a SchemaError when
// the column does not exist.
func (s *Schema) Index(name string) (int, error) {
	i, ok := s.index[name]
	if !ok {
		return 0, &SchemaError{Column: name, Reason: "column not found"}
	}
	return i, nil
}

// Has reports whether the schema declares the named column.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Extend returns a new schema with an extra column appended.
func (s *Schema) Extend(col Column) (*Schema, error) {
	cols := append(s.Columns(), col)
	return NewSchema(cols...)
}

// SchemaError reports a column missing from, mismatched with, or
// duplicated in a schema.
type SchemaError struct {
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: column %q: %s", e.Column, e.Reason)
}

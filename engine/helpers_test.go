package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/connerohnesorge/tabq/table"
	"github.com/connerohnesorge/tabq/types"
)

// categoryValues builds the three-column (category, product, value)
// shape most scenarios use.
func categoryValues(t *testing.T, rows ...[]types.Value) *table.Table {
	t.Helper()
	schema := table.MustSchema(
		table.Column{Name: "category", Kind: types.KindText},
		table.Column{Name: "product", Kind: types.KindText},
		table.Column{Name: "value", Kind: types.KindInteger},
	)
	b := table.NewBuilder(schema)
	for _, r := range rows {
		require.NoError(t, b.Append(r...))
	}
	return b.Build()
}

func row(vs ...types.Value) []types.Value { return vs }

func text(s string) types.Value { return types.NewText(s) }

func integer(i int64) types.Value { return types.NewInteger(i) }

// columnInts extracts an integer column in row order, with -1 for null.
func columnInts(t *testing.T, tbl *table.Table, name string) []int64 {
	t.Helper()
	out := make([]int64, 0, tbl.NumRows())
	for i := 0; i < tbl.NumRows(); i++ {
		v, err := tbl.Value(i, name)
		require.NoError(t, err)
		if v.IsNull() {
			out = append(out, -1)
			continue
		}
		out = append(out, v.Int())
	}
	return out
}

// columnTexts extracts a text column in row order.
func columnTexts(t *testing.T, tbl *table.Table, name string) []string {
	t.Helper()
	out := make([]string, 0, tbl.NumRows())
	for i := 0; i < tbl.NumRows(); i++ {
		v, err := tbl.Value(i, name)
		require.NoError(t, err)
		out = append(out, v.Text())
	}
	return out
}

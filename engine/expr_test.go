package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/connerohnesorge/tabq/table"
	"github.com/connerohnesorge/tabq/types"
)

func exprRow(t *testing.T) (*table.Schema, table.Row) {
	t.Helper()
	schema := table.MustSchema(
		table.Column{Name: "a", Kind: types.KindInteger},
		table.Column{Name: "b", Kind: types.KindInteger},
		table.Column{Name: "s", Kind: types.KindText},
	)
	return schema, table.NewRow(types.NewInteger(3), types.Null, types.NewText("x"))
}

func TestPredicateThreeValuedLogic(t *testing.T) {
	schema, row := exprRow(t)

	tests := []struct {
		name string
		pred Predicate
		want Tri
	}{
		{"true comparison", Gt(Col("a"), Lit(types.NewInteger(1))), True},
		{"false comparison", Lt(Col("a"), Lit(types.NewInteger(1))), False},
		{"null operand is unknown", Eq(Col("b"), Lit(types.NewInteger(3))), Unknown},
		{"null equals null is unknown", Eq(Col("b"), Lit(types.Null)), Unknown},
		{"and short-circuits false", And(Lt(Col("a"), Lit(types.NewInteger(1))), Eq(Col("b"), Col("b"))), False},
		{"and keeps unknown", And(Gt(Col("a"), Lit(types.NewInteger(1))), Eq(Col("b"), Col("b"))), Unknown},
		{"or absorbs true", Or(Eq(Col("b"), Col("b")), Gt(Col("a"), Lit(types.NewInteger(1)))), True},
		{"not unknown is unknown", Not(Eq(Col("b"), Lit(types.NewInteger(1)))), Unknown},
		{"is null", IsNull(Col("b")), True},
		{"is not null", IsNotNull(Col("b")), False},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.pred.Test(schema, row)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestPredicateErrors(t *testing.T) {
	schema, row := exprRow(t)

	t.Run("unknown column", func(t *testing.T) {
		_, err := Eq(Col("nope"), Lit(types.NewInteger(1))).Test(schema, row)
		var se *table.SchemaError
		require.ErrorAs(t, err, &se)
	})

	t.Run("mixed kinds are a type error", func(t *testing.T) {
		_, err := Eq(Col("s"), Col("a")).Test(schema, row)
		var te *types.TypeError
		require.ErrorAs(t, err, &te)
	})
}

func TestArithExpr(t *testing.T) {
	schema, r := exprRow(t)

	v, err := Add(Col("a"), Lit(types.NewInteger(4))).Eval(schema, r)
	require.NoError(t, err)
	require.Equal(t, int64(7), v.Int())

	v, err = Sub(Col("a"), Col("b")).Eval(schema, r)
	require.NoError(t, err)
	require.True(t, v.IsNull(), "null propagates")
}

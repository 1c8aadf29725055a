package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/connerohnesorge/tabq/table"
	"github.com/connerohnesorge/tabq/types"
)

func TestAggregateCountLaws(t *testing.T) {
	input := categoryValues(t,
		row(text("a"), text("p1"), integer(10)),
		row(text("a"), text("p2"), integer(20)),
		row(text("b"), text("p3"), integer(30)),
		row(text("b"), text("p4"), integer(40)),
		row(text("b"), text("p5"), integer(50)),
		row(types.Null, text("p6"), integer(60)),
		row(types.Null, text("p7"), integer(70)),
	)

	p := NewPipeline()
	out, err := p.Aggregate(context.Background(), input, []string{"category"}, []Aggregate{
		{Func: AggCount, Column: Star, As: "n"},
	})
	require.NoError(t, err)

	// One output row per distinct group key; both NULL categories are
	// one group.
	require.Equal(t, 3, out.NumRows())

	total := int64(0)
	for _, n := range columnInts(t, out, "n") {
		total += n
	}
	require.Equal(t, int64(input.NumRows()), total, "counts across groups partition the input")
}

func TestAggregateFunctions(t *testing.T) {
	schema := table.MustSchema(
		table.Column{Name: "grp", Kind: types.KindText},
		table.Column{Name: "v", Kind: types.KindInteger},
	)
	b := table.NewBuilder(schema)
	require.NoError(t, b.Append(text("x"), integer(10)))
	require.NoError(t, b.Append(text("x"), integer(20)))
	require.NoError(t, b.Append(text("x"), types.Null))
	require.NoError(t, b.Append(text("y"), types.Null))
	input := b.Build()

	p := NewPipeline()
	out, err := p.Aggregate(context.Background(), input, []string{"grp"}, []Aggregate{
		{Func: AggCount, Column: "v", As: "cnt"},
		{Func: AggSum, Column: "v", As: "total"},
		{Func: AggAvg, Column: "v", As: "mean"},
		{Func: AggMin, Column: "v", As: "lo"},
		{Func: AggMax, Column: "v", As: "hi"},
	})
	require.NoError(t, err)
	require.Equal(t, 2, out.NumRows())

	// Output column order is group columns then aggregates in spec order.
	names := make([]string, 0)
	for _, c := range out.Schema().Columns() {
		names = append(names, c.Name)
	}
	require.Equal(t, []string{"grp", "cnt", "total", "mean", "lo", "hi"}, names)

	// Group x: nulls do not contribute.
	require.Equal(t, []int64{2, 0}, columnInts(t, out, "cnt"))
	require.Equal(t, []int64{30, -1}, columnInts(t, out, "total"))

	mean, err := out.Value(0, "mean")
	require.NoError(t, err)
	require.InDelta(t, 15.0, mean.Float(), 1e-9)

	// Group y: zero contributors yield NULL, not zero.
	for _, col := range []string{"total", "mean", "lo", "hi"} {
		v, err := out.Value(1, col)
		require.NoError(t, err)
		require.True(t, v.IsNull(), "empty group %s must be NULL", col)
	}
}

func TestAggregateErrors(t *testing.T) {
	input := categoryValues(t, row(text("a"), text("p"), integer(1)))
	p := NewPipeline()

	t.Run("missing group column", func(t *testing.T) {
		_, err := p.Aggregate(context.Background(), input, []string{"nope"}, nil)
		var se *table.SchemaError
		require.ErrorAs(t, err, &se)
		require.Equal(t, "nope", se.Column)
	})

	t.Run("missing aggregate column", func(t *testing.T) {
		_, err := p.Aggregate(context.Background(), input, nil, []Aggregate{
			{Func: AggSum, Column: "nope", As: "s"},
		})
		var se *table.SchemaError
		require.ErrorAs(t, err, &se)
	})

	t.Run("AVG over text", func(t *testing.T) {
		_, err := p.Aggregate(context.Background(), input, nil, []Aggregate{
			{Func: AggAvg, Column: "product", As: "bad"},
		})
		var te *types.TypeError
		require.ErrorAs(t, err, &te)
		require.Equal(t, "product", te.Column)
	})
}

func TestAggregateWholeTable(t *testing.T) {
	input := categoryValues(t,
		row(text("a"), text("p1"), integer(10)),
		row(text("b"), text("p2"), integer(30)),
	)
	p := NewPipeline()
	out, err := p.Aggregate(context.Background(), input, nil, []Aggregate{
		{Func: AggSum, Column: "value", As: "total"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, out.NumRows())
	require.Equal(t, []int64{40}, columnInts(t, out, "total"))
}

func TestAggregateParallelIsDeterministic(t *testing.T) {
	schema := table.MustSchema(
		table.Column{Name: "grp", Kind: types.KindInteger},
		table.Column{Name: "v", Kind: types.KindInteger},
	)
	b := table.NewBuilder(schema)
	for i := 0; i < 500; i++ {
		require.NoError(t, b.Append(integer(int64(i%17)), integer(int64(i))))
	}
	input := b.Build()

	run := func(parallelism int) []int64 {
		p := NewPipeline(WithParallelism(parallelism))
		out, err := p.Aggregate(context.Background(), input, []string{"grp"}, []Aggregate{
			{Func: AggSum, Column: "v", As: "total"},
		})
		require.NoError(t, err)
		return columnInts(t, out, "total")
	}

	serial := run(1)
	for i := 0; i < 5; i++ {
		require.Equal(t, serial, run(8), "group order and totals must not depend on scheduling")
	}
}

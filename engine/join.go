package engine

import (
	"context"

	"github.com/connerohnesorge/tabq/table"
	"github.com/connerohnesorge/tabq/types"
)

// JoinOptions disambiguates column names across the two join sides.
// RightPrefix, when set, renames every right-side column to
// prefix+name in the joined schema.
type JoinOptions struct {
	RightPrefix string
}

// joinSchema builds the combined schema: left columns as-is, right
// columns optionally prefixed. A name collision without a prefix is a
// SchemaError.
func joinSchema(left, right *table.Schema, opts JoinOptions) (*table.Schema, error) {
	cols := left.Columns()
	for _, rc := range right.Columns() {
		name := opts.RightPrefix + rc.Name
		if left.Has(name) {
			return nil, &table.SchemaError{
				Column: name,
				Reason: "column exists on both join sides; supply a disambiguating right prefix",
			}
		}
		cols = append(cols, table.Column{Name: name, Kind: rc.Kind})
	}
	return table.NewSchema(cols...)
}

// leftOuter is the single evaluation pass shared by LeftOuterJoin and
// AntiJoin. Every left row appears at least once; padded[i] marks
// output rows whose right side is null padding for an unmatched left
// row.
func (p *Pipeline) leftOuter(ctx context.Context, left, right *table.Table, on Predicate, opts JoinOptions) (*table.Table, []bool, error) {
	combined, err := joinSchema(left.Schema(), right.Schema(), opts)
	if err != nil {
		return nil, nil, err
	}

	b := table.NewBuilder(combined)
	var padded []bool
	nullPad := make([]types.Value, right.Schema().Len())
	for i := range nullPad {
		nullPad[i] = types.Null
	}

	for li := 0; li < left.NumRows(); li++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		leftVals := left.Row(li).Values()
		matched := false
		for ri := 0; ri < right.NumRows(); ri++ {
			vals := append(append([]types.Value(nil), leftVals...), right.Row(ri).Values()...)
			tri, err := on.Test(combined, table.NewRow(vals...))
			if err != nil {
				return nil, nil, err
			}
			if tri != True {
				continue
			}
			matched = true
			if err := b.Append(vals...); err != nil {
				return nil, nil, err
			}
			padded = append(padded, false)
		}
		if !matched {
			vals := append(append([]types.Value(nil), leftVals...), nullPad...)
			if err := b.Append(vals...); err != nil {
				return nil, nil, err
			}
			padded = append(padded, true)
		}
	}
	return b.Build(), padded, nil
}

// LeftOuterJoin joins two tables, keeping every left row. Matching
// right rows are combined field-wise; unmatched left rows carry Null
// in every right-side column. The predicate sees the combined schema,
// so it can mix key equality with range bounds (for example a date
// window on the right side).
func (p *Pipeline) LeftOuterJoin(ctx context.Context, left, right *table.Table, on Predicate, opts JoinOptions) (*table.Table, error) {
	joined, _, err := p.leftOuter(ctx, left, right, on, opts)
	return joined, err
}

// AntiJoin returns exactly the left rows with zero right matches under
// the predicate. It reuses the outer-join pass and keeps the rows
// whose right side is all null padding, so left and right are each
// scanned once.
func (p *Pipeline) AntiJoin(ctx context.Context, left, right *table.Table, on Predicate, opts JoinOptions) (*table.Table, error) {
	joined, padded, err := p.leftOuter(ctx, left, right, on, opts)
	if err != nil {
		return nil, err
	}
	b := table.NewBuilder(left.Schema())
	leftWidth := left.Schema().Len()
	for i := 0; i < joined.NumRows(); i++ {
		if !padded[i] {
			continue
		}
		row := joined.Row(i)
		vals := make([]types.Value, leftWidth)
		for c := 0; c < leftWidth; c++ {
			vals[c] = row.Value(c)
		}
		if err := b.Append(vals...); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

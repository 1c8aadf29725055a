package engine

import (
	"context"
	"sort"

	"github.com/connerohnesorge/tabq/table"
	"github.com/connerohnesorge/tabq/types"
)

// OrderKey is one ORDER BY column with its direction.
type OrderKey struct {
	Column string
	Desc   bool
}

// sortIndices stable-sorts the given row indices of t by the order
// keys. Ties keep their relative input order. Null placement follows
// nullsFirst. Incomparable kinds across rows surface as a ValueError
// naming the offending column.
func sortIndices(t *table.Table, indices []int, keys []OrderKey, nullsFirst bool) error {
	colIdx := make([]int, len(keys))
	for i, k := range keys {
		idx, err := t.Schema().Index(k.Column)
		if err != nil {
			return err
		}
		colIdx[i] = idx
	}

	var sortErr error
	sort.SliceStable(indices, func(a, b int) bool {
		if sortErr != nil {
			return false
		}
		ra, rb := t.Row(indices[a]), t.Row(indices[b])
		for i, k := range keys {
			cmp, err := types.OrderCompare(ra.Value(colIdx[i]), rb.Value(colIdx[i]), nullsFirst)
			if err != nil {
				if ve, ok := err.(*types.ValueError); ok && ve.Column == "" {
					ve.Column = k.Column
				}
				sortErr = err
				return false
			}
			if cmp != 0 {
				if k.Desc {
					return cmp > 0
				}
				return cmp < 0
			}
		}
		return false
	})
	return sortErr
}

// Sort returns a new table with rows stably ordered by the keys.
func (p *Pipeline) Sort(ctx context.Context, t *table.Table, keys []OrderKey) (*table.Table, error) {
	indices := make([]int, t.NumRows())
	for i := range indices {
		indices[i] = i
	}
	if err := sortIndices(t, indices, keys, p.nullsSortFirst); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := table.NewBuilder(t.Schema())
	for _, idx := range indices {
		if err := b.AppendRow(t.Row(idx)); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// Filter returns a new table with the rows for which the predicate is
// true. Unknown (null-involved) results exclude the row, per SQL
// three-valued filter semantics.
func (p *Pipeline) Filter(ctx context.Context, t *table.Table, pred Predicate) (*table.Table, error) {
	b := table.NewBuilder(t.Schema())
	for i := 0; i < t.NumRows(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row := t.Row(i)
		tri, err := pred.Test(t.Schema(), row)
		if err != nil {
			return nil, err
		}
		if tri != True {
			continue
		}
		if err := b.AppendRow(row); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

package engine

import (
	"context"
	"fmt"

	"github.com/connerohnesorge/tabq/internal/concurrency"
	"github.com/connerohnesorge/tabq/table"
	"github.com/connerohnesorge/tabq/types"
)

// AggFunc names an aggregate function.
type AggFunc int

const (
	AggCount AggFunc = iota
	AggSum
	AggAvg
	AggMin
	AggMax
)

// String returns the SQL name of the function.
func (f AggFunc) String() string {
	switch f {
	case AggCount:
		return "COUNT"
	case AggSum:
		return "SUM"
	case AggAvg:
		return "AVG"
	case AggMin:
		return "MIN"
	case AggMax:
		return "MAX"
	default:
		return fmt.Sprintf("AggFunc(%d)", int(f))
	}
}

// Star is the source column for COUNT(*).
const Star = "*"

// Aggregate describes one aggregate output column. Column is the
// source column, or Star for COUNT(*). As names the output column.
type Aggregate struct {
	Func   AggFunc
	Column string
	As     string
}

// aggState accumulates one aggregate over one group. Null inputs are
// skipped by the caller; states only ever see non-null values.
type aggState interface {
	update(v types.Value) error
	finalize() types.Value
}

type countState struct {
	count int64
}

func (s *countState) update(types.Value) error {
	s.count++
	return nil
}

func (s *countState) finalize() types.Value {
	return types.NewInteger(s.count)
}

type sumState struct {
	column   string
	sumInt   int64
	sumFloat float64
	decimal  bool
	hasValue bool
}

func (s *sumState) update(v types.Value) error {
	switch v.Kind() {
	case types.KindInteger:
		s.sumInt += v.Int()
	case types.KindDecimal:
		s.decimal = true
		s.sumFloat += v.Float()
	default:
		return &types.TypeError{Op: "sum", Column: s.column, Left: types.KindDecimal, Right: v.Kind()}
	}
	s.hasValue = true
	return nil
}

func (s *sumState) finalize() types.Value {
	if !s.hasValue {
		return types.Null
	}
	if s.decimal {
		return types.NewDecimal(s.sumFloat + float64(s.sumInt))
	}
	return types.NewInteger(s.sumInt)
}

type avgState struct {
	column string
	sum    float64
	count  int64
}

func (s *avgState) update(v types.Value) error {
	switch v.Kind() {
	case types.KindInteger:
		s.sum += float64(v.Int())
	case types.KindDecimal:
		s.sum += v.Float()
	default:
		return &types.TypeError{Op: "average", Column: s.column, Left: types.KindDecimal, Right: v.Kind()}
	}
	s.count++
	return nil
}

// finalize divides by the non-null contributor count; a group with no
// contributors yields Null rather than a division by zero.
func (s *avgState) finalize() types.Value {
	if s.count == 0 {
		return types.Null
	}
	return types.NewDecimal(s.sum / float64(s.count))
}

type minMaxState struct {
	column string
	max    bool
	best   types.Value
}

func (s *minMaxState) update(v types.Value) error {
	if s.best.IsNull() {
		s.best = v
		return nil
	}
	cmp, err := types.Compare(v, s.best)
	if err != nil {
		return &types.TypeError{Op: "compare", Column: s.column, Left: v.Kind(), Right: s.best.Kind()}
	}
	if (s.max && cmp > 0) || (!s.max && cmp < 0) {
		s.best = v
	}
	return nil
}

func (s *minMaxState) finalize() types.Value {
	return s.best
}

func newAggState(agg Aggregate) aggState {
	switch agg.Func {
	case AggCount:
		return &countState{}
	case AggSum:
		return &sumState{column: agg.Column}
	case AggAvg:
		return &avgState{column: agg.Column}
	case AggMin:
		return &minMaxState{column: agg.Column}
	case AggMax:
		return &minMaxState{column: agg.Column, max: true}
	default:
		return nil
	}
}

// resultKind declares the output kind of an aggregate over a source
// column of the given kind.
func resultKind(f AggFunc, source types.Kind) types.Kind {
	switch f {
	case AggCount:
		return types.KindInteger
	case AggAvg:
		return types.KindDecimal
	case AggSum:
		if source == types.KindDecimal {
			return types.KindDecimal
		}
		return types.KindInteger
	default:
		return source
	}
}

// groupPartition collects the row indices of one group, in input order.
type groupPartition struct {
	keyValues []types.Value
	rowIdx    []int
}

// partitionByColumns splits the table's rows into groups keyed by the
// given columns, null-aware (two Nulls group together). Groups come
// back in first-seen order so downstream output is deterministic.
func partitionByColumns(t *table.Table, columns []string) ([]*groupPartition, error) {
	colIdx := make([]int, len(columns))
	for i, name := range columns {
		idx, err := t.Schema().Index(name)
		if err != nil {
			return nil, err
		}
		colIdx[i] = idx
	}

	byKey := make(map[string]*groupPartition)
	var ordered []*groupPartition
	keyBuf := make([]types.Value, len(columns))
	for i := 0; i < t.NumRows(); i++ {
		row := t.Row(i)
		for j, idx := range colIdx {
			keyBuf[j] = row.Value(idx)
		}
		key := types.EncodeKey(keyBuf)
		part, ok := byKey[key]
		if !ok {
			part = &groupPartition{keyValues: append([]types.Value(nil), keyBuf...)}
			byKey[key] = part
			ordered = append(ordered, part)
		}
		part.rowIdx = append(part.rowIdx, i)
	}
	return ordered, nil
}

// Aggregate groups the table by the given columns and computes the
// aggregates per group. Output columns are the group columns followed
// by the aggregates, in the order given; output rows follow the
// first appearance of each group key. COUNT counts non-null source
// values, COUNT(*) counts rows; AVG over zero contributors is Null.
func (p *Pipeline) Aggregate(ctx context.Context, t *table.Table, groupBy []string, aggs []Aggregate) (*table.Table, error) {
	schema := t.Schema()

	// Resolve aggregate source columns up front so a bad column fails
	// before any work is done.
	srcIdx := make([]int, len(aggs))
	outCols := make([]table.Column, 0, len(groupBy)+len(aggs))
	for _, name := range groupBy {
		idx, err := schema.Index(name)
		if err != nil {
			return nil, err
		}
		outCols = append(outCols, schema.Column(idx))
	}
	for i, agg := range aggs {
		if agg.Column == Star {
			if agg.Func != AggCount {
				return nil, &table.SchemaError{Column: Star, Reason: "only COUNT may aggregate over *"}
			}
			srcIdx[i] = -1
			outCols = append(outCols, table.Column{Name: agg.As, Kind: types.KindInteger})
			continue
		}
		idx, err := schema.Index(agg.Column)
		if err != nil {
			return nil, err
		}
		if agg.Func == AggSum || agg.Func == AggAvg {
			if k := schema.Column(idx).Kind; k != types.KindInteger && k != types.KindDecimal {
				return nil, &types.TypeError{Op: agg.Func.String(), Column: agg.Column, Left: types.KindDecimal, Right: k}
			}
		}
		srcIdx[i] = idx
		outCols = append(outCols, table.Column{Name: agg.As, Kind: resultKind(agg.Func, schema.Column(idx).Kind)})
	}

	parts, err := partitionByColumns(t, groupBy)
	if err != nil {
		return nil, err
	}

	results := make([][]types.Value, len(parts))
	pool := concurrency.NewPool(ctx, p.parallelism)
	for pi, part := range parts {
		pi, part := pi, part
		pool.Go(func(ctx context.Context) error {
			states := make([]aggState, len(aggs))
			for i, agg := range aggs {
				states[i] = newAggState(agg)
			}
			for _, ri := range part.rowIdx {
				if err := ctx.Err(); err != nil {
					return err
				}
				row := t.Row(ri)
				for i := range aggs {
					if srcIdx[i] < 0 {
						// COUNT(*): every row contributes.
						if err := states[i].update(types.Null); err != nil {
							return err
						}
						continue
					}
					v := row.Value(srcIdx[i])
					if v.IsNull() {
						continue
					}
					if err := states[i].update(v); err != nil {
						return err
					}
				}
			}
			out := make([]types.Value, 0, len(part.keyValues)+len(aggs))
			out = append(out, part.keyValues...)
			for i := range states {
				out = append(out, states[i].finalize())
			}
			results[pi] = out
			return nil
		})
	}
	if err := pool.Wait(); err != nil {
		return nil, err
	}

	outSchema, err := table.NewSchema(outCols...)
	if err != nil {
		return nil, err
	}
	b := table.NewBuilder(outSchema)
	for _, vals := range results {
		if err := b.Append(vals...); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

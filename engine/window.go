package engine

import (
	"context"
	"fmt"

	"github.com/connerohnesorge/tabq/internal/concurrency"
	"github.com/connerohnesorge/tabq/table"
	"github.com/connerohnesorge/tabq/types"
)

// WindowFunc names a window function.
type WindowFunc int

const (
	WinRowNumber WindowFunc = iota
	WinRank
	WinDenseRank
	WinSum
	WinCount
	WinAvg
	WinMin
	WinMax
)

// String returns the SQL name of the function.
func (f WindowFunc) String() string {
	switch f {
	case WinRowNumber:
		return "ROW_NUMBER"
	case WinRank:
		return "RANK"
	case WinDenseRank:
		return "DENSE_RANK"
	case WinSum:
		return "SUM"
	case WinCount:
		return "COUNT"
	case WinAvg:
		return "AVG"
	case WinMin:
		return "MIN"
	case WinMax:
		return "MAX"
	default:
		return fmt.Sprintf("WindowFunc(%d)", int(f))
	}
}

func (f WindowFunc) ranking() bool {
	return f == WinRowNumber || f == WinRank || f == WinDenseRank
}

// aggFunc maps a running-aggregate window function onto its aggregate
// state machine.
func (f WindowFunc) aggFunc() AggFunc {
	switch f {
	case WinSum:
		return AggSum
	case WinCount:
		return AggCount
	case WinAvg:
		return AggAvg
	case WinMin:
		return AggMin
	default:
		return AggMax
	}
}

// BoundKind names one frame bound.
type BoundKind int

const (
	UnboundedPreceding BoundKind = iota
	NPreceding
	CurrentRow
	NFollowing
	UnboundedFollowing
)

// Bound is one end of a frame. N is used by NPreceding/NFollowing.
type Bound struct {
	Kind BoundKind
	N    int64
}

// Frame is a contiguous sub-range of a partition, row-based.
type Frame struct {
	Start Bound
	End   Bound
}

// WholeFrame frames the entire partition.
func WholeFrame() *Frame {
	return &Frame{
		Start: Bound{Kind: UnboundedPreceding},
		End:   Bound{Kind: UnboundedFollowing},
	}
}

// RunningFrame frames UNBOUNDED PRECEDING..CURRENT ROW.
func RunningFrame() *Frame {
	return &Frame{
		Start: Bound{Kind: UnboundedPreceding},
		End:   Bound{Kind: CurrentRow},
	}
}

// RollingFrame frames the trailing n rows up to the current row,
// the moving-average shape.
func RollingFrame(nPreceding int64) *Frame {
	return &Frame{
		Start: Bound{Kind: NPreceding, N: nPreceding},
		End:   Bound{Kind: CurrentRow},
	}
}

// resolve clamps the frame to [0, size) around position pos. An empty
// frame comes back as start > end.
func (f *Frame) resolve(pos, size int) (int, int) {
	start, end := 0, size-1
	switch f.Start.Kind {
	case UnboundedPreceding:
		start = 0
	case NPreceding:
		start = pos - int(f.Start.N)
	case CurrentRow:
		start = pos
	case NFollowing:
		start = pos + int(f.Start.N)
	case UnboundedFollowing:
		start = size - 1
	}
	switch f.End.Kind {
	case UnboundedPreceding:
		end = 0
	case NPreceding:
		end = pos - int(f.End.N)
	case CurrentRow:
		end = pos
	case NFollowing:
		end = pos + int(f.End.N)
	case UnboundedFollowing:
		end = size - 1
	}
	if start < 0 {
		start = 0
	}
	if end > size-1 {
		end = size - 1
	}
	return start, end
}

// WindowSpec describes one window computation. The result is appended
// to the table as a new column named As. Column is the aggregate
// source and is ignored by ranking functions. A nil Frame uses the
// pipeline's frame default.
type WindowSpec struct {
	PartitionBy []string
	OrderBy     []OrderKey
	Func        WindowFunc
	Column      string
	As          string
	Frame       *Frame
}

// Window evaluates the window spec over the table and returns a new
// table with one extra column. Rows keep their input order, which also
// resolves ranking ties: equal sort keys rank in input order, making
// the output deterministic for identical inputs.
func (p *Pipeline) Window(ctx context.Context, t *table.Table, spec WindowSpec) (*table.Table, error) {
	schema := t.Schema()
	if spec.As == "" {
		return nil, &table.SchemaError{Column: spec.As, Reason: "window output column name must not be empty"}
	}
	if schema.Has(spec.As) {
		return nil, &table.SchemaError{Column: spec.As, Reason: "window output column already exists"}
	}
	for _, k := range spec.OrderBy {
		if _, err := schema.Index(k.Column); err != nil {
			return nil, err
		}
	}

	var srcIdx int
	outKind := types.KindInteger
	if !spec.Func.ranking() {
		idx, err := schema.Index(spec.Column)
		if err != nil {
			return nil, err
		}
		srcIdx = idx
		srcKind := schema.Column(idx).Kind
		if spec.Func == WinSum || spec.Func == WinAvg {
			if srcKind != types.KindInteger && srcKind != types.KindDecimal {
				return nil, &types.TypeError{Op: spec.Func.String(), Column: spec.Column, Left: types.KindDecimal, Right: srcKind}
			}
		}
		outKind = resultKind(spec.Func.aggFunc(), srcKind)
	}

	parts, err := partitionByColumns(t, spec.PartitionBy)
	if err != nil {
		return nil, err
	}

	frame := spec.Frame
	if frame == nil {
		if len(spec.OrderBy) > 0 && p.frameDefault == FrameUnboundedToCurrent {
			frame = RunningFrame()
		} else {
			frame = WholeFrame()
		}
	}

	out := make([]types.Value, t.NumRows())
	pool := concurrency.NewPool(ctx, p.parallelism)
	for _, part := range parts {
		part := part
		pool.Go(func(ctx context.Context) error {
			indices := append([]int(nil), part.rowIdx...)
			if err := sortIndices(t, indices, spec.OrderBy, p.nullsSortFirst); err != nil {
				return err
			}
			if spec.Func.ranking() {
				return p.rankPartition(t, indices, spec, out)
			}
			return p.framePartition(ctx, t, indices, spec, frame, srcIdx, out)
		})
	}
	if err := pool.Wait(); err != nil {
		return nil, err
	}

	outSchema, err := schema.Extend(table.Column{Name: spec.As, Kind: outKind})
	if err != nil {
		return nil, err
	}
	b := table.NewBuilder(outSchema)
	for i := 0; i < t.NumRows(); i++ {
		vals := append(t.Row(i).Values(), out[i])
		if err := b.Append(vals...); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// rankPartition fills ROW_NUMBER/RANK/DENSE_RANK for one sorted
// partition. With no ORDER BY every row ties: rank and dense rank are
// all 1, row number still runs 1..N in input order.
func (p *Pipeline) rankPartition(t *table.Table, indices []int, spec WindowSpec, out []types.Value) error {
	colIdx := make([]int, len(spec.OrderBy))
	for i, k := range spec.OrderBy {
		idx, err := t.Schema().Index(k.Column)
		if err != nil {
			return err
		}
		colIdx[i] = idx
	}

	rank, dense := 1, 1
	for pos, rowIdx := range indices {
		if pos > 0 {
			tied, err := p.sameOrderKeys(t, indices[pos-1], rowIdx, colIdx, spec.OrderBy)
			if err != nil {
				return err
			}
			if !tied {
				rank = pos + 1
				dense++
			}
		}
		switch spec.Func {
		case WinRowNumber:
			out[rowIdx] = types.NewInteger(int64(pos + 1))
		case WinRank:
			out[rowIdx] = types.NewInteger(int64(rank))
		case WinDenseRank:
			out[rowIdx] = types.NewInteger(int64(dense))
		}
	}
	return nil
}

// sameOrderKeys reports whether two rows tie on every order key.
func (p *Pipeline) sameOrderKeys(t *table.Table, a, b int, colIdx []int, keys []OrderKey) (bool, error) {
	ra, rb := t.Row(a), t.Row(b)
	for i, k := range keys {
		cmp, err := types.OrderCompare(ra.Value(colIdx[i]), rb.Value(colIdx[i]), p.nullsSortFirst)
		if err != nil {
			if ve, ok := err.(*types.ValueError); ok && ve.Column == "" {
				ve.Column = k.Column
			}
			return false, err
		}
		if cmp != 0 {
			return false, nil
		}
	}
	return true, nil
}

// framePartition computes a running aggregate over each row's frame in
// one sorted partition.
func (p *Pipeline) framePartition(ctx context.Context, t *table.Table, indices []int, spec WindowSpec, frame *Frame, srcIdx int, out []types.Value) error {
	agg := Aggregate{Func: spec.Func.aggFunc(), Column: spec.Column}
	for pos, rowIdx := range indices {
		if err := ctx.Err(); err != nil {
			return err
		}
		start, end := frame.resolve(pos, len(indices))
		state := newAggState(agg)
		// COUNT over a frame counts non-null source values, like the
		// grouped COUNT(column).
		for i := start; i <= end; i++ {
			v := t.Row(indices[i]).Value(srcIdx)
			if v.IsNull() {
				continue
			}
			if err := state.update(v); err != nil {
				return err
			}
		}
		out[rowIdx] = state.finalize()
	}
	return nil
}

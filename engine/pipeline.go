// Package engine evaluates analytical operations — grouped
// aggregation, window functions, outer/anti joins, recursive hierarchy
// traversal and top-K selection — over in-memory typed tables. Each
// operation consumes and returns a Table, so callers chain them the
// way CTE stages chain in SQL.
package engine

import (
	"context"
	"errors"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/connerohnesorge/tabq/internal/logger"
	"github.com/connerohnesorge/tabq/table"
)

// FrameDefault selects the implicit window frame when a WindowSpec
// carries no explicit one.
type FrameDefault int

const (
	// FrameUnboundedToCurrent uses UNBOUNDED PRECEDING..CURRENT ROW
	// when an ORDER BY is present, whole partition otherwise.
	FrameUnboundedToCurrent FrameDefault = iota
	// FrameWholePartition always frames the whole partition.
	FrameWholePartition
)

// Pipeline owns the evaluation configuration and threads a Table
// through an ordered list of steps. It holds no state between runs
// beyond its configuration.
type Pipeline struct {
	nullsSortFirst bool
	parallelism    int
	frameDefault   FrameDefault
	logger         logger.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithNullsSortFirst places nulls before non-null values when sorting.
// The default sorts them last.
func WithNullsSortFirst(first bool) Option {
	return func(p *Pipeline) { p.nullsSortFirst = first }
}

// WithParallelism bounds the worker pool used for partition-parallel
// work. Defaults to the number of available cores.
func WithParallelism(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.parallelism = n
		}
	}
}

// WithFrameDefault sets the implicit window frame policy.
func WithFrameDefault(fd FrameDefault) Option {
	return func(p *Pipeline) { p.frameDefault = fd }
}

// WithLogger installs a logger. The default discards everything.
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPipeline builds a pipeline with the given options.
func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{
		parallelism:  runtime.GOMAXPROCS(0),
		frameDefault: FrameUnboundedToCurrent,
		logger:       logger.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Step is one stage of a pipeline. Steps are stateless; diagnostics
// (today only traversal orphans) ride back in the second return.
type Step interface {
	// Name identifies the step in logs and errors.
	Name() string
	// Run transforms the in-flight table.
	Run(ctx context.Context, p *Pipeline, t *table.Table) (*table.Table, []OrphanNode, error)
}

// Result is the outcome of a pipeline run: the final table plus any
// non-fatal diagnostics collected along the way.
type Result struct {
	Table   *table.Table
	Orphans []OrphanNode
}

// Run threads the input table through the steps in order. Cancellation
// is checked between steps; on cancellation the returned error is a
// PartialResultError carrying the last fully materialized table.
func (p *Pipeline) Run(ctx context.Context, input *table.Table, steps ...Step) (*Result, error) {
	res := &Result{Table: input}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, &PartialResultError{Table: res.Table, Err: err}
		}
		start := time.Now()
		out, orphans, err := step.Run(ctx, p, res.Table)
		if err != nil {
			var partial *PartialResultError
			if errors.As(err, &partial) {
				return nil, err
			}
			if ctx.Err() != nil {
				return nil, &PartialResultError{Table: res.Table, Err: ctx.Err()}
			}
			return nil, err
		}
		res.Orphans = append(res.Orphans, orphans...)
		p.logger.Debug("pipeline step done",
			zap.String("step", step.Name()),
			zap.Int("rows", out.NumRows()),
			zap.Duration("elapsed", time.Since(start)),
		)
		res.Table = out
	}
	return res, nil
}

package engine

import (
	"context"

	"github.com/connerohnesorge/tabq/table"
)

// AggregateStep groups and aggregates the in-flight table.
type AggregateStep struct {
	GroupBy    []string
	Aggregates []Aggregate
}

func (s *AggregateStep) Name() string { return "aggregate" }

func (s *AggregateStep) Run(ctx context.Context, p *Pipeline, t *table.Table) (*table.Table, []OrphanNode, error) {
	out, err := p.Aggregate(ctx, t, s.GroupBy, s.Aggregates)
	return out, nil, err
}

// WindowStep appends a window function column.
type WindowStep struct {
	Spec WindowSpec
}

func (s *WindowStep) Name() string { return "window" }

func (s *WindowStep) Run(ctx context.Context, p *Pipeline, t *table.Table) (*table.Table, []OrphanNode, error) {
	out, err := p.Window(ctx, t, s.Spec)
	return out, nil, err
}

// FilterStep keeps rows matching the predicate.
type FilterStep struct {
	Predicate Predicate
}

func (s *FilterStep) Name() string { return "filter" }

func (s *FilterStep) Run(ctx context.Context, p *Pipeline, t *table.Table) (*table.Table, []OrphanNode, error) {
	out, err := p.Filter(ctx, t, s.Predicate)
	return out, nil, err
}

// SortStep orders rows by the keys.
type SortStep struct {
	Keys []OrderKey
}

func (s *SortStep) Name() string { return "sort" }

func (s *SortStep) Run(ctx context.Context, p *Pipeline, t *table.Table) (*table.Table, []OrphanNode, error) {
	out, err := p.Sort(ctx, t, s.Keys)
	return out, nil, err
}

// JoinStep left-outer-joins the in-flight table with Right.
type JoinStep struct {
	Right   *table.Table
	On      Predicate
	Options JoinOptions
}

func (s *JoinStep) Name() string { return "left-outer-join" }

func (s *JoinStep) Run(ctx context.Context, p *Pipeline, t *table.Table) (*table.Table, []OrphanNode, error) {
	out, err := p.LeftOuterJoin(ctx, t, s.Right, s.On, s.Options)
	return out, nil, err
}

// AntiJoinStep keeps in-flight rows without a match in Right.
type AntiJoinStep struct {
	Right   *table.Table
	On      Predicate
	Options JoinOptions
}

func (s *AntiJoinStep) Name() string { return "anti-join" }

func (s *AntiJoinStep) Run(ctx context.Context, p *Pipeline, t *table.Table) (*table.Table, []OrphanNode, error) {
	out, err := p.AntiJoin(ctx, t, s.Right, s.On, s.Options)
	return out, nil, err
}

// TraverseStep expands the in-flight (id, parent, label) table into
// (id, path) rows, reporting orphans as diagnostics.
type TraverseStep struct {
	Spec TraverseSpec
}

func (s *TraverseStep) Name() string { return "traverse" }

func (s *TraverseStep) Run(ctx context.Context, p *Pipeline, t *table.Table) (*table.Table, []OrphanNode, error) {
	return p.Traverse(ctx, t, s.Spec)
}

// TopKStep keeps rows whose rank column is <= K.
type TopKStep struct {
	RankColumn string
	K          int64
}

func (s *TopKStep) Name() string { return "top-k" }

func (s *TopKStep) Run(ctx context.Context, p *Pipeline, t *table.Table) (*table.Table, []OrphanNode, error) {
	out, err := p.TopK(ctx, t, s.RankColumn, s.K)
	return out, nil, err
}

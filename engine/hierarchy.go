package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/connerohnesorge/tabq/internal/concurrency"
	"github.com/connerohnesorge/tabq/table"
	"github.com/connerohnesorge/tabq/types"
)

// PathCombine computes a child's path from its parent's path and its
// own label.
type PathCombine func(parentPath string, label types.Value) string

// SlashPath is the default PathCombine: parent/label.
func SlashPath(parentPath string, label types.Value) string {
	if parentPath == "" {
		return label.String()
	}
	return parentPath + "/" + label.String()
}

// TraverseSpec describes a hierarchy traversal over a table of
// (id, parent, label) rows.
type TraverseSpec struct {
	IDColumn     string
	ParentColumn string
	LabelColumn  string
	// IsRoot selects the starting nodes, e.g. IsNull(Col("parent_id")).
	IsRoot Predicate
	// Combine builds child paths; defaults to SlashPath.
	Combine PathCombine
	// PathColumn names the output path column; defaults to "path".
	PathColumn string
}

type hierNode struct {
	row       int
	id        types.Value
	parent    types.Value
	label     types.Value
	idKey     string
	parentKey string
}

// Traverse resolves every node reachable from the roots breadth-first
// and returns (id, path) rows, parents before children. Nodes whose
// parent chain loops raise a CycleError; nodes whose chain dead-ends
// on a missing parent are reported as OrphanNode diagnostics next to
// the successful result.
func (p *Pipeline) Traverse(ctx context.Context, nodes *table.Table, spec TraverseSpec) (*table.Table, []OrphanNode, error) {
	out, orphans, rounds, err := p.traverse(ctx, nodes, spec)
	if err == nil {
		p.logger.Debug("hierarchy traversal done",
			zap.Int("rounds", rounds),
			zap.Int("resolved", out.NumRows()),
			zap.Int("orphans", len(orphans)),
		)
	}
	return out, orphans, err
}

func (p *Pipeline) traverse(ctx context.Context, nodes *table.Table, spec TraverseSpec) (*table.Table, []OrphanNode, int, error) {
	schema := nodes.Schema()
	idIdx, err := schema.Index(spec.IDColumn)
	if err != nil {
		return nil, nil, 0, err
	}
	parentIdx, err := schema.Index(spec.ParentColumn)
	if err != nil {
		return nil, nil, 0, err
	}
	labelIdx, err := schema.Index(spec.LabelColumn)
	if err != nil {
		return nil, nil, 0, err
	}
	combine := spec.Combine
	if combine == nil {
		combine = SlashPath
	}
	pathCol := spec.PathColumn
	if pathCol == "" {
		pathCol = "path"
	}

	all := make([]*hierNode, 0, nodes.NumRows())
	for i := 0; i < nodes.NumRows(); i++ {
		row := nodes.Row(i)
		n := &hierNode{
			row:    i,
			id:     row.Value(idIdx),
			parent: row.Value(parentIdx),
			label:  row.Value(labelIdx),
		}
		n.idKey = types.EncodeKey([]types.Value{n.id})
		n.parentKey = types.EncodeKey([]types.Value{n.parent})
		all = append(all, n)
	}

	outSchema, err := table.NewSchema(
		table.Column{Name: spec.IDColumn, Kind: schema.Column(idIdx).Kind},
		table.Column{Name: pathCol, Kind: types.KindText},
	)
	if err != nil {
		return nil, nil, 0, err
	}
	b := table.NewBuilder(outSchema)

	// Resolve roots first.
	resolved := make(map[string]string, len(all))
	var pending []*hierNode
	for _, n := range all {
		tri, err := spec.IsRoot.Test(schema, nodes.Row(n.row))
		if err != nil {
			return nil, nil, 0, err
		}
		if tri == True {
			path := combine("", n.label)
			resolved[n.idKey] = path
			if err := b.Append(n.id, types.NewText(path)); err != nil {
				return nil, nil, 0, err
			}
		} else {
			pending = append(pending, n)
		}
	}

	// Fixpoint expansion: each round resolves every pending node whose
	// parent resolved in an earlier round. Rounds are barriers — the
	// resolved set is read-only while a round is in flight, which keeps
	// in-round parallelism deterministic.
	rounds := 0
	for {
		rounds++
		if err := ctx.Err(); err != nil {
			return nil, nil, rounds, &PartialResultError{Table: b.Build(), Err: err}
		}
		var frontier []*hierNode
		var remaining []*hierNode
		for _, n := range pending {
			if _, ok := resolved[n.parentKey]; ok {
				frontier = append(frontier, n)
			} else {
				remaining = append(remaining, n)
			}
		}
		if len(frontier) == 0 {
			break
		}

		paths := make([]string, len(frontier))
		pool := concurrency.NewPool(ctx, p.parallelism)
		for i, n := range frontier {
			i, n := i, n
			pool.Go(func(context.Context) error {
				paths[i] = combine(resolved[n.parentKey], n.label)
				return nil
			})
		}
		if err := pool.Wait(); err != nil {
			return nil, nil, rounds, err
		}
		for i, n := range frontier {
			resolved[n.idKey] = paths[i]
			if err := b.Append(n.id, types.NewText(paths[i])); err != nil {
				return nil, nil, rounds, err
			}
		}
		pending = remaining
	}

	// Everything still pending either loops or dead-ends. A loop is
	// fatal; dead ends are reported, not dropped.
	byID := make(map[string]*hierNode, len(pending))
	for _, n := range pending {
		byID[n.idKey] = n
	}
	var orphans []OrphanNode
	for _, n := range pending {
		seen := make(map[string]bool)
		cur := n
		for {
			if seen[cur.idKey] {
				return nil, nil, rounds, &CycleError{ID: cur.id}
			}
			seen[cur.idKey] = true
			next, ok := byID[cur.parentKey]
			if !ok {
				// Parent is neither pending nor resolved: the chain
				// dead-ends outside the node set.
				orphans = append(orphans, OrphanNode{ID: n.id, ParentID: n.parent})
				break
			}
			cur = next
		}
	}
	return b.Build(), orphans, rounds, nil
}

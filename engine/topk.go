package engine

import (
	"context"

	"github.com/connerohnesorge/tabq/table"
	"github.com/connerohnesorge/tabq/types"
)

// TopK keeps the rows whose value in rankColumn is <= k. rankColumn is
// typically produced by Window with a ranking function; the choice of
// ROW_NUMBER versus RANK there is what decides whether boundary ties
// are cut or included.
func (p *Pipeline) TopK(ctx context.Context, t *table.Table, rankColumn string, k int64) (*table.Table, error) {
	if _, err := t.Schema().Index(rankColumn); err != nil {
		return nil, err
	}
	return p.Filter(ctx, t, Le(Col(rankColumn), Lit(types.NewInteger(k))))
}

package engine

import (
	"fmt"

	"github.com/connerohnesorge/tabq/table"
	"github.com/connerohnesorge/tabq/types"
)

// CycleError reports a repeated id along a parent chain during
// hierarchy traversal.
type CycleError struct {
	ID types.Value
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected in hierarchy at id %s", e.ID)
}

// OrphanNode is a non-fatal diagnostic for a node whose parent chain
// never reaches a root. Orphans are reported alongside a successful
// traversal result, not dropped.
type OrphanNode struct {
	ID       types.Value
	ParentID types.Value
}

func (o OrphanNode) String() string {
	return fmt.Sprintf("orphan node %s (parent %s unresolved)", o.ID, o.ParentID)
}

// PartialResultError is returned when a pipeline is cancelled
// mid-flight. Table holds whatever was fully materialized before the
// cancellation; it is always a consistent Table, never a torn one.
type PartialResultError struct {
	Table *table.Table
	Err   error
}

func (e *PartialResultError) Error() string {
	return fmt.Sprintf("pipeline cancelled: %v", e.Err)
}

func (e *PartialResultError) Unwrap() error {
	return e.Err
}

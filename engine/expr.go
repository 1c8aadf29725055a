package engine

import (
	"errors"

	"github.com/connerohnesorge/tabq/table"
	"github.com/connerohnesorge/tabq/types"
)

// Expr is a scalar expression evaluated against one row of a schema.
type Expr interface {
	Eval(schema *table.Schema, row table.Row) (types.Value, error)
}

// ColumnExpr references a column by name.
type ColumnExpr struct {
	Name string
}

// Col references the named column.
func Col(name string) *ColumnExpr {
	return &ColumnExpr{Name: name}
}

func (e *ColumnExpr) Eval(schema *table.Schema, row table.Row) (types.Value, error) {
	idx, err := schema.Index(e.Name)
	if err != nil {
		return types.Null, err
	}
	return row.Value(idx), nil
}

// ConstantExpr holds a literal value.
type ConstantExpr struct {
	Value types.Value
}

// Lit wraps a literal value.
func Lit(v types.Value) *ConstantExpr {
	return &ConstantExpr{Value: v}
}

func (e *ConstantExpr) Eval(*table.Schema, table.Row) (types.Value, error) {
	return e.Value, nil
}

// ArithOp is an arithmetic operator over scalar expressions.
type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
)

// ArithExpr applies an arithmetic operator to two sub-expressions.
type ArithExpr struct {
	Op    ArithOp
	Left  Expr
	Right Expr
}

// Add builds left + right.
func Add(left, right Expr) *ArithExpr {
	return &ArithExpr{Op: OpAdd, Left: left, Right: right}
}

// Sub builds left - right.
func Sub(left, right Expr) *ArithExpr {
	return &ArithExpr{Op: OpSub, Left: left, Right: right}
}

func (e *ArithExpr) Eval(schema *table.Schema, row table.Row) (types.Value, error) {
	l, err := e.Left.Eval(schema, row)
	if err != nil {
		return types.Null, err
	}
	r, err := e.Right.Eval(schema, row)
	if err != nil {
		return types.Null, err
	}
	if e.Op == OpAdd {
		return types.Add(l, r)
	}
	return types.Sub(l, r)
}

// Tri is a three-valued logic result. Predicates over Null operands are
// Unknown, which filters treat as false.
type Tri int

const (
	False Tri = iota
	True
	Unknown
)

// Predicate is a boolean test over one row under three-valued logic.
type Predicate interface {
	Test(schema *table.Schema, row table.Row) (Tri, error)
}

// CmpOp is a comparison operator.
type CmpOp int

const (
	OpEq CmpOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

// CmpPredicate compares two scalar expressions.
type CmpPredicate struct {
	Op    CmpOp
	Left  Expr
	Right Expr
}

// Eq builds left = right.
func Eq(left, right Expr) *CmpPredicate { return &CmpPredicate{Op: OpEq, Left: left, Right: right} }

// Ne builds left <> right.
func Ne(left, right Expr) *CmpPredicate { return &CmpPredicate{Op: OpNe, Left: left, Right: right} }

// Lt builds left < right.
func Lt(left, right Expr) *CmpPredicate { return &CmpPredicate{Op: OpLt, Left: left, Right: right} }

// Le builds left <= right.
func Le(left, right Expr) *CmpPredicate { return &CmpPredicate{Op: OpLe, Left: left, Right: right} }

// Gt builds left > right.
func Gt(left, right Expr) *CmpPredicate { return &CmpPredicate{Op: OpGt, Left: left, Right: right} }

// Ge builds left >= right.
func Ge(left, right Expr) *CmpPredicate { return &CmpPredicate{Op: OpGe, Left: left, Right: right} }

func (p *CmpPredicate) Test(schema *table.Schema, row table.Row) (Tri, error) {
	l, err := p.Left.Eval(schema, row)
	if err != nil {
		return Unknown, err
	}
	r, err := p.Right.Eval(schema, row)
	if err != nil {
		return Unknown, err
	}
	if l.IsNull() || r.IsNull() {
		return Unknown, nil
	}
	cmp, err := types.Compare(l, r)
	if err != nil {
		// Incomparable kinds inside a predicate are a type error, not
		// an ordering error.
		var ve *types.ValueError
		if errors.As(err, &ve) {
			return Unknown, &types.TypeError{Op: "compare", Left: ve.Left, Right: ve.Right}
		}
		return Unknown, err
	}
	var ok bool
	switch p.Op {
	case OpEq:
		ok = cmp == 0
	case OpNe:
		ok = cmp != 0
	case OpLt:
		ok = cmp < 0
	case OpLe:
		ok = cmp <= 0
	case OpGt:
		ok = cmp > 0
	case OpGe:
		ok = cmp >= 0
	}
	if ok {
		return True, nil
	}
	return False, nil
}

// AndPredicate is Kleene conjunction.
type AndPredicate struct {
	Preds []Predicate
}

// And conjoins predicates.
func And(preds ...Predicate) *AndPredicate {
	return &AndPredicate{Preds: preds}
}

func (p *AndPredicate) Test(schema *table.Schema, row table.Row) (Tri, error) {
	result := True
	for _, sub := range p.Preds {
		t, err := sub.Test(schema, row)
		if err != nil {
			return Unknown, err
		}
		if t == False {
			return False, nil
		}
		if t == Unknown {
			result = Unknown
		}
	}
	return result, nil
}

// OrPredicate is Kleene disjunction.
type OrPredicate struct {
	Preds []Predicate
}

// Or disjoins predicates.
func Or(preds ...Predicate) *OrPredicate {
	return &OrPredicate{Preds: preds}
}

func (p *OrPredicate) Test(schema *table.Schema, row table.Row) (Tri, error) {
	result := False
	for _, sub := range p.Preds {
		t, err := sub.Test(schema, row)
		if err != nil {
			return Unknown, err
		}
		if t == True {
			return True, nil
		}
		if t == Unknown {
			result = Unknown
		}
	}
	return result, nil
}

// NotPredicate negates under Kleene logic: NOT Unknown is Unknown.
type NotPredicate struct {
	Pred Predicate
}

// Not negates a predicate.
func Not(pred Predicate) *NotPredicate {
	return &NotPredicate{Pred: pred}
}

func (p *NotPredicate) Test(schema *table.Schema, row table.Row) (Tri, error) {
	t, err := p.Pred.Test(schema, row)
	if err != nil || t == Unknown {
		return Unknown, err
	}
	if t == True {
		return False, nil
	}
	return True, nil
}

// IsNullPredicate tests nullness; it is two-valued.
type IsNullPredicate struct {
	Expr   Expr
	Negate bool
}

// IsNull tests expr IS NULL.
func IsNull(expr Expr) *IsNullPredicate {
	return &IsNullPredicate{Expr: expr}
}

// IsNotNull tests expr IS NOT NULL.
func IsNotNull(expr Expr) *IsNullPredicate {
	return &IsNullPredicate{Expr: expr, Negate: true}
}

func (p *IsNullPredicate) Test(schema *table.Schema, row table.Row) (Tri, error) {
	v, err := p.Expr.Eval(schema, row)
	if err != nil {
		return Unknown, err
	}
	if v.IsNull() != p.Negate {
		return True, nil
	}
	return False, nil
}

package types

import (
	"strconv"
	"strings"
)

// Compare totally orders two non-null values of comparable kinds.
// Mixed numeric kinds compare under promotion; all other mixed kinds
// are a ValueError. Null operands are the caller's concern: ordering
// of nulls is a sort-level policy, not a property of the values
// (see OrderCompare), and predicate equality over nulls is three-valued
// (see PredicateEqual).
func Compare(a, b Value) (int, error) {
	if a.IsNull() || b.IsNull() {
		return 0, &ValueError{Op: "compare", Left: a.kind, Right: b.kind}
	}
	if a.kind.isNumeric() && b.kind.isNumeric() {
		af, bf := a.asFloat(), b.asFloat()
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		}
		return 0, nil
	}
	if a.kind != b.kind {
		return 0, &ValueError{Op: "compare", Left: a.kind, Right: b.kind}
	}
	switch a.kind {
	case KindText:
		return strings.Compare(a.s, b.s), nil
	case KindInteger, KindDate:
		switch {
		case a.i < b.i:
			return -1, nil
		case a.i > b.i:
			return 1, nil
		}
		return 0, nil
	case KindDecimal:
		switch {
		case a.d < b.d:
			return -1, nil
		case a.d > b.d:
			return 1, nil
		}
		return 0, nil
	}
	return 0, &ValueError{Op: "compare", Left: a.kind, Right: b.kind}
}

// OrderCompare orders two values for sorting, placing nulls last by
// default or first when nullsFirst is set. Two nulls order equal.
func OrderCompare(a, b Value, nullsFirst bool) (int, error) {
	switch {
	case a.IsNull() && b.IsNull():
		return 0, nil
	case a.IsNull():
		if nullsFirst {
			return -1, nil
		}
		return 1, nil
	case b.IsNull():
		if nullsFirst {
			return 1, nil
		}
		return -1, nil
	}
	return Compare(a, b)
}

// PredicateEqual is SQL predicate equality: any Null operand makes the
// result unknown (false here), including Null = Null.
func PredicateEqual(a, b Value) (bool, error) {
	if a.IsNull() || b.IsNull() {
		return false, nil
	}
	cmp, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return cmp == 0, nil
}

// GroupEqual is grouping equality: two Nulls land in the same group.
func GroupEqual(a, b Value) (bool, error) {
	if a.IsNull() && b.IsNull() {
		return true, nil
	}
	if a.IsNull() || b.IsNull() {
		return false, nil
	}
	cmp, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return cmp == 0, nil
}

// EncodeKey builds a collision-free grouping key for a tuple of values
// under GroupEqual semantics. The encoding is kind-tagged so that the
// integer 1 and the text "1" land in different groups.
func EncodeKey(values []Value) string {
	var sb strings.Builder
	for _, v := range values {
		switch v.kind {
		case KindNull:
			sb.WriteString("n|")
		case KindInteger:
			sb.WriteString("i:")
			sb.WriteString(v.String())
			sb.WriteByte('|')
		case KindDecimal:
			sb.WriteString("d:")
			sb.WriteString(v.String())
			sb.WriteByte('|')
		case KindDate:
			sb.WriteString("t:")
			sb.WriteString(v.String())
			sb.WriteByte('|')
		case KindText:
			// Length-prefixed so embedded separators cannot merge keys.
			sb.WriteString("s:")
			sb.WriteString(strconv.Itoa(len(v.s)))
			sb.WriteByte(':')
			sb.WriteString(v.s)
			sb.WriteByte('|')
		}
	}
	return sb.String()
}

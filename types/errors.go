package types

import "fmt"

// TypeError reports an operation applied to incompatible value kinds,
// such as AVG over TEXT or adding a date to a string.
type TypeError struct {
	Op     string
	Column string // set when the failure is attributable to a column
	Left   Kind
	Right  Kind
}

func (e *TypeError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("type error: cannot %s %s and %s (column %q)", e.Op, e.Left, e.Right, e.Column)
	}
	return fmt.Sprintf("type error: cannot %s %s and %s", e.Op, e.Left, e.Right)
}

// ValueError reports incomparable values encountered while ordering,
// e.g. an ORDER BY key that mixes TEXT and INTEGER across rows.
type ValueError struct {
	Op     string
	Column string
	Left   Kind
	Right  Kind
}

func (e *ValueError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("value error: cannot %s %s with %s (column %q)", e.Op, e.Left, e.Right, e.Column)
	}
	return fmt.Sprintf("value error: cannot %s %s with %s", e.Op, e.Left, e.Right)
}

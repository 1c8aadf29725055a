package types

import (
	"fmt"
	"strconv"
)

// Kind identifies the logical type of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindInteger
	KindDecimal
	KindText
	KindDate
)

// String returns the SQL-ish name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "NULL"
	case KindInteger:
		return "INTEGER"
	case KindDecimal:
		return "DECIMAL"
	case KindText:
		return "TEXT"
	case KindDate:
		return "DATE"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a tagged scalar over {Integer, Decimal, Text, Date, Null}.
// The zero Value is Null.
type Value struct {
	kind Kind
	i    int64
	d    float64
	s    string
}

// Null is the SQL null value.
var Null = Value{kind: KindNull}

// NewInteger creates an INTEGER value.
func NewInteger(v int64) Value {
	return Value{kind: KindInteger, i: v}
}

// NewDecimal creates a DECIMAL value.
func NewDecimal(v float64) Value {
	return Value{kind: KindDecimal, d: v}
}

// NewText creates a TEXT value.
func NewText(v string) Value {
	return Value{kind: KindText, s: v}
}

// NewDate creates a DATE value from an epoch-day ordinal.
func NewDate(d Date) Value {
	return Value{kind: KindDate, i: int64(d)}
}

// Kind returns the kind tag.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is Null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Int returns the INTEGER payload. Only meaningful when Kind() == KindInteger.
func (v Value) Int() int64 {
	return v.i
}

// Float returns the DECIMAL payload. Only meaningful when Kind() == KindDecimal.
func (v Value) Float() float64 {
	return v.d
}

// Text returns the TEXT payload. Only meaningful when Kind() == KindText.
func (v Value) Text() string {
	return v.s
}

// Date returns the DATE payload. Only meaningful when Kind() == KindDate.
func (v Value) Date() Date {
	return Date(v.i)
}

// String renders the value for display and diagnostics.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindDecimal:
		return strconv.FormatFloat(v.d, 'g', -1, 64)
	case KindText:
		return v.s
	case KindDate:
		return Date(v.i).String()
	default:
		return fmt.Sprintf("Value(%d)", int(v.kind))
	}
}

// isNumeric reports whether the kind participates in numeric promotion.
func (k Kind) isNumeric() bool {
	return k == KindInteger || k == KindDecimal
}

// asFloat converts a numeric value to float64 for promoted arithmetic.
func (v Value) asFloat() float64 {
	if v.kind == KindInteger {
		return float64(v.i)
	}
	return v.d
}

// Add adds two values. Integer+Integer stays INTEGER; mixed numeric
// promotes to DECIMAL; Date+Integer shifts the date by days. Any Null
// operand yields Null.
func Add(a, b Value) (Value, error) {
	if a.IsNull() || b.IsNull() {
		return Null, nil
	}
	switch {
	case a.kind == KindInteger && b.kind == KindInteger:
		return NewInteger(a.i + b.i), nil
	case a.kind.isNumeric() && b.kind.isNumeric():
		return NewDecimal(a.asFloat() + b.asFloat()), nil
	case a.kind == KindDate && b.kind == KindInteger:
		return NewDate(Date(a.i).AddDays(b.i)), nil
	case a.kind == KindInteger && b.kind == KindDate:
		return NewDate(Date(b.i).AddDays(a.i)), nil
	}
	return Null, &TypeError{Op: "add", Left: a.kind, Right: b.kind}
}

// Sub subtracts b from a under the same promotion rules as Add.
// Date-Date yields the INTEGER day difference.
func Sub(a, b Value) (Value, error) {
	if a.IsNull() || b.IsNull() {
		return Null, nil
	}
	switch {
	case a.kind == KindInteger && b.kind == KindInteger:
		return NewInteger(a.i - b.i), nil
	case a.kind.isNumeric() && b.kind.isNumeric():
		return NewDecimal(a.asFloat() - b.asFloat()), nil
	case a.kind == KindDate && b.kind == KindInteger:
		return NewDate(Date(a.i).AddDays(-b.i)), nil
	case a.kind == KindDate && b.kind == KindDate:
		return NewInteger(a.i - b.i), nil
	}
	return Null, &TypeError{Op: "subtract", Left: a.kind, Right: b.kind}
}

package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompareOrdersWithinKind(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"integers", NewInteger(1), NewInteger(2), -1},
		{"integer equality", NewInteger(7), NewInteger(7), 0},
		{"decimals", NewDecimal(2.5), NewDecimal(1.5), 1},
		{"numeric promotion", NewInteger(2), NewDecimal(2.5), -1},
		{"promotion equality", NewInteger(3), NewDecimal(3.0), 0},
		{"text", NewText("a"), NewText("b"), -1},
		{"dates", NewDate(MustParseDate("2024-01-01")), NewDate(MustParseDate("2024-06-01")), -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Compare(tc.a, tc.b)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestCompareRejectsMixedKinds(t *testing.T) {
	_, err := Compare(NewText("1"), NewInteger(1))
	require.Error(t, err)
	var ve *ValueError
	require.ErrorAs(t, err, &ve)
}

func TestOrderCompareNullPlacement(t *testing.T) {
	cmp, err := OrderCompare(Null, NewInteger(1), false)
	require.NoError(t, err)
	require.Equal(t, 1, cmp, "nulls sort last by default")

	cmp, err = OrderCompare(Null, NewInteger(1), true)
	require.NoError(t, err)
	require.Equal(t, -1, cmp, "nulls sort first when configured")

	cmp, err = OrderCompare(Null, Null, false)
	require.NoError(t, err)
	require.Equal(t, 0, cmp)
}

func TestPredicateEqualIsThreeValued(t *testing.T) {
	eq, err := PredicateEqual(Null, Null)
	require.NoError(t, err)
	require.False(t, eq, "NULL = NULL is not true for predicates")

	eq, err = PredicateEqual(Null, NewInteger(1))
	require.NoError(t, err)
	require.False(t, eq)

	eq, err = PredicateEqual(NewInteger(1), NewInteger(1))
	require.NoError(t, err)
	require.True(t, eq)
}

func TestGroupEqualTreatsNullsAsEqual(t *testing.T) {
	eq, err := GroupEqual(Null, Null)
	require.NoError(t, err)
	require.True(t, eq, "two NULLs share a group")

	eq, err = GroupEqual(Null, NewInteger(1))
	require.NoError(t, err)
	require.False(t, eq)
}

func TestEncodeKeySeparatesKindsAndContent(t *testing.T) {
	require.NotEqual(t,
		EncodeKey([]Value{NewInteger(1)}),
		EncodeKey([]Value{NewText("1")}),
		"integer 1 and text \"1\" must not collide")

	require.NotEqual(t,
		EncodeKey([]Value{NewText("a|"), NewText("b")}),
		EncodeKey([]Value{NewText("a"), NewText("|b")}),
		"separator characters inside text must not merge keys")

	require.Equal(t,
		EncodeKey([]Value{Null, NewText("x")}),
		EncodeKey([]Value{Null, NewText("x")}))
}

func TestArithmeticPromotionAndDates(t *testing.T) {
	sum, err := Add(NewInteger(2), NewInteger(3))
	require.NoError(t, err)
	require.Equal(t, KindInteger, sum.Kind())
	require.Equal(t, int64(5), sum.Int())

	mixed, err := Add(NewInteger(2), NewDecimal(0.5))
	require.NoError(t, err)
	require.Equal(t, KindDecimal, mixed.Kind())
	require.InDelta(t, 2.5, mixed.Float(), 1e-9)

	shifted, err := Add(NewDate(MustParseDate("2024-03-10")), NewInteger(5))
	require.NoError(t, err)
	require.Equal(t, "2024-03-15", shifted.Date().String())

	diff, err := Sub(NewDate(MustParseDate("2024-03-15")), NewDate(MustParseDate("2024-03-10")))
	require.NoError(t, err)
	require.Equal(t, int64(5), diff.Int())

	null, err := Add(Null, NewInteger(1))
	require.NoError(t, err)
	require.True(t, null.IsNull(), "null propagates through arithmetic")

	_, err = Add(NewText("x"), NewInteger(1))
	var te *TypeError
	require.ErrorAs(t, err, &te)
}

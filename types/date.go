package types

import "time"

// Date is a day-precision scalar stored as days since the Unix epoch.
// It is comparable and addable but carries no calendar arithmetic of
// its own; callers supply concrete dates and intervals.
type Date int64

// DateOf converts a wall-clock time to its epoch-day ordinal in UTC.
func DateOf(t time.Time) Date {
	return Date(t.UTC().Unix() / 86400)
}

// MustParseDate parses a YYYY-MM-DD string, panicking on malformed
// input. Intended for literals in tests and examples.
func MustParseDate(s string) Date {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return DateOf(t)
}

// AddDays returns the date shifted by n days.
func (d Date) AddDays(n int64) Date {
	return d + Date(n)
}

// Time returns the midnight UTC instant of the date.
func (d Date) Time() time.Time {
	return time.Unix(int64(d)*86400, 0).UTC()
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time().Format("2006-01-02")
}

package domain

import (
	"encoding/json"
	"time"
)

// DateLayout is the provider's canonical date form. Fixed width and zero
// padded, so string order and chronological order are the same thing.
const DateLayout = "20060102"

// Date is a calendar day in YYYYMMDD form. Values built through ParseDate,
// NewDate or the arithmetic helpers are always canonical.
type Date string

func NewDate(year int, month time.Month, day int) Date {
	return DateFromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

func DateFromTime(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Today returns the current day in China Standard Time, which is the
// calendar the disclosures are dated in.
func Today() Date {
	loc := time.FixedZone("CST", 8*60*60)
	return DateFromTime(time.Now().In(loc))
}

// ParseDate validates s as a canonical date. Anything that does not
// round-trip exactly (wrong width, separators, impossible days) is rejected.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil || t.Format(DateLayout) != s {
		return "", &InvalidDateError{Value: s}
	}
	return Date(s), nil
}

func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

func (d Date) String() string {
	return string(d)
}

func (d Date) Valid() bool {
	_, err := ParseDate(string(d))
	return err == nil
}

func (d Date) AddDays(n int) Date {
	return DateFromTime(d.Time().AddDate(0, 0, n))
}

// AddMonths follows time.AddDate normalization, so Oct 31 + 4 months is
// Mar 3 (or Mar 2 in a leap year).
func (d Date) AddMonths(n int) Date {
	return DateFromTime(d.Time().AddDate(0, n, 0))
}

func (d Date) Before(o Date) bool { return d < o }

func (d Date) After(o Date) bool { return d > o }

// MonthDay returns the MMDD suffix.
func (d Date) MonthDay() string {
	if len(d) != len(DateLayout) {
		return ""
	}
	return string(d[4:])
}

// FirstOfMonth returns YYYYMM01 for d.
func (d Date) FirstOfMonth() Date {
	if len(d) != len(DateLayout) {
		return d
	}
	return Date(string(d[:6]) + "01")
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

package darian

import (
	"encoding/binary"
	"fmt"

	"github.com/dchest/siphash"
)

// A Date is a Darian calendar date: (year, month, sol). Dates are plain
// comparable values; == and Cmp agree with ordinal order.
//
// The zero value is not a valid Date (month and sol zero); construct Dates
// with NewDate, DateFromOrdinal or DateFromTimestamp.
type Date struct {
	year  int16
	month int8
	sol   int8
}

// The first and last representable Dates, and the smallest Duration that
// distinguishes two Dates.
var (
	MinDate        = Date{year: MinYear, month: 1, sol: 1}
	MaxDate        = Date{year: MaxYear, month: 24, sol: 28}
	DateResolution = Duration{sols: 1}
)

// NewDate validates the fields in order year, month, sol and returns the
// Date. The sol bound depends on the year and month: months 6, 12 and 18
// have 27 sols, month 24 has 27 in non-leap years, all others 28.
func NewDate(year, month, sol int) (Date, error) {
	if err := checkDateFields(year, month, sol); err != nil {
		return Date{}, err
	}
	return Date{year: int16(year), month: int8(month), sol: int8(sol)}, nil
}

// DateFromOrdinal returns the Date with the given proleptic ordinal, where
// year 0, month 1, sol 1 is ordinal 1.
func DateFromOrdinal(n int) (Date, error) {
	if n < 1 || n > maxOrdinal {
		return Date{}, fmt.Errorf("%w: ordinal %d", ErrOverflow, n)
	}
	y, m, s := ordToYmd(n)
	return Date{year: int16(y), month: int8(m), sol: int8(s)}, nil
}

// DateFromTimestamp returns the Date of the MTC sol containing the given
// POSIX timestamp.
func DateFromTimestamp(ts float64) (Date, error) {
	y, m, s, _, _, _, err := marsFromTimestamp(ts)
	if err != nil {
		return Date{}, err
	}
	return NewDate(y, m, s)
}

// Year returns the year, in 0..9999.
func (d Date) Year() int { return int(d.year) }

// Month returns the month, in 1..24.
func (d Date) Month() int { return int(d.month) }

// Sol returns the sol of the month, in 1..28.
func (d Date) Sol() int { return int(d.sol) }

// Ordinal returns the proleptic ordinal of d.
func (d Date) Ordinal() int {
	return ymdToOrd(int(d.year), int(d.month), int(d.sol))
}

// Weeksol returns the sol of the week, where Lunae is 0 and Solis is 6.
// Weeks are a plain 7-sol cycle with no relation to month boundaries.
func (d Date) Weeksol() int {
	return (int(d.sol) + 5) % 7
}

// YearSol returns the sol of the year, with month 1, sol 1 as 1.
func (d Date) YearSol() int {
	return solsBeforeMonth(int(d.month)) + int(d.sol)
}

// Add returns the Date v.Sols() sols after d (before, if negative). The
// sub-sol components of v are ignored for date-only arithmetic. It fails
// with ErrOverflow if the result leaves the representable range.
func (d Date) Add(v Duration) (Date, error) {
	o := int64(d.Ordinal()) + v.sols
	if o < 1 || o > maxOrdinal {
		return Date{}, fmt.Errorf("%w: ordinal %d", ErrOverflow, o)
	}
	return DateFromOrdinal(int(o))
}

// Sub returns the whole-sol Duration d - o.
func (d Date) Sub(o Date) Duration {
	return Duration{sols: int64(d.Ordinal() - o.Ordinal())}
}

// Before reports whether d is earlier than o.
func (d Date) Before(o Date) bool { return d.Cmp(o) < 0 }

// After reports whether d is later than o.
func (d Date) After(o Date) bool { return d.Cmp(o) > 0 }

// Cmp compares d and o lexicographically on (year, month, sol), which is
// the same order as the ordinals.
func (d Date) Cmp(o Date) int {
	switch {
	case d.year != o.year:
		return cmpInt64(int64(d.year), int64(o.year))
	case d.month != o.month:
		return cmpInt64(int64(d.month), int64(o.month))
	default:
		return cmpInt64(int64(d.sol), int64(o.sol))
	}
}

// Hash returns a hash of the date fields. Equal Dates hash equally.
func (d Date) Hash() uint64 {
	var b [4]byte
	binary.BigEndian.PutUint16(b[0:2], uint16(d.year))
	b[2] = byte(d.month)
	b[3] = byte(d.sol)
	return siphash.Hash(hashKey0, hashKey1, b[:])
}

// String renders the date as "YYYY-MM-DD(Martian)".
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d(Martian)", d.year, d.month, d.sol)
}

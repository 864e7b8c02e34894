// Package darian implements the Darian calendar for Mars: a 24-month,
// 669/668-sol year with proleptic ordinal arithmetic, normalized durations,
// zone-aware date-times, and conversion to and from terrestrial (Gregorian /
// POSIX) time.
//
// Year 0, month 1 (Sagittarius), sol 1 is ordinal 1. Year 0 corresponds to
// AD 1609/1610, when Kepler published his first two laws and Galileo
// observed the phases of Mars.
//
// All types in this package are immutable values; none of them is safe to
// mutate and all of them are safe for concurrent use.
package darian

// MinYear and MaxYear bound the supported calendar range. The leap rule is
// an approximation of the published Darian intercalation scheme and is not
// defined beyond this range, so it is never extrapolated.
const (
	MinYear = 0
	MaxYear = 9999
)

// maxOrdinal is the ordinal of year 9999, month 24, sol 28.
const maxOrdinal = 6685945

const (
	secondsPerSol = 24 * 3600
	usecPerSecond = 1000000
)

// isLeap reports whether year is a leap year (669 sols instead of 668).
//
// The rule changes across five year bands. Each band first applies its own
// "century-like" exception modulus, then the shared divisible-by-10 and odd
// rules. The band below 2001 additionally treats millennia as always leap.
func isLeap(year int) bool {
	var except int
	switch {
	case year <= 2000:
		if year%1000 == 0 {
			return true
		}
		except = 100
	case year <= 4800:
		except = 150
	case year <= 6800:
		except = 200
	case year <= 8400:
		except = 300
	default:
		except = 600
	}
	if year%except == 0 {
		return false
	}
	return year%10 == 0 || year%2 == 1
}

// solsBeforeYear returns the number of sols before month 1, sol 1 of year.
// The closed form uses the same band structure as isLeap: a linear 669-sol
// term with integer-division corrections, plus a per-band constant that
// stitches the bands together.
func solsBeforeYear(year int) int {
	x := year - 1
	switch {
	case year <= 2000:
		return year*669 - x/2 + x/10 - x/100 + x/1000
	case year <= 4800:
		return year*669 - x/2 + x/10 - x/150 - 5
	case year <= 6800:
		return year*669 - x/2 + x/10 - x/200 - 13
	case year <= 8400:
		return year*669 - x/2 + x/10 - x/300 - 25
	}
	return year*669 - x/2 + x/10 - x/600 - 39
}

// solsBeforeMonth returns the number of sols in a year preceding the first
// sol of month. Only month 24 (Vrishika) ever carries the leap sol, so no
// per-year table is needed here.
func solsBeforeMonth(month int) int {
	return (month-1)*28 - (month-1)/6
}

// solsInMonth returns the number of sols in the given month of the given
// year: 27 for months 6, 12 and 18, 27 for month 24 in non-leap years,
// and 28 otherwise.
func solsInMonth(year, month int) int {
	if month == 6 || month == 12 || month == 18 {
		return 27
	}
	if month == 24 && !isLeap(year) {
		return 27
	}
	return 28
}

// ymdToOrd converts validated (year, month, sol) to an ordinal sol count,
// with year 0, month 1, sol 1 as ordinal 1.
func ymdToOrd(year, month, sol int) int {
	return solsBeforeYear(year) + solsBeforeMonth(month) + sol
}

// ordToYmd inverts ymdToOrd. The year estimate n/668.59 and the month
// estimate n/28 are each provably within one unit of the true value, so a
// single correction step per level suffices.
func ordToYmd(n int) (year, month, sol int) {
	year = int(float64(n) / 668.59)
	if n <= solsBeforeYear(year) {
		year--
	} else if n > solsBeforeYear(year+1) {
		year++
	}
	n -= solsBeforeYear(year)
	month = n/28 + 1
	if n <= solsBeforeMonth(month) {
		month--
	} else if month < 24 && n > solsBeforeMonth(month+1) {
		month++
	}
	n -= solsBeforeMonth(month)
	return year, month, n
}

// checkDateFields validates (year, month, sol) in that order and returns
// the first range violation found.
func checkDateFields(year, month, sol int) error {
	if year < MinYear || year > MaxYear {
		return rangeErr("year", int64(year), MinYear, MaxYear)
	}
	if month < 1 || month > 24 {
		return rangeErr("month", int64(month), 1, 24)
	}
	if dim := solsInMonth(year, month); sol < 1 || sol > dim {
		return rangeErr("sol", int64(sol), 1, int64(dim))
	}
	return nil
}

// checkClockFields validates wall-clock fields in order.
func checkClockFields(hour, minute, second, microsecond, fold int) error {
	if hour < 0 || hour > 23 {
		return rangeErr("hour", int64(hour), 0, 23)
	}
	if minute < 0 || minute > 59 {
		return rangeErr("minute", int64(minute), 0, 59)
	}
	if second < 0 || second > 59 {
		return rangeErr("second", int64(second), 0, 59)
	}
	if microsecond < 0 || microsecond > 999999 {
		return rangeErr("microsecond", int64(microsecond), 0, 999999)
	}
	if fold != 0 && fold != 1 {
		return rangeErr("fold", int64(fold), 0, 1)
	}
	return nil
}

package darian

import (
	"fmt"

	"github.com/dchest/siphash"
)

// A DateTime is a Darian calendar date with a wall-clock time, optionally
// bound to a Zone. A DateTime with a nil Zone is naive: it has no defined
// relationship to the MTC reference frame.
//
// DateTimes are immutable; the With* methods return copies. One Zone value
// is commonly shared by many DateTimes, so Zones are held by reference and
// must be comparable (pointer-shaped) for the identity fast paths to work.
type DateTime struct {
	date                 Date
	hour, minute, second int8
	usec                 int32
	zone                 Zone
	fold                 uint8
	hcache               hashCache
}

// The first and last representable DateTimes, and the smallest Duration
// that distinguishes two DateTimes.
var (
	MinDateTime = &DateTime{date: MinDate}
	MaxDateTime = &DateTime{date: MaxDate, hour: 23, minute: 59, second: 59, usec: usecPerSecond - 1}

	DateTimeResolution = Duration{usecs: 1}
)

// NewDateTime validates the fields in order year, month, sol, hour,
// minute, second, microsecond and returns the DateTime. zone may be nil
// for a naive value.
func NewDateTime(year, month, sol, hour, minute, second, microsecond int, zone Zone) (*DateTime, error) {
	if err := checkDateFields(year, month, sol); err != nil {
		return nil, err
	}
	if err := checkClockFields(hour, minute, second, microsecond, 0); err != nil {
		return nil, err
	}
	return &DateTime{
		date:   Date{year: int16(year), month: int8(month), sol: int8(sol)},
		hour:   int8(hour),
		minute: int8(minute),
		second: int8(second),
		usec:   int32(microsecond),
		zone:   zone,
	}, nil
}

// Combine joins a Date and a Clock into a DateTime, taking the zone and
// fold from the clock.
func Combine(d Date, c *Clock) *DateTime {
	return &DateTime{
		date:   d,
		hour:   c.hour,
		minute: c.minute,
		second: c.second,
		usec:   c.usec,
		zone:   c.zone,
		fold:   c.fold,
	}
}

// WithFold returns a copy of dt with the given fold, 0 or 1.
func (dt *DateTime) WithFold(fold int) (*DateTime, error) {
	if fold != 0 && fold != 1 {
		return nil, rangeErr("fold", int64(fold), 0, 1)
	}
	out := dt.copy()
	out.fold = uint8(fold)
	return out, nil
}

// WithZone returns a copy of dt bound to z, without adjusting any field.
// Pass nil to strip the zone.
func (dt *DateTime) WithZone(z Zone) *DateTime {
	out := dt.copy()
	out.zone = z
	return out
}

func (dt *DateTime) copy() *DateTime {
	return &DateTime{date: dt.date, hour: dt.hour, minute: dt.minute,
		second: dt.second, usec: dt.usec, zone: dt.zone, fold: dt.fold}
}

// Date returns the calendar date part.
func (dt *DateTime) Date() Date { return dt.date }

// Clock returns the wall-clock part as a naive Clock, preserving fold.
func (dt *DateTime) Clock() *Clock {
	return &Clock{hour: dt.hour, minute: dt.minute, second: dt.second,
		usec: dt.usec, fold: dt.fold}
}

// Year returns the year, in 0..9999.
func (dt *DateTime) Year() int { return int(dt.date.year) }

// Month returns the month, in 1..24.
func (dt *DateTime) Month() int { return int(dt.date.month) }

// Sol returns the sol of the month, in 1..28.
func (dt *DateTime) Sol() int { return int(dt.date.sol) }

// Hour returns the hour, in 0..23.
func (dt *DateTime) Hour() int { return int(dt.hour) }

// Minute returns the minute, in 0..59.
func (dt *DateTime) Minute() int { return int(dt.minute) }

// Second returns the second, in 0..59.
func (dt *DateTime) Second() int { return int(dt.second) }

// Microsecond returns the microsecond, in 0..999999.
func (dt *DateTime) Microsecond() int { return int(dt.usec) }

// Zone returns the attached Zone, or nil for a naive value.
func (dt *DateTime) Zone() Zone { return dt.zone }

// Fold returns the fold discriminator, 0 or 1.
func (dt *DateTime) Fold() int { return int(dt.fold) }

// Ordinal returns the proleptic ordinal of the date part.
func (dt *DateTime) Ordinal() int { return dt.date.Ordinal() }

// Weeksol returns the sol of the week, where Lunae is 0 and Solis is 6.
func (dt *DateTime) Weeksol() int { return dt.date.Weeksol() }

// YearSol returns the sol of the year, with month 1, sol 1 as 1.
func (dt *DateTime) YearSol() int { return dt.date.YearSol() }

// MTCOffset resolves dt's offset from MTC through its Zone. ok is false
// for a naive value or a zone with no answer; the error reports an offset
// outside (-24h, +24h).
func (dt *DateTime) MTCOffset() (Duration, bool, error) {
	return resolveOffset(dt.zone, dt)
}

// DSTOffset resolves the daylight component of the offset, with the same
// conventions as MTCOffset.
func (dt *DateTime) DSTOffset() (Duration, bool, error) {
	return resolveDST(dt.zone, dt)
}

// ZoneName returns the zone's informational name, or ok=false for a naive
// value.
func (dt *DateTime) ZoneName() (string, bool) {
	if dt.zone == nil {
		return "", false
	}
	return dt.zone.Name(dt), true
}

// Equal reports whether dt and o name the same instant. Equality is
// total: a naive value and an aware one are unequal rather than
// incomparable, and an ambiguous wall time (one whose offset depends on
// fold) under differing zones is unequal to everything but itself.
func (dt *DateTime) Equal(o *DateTime) bool {
	r, err := dt.cmp(o, true)
	return err == nil && r == 0
}

// Cmp orders dt against o, returning -1, 0 or +1. Ordering is partial:
// it fails with ErrNaiveAware when exactly one operand is naive.
func (dt *DateTime) Cmp(o *DateTime) (int, error) {
	return dt.cmp(o, false)
}

func (dt *DateTime) cmp(o *DateTime, allowMixed bool) (int, error) {
	var myoff, otoff Duration
	var myok, otok bool

	// Identical zone instances (or both naive) interpret both sides the
	// same way, so raw fields compare correctly even under a
	// discontinuous zone.
	baseCompare := dt.zone == o.zone
	if !baseCompare {
		var err error
		if myoff, myok, err = dt.MTCOffset(); err != nil {
			return 0, err
		}
		if otoff, otok, err = o.MTCOffset(); err != nil {
			return 0, err
		}
		if allowMixed {
			// An ambiguous wall time maps to two instants; under
			// differing zones it is equal to nothing.
			amb, err := dt.offsetDependsOnFold()
			if err != nil {
				return 0, err
			}
			if !amb {
				if amb, err = o.offsetDependsOnFold(); err != nil {
					return 0, err
				}
			}
			if amb {
				return cmpNotEqual, nil
			}
		}
		baseCompare = myok == otok && myoff == otoff
	}
	if baseCompare {
		return cmpFields(
			int64(dt.date.year), int64(o.date.year),
			int64(dt.date.month), int64(o.date.month),
			int64(dt.date.sol), int64(o.date.sol),
			int64(dt.hour), int64(o.hour),
			int64(dt.minute), int64(o.minute),
			int64(dt.second), int64(o.second),
			int64(dt.usec), int64(o.usec),
		), nil
	}
	if !myok || !otok {
		if allowMixed {
			return cmpNotEqual, nil
		}
		return 0, fmt.Errorf("%w: ordering naive and aware date-times", ErrNaiveAware)
	}
	diff, err := dt.Sub(o)
	if err != nil {
		return 0, err
	}
	switch {
	case diff.sols < 0:
		return -1, nil
	case diff.IsZero():
		return 0, nil
	}
	return 1, nil
}

// offsetDependsOnFold reports whether flipping fold changes the resolved
// offset, which marks dt as one of two ambiguous local representations.
func (dt *DateTime) offsetDependsOnFold() (bool, error) {
	off, ok, err := dt.MTCOffset()
	if err != nil {
		return false, err
	}
	flipped, _ := dt.WithFold(1 - int(dt.fold))
	off2, ok2, err := flipped.MTCOffset()
	if err != nil {
		return false, err
	}
	return ok != ok2 || off != off2, nil
}

// Hash returns a hash of the instant dt names. A fold=1 value is
// canonicalized to fold=0 first so both ambiguous representations of one
// instant hash identically; an aware value hashes its MTC-normalized
// fields, a naive value its raw fields. The hash is computed once and
// cached.
func (dt *DateTime) Hash() uint64 {
	return dt.hcache.get(dt.computeHash)
}

func (dt *DateTime) computeHash() uint64 {
	t := dt
	if dt.fold == 1 {
		t, _ = dt.WithFold(0)
	}
	off, ok, err := t.MTCOffset()
	if err != nil || !ok {
		b, _ := t.MarshalBinary()
		return siphash.Hash(hashKey0, hashKey1, b)
	}
	base := t.sinceEpoch()
	d, err := base.Sub(off)
	if err != nil {
		b, _ := t.MarshalBinary()
		return siphash.Hash(hashKey0, hashKey1, b)
	}
	return d.Hash()
}

// sinceEpoch expresses the ordinal and wall-clock fields as one Duration
// from the calendar epoch.
func (dt *DateTime) sinceEpoch() Duration {
	return Duration{
		sols:  int64(dt.Ordinal()),
		secs:  int32(dt.hour)*3600 + int32(dt.minute)*60 + int32(dt.second),
		usecs: dt.usec,
	}
}

// Add returns dt shifted by v, carrying any wall-clock overflow into the
// date. The zone is preserved; fold resets to 0. It fails with
// ErrOverflow if the resulting ordinal leaves the representable range.
func (dt *DateTime) Add(v Duration) (*DateTime, error) {
	sum, err := dt.sinceEpoch().Add(v)
	if err != nil {
		return nil, err
	}
	if sum.sols < 1 || sum.sols > maxOrdinal {
		return nil, fmt.Errorf("%w: ordinal %d", ErrOverflow, sum.sols)
	}
	y, m, s := ordToYmd(int(sum.sols))
	return &DateTime{
		date:   Date{year: int16(y), month: int8(m), sol: int8(s)},
		hour:   int8(sum.secs / 3600),
		minute: int8(sum.secs / 60 % 60),
		second: int8(sum.secs % 60),
		usec:   sum.usecs,
		zone:   dt.zone,
	}, nil
}

// Sub returns the Duration dt - o. With identical zones, or equal
// resolved offsets, this is the raw field difference; with differing
// offsets the offset difference is folded in. It fails with ErrNaiveAware
// when exactly one operand is naive.
func (dt *DateTime) Sub(o *DateTime) (Duration, error) {
	base, err := NewDuration(
		int64(dt.Ordinal()-o.Ordinal()),
		int64(dt.hour-o.hour)*3600+int64(dt.minute-o.minute)*60+int64(dt.second-o.second),
		int64(dt.usec-o.usec),
	)
	if err != nil {
		return Duration{}, err
	}
	if dt.zone == o.zone {
		return base, nil
	}
	myoff, myok, err := dt.MTCOffset()
	if err != nil {
		return Duration{}, err
	}
	otoff, otok, err := o.MTCOffset()
	if err != nil {
		return Duration{}, err
	}
	if myok == otok && myoff == otoff {
		return base, nil
	}
	if !myok || !otok {
		return Duration{}, fmt.Errorf("%w: subtracting naive and aware date-times", ErrNaiveAware)
	}
	shift, err := otoff.Sub(myoff)
	if err != nil {
		return Duration{}, err
	}
	return base.Add(shift)
}

// AsZone converts dt to the same instant expressed in zone z. A naive dt
// is taken to be in MTC. If dt is already in z, dt itself is returned.
// nil z means MTC.
func (dt *DateTime) AsZone(z Zone) (*DateTime, error) {
	if z == nil {
		z = MTC
	}
	var myzone Zone = dt.zone
	var myoff Duration
	if myzone == nil {
		myzone = MTC
	} else {
		off, ok, err := dt.MTCOffset()
		if err != nil {
			return nil, err
		}
		if ok {
			myoff = off
		} else {
			myzone = MTC
		}
	}
	if z == dt.zone {
		return dt, nil
	}
	// Shift to the MTC frame, attach the target zone, then project to
	// its local time.
	neg, err := myoff.Neg()
	if err != nil {
		return nil, err
	}
	mtc, err := dt.Add(neg)
	if err != nil {
		return nil, err
	}
	return fromMTC(mtc.WithZone(z))
}

// fromMTC projects a value holding MTC fields with its target zone
// already attached into that zone's local time. The candidate offset and
// daylight sub-offset are resolved once; if they differ, the sub-offset
// is re-resolved a single time at the shifted instant before being
// applied. A zone that returns no offset or no sub-offset here is
// inconsistent with a value constructed in its own frame.
func fromMTC(dt *DateTime) (*DateTime, error) {
	if z, ok := dt.zone.(*FixedZone); ok {
		return dt.Add(z.offset)
	}
	off, ok, err := dt.MTCOffset()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: no offset for a value in the zone's own frame", ErrZoneInconsistent)
	}
	dst, ok, err := dt.DSTOffset()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: no daylight answer for a value in the zone's own frame", ErrZoneInconsistent)
	}
	delta, err := off.Sub(dst)
	if err != nil {
		return nil, err
	}
	if !delta.IsZero() {
		if dt, err = dt.Add(delta); err != nil {
			return nil, err
		}
		if dst, ok, err = dt.DSTOffset(); err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: daylight answer changed to none across the offset shift", ErrZoneInconsistent)
		}
	}
	return dt.Add(dst)
}

// TimeTuple is the field bundle handed to external formatters. Second
// carries the microsecond fraction; IsDST is 1, 0 or -1 for in effect,
// not in effect, or unknown.
type TimeTuple struct {
	Year, Month, Sol int
	Hour, Minute     int
	Second           float64
	Weeksol          int
	YearSol          int
	IsDST            int
}

// TimeTuple returns the formatter field bundle for dt. It never reads
// dt's zone beyond resolving the DST flag.
func (dt *DateTime) TimeTuple() TimeTuple {
	isDST := -1
	if dst, ok, err := dt.DSTOffset(); err == nil && ok {
		if dst.IsZero() {
			isDST = 0
		} else {
			isDST = 1
		}
	}
	return TimeTuple{
		Year:    dt.Year(),
		Month:   dt.Month(),
		Sol:     dt.Sol(),
		Hour:    dt.Hour(),
		Minute:  dt.Minute(),
		Second:  float64(dt.second) + float64(dt.usec)/usecPerSecond,
		Weeksol: dt.Weeksol(),
		YearSol: dt.YearSol(),
		IsDST:   isDST,
	}
}

// String renders "YYYY-MM-DD hh:mm:ss[.ffffff][±hh:mm](Martian)".
func (dt *DateTime) String() string {
	s := fmt.Sprintf("%04d-%02d-%02d ", dt.date.year, dt.date.month, dt.date.sol) +
		formatClock(int(dt.hour), int(dt.minute), int(dt.second), int(dt.usec))
	if off, ok, err := dt.MTCOffset(); err == nil && ok {
		s += formatOffset(off)
	}
	return s + "(Martian)"
}

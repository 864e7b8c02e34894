package darian

import (
	"fmt"
	"sync/atomic"

	"github.com/dchest/siphash"
)

// hashCache is a write-once lazily computed hash. The fields it is
// computed from are immutable, so a racing first computation writes the
// same value twice; no stronger synchronization is needed than the atomic
// store itself.
type hashCache struct {
	v atomic.Uint64
}

func (h *hashCache) get(compute func() uint64) uint64 {
	if v := h.v.Load(); v != 0 {
		return v
	}
	v := compute()
	if v == 0 {
		v = 1
	}
	h.v.Store(v)
	return v
}

// A Clock is a Martian wall-clock time with no date attached, optionally
// bound to a Zone. Clocks are immutable; the With* methods return copies.
type Clock struct {
	hour, minute, second int8
	usec                 int32
	zone                 Zone
	fold                 uint8
	hcache               hashCache
}

// NewClock validates the fields in order hour, minute, second,
// microsecond and returns the Clock. zone may be nil for a naive clock.
func NewClock(hour, minute, second, microsecond int, zone Zone) (*Clock, error) {
	if err := checkClockFields(hour, minute, second, microsecond, 0); err != nil {
		return nil, err
	}
	return &Clock{
		hour:   int8(hour),
		minute: int8(minute),
		second: int8(second),
		usec:   int32(microsecond),
		zone:   zone,
	}, nil
}

// WithFold returns a copy of c with the given fold, 0 or 1.
func (c *Clock) WithFold(fold int) (*Clock, error) {
	if fold != 0 && fold != 1 {
		return nil, rangeErr("fold", int64(fold), 0, 1)
	}
	out := &Clock{hour: c.hour, minute: c.minute, second: c.second,
		usec: c.usec, zone: c.zone, fold: uint8(fold)}
	return out, nil
}

// Hour returns the hour, in 0..23.
func (c *Clock) Hour() int { return int(c.hour) }

// Minute returns the minute, in 0..59.
func (c *Clock) Minute() int { return int(c.minute) }

// Second returns the second, in 0..59.
func (c *Clock) Second() int { return int(c.second) }

// Microsecond returns the microsecond, in 0..999999.
func (c *Clock) Microsecond() int { return int(c.usec) }

// Zone returns the attached Zone, or nil for a naive clock.
func (c *Clock) Zone() Zone { return c.zone }

// Fold returns the fold discriminator, 0 or 1.
func (c *Clock) Fold() int { return int(c.fold) }

// MTCOffset resolves the clock's offset from MTC. ok is false for a naive
// clock or a zone with no answer; the error reports an offset outside
// (-24h, +24h).
func (c *Clock) MTCOffset() (Duration, bool, error) {
	return resolveOffset(c.zone, nil)
}

// DSTOffset resolves the daylight component of the offset, with the same
// conventions as MTCOffset.
func (c *Clock) DSTOffset() (Duration, bool, error) {
	return resolveDST(c.zone, nil)
}

// ZoneName returns the zone's informational name, or ok=false for a naive
// clock.
func (c *Clock) ZoneName() (string, bool) {
	if c.zone == nil {
		return "", false
	}
	return c.zone.Name(nil), true
}

// Equal reports whether c and o name the same instant of the sol.
// Equality is total: a naive clock and an aware one are unequal rather
// than incomparable.
func (c *Clock) Equal(o *Clock) bool {
	r, err := c.cmp(o, true)
	return err == nil && r == 0
}

// Cmp orders c against o, returning -1, 0 or +1. Ordering is partial: it
// fails with ErrNaiveAware when exactly one operand is naive.
func (c *Clock) Cmp(o *Clock) (int, error) {
	return c.cmp(o, false)
}

// cmpNotEqual is the internal "definitely unequal, not orderable" result
// used by the equality-only path.
const cmpNotEqual = 2

func (c *Clock) cmp(o *Clock, allowMixed bool) (int, error) {
	var myoff, otoff Duration
	var myok, otok bool

	baseCompare := c.zone == o.zone
	if !baseCompare {
		var err error
		if myoff, myok, err = c.MTCOffset(); err != nil {
			return 0, err
		}
		if otoff, otok, err = o.MTCOffset(); err != nil {
			return 0, err
		}
		baseCompare = myok == otok && myoff == otoff
	}
	if baseCompare {
		return cmpFields(
			int64(c.hour), int64(o.hour),
			int64(c.minute), int64(o.minute),
			int64(c.second), int64(o.second),
			int64(c.usec), int64(o.usec),
		), nil
	}
	if !myok || !otok {
		if allowMixed {
			return cmpNotEqual, nil
		}
		return 0, fmt.Errorf("%w: ordering naive and aware clocks", ErrNaiveAware)
	}
	// Normalize both sides to MTC minutes before comparing.
	my := int64(c.hour)*60 + int64(c.minute) - offsetMinutes(myoff)
	ot := int64(o.hour)*60 + int64(o.minute) - offsetMinutes(otoff)
	return cmpFields(my, ot, int64(c.second), int64(o.second), int64(c.usec), int64(o.usec)), nil
}

// Hash returns a hash over the MTC-normalized clock. The second of two
// ambiguous local representations (fold=1) is canonicalized to fold=0
// first, so both hash identically. The hash is computed once and cached.
func (c *Clock) Hash() uint64 {
	return c.hcache.get(c.computeHash)
}

func (c *Clock) computeHash() uint64 {
	t := c
	if c.fold == 1 {
		t, _ = c.WithFold(0)
	}
	off, ok, err := t.MTCOffset()
	if err != nil || !ok || off.IsZero() {
		b, _ := t.MarshalBinary()
		return siphash.Hash(hashKey0, hashKey1, b)
	}
	// Normalize to MTC whole minutes, matching cmp. When the normalized
	// clock lands back inside a sol it must hash exactly like the naive
	// clock with those fields, so the same byte shape is reused.
	mins := int64(t.hour)*60 + int64(t.minute) - offsetMinutes(off)
	hh, mm := floorDiv(mins, 60), floorMod(mins, 60)
	if hh >= 0 && hh < 24 {
		n := &Clock{hour: int8(hh), minute: int8(mm), second: t.second, usec: t.usec}
		b, _ := n.MarshalBinary()
		return siphash.Hash(hashKey0, hashKey1, b)
	}
	var b [24]byte
	putInt64(b[0:8], hh)
	putInt64(b[8:16], mm)
	putInt64(b[16:24], int64(t.second)*usecPerSecond+int64(t.usec))
	return siphash.Hash(hashKey0, hashKey1, b[:])
}

// String renders "hh:mm:ss[.ffffff][±hh:mm](Martian)".
func (c *Clock) String() string {
	s := formatClock(int(c.hour), int(c.minute), int(c.second), int(c.usec))
	if off, ok, err := c.MTCOffset(); err == nil && ok {
		s += formatOffset(off)
	}
	return s + "(Martian)"
}

// formatClock renders "hh:mm:ss", appending ".ffffff" when the microsecond
// component is non-zero.
func formatClock(hh, mm, ss, us int) string {
	if us != 0 {
		return fmt.Sprintf("%02d:%02d:%02d.%06d", hh, mm, ss, us)
	}
	return fmt.Sprintf("%02d:%02d:%02d", hh, mm, ss)
}

// offsetTotalMicros flattens a zone offset, known to be inside
// (-24h, +24h), into signed microseconds.
func offsetTotalMicros(off Duration) int64 {
	return (off.sols*secondsPerSol+int64(off.secs))*usecPerSecond + int64(off.usecs)
}

// offsetMinutes returns the offset floored to whole minutes.
func offsetMinutes(off Duration) int64 {
	return floorDiv(offsetTotalMicros(off), 60*usecPerSecond)
}

// cmpFields compares pairs (a0,b0), (a1,b1), ... lexicographically.
func cmpFields(pairs ...int64) int {
	for i := 0; i+1 < len(pairs); i += 2 {
		if r := cmpInt64(pairs[i], pairs[i+1]); r != 0 {
			return r
		}
	}
	return 0
}

func resolveOffset(z Zone, dt *DateTime) (Duration, bool, error) {
	if z == nil {
		return Duration{}, false, nil
	}
	off, ok := z.Offset(dt)
	if !ok {
		return Duration{}, false, nil
	}
	if err := checkZoneOffset("offset", off); err != nil {
		return Duration{}, false, err
	}
	return off, true, nil
}

func resolveDST(z Zone, dt *DateTime) (Duration, bool, error) {
	if z == nil {
		return Duration{}, false, nil
	}
	off, ok := z.DST(dt)
	if !ok {
		return Duration{}, false, nil
	}
	if err := checkZoneOffset("dst", off); err != nil {
		return Duration{}, false, err
	}
	return off, true, nil
}

func putInt64(b []byte, v int64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(uint64(v) >> (8 * i))
	}
}

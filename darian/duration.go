package darian

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"

	"github.com/dchest/siphash"
)

// maxSols bounds the sols component of a Duration.
const maxSols = 999999999

// A Duration is the difference between two Martian instants, held as a
// normalized (sols, seconds, microseconds) triple. The seconds and
// microseconds components are always in 0..86399 and 0..999999 regardless
// of sign; the sign lives entirely in the sols component. Two Durations
// are equal exactly when their normalized triples are equal, so Duration
// values may be compared with ==.
//
// The zero value is a zero-length Duration.
type Duration struct {
	sols  int64
	secs  int32
	usecs int32
}

// DurationSpec names the seven units accepted by DurationOf. Any field may
// be fractional; fractions are carried into the smaller units during
// normalization. Integral values are exact up to 2^53 per field.
type DurationSpec struct {
	Weeks        float64
	Sols         float64
	Hours        float64
	Minutes      float64
	Seconds      float64
	Milliseconds float64
	Microseconds float64
}

// Limits of the Duration type, and its smallest representable step.
var (
	MinDuration        = Duration{sols: -maxSols}
	MaxDuration        = Duration{sols: maxSols, secs: secondsPerSol - 1, usecs: usecPerSecond - 1}
	DurationResolution = Duration{usecs: 1}
)

// NewDuration returns the normalized Duration for the given exact integer
// components. The components may each be negative or out of their
// normalized range; they are carried into one another. It fails with
// ErrOverflow if the normalized sols component exceeds ±999999999.
func NewDuration(sols, seconds, microseconds int64) (Duration, error) {
	seconds += floorDiv(microseconds, usecPerSecond)
	us := floorMod(microseconds, usecPerSecond)
	sols += floorDiv(seconds, secondsPerSol)
	s := floorMod(seconds, secondsPerSol)
	return makeDuration(sols, s, us)
}

// DurationOf folds the seven unit fields into a normalized Duration. Larger
// units are folded downward one unit at a time so that the fractional part
// of each unit is carried into the next smaller one, and the microsecond
// boundary is rounded half-to-even. Any two decompositions of the same net
// duration normalize to the same triple, up to floating-point rounding at
// the microsecond boundary.
func DurationOf(f DurationSpec) (Duration, error) {
	sols := f.Sols + 7*f.Weeks
	seconds := f.Seconds + 60*f.Minutes + 3600*f.Hours
	usecs := f.Microseconds + 1000*f.Milliseconds
	for _, v := range [...]float64{sols, seconds, usecs} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Duration{}, fmt.Errorf("%w: non-finite duration field", ErrRange)
		}
	}

	// Whole sols, with the fraction of a sol carried into seconds.
	solFrac, solWhole := math.Modf(sols)
	d := int64(solWhole)
	carrySecFrac, w := math.Modf(solFrac * secondsPerSol)
	s := int64(w)

	// Whole seconds, with both fractional carries accumulated.
	secFrac, w := math.Modf(seconds)
	secWhole := int64(w)
	secFrac += carrySecFrac
	d += floorDiv(secWhole, secondsPerSol)
	s += floorMod(secWhole, secondsPerSol)

	// Microseconds absorb the remaining fraction, rounded half-to-even.
	us := int64(math.RoundToEven(usecs + secFrac*usecPerSecond))

	s += floorDiv(us, usecPerSecond)
	us = floorMod(us, usecPerSecond)
	d += floorDiv(s, secondsPerSol)
	s = floorMod(s, secondsPerSol)
	return makeDuration(d, s, us)
}

func makeDuration(sols, secs, usecs int64) (Duration, error) {
	if sols < -maxSols || sols > maxSols {
		return Duration{}, fmt.Errorf("%w: duration of %d sols", ErrOverflow, sols)
	}
	return Duration{sols: sols, secs: int32(secs), usecs: int32(usecs)}, nil
}

// Sols returns the sols component. It carries the sign of the Duration.
func (v Duration) Sols() int64 { return v.sols }

// Seconds returns the seconds-of-sol component, in 0..86399.
func (v Duration) Seconds() int { return int(v.secs) }

// Microseconds returns the microseconds component, in 0..999999.
func (v Duration) Microseconds() int { return int(v.usecs) }

// TotalSeconds returns the whole duration expressed in Martian seconds.
func (v Duration) TotalSeconds() float64 {
	return float64(v.sols*secondsPerSol+int64(v.secs)) + float64(v.usecs)/usecPerSecond
}

// IsZero reports whether all three components are zero.
func (v Duration) IsZero() bool { return v == Duration{} }

// Add returns v + o.
func (v Duration) Add(o Duration) (Duration, error) {
	return NewDuration(v.sols+o.sols, int64(v.secs)+int64(o.secs), int64(v.usecs)+int64(o.usecs))
}

// Sub returns v - o.
func (v Duration) Sub(o Duration) (Duration, error) {
	return NewDuration(v.sols-o.sols, int64(v.secs)-int64(o.secs), int64(v.usecs)-int64(o.usecs))
}

// Neg returns -v. Negating MinDuration fails with ErrOverflow.
func (v Duration) Neg() (Duration, error) {
	return NewDuration(-v.sols, -int64(v.secs), -int64(v.usecs))
}

// Abs returns the magnitude of v.
func (v Duration) Abs() (Duration, error) {
	if v.sols < 0 {
		return v.Neg()
	}
	return v, nil
}

// MulInt returns v scaled by n.
func (v Duration) MulInt(n int64) (Duration, error) {
	us := v.totalMicros()
	us.Mul(us, big.NewInt(n))
	return durationFromMicros(us)
}

// MulFloat returns v scaled by f, rounding half-to-even at the microsecond
// boundary. The scaling is exact: f is expanded to the rational it
// represents, not re-rounded through a float product.
func (v Duration) MulFloat(f float64) (Duration, error) {
	r := new(big.Rat).SetFloat64(f)
	if r == nil {
		return Duration{}, fmt.Errorf("%w: non-finite multiplier", ErrRange)
	}
	us := v.totalMicros()
	us.Mul(us, r.Num())
	return durationFromMicros(divRoundEven(us, r.Denom()))
}

// DivInt returns v divided by n, rounding half-to-even at the microsecond
// boundary. It panics if n is zero.
func (v Duration) DivInt(n int64) (Duration, error) {
	if n == 0 {
		panic("darian: duration division by zero")
	}
	return durationFromMicros(divRoundEven(v.totalMicros(), big.NewInt(n)))
}

// DivFloat returns v divided by f, rounding half-to-even at the microsecond
// boundary. It panics if f is zero.
func (v Duration) DivFloat(f float64) (Duration, error) {
	if f == 0 {
		panic("darian: duration division by zero")
	}
	r := new(big.Rat).SetFloat64(f)
	if r == nil {
		return Duration{}, fmt.Errorf("%w: non-finite divisor", ErrRange)
	}
	us := v.totalMicros()
	us.Mul(us, r.Denom())
	return durationFromMicros(divRoundEven(us, r.Num()))
}

// Div returns the ratio v / o as a float. It panics if o is zero.
func (v Duration) Div(o Duration) float64 {
	if o.IsZero() {
		panic("darian: duration division by zero")
	}
	f, _ := new(big.Rat).SetFrac(v.totalMicros(), o.totalMicros()).Float64()
	return f
}

// FloorDiv returns the floored integer quotient v / o. It panics if o is
// zero and fails with ErrOverflow if the quotient does not fit in an int64.
func (v Duration) FloorDiv(o Duration) (int64, error) {
	q, _, err := v.DivMod(o)
	return q, err
}

// Mod returns the remainder of the floored division v / o. The remainder
// carries the sign of o. It panics if o is zero.
func (v Duration) Mod(o Duration) (Duration, error) {
	_, r, err := v.DivMod(o)
	return r, err
}

// DivMod returns the floored quotient and remainder of v / o together.
// It panics if o is zero.
func (v Duration) DivMod(o Duration) (int64, Duration, error) {
	if o.IsZero() {
		panic("darian: duration division by zero")
	}
	q, r := new(big.Int), new(big.Int)
	q.DivMod(v.totalMicros(), o.totalMicros(), r)
	// big.Int.DivMod is Euclidean; flooring differs only for negative
	// divisors, where the quotient must be shifted by one.
	if o.totalMicros().Sign() < 0 && r.Sign() != 0 {
		q.Sub(q, big.NewInt(1))
		r.Add(r, o.totalMicros())
	}
	if !q.IsInt64() {
		return 0, Duration{}, fmt.Errorf("%w: quotient does not fit in int64", ErrOverflow)
	}
	rem, err := durationFromMicros(r)
	if err != nil {
		return 0, Duration{}, err
	}
	return q.Int64(), rem, nil
}

// Cmp compares v and o, returning -1, 0 or +1. The normalized triple makes
// this a plain lexicographic comparison.
func (v Duration) Cmp(o Duration) int {
	switch {
	case v.sols != o.sols:
		return cmpInt64(v.sols, o.sols)
	case v.secs != o.secs:
		return cmpInt64(int64(v.secs), int64(o.secs))
	default:
		return cmpInt64(int64(v.usecs), int64(o.usecs))
	}
}

// Fixed SipHash-2-4 keys for value hashing across the package. Stability
// across processes matters only for tests; equal values must hash equal.
const (
	hashKey0 = 0x64617269616e2e31
	hashKey1 = 0x6d6172732e736f6c
)

// Hash returns a hash of the normalized triple. Equal Durations hash
// equally.
func (v Duration) Hash() uint64 {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[0:8], uint64(v.sols))
	binary.LittleEndian.PutUint32(b[8:12], uint32(v.secs))
	binary.LittleEndian.PutUint32(b[12:16], uint32(v.usecs))
	return siphash.Hash(hashKey0, hashKey1, b[:])
}

// String renders the duration as "[N sol[s], ]h:mm:ss[.ffffff](Martian)".
func (v Duration) String() string {
	mm, ss := int64(v.secs)/60, int64(v.secs)%60
	hh, mm := mm/60, mm%60
	s := fmt.Sprintf("%d:%02d:%02d", hh, mm, ss)
	if v.sols != 0 {
		plural := "s"
		if v.sols == 1 || v.sols == -1 {
			plural = ""
		}
		s = fmt.Sprintf("%d sol%s, %s", v.sols, plural, s)
	}
	if v.usecs != 0 {
		s += fmt.Sprintf(".%06d", v.usecs)
	}
	return s + "(Martian)"
}

func (v Duration) totalMicros() *big.Int {
	us := big.NewInt(v.sols)
	us.Mul(us, big.NewInt(secondsPerSol))
	us.Add(us, big.NewInt(int64(v.secs)))
	us.Mul(us, big.NewInt(usecPerSecond))
	us.Add(us, big.NewInt(int64(v.usecs)))
	return us
}

// durationFromMicros normalizes a total microsecond count back into a
// triple.
func durationFromMicros(us *big.Int) (Duration, error) {
	sec, rem := new(big.Int), new(big.Int)
	sec.DivMod(us, big.NewInt(usecPerSecond), rem)
	sols, s := new(big.Int), new(big.Int)
	sols.DivMod(sec, big.NewInt(secondsPerSol), s)
	if !sols.IsInt64() {
		return Duration{}, fmt.Errorf("%w: duration of %s sols", ErrOverflow, sols)
	}
	return makeDuration(sols.Int64(), s.Int64(), rem.Int64())
}

// divRoundEven divides a by b and rounds the quotient to the nearest
// integer, choosing the even integer on exact halves.
func divRoundEven(a, b *big.Int) *big.Int {
	if b.Sign() < 0 {
		a = new(big.Int).Neg(a)
		b = new(big.Int).Neg(b)
	}
	q, r := new(big.Int), new(big.Int)
	q.DivMod(a, b, r)
	r.Lsh(r, 1)
	switch r.Cmp(b) {
	case 1:
		q.Add(q, big.NewInt(1))
	case 0:
		if q.Bit(0) == 1 {
			q.Add(q, big.NewInt(1))
		}
	}
	return q
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

package darian

import (
	"fmt"
	"math"
	"math/big"
	"time"
)

// Physical constants tying the Martian calendar to terrestrial time.
const (
	// terrestrialSecondsPerSol is the mean length of a sol in terrestrial
	// seconds.
	terrestrialSecondsPerSol = 88775.244147

	// terrestrialMicrosPerSol is the same constant in whole microseconds,
	// which it is exactly.
	terrestrialMicrosPerSol = 88775244147

	// TAIMinusUTC is the leap-second correction applied to POSIX
	// timestamps. Leap seconds are unpredictable; this value is
	// maintained by hand (37 s since 2017-01-01, still current as of
	// 2022-02-15), and conversions drift the further the time is from
	// the present.
	TAIMinusUTC = 37

	// epochAlignment maps ordinal 0 of the calendar onto the POSIX
	// epoch: the fractional ordinal at 1970-01-01T00:00:00Z.
	epochAlignment = 128257.2954262
)

// marsFromTimestamp converts a POSIX timestamp to MTC calendar fields.
// The seconds value carries the sub-second fraction, rounded to six
// decimal places.
func marsFromTimestamp(ts float64) (year, month, sol, hour, minute int, second float64, err error) {
	ordF := (ts+TAIMinusUTC)/terrestrialSecondsPerSol + epochAlignment
	ord := math.Floor(ordF)
	if ord < 1 || ord > maxOrdinal {
		return 0, 0, 0, 0, 0, 0, fmt.Errorf("%w: timestamp %v is outside the supported calendar range", ErrOverflow, ts)
	}
	frac := (ordF - ord) * 24
	hour = int(frac)
	frac = (frac - float64(hour)) * 60
	minute = int(frac)
	second = math.RoundToEven((frac-float64(minute))*60*usecPerSecond) / usecPerSecond
	// Rounding to six places can land exactly on 60; carry it.
	if second >= 60 {
		second -= 60
		if minute++; minute == 60 {
			minute = 0
			if hour++; hour == 24 {
				hour = 0
				ord++
			}
		}
	}
	year, month, sol = ordToYmd(int(ord))
	return year, month, sol, hour, minute, second, nil
}

// FromTimestamp converts a POSIX timestamp to a DateTime in zone z (MTC
// if z is nil). The instant is computed in the MTC frame and then
// projected into z's local time.
func FromTimestamp(ts float64, z Zone) (*DateTime, error) {
	if z == nil {
		z = MTC
	}
	y, mo, d, hh, mm, secf, err := marsFromTimestamp(ts)
	if err != nil {
		return nil, err
	}
	usTotal := int(math.Round(secf * usecPerSecond))
	dt, err := NewDateTime(y, mo, d, hh, mm, usTotal/usecPerSecond, usTotal%usecPerSecond, z)
	if err != nil {
		return nil, err
	}
	return fromMTC(dt)
}

// Timestamp converts dt to a POSIX timestamp. It fails with
// ErrNaiveAware for a naive value: only a value with a defined MTC
// relationship names a terrestrial instant.
func (dt *DateTime) Timestamp() (float64, error) {
	off, ok, err := dt.MTCOffset()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: a naive date-time has no terrestrial instant", ErrNaiveAware)
	}
	u := dt
	if !off.IsZero() {
		neg, err := off.Neg()
		if err != nil {
			return 0, err
		}
		if u, err = dt.Add(neg); err != nil {
			return 0, err
		}
	}
	ss := float64(u.second) + float64(u.usec)/usecPerSecond
	ordF := float64(u.Ordinal()) +
		float64(u.hour)/24 + float64(u.minute)/1440 + ss/secondsPerSol
	return (ordF-epochAlignment)*terrestrialSecondsPerSol - TAIMinusUTC, nil
}

// FromTime converts a terrestrial time.Time to a Martian DateTime in the
// MTC frame. All Gregorian arithmetic stays inside the time package.
func FromTime(t time.Time) (*DateTime, error) {
	ts := float64(t.Unix()) + float64(t.Nanosecond())/1e9
	return FromTimestamp(ts, MTC)
}

// Time converts dt to a terrestrial time.Time in the local terrestrial
// zone. It fails with ErrNaiveAware for a naive value.
func (dt *DateTime) Time() (time.Time, error) {
	ts, err := dt.Timestamp()
	if err != nil {
		return time.Time{}, err
	}
	sec := math.Floor(ts)
	ns := math.Round((ts - sec) * 1e9)
	return time.Unix(int64(sec), int64(ns)), nil
}

// EarthToMarsDuration rescales a terrestrial duration into Martian
// seconds. The ratio 86400 s / 1 sol is applied exactly, with
// round-half-even at the Martian microsecond boundary.
func EarthToMarsDuration(d time.Duration) (Duration, error) {
	n := big.NewInt(int64(d))
	n.Mul(n, big.NewInt(secondsPerSol*usecPerSecond))
	return durationFromMicros(divRoundEven(n, big.NewInt(terrestrialMicrosPerSol*1000)))
}

// MarsToEarthDuration rescales a Martian duration into terrestrial
// nanoseconds. It fails with ErrOverflow when the result does not fit in
// a time.Duration.
func MarsToEarthDuration(v Duration) (time.Duration, error) {
	n := v.totalMicros()
	n.Mul(n, big.NewInt(terrestrialMicrosPerSol*1000))
	ns := divRoundEven(n, big.NewInt(secondsPerSol*usecPerSecond))
	if !ns.IsInt64() {
		return 0, fmt.Errorf("%w: duration does not fit in a terrestrial duration", ErrOverflow)
	}
	return time.Duration(ns.Int64()), nil
}

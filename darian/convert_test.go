package darian

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestFromTimestamp(t *testing.T) {
	cases := []struct {
		ts                   float64
		y, mo, s, hh, mm, ss int
		us                   int
	}{
		// 2021-04-29T05:25:35.132504Z.
		{1619673935.132504, 219, 3, 24, 22, 52, 59, 725890},
		// The POSIX epoch.
		{0, 191, 20, 26, 7, 6, 0, 833719},
		{1e9, 208, 17, 8, 16, 44, 16, 922987},
		{-1e9, 174, 24, 15, 21, 27, 44, 744451},
	}
	for _, c := range cases {
		dt, err := FromTimestamp(c.ts, nil)
		if err != nil {
			t.Fatalf("FromTimestamp(%v): %v", c.ts, err)
		}
		if dt.Year() != c.y || dt.Month() != c.mo || dt.Sol() != c.s ||
			dt.Hour() != c.hh || dt.Minute() != c.mm || dt.Second() != c.ss ||
			dt.Microsecond() != c.us {
			t.Errorf("FromTimestamp(%v) = %v, want %04d-%02d-%02d %02d:%02d:%02d.%06d",
				c.ts, dt, c.y, c.mo, c.s, c.hh, c.mm, c.ss, c.us)
		}
		if dt.Zone() != MTC {
			t.Error("nil zone must default to MTC")
		}
	}
}

func TestFromTimestampZoned(t *testing.T) {
	east := fixedZone(t, 3600, "")
	mtc, err := FromTimestamp(1619673935.132504, nil)
	if err != nil {
		t.Fatal(err)
	}
	local, err := FromTimestamp(1619673935.132504, east)
	if err != nil {
		t.Fatal(err)
	}
	if local.Hour() != 23 || local.Zone() != east {
		t.Errorf("zoned conversion = %v", local)
	}
	if !local.Equal(mtc) {
		t.Error("both conversions must name the same instant")
	}
}

func TestFromTimestampOutOfRange(t *testing.T) {
	// Far before year 0 and far after year 9999.
	for _, ts := range []float64{-1.2e13, 6e14} {
		if _, err := FromTimestamp(ts, nil); !errors.Is(err, ErrOverflow) {
			t.Errorf("FromTimestamp(%v) = %v, want ErrOverflow", ts, err)
		}
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	for _, ts := range []float64{0, 1, -1, 1619673935.132504, 1e9, -1e9, 123456789.654321} {
		dt, err := FromTimestamp(ts, nil)
		if err != nil {
			t.Fatal(err)
		}
		back, err := dt.Timestamp()
		if err != nil {
			t.Fatal(err)
		}
		// The round trip passes through a microsecond-rounded sol
		// fraction, so a few microseconds of slack is expected.
		if math.Abs(back-ts) > 1e-4 {
			t.Errorf("round trip of %v drifted to %v", ts, back)
		}
	}
}

func TestTimestampNaive(t *testing.T) {
	dt := mustDateTime(t, 219, 3, 24, 22, 52, 59, 725890, nil)
	if _, err := dt.Timestamp(); !errors.Is(err, ErrNaiveAware) {
		t.Errorf("naive Timestamp = %v, want ErrNaiveAware", err)
	}
	if _, err := dt.Time(); !errors.Is(err, ErrNaiveAware) {
		t.Errorf("naive Time = %v, want ErrNaiveAware", err)
	}
}

func TestTimestampZoneIndependent(t *testing.T) {
	east := fixedZone(t, 3600, "")
	a := mustDateTime(t, 219, 3, 24, 22, 52, 59, 725890, MTC)
	b := mustDateTime(t, 219, 3, 24, 23, 52, 59, 725890, east)
	ta, err := a.Timestamp()
	if err != nil {
		t.Fatal(err)
	}
	tb, err := b.Timestamp()
	if err != nil {
		t.Fatal(err)
	}
	if ta != tb {
		t.Errorf("timestamps differ across zones: %v vs %v", ta, tb)
	}
}

func TestFromTimeAndBack(t *testing.T) {
	earth := time.Date(2021, time.April, 29, 5, 25, 35, 132504000, time.UTC)
	dt, err := FromTime(earth)
	if err != nil {
		t.Fatal(err)
	}
	if dt.Year() != 219 || dt.Month() != 3 || dt.Sol() != 24 || dt.Hour() != 22 {
		t.Errorf("FromTime = %v", dt)
	}
	back, err := dt.Time()
	if err != nil {
		t.Fatal(err)
	}
	if d := back.Sub(earth); d < -10*time.Microsecond || d > 10*time.Microsecond {
		t.Errorf("round trip drifted by %v", d)
	}
}

func TestEarthToMarsDuration(t *testing.T) {
	// One sol is exactly 88775.244147 terrestrial seconds.
	v, err := EarthToMarsDuration(88775244147 * time.Microsecond)
	if err != nil {
		t.Fatal(err)
	}
	if v != mustDuration(t, 1, 0, 0) {
		t.Errorf("one sol of terrestrial time = %v", v)
	}
	v, err = EarthToMarsDuration(-88775244147 * time.Microsecond / 2)
	if err != nil {
		t.Fatal(err)
	}
	if v != mustDuration(t, 0, -43200, 0) {
		t.Errorf("minus half a sol = %v", v)
	}
	if v, err = EarthToMarsDuration(0); err != nil || !v.IsZero() {
		t.Errorf("zero = (%v, %v)", v, err)
	}
}

func TestMarsToEarthDuration(t *testing.T) {
	d, err := MarsToEarthDuration(mustDuration(t, 1, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if d != 88775244147*time.Microsecond {
		t.Errorf("one sol = %v", d)
	}
	d, err = MarsToEarthDuration(mustDuration(t, 0, -43200, 0))
	if err != nil {
		t.Fatal(err)
	}
	if d != -88775244147*time.Microsecond/2 {
		t.Errorf("minus half a sol = %v", d)
	}
	// A Duration can exceed what fits in terrestrial nanoseconds.
	if _, err := MarsToEarthDuration(MaxDuration); !errors.Is(err, ErrOverflow) {
		t.Errorf("huge duration = %v, want ErrOverflow", err)
	}
}

func TestDurationScaleRoundTrip(t *testing.T) {
	for _, us := range []int64{1, 999999, 86400000000, 123456789, -987654321} {
		v, err := NewDuration(0, 0, us)
		if err != nil {
			t.Fatal(err)
		}
		e, err := MarsToEarthDuration(v)
		if err != nil {
			t.Fatal(err)
		}
		back, err := EarthToMarsDuration(e)
		if err != nil {
			t.Fatal(err)
		}
		diff, err := back.Sub(v)
		if err != nil {
			t.Fatal(err)
		}
		if abs, _ := diff.Abs(); abs.Cmp(DurationResolution) > 0 {
			t.Errorf("%dus drifted by %v through the scale round trip", us, diff)
		}
	}
}

func TestDateFromTimestamp(t *testing.T) {
	d, err := DateFromTimestamp(1619673935.132504)
	if err != nil {
		t.Fatal(err)
	}
	if d != mustDate(t, 219, 3, 24) {
		t.Errorf("DateFromTimestamp = %v", d)
	}
}

package darian

import (
	"errors"
	"testing"
)

func TestDurationCodec(t *testing.T) {
	for _, v := range []Duration{
		{},
		mustDuration(t, 1, 2, 3),
		mustDuration(t, 0, 0, -1),
		MinDuration,
		MaxDuration,
	} {
		b, err := v.MarshalBinary()
		if err != nil {
			t.Fatal(err)
		}
		var back Duration
		if err := back.UnmarshalBinary(b); err != nil {
			t.Fatalf("decode %v: %v", v, err)
		}
		if back != v {
			t.Errorf("round trip of %v gave %v", v, back)
		}
	}
}

func TestDateCodec(t *testing.T) {
	for _, d := range []Date{MinDate, MaxDate, mustDate(t, 219, 13, 27)} {
		b, err := d.MarshalBinary()
		if err != nil {
			t.Fatal(err)
		}
		var back Date
		if err := back.UnmarshalBinary(b); err != nil {
			t.Fatalf("decode %v: %v", d, err)
		}
		if back != d {
			t.Errorf("round trip of %v gave %v", d, back)
		}
	}
}

func TestClockCodec(t *testing.T) {
	orig := mustClock(t, 22, 52, 59, 725890, MTC)
	withFold, _ := orig.WithFold(1)
	for _, c := range []*Clock{
		mustClock(t, 0, 0, 0, 0, nil),
		orig,
		withFold,
	} {
		b, err := c.MarshalBinary()
		if err != nil {
			t.Fatal(err)
		}
		var back Clock
		if err := back.UnmarshalBinary(b); err != nil {
			t.Fatalf("decode %v: %v", c, err)
		}
		if back.Hour() != c.Hour() || back.Minute() != c.Minute() ||
			back.Second() != c.Second() || back.Microsecond() != c.Microsecond() ||
			back.Fold() != c.Fold() {
			t.Errorf("round trip of %v gave %v", c, &back)
		}
		if back.Zone() != nil {
			t.Error("decoded clock must be naive")
		}
	}
}

func TestDateTimeCodec(t *testing.T) {
	orig := mustDateTime(t, 219, 3, 24, 22, 52, 59, 725890, MTC)
	withFold, _ := orig.WithFold(1)
	for _, dt := range []*DateTime{
		mustDateTime(t, 0, 1, 1, 0, 0, 0, 0, nil),
		mustDateTime(t, 9999, 24, 28, 23, 59, 59, 999999, nil),
		orig,
		withFold,
	} {
		b, err := dt.MarshalBinary()
		if err != nil {
			t.Fatal(err)
		}
		var back DateTime
		if err := back.UnmarshalBinary(b); err != nil {
			t.Fatalf("decode %v: %v", dt, err)
		}
		if back.Date() != dt.Date() || back.Hour() != dt.Hour() ||
			back.Minute() != dt.Minute() || back.Second() != dt.Second() ||
			back.Microsecond() != dt.Microsecond() || back.Fold() != dt.Fold() {
			t.Errorf("round trip of %v gave %v", dt, &back)
		}
		if back.Zone() != nil {
			t.Error("decoded date-time must be naive")
		}
	}
}

func TestCodecRejects(t *testing.T) {
	var (
		d  Date
		v  Duration
		c  Clock
		dt DateTime
	)
	// Wrong lengths and versions.
	if err := d.UnmarshalBinary(nil); err == nil {
		t.Error("empty input accepted")
	}
	if err := d.UnmarshalBinary([]byte{2, 0, 0, 1, 1}); err == nil {
		t.Error("unknown version accepted")
	}
	if err := v.UnmarshalBinary(make([]byte, 14)); err == nil {
		t.Error("short duration accepted")
	}

	// Field patterns violating the data model.
	if err := d.UnmarshalBinary([]byte{1, 0, 0, 25, 1}); !errors.Is(err, ErrRange) {
		t.Errorf("month 25 = %v, want ErrRange", err)
	}
	if err := d.UnmarshalBinary([]byte{1, 0, 0, 6, 28}); !errors.Is(err, ErrRange) {
		t.Errorf("sol 28 of a 27-sol month = %v, want ErrRange", err)
	}
	if err := d.UnmarshalBinary([]byte{1, 0x27, 0x10, 1, 1}); !errors.Is(err, ErrRange) {
		t.Errorf("year 10000 = %v, want ErrRange", err)
	}
	if err := c.UnmarshalBinary([]byte{1, 24, 0, 0, 0, 0, 0}); !errors.Is(err, ErrRange) {
		t.Errorf("hour 24 = %v, want ErrRange", err)
	}
	if err := c.UnmarshalBinary([]byte{1, 0, 0, 0, 0x0f, 0x42, 0x40}); !errors.Is(err, ErrRange) {
		t.Errorf("microsecond 1000000 = %v, want ErrRange", err)
	}
	if err := dt.UnmarshalBinary([]byte{1, 0, 0, 1, 1, 0, 60, 0, 0, 0, 0}); !errors.Is(err, ErrRange) {
		t.Errorf("minute 60 = %v, want ErrRange", err)
	}

	// A seconds-of-sol component past 86399.
	bad, _ := MaxDuration.MarshalBinary()
	bad[9], bad[10], bad[11] = 0x01, 0x51, 0x80 // 86400
	if err := v.UnmarshalBinary(bad); !errors.Is(err, ErrRange) {
		t.Errorf("seconds 86400 = %v, want ErrRange", err)
	}
}

package darian

import (
	"errors"
	"testing"
)

func fixedZone(t *testing.T, seconds int64, name string) *FixedZone {
	t.Helper()
	off, err := NewDuration(0, seconds, 0)
	if err != nil {
		t.Fatal(err)
	}
	z, err := NewFixedZone(off, name)
	if err != nil {
		t.Fatalf("NewFixedZone(%ds): %v", seconds, err)
	}
	return z
}

func TestFixedZoneBounds(t *testing.T) {
	// The bound is a strict (-24h, +24h) interval.
	for _, s := range []int64{0, 1, 3600, 86399, -1, -86399} {
		off, _ := NewDuration(0, s, 0)
		if _, err := NewFixedZone(off, ""); err != nil {
			t.Errorf("offset %ds rejected: %v", s, err)
		}
	}
	edge, _ := NewDuration(0, 86399, 999999)
	if _, err := NewFixedZone(edge, ""); err != nil {
		t.Errorf("offset one microsecond under +24h rejected: %v", err)
	}
	edge, _ = NewDuration(0, -86399, -999999)
	if _, err := NewFixedZone(edge, ""); err != nil {
		t.Errorf("offset one microsecond over -24h rejected: %v", err)
	}
	for _, s := range []int64{86400, -86400, 100000, -100000} {
		off, _ := NewDuration(0, s, 0)
		if _, err := NewFixedZone(off, ""); !errors.Is(err, ErrRange) {
			t.Errorf("offset %ds accepted, want ErrRange", s)
		}
	}
}

func TestFixedZoneResolve(t *testing.T) {
	z := fixedZone(t, 5*3600, "Elysium")
	off, ok := z.Offset(nil)
	if !ok || off != mustDuration(t, 0, 5*3600, 0) {
		t.Errorf("Offset = (%v, %v)", off, ok)
	}
	if _, ok := z.DST(nil); ok {
		t.Error("a fixed zone must report no daylight information")
	}
	if got := z.Name(nil); got != "Elysium" {
		t.Errorf("Name = %q", got)
	}
}

func TestZoneNameSynthesis(t *testing.T) {
	cases := []struct {
		seconds int64
		want    string
	}{
		{5400, "MTC+01:30"},
		{-7200, "MTC-02:00"},
		{3661, "MTC+01:01:01"},
		{-3661, "MTC-01:01:01"},
	}
	for _, c := range cases {
		z := fixedZone(t, c.seconds, "")
		if got := z.Name(nil); got != c.want {
			t.Errorf("Name for %ds = %q, want %q", c.seconds, got, c.want)
		}
	}
	if got := MTC.Name(nil); got != "MTC" {
		t.Errorf("MTC.Name = %q", got)
	}
	z, err := NewFixedZone(Duration{}, "")
	if err != nil {
		t.Fatal(err)
	}
	if got := z.Name(nil); got != "MTC" {
		t.Errorf("zero-offset synthesized name = %q", got)
	}
}

func TestFormatOffset(t *testing.T) {
	us := func(n int64) Duration {
		v, err := NewDuration(0, 0, n)
		if err != nil {
			t.Fatal(err)
		}
		return v
	}
	cases := []struct {
		off  Duration
		want string
	}{
		{mustDuration(t, 0, 3600, 0), "+01:00"},
		{mustDuration(t, 0, -3600, 0), "-01:00"},
		{mustDuration(t, 0, 3661, 0), "+01:01:01"},
		{us(3600000000 + 500), "+01:00:00.000500"},
		{us(-500), "-00:00:00.000500"},
	}
	for _, c := range cases {
		if got := formatOffset(c.off); got != c.want {
			t.Errorf("formatOffset(%v) = %q, want %q", c.off, got, c.want)
		}
	}
}

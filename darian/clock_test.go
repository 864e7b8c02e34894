package darian

import (
	"errors"
	"testing"
)

func mustClock(t *testing.T, hh, mm, ss, us int, z Zone) *Clock {
	t.Helper()
	c, err := NewClock(hh, mm, ss, us, z)
	if err != nil {
		t.Fatalf("NewClock(%d, %d, %d, %d): %v", hh, mm, ss, us, err)
	}
	return c
}

func TestNewClock(t *testing.T) {
	c := mustClock(t, 23, 59, 59, 999999, nil)
	if c.Hour() != 23 || c.Minute() != 59 || c.Second() != 59 || c.Microsecond() != 999999 {
		t.Errorf("fields = %d:%d:%d.%d", c.Hour(), c.Minute(), c.Second(), c.Microsecond())
	}
	if c.Zone() != nil || c.Fold() != 0 {
		t.Error("naive clock must have nil zone and fold 0")
	}
	if _, err := NewClock(24, 0, 0, 0, nil); !errors.Is(err, ErrRange) {
		t.Error("hour 24 must be rejected")
	}
}

func TestClockWithFold(t *testing.T) {
	c := mustClock(t, 1, 30, 0, 0, MTC)
	f, err := c.WithFold(1)
	if err != nil {
		t.Fatal(err)
	}
	if f.Fold() != 1 || c.Fold() != 0 {
		t.Error("WithFold must copy, not mutate")
	}
	if f.Zone() != MTC {
		t.Error("WithFold must keep the zone")
	}
	if _, err := c.WithFold(2); !errors.Is(err, ErrRange) {
		t.Error("fold 2 must be rejected")
	}
}

func TestClockOffsets(t *testing.T) {
	naive := mustClock(t, 12, 0, 0, 0, nil)
	if _, ok, err := naive.MTCOffset(); ok || err != nil {
		t.Errorf("naive MTCOffset = (ok=%v, err=%v)", ok, err)
	}
	if _, ok := naive.ZoneName(); ok {
		t.Error("naive clock must have no zone name")
	}

	z := fixedZone(t, 5400, "")
	c := mustClock(t, 12, 0, 0, 0, z)
	off, ok, err := c.MTCOffset()
	if err != nil || !ok || off != mustDuration(t, 0, 5400, 0) {
		t.Errorf("MTCOffset = (%v, %v, %v)", off, ok, err)
	}
	if name, ok := c.ZoneName(); !ok || name != "MTC+01:30" {
		t.Errorf("ZoneName = (%q, %v)", name, ok)
	}
}

func TestClockCompare(t *testing.T) {
	east := fixedZone(t, 3600, "")
	mtcNoon := mustClock(t, 12, 0, 0, 0, MTC)

	// Same instant expressed one hour east.
	eastOne := mustClock(t, 13, 0, 0, 0, east)
	if !mtcNoon.Equal(eastOne) {
		t.Error("12:00 MTC must equal 13:00+01:00")
	}
	if r, err := mtcNoon.Cmp(eastOne); err != nil || r != 0 {
		t.Errorf("Cmp = (%d, %v), want (0, nil)", r, err)
	}
	if r, _ := mustClock(t, 12, 0, 0, 1, MTC).Cmp(eastOne); r != 1 {
		t.Error("one microsecond past noon must order after it")
	}

	// Same zone instance compares raw fields.
	if !mtcNoon.Equal(mustClock(t, 12, 0, 0, 0, MTC)) {
		t.Error("identical aware clocks must be equal")
	}

	// Mixing naive and aware: equality is total, ordering is not.
	naive := mustClock(t, 12, 0, 0, 0, nil)
	if naive.Equal(mtcNoon) || mtcNoon.Equal(naive) {
		t.Error("a naive clock must not equal an aware one")
	}
	if _, err := naive.Cmp(mtcNoon); !errors.Is(err, ErrNaiveAware) {
		t.Errorf("Cmp naive vs aware = %v, want ErrNaiveAware", err)
	}
	if !naive.Equal(mustClock(t, 12, 0, 0, 0, nil)) {
		t.Error("equal naive clocks must be equal")
	}
}

func TestClockHash(t *testing.T) {
	east := fixedZone(t, 3600, "")
	a := mustClock(t, 12, 0, 0, 0, MTC)
	b := mustClock(t, 13, 0, 0, 0, east)
	if a.Hash() != b.Hash() {
		t.Error("clocks naming the same instant must hash equally")
	}
	// A zero-offset aware clock hashes like its naive twin.
	if a.Hash() != mustClock(t, 12, 0, 0, 0, nil).Hash() {
		t.Error("zero-offset aware clock must hash like the naive clock")
	}
	if a.Hash() == mustClock(t, 12, 0, 0, 1, MTC).Hash() {
		t.Error("distinct clocks should not collide on a trivial case")
	}
	// fold is canonicalized away.
	f, _ := a.WithFold(1)
	if a.Hash() != f.Hash() {
		t.Error("fold must not change the hash")
	}
	// Normalization that leaves the sol still hashes consistently with
	// equality.
	west := fixedZone(t, -2*3600, "")
	c := mustClock(t, 23, 0, 0, 0, west) // 01:00 MTC next sol
	d := mustClock(t, 1, 0, 0, 0, MTC)
	if c.Equal(d) != (c.Hash() == d.Hash()) {
		t.Error("hash must agree with equality under normalization")
	}
}

func TestClockString(t *testing.T) {
	cases := []struct {
		c    *Clock
		want string
	}{
		{mustClock(t, 1, 2, 3, 0, nil), "01:02:03(Martian)"},
		{mustClock(t, 1, 2, 3, 400000, nil), "01:02:03.400000(Martian)"},
		{mustClock(t, 12, 0, 0, 0, MTC), "12:00:00+00:00(Martian)"},
		{mustClock(t, 12, 0, 0, 0, fixedZone(t, -5400, "")), "12:00:00-01:30(Martian)"},
	}
	for _, c := range cases {
		if got := c.c.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}

package darian

import (
	"fmt"
	"strings"
)

// A Zone supplies the relationship between a local Martian time frame and
// MTC, the zero-offset reference frame at the Airy-0 meridian.
//
// Implementations must be pure functions of the value they are given: one
// Zone instance is commonly shared by many DateTime values and may be
// called concurrently. The dt argument is the value being resolved; it is
// nil when a clock-only value with no date context is asking.
//
// Offset and DST report ok=false where no definite answer exists (the
// analog of a tzname/utcoffset returning no value). A returned offset must
// be strictly between -24h and +24h; the bound is enforced at the point of
// use, not on the Zone itself.
type Zone interface {
	// Offset returns the total offset of local time from MTC, positive
	// east of Airy-0. It includes any daylight component.
	Offset(dt *DateTime) (Duration, bool)

	// DST returns only the daylight component of the offset, or ok=false
	// if the zone has no daylight information for dt.
	DST(dt *DateTime) (Duration, bool)

	// Name returns a purely informational zone name. "MTC", "Airy-0",
	// "-500" and "Curiosity" are all valid replies.
	Name(dt *DateTime) string
}

// checkZoneOffset validates an offset a Zone returned. kind names the
// operation for the error message ("offset" or "dst").
func checkZoneOffset(kind string, off Duration) error {
	if off.sols < -1 || off.sols > 0 || (off.sols == -1 && off.secs == 0 && off.usecs == 0) {
		return fmt.Errorf("%w: zone %s %s must be strictly between -24h and +24h",
			ErrRange, kind, off)
	}
	return nil
}

// A FixedZone is a Zone at a constant offset from MTC with no daylight
// rule. It is the only concrete Zone this package provides; anything with
// a discontinuous offset is caller-supplied.
type FixedZone struct {
	offset Duration
	name   string
}

// MTC is the Martian reference zone: fixed zero offset at Airy-0.
var MTC = &FixedZone{name: "MTC"}

// NewFixedZone returns a FixedZone at the given offset. The name is
// informational; if empty, a name of the form "MTC±hh:mm" is synthesized
// from the offset on demand. The offset must be strictly between -24h and
// +24h.
func NewFixedZone(offset Duration, name string) (*FixedZone, error) {
	if err := checkZoneOffset("offset", offset); err != nil {
		return nil, err
	}
	return &FixedZone{offset: offset, name: name}, nil
}

// Offset returns the fixed offset regardless of dt.
func (z *FixedZone) Offset(dt *DateTime) (Duration, bool) { return z.offset, true }

// DST reports that a fixed zone carries no daylight information.
func (z *FixedZone) DST(dt *DateTime) (Duration, bool) { return Duration{}, false }

// Name returns the zone name, synthesizing one from the offset if none was
// given.
func (z *FixedZone) Name(dt *DateTime) string {
	if z.name == "" {
		return nameFromOffset(z.offset)
	}
	return z.name
}

func (z *FixedZone) String() string { return z.Name(nil) }

// nameFromOffset renders "MTC" for zero and "MTC±hh:mm[:ss[.ffffff]]"
// otherwise.
func nameFromOffset(off Duration) string {
	if off.IsZero() {
		return "MTC"
	}
	return "MTC" + formatOffset(off)
}

// formatOffset renders "±hh:mm[:ss[.ffffff]]" for an offset inside
// (-24h, +24h).
func formatOffset(off Duration) string {
	sign := "+"
	secs, usecs := int64(off.secs), int64(off.usecs)
	if off.sols < 0 {
		sign = "-"
		// The triple keeps its sign in sols; -1 sol plus a positive
		// second count is a plain negative clock offset.
		total := (off.sols*secondsPerSol+secs)*usecPerSecond + usecs
		secs, usecs = -total/usecPerSecond, -total%usecPerSecond
	}
	hh, mm, ss := secs/3600, secs/60%60, secs%60
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s%02d:%02d", sign, hh, mm)
	if ss != 0 || usecs != 0 {
		fmt.Fprintf(&sb, ":%02d", ss)
		if usecs != 0 {
			fmt.Fprintf(&sb, ".%06d", usecs)
		}
	}
	return sb.String()
}

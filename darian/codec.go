package darian

import (
	"encoding/binary"
	"fmt"
)

// Binary codec for the value types: a fixed, versioned layout over the raw
// validated fields. Year is split across two bytes, the microsecond across
// three, and the fold bit is packed into the high bit of the month (for
// DateTime) or hour (for Clock). Zones are deliberately not serialized; a
// decoded value is always naive. Decoding rejects any byte pattern whose
// fields violate the type's invariants.

const codecVersion = 1

func codecHeaderErr(want int, b []byte) error {
	if len(b) != want {
		return fmt.Errorf("darian: invalid encoding length %d, want %d", len(b), want)
	}
	if b[0] != codecVersion {
		return fmt.Errorf("darian: unsupported encoding version %d", b[0])
	}
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (v Duration) MarshalBinary() ([]byte, error) {
	b := make([]byte, 15)
	b[0] = codecVersion
	binary.BigEndian.PutUint64(b[1:9], uint64(v.sols))
	putUint24(b[9:12], uint32(v.secs))
	putUint24(b[12:15], uint32(v.usecs))
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (v *Duration) UnmarshalBinary(b []byte) error {
	if err := codecHeaderErr(15, b); err != nil {
		return err
	}
	sols := int64(binary.BigEndian.Uint64(b[1:9]))
	secs := uint24(b[9:12])
	usecs := uint24(b[12:15])
	if sols < -maxSols || sols > maxSols {
		return rangeErr("sols", sols, -maxSols, maxSols)
	}
	if secs >= secondsPerSol {
		return rangeErr("seconds", int64(secs), 0, secondsPerSol-1)
	}
	if usecs >= usecPerSecond {
		return rangeErr("microseconds", int64(usecs), 0, usecPerSecond-1)
	}
	*v = Duration{sols: sols, secs: int32(secs), usecs: int32(usecs)}
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (d Date) MarshalBinary() ([]byte, error) {
	return []byte{codecVersion, byte(d.year >> 8), byte(d.year), byte(d.month), byte(d.sol)}, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (d *Date) UnmarshalBinary(b []byte) error {
	if err := codecHeaderErr(5, b); err != nil {
		return err
	}
	year := int(b[1])<<8 | int(b[2])
	if err := checkDateFields(year, int(b[3]), int(b[4])); err != nil {
		return err
	}
	*d = Date{year: int16(year), month: int8(b[3]), sol: int8(b[4])}
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler. The zone, if any, is
// not serialized.
func (c *Clock) MarshalBinary() ([]byte, error) {
	b := make([]byte, 7)
	b[0] = codecVersion
	b[1] = byte(c.hour) | c.fold<<7
	b[2] = byte(c.minute)
	b[3] = byte(c.second)
	putUint24(b[4:7], uint32(c.usec))
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The decoded
// clock is naive.
func (c *Clock) UnmarshalBinary(b []byte) error {
	if err := codecHeaderErr(7, b); err != nil {
		return err
	}
	hour, fold := int(b[1]&0x7f), int(b[1]>>7)
	us := int(uint24(b[4:7]))
	if err := checkClockFields(hour, int(b[2]), int(b[3]), us, fold); err != nil {
		return err
	}
	c.hour, c.minute, c.second = int8(hour), int8(b[2]), int8(b[3])
	c.usec = int32(us)
	c.zone = nil
	c.fold = uint8(fold)
	c.hcache.v.Store(0)
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler. The zone, if any, is
// not serialized.
func (dt *DateTime) MarshalBinary() ([]byte, error) {
	b := make([]byte, 11)
	b[0] = codecVersion
	b[1] = byte(dt.date.year >> 8)
	b[2] = byte(dt.date.year)
	b[3] = byte(dt.date.month) | dt.fold<<7
	b[4] = byte(dt.date.sol)
	b[5] = byte(dt.hour)
	b[6] = byte(dt.minute)
	b[7] = byte(dt.second)
	putUint24(b[8:11], uint32(dt.usec))
	return b, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The decoded
// value is naive.
func (dt *DateTime) UnmarshalBinary(b []byte) error {
	if err := codecHeaderErr(11, b); err != nil {
		return err
	}
	year := int(b[1])<<8 | int(b[2])
	month, fold := int(b[3]&0x7f), int(b[3]>>7)
	if err := checkDateFields(year, month, int(b[4])); err != nil {
		return err
	}
	us := int(uint24(b[8:11]))
	if err := checkClockFields(int(b[5]), int(b[6]), int(b[7]), us, fold); err != nil {
		return err
	}
	dt.date = Date{year: int16(year), month: int8(month), sol: int8(b[4])}
	dt.hour, dt.minute, dt.second = int8(b[5]), int8(b[6]), int8(b[7])
	dt.usec = int32(us)
	dt.zone = nil
	dt.fold = uint8(fold)
	dt.hcache.v.Store(0)
	return nil
}

func putUint24(b []byte, v uint32) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

func uint24(b []byte) uint32 {
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

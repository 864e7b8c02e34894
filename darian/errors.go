package darian

import (
	"errors"
	"fmt"
)

// The package reports exactly four error conditions. All of them surface
// synchronously at the operation that produced them; nothing is retried or
// suppressed internally.
var (
	// ErrRange reports a field outside its valid domain (a month outside
	// 1..24, a sol past the end of its month, a zone offset of a full
	// 24 hours or more).
	ErrRange = errors.New("darian: value out of range")

	// ErrOverflow reports a derived ordinal or sol count that left the
	// representable range.
	ErrOverflow = errors.New("darian: result out of range")

	// ErrNaiveAware reports an ordering or subtraction that mixed a naive
	// value with a zone-aware one.
	ErrNaiveAware = errors.New("darian: cannot mix naive and zone-aware values")

	// ErrZoneInconsistent reports a Zone that returned absent or
	// contradictory data where the local-from-MTC protocol requires a
	// definite answer.
	ErrZoneInconsistent = errors.New("darian: zone returned inconsistent data")
)

// A RangeError describes which field was out of range and what the valid
// bounds were. The bounds are specific to the rejected value: a sol range
// error carries the length of that particular month, so a caller can tell
// a statically impossible value from one that is merely invalid for the
// given year and month.
type RangeError struct {
	Field    string
	Value    int64
	Min, Max int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("darian: %s must be in %d..%d, got %d", e.Field, e.Min, e.Max, e.Value)
}

func (e *RangeError) Unwrap() error { return ErrRange }

func rangeErr(field string, value, min, max int64) error {
	return &RangeError{Field: field, Value: value, Min: min, Max: max}
}

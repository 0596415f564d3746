// Package scoring computes penalty-adjusted final times and competition
// rankings. Everything here is a pure function of its inputs; callers
// recompute from current state instead of trusting stored rank fields.
package scoring

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned for negative time, penalty, or penalty-unit values.
var ErrInvalidInput = errors.New("invalid input")

// FinalTime computes the penalty-adjusted time in seconds:
// raw time plus penalties times the competition's penalty unit.
func FinalTime(rawSeconds, penalties, penaltyUnitSeconds int) (int, error) {
	if rawSeconds < 0 {
		return 0, fmt.Errorf("%w: raw time %d", ErrInvalidInput, rawSeconds)
	}
	if penalties < 0 {
		return 0, fmt.Errorf("%w: penalty count %d", ErrInvalidInput, penalties)
	}
	if penaltyUnitSeconds < 0 {
		return 0, fmt.Errorf("%w: penalty unit %d", ErrInvalidInput, penaltyUnitSeconds)
	}
	return rawSeconds + penalties*penaltyUnitSeconds, nil
}

package analysis

import (
	"errors"
	"fmt"
)

// ErrInsufficientData is returned when the ciphertext is too short to score
// even a key length of one: fewer than twice the reference's minimum samples.
var ErrInsufficientData = errors.New("insufficient data")

// NoKeyRecoveredError reports key positions where no shift scored a positive
// mutual IC against the reference. The key returned alongside it holds shift
// 0 at those positions.
type NoKeyRecoveredError struct {
	Positions []int
}

func (e *NoKeyRecoveredError) Error() string {
	return fmt.Sprintf("no key shift recovered for positions %v", e.Positions)
}

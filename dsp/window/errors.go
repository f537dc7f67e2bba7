package window

import "errors"

var (
	// ErrEmptyCoefficients is returned for an empty or all-zero window.
	ErrEmptyCoefficients = errors.New("window: empty coefficients")
	// ErrLengthMismatch is returned when samples and coefficients differ in length.
	ErrLengthMismatch = errors.New("window: samples and coefficients differ in length")
)

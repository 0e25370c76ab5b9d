package spectrum

import (
	"errors"
	"fmt"
)

var (
	// ErrTooShort is returned when a spectrum has fewer than two samples.
	ErrTooShort = errors.New("spectrum must contain at least 2 samples")

	// ErrLengthMismatch is returned when parallel columns differ in length.
	ErrLengthMismatch = errors.New("spectrum columns must have the same length")

	// ErrNotIncreasing is returned when wavelengths are not strictly increasing.
	ErrNotIncreasing = errors.New("wavelengths must be strictly increasing")

	// ErrGridMismatch is returned when two spectra do not share a wavelength grid.
	ErrGridMismatch = errors.New("spectra are not on the same wavelength grid")

	// ErrOutOfRange is returned when a requested wavelength lies outside the spectrum.
	ErrOutOfRange = errors.New("wavelength outside spectrum range")

	// ErrEmptyWindow is returned when a wavelength interval selects too few samples.
	ErrEmptyWindow = errors.New("wavelength interval selects fewer than 2 samples")
)

func validateFinite(name string, values []float64) error {
	for i, v := range values {
		if !isFinite(v) {
			return fmt.Errorf("spectrum: %s[%d] is not finite: %v", name, i, v)
		}
	}

	return nil
}

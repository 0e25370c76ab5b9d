package smooth

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownType is returned for an unrecognized smoothing type.
	ErrUnknownType = errors.New("unknown smoothing type")

	// ErrEmptyInput is returned when the input signal is empty.
	ErrEmptyInput = errors.New("input must not be empty")

	// ErrKernelTooLong is returned when the kernel exceeds the input length.
	ErrKernelTooLong = errors.New("kernel longer than input")
)

func validateWidth(width int) error {
	if width < 3 {
		return fmt.Errorf("smooth: kernel width must be >= 3: %d", width)
	}

	if width%2 == 0 {
		return fmt.Errorf("smooth: kernel width must be odd: %d", width)
	}

	return nil
}

func validatePolyOrder(width, order int) error {
	if err := validateWidth(width); err != nil {
		return err
	}

	if order < 1 || order >= width {
		return fmt.Errorf("smooth: polynomial order must be in [1, width): %d", order)
	}

	return nil
}

func validateCutoff(cutoff float64) error {
	if cutoff <= 0 || cutoff > 1 {
		return fmt.Errorf("smooth: cutoff must be in (0, 1]: %f", cutoff)
	}

	return nil
}

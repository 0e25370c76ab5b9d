package smooth

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// Fourier low-pass smooths src by zeroing all frequency bins above cutoff,
// expressed as a fraction of the Nyquist frequency in (0, 1]. The input is
// reflect-extended to the next power of two before the transform to limit
// edge ringing, then truncated back to the input length.
func Fourier(src []float64, cutoff float64) ([]float64, error) {
	if len(src) == 0 {
		return nil, fmt.Errorf("smooth: %w", ErrEmptyInput)
	}

	if err := validateCutoff(cutoff); err != nil {
		return nil, err
	}

	n := len(src)
	size := nextPowerOf2(n)

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("smooth: fourier: %w", err)
	}

	in := make([]complex128, size)
	for i := range size {
		in[i] = complex(src[reflectIndex(i, n)], 0)
	}

	freq := make([]complex128, size)
	if err := plan.Forward(freq, in); err != nil {
		return nil, fmt.Errorf("smooth: fourier: %w", err)
	}

	// Zero every bin above the cutoff, keeping the spectrum conjugate
	// symmetric. Bin k maps to frequency fraction k/(size/2) of Nyquist.
	nyquist := size / 2
	maxBin := int(cutoff * float64(nyquist))

	for k := 1; k <= nyquist; k++ {
		if k <= maxBin {
			continue
		}

		freq[k] = 0
		if k != nyquist {
			freq[size-k] = 0
		}
	}

	out := make([]complex128, size)
	if err := plan.Inverse(out, freq); err != nil {
		return nil, fmt.Errorf("smooth: fourier: %w", err)
	}

	dst := make([]float64, n)
	for i := range dst {
		dst[i] = real(out[i])
	}

	return dst, nil
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}

	return size
}

package smooth

import "fmt"

// Config holds one-shot smoothing parameters.
type Config struct {
	Type      Type
	Width     int     // odd kernel width, >= 3 (kernel methods)
	PolyOrder int     // Savitzky-Golay polynomial order, default 2
	Cutoff    float64 // Fourier cutoff as a fraction of Nyquist, (0, 1]
}

// DefaultConfig returns a moderate Gaussian smoother.
func DefaultConfig() Config {
	return Config{
		Type:      TypeGaussian,
		Width:     9,
		PolyOrder: 2,
		Cutoff:    0.1,
	}
}

// Smooth applies the configured smoother and returns a new slice of the same
// length as src.
func Smooth(src []float64, cfg Config) ([]float64, error) {
	if len(src) == 0 {
		return nil, fmt.Errorf("smooth: %w", ErrEmptyInput)
	}

	if cfg.Type == TypeFourier {
		return Fourier(src, cfg.Cutoff)
	}

	kernel, err := Kernel(cfg.Type, cfg.Width, cfg.PolyOrder)
	if err != nil {
		return nil, err
	}

	dst := make([]float64, len(src))
	if err := Apply(dst, src, kernel); err != nil {
		return nil, err
	}

	return dst, nil
}

// Apply convolves src with a symmetric odd-length kernel into dst, using
// reflection at both edges so the output keeps the input length. dst and src
// must have the same length and may alias only if identical.
func Apply(dst, src, kernel []float64) error {
	if len(src) == 0 {
		return fmt.Errorf("smooth: %w", ErrEmptyInput)
	}

	if len(dst) != len(src) {
		return fmt.Errorf("smooth: dst length %d != src length %d", len(dst), len(src))
	}

	if err := validateWidth(len(kernel)); err != nil {
		return err
	}

	if len(kernel) > len(src) {
		return fmt.Errorf("smooth: %w: %d > %d", ErrKernelTooLong, len(kernel), len(src))
	}

	n := len(src)
	half := len(kernel) / 2

	out := dst
	if sameSlice(dst, src) {
		out = make([]float64, n)
	}

	for i := range n {
		var acc float64
		for k, c := range kernel {
			acc += c * src[reflectIndex(i+k-half, n)]
		}
		out[i] = acc
	}

	if sameSlice(dst, src) {
		copy(dst, out)
	}

	return nil
}

// reflectIndex mirrors an out-of-range index back into [0, n) without
// repeating the edge sample (whole-sample reflection).
func reflectIndex(i, n int) int {
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}

	return i
}

func sameSlice(a, b []float64) bool {
	return len(a) > 0 && len(b) > 0 && &a[0] == &b[0]
}

package spectrum

import (
	"fmt"
	"sort"
)

// Resample interpolates the spectrum onto the given wavelength grid. Interior
// points with two neighbors on each side use cubic 4-point (Hermite)
// interpolation; points near the edges fall back to linear. Every grid point
// must lie inside the source wavelength range (no extrapolation). Sigma, when
// present, is interpolated linearly.
func (s Spectrum) Resample(grid []float64) (Spectrum, error) {
	if s.Len() < 2 {
		return Spectrum{}, fmt.Errorf("spectrum: resample: %w", ErrTooShort)
	}

	lo, hi := s.Range()
	flux := make([]float64, len(grid))

	var sigma []float64
	if s.Sigma != nil {
		sigma = make([]float64, len(grid))
	}

	for i, x := range grid {
		if x < lo || x > hi {
			return Spectrum{}, fmt.Errorf("spectrum: resample: %w: %g not in [%g, %g]",
				ErrOutOfRange, x, lo, hi)
		}

		// Segment index k such that Wavelength[k] <= x <= Wavelength[k+1].
		k := sort.SearchFloat64s(s.Wavelength, x)
		if k > 0 {
			k--
		}

		if k == s.Len()-1 {
			k--
		}

		frac := (x - s.Wavelength[k]) / (s.Wavelength[k+1] - s.Wavelength[k])

		if k >= 1 && k+2 < s.Len() {
			flux[i] = hermite4(frac, s.Flux[k-1], s.Flux[k], s.Flux[k+1], s.Flux[k+2])
		} else {
			flux[i] = lerp(frac, s.Flux[k], s.Flux[k+1])
		}

		if sigma != nil {
			sigma[i] = lerp(frac, s.Sigma[k], s.Sigma[k+1])
		}
	}

	out, err := New(grid, flux)
	if err != nil {
		return Spectrum{}, err
	}

	if sigma != nil {
		return out.WithSigma(sigma)
	}

	return out, nil
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// hermite4 computes cubic 4-point interpolation from x0 to x1 using neighbor
// points xm1 and x2.
func hermite4(t, xm1, x0, x1, x2 float64) float64 {
	c0 := x0
	c1 := 0.5 * (x1 - xm1)
	c2 := xm1 - 2.5*x0 + 2*x1 - 0.5*x2
	c3 := 0.5*(x2-xm1) + 1.5*(x0-x1)

	return ((c3*t+c2)*t+c1)*t + c0
}

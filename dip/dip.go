// Package dip locates the dominant absorption dip in a residual spectrum
// and extracts a fit window around it.
package dip

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cwbudde/algo-spectral/spectrum"
)

var (
	// ErrNoDip is returned when the residual carries no dip (flat flux).
	ErrNoDip = errors.New("residual spectrum has no dip")

	// ErrWindowTooSmall is returned when the fit window holds too few samples.
	ErrWindowTooSmall = errors.New("fit window must contain at least 5 samples")
)

// minWindowSamples is the smallest window a line fit can be anchored on.
const minWindowSamples = 5

// Dip describes the deepest minimum of a residual spectrum.
type Dip struct {
	Index      int     // sample index of the minimum
	Center     float64 // refined center wavelength
	Depth      float64 // median flux minus minimum flux
	Prominence float64 // lower shoulder maximum minus minimum flux
}

// Find locates the deepest flux minimum. Interior minima are refined to
// sub-sample precision with a parabola through the three samples around the
// minimum; a minimum on the first or last sample keeps its grid wavelength.
func Find(s spectrum.Spectrum) (Dip, error) {
	n := s.Len()
	if n < 2 {
		return Dip{}, fmt.Errorf("dip: %w", spectrum.ErrTooShort)
	}

	idx := s.MinFlux()
	minVal := s.Flux[idx]

	maxVal := minVal
	for _, v := range s.Flux {
		if v > maxVal {
			maxVal = v
		}
	}

	if maxVal == minVal {
		return Dip{}, fmt.Errorf("dip: %w", ErrNoDip)
	}

	d := Dip{
		Index:      idx,
		Center:     s.Wavelength[idx],
		Depth:      median(s.Flux) - minVal,
		Prominence: prominence(s.Flux, idx),
	}

	if idx > 0 && idx < n-1 {
		d.Center = refineCenter(s, idx)
	}

	return d, nil
}

// refineCenter fits a parabola through the minimum and its two neighbors and
// returns the vertex wavelength.
func refineCenter(s spectrum.Spectrum, idx int) float64 {
	y0 := s.Flux[idx-1]
	y1 := s.Flux[idx]
	y2 := s.Flux[idx+1]

	denom := y0 - 2*y1 + y2
	if denom == 0 {
		return s.Wavelength[idx]
	}

	// Vertex offset in sample units, then mapped with the local spacing.
	delta := 0.5 * (y0 - y2) / denom
	if delta < -1 || delta > 1 {
		return s.Wavelength[idx]
	}

	halfSpan := 0.5 * (s.Wavelength[idx+1] - s.Wavelength[idx-1])

	return s.Wavelength[idx] + delta*halfSpan
}

// prominence returns the dip height above its minimum, measured against the
// lower of the two shoulder maxima.
func prominence(flux []float64, idx int) float64 {
	left := flux[idx]
	for _, v := range flux[:idx] {
		if v > left {
			left = v
		}
	}

	right := flux[idx]
	for _, v := range flux[idx+1:] {
		if v > right {
			right = v
		}
	}

	shoulder := left
	if right < shoulder {
		shoulder = right
	}

	return shoulder - flux[idx]
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}

	return 0.5 * (sorted[n/2-1] + sorted[n/2])
}

// Window slices the spectrum to ±halfWidth around the refined dip center.
func Window(s spectrum.Spectrum, d Dip, halfWidth float64) (spectrum.Spectrum, error) {
	if halfWidth <= 0 {
		return spectrum.Spectrum{}, fmt.Errorf("dip: window half-width must be > 0: %g", halfWidth)
	}

	win, err := s.Slice(d.Center-halfWidth, d.Center+halfWidth)
	if err != nil {
		return spectrum.Spectrum{}, fmt.Errorf("dip: %w", err)
	}

	if win.Len() < minWindowSamples {
		return spectrum.Spectrum{}, fmt.Errorf("dip: %w: got %d", ErrWindowTooSmall, win.Len())
	}

	return win, nil
}

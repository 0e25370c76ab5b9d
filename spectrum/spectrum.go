// Package spectrum provides a value type for 1-D spectra sampled on a
// strictly increasing wavelength grid, with CSV I/O, slicing, arithmetic,
// and resampling onto foreign grids.
package spectrum

import (
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-vecmath"
)

// gridRelTol is the relative wavelength tolerance for grid identity checks.
const gridRelTol = 1e-9

// Spectrum holds flux samples on a strictly increasing wavelength grid.
// Sigma holds optional per-sample flux uncertainties; nil means unweighted.
type Spectrum struct {
	Wavelength []float64
	Flux       []float64
	Sigma      []float64
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// New creates a spectrum from wavelength and flux columns. Both slices are
// copied. The wavelengths must be strictly increasing and all values finite.
func New(wavelength, flux []float64) (Spectrum, error) {
	if len(wavelength) != len(flux) {
		return Spectrum{}, fmt.Errorf("spectrum: %w: %d wavelengths, %d fluxes",
			ErrLengthMismatch, len(wavelength), len(flux))
	}

	if len(wavelength) < 2 {
		return Spectrum{}, fmt.Errorf("spectrum: %w: got %d", ErrTooShort, len(wavelength))
	}

	if err := validateFinite("wavelength", wavelength); err != nil {
		return Spectrum{}, err
	}

	if err := validateFinite("flux", flux); err != nil {
		return Spectrum{}, err
	}

	for i := 1; i < len(wavelength); i++ {
		if wavelength[i] <= wavelength[i-1] {
			return Spectrum{}, fmt.Errorf("spectrum: %w: sample %d (%v) after %v",
				ErrNotIncreasing, i, wavelength[i], wavelength[i-1])
		}
	}

	w := make([]float64, len(wavelength))
	copy(w, wavelength)
	f := make([]float64, len(flux))
	copy(f, flux)

	return Spectrum{Wavelength: w, Flux: f}, nil
}

// WithSigma returns a copy of the spectrum carrying per-sample uncertainties.
// All sigmas must be finite and positive.
func (s Spectrum) WithSigma(sigma []float64) (Spectrum, error) {
	if len(sigma) != s.Len() {
		return Spectrum{}, fmt.Errorf("spectrum: %w: %d sigmas for %d samples",
			ErrLengthMismatch, len(sigma), s.Len())
	}

	for i, v := range sigma {
		if !isFinite(v) || v <= 0 {
			return Spectrum{}, fmt.Errorf("spectrum: sigma[%d] must be finite and > 0: %v", i, v)
		}
	}

	out := s.Clone()
	out.Sigma = make([]float64, len(sigma))
	copy(out.Sigma, sigma)

	return out, nil
}

// Len returns the number of samples.
func (s Spectrum) Len() int {
	return len(s.Wavelength)
}

// Clone returns a deep copy of the spectrum.
func (s Spectrum) Clone() Spectrum {
	out := Spectrum{
		Wavelength: make([]float64, len(s.Wavelength)),
		Flux:       make([]float64, len(s.Flux)),
	}
	copy(out.Wavelength, s.Wavelength)
	copy(out.Flux, s.Flux)

	if s.Sigma != nil {
		out.Sigma = make([]float64, len(s.Sigma))
		copy(out.Sigma, s.Sigma)
	}

	return out
}

// MinFlux returns the index of the smallest flux sample.
func (s Spectrum) MinFlux() int {
	if s.Len() == 0 {
		return -1
	}

	pos := 0
	minVal := s.Flux[0]

	for i, v := range s.Flux[1:] {
		if v < minVal {
			minVal = v
			pos = i + 1
		}
	}

	return pos
}

// Range returns the first and last wavelength of the grid.
func (s Spectrum) Range() (lo, hi float64) {
	if s.Len() == 0 {
		return 0, 0
	}

	return s.Wavelength[0], s.Wavelength[s.Len()-1]
}

// Slice returns the samples with wavelength in the closed interval [lo, hi].
// The underlying data is copied.
func (s Spectrum) Slice(lo, hi float64) (Spectrum, error) {
	if lo > hi {
		lo, hi = hi, lo
	}

	start := sort.SearchFloat64s(s.Wavelength, lo)
	end := sort.SearchFloat64s(s.Wavelength, hi)

	// SearchFloat64s returns the insertion point; include an exact hi match.
	if end < s.Len() && s.Wavelength[end] <= hi {
		end++
	}

	if end-start < 2 {
		return Spectrum{}, fmt.Errorf("spectrum: %w: [%g, %g] holds %d",
			ErrEmptyWindow, lo, hi, end-start)
	}

	out := Spectrum{
		Wavelength: append([]float64(nil), s.Wavelength[start:end]...),
		Flux:       append([]float64(nil), s.Flux[start:end]...),
	}
	if s.Sigma != nil {
		out.Sigma = append([]float64(nil), s.Sigma[start:end]...)
	}

	return out, nil
}

// SameGrid reports whether two spectra share a wavelength grid within a
// relative tolerance of 1e-9.
func SameGrid(a, b Spectrum) bool {
	if a.Len() != b.Len() {
		return false
	}

	for i := range a.Wavelength {
		wa, wb := a.Wavelength[i], b.Wavelength[i]
		scale := math.Max(math.Abs(wa), math.Abs(wb))

		if math.Abs(wa-wb) > gridRelTol*math.Max(scale, 1) {
			return false
		}
	}

	return true
}

// Subtract returns a - b on the shared wavelength grid of a. When both
// spectra carry uncertainties, the result combines them in quadrature; when
// only one does, its uncertainties are kept.
func Subtract(a, b Spectrum) (Spectrum, error) {
	if !SameGrid(a, b) {
		return Spectrum{}, fmt.Errorf("spectrum: subtract: %w", ErrGridMismatch)
	}

	out := a.Clone()

	neg := make([]float64, b.Len())
	vecmath.ScaleBlock(neg, b.Flux, -1)
	vecmath.AddBlockInPlace(out.Flux, neg)

	switch {
	case a.Sigma != nil && b.Sigma != nil:
		out.Sigma = make([]float64, a.Len())
		for i := range out.Sigma {
			out.Sigma[i] = math.Hypot(a.Sigma[i], b.Sigma[i])
		}
	case b.Sigma != nil:
		out.Sigma = append([]float64(nil), b.Sigma...)
	}

	return out, nil
}

// Scale returns the spectrum with flux (and sigma, when present) multiplied
// by k.
func (s Spectrum) Scale(k float64) Spectrum {
	out := s.Clone()
	vecmath.ScaleBlock(out.Flux, s.Flux, k)

	if out.Sigma != nil {
		vecmath.ScaleBlock(out.Sigma, s.Sigma, math.Abs(k))
	}

	return out
}

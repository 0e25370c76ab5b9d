// Package testutil provides deterministic synthetic spectra and tolerance
// helpers shared by the package tests.
package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-spectral/lineshape"
	"github.com/cwbudde/algo-spectral/spectrum"
)

// Continuum generates a flat continuum spectrum with n samples on the
// wavelength interval [lo, hi] and constant flux level.
func Continuum(n int, lo, hi, level float64) spectrum.Spectrum {
	return SlopedContinuum(n, lo, hi, level, 0)
}

// SlopedContinuum generates a linear continuum: flux = level + slope*(w-lo).
func SlopedContinuum(n int, lo, hi, level, slope float64) spectrum.Spectrum {
	w := make([]float64, n)
	f := make([]float64, n)

	step := (hi - lo) / float64(n-1)
	for i := range w {
		w[i] = lo + float64(i)*step
		f[i] = level + slope*(w[i]-lo)
	}

	s, err := spectrum.New(w, f)
	if err != nil {
		panic(err)
	}

	return s
}

// InjectLine subtracts an absorption profile from the spectrum's flux.
// The profile's Offset is ignored; only the dip itself is applied.
func InjectLine(s spectrum.Spectrum, typ lineshape.Type, p lineshape.Params) spectrum.Spectrum {
	out := s.Clone()

	zero := p
	zero.Offset = 0

	for i, w := range out.Wavelength {
		out.Flux[i] += lineshape.Eval(typ, zero, w)
	}

	return out
}

// AddNoise perturbs the flux with seeded Gaussian noise of the given
// standard deviation and records sigma on every sample.
func AddNoise(s spectrum.Spectrum, seed int64, sigma float64) spectrum.Spectrum {
	rng := rand.New(rand.NewSource(seed))
	out := s.Clone()

	out.Sigma = make([]float64, out.Len())
	for i := range out.Flux {
		out.Flux[i] += sigma * rng.NormFloat64()
		out.Sigma[i] = sigma
	}

	return out
}

// GaussianNoise returns a seeded slice of Gaussian noise samples.
func GaussianNoise(seed int64, sigma float64, n int) []float64 {
	rng := rand.New(rand.NewSource(seed))

	out := make([]float64, n)
	for i := range out {
		out[i] = sigma * rng.NormFloat64()
	}

	return out
}

// IsFinite reports whether every value is neither NaN nor Inf.
func IsFinite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

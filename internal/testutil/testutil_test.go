package testutil

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-spectral/lineshape"
)

func TestContinuum(t *testing.T) {
	s := Continuum(11, 100, 110, 1.5)
	if s.Len() != 11 {
		t.Fatalf("Len: got %d, want 11", s.Len())
	}
	if s.Wavelength[0] != 100 || s.Wavelength[10] != 110 {
		t.Errorf("range: got [%v, %v]", s.Wavelength[0], s.Wavelength[10])
	}
	for i, v := range s.Flux {
		if v != 1.5 {
			t.Fatalf("Flux[%d]: got %v, want 1.5", i, v)
		}
	}
}

func TestSlopedContinuum(t *testing.T) {
	s := SlopedContinuum(3, 0, 2, 1, 0.5)
	RequireSliceNear(t, s.Flux, []float64{1, 1.5, 2}, 1e-12)
}

func TestInjectLine(t *testing.T) {
	p := lineshape.Params{Depth: 0.4, Center: 105, Width: 2, Offset: 7}
	s := InjectLine(Continuum(101, 100, 110, 1), lineshape.TypeGaussian, p)

	idx := s.MinFlux()
	RequireNear(t, s.Wavelength[idx], 105, 1e-9)
	// Offset of the injected profile must be ignored.
	RequireNear(t, s.Flux[idx], 1-0.4, 1e-9)
}

func TestAddNoise_Deterministic(t *testing.T) {
	base := Continuum(64, 0, 1, 1)
	a := AddNoise(base, 3, 0.05)
	b := AddNoise(base, 3, 0.05)

	RequireSliceNear(t, a.Flux, b.Flux, 0)
	RequireFinite(t, a.Flux)

	if a.Sigma[0] != 0.05 {
		t.Errorf("Sigma: got %v, want 0.05", a.Sigma[0])
	}

	c := AddNoise(base, 4, 0.05)
	if MaxAbsDiff(a.Flux, c.Flux) == 0 {
		t.Error("different seeds produced identical noise")
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite([]float64{1, 2, 3}) {
		t.Error("finite slice reported non-finite")
	}
	if IsFinite([]float64{1, math.NaN()}) {
		t.Error("NaN slipped through")
	}
	if IsFinite([]float64{math.Inf(-1)}) {
		t.Error("Inf slipped through")
	}
}

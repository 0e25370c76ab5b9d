package spectrum

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-12

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func mustNew(t *testing.T, w, f []float64) Spectrum {
	t.Helper()
	s, err := New(w, f)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNew_Valid(t *testing.T) {
	s := mustNew(t, []float64{1, 2, 3}, []float64{0.5, 0.4, 0.6})
	if s.Len() != 3 {
		t.Fatalf("Len: got %d, want 3", s.Len())
	}
	if s.Sigma != nil {
		t.Error("new spectrum should have nil Sigma")
	}
}

func TestNew_CopiesInput(t *testing.T) {
	w := []float64{1, 2, 3}
	f := []float64{1, 1, 1}
	s := mustNew(t, w, f)
	w[0] = 99
	f[0] = 99
	if s.Wavelength[0] == 99 || s.Flux[0] == 99 {
		t.Error("New did not copy input slices")
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name string
		w, f []float64
		want error
	}{
		{"length mismatch", []float64{1, 2}, []float64{1}, ErrLengthMismatch},
		{"too short", []float64{1}, []float64{1}, ErrTooShort},
		{"not increasing", []float64{1, 1, 2}, []float64{0, 0, 0}, ErrNotIncreasing},
		{"decreasing", []float64{3, 2, 1}, []float64{0, 0, 0}, ErrNotIncreasing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.w, tt.f)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNew_NonFinite(t *testing.T) {
	if _, err := New([]float64{1, 2, 3}, []float64{0, math.NaN(), 0}); err == nil {
		t.Error("NaN flux accepted")
	}
	if _, err := New([]float64{1, math.Inf(1), 3}, []float64{0, 0, 0}); err == nil {
		t.Error("Inf wavelength accepted")
	}
}

func TestWithSigma(t *testing.T) {
	s := mustNew(t, []float64{1, 2, 3}, []float64{1, 1, 1})

	ws, err := s.WithSigma([]float64{0.1, 0.2, 0.3})
	if err != nil {
		t.Fatalf("WithSigma: %v", err)
	}
	if ws.Sigma[1] != 0.2 {
		t.Errorf("Sigma[1]: got %v, want 0.2", ws.Sigma[1])
	}
	if s.Sigma != nil {
		t.Error("WithSigma mutated receiver")
	}

	if _, err := s.WithSigma([]float64{0.1, 0.2}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("short sigma: got %v, want ErrLengthMismatch", err)
	}
	if _, err := s.WithSigma([]float64{0.1, -1, 0.3}); err == nil {
		t.Error("negative sigma accepted")
	}
}

func TestMinFlux(t *testing.T) {
	s := mustNew(t, []float64{1, 2, 3, 4}, []float64{1.0, 0.2, 0.9, 0.5})
	if got := s.MinFlux(); got != 1 {
		t.Errorf("MinFlux: got %d, want 1", got)
	}
}

func TestSlice(t *testing.T) {
	s := mustNew(t, []float64{1, 2, 3, 4, 5}, []float64{10, 20, 30, 40, 50})

	win, err := s.Slice(2, 4)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if win.Len() != 3 {
		t.Fatalf("Len: got %d, want 3", win.Len())
	}
	if win.Wavelength[0] != 2 || win.Wavelength[2] != 4 {
		t.Errorf("bounds: got [%v, %v], want [2, 4]", win.Wavelength[0], win.Wavelength[2])
	}

	// Reversed bounds are normalized.
	win2, err := s.Slice(4, 2)
	if err != nil {
		t.Fatalf("Slice reversed: %v", err)
	}
	if win2.Len() != 3 {
		t.Errorf("reversed Len: got %d, want 3", win2.Len())
	}

	if _, err := s.Slice(2.4, 2.6); !errors.Is(err, ErrEmptyWindow) {
		t.Errorf("empty window: got %v, want ErrEmptyWindow", err)
	}
}

func TestSlice_Copies(t *testing.T) {
	s := mustNew(t, []float64{1, 2, 3, 4}, []float64{1, 2, 3, 4})
	win, err := s.Slice(2, 3)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	win.Flux[0] = 99
	if s.Flux[1] == 99 {
		t.Error("Slice shares backing array with source")
	}
}

func TestSubtract(t *testing.T) {
	a := mustNew(t, []float64{1, 2, 3}, []float64{5, 5, 5})
	b := mustNew(t, []float64{1, 2, 3}, []float64{1, 2, 3})

	d, err := Subtract(a, b)
	if err != nil {
		t.Fatalf("Subtract: %v", err)
	}
	want := []float64{4, 3, 2}
	for i := range want {
		if !almostEqual(d.Flux[i], want[i], eps) {
			t.Errorf("Flux[%d]: got %v, want %v", i, d.Flux[i], want[i])
		}
	}
}

func TestSubtract_SigmaQuadrature(t *testing.T) {
	a := mustNew(t, []float64{1, 2}, []float64{1, 1})
	a, _ = a.WithSigma([]float64{3, 3})
	b := mustNew(t, []float64{1, 2}, []float64{0, 0})
	b, _ = b.WithSigma([]float64{4, 4})

	d, err := Subtract(a, b)
	if err != nil {
		t.Fatalf("Subtract: %v", err)
	}
	if !almostEqual(d.Sigma[0], 5, eps) {
		t.Errorf("Sigma[0]: got %v, want 5", d.Sigma[0])
	}
}

func TestSubtract_GridMismatch(t *testing.T) {
	a := mustNew(t, []float64{1, 2, 3}, []float64{0, 0, 0})
	b := mustNew(t, []float64{1, 2.5, 3}, []float64{0, 0, 0})
	if _, err := Subtract(a, b); !errors.Is(err, ErrGridMismatch) {
		t.Errorf("got %v, want ErrGridMismatch", err)
	}
}

func TestSameGrid_Tolerance(t *testing.T) {
	a := mustNew(t, []float64{1000, 2000}, []float64{0, 0})
	b := mustNew(t, []float64{1000 + 1e-7, 2000}, []float64{0, 0})
	if !SameGrid(a, b) {
		t.Error("grids within relative tolerance reported unequal")
	}
}

func TestScale(t *testing.T) {
	s := mustNew(t, []float64{1, 2}, []float64{3, -4})
	s, _ = s.WithSigma([]float64{1, 2})

	g := s.Scale(-2)
	if g.Flux[0] != -6 || g.Flux[1] != 8 {
		t.Errorf("Flux: got %v, want [-6 8]", g.Flux)
	}
	// Sigma stays positive.
	if g.Sigma[0] != 2 || g.Sigma[1] != 4 {
		t.Errorf("Sigma: got %v, want [2 4]", g.Sigma)
	}
}

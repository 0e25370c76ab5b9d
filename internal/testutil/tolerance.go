package testutil

import (
	"math"
	"testing"
)

// RequireNear fails t when got and want differ by more than eps.
func RequireNear(t *testing.T, got, want, eps float64) {
	t.Helper()

	if math.Abs(got-want) > eps {
		t.Fatalf("got %v, want %v (diff %v > eps %v)", got, want, math.Abs(got-want), eps)
	}
}

// RequireSliceNear fails t when got and want differ in length or any
// element pair differs by more than eps.
func RequireSliceNear(t *testing.T, got, want []float64, eps float64) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}

	for i := range got {
		if math.Abs(got[i]-want[i]) > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)",
				i, got[i], want[i], math.Abs(got[i]-want[i]), eps)
		}
	}
}

// RequireFinite fails t when any element is NaN or Inf.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()

	if !IsFinite(data) {
		t.Fatalf("slice contains non-finite values: %v", data)
	}
}

// MaxAbsDiff returns the maximum absolute elementwise difference of two
// equal-length slices.
func MaxAbsDiff(a, b []float64) float64 {
	var maxDiff float64
	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > maxDiff {
			maxDiff = d
		}
	}

	return maxDiff
}

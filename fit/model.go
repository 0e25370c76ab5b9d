package fit

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-spectral/lineshape"
	"github.com/cwbudde/algo-spectral/spectrum"
)

var (
	// ErrEmptyData is returned when the fit window holds no samples.
	ErrEmptyData = errors.New("fit data must not be empty")

	// ErrLengthMismatch is returned when data columns differ in length.
	ErrLengthMismatch = errors.New("fit data columns must have the same length")
)

// log2pi is the constant term of the Gaussian log density.
var log2pi = math.Log(2 * math.Pi)

// Data holds the windowed samples a line is fitted to. Sigma may be nil, in
// which case [Data.Normalize] derives a constant uncertainty from the data.
type Data struct {
	X     []float64
	Y     []float64
	Sigma []float64
}

// FromSpectrum adapts a windowed spectrum into fit data.
func FromSpectrum(s spectrum.Spectrum) Data {
	return Data{X: s.Wavelength, Y: s.Flux, Sigma: s.Sigma}
}

// Len returns the number of samples.
func (d Data) Len() int {
	return len(d.X)
}

// Validate checks column lengths and sigma positivity.
func (d Data) Validate() error {
	if d.Len() == 0 {
		return fmt.Errorf("fit: %w", ErrEmptyData)
	}

	if len(d.Y) != d.Len() {
		return fmt.Errorf("fit: %w: %d x, %d y", ErrLengthMismatch, d.Len(), len(d.Y))
	}

	if d.Sigma != nil {
		if len(d.Sigma) != d.Len() {
			return fmt.Errorf("fit: %w: %d x, %d sigma", ErrLengthMismatch, d.Len(), len(d.Sigma))
		}

		for i, s := range d.Sigma {
			if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
				return fmt.Errorf("fit: sigma[%d] must be finite and > 0: %v", i, s)
			}
		}
	}

	return nil
}

// Normalize returns the data with a sigma column guaranteed to be present.
// Missing uncertainties are replaced by a constant robust noise estimate,
// 1.4826 times the median absolute deviation of Y.
func (d Data) Normalize() (Data, error) {
	if err := d.Validate(); err != nil {
		return Data{}, err
	}

	if d.Sigma != nil {
		return d, nil
	}

	sigma := robustNoise(d.Y)
	if sigma <= 0 {
		// Flat data; any positive sigma gives the same posterior shape.
		sigma = 1
	}

	out := d
	out.Sigma = make([]float64, d.Len())
	for i := range out.Sigma {
		out.Sigma[i] = sigma
	}

	return out, nil
}

// robustNoise estimates the noise level as 1.4826 * MAD.
func robustNoise(y []float64) float64 {
	m := medianOf(y)

	dev := make([]float64, len(y))
	for i, v := range y {
		dev[i] = math.Abs(v - m)
	}

	return 1.4826 * medianOf(dev)
}

func medianOf(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}

	return 0.5 * (sorted[n/2-1] + sorted[n/2])
}

// LogLikelihood evaluates the independent-Gaussian-error log likelihood of
// the profile parameters theta (packed per lineshape ordering) on d.
// The data must have passed through [Data.Normalize].
func LogLikelihood(d Data, typ lineshape.Type, theta []float64) float64 {
	p, err := lineshape.Unpack(typ, theta)
	if err != nil {
		return math.Inf(-1)
	}

	var ll float64
	for i, x := range d.X {
		r := (d.Y[i] - lineshape.Eval(typ, p, x)) / d.Sigma[i]
		ll += -0.5*r*r - math.Log(d.Sigma[i]) - 0.5*log2pi
	}

	if math.IsNaN(ll) {
		return math.Inf(-1)
	}

	return ll
}

// ChiSquared returns the sigma-weighted sum of squared residuals.
func ChiSquared(d Data, typ lineshape.Type, theta []float64) float64 {
	p, err := lineshape.Unpack(typ, theta)
	if err != nil {
		return math.Inf(1)
	}

	var chi2 float64
	for i, x := range d.X {
		r := (d.Y[i] - lineshape.Eval(typ, p, x)) / d.Sigma[i]
		chi2 += r * r
	}

	return chi2
}

// ReducedChiSquared returns chi-squared per degree of freedom.
func ReducedChiSquared(d Data, typ lineshape.Type, theta []float64) float64 {
	dof := d.Len() - lineshape.ParamCount(typ)
	if dof <= 0 {
		return math.Inf(1)
	}

	return ChiSquared(d, typ, theta) / float64(dof)
}

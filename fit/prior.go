package fit

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cwbudde/algo-spectral/dip"
	"github.com/cwbudde/algo-spectral/lineshape"
	"github.com/cwbudde/algo-spectral/spectrum"
)

// Prior is a one-dimensional prior distribution for a single parameter.
type Prior interface {
	// LogProb returns the log prior density at x (-Inf outside support).
	LogProb(x float64) float64

	// Draw samples one value using the given generator.
	Draw(rng *rand.Rand) float64

	// Scale returns a characteristic width used to size MCMC proposals.
	Scale() float64
}

// Uniform is a flat prior on the closed interval [Lo, Hi].
type Uniform struct {
	Lo, Hi float64
}

// LogProb implements [Prior].
func (u Uniform) LogProb(x float64) float64 {
	return distuv.Uniform{Min: u.Lo, Max: u.Hi}.LogProb(x)
}

// Draw implements [Prior].
func (u Uniform) Draw(rng *rand.Rand) float64 {
	return u.Lo + rng.Float64()*(u.Hi-u.Lo)
}

// Scale implements [Prior].
func (u Uniform) Scale() float64 {
	return u.Hi - u.Lo
}

// Normal is a Gaussian prior with mean Mu and standard deviation Sigma.
type Normal struct {
	Mu, Sigma float64
}

// LogProb implements [Prior].
func (n Normal) LogProb(x float64) float64 {
	return distuv.Normal{Mu: n.Mu, Sigma: n.Sigma}.LogProb(x)
}

// Draw implements [Prior].
func (n Normal) Draw(rng *rand.Rand) float64 {
	return n.Mu + n.Sigma*rng.NormFloat64()
}

// Scale implements [Prior].
func (n Normal) Scale() float64 {
	return n.Sigma
}

// Priors holds one prior per packed profile parameter.
type Priors []Prior

// Validate checks the prior count against the profile's parameter count.
func (pr Priors) Validate(typ lineshape.Type) error {
	if len(pr) != lineshape.ParamCount(typ) {
		return fmt.Errorf("fit: %v wants %d priors, got %d",
			typ, lineshape.ParamCount(typ), len(pr))
	}

	for i, p := range pr {
		if p == nil {
			return fmt.Errorf("fit: prior %d is nil", i)
		}
	}

	return nil
}

// LogPrior sums the per-parameter log densities.
func (pr Priors) LogPrior(theta []float64) float64 {
	if len(theta) != len(pr) {
		return math.Inf(-1)
	}

	var lp float64
	for i, p := range pr {
		lp += p.LogProb(theta[i])
		if math.IsInf(lp, -1) {
			return math.Inf(-1)
		}
	}

	return lp
}

// Draw samples a complete parameter vector from the priors.
func (pr Priors) Draw(rng *rand.Rand) []float64 {
	theta := make([]float64, len(pr))
	for i, p := range pr {
		theta[i] = p.Draw(rng)
	}

	return theta
}

// ParamNames returns the packed parameter names for the profile type.
func ParamNames(typ lineshape.Type) []string {
	names := []string{"depth", "center", "width", "offset"}
	if typ == lineshape.TypePseudoVoigt {
		names = append(names, "eta")
	}

	return names
}

// DefaultPriors derives weakly informative priors from the fit window and
// the located dip: the center stays inside the window, the width between one
// grid step and the window span, the depth below twice the dip prominence,
// and the continuum offset near the window shoulders.
func DefaultPriors(typ lineshape.Type, win spectrum.Spectrum, d dip.Dip) (Priors, error) {
	if win.Len() < 2 {
		return nil, fmt.Errorf("fit: default priors: %w", spectrum.ErrTooShort)
	}

	lo, hi := win.Range()
	span := hi - lo
	step := span / float64(win.Len()-1)

	maxDepth := 2 * d.Prominence
	if maxDepth <= 0 {
		maxDepth = 2 * fluxRange(win)
	}
	if maxDepth <= 0 {
		return nil, fmt.Errorf("fit: default priors: %w", dip.ErrNoDip)
	}

	shoulder := 0.5 * (win.Flux[0] + win.Flux[win.Len()-1])

	offsetScale := d.Prominence
	if offsetScale <= 0 {
		offsetScale = fluxRange(win)
	}

	priors := Priors{
		Uniform{Lo: 0, Hi: maxDepth},             // depth
		Uniform{Lo: lo, Hi: hi},                  // center
		Uniform{Lo: step, Hi: span},              // width
		Normal{Mu: shoulder, Sigma: offsetScale}, // offset
	}

	if typ == lineshape.TypePseudoVoigt {
		priors = append(priors, Uniform{Lo: 0, Hi: 1}) // eta
	}

	return priors, nil
}

func fluxRange(s spectrum.Spectrum) float64 {
	if s.Len() == 0 {
		return 0
	}

	minVal, maxVal := s.Flux[0], s.Flux[0]
	for _, v := range s.Flux[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}

	return maxVal - minVal
}

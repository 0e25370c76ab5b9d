package fit_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-spectral/dip"
	"github.com/cwbudde/algo-spectral/fit"
	"github.com/cwbudde/algo-spectral/internal/testutil"
	"github.com/cwbudde/algo-spectral/lineshape"
)

func TestUniformPrior(t *testing.T) {
	u := fit.Uniform{Lo: 2, Hi: 4}

	require.True(t, math.IsInf(u.LogProb(1.9), -1))
	require.True(t, math.IsInf(u.LogProb(4.1), -1))
	require.InDelta(t, math.Log(0.5), u.LogProb(3), 1e-12)
	require.Equal(t, 2.0, u.Scale())

	rng := rand.New(rand.NewSource(1))
	for range 100 {
		v := u.Draw(rng)
		require.GreaterOrEqual(t, v, 2.0)
		require.LessOrEqual(t, v, 4.0)
	}
}

func TestNormalPrior(t *testing.T) {
	n := fit.Normal{Mu: 1, Sigma: 0.5}

	require.Equal(t, 0.5, n.Scale())
	require.Greater(t, n.LogProb(1), n.LogProb(2))

	rng := rand.New(rand.NewSource(1))
	var acc float64
	const draws = 20000
	for range draws {
		acc += n.Draw(rng)
	}
	require.InDelta(t, 1.0, acc/draws, 0.02)
}

func TestPriorsLogPrior(t *testing.T) {
	pr := fit.Priors{
		fit.Uniform{Lo: 0, Hi: 1},
		fit.Normal{Mu: 0, Sigma: 1},
	}

	require.False(t, math.IsInf(pr.LogPrior([]float64{0.5, 0}), -1))
	require.True(t, math.IsInf(pr.LogPrior([]float64{2, 0}), -1))
	require.True(t, math.IsInf(pr.LogPrior([]float64{0.5}), -1), "wrong arity")
}

func TestPriorsValidate(t *testing.T) {
	pr := fit.Priors{fit.Uniform{Lo: 0, Hi: 1}}
	require.Error(t, pr.Validate(lineshape.TypeGaussian))

	pr = fit.Priors{
		fit.Uniform{Lo: 0, Hi: 1},
		fit.Uniform{Lo: 0, Hi: 1},
		fit.Uniform{Lo: 0, Hi: 1},
		nil,
	}
	require.Error(t, pr.Validate(lineshape.TypeGaussian))
}

func TestDefaultPriors(t *testing.T) {
	s := testutil.Continuum(201, 6550, 6570, 0)
	s = testutil.InjectLine(s, lineshape.TypeGaussian, truth)

	d, err := dip.Find(s)
	require.NoError(t, err)

	win, err := dip.Window(s, d, 4)
	require.NoError(t, err)

	pr, err := fit.DefaultPriors(lineshape.TypeGaussian, win, d)
	require.NoError(t, err)
	require.Len(t, pr, 4)

	// The true parameter vector must have prior support.
	lp := pr.LogPrior(truth.Pack(lineshape.TypeGaussian))
	require.False(t, math.IsInf(lp, -1))

	// Pseudo-Voigt adds the mixing fraction.
	prv, err := fit.DefaultPriors(lineshape.TypePseudoVoigt, win, d)
	require.NoError(t, err)
	require.Len(t, prv, 5)
}

func TestParamNames(t *testing.T) {
	require.Equal(t, []string{"depth", "center", "width", "offset"},
		fit.ParamNames(lineshape.TypeGaussian))
	require.Equal(t, []string{"depth", "center", "width", "offset", "eta"},
		fit.ParamNames(lineshape.TypePseudoVoigt))
}

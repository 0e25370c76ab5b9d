package fit

import (
	"fmt"
	"math"

	"github.com/maorshutman/lm"

	"github.com/cwbudde/algo-spectral/lineshape"
)

// LeastSquares refines init with a sigma-weighted Levenberg-Marquardt fit
// and returns the optimized parameter vector. The data must have passed
// through [Data.Normalize]. Non-finite results are rejected.
func LeastSquares(d Data, typ lineshape.Type, init []float64) ([]float64, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	dim := lineshape.ParamCount(typ)
	if len(init) != dim {
		return nil, fmt.Errorf("fit: least squares: %v wants %d parameters, got %d",
			typ, dim, len(init))
	}

	residuals := func(dst, guess []float64) {
		p, err := lineshape.Unpack(typ, guess)
		if err != nil {
			for i := range dst {
				dst[i] = math.Inf(1)
			}
			return
		}

		for i, x := range d.X {
			dst[i] = (lineshape.Eval(typ, p, x) - d.Y[i]) / d.Sigma[i]
		}
	}

	jacobian := lm.NumJac{Func: residuals}

	problem := lm.LMProblem{
		Dim:        dim,
		Size:       d.Len(),
		Func:       residuals,
		Jac:        jacobian.Jac,
		InitParams: append([]float64(nil), init...),
		Tau:        1e-6,
		Eps1:       1e-8,
		Eps2:       1e-8,
	}

	results, err := lm.LM(problem, &lm.Settings{Iterations: 100, ObjectiveTol: 1e-16})
	if err != nil {
		return nil, fmt.Errorf("fit: least squares: %w", err)
	}

	theta := append([]float64(nil), results.X...)

	// The profile is symmetric in the width sign.
	theta[2] = math.Abs(theta[2])

	for i, v := range theta {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("fit: least squares: parameter %d is not finite: %v", i, v)
		}
	}

	return theta, nil
}

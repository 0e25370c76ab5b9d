package fit

import (
	"math"

	"github.com/cwbudde/algo-spectral/stats/sample"
)

// GelmanRubin computes the split-R-hat convergence statistic per parameter.
// chains is indexed [chain][draw][parameter]; every chain is split in half,
// so even a single chain yields a meaningful value. Parameters with no
// between-half variance return 1. Chains shorter than 4 draws return NaN.
func GelmanRubin(chains [][][]float64) []float64 {
	if len(chains) == 0 || len(chains[0]) == 0 {
		return nil
	}

	dim := len(chains[0][0])
	rhat := make([]float64, dim)

	for p := range dim {
		rhat[p] = splitRHat(chains, p)
	}

	return rhat
}

func splitRHat(chains [][][]float64, p int) float64 {
	// Split every chain into halves of equal length.
	var halves [][]float64

	for _, chain := range chains {
		n := len(chain) / 2
		if n < 2 {
			return math.NaN()
		}

		first := make([]float64, n)
		second := make([]float64, n)
		for i := range n {
			first[i] = chain[i][p]
			second[i] = chain[len(chain)-n+i][p]
		}

		halves = append(halves, first, second)
	}

	m := float64(len(halves))
	n := float64(len(halves[0]))

	means := make([]float64, len(halves))
	variances := make([]float64, len(halves))

	for i, h := range halves {
		s := sample.Calculate(h)
		means[i] = s.Mean
		// Unbiased within-half variance.
		variances[i] = s.Variance * n / (n - 1)
	}

	grand := sample.Mean(means)

	var between float64
	for _, mu := range means {
		d := mu - grand
		between += d * d
	}
	between *= n / (m - 1)

	within := sample.Mean(variances)
	if within == 0 {
		return 1
	}

	pooled := (n-1)/n*within + between/n

	return math.Sqrt(pooled / within)
}

// Converged reports whether every parameter's R-hat is below the given
// threshold (1.05 is a common choice).
func Converged(rhat []float64, threshold float64) bool {
	for _, r := range rhat {
		if math.IsNaN(r) || r > threshold {
			return false
		}
	}

	return len(rhat) > 0
}

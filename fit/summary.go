package fit

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-spectral/stats/sample"
)

// Summary describes the marginal posterior of one parameter.
type Summary struct {
	Name   string
	N      int
	Mean   float64
	Std    float64
	Median float64
	P16    float64 // 16th percentile (lower 1-sigma credible bound)
	P84    float64 // 84th percentile (upper 1-sigma credible bound)
}

// String formats the summary as "name = mean ± std [p16, p84]".
func (s Summary) String() string {
	return fmt.Sprintf("%s = %.6g ± %.3g [%.6g, %.6g]", s.Name, s.Mean, s.Std, s.P16, s.P84)
}

// Summarize computes moment and quantile summaries of one parameter's
// posterior draws.
func Summarize(name string, samples []float64) Summary {
	if len(samples) == 0 {
		return Summary{Name: name}
	}

	st := sample.Calculate(samples)

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	return Summary{
		Name:   name,
		N:      st.N,
		Mean:   st.Mean,
		Std:    st.Std,
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P16:    stat.Quantile(0.16, stat.Empirical, sorted, nil),
		P84:    stat.Quantile(0.84, stat.Empirical, sorted, nil),
	}
}

// Package sample computes one-pass statistics of parameter sample vectors,
// such as the per-parameter posterior draws produced by an MCMC run.
package sample

import "math"

// Stats holds moment statistics of a sample vector.
type Stats struct {
	N        int
	Mean     float64
	Variance float64 // population variance
	Std      float64
	Skewness float64
	Kurtosis float64 // excess kurtosis
	Min      float64
	MinPos   int
	Max      float64
	MaxPos   int
	Range    float64
}

// Calculate computes all statistics in a single pass using Welford's online
// algorithm for numerical stability on higher-order moments.
func Calculate(samples []float64) Stats {
	var acc Accumulator
	acc.Update(samples)
	return acc.Result()
}

// Moments returns the mean, population variance, skewness, and excess
// kurtosis of the sample vector.
func Moments(samples []float64) (mean, variance, skewness, kurtosis float64) {
	s := Calculate(samples)
	return s.Mean, s.Variance, s.Skewness, s.Kurtosis
}

// Mean returns the arithmetic mean using Kahan summation.
func Mean(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum, c float64
	for _, x := range samples {
		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}

	return sum / float64(len(samples))
}

// Std returns the population standard deviation.
func Std(samples []float64) float64 {
	return Calculate(samples).Std
}

// Accumulator accumulates statistics incrementally across multiple blocks
// of samples. It processes each value individually to guarantee bit-for-bit
// identical results with [Calculate].
type Accumulator struct {
	n       int
	mean    float64
	m2      float64
	m3      float64
	m4      float64
	minVal  float64
	minPos  int
	maxVal  float64
	maxPos  int
	hasData bool
}

// Update adds a block of samples to the running statistics.
func (a *Accumulator) Update(samples []float64) {
	for _, x := range samples {
		a.n++
		ni := float64(a.n)

		// Welford update. M4 before M3, M3 before M2.
		delta := x - a.mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(a.n-1)

		a.m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*a.m2 - 4*deltaN*a.m3
		a.m3 += term1*deltaN*(float64(a.n-1)-1) - 3*deltaN*a.m2
		a.m2 += term1
		a.mean += deltaN

		if !a.hasData {
			a.minVal, a.maxVal = x, x
			a.minPos, a.maxPos = a.n-1, a.n-1
			a.hasData = true

			continue
		}

		if x < a.minVal {
			a.minVal = x
			a.minPos = a.n - 1
		}

		if x > a.maxVal {
			a.maxVal = x
			a.maxPos = a.n - 1
		}
	}
}

// Result computes the final statistics from accumulated data.
func (a *Accumulator) Result() Stats {
	if a.n == 0 {
		return Stats{}
	}

	nf := float64(a.n)
	variance := a.m2 / nf

	var skewness, kurtosis float64
	if variance > 0 {
		skewness = (a.m3 / nf) / (variance * math.Sqrt(variance))
		kurtosis = (a.m4/nf)/(variance*variance) - 3
	}

	return Stats{
		N:        a.n,
		Mean:     a.mean,
		Variance: variance,
		Std:      math.Sqrt(variance),
		Skewness: skewness,
		Kurtosis: kurtosis,
		Min:      a.minVal,
		MinPos:   a.minPos,
		Max:      a.maxVal,
		MaxPos:   a.maxPos,
		Range:    a.maxVal - a.minVal,
	}
}

// Reset clears all accumulated data, allowing the Accumulator to be reused.
func (a *Accumulator) Reset() {
	*a = Accumulator{}
}
